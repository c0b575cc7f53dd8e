package services

import (
	"context"
	"testing"

	"github.com/andrepriyanto/cctvadmin/apperrors"
	"github.com/andrepriyanto/cctvadmin/models"
	"github.com/andrepriyanto/cctvadmin/utils"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAccounts(store *fakeUserStore) *AccountService {
	return NewAccountService(store, zap.NewNop())
}

func validRegister() RegisterInput {
	return RegisterInput{
		Name:            "Alice Smith",
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "pw12345",
		PasswordConfirm: "pw12345",
	}
}

func TestRegisterFirstViolationWins(t *testing.T) {
	store := newFakeUserStore()
	store.add(t, "taken", "pw12345")
	svc := newTestAccounts(store)
	ctx := context.Background()

	mutate := func(fn func(*RegisterInput)) RegisterInput {
		in := validRegister()
		fn(&in)
		return in
	}

	tests := []struct {
		name     string
		in       RegisterInput
		wantKind apperrors.Kind
		wantMsg  string
	}{
		{"missing name", mutate(func(i *RegisterInput) { i.Name = "" }), apperrors.Validation, apperrors.MsgNameRequired},
		{"missing username", mutate(func(i *RegisterInput) { i.Username = "" }), apperrors.Validation, apperrors.MsgUsernameRequired},
		{"taken username", mutate(func(i *RegisterInput) { i.Username = "taken" }), apperrors.Conflict, apperrors.MsgUsernameTaken},
		{"missing email", mutate(func(i *RegisterInput) { i.Email = "" }), apperrors.Validation, apperrors.MsgEmailRequired},
		{"invalid email", mutate(func(i *RegisterInput) { i.Email = "not-an-email" }), apperrors.Validation, apperrors.MsgEmailInvalid},
		{"taken email", mutate(func(i *RegisterInput) { i.Email = "taken@example.com" }), apperrors.Conflict, apperrors.MsgEmailTaken},
		{"missing password", mutate(func(i *RegisterInput) { i.Password = "" }), apperrors.Validation, apperrors.MsgPasswordRequired},
		{"short password", mutate(func(i *RegisterInput) { i.Password = "pw12"; i.PasswordConfirm = "pw12" }), apperrors.Validation, apperrors.MsgPasswordTooShort},
		{"missing confirmation", mutate(func(i *RegisterInput) { i.PasswordConfirm = "" }), apperrors.Validation, apperrors.MsgPasswordConfirmRequired},
		{"mismatched confirmation", mutate(func(i *RegisterInput) { i.PasswordConfirm = "different" }), apperrors.Validation, apperrors.MsgPasswordConfirmMismatch},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Register(ctx, tc.in)
			require.Error(t, err)
			require.Equal(t, tc.wantKind, apperrors.KindOf(err))
			require.Equal(t, tc.wantMsg, apperrors.MessageOf(err))
		})
	}

	// nothing was written by any failed attempt
	_, exists := store.byUsername["alice"]
	require.False(t, exists)
}

func TestRegisterCreatesOperatorAccount(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestAccounts(store)

	require.NoError(t, svc.Register(context.Background(), validRegister()))

	u, exists := store.byUsername["alice"]
	require.True(t, exists)
	require.Equal(t, models.RoleOperatorCCTV, u.Role)
	require.True(t, u.IsActive)
	require.Nil(t, u.DeviceToken)
	require.NoError(t, utils.CheckPassword(u.PasswordHash, "pw12345"))
	require.Error(t, utils.CheckPassword(u.PasswordHash, "wrong"))
}

func TestUpdateKeepsPasswordWhenEmpty(t *testing.T) {
	store := newFakeUserStore()
	alice := store.add(t, "alice", "pw12345")
	svc := newTestAccounts(store)
	ident := Identity{UserID: alice.ID.Hex(), Username: "alice"}
	ctx := context.Background()

	oldHash := alice.PasswordHash
	err := svc.Update(ctx, ident, UpdateProfileInput{Name: "Alice S.", Email: "alice2@example.com"})
	require.NoError(t, err)

	u := store.byUsername["alice"]
	require.Equal(t, "Alice S.", u.Name)
	require.Equal(t, "alice2@example.com", u.Email)
	require.Equal(t, oldHash, u.PasswordHash)
	require.NoError(t, utils.CheckPassword(u.PasswordHash, "pw12345"))
}

func TestUpdateChangesPassword(t *testing.T) {
	store := newFakeUserStore()
	alice := store.add(t, "alice", "pw12345")
	svc := newTestAccounts(store)
	ident := Identity{UserID: alice.ID.Hex(), Username: "alice"}

	err := svc.Update(context.Background(), ident, UpdateProfileInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "newpw1",
	})
	require.NoError(t, err)

	u := store.byUsername["alice"]
	require.NoError(t, utils.CheckPassword(u.PasswordHash, "newpw1"))
	require.Error(t, utils.CheckPassword(u.PasswordHash, "pw12345"))
}

func TestUpdateValidation(t *testing.T) {
	store := newFakeUserStore()
	alice := store.add(t, "alice", "pw12345")
	svc := newTestAccounts(store)
	ident := Identity{UserID: alice.ID.Hex(), Username: "alice"}
	ctx := context.Background()

	err := svc.Update(ctx, ident, UpdateProfileInput{Name: "", Email: "alice@example.com"})
	require.Equal(t, apperrors.MsgNameRequired, apperrors.MessageOf(err))

	err = svc.Update(ctx, ident, UpdateProfileInput{Name: "Alice", Email: "bad"})
	require.Equal(t, apperrors.MsgEmailInvalid, apperrors.MessageOf(err))

	err = svc.Update(ctx, ident, UpdateProfileInput{Name: "Alice", Email: "alice@example.com", Password: "pw1"})
	require.Equal(t, apperrors.MsgPasswordTooShort, apperrors.MessageOf(err))
}

func TestUpdateRejectsEmailOfAnotherUser(t *testing.T) {
	store := newFakeUserStore()
	alice := store.add(t, "alice", "pw12345")
	store.add(t, "bob", "pw12345")
	svc := newTestAccounts(store)
	ident := Identity{UserID: alice.ID.Hex(), Username: "alice"}
	ctx := context.Background()

	err := svc.Update(ctx, ident, UpdateProfileInput{Name: "Alice", Email: "bob@example.com"})
	require.Equal(t, apperrors.Conflict, apperrors.KindOf(err))
	require.Equal(t, apperrors.MsgEmailTaken, apperrors.MessageOf(err))

	// keeping one's own email is fine
	err = svc.Update(ctx, ident, UpdateProfileInput{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
}

func TestUpdateMissingUser(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestAccounts(store)

	err := svc.Update(context.Background(), Identity{UserID: "000000000000000000000000", Username: "ghost"},
		UpdateProfileInput{Name: "Ghost", Email: "ghost@example.com"})
	require.Equal(t, apperrors.NotFound, apperrors.KindOf(err))
	require.Equal(t, apperrors.MsgUserNotFound, apperrors.MessageOf(err))
}

func TestDetail(t *testing.T) {
	store := newFakeUserStore()
	alice := store.add(t, "alice", "pw12345")
	svc := newTestAccounts(store)
	ctx := context.Background()

	u, err := svc.Detail(ctx, Identity{UserID: alice.ID.Hex(), Username: "alice"})
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)

	_, err = svc.Detail(ctx, Identity{UserID: alice.ID.Hex(), Username: "ghost"})
	require.Equal(t, apperrors.NotFound, apperrors.KindOf(err))
}
