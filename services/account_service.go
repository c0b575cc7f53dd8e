package services

import (
	"context"
	"strings"
	"time"

	"github.com/andrepriyanto/cctvadmin/apperrors"
	"github.com/andrepriyanto/cctvadmin/models"
	"github.com/andrepriyanto/cctvadmin/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

const minPasswordLen = 5

type RegisterInput struct {
	Name            string
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

type UpdateProfileInput struct {
	Name     string
	Email    string
	Password string // empty means keep the current password
}

// AccountService handles registration and profile maintenance. It never
// touches device bindings.
type AccountService struct {
	users  UserStore
	logger *zap.Logger
}

func NewAccountService(users UserStore, logger *zap.Logger) *AccountService {
	return &AccountService{users: users, logger: logger}
}

// Register validates the input field by field and creates an operator
// account. The first violation is returned; nothing is written before all
// checks pass.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" {
		return apperrors.New(apperrors.Validation, apperrors.MsgNameRequired)
	}
	if in.Username == "" {
		return apperrors.New(apperrors.Validation, apperrors.MsgUsernameRequired)
	}
	taken, err := s.users.UsernameTaken(ctx, in.Username)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.New(apperrors.Conflict, apperrors.MsgUsernameTaken)
	}
	if in.Email == "" {
		return apperrors.New(apperrors.Validation, apperrors.MsgEmailRequired)
	}
	if !utils.IsValidEmail(in.Email) {
		return apperrors.New(apperrors.Validation, apperrors.MsgEmailInvalid)
	}
	taken, err = s.users.EmailTaken(ctx, in.Email, bson.ObjectID{})
	if err != nil {
		return err
	}
	if taken {
		return apperrors.New(apperrors.Conflict, apperrors.MsgEmailTaken)
	}
	if in.Password == "" {
		return apperrors.New(apperrors.Validation, apperrors.MsgPasswordRequired)
	}
	if len(in.Password) < minPasswordLen {
		return apperrors.New(apperrors.Validation, apperrors.MsgPasswordTooShort)
	}
	if in.PasswordConfirm == "" {
		return apperrors.New(apperrors.Validation, apperrors.MsgPasswordConfirmRequired)
	}
	if in.PasswordConfirm != in.Password {
		return apperrors.New(apperrors.Validation, apperrors.MsgPasswordConfirmMismatch)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "failed to hash password", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           bson.NewObjectID(),
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         models.RoleOperatorCCTV,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}
	s.logger.Info("account registered", zap.String("username", user.Username))
	return nil
}

// Update changes name and email, and the password only when a non-empty one
// is supplied. Email uniqueness is re-checked excluding the caller's own row.
func (s *AccountService) Update(ctx context.Context, ident Identity, in UpdateProfileInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" {
		return apperrors.New(apperrors.Validation, apperrors.MsgNameRequired)
	}
	if in.Email == "" {
		return apperrors.New(apperrors.Validation, apperrors.MsgEmailRequired)
	}
	if !utils.IsValidEmail(in.Email) {
		return apperrors.New(apperrors.Validation, apperrors.MsgEmailInvalid)
	}
	if in.Password != "" && len(in.Password) < minPasswordLen {
		return apperrors.New(apperrors.Validation, apperrors.MsgPasswordTooShort)
	}

	// Defensive: the account may have been deleted since the token was issued.
	user, err := s.users.FindByUsername(ctx, ident.Username)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.NotFound {
			return apperrors.New(apperrors.NotFound, apperrors.MsgUserNotFound)
		}
		return err
	}

	taken, err := s.users.EmailTaken(ctx, in.Email, user.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.New(apperrors.Conflict, apperrors.MsgEmailTaken)
	}

	var hashPtr *string
	if in.Password != "" {
		hash, err := utils.HashPassword(in.Password)
		if err != nil {
			return apperrors.Wrap(apperrors.Internal, "failed to hash password", err)
		}
		hashPtr = &hash
	}

	if err := s.users.UpdateProfile(ctx, user.ID, in.Name, in.Email, hashPtr); err != nil {
		return err
	}
	s.logger.Info("profile updated", zap.String("username", ident.Username))
	return nil
}

// Detail returns the caller's record; the password hash is excluded at
// serialization.
func (s *AccountService) Detail(ctx context.Context, ident Identity) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, ident.Username)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.NotFound {
			return nil, apperrors.New(apperrors.NotFound, apperrors.MsgUserNotFound)
		}
		return nil, err
	}
	return user, nil
}
