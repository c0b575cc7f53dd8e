// Package services contains the application services behind the HTTP
// controllers: the device-binding authenticator and the account service.
package services

import (
	"context"
	"fmt"

	"github.com/andrepriyanto/cctvadmin/apperrors"
	"github.com/andrepriyanto/cctvadmin/models"
	"github.com/andrepriyanto/cctvadmin/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// UserStore is the persistence contract for user credentials and device
// bindings. Lookup misses return a NotFound-kinded error.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByDeviceToken(ctx context.Context, token string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	// EmailTaken reports whether email is used by a user other than excludeID.
	// Pass the zero ObjectID to check against all users.
	EmailTaken(ctx context.Context, email string, excludeID bson.ObjectID) (bool, error)
	// BindDeviceToken sets the user's device token iff it is currently unset
	// or already equal to token. The check and write are one atomic
	// operation; a Conflict-kinded error means the account was bound to a
	// different device, or the token is held by another account.
	BindDeviceToken(ctx context.Context, id bson.ObjectID, token string) error
	ClearDeviceToken(ctx context.Context, id bson.ObjectID) error
	UpdateProfile(ctx context.Context, id bson.ObjectID, name, email string, passwordHash *string) error
}

// TokenIssuer mints signed bearer tokens.
type TokenIssuer interface {
	Issue(userID, username, role string) (token string, expiresIn int64, err error)
}

// Identity is the authenticated caller, resolved from the bearer token by the
// auth middleware and passed explicitly to every operation that needs it.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// TokenResult is what a successful login or refresh returns.
type TokenResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
}

// AuthService gates token issuance behind credential and device-binding
// checks. One account may be active on at most one device: the first login
// binds the presented device token, and the binding holds until logout.
type AuthService struct {
	users  UserStore
	tokens TokenIssuer
	logger *zap.Logger
}

func NewAuthService(users UserStore, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Login authenticates the credentials and enforces the device binding.
// The only state it may touch is the user's deviceToken field, and only on
// the first login from an unbound account.
func (s *AuthService) Login(ctx context.Context, username, password, deviceToken string) (*TokenResult, error) {
	if username == "" {
		return nil, apperrors.New(apperrors.Validation, apperrors.MsgUsernameRequired)
	}
	if password == "" {
		return nil, apperrors.New(apperrors.Validation, apperrors.MsgPasswordRequired)
	}
	if deviceToken == "" {
		return nil, apperrors.New(apperrors.Validation, apperrors.MsgDeviceTokenRequired)
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.NotFound {
			return nil, apperrors.New(apperrors.Auth, apperrors.MsgUnauthorized)
		}
		return nil, err
	}
	if err := utils.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.New(apperrors.Auth, apperrors.MsgUnauthorized)
	}
	if !user.IsActive {
		return nil, apperrors.New(apperrors.Auth, apperrors.MsgUnauthorized)
	}

	switch {
	case user.DeviceToken != nil && *user.DeviceToken != deviceToken:
		// Bound to a different device. No state changes.
		return nil, apperrors.New(apperrors.Conflict, apperrors.MsgAccountOnOtherDevice)

	case user.DeviceToken == nil:
		// Advisory pre-check so the conflict can name the blocking account;
		// the partial unique index and the conditional bind are the real
		// guards.
		holder, err := s.users.FindByDeviceToken(ctx, deviceToken)
		switch {
		case err == nil && holder.ID != user.ID:
			return nil, apperrors.New(apperrors.Conflict,
				fmt.Sprintf(apperrors.MsgDeviceBoundToOtherFmt, holder.Username))
		case err != nil && apperrors.KindOf(err) != apperrors.NotFound:
			return nil, err
		}

		if err := s.users.BindDeviceToken(ctx, user.ID, deviceToken); err != nil {
			return nil, err
		}
		s.logger.Info("device bound",
			zap.String("username", user.Username),
			zap.String("user_id", user.ID.Hex()))

	default:
		// Repeat login from the same device; nothing to mutate.
	}

	token, expiresIn, err := s.tokens.Issue(user.ID.Hex(), user.Username, string(user.Role))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "failed to issue token", err)
	}
	return &TokenResult{AccessToken: token, TokenType: "bearer", ExpiresIn: expiresIn}, nil
}

// Logout releases the caller's device binding. Already-issued tokens keep
// working until they expire; there is no revocation store.
func (s *AuthService) Logout(ctx context.Context, ident Identity) error {
	id, err := bson.ObjectIDFromHex(ident.UserID)
	if err != nil {
		return apperrors.New(apperrors.Auth, apperrors.MsgUnauthorized)
	}
	if err := s.users.ClearDeviceToken(ctx, id); err != nil {
		return err
	}
	s.logger.Info("device released", zap.String("username", ident.Username))
	return nil
}

// Refresh issues a fresh token for an already-validated identity. It trusts
// the middleware's token check and deliberately does not consult the device
// binding.
func (s *AuthService) Refresh(ctx context.Context, ident Identity) (*TokenResult, error) {
	token, expiresIn, err := s.tokens.Issue(ident.UserID, ident.Username, ident.Role)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "failed to issue token", err)
	}
	return &TokenResult{AccessToken: token, TokenType: "bearer", ExpiresIn: expiresIn}, nil
}
