package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andrepriyanto/cctvadmin/apperrors"
	"github.com/andrepriyanto/cctvadmin/middleware"
	"github.com/andrepriyanto/cctvadmin/models"
	"github.com/andrepriyanto/cctvadmin/services"
	"github.com/andrepriyanto/cctvadmin/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type memUserStore struct {
	byUsername map[string]*models.User
}

var _ services.UserStore = (*memUserStore)(nil)

func newMemUserStore() *memUserStore {
	return &memUserStore{byUsername: map[string]*models.User{}}
}

func (m *memUserStore) add(t *testing.T, username, password string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	u := &models.User{
		ID:           bson.NewObjectID(),
		Name:         username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         models.RoleOperatorCCTV,
		IsActive:     true,
	}
	m.byUsername[username] = u
	return u
}

func (m *memUserStore) Create(_ context.Context, u *models.User) error {
	if _, ok := m.byUsername[u.Username]; ok {
		return apperrors.New(apperrors.Conflict, apperrors.MsgUsernameTaken)
	}
	cpy := *u
	m.byUsername[u.Username] = &cpy
	return nil
}

func (m *memUserStore) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	for _, u := range m.byUsername {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, apperrors.New(apperrors.NotFound, apperrors.MsgUserNotFound)
}

func (m *memUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := m.byUsername[username]
	if !ok {
		return nil, apperrors.New(apperrors.NotFound, apperrors.MsgUserNotFound)
	}
	c := *u
	return &c, nil
}

func (m *memUserStore) FindByDeviceToken(_ context.Context, token string) (*models.User, error) {
	for _, u := range m.byUsername {
		if u.DeviceToken != nil && *u.DeviceToken == token {
			c := *u
			return &c, nil
		}
	}
	return nil, apperrors.New(apperrors.NotFound, apperrors.MsgUserNotFound)
}

func (m *memUserStore) UsernameTaken(_ context.Context, username string) (bool, error) {
	_, ok := m.byUsername[username]
	return ok, nil
}

func (m *memUserStore) EmailTaken(_ context.Context, email string, excludeID bson.ObjectID) (bool, error) {
	for _, u := range m.byUsername {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserStore) BindDeviceToken(_ context.Context, id bson.ObjectID, token string) error {
	for _, u := range m.byUsername {
		if u.ID != id && u.DeviceToken != nil && *u.DeviceToken == token {
			return apperrors.New(apperrors.Conflict, apperrors.MsgAccountOnOtherDevice)
		}
	}
	for _, u := range m.byUsername {
		if u.ID == id {
			if u.DeviceToken != nil && *u.DeviceToken != token {
				return apperrors.New(apperrors.Conflict, apperrors.MsgAccountOnOtherDevice)
			}
			tok := token
			u.DeviceToken = &tok
			return nil
		}
	}
	return apperrors.New(apperrors.NotFound, apperrors.MsgUserNotFound)
}

func (m *memUserStore) ClearDeviceToken(_ context.Context, id bson.ObjectID) error {
	for _, u := range m.byUsername {
		if u.ID == id {
			u.DeviceToken = nil
			return nil
		}
	}
	return apperrors.New(apperrors.NotFound, apperrors.MsgUserNotFound)
}

func (m *memUserStore) UpdateProfile(_ context.Context, id bson.ObjectID, name, email string, passwordHash *string) error {
	for _, u := range m.byUsername {
		if u.ID == id {
			u.Name = name
			u.Email = email
			if passwordHash != nil {
				u.PasswordHash = *passwordHash
			}
			return nil
		}
	}
	return apperrors.New(apperrors.NotFound, apperrors.MsgUserNotFound)
}

func newTestRouter(store *memUserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	issuer := utils.NewJWTIssuer("test-secret", time.Hour)
	authSvc := services.NewAuthService(store, issuer, logger)
	accountSvc := services.NewAccountService(store, logger)

	r := gin.New()
	auth := r.Group("/auth")
	auth.POST("/login", Login(authSvc))
	auth.POST("/register", Register(accountSvc))

	authed := auth.Group("")
	authed.Use(middleware.AuthMiddleware(issuer))
	{
		authed.POST("/logout", Logout(authSvc))
		authed.POST("/refresh", Refresh(authSvc))
		authed.POST("/update", UpdateProfile(accountSvc))
		authed.GET("/detail", Detail(accountSvc))
	}
	return r
}

func doJSON(r *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestLoginEndpoint(t *testing.T) {
	store := newMemUserStore()
	store.add(t, "alice", "pw12345")
	r := newTestRouter(store)

	w := doJSON(r, http.MethodPost, "/auth/login", "", gin.H{
		"username": "alice", "password": "pw12345", "device_token": "D1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.NotEmpty(t, body["access_token"])
	require.Equal(t, "bearer", body["token_type"])
	require.EqualValues(t, 3600, body["expires_in"])
}

func TestLoginEndpointMissingDeviceToken(t *testing.T) {
	store := newMemUserStore()
	store.add(t, "alice", "pw12345")
	r := newTestRouter(store)

	w := doJSON(r, http.MethodPost, "/auth/login", "", gin.H{
		"username": "alice", "password": "pw12345",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, "error", body["status"])
	require.Equal(t, apperrors.MsgDeviceTokenRequired, body["message"])
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	store := newMemUserStore()
	store.add(t, "alice", "pw12345")
	r := newTestRouter(store)

	w := doJSON(r, http.MethodPost, "/auth/login", "", gin.H{
		"username": "alice", "password": "wrong", "device_token": "D1",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, "Unauthorized", body["error"])
}

func TestLoginEndpointDeviceConflict(t *testing.T) {
	store := newMemUserStore()
	alice := store.add(t, "alice", "pw12345")
	d1 := "D1"
	alice.DeviceToken = &d1
	r := newTestRouter(store)

	w := doJSON(r, http.MethodPost, "/auth/login", "", gin.H{
		"username": "alice", "password": "pw12345", "device_token": "D2",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, "error", body["status"])
	require.Equal(t, apperrors.MsgAccountOnOtherDevice, body["message"])
}

func TestLogoutEndpoint(t *testing.T) {
	store := newMemUserStore()
	store.add(t, "alice", "pw12345")
	r := newTestRouter(store)

	// no token
	w := doJSON(r, http.MethodPost, "/auth/logout", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	login := doJSON(r, http.MethodPost, "/auth/login", "", gin.H{
		"username": "alice", "password": "pw12345", "device_token": "D1",
	})
	require.Equal(t, http.StatusOK, login.Code)
	token := decodeBody(t, login)["access_token"].(string)

	w = doJSON(r, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Successfully logged out", decodeBody(t, w)["message"])
	require.Nil(t, store.byUsername["alice"].DeviceToken)
}

func TestRefreshEndpoint(t *testing.T) {
	store := newMemUserStore()
	store.add(t, "alice", "pw12345")
	r := newTestRouter(store)

	login := doJSON(r, http.MethodPost, "/auth/login", "", gin.H{
		"username": "alice", "password": "pw12345", "device_token": "D1",
	})
	token := decodeBody(t, login)["access_token"].(string)

	w := doJSON(r, http.MethodPost, "/auth/refresh", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.NotEmpty(t, body["access_token"])
	require.Equal(t, "bearer", body["token_type"])

	w = doJSON(r, http.MethodPost, "/auth/refresh", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterEndpoint(t *testing.T) {
	store := newMemUserStore()
	r := newTestRouter(store)

	w := doJSON(r, http.MethodPost, "/auth/register", "", gin.H{
		"name": "Bob", "username": "bob", "email": "bob@example.com",
		"password": "pw12345", "passwordConfirm": "pw12345",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, "success", body["status"])

	// first validation error comes back readable
	w = doJSON(r, http.MethodPost, "/auth/register", "", gin.H{
		"name": "Bob", "username": "bob2", "email": "bob2@example.com",
		"password": "pw1", "passwordConfirm": "pw1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, apperrors.MsgPasswordTooShort, decodeBody(t, w)["message"])
}

func TestDetailEndpointHidesPasswordHash(t *testing.T) {
	store := newMemUserStore()
	store.add(t, "alice", "pw12345")
	r := newTestRouter(store)

	login := doJSON(r, http.MethodPost, "/auth/login", "", gin.H{
		"username": "alice", "password": "pw12345", "device_token": "D1",
	})
	token := decodeBody(t, login)["access_token"].(string)

	w := doJSON(r, http.MethodGet, "/auth/detail", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, "success", body["status"])
	data := body["data"].(map[string]any)
	require.Equal(t, "alice", data["username"])
	require.NotContains(t, w.Body.String(), "passwordHash")
	require.NotContains(t, w.Body.String(), "$2a$")
}

func TestUpdateEndpoint(t *testing.T) {
	store := newMemUserStore()
	store.add(t, "alice", "pw12345")
	r := newTestRouter(store)

	login := doJSON(r, http.MethodPost, "/auth/login", "", gin.H{
		"username": "alice", "password": "pw12345", "device_token": "D1",
	})
	token := decodeBody(t, login)["access_token"].(string)

	w := doJSON(r, http.MethodPost, "/auth/update", token, gin.H{
		"name": "Alice Smith", "email": "alice@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "success", decodeBody(t, w)["status"])
	require.Equal(t, "Alice Smith", store.byUsername["alice"].Name)
}
