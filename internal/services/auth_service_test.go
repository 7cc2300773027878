package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"storefront-service/internal/clients"
	"storefront-service/internal/models"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestTokenExpired(t *testing.T) {
	assert.False(t, TokenExpired(signedToken(t, time.Now().Add(time.Hour))))
	assert.True(t, TokenExpired(signedToken(t, time.Now().Add(-time.Hour))))
	assert.False(t, TokenExpired("opaque-session-token"))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte("k"))
	require.NoError(t, err)
	assert.False(t, TokenExpired(noExp))
}

func TestLogin_StoresSession(t *testing.T) {
	backend := new(MockBackend)
	sessions, _ := newTestSessions()
	svc := NewAuthService(backend, sessions, testLogger())
	token := signedToken(t, time.Now().Add(time.Hour))
	backend.On("Login", mock.Anything, "admin@shop.test", "pw").
		Return(&models.LoginResponse{AccessToken: token, User: models.User{Name: "Admin", Role: "admin"}}, nil)

	auth, err := svc.Login(context.Background(), "s1", " admin@shop.test ", "pw")

	require.NoError(t, err)
	assert.Equal(t, token, auth.Token)
	assert.Equal(t, "/admin", LandingPath(auth))

	current, err := svc.Current(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Admin", current.User.Name)
	assert.Equal(t, "admin@shop.test", current.User.Email)
}

func TestLogin_BackendRejects(t *testing.T) {
	backend := new(MockBackend)
	sessions, _ := newTestSessions()
	svc := NewAuthService(backend, sessions, testLogger())
	backend.On("Login", mock.Anything, "a@b.co", "bad").
		Return(nil, &clients.APIError{Status: 401, Detail: "Email atau password salah"})

	_, err := svc.Login(context.Background(), "s1", "a@b.co", "bad")

	var apiErr *clients.APIError
	require.ErrorAs(t, err, &apiErr)
	_, err = svc.Current(context.Background(), "s1")
	assert.Equal(t, ErrNotAuthenticated, err)
}

func TestLogin_RequiresCredentials(t *testing.T) {
	backend := new(MockBackend)
	sessions, _ := newTestSessions()
	svc := NewAuthService(backend, sessions, testLogger())

	_, err := svc.Login(context.Background(), "s1", "  ", "pw")

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	backend.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_DoesNotLogIn(t *testing.T) {
	backend := new(MockBackend)
	sessions, _ := newTestSessions()
	svc := NewAuthService(backend, sessions, testLogger())
	backend.On("Register", mock.Anything, "Budi", "budi@shop.test", "pw").Return(nil)

	require.NoError(t, svc.Register(context.Background(), " Budi ", "budi@shop.test", "pw"))

	_, err := svc.Current(context.Background(), "s1")
	assert.Equal(t, ErrNotAuthenticated, err)
	backend.AssertExpectations(t)
}

func TestLogout_And_RequireAdmin(t *testing.T) {
	backend := new(MockBackend)
	sessions, _ := newTestSessions()
	svc := NewAuthService(backend, sessions, testLogger())
	backend.On("Login", mock.Anything, "user@shop.test", "pw").
		Return(&models.LoginResponse{AccessToken: "opaque", User: models.User{Name: "User", Role: "customer"}}, nil)

	auth, err := svc.Login(context.Background(), "s1", "user@shop.test", "pw")
	require.NoError(t, err)
	assert.Equal(t, "/", LandingPath(auth))

	_, err = svc.RequireAdmin(context.Background(), "s1")
	assert.Equal(t, ErrForbidden, err)

	svc.Logout(context.Background(), "s1")

	_, err = svc.RequireAdmin(context.Background(), "s1")
	assert.Equal(t, ErrNotAuthenticated, err)
}
