package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"storefront-service/internal/models"
)

// AuthBackend is the auth side of the backend API
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Register(ctx context.Context, name, email, password string) error
}

// AuthService logs sessions in and out against the backend
type AuthService struct {
	backend  AuthBackend
	sessions *SessionManager
	logger   *logrus.Entry
}

func NewAuthService(backend AuthBackend, sessions *SessionManager, logger *logrus.Logger) *AuthService {
	return &AuthService{
		backend:  backend,
		sessions: sessions,
		logger:   logger.WithField("component", "auth_service"),
	}
}

// Login exchanges credentials for a token and stores it on the session
func (s *AuthService) Login(ctx context.Context, sessionID, email, password string) (*models.AuthSession, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, newValidationError(CodeInvalidInput, "email", "email and password are required")
	}

	resp, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, ErrNotAuthenticated
	}

	auth := &models.AuthSession{Token: resp.AccessToken, User: resp.User}
	if auth.User.Email == "" {
		auth.User.Email = email
	}

	unlock := s.sessions.Lock(sessionID)
	defer unlock()

	session := s.sessions.Load(ctx, sessionID)
	session.Auth = auth
	s.sessions.SaveAuth(ctx, session)

	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"role":       auth.User.Role,
	}).Info("Session logged in")
	return auth, nil
}

// Register creates an account. The session stays logged out.
func (s *AuthService) Register(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return newValidationError(CodeInvalidInput, "", "name, email and password are required")
	}
	return s.backend.Register(ctx, name, email, password)
}

// Logout removes the session's auth record
func (s *AuthService) Logout(ctx context.Context, sessionID string) {
	unlock := s.sessions.Lock(sessionID)
	defer unlock()

	session := s.sessions.Load(ctx, sessionID)
	session.Auth = nil
	s.sessions.SaveAuth(ctx, session)
}

// Current returns the session's login, or ErrNotAuthenticated
func (s *AuthService) Current(ctx context.Context, sessionID string) (*models.AuthSession, error) {
	unlock := s.sessions.Lock(sessionID)
	defer unlock()

	auth := s.sessions.Load(ctx, sessionID).Auth
	if auth == nil {
		return nil, ErrNotAuthenticated
	}
	return auth, nil
}

// RequireAdmin returns the session's login if it has the admin role
func (s *AuthService) RequireAdmin(ctx context.Context, sessionID string) (*models.AuthSession, error) {
	auth, err := s.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !auth.IsAdmin() {
		return nil, ErrForbidden
	}
	return auth, nil
}

// LandingPath is where a freshly logged in user belongs
func LandingPath(auth *models.AuthSession) string {
	if auth.IsAdmin() {
		return "/admin"
	}
	return "/"
}

// TokenExpired reports whether token is a JWT whose exp claim lies in the
// past. The signature is not checked and opaque tokens never expire here;
// the backend remains the authority.
func TokenExpired(token string) bool {
	parsed, _, err := new(jwt.Parser).ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	return !claims.VerifyExpiresAt(time.Now().Unix(), false)
}
