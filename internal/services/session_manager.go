package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
	"storefront-service/internal/cart"
	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
	"storefront-service/internal/repository"
)

// Session is the restored client state of one storefront session
type Session struct {
	ID      string
	Cart    *cart.Ledger
	Auth    *models.AuthSession
	Filters catalog.FilterState
	Coupon  string
}

// SessionManager restores and persists session state and serialises work
// on a single session. Persistence failures are logged and swallowed; the
// in-memory mutation the caller made still stands.
type SessionManager struct {
	store  repository.SessionStore
	locks  *keyedMutex
	logger *logrus.Entry
}

// NewSessionManager creates a session manager on top of store
func NewSessionManager(store repository.SessionStore, logger *logrus.Logger) *SessionManager {
	return &SessionManager{
		store:  store,
		locks:  newKeyedMutex(),
		logger: logger.WithField("component", "session_manager"),
	}
}

// Lock takes the session's mutex and returns its release func
func (m *SessionManager) Lock(sessionID string) func() {
	return m.locks.Lock(sessionID)
}

// Load restores every key of a session. Missing or malformed keys come
// back as their empty defaults.
func (m *SessionManager) Load(ctx context.Context, sessionID string) *Session {
	s := &Session{
		ID:      sessionID,
		Filters: catalog.DefaultFilterState(),
	}

	s.Cart = cart.Restore(m.read(ctx, sessionID, models.SessionKeyCart))
	s.Auth = m.restoreAuth(ctx, sessionID)
	if raw := m.read(ctx, sessionID, models.SessionKeyFilters); raw != nil {
		s.Filters = catalog.ParseRawQuery(string(raw))
	}
	s.Coupon = string(m.read(ctx, sessionID, models.SessionKeyCoupon))

	return s
}

func (m *SessionManager) read(ctx context.Context, sessionID, key string) []byte {
	data, err := m.store.Get(ctx, sessionID, key)
	if err != nil {
		m.logger.WithError(err).WithFields(logrus.Fields{
			"session_id": sessionID,
			"key":        key,
		}).Warn("Failed to read session state")
		return nil
	}
	return data
}

func (m *SessionManager) restoreAuth(ctx context.Context, sessionID string) *models.AuthSession {
	raw := m.read(ctx, sessionID, models.SessionKeyAuth)
	if raw == nil {
		return nil
	}
	var auth models.AuthSession
	if err := json.Unmarshal(raw, &auth); err != nil {
		m.logger.WithField("session_id", sessionID).Debug("Discarding malformed auth record")
		return nil
	}
	if auth.Token == "" {
		return nil
	}
	if TokenExpired(auth.Token) {
		m.logger.WithField("session_id", sessionID).Debug("Stored access token has expired")
		return nil
	}
	return &auth
}

// SaveCart persists the session's ledger
func (m *SessionManager) SaveCart(ctx context.Context, s *Session) {
	data, err := cart.Marshal(s.Cart)
	if err != nil {
		m.logger.WithError(err).WithField("session_id", s.ID).Warn("Failed to encode cart")
		return
	}
	m.write(ctx, s.ID, models.SessionKeyCart, data)
}

// SaveFilters persists the filters as their query-string mirror
func (m *SessionManager) SaveFilters(ctx context.Context, s *Session) {
	m.write(ctx, s.ID, models.SessionKeyFilters, []byte(s.Filters.Encode()))
}

// SaveCoupon persists the last coupon the session entered
func (m *SessionManager) SaveCoupon(ctx context.Context, s *Session) {
	if s.Coupon == "" {
		m.remove(ctx, s.ID, models.SessionKeyCoupon)
		return
	}
	m.write(ctx, s.ID, models.SessionKeyCoupon, []byte(s.Coupon))
}

// SaveAuth persists the auth record, or removes it when the session is logged out
func (m *SessionManager) SaveAuth(ctx context.Context, s *Session) {
	if s.Auth == nil || s.Auth.Token == "" {
		m.remove(ctx, s.ID, models.SessionKeyAuth)
		return
	}
	data, err := json.Marshal(s.Auth)
	if err != nil {
		m.logger.WithError(err).WithField("session_id", s.ID).Warn("Failed to encode auth record")
		return
	}
	m.write(ctx, s.ID, models.SessionKeyAuth, data)
}

func (m *SessionManager) write(ctx context.Context, sessionID, key string, value []byte) {
	if err := m.store.Set(ctx, sessionID, key, value); err != nil {
		m.logger.WithError(err).WithFields(logrus.Fields{
			"session_id": sessionID,
			"key":        key,
		}).Warn("Failed to persist session state")
	}
}

func (m *SessionManager) remove(ctx context.Context, sessionID, key string) {
	if err := m.store.Delete(ctx, sessionID, key); err != nil {
		m.logger.WithError(err).WithFields(logrus.Fields{
			"session_id": sessionID,
			"key":        key,
		}).Warn("Failed to delete session state")
	}
}

// keyedMutex hands out one mutex per key and forgets it once unused
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			k.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(k.locks, key)
			}
			k.mu.Unlock()
		})
	}
}
