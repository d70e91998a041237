// Package sessions ties visitor sessions to cart stores. A session is a
// signed token in a cookie; its id doubles as the persistence key for the
// visitor's cart state.
package sessions

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MindSpaceMan/flora-site/cart"
	"github.com/MindSpaceMan/flora-site/storage"
)

// Session cookies live this long; the persisted cart outlives the cookie
// and is picked up again when the same id comes back.
const tokenTTL = 30 * 24 * time.Hour

type sessionEntry struct {
	store    *cart.Store
	lastSeen time.Time
}

type Manager struct {
	backend cart.Backend
	stash   storage.Store
	secret  []byte
	idleTTL time.Duration

	mu     sync.Mutex
	stores map[string]*sessionEntry
}

func NewManager(backend cart.Backend, stash storage.Store, secret []byte) *Manager {
	return &Manager{
		backend: backend,
		stash:   stash,
		secret:  secret,
		idleTTL: tokenTTL,
		stores:  make(map[string]*sessionEntry),
	}
}

// NewSessionID mints a fresh visitor id.
func NewSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "visit_fallback"
	}
	return "visit_" + hex.EncodeToString(buf)
}

// IssueToken signs a session id into a bearer token for the cookie.
func (m *Manager) IssueToken(sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"session_id": sessionID,
		"exp":        time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken recovers the session id from a cookie token.
func (m *Manager) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid session token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid session claims")
	}
	id, _ := claims["session_id"].(string)
	if id == "" {
		return "", fmt.Errorf("session token carries no id")
	}
	return id, nil
}

// Store returns the cart store for a session, creating and rehydrating it
// on first sight. Each lookup sweeps out stores whose session has been
// silent longer than the cookie lifetime, so the map tracks live visitors
// rather than everyone ever seen.
func (m *Manager) Store(sessionID string) *cart.Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	m.evictIdleLocked(now)
	if e, ok := m.stores[sessionID]; ok {
		e.lastSeen = now
		return e.store
	}
	s := cart.New(m.backend, m.stash, sessionID)
	m.stores[sessionID] = &sessionEntry{store: s, lastSeen: now}
	return s
}

// evictIdleLocked drops stores idle past the TTL. Persisted cart state
// stays in the stash, so a returning cookie rehydrates where it left off.
func (m *Manager) evictIdleLocked(now time.Time) {
	for id, e := range m.stores {
		if now.Sub(e.lastSeen) > m.idleTTL {
			e.store.Dispose()
			delete(m.stores, id)
		}
	}
}

// Dispose releases every held store. Meant for shutdown and tests.
func (m *Manager) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.stores {
		e.store.Dispose()
		delete(m.stores, id)
	}
}
