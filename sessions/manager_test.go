package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/MindSpaceMan/flora-site/cart"
	"github.com/MindSpaceMan/flora-site/models"
)

type nullBackend struct{}

func (nullBackend) Create(ctx context.Context) (cart.Identity, models.Cart, error) {
	return cart.Identity{CartID: "c1", Token: "t1"}, models.Cart{ID: "c1"}, nil
}
func (nullBackend) Fetch(ctx context.Context, id cart.Identity) (cart.Identity, models.Cart, error) {
	return id, models.Cart{ID: id.CartID}, nil
}
func (nullBackend) Add(ctx context.Context, id cart.Identity, productID string, quantity int) (cart.Identity, models.Cart, error) {
	return id, models.Cart{ID: id.CartID}, nil
}
func (nullBackend) Remove(ctx context.Context, id cart.Identity, productID string, quantity int) (cart.Identity, models.Cart, error) {
	return id, models.Cart{ID: id.CartID}, nil
}
func (nullBackend) Checkout(ctx context.Context, id cart.Identity, form models.CheckoutForm) (*models.OrderConfirmation, error) {
	return &models.OrderConfirmation{OrderID: "o1"}, nil
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager(nullBackend{}, nil, []byte("secret"))

	id := NewSessionID()
	token, err := m.IssueToken(id)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	got, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if got != id {
		t.Fatalf("ParseToken = %s, want %s", got, id)
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	m := NewManager(nullBackend{}, nil, []byte("secret"))
	other := NewManager(nullBackend{}, nil, []byte("different"))

	token, err := other.IssueToken(NewSessionID())
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := m.ParseToken(token); err == nil {
		t.Fatal("token signed with another secret was accepted")
	}
	if _, err := m.ParseToken("garbage"); err == nil {
		t.Fatal("garbage token was accepted")
	}
}

func TestStoreIsStablePerSession(t *testing.T) {
	m := NewManager(nullBackend{}, nil, []byte("secret"))
	defer m.Dispose()

	a := m.Store("visit_1")
	if m.Store("visit_1") != a {
		t.Fatal("same session produced a different store")
	}
	if m.Store("visit_2") == a {
		t.Fatal("different sessions share a store")
	}
}

func TestIdleStoresAreEvicted(t *testing.T) {
	m := NewManager(nullBackend{}, nil, []byte("secret"))
	defer m.Dispose()

	old := m.Store("visit_old")

	// Backdate the session past the idle TTL; any later lookup sweeps it.
	m.mu.Lock()
	m.stores["visit_old"].lastSeen = time.Now().Add(-m.idleTTL - time.Hour)
	m.mu.Unlock()

	m.Store("visit_new")

	m.mu.Lock()
	_, stillHeld := m.stores["visit_old"]
	held := len(m.stores)
	m.mu.Unlock()
	if stillHeld {
		t.Fatal("idle session survived the sweep")
	}
	if held != 1 {
		t.Fatalf("held stores = %d, want 1", held)
	}
	if m.Store("visit_old") == old {
		t.Fatal("evicted session returned the old store instance")
	}
}

func TestActiveStoreSurvivesSweep(t *testing.T) {
	m := NewManager(nullBackend{}, nil, []byte("secret"))
	defer m.Dispose()

	a := m.Store("visit_a")
	m.Store("visit_b")
	if m.Store("visit_a") != a {
		t.Fatal("active session lost its store")
	}
}

func TestNewSessionIDsDiffer(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewSessionID()
		if seen[id] {
			t.Fatalf("duplicate session id %s", id)
		}
		seen[id] = true
	}
}
