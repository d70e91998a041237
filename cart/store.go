package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/MindSpaceMan/flora-site/models"
	"github.com/MindSpaceMan/flora-site/storage"
)

// ErrNoIdentity is returned by operations that need a server-side cart
// before one has been created.
var ErrNoIdentity = errors.New("cart: no identity acquired yet")

// Snapshot is an immutable copy of the store state handed to readers and
// change subscribers.
type Snapshot struct {
	CartID    string            `json:"cartId"`
	Status    string            `json:"status"`
	Lines     []models.CartLine `json:"lines"`
	ItemCount int               `json:"itemCount"`
	Loading   bool              `json:"loading"`
	LastError string            `json:"lastError,omitempty"`
}

// Store is the single source of truth for one visitor's cart. It mediates
// between actions and the backend, always replacing its line set wholesale
// with whatever the backend returns. A failed call leaves the previous
// state untouched and surfaces the error to the caller.
//
// Stores are explicit instances: construct with New, release with Dispose.
// There is no package-level cart.
type Store struct {
	backend Backend
	stash   storage.Store
	key     string

	mu      sync.Mutex
	cartID  string
	token   string
	lines   []models.CartLine
	status  string
	loading bool
	lastErr string

	create singleflight.Group

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// New builds a store over backend. When stash is non-nil the state is
// persisted under key after every change and rehydrated here, before first
// use; a snapshot with an unknown schema version is discarded rather than
// guessed at.
func New(backend Backend, stash storage.Store, key string) *Store {
	s := &Store{
		backend: backend,
		stash:   stash,
		key:     key,
		subs:    make(map[int]func(Snapshot)),
	}
	s.rehydrate()
	return s
}

func (s *Store) rehydrate() {
	if s.stash == nil {
		return
	}
	data, err := s.stash.Load(s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("cart: failed to load persisted state for %s: %v", s.key, err)
		}
		return
	}
	var state models.CartState
	if err := json.Unmarshal(data, &state); err != nil || state.SchemaVersion != models.CartStateVersion {
		// Stale or corrupt snapshot. Drop it; the server copy is the truth.
		if err := s.stash.Delete(s.key); err != nil {
			log.Printf("cart: failed to discard stale state for %s: %v", s.key, err)
		}
		return
	}
	s.cartID = state.CartID
	s.token = state.CartToken
	s.lines = state.Items
	s.status = state.Status
}

// EnsureIdentity acquires a server-side cart exactly once. Concurrent calls
// collapse into a single create request; later callers share its outcome.
func (s *Store) EnsureIdentity(ctx context.Context) error {
	s.mu.Lock()
	ready := s.cartID != "" && s.token != ""
	s.mu.Unlock()
	if ready {
		return nil
	}

	_, err, _ := s.create.Do("create", func() (interface{}, error) {
		s.mu.Lock()
		if s.cartID != "" && s.token != "" {
			s.mu.Unlock()
			return nil, nil
		}
		s.loading = true
		s.lastErr = ""
		s.mu.Unlock()
		defer s.clearLoading()

		id, serverCart, err := s.backend.Create(ctx)
		if err != nil {
			s.recordError(err)
			return nil, err
		}
		s.apply(id, serverCart)
		return nil, nil
	})
	return err
}

// Refresh reconciles with the backend. It is a no-op without an identity;
// on success lines and status are replaced wholesale.
func (s *Store) Refresh(ctx context.Context) error {
	id, ok := s.identity()
	if !ok {
		return nil
	}
	s.begin()
	defer s.clearLoading()

	newID, serverCart, err := s.backend.Fetch(ctx, id)
	if err != nil {
		s.recordError(err)
		return err
	}
	s.apply(newID, serverCart)
	return nil
}

// AddLine adds quantity of a product, creating the cart identity first if
// needed. Quantity must already be validated positive by the caller; the
// store does not clamp.
func (s *Store) AddLine(ctx context.Context, productID string, quantity int) error {
	if err := s.EnsureIdentity(ctx); err != nil {
		return err
	}
	id, ok := s.identity()
	if !ok {
		return ErrNoIdentity
	}
	s.begin()
	defer s.clearLoading()

	newID, serverCart, err := s.backend.Add(ctx, id, productID, quantity)
	if err != nil {
		s.recordError(err)
		return err
	}
	s.apply(newID, serverCart)
	return nil
}

// RemoveLine removes quantity of a product. When quantity covers the whole
// line the backend deletes it; the store just trusts the response.
func (s *Store) RemoveLine(ctx context.Context, productID string, quantity int) error {
	if err := s.EnsureIdentity(ctx); err != nil {
		return err
	}
	id, ok := s.identity()
	if !ok {
		return ErrNoIdentity
	}
	s.begin()
	defer s.clearLoading()

	newID, serverCart, err := s.backend.Remove(ctx, id, productID, quantity)
	if err != nil {
		s.recordError(err)
		return err
	}
	s.apply(newID, serverCart)
	return nil
}

// RemoveAllOfLine drops a product entirely. A product not in the cart is a
// no-op: no request is issued and no error returned.
func (s *Store) RemoveAllOfLine(ctx context.Context, productID string) error {
	s.mu.Lock()
	quantity := 0
	for _, line := range s.lines {
		if line.Product.ID == productID {
			quantity = line.Quantity
			break
		}
	}
	s.mu.Unlock()
	if quantity == 0 {
		return nil
	}
	return s.RemoveLine(ctx, productID, quantity)
}

// ClearAll empties the cart line by line against the backend. Removal is
// best-effort and not atomic: a failing line is skipped and the rest are
// still attempted. Upstream offers no bulk clear.
func (s *Store) ClearAll(ctx context.Context) {
	s.mu.Lock()
	lines := make([]models.CartLine, len(s.lines))
	copy(lines, s.lines)
	s.mu.Unlock()

	for _, line := range lines {
		if err := s.RemoveLine(ctx, line.Product.ID, line.Quantity); err != nil {
			log.Printf("cart: failed to clear line %s: %v", line.Product.ID, err)
		}
	}
}

// Checkout finalizes the cart into an order and then refreshes so the
// server-owned status transition becomes visible. The refresh is
// best-effort; a confirmation already in hand is not discarded over it.
func (s *Store) Checkout(ctx context.Context, form models.CheckoutForm) (*models.OrderConfirmation, error) {
	id, ok := s.identity()
	if !ok {
		return nil, ErrNoIdentity
	}
	s.begin()
	defer s.clearLoading()

	conf, err := s.backend.Checkout(ctx, id, form)
	if err != nil {
		s.recordError(err)
		return nil, err
	}
	if newID, serverCart, err := s.backend.Fetch(ctx, id); err == nil {
		s.apply(newID, serverCart)
	}
	return conf, nil
}

// ItemCount recomputes the quantity sum on every call; it is never cached.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers a change callback, invoked after every state replace.
// The returned function cancels the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// Dispose drops all subscribers. Persisted state is left in place so the
// next store for the same key can rehydrate it.
func (s *Store) Dispose() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = make(map[int]func(Snapshot))
}

func (s *Store) identity() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := Identity{CartID: s.cartID, Token: s.token}
	return id, id.Valid()
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *Store) clearLoading() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) recordError(err error) {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
}

// apply replaces the whole state with a backend response, persists it and
// notifies subscribers. Lines are never merged locally.
func (s *Store) apply(id Identity, serverCart models.Cart) {
	lines := serverCart.Items
	if lines == nil {
		lines = []models.CartLine{}
	}

	s.mu.Lock()
	s.cartID = id.CartID
	s.token = id.Token
	s.lines = lines
	s.status = serverCart.Status
	s.persistLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Store) persistLocked() {
	if s.stash == nil {
		return
	}
	state := models.CartState{
		SchemaVersion: models.CartStateVersion,
		CartID:        s.cartID,
		CartToken:     s.token,
		Items:         s.lines,
		Status:        s.status,
	}
	data, err := json.Marshal(state)
	if err != nil {
		log.Printf("cart: failed to encode state for %s: %v", s.key, err)
		return
	}
	if err := s.stash.Save(s.key, data); err != nil {
		log.Printf("cart: failed to persist state for %s: %v", s.key, err)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	lines := make([]models.CartLine, len(s.lines))
	copy(lines, s.lines)
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return Snapshot{
		CartID:    s.cartID,
		Status:    s.status,
		Lines:     lines,
		ItemCount: count,
		Loading:   s.loading,
		LastError: s.lastErr,
	}
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}
