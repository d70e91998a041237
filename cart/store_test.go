package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"testing"

	"github.com/MindSpaceMan/flora-site/models"
	"github.com/MindSpaceMan/flora-site/storage"
)

// fakeBackend acts as the authoritative server: it merges quantities
// itself and rotates the token on every call, so tests can verify the
// store always adopts the server's answer instead of computing its own.
type fakeBackend struct {
	mu          sync.Mutex
	createDelay time.Duration
	createCalls int
	addCalls    int
	removeCalls int
	fetchCalls  int

	failCreate bool
	failAdd    bool
	failRemove map[string]bool

	tokenSeq int
	lines    []models.CartLine
	status   string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{status: "active", failRemove: make(map[string]bool)}
}

func (f *fakeBackend) rotate() Identity {
	f.tokenSeq++
	return Identity{CartID: "cart-1", Token: fmt.Sprintf("tok-%d", f.tokenSeq)}
}

func (f *fakeBackend) snapshot() models.Cart {
	lines := make([]models.CartLine, len(f.lines))
	copy(lines, f.lines)
	return models.Cart{ID: "cart-1", Status: f.status, Items: lines}
}

func (f *fakeBackend) Create(ctx context.Context) (Identity, models.Cart, error) {
	if f.createDelay > 0 {
		time.Sleep(f.createDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.failCreate {
		return Identity{}, models.Cart{}, errors.New("create failed")
	}
	return f.rotate(), f.snapshot(), nil
}

func (f *fakeBackend) Fetch(ctx context.Context, id Identity) (Identity, models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	return f.rotate(), f.snapshot(), nil
}

func (f *fakeBackend) Add(ctx context.Context, id Identity, productID string, quantity int) (Identity, models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	if f.failAdd {
		return Identity{}, models.Cart{}, errors.New("add failed")
	}
	for i := range f.lines {
		if f.lines[i].Product.ID == productID {
			f.lines[i].Quantity += quantity
			return f.rotate(), f.snapshot(), nil
		}
	}
	f.lines = append(f.lines, models.CartLine{
		ID:       fmt.Sprintf("line-%s", productID),
		Product:  models.Product{ID: productID, TitleRu: "Эустома " + productID},
		Quantity: quantity,
	})
	return f.rotate(), f.snapshot(), nil
}

func (f *fakeBackend) Remove(ctx context.Context, id Identity, productID string, quantity int) (Identity, models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls++
	if f.failRemove[productID] {
		return Identity{}, models.Cart{}, errors.New("remove failed")
	}
	for i := range f.lines {
		if f.lines[i].Product.ID != productID {
			continue
		}
		if quantity >= f.lines[i].Quantity {
			f.lines = append(f.lines[:i], f.lines[i+1:]...)
		} else {
			f.lines[i].Quantity -= quantity
		}
		break
	}
	return f.rotate(), f.snapshot(), nil
}

func (f *fakeBackend) Checkout(ctx context.Context, id Identity, form models.CheckoutForm) (*models.OrderConfirmation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = "completed"
	return &models.OrderConfirmation{OrderID: "order-1", Status: "created"}, nil
}

func TestAddLineScenario(t *testing.T) {
	backend := newFakeBackend()
	store := New(backend, nil, "test")
	ctx := context.Background()

	if err := store.AddLine(ctx, "p1", 2); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	snap := store.Snapshot()
	if len(snap.Lines) != 1 || snap.Lines[0].Product.ID != "p1" || snap.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected lines after first add: %+v", snap.Lines)
	}
	if got := store.ItemCount(); got != 2 {
		t.Fatalf("ItemCount = %d, want 2", got)
	}

	// Server-side merge: the store must reflect the echoed quantity.
	if err := store.AddLine(ctx, "p1", 3); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	snap = store.Snapshot()
	if len(snap.Lines) != 1 || snap.Lines[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %+v", snap.Lines)
	}
	if got := store.ItemCount(); got != 5 {
		t.Fatalf("ItemCount = %d, want 5", got)
	}

	// Removing more than present deletes the line entirely.
	if err := store.RemoveLine(ctx, "p1", 10); err != nil {
		t.Fatalf("RemoveLine: %v", err)
	}
	if got := store.ItemCount(); got != 0 {
		t.Fatalf("ItemCount = %d, want 0", got)
	}
	if snap := store.Snapshot(); len(snap.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", snap.Lines)
	}
}

func TestEnsureIdentityCollapsesConcurrentCreates(t *testing.T) {
	backend := newFakeBackend()
	backend.createDelay = 20 * time.Millisecond
	store := New(backend, nil, "test")

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.EnsureIdentity(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("EnsureIdentity %d: %v", i, err)
		}
	}
	if backend.createCalls != 1 {
		t.Fatalf("createCalls = %d, want 1", backend.createCalls)
	}
}

func TestEnsureIdentityIsNoopOnceAcquired(t *testing.T) {
	backend := newFakeBackend()
	store := New(backend, nil, "test")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.EnsureIdentity(ctx); err != nil {
			t.Fatalf("EnsureIdentity: %v", err)
		}
	}
	if backend.createCalls != 1 {
		t.Fatalf("createCalls = %d, want 1", backend.createCalls)
	}
}

func TestFailedAddLeavesStateUntouched(t *testing.T) {
	backend := newFakeBackend()
	store := New(backend, nil, "test")
	ctx := context.Background()

	if err := store.AddLine(ctx, "p1", 2); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	before := store.Snapshot()

	backend.failAdd = true
	err := store.AddLine(ctx, "p2", 1)
	if err == nil {
		t.Fatal("expected error from failing add")
	}

	after := store.Snapshot()
	if len(after.Lines) != len(before.Lines) || after.Lines[0].Quantity != before.Lines[0].Quantity {
		t.Fatalf("state changed after failed add: before %+v, after %+v", before.Lines, after.Lines)
	}
	if after.LastError == "" {
		t.Fatal("expected lastError to be recorded")
	}
	if after.Loading {
		t.Fatal("loading flag must be cleared after a failed call")
	}
}

func TestRemoveAllOfLineAbsentProductIsNoop(t *testing.T) {
	backend := newFakeBackend()
	store := New(backend, nil, "test")
	ctx := context.Background()

	if err := store.AddLine(ctx, "p1", 1); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	calls := backend.removeCalls

	if err := store.RemoveAllOfLine(ctx, "missing"); err != nil {
		t.Fatalf("RemoveAllOfLine on absent product: %v", err)
	}
	if backend.removeCalls != calls {
		t.Fatalf("a request was issued for an absent product")
	}
}

func TestRemoveAllOfLineRemovesFullQuantity(t *testing.T) {
	backend := newFakeBackend()
	store := New(backend, nil, "test")
	ctx := context.Background()

	if err := store.AddLine(ctx, "p1", 4); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if err := store.RemoveAllOfLine(ctx, "p1"); err != nil {
		t.Fatalf("RemoveAllOfLine: %v", err)
	}
	if got := store.ItemCount(); got != 0 {
		t.Fatalf("ItemCount = %d, want 0", got)
	}
}

func TestClearAllIsBestEffort(t *testing.T) {
	backend := newFakeBackend()
	store := New(backend, nil, "test")
	ctx := context.Background()

	for _, p := range []string{"p1", "p2", "p3"} {
		if err := store.AddLine(ctx, p, 1); err != nil {
			t.Fatalf("AddLine %s: %v", p, err)
		}
	}
	backend.failRemove["p2"] = true

	store.ClearAll(ctx)

	snap := store.Snapshot()
	if len(snap.Lines) != 1 || snap.Lines[0].Product.ID != "p2" {
		t.Fatalf("expected only p2 to survive, got %+v", snap.Lines)
	}
}

func TestRefreshWithoutIdentityIsNoop(t *testing.T) {
	backend := newFakeBackend()
	store := New(backend, nil, "test")

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if backend.fetchCalls != 0 {
		t.Fatalf("fetchCalls = %d, want 0", backend.fetchCalls)
	}
}

func TestTokenRotationIsAdopted(t *testing.T) {
	backend := newFakeBackend()
	store := New(backend, nil, "test")
	ctx := context.Background()

	if err := store.AddLine(ctx, "p1", 1); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if err := store.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	id, ok := store.identity()
	if !ok {
		t.Fatal("expected identity after add")
	}
	want := fmt.Sprintf("tok-%d", backend.tokenSeq)
	if id.Token != want {
		t.Fatalf("token = %s, want latest rotation %s", id.Token, want)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	stash, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	backend := newFakeBackend()
	store := New(backend, stash, "visit_abc")
	ctx := context.Background()

	if err := store.AddLine(ctx, "p1", 2); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if err := store.AddLine(ctx, "p2", 1); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	persisted, err := stash.Load("visit_abc")
	if err != nil {
		t.Fatalf("Load persisted state: %v", err)
	}

	// A fresh store over the same key must come up identical, before any
	// Refresh happens. The dead backend proves no network is involved.
	rehydrated := New(nil, stash, "visit_abc")

	wantID, _ := store.identity()
	gotID, ok := rehydrated.identity()
	if !ok {
		t.Fatal("rehydrated store has no identity")
	}
	if gotID != wantID {
		t.Fatalf("identity = %+v, want %+v", gotID, wantID)
	}
	wantSnap := store.Snapshot()
	gotSnap := rehydrated.Snapshot()
	if fmt.Sprintf("%+v", gotSnap) != fmt.Sprintf("%+v", wantSnap) {
		t.Fatalf("snapshot mismatch:\nwant %+v\n got %+v", wantSnap, gotSnap)
	}

	// And the blob on disk is untouched by rehydration.
	persisted2, err := stash.Load("visit_abc")
	if err != nil {
		t.Fatalf("Load persisted state again: %v", err)
	}
	if string(persisted) != string(persisted2) {
		t.Fatal("rehydration must not rewrite the persisted blob")
	}
}

func TestRehydrateDiscardsUnknownSchemaVersion(t *testing.T) {
	stash, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	blob := `{"schemaVersion":99,"cartId":"old","cartToken":"old-tok","items":[],"status":"active"}`
	if err := stash.Save("visit_old", []byte(blob)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	store := New(newFakeBackend(), stash, "visit_old")
	if _, ok := store.identity(); ok {
		t.Fatal("store adopted a snapshot with an unknown schema version")
	}
	if _, err := stash.Load("visit_old"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("stale blob should have been discarded, got %v", err)
	}
}

func TestCheckoutFinalizesAndRefreshes(t *testing.T) {
	backend := newFakeBackend()
	store := New(backend, nil, "test")
	ctx := context.Background()

	if err := store.AddLine(ctx, "p1", 1); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	conf, err := store.Checkout(ctx, models.CheckoutForm{FullName: "Анна"})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if conf.OrderID != "order-1" {
		t.Fatalf("OrderID = %s", conf.OrderID)
	}
	if snap := store.Snapshot(); snap.Status != "completed" {
		t.Fatalf("status = %s, want completed after checkout refresh", snap.Status)
	}
}

func TestCheckoutWithoutIdentityFails(t *testing.T) {
	store := New(newFakeBackend(), nil, "test")
	if _, err := store.Checkout(context.Background(), models.CheckoutForm{}); !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("err = %v, want ErrNoIdentity", err)
	}
}

func TestSubscribeSeesEveryReplace(t *testing.T) {
	backend := newFakeBackend()
	store := New(backend, nil, "test")
	ctx := context.Background()

	var mu sync.Mutex
	var counts []int
	cancel := store.Subscribe(func(snap Snapshot) {
		mu.Lock()
		counts = append(counts, snap.ItemCount)
		mu.Unlock()
	})
	defer cancel()

	if err := store.AddLine(ctx, "p1", 2); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if err := store.AddLine(ctx, "p1", 3); err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	// Identity creation, then two adds.
	if len(counts) != 3 || counts[len(counts)-1] != 5 {
		t.Fatalf("subscriber saw %v", counts)
	}
}
