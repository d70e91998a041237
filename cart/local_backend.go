package cart

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/MindSpaceMan/flora-site/models"
)

const (
	localStatusActive    = "active"
	localStatusCompleted = "completed"
)

// ProductResolver looks up the product snapshot stored on a new cart line.
// *remote.Client satisfies it.
type ProductResolver interface {
	Product(ctx context.Context, productID string) (*models.Product, error)
}

// LocalBackend is the offline cart strategy: same contract as the remote
// one, with all cart state held in process. Quantities for an existing
// product merge into the line instead of appending a duplicate.
type LocalBackend struct {
	resolver ProductResolver

	mu    sync.Mutex
	carts map[string]*localCart
}

type localCart struct {
	token  string
	status string
	lines  []models.CartLine
}

func NewLocalBackend(resolver ProductResolver) *LocalBackend {
	return &LocalBackend{
		resolver: resolver,
		carts:    make(map[string]*localCart),
	}
}

func (b *LocalBackend) Create(ctx context.Context) (Identity, models.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := Identity{CartID: uuid.NewString(), Token: randomToken()}
	b.carts[id.CartID] = &localCart{token: id.Token, status: localStatusActive}
	return id, b.snapshot(id.CartID), nil
}

func (b *LocalBackend) Fetch(ctx context.Context, id Identity) (Identity, models.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.cart(id); err != nil {
		return Identity{}, models.Cart{}, err
	}
	return id, b.snapshot(id.CartID), nil
}

func (b *LocalBackend) Add(ctx context.Context, id Identity, productID string, quantity int) (Identity, models.Cart, error) {
	product, err := b.resolver.Product(ctx, productID)
	if err != nil {
		return Identity{}, models.Cart{}, fmt.Errorf("failed to resolve product %s: %w", productID, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	c, err := b.cart(id)
	if err != nil {
		return Identity{}, models.Cart{}, err
	}
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines[i].Quantity += quantity
			return id, b.snapshot(id.CartID), nil
		}
	}
	c.lines = append(c.lines, models.CartLine{
		ID:       uuid.NewString(),
		Product:  *product,
		Quantity: quantity,
	})
	return id, b.snapshot(id.CartID), nil
}

func (b *LocalBackend) Remove(ctx context.Context, id Identity, productID string, quantity int) (Identity, models.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, err := b.cart(id)
	if err != nil {
		return Identity{}, models.Cart{}, err
	}
	for i := range c.lines {
		if c.lines[i].Product.ID != productID {
			continue
		}
		if quantity >= c.lines[i].Quantity {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity -= quantity
		}
		break
	}
	return id, b.snapshot(id.CartID), nil
}

func (b *LocalBackend) Checkout(ctx context.Context, id Identity, form models.CheckoutForm) (*models.OrderConfirmation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, err := b.cart(id)
	if err != nil {
		return nil, err
	}
	if len(c.lines) == 0 {
		return nil, fmt.Errorf("cart %s is empty", id.CartID)
	}
	c.status = localStatusCompleted
	return &models.OrderConfirmation{OrderID: uuid.NewString(), Status: "created"}, nil
}

// cart resolves an identity under b.mu.
func (b *LocalBackend) cart(id Identity) (*localCart, error) {
	c, ok := b.carts[id.CartID]
	if !ok {
		return nil, fmt.Errorf("cart %s not found", id.CartID)
	}
	if c.token != id.Token {
		return nil, fmt.Errorf("invalid cart token for cart %s", id.CartID)
	}
	return c, nil
}

// snapshot copies the cart so callers never alias internal line slices.
func (b *LocalBackend) snapshot(cartID string) models.Cart {
	c := b.carts[cartID]
	lines := make([]models.CartLine, len(c.lines))
	copy(lines, c.lines)
	return models.Cart{ID: cartID, Status: c.status, Items: lines}
}

func randomToken() string {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(buf)
}
