// Package cart owns the visitor cart state and keeps it reconciled with a
// backing strategy: either the upstream cart API or a purely local cart.
package cart

import (
	"context"

	"github.com/MindSpaceMan/flora-site/models"
)

// Identity is the (cartID, accessToken) pair that authorizes mutations
// against one cart. Possession of the token is the whole authorization.
type Identity struct {
	CartID string
	Token  string
}

func (id Identity) Valid() bool {
	return id.CartID != "" && id.Token != ""
}

// Backend is the single strategy seam for the store. Every call returns the
// authoritative cart; the token in the returned identity may rotate on any
// call and must replace whatever the caller held before.
type Backend interface {
	Create(ctx context.Context) (Identity, models.Cart, error)
	Fetch(ctx context.Context, id Identity) (Identity, models.Cart, error)
	Add(ctx context.Context, id Identity, productID string, quantity int) (Identity, models.Cart, error)
	Remove(ctx context.Context, id Identity, productID string, quantity int) (Identity, models.Cart, error)
	Checkout(ctx context.Context, id Identity, form models.CheckoutForm) (*models.OrderConfirmation, error)
}
