package cart

import (
	"context"

	"github.com/MindSpaceMan/flora-site/models"
	"github.com/MindSpaceMan/flora-site/remote"
)

// RemoteBackend maps the Backend seam onto the upstream cart API.
type RemoteBackend struct {
	client *remote.Client
}

func NewRemoteBackend(client *remote.Client) *RemoteBackend {
	return &RemoteBackend{client: client}
}

func (b *RemoteBackend) Create(ctx context.Context) (Identity, models.Cart, error) {
	resp, err := b.client.CreateCart(ctx)
	if err != nil {
		return Identity{}, models.Cart{}, err
	}
	return Identity{CartID: resp.Cart.ID, Token: resp.Token}, resp.Cart, nil
}

func (b *RemoteBackend) Fetch(ctx context.Context, id Identity) (Identity, models.Cart, error) {
	resp, err := b.client.FetchCart(ctx, id.CartID, id.Token)
	if err != nil {
		return Identity{}, models.Cart{}, err
	}
	// Upstream may omit the rotated token on fetch; keep the old one then.
	token := resp.CartToken
	if token == "" {
		token = id.Token
	}
	return Identity{CartID: id.CartID, Token: token}, resp.Cart, nil
}

func (b *RemoteBackend) Add(ctx context.Context, id Identity, productID string, quantity int) (Identity, models.Cart, error) {
	resp, err := b.client.AddItem(ctx, id.Token, productID, quantity)
	if err != nil {
		return Identity{}, models.Cart{}, err
	}
	return Identity{CartID: resp.Cart.ID, Token: resp.Token}, resp.Cart, nil
}

func (b *RemoteBackend) Remove(ctx context.Context, id Identity, productID string, quantity int) (Identity, models.Cart, error) {
	resp, err := b.client.RemoveItem(ctx, id.Token, productID, quantity)
	if err != nil {
		return Identity{}, models.Cart{}, err
	}
	return Identity{CartID: resp.Cart.ID, Token: resp.Token}, resp.Cart, nil
}

func (b *RemoteBackend) Checkout(ctx context.Context, id Identity, form models.CheckoutForm) (*models.OrderConfirmation, error) {
	return b.client.Checkout(ctx, id.Token, form)
}
