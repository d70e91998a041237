package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MindSpaceMan/flora-site/models"
)

// CartResponse is the shape echoed by every mutating cart call. The token
// may rotate on any call; callers must persist whatever comes back.
type CartResponse struct {
	Token string      `json:"token"`
	Cart  models.Cart `json:"cart"`
}

// CartSingleResponse is the fetch-cart shape. Note the different token field
// name compared to CartResponse; that asymmetry is upstream's.
type CartSingleResponse struct {
	Cart      models.Cart `json:"cart"`
	CartToken string      `json:"cartToken"`
}

// CreateCart provisions a brand-new cart. No auth; the returned token is the
// capability credential for every later call against this cart.
func (c *Client) CreateCart(ctx context.Context) (*CartResponse, error) {
	var resp CartResponse
	if err := c.do(ctx, http.MethodPost, "/api/cart", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) FetchCart(ctx context.Context, cartID, token string) (*CartSingleResponse, error) {
	var resp CartSingleResponse
	path := fmt.Sprintf("/api/cart/%s/single", url.PathEscape(cartID))
	if err := c.do(ctx, http.MethodGet, path, map[string]string{headerCartToken: token}, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AddItem(ctx context.Context, token, productID string, quantity int) (*CartResponse, error) {
	return c.mutateItems(ctx, http.MethodPost, token, productID, quantity)
}

// RemoveItem decrements a line by quantity. The server deletes the line
// entirely when quantity is at or above the current amount.
func (c *Client) RemoveItem(ctx context.Context, token, productID string, quantity int) (*CartResponse, error) {
	return c.mutateItems(ctx, http.MethodDelete, token, productID, quantity)
}

func (c *Client) mutateItems(ctx context.Context, method, token, productID string, quantity int) (*CartResponse, error) {
	q := url.Values{}
	q.Set("productId", productID)
	q.Set("quantity", strconv.Itoa(quantity))

	var resp CartResponse
	path := "/api/cart/items?" + q.Encode()
	if err := c.do(ctx, method, path, map[string]string{headerCartToken: token}, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Checkout finalizes the cart behind the token into an order.
func (c *Client) Checkout(ctx context.Context, token string, form models.CheckoutForm) (*models.OrderConfirmation, error) {
	var resp models.OrderConfirmation
	if err := c.do(ctx, http.MethodPost, "/api/order/checkout", map[string]string{headerCartToken: token}, form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
