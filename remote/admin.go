package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MindSpaceMan/flora-site/models"
)

type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	payload := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	var out TokenResponse
	payload := map[string]string{"refresh_token": refreshToken}
	if err := c.do(ctx, http.MethodPost, "/api/token/refresh", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Orders lists every cart that reached checkout. Upstream exposes this on
// the bare cart collection path.
func (c *Client) Orders(ctx context.Context, adminToken string) ([]models.Order, error) {
	var out []models.Order
	if err := c.do(ctx, http.MethodGet, "/api/cart", bearer(adminToken), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ContactMessages(ctx context.Context, adminToken string) ([]models.ContactMessage, error) {
	var out []models.ContactMessage
	if err := c.do(ctx, http.MethodGet, "/api/contact", bearer(adminToken), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, adminToken string, product models.Product) (*models.Product, error) {
	var out models.Product
	if err := c.do(ctx, http.MethodPost, "/api/product", bearer(adminToken), product, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, adminToken, productID string, product models.Product) (*models.Product, error) {
	var out models.Product
	path := fmt.Sprintf("/api/product/%s", url.PathEscape(productID))
	if err := c.do(ctx, http.MethodPut, path, bearer(adminToken), product, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, adminToken, productID string) error {
	path := fmt.Sprintf("/api/product/%s", url.PathEscape(productID))
	return c.do(ctx, http.MethodDelete, path, bearer(adminToken), nil, nil)
}
