package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MindSpaceMan/flora-site/models"
)

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.do(ctx, http.MethodGet, "/api/category", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CategoryWithProducts(ctx context.Context, categoryID string) (*models.CategoryWithProducts, error) {
	var out models.CategoryWithProducts
	path := fmt.Sprintf("/api/category/%s/product", url.PathEscape(categoryID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Product(ctx context.Context, productID string) (*models.Product, error) {
	var out models.Product
	path := fmt.Sprintf("/api/product/%s", url.PathEscape(productID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, http.MethodGet, "/api/product", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
