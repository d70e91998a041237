package catalogControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MindSpaceMan/flora-site/remote"
)

func respondError(c *gin.Context, err error) {
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Error()})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

// GET /categories
func GetCategories(client *remote.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := client.Categories(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GET /categories/:id/products
func GetCategoryProducts(client *remote.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, err := client.CategoryWithProducts(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// GET /products
func GetProducts(client *remote.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := client.Products(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /products/:id
func GetProductByID(client *remote.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := client.Product(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
