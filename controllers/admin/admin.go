package adminControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MindSpaceMan/flora-site/models"
	"github.com/MindSpaceMan/flora-site/remote"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func respondError(c *gin.Context, err error) {
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Error()})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

// adminToken pulls the bearer token set by the AdminToken middleware.
func adminToken(c *gin.Context) string {
	val, _ := c.Get("admin_token")
	token, _ := val.(string)
	return token
}

// POST /admin/login
func Login(client *remote.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		resp, err := client.Login(c.Request.Context(), input.Email, input.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// POST /admin/token/refresh
func Refresh(client *remote.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RefreshInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		resp, err := client.RefreshToken(c.Request.Context(), input.RefreshToken)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GET /admin/orders
func GetOrders(client *remote.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := client.Orders(c.Request.Context(), adminToken(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /admin/messages
func GetMessages(client *remote.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		messages, err := client.ContactMessages(c.Request.Context(), adminToken(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, messages)
	}
}

// POST /admin/products
func CreateProduct(client *remote.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := c.ShouldBindJSON(&product); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		created, err := client.CreateProduct(c.Request.Context(), adminToken(c), product)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// PUT /admin/products/:id
func UpdateProduct(client *remote.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := c.ShouldBindJSON(&product); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		updated, err := client.UpdateProduct(c.Request.Context(), adminToken(c), c.Param("id"), product)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// DELETE /admin/products/:id
func DeleteProduct(client *remote.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := client.DeleteProduct(c.Request.Context(), adminToken(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
