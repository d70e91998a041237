package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MindSpaceMan/flora-site/middleware"
	"github.com/MindSpaceMan/flora-site/remote"
	"github.com/MindSpaceMan/flora-site/sessions"
)

type CartItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// respondError maps store failures onto HTTP. Upstream rejections keep
// their status; anything else is a bad gateway.
func respondError(c *gin.Context, err error) {
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Error()})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

// GET /cart
func GetCart(m *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.SessionID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No session"})
			return
		}
		store := m.Store(sessionID)

		// Local copy is a cache; reconcile with the server before replying.
		// Drift errors are not fatal here, the snapshot still answers.
		_ = store.Refresh(c.Request.Context())

		c.JSON(http.StatusOK, store.Snapshot())
	}
}

// POST /cart/items
func AddCartItem(m *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.SessionID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No session"})
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		store := m.Store(sessionID)
		if err := store.AddLine(c.Request.Context(), input.ProductID, input.Quantity); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, store.Snapshot())
	}
}

// DELETE /cart/items
func RemoveCartItem(m *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.SessionID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No session"})
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		store := m.Store(sessionID)
		if err := store.RemoveLine(c.Request.Context(), input.ProductID, input.Quantity); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, store.Snapshot())
	}
}

// DELETE /cart/items/:product_id
func RemoveCartLine(m *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.SessionID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No session"})
			return
		}
		productID := c.Param("product_id")

		store := m.Store(sessionID)
		if err := store.RemoveAllOfLine(c.Request.Context(), productID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, store.Snapshot())
	}
}

// DELETE /cart
func ClearCart(m *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.SessionID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No session"})
			return
		}

		store := m.Store(sessionID)
		store.ClearAll(c.Request.Context())
		c.JSON(http.StatusOK, store.Snapshot())
	}
}
