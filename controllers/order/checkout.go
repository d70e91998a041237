package orderControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MindSpaceMan/flora-site/middleware"
	"github.com/MindSpaceMan/flora-site/models"
	"github.com/MindSpaceMan/flora-site/remote"
	"github.com/MindSpaceMan/flora-site/sessions"
	"github.com/MindSpaceMan/flora-site/validate"
)

// POST /checkout
//
// Validates the order form before anything touches the network, then
// finalizes the session cart upstream.
func Checkout(m *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.SessionID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No session"})
			return
		}

		var form models.CheckoutForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		form.Phone = validate.CanonicalPhone(form.Phone)

		if errs := validate.Checkout(form); errs != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": errs})
			return
		}

		store := m.Store(sessionID)
		if store.ItemCount() == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		}

		confirmation, err := store.Checkout(c.Request.Context(), form)
		if err != nil {
			var apiErr *remote.APIError
			if errors.As(err, &apiErr) {
				c.JSON(apiErr.Status, gin.H{"error": apiErr.Error()})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, confirmation)
	}
}
