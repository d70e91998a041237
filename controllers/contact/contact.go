package contactControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MindSpaceMan/flora-site/models"
	"github.com/MindSpaceMan/flora-site/remote"
	"github.com/MindSpaceMan/flora-site/validate"
)

// POST /contact
func SendMessage(client *remote.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form models.ContactForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if errs := validate.Contact(form); errs != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": errs})
			return
		}

		if err := client.SendContactMessage(c.Request.Context(), form); err != nil {
			var apiErr *remote.APIError
			if errors.As(err, &apiErr) {
				c.JSON(apiErr.Status, gin.H{"error": apiErr.Error()})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Message sent"})
	}
}
