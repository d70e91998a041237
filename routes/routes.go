package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/MindSpaceMan/flora-site/remote"
	"github.com/MindSpaceMan/flora-site/sessions"
)

// SetupRoutes is the single entry-point that wires up the storefront and
// admin route groups.
func SetupRoutes(r *gin.Engine, manager *sessions.Manager, client *remote.Client) {
	// Visitor-facing storefront routes (session-cookie scoped)
	SetupStorefrontRoutes(r, manager, client)

	// Admin panel routes (upstream bearer-token protected)
	SetupAdminRoutes(r, client)
}
