package routes

import (
	"github.com/gin-gonic/gin"

	adminControllers "github.com/MindSpaceMan/flora-site/controllers/admin"
	"github.com/MindSpaceMan/flora-site/middleware"
	"github.com/MindSpaceMan/flora-site/remote"
)

// SetupAdminRoutes registers the "/admin/*" endpoints. Login and refresh
// are public; everything else requires the upstream bearer token.
func SetupAdminRoutes(r *gin.Engine, client *remote.Client) {
	adminGroup := r.Group("/admin")

	adminGroup.POST("/login", adminControllers.Login(client))
	adminGroup.POST("/token/refresh", adminControllers.Refresh(client))

	protected := adminGroup.Group("/")
	protected.Use(middleware.AdminToken)
	{
		protected.GET("/orders", adminControllers.GetOrders(client))
		protected.GET("/messages", adminControllers.GetMessages(client))

		productAdmin := protected.Group("/products")
		{
			productAdmin.POST("", adminControllers.CreateProduct(client))
			productAdmin.PUT("/:id", adminControllers.UpdateProduct(client))
			productAdmin.DELETE("/:id", adminControllers.DeleteProduct(client))
			productAdmin.GET("/export-excel", adminControllers.ExportProductsToExcel(client))
		}
	}
}
