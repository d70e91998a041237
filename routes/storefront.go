package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/MindSpaceMan/flora-site/controllers/cart"
	catalogControllers "github.com/MindSpaceMan/flora-site/controllers/catalog"
	contactControllers "github.com/MindSpaceMan/flora-site/controllers/contact"
	orderControllers "github.com/MindSpaceMan/flora-site/controllers/order"
	"github.com/MindSpaceMan/flora-site/middleware"
	"github.com/MindSpaceMan/flora-site/remote"
	"github.com/MindSpaceMan/flora-site/sessions"
)

// SetupStorefrontRoutes registers everything a visitor touches. All of it
// runs behind the session middleware so each request has a cart store.
func SetupStorefrontRoutes(r *gin.Engine, manager *sessions.Manager, client *remote.Client) {
	shop := r.Group("/")
	shop.Use(middleware.Session(manager))
	{
		// ──────────────── Catalog ────────────────
		shop.GET("/categories", catalogControllers.GetCategories(client))
		shop.GET("/categories/:id/products", catalogControllers.GetCategoryProducts(client))
		shop.GET("/products", catalogControllers.GetProducts(client))
		shop.GET("/products/:id", catalogControllers.GetProductByID(client))

		// ──────────────── Shopping Cart ────────────────
		cartGroup := shop.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetCart(manager))
			cartGroup.GET("/ws", cartControllers.CartFeed(manager))
			cartGroup.POST("/items", cartControllers.AddCartItem(manager))
			cartGroup.DELETE("/items", cartControllers.RemoveCartItem(manager))
			cartGroup.DELETE("/items/:product_id", cartControllers.RemoveCartLine(manager))
			cartGroup.DELETE("", cartControllers.ClearCart(manager))
		}

		// ──────────────── Checkout & Contact ────────────────
		shop.POST("/checkout", orderControllers.Checkout(manager))
		shop.POST("/contact", contactControllers.SendMessage(client))
	}
}
