package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/MindSpaceMan/flora-site/cart"
	"github.com/MindSpaceMan/flora-site/remote"
	"github.com/MindSpaceMan/flora-site/routes"
	"github.com/MindSpaceMan/flora-site/sessions"
	"github.com/MindSpaceMan/flora-site/storage"
)

func main() {
	log.Println("✅ Starting flora-site gateway...")

	// Load environment variables
	_ = godotenv.Load()

	client := remote.NewClient(upstreamURL())
	stash := initStorage()
	backend := initBackend(client)

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		log.Fatal("❌ SESSION_SECRET is required")
	}
	manager := sessions.NewManager(backend, stash, []byte(secret))
	defer manager.Dispose()

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, manager, client)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("✅ Listening on :%s (upstream %s)", port, upstreamURL())
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

func upstreamURL() string {
	if url := os.Getenv("UPSTREAM_API_URL"); url != "" {
		return url
	}
	return "http://localhost:8337"
}

// initStorage picks the cart-state store: Postgres when DATABASE_URL is
// set, a local data directory otherwise.
func initStorage() storage.Store {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		stash, err := storage.NewGormStore(db)
		if err != nil {
			log.Fatalf("❌ AutoMigrate failed: %v", err)
		}
		log.Println("✅ Cart state persisted in Postgres")
		return stash
	}

	dir := os.Getenv("CART_DATA_DIR")
	if dir == "" {
		dir = "data/carts"
	}
	stash, err := storage.NewFileStore(dir)
	if err != nil {
		log.Fatalf("❌ Failed to open cart data dir: %v", err)
	}
	log.Printf("✅ Cart state persisted in %s", dir)
	return stash
}

// initBackend picks the cart strategy. The local backend keeps carts in
// process and only consults upstream for product snapshots; the remote one
// syncs every mutation against the upstream cart API.
func initBackend(client *remote.Client) cart.Backend {
	if os.Getenv("CART_BACKEND") == "local" {
		log.Println("✅ Using local cart backend")
		return cart.NewLocalBackend(client)
	}
	return cart.NewRemoteBackend(client)
}

func allowedOrigins() []string {
	if origin := os.Getenv("CORS_ORIGIN"); origin != "" {
		return []string{origin}
	}
	return []string{"*"}
}
