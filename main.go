package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"storeadmin/internal/handlers"
	"storeadmin/internal/middleware"
	"storeadmin/internal/models"
	"storeadmin/internal/repositories"
	"storeadmin/internal/services"
	"storeadmin/pkg/docstore"
	"storeadmin/pkg/rabbitmq"
)

func main() {
	v := newConfig()

	app, _, err := NewApp(v)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	appPort := v.GetString("APP_PORT")
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	// Shutdown hooks close the store, the database and the RabbitMQ client.
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// NewApp wires stores, repositories, services and handlers into a Fiber app.
// Resources it opens are released by the app's shutdown hooks.
func NewApp(v *viper.Viper) (*fiber.App, *services.AuthService, error) {
	var closers []func() error

	store, closeStore, err := openStore(v)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeStore)

	db, err := openDatabase(v)
	if err != nil {
		runClosers(closers)
		return nil, nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		closers = append(closers, sqlDB.Close)
	}
	if err := db.AutoMigrate(&models.AdminAccount{}); err != nil {
		runClosers(closers)
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// --- Repositories ---
	catalogRepo := repositories.NewDocstoreCatalogRepository(store)
	orderRepo := repositories.NewDocstoreOrderRepository(store, repositories.UserOrdersLayout{}, v.GetString("ORDERS_STRATEGY"))
	userRepo := repositories.NewDocstoreUserRepository(store)
	adminRepo := repositories.NewGORMAdminRepository(db)

	// --- Order status events ---
	var publisher services.EventPublisher
	if url := v.GetString("RABBITMQ_URL"); url != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			runClosers(closers)
			return nil, nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		closers = append(closers, mqClient.Close)
		publisher = mqClient

		if err := mqClient.ConsumeOrderEvents(rabbitmq.HandleOrderStatusMessage); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	} else {
		log.Println("RABBITMQ_URL is not set. Order status events will not be published.")
	}

	// --- Services ---
	catalogService := services.NewCatalogService(catalogRepo, v.GetBool("CATALOG_CASCADE_DELETE"))
	orderService := services.NewOrderService(orderRepo, publisher)
	userService := services.NewUserService(userRepo)
	authService := services.NewAuthService(adminRepo, v.GetString("JWT_SECRET"))

	if email := v.GetString("ADMIN_EMAIL"); email != "" {
		if err := authService.EnsureAdmin(email, v.GetString("ADMIN_PASSWORD")); err != nil {
			runClosers(closers)
			return nil, nil, fmt.Errorf("failed to seed admin account: %w", err)
		}
	}

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	orderHandler := handlers.NewOrderHandler(orderService)
	userHandler := handlers.NewUserHandler(userService)

	app := fiber.New()
	app.Use(logger.New())
	app.Hooks().OnShutdown(func() error {
		runClosers(closers)
		return nil
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"store":    v.GetString("STORE_BACKEND"),
			"orders":   orderRepo.Strategy(),
			"rabbitmq": publisher != nil,
		})
	})

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protected)
	catalogHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)
	userHandler.RegisterRoutes(protected)

	return app, authService, nil
}

func openStore(v *viper.Viper) (docstore.Store, func() error, error) {
	switch backend := v.GetString("STORE_BACKEND"); backend {
	case "memory":
		log.Println("Using in-memory document store. Data is lost on restart.")
		return docstore.NewMemoryStore(), func() error { return nil }, nil
	case "firestore":
		projectID := v.GetString("FIRESTORE_PROJECT_ID")
		if projectID == "" {
			return nil, nil, fmt.Errorf("FIRESTORE_PROJECT_ID is required for the firestore backend")
		}
		store, err := docstore.NewFirestoreStore(context.Background(), projectID)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", backend)
	}
}

func openDatabase(v *viper.Viper) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver := v.GetString("DATABASE_DRIVER"); driver {
	case "postgres":
		dialector = postgres.Open(v.GetString("DATABASE_DSN"))
	case "sqlite":
		dialector = sqlite.Open(v.GetString("DATABASE_DSN"))
	default:
		return nil, fmt.Errorf("unknown DATABASE_DRIVER %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func runClosers(closers []func() error) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			log.Printf("Error releasing resource: %v", err)
		}
	}
}
