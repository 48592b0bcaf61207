package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lottohub/draws-backend/api/routes"
	"github.com/lottohub/draws-backend/internal/config"
	"github.com/lottohub/draws-backend/internal/handlers"
	mongorepo "github.com/lottohub/draws-backend/internal/repositories/mongodb"
	"github.com/lottohub/draws-backend/internal/services"
	"github.com/lottohub/draws-backend/pkg/mongodb"
)

func main() {
	// Load .env if present; real environments configure via env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT.Secret is not configured")
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	categoryRepo := mongorepo.NewCategoryRepository(db)
	drawRepo := mongorepo.NewDrawRepository(db)
	adminUserRepo := mongorepo.NewAdminUserRepository(db)

	// Unique indexes are what enforce draw number and slug uniqueness under
	// concurrent writes.
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelIndex()
	if err := drawRepo.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to create draw indexes: %v", err)
	}
	if err := categoryRepo.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to create category indexes: %v", err)
	}

	// Services
	authService := services.NewAuthService(adminUserRepo, cfg)
	drawService := services.NewDrawService(drawRepo, categoryRepo)
	categoryService := services.NewCategoryService(categoryRepo, drawRepo)

	// Handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:      handlers.NewAuthHandler(authService),
		DrawHandler:      handlers.NewDrawHandler(drawService, categoryService),
		AdminDrawHandler: handlers.NewAdminDrawHandler(drawService),
		CategoryHandler:  handlers.NewCategoryHandler(categoryService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}
