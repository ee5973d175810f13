package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-storefront/internal/app"
	"go-storefront/internal/cache"
	"go-storefront/internal/config"
	"go-storefront/internal/media"
	"go-storefront/internal/model"
	"go-storefront/internal/ws"
	"go-storefront/pkg/database"
	"go-storefront/pkg/jwt"
)

func main() {
	// 1. Load Env
	config.LoadEnv()
	cfg := config.Load()

	// 2. Setup Database
	db := database.ConnectDB(database.Options{
		Driver:     cfg.DBDriver,
		DSN:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	})
	if err := db.AutoMigrate(model.Migratable()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Seed default privileges, roles, and admin user
	if err := app.Seed(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Printf("Warning: Failed to seed defaults: %v", err)
	}

	// 4. Collaborators
	store := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	storage, err := media.NewLocalStorage(cfg.UploadDir, cfg.AppURL)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wsHub := ws.NewHub()
	go wsHub.Run(ctx)

	// 5. Setup Fiber
	server := app.New(db, app.Options{
		AppName:        cfg.AppName,
		PerPage:        cfg.PerPage,
		CacheTTL:       cfg.CacheTTL,
		CurrencySymbol: cfg.CurrencySymbol,
		UploadDir:      cfg.UploadDir,
		RequestLog:     true,

		LowStockThreshold: cfg.LowStockThreshold,
		Cache:          store,
		Storage:        storage,
		Signer:         jwt.NewSigner(cfg.JWTSecret, cfg.JWTTTL),
		Hub:            wsHub,
	})

	// 6. Graceful Shutdown
	go func() {
		if err := server.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	<-ctx.Done()

	log.Println("Shutting down server...")
	if err := server.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		closer.Close()
	}

	log.Println("Server exited")
}
