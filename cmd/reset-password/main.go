package main

import (
	"flag"
	"log"

	"go-storefront/internal/config"
	"go-storefront/internal/repository"
	"go-storefront/pkg/database"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 1. Load Env
	config.LoadEnv()
	cfg := config.Load()

	email := flag.String("email", cfg.AdminEmail, "account to reset")
	newPassword := flag.String("password", cfg.AdminPassword, "new password")
	flag.Parse()

	// 2. Setup Database
	db := database.ConnectDB(database.Options{
		Driver:     cfg.DBDriver,
		DSN:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	})
	users := repository.NewUserRepo(db)

	// 3. Find user
	user, err := users.FindByEmail(*email)
	if err != nil {
		log.Fatalf("User %s not found in database: %v", *email, err)
	}

	// 4. Hash new password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	// 5. Update
	if err := users.UpdatePassword(user.ID, string(hashedPassword)); err != nil {
		log.Fatalf("Failed to update password in DB: %v", err)
	}

	log.Printf("Password for %s has been reset", *email)
}
