// cmd/createadmin/main.go
//
// Bootstraps the SUPER_ADMIN account. Run once after deployment:
//
//	ADMIN_EMAIL=admin@cashtrack.com ADMIN_PASSWORD=... go run ./cmd/createadmin
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/cashtrack/cashtrack_backend/config"
	"github.com/cashtrack/cashtrack_backend/lifecycle"
	"github.com/cashtrack/cashtrack_backend/models"
	"github.com/cashtrack/cashtrack_backend/repositories"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@cashtrack.com"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD is required")
	}
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "CashTrack Admin"
	}

	client := config.ConnectDB()
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from database: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := repositories.NewUserRepository(client)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Printf("Error creating user indexes: %v", err)
	}

	if existing, err := users.FindByEmail(ctx, email); err == nil {
		log.Fatalf("Admin already exists: %s (%s)", existing.Email, existing.ID.Hex())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := &models.User{
		Email:                 email,
		Password:              string(hashed),
		Name:                  name,
		Role:                  models.RoleSuperAdmin,
		WithdrawalLimitConfig: models.LimitConfigUnlimited,
	}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, lifecycle.ErrConflict) {
			log.Fatalf("Admin already exists: %s", email)
		}
		log.Fatal("Failed to create admin:", err)
	}

	log.Printf("Created SUPER_ADMIN %s (%s)", admin.Email, admin.ID.Hex())
}
