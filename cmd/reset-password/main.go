package main

import (
	"context"
	"log"

	"nexus-pos/internal/config"
	"nexus-pos/internal/repository"
	"nexus-pos/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.Load()

	// 2. Setup Database
	db := database.ConnectDB(cfg.Database())
	defer database.Close(db)

	ctx := context.Background()
	userRepo := repository.NewUserRepo(db)

	// 3. Find Admin
	email := cfg.SeedAdminEmail
	user, err := userRepo.FindByEmail(ctx, email)
	if err != nil {
		log.Fatalf("User %s not found in database: %v", email, err)
	}

	// 4. Hash new password
	newPassword := cfg.SeedAdminPassword
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	// 5. Update, and drop any live session
	if err := userRepo.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		log.Fatalf("Failed to update password in DB: %v", err)
	}
	if err := userRepo.UpdateTokenVersion(ctx, user.ID, ""); err != nil {
		log.Fatalf("Failed to reset session: %v", err)
	}

	log.Printf("Password for %s has been reset to the configured SEED_ADMIN_PASSWORD", email)
}
