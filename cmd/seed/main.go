package main

import (
	"context"
	"log"
	"os"

	"cardvault/internal/config"
	"cardvault/internal/db"
	"cardvault/internal/model"
	"cardvault/internal/repository"
	"cardvault/internal/service"
)

// Seeds the first admin account. Users are created by admins only, so a
// fresh deployment needs one admin bootstrapped out of band.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Card{}, &model.Transaction{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	username := getEnv("SEED_ADMIN_USERNAME", "admin")
	password := getEnv("SEED_ADMIN_PASSWORD", "admin123")
	email := getEnv("SEED_ADMIN_EMAIL", "admin@example.com")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)

	exists, err := userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		log.Fatalf("Failed to check admin user: %v", err)
	}
	if exists {
		log.Printf("Admin user %q already exists, nothing to do", username)
		return
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    "System",
		LastName:     "Administrator",
		Role:         model.RoleAdmin,
		Enabled:      true,
	}
	if err := userRepo.Save(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	log.Printf("Seeded admin user %q (id=%d)", admin.Username, admin.ID)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
