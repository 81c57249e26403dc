package main

import (
	"log"
	"net/http"

	_ "cardvault/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"cardvault/internal/auth"
	"cardvault/internal/cache"
	"cardvault/internal/config"
	"cardvault/internal/crypto"
	"cardvault/internal/db"
	"cardvault/internal/handler"
	"cardvault/internal/model"
	"cardvault/internal/repository"
	"cardvault/internal/router"
	"cardvault/internal/service"
)

// @title Bank Card Management API
// @version 1.0
// @description Bank card management with encrypted card storage, own-card transfers and JWT authentication.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Card{},
		&model.Transaction{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cipher, err := crypto.New(crypto.Config{
		Key:       cfg.CardEncKey,
		Algorithm: cfg.CardEncCipher,
	})
	if err != nil {
		log.Fatalf("crypto init: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories and unit-of-work manager
	userRepo := repository.NewUserRepository(gormDB)
	cardRepo := repository.NewCardRepository(gormDB)
	transactionRepo := repository.NewTransactionRepository(gormDB)
	txManager := repository.NewTxManager(gormDB)

	// Services
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	authService := service.NewAuthService(userRepo, jwtService)
	cardService := service.NewCardService(userRepo, cardRepo, txManager, cipher,
		service.NewCardValidator(), cacheClient)
	transferService := service.NewTransferService(cardRepo, transactionRepo, userRepo,
		txManager, cacheClient)
	userService := service.NewUserService(userRepo, txManager)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	cardHandler := handler.NewCardHandler(cardService)
	transferHandler := handler.NewTransferHandler(transferService)
	userHandler := handler.NewUserHandler(userService)

	router.Register(e, cfg, jwtService, authHandler, cardHandler, transferHandler, userHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
