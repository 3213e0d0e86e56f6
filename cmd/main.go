package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"betline/internal/auth"
	"betline/internal/config"
	"betline/internal/database"
	"betline/internal/handlers"
	"betline/internal/jobs"
	"betline/internal/repository"
	"betline/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	db, err := database.Connect(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repository and services
	repo := repository.NewRepository(db)
	marketLocks := services.NewMarketLocks()

	ledgerService := services.NewLedgerService(repo)
	accountService := services.NewAccountService(repo, ledgerService, cfg.App.InitialBalance)
	marketService := services.NewMarketService(repo)
	wagerService := services.NewWagerService(repo, ledgerService, marketLocks)
	settlementService := services.NewSettlementService(repo, ledgerService, marketLocks)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(accountService)
	marketHandler := handlers.NewMarketHandler(marketService, settlementService)
	wagerHandler := handlers.NewWagerHandler(wagerService)

	// Start weekly bonus job
	bonusJob := jobs.NewBonusJob(repo, ledgerService, cfg.App.WeeklyBonusAmount, cfg.App.BonusSweepInterval)
	go bonusJob.Start()

	// Set up Gin router
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/token", authHandler.Token)
	router.GET("/api/markets", marketHandler.GetOpenMarkets)
	router.GET("/api/markets/:id", marketHandler.GetMarket)

	// Protected routes
	api := router.Group("/")
	api.Use(auth.AuthMiddleware())
	{
		api.GET("/auth/me", authHandler.GetMe)
		api.GET("/api/stats", authHandler.GetStats)
		api.POST("/api/markets", marketHandler.CreateMarket)
		api.POST("/api/markets/:id/close", marketHandler.CloseMarket)
		api.POST("/api/markets/:id/wagers", wagerHandler.PlaceWager)
		api.GET("/api/wagers", wagerHandler.GetMyWagers)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	bonusJob.Stop()

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
