package app

import (
	"context"
	"database/sql"
	"finance-tracker-api/config"
	"finance-tracker-api/db"
	"finance-tracker-api/handler"
	"finance-tracker-api/logger"
	"finance-tracker-api/repository"
	"finance-tracker-api/router"
	"finance-tracker-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

// TestApp exposes the wired router plus the raw connections so integration
// tests can seed and inspect state directly.
type TestApp struct {
	Router http.Handler
	DB     *sql.DB
	Redis  *redis.Client
	Config *config.Config
}

func buildRouter(cfg *config.Config, database *sql.DB, redisClient *redis.Client) http.Handler {
	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	transactionRepo := repository.NewTransactionRepository(database)
	budgetRepo := repository.NewBudgetRepository(database)

	authService := service.NewAuthService(database, userRepo, tokenRepo, cfg)
	userService := service.NewUserService(userRepo, tokenRepo, authService)
	categoryService := service.NewCategoryService(categoryRepo, transactionRepo, budgetRepo, redisClient)
	transactionService := service.NewTransactionService(transactionRepo, categoryRepo)
	budgetService := service.NewBudgetService(database, budgetRepo, categoryRepo, transactionRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	budgetHandler := handler.NewBudgetHandler(budgetService)

	return router.NewRouter(cfg, authService, authHandler, userHandler, categoryHandler, transactionHandler, budgetHandler)
}

// NewTestApp wires the full stack on top of connections the caller owns.
func NewTestApp(cfg *config.Config, database *sql.DB, redisClient *redis.Client) *TestApp {
	return &TestApp{
		Router: buildRouter(cfg, database, redisClient),
		DB:     database,
		Redis:  redisClient,
		Config: cfg,
	}
}

func Run() {
	cfg, err := config.Load(".")
	if err != nil {
		logger.Init()
		logger.Log.Fatalf("Error loading configuration: %v", err)
	}
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect(cfg)
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(cfg, "file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running database migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis(cfg)
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	r := buildRouter(cfg, database, redisClient)

	port := cfg.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
