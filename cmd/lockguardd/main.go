package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"

	"lockguard-backend/config"
	"lockguard-backend/internal/api"
	"lockguard-backend/internal/db"
	"lockguard-backend/internal/notification"
	"lockguard-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "lockguard ", log.LstdFlags)

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		logger.Println(".env loaded")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Auth.JWTSecret == "" {
		logger.Fatalf("auth.jwt_secret must be configured (or set JWT_SECRET)")
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender, err := newSender(ctx, &cfg.Push)
	if err != nil {
		logger.Fatalf("failed to initialize push sender: %v", err)
	}
	dispatcher := notification.NewDispatcher(sender, cfg.Push.RatePerSec, cfg.Push.Burst)
	logger.Printf("push dispatcher initialized (provider: %s)", cfg.Push.Provider)

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	router := api.NewRouter(appStore, dispatcher, &cfg.Auth)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}

// newSender builds the configured push provider.
func newSender(ctx context.Context, cfg *config.PushConfig) (notification.Sender, error) {
	switch cfg.Provider {
	case "expo":
		return notification.NewExpoSender(cfg.ExpoURL), nil
	case "webpush":
		if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
			return nil, errors.New("VAPID keys must be configured for the webpush provider")
		}
		return notification.NewWebPushSender(&webpush.Options{
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			Subscriber:      cfg.Subject,
			TTL:             cfg.TTL,
		}), nil
	case "fcm":
		return notification.NewFCMSender(ctx, cfg.CredentialsFile)
	default:
		return nil, fmt.Errorf("unknown push provider %q", cfg.Provider)
	}
}
