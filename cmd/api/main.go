package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediastore/internal/client"
	"mediastore/internal/config"
	"mediastore/internal/handler"
	"mediastore/internal/logger"
	"mediastore/internal/repository"
	"mediastore/internal/server"
	"mediastore/internal/service"
	"mediastore/internal/signing"
	"mediastore/internal/storage"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatal("init logger:", err)
	}
	defer zlog.Sync()

	db := client.InitSqliteClient(cfg.DatabasePath)

	store, err := newStorage(cfg)
	if err != nil {
		zlog.Fatal("init storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}

	stripeClient := client.NewStripeClient(&cfg.Stripe, cfg.BaseURL)

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	downloadSigner := signing.NewSigner(cfg.SecretKey, service.DownloadSalt)
	cartSigner := signing.NewSigner(cfg.SecretKey, handler.CartSalt)

	catalogService := service.NewCatalogService(productRepo, store)
	checkoutService := service.NewCheckoutService(db, stripeClient, productRepo, orderRepo, cfg.Currency, zlog)
	paymentService := service.NewPaymentService(stripeClient, orderRepo, webhookEventRepo, zlog)
	downloadService := service.NewDownloadService(downloadSigner, store, cfg.Storage.Backend, cfg.BaseURL, zlog)
	authService := service.NewAuthService(userRepo, cfg.SecretKey, cfg.Admin)

	cartHandler := handler.NewCartHandler(cartSigner, catalogService)

	srv := server.NewServer(
		handler.NewCatalogHandler(catalogService),
		cartHandler,
		handler.NewCheckoutHandler(checkoutService, orderRepo, cartHandler),
		handler.NewWebhookHandler(paymentService),
		handler.NewDownloadHandler(downloadService, orderRepo, productRepo, store),
		handler.NewAuthHandler(authService),
		handler.NewAdminHandler(authService, catalogService, orderRepo),
		authService,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	zlog.Info("Starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	zlog.Info("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		zlog.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}

func newStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Backend {
	case storage.BackendS3:
		return storage.NewS3(context.Background(), cfg.Storage.S3Region, cfg.Storage.S3Bucket)
	case storage.BackendLocal:
		return storage.NewLocal(cfg.Storage.MediaFolder)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
