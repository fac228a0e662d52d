package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/LithiumKitmap/Site/internal/config"
	"github.com/LithiumKitmap/Site/internal/es"
	"github.com/LithiumKitmap/Site/internal/files"
	"github.com/LithiumKitmap/Site/internal/httpserver"
	"github.com/LithiumKitmap/Site/internal/logging"
	"github.com/LithiumKitmap/Site/internal/mykafka"
	"github.com/LithiumKitmap/Site/internal/redisx"
	"github.com/LithiumKitmap/Site/internal/repo"
	"github.com/LithiumKitmap/Site/internal/service"
	"github.com/LithiumKitmap/Site/internal/service/token"
)

const productIndex = "products"

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	var producer *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			log.Fatal(err)
		}
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	r := repo.NewGormRepo(db)
	resolver := files.Resolver{BaseURL: configuration.FILES_BASE_URL}

	cartSvc := &service.CartService{Repo: r, StrictClear: configuration.CART_CLEAR_STRICT}
	catalogSvc := &service.CatalogService{Repo: r, Index: productIndex}
	if configuration.ES_URL != "" {
		esc, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		catalogSvc.ES = esc
	}

	checkoutSvc := &service.CheckoutService{
		Repo:               r,
		Cart:               cartSvc,
		Pending:            &service.RedisStore{Client: redisx.New(configuration.REDIS_ADDR)},
		PayPalRecipient:    configuration.PAYPAL_RECIPIENT,
		GooglePayRecipient: configuration.GOOGLEPAY_RECIPIENT,
	}

	tokenSvc := &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}

	deps := &httpserver.Deps{
		AuthHandler:     &httpserver.AuthHandler{Svc: &service.AuthService{Repo: r}, Tokens: tokenSvc, Producer: producer},
		ProductHandler:  &httpserver.ProductHandler{Svc: catalogSvc, Producer: producer},
		CartHandler:     &httpserver.CartHandler{Svc: cartSvc, Producer: producer},
		CheckoutHandler: &httpserver.CheckoutHandler{Svc: checkoutSvc, Producer: producer},
		AdminHandler:    &httpserver.AdminHandler{Svc: &service.AdminService{Repo: r, Cart: cartSvc, Files: resolver}, Producer: producer},
		DownloadHandler: &httpserver.DownloadHandler{Svc: &service.DownloadService{Repo: r, Files: resolver}},
		SearchHandler:   &httpserver.SearchHandler{ES: catalogSvc.ES, Index: productIndex},
		TokenService:    tokenSvc,
		CORSOrigin:      configuration.CORS_ORIGIN,
	}

	e := echo.New()
	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", configuration.PORT)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}
