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

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/avelkov/eshop-api/internal/config"
	"github.com/avelkov/eshop-api/internal/db"
	"github.com/avelkov/eshop-api/internal/events"
	"github.com/avelkov/eshop-api/internal/httpserver"
	"github.com/avelkov/eshop-api/internal/logging"
	authmw "github.com/avelkov/eshop-api/internal/middleware/auth"
	"github.com/avelkov/eshop-api/internal/models"
	"github.com/avelkov/eshop-api/internal/payment"
	"github.com/avelkov/eshop-api/internal/repo"
	"github.com/avelkov/eshop-api/internal/search"
	"github.com/avelkov/eshop-api/internal/service"
	"github.com/avelkov/eshop-api/internal/upload"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New("eshop-api")

	database, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	if err := database.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.User{},
		&models.OrderItem{},
		&models.Order{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	saver, err := upload.NewSaver(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload dir error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)

	index, err := search.NewIndex(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		log.Fatalf("elasticsearch init error: %v", err)
	}

	var checkout payment.CheckoutClient
	if cfg.StripeSecretKey != "" {
		checkout = payment.NewStripeClient(cfg.StripeSecretKey, cfg.StripeSuccessURL, cfg.StripeCancelURL)
	}

	r := repo.New(database)

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID(), echomw.CORS())
	e.Use(logging.RequestLogger(logger))

	deps := &httpserver.Deps{
		CategoryHandler: &httpserver.CategoryHTTP{
			Svc: &service.CategoryService{Repo: r},
		},
		ProductHandler: &httpserver.ProductHTTP{
			Svc:           &service.ProductService{Repo: r},
			Saver:         saver,
			Producer:      producer,
			Index:         index,
			PublicBaseURL: cfg.PublicBaseURL,
		},
		UserHandler: &httpserver.UserHTTP{
			Svc:      &service.UserService{Repo: r, JWTSecret: cfg.JWTSecret},
			Producer: producer,
		},
		OrderHandler: &httpserver.OrderHTTP{
			Svc:      &service.OrderService{Repo: r, Checkout: checkout},
			Producer: producer,
		},
		AuthMW:    &authmw.Middleware{JWTSecret: cfg.JWTSecret},
		APIPrefix: cfg.APIPrefix,
		UploadDir: cfg.UploadDir,
	}
	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort, "api_prefix", cfg.APIPrefix)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}
