package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/MightyHelper/WSD25-Assign02/internal/cache"
	"github.com/MightyHelper/WSD25-Assign02/internal/config"
	"github.com/MightyHelper/WSD25-Assign02/internal/db"
	"github.com/MightyHelper/WSD25-Assign02/internal/es"
	"github.com/MightyHelper/WSD25-Assign02/internal/handlers"
	"github.com/MightyHelper/WSD25-Assign02/internal/hash"
	"github.com/MightyHelper/WSD25-Assign02/internal/logging"
	"github.com/MightyHelper/WSD25-Assign02/internal/metrics"
	authmw "github.com/MightyHelper/WSD25-Assign02/internal/middleware/auth"
	loggingmw "github.com/MightyHelper/WSD25-Assign02/internal/middleware/logging"
	"github.com/MightyHelper/WSD25-Assign02/internal/mykafka"
	"github.com/MightyHelper/WSD25-Assign02/internal/repo"
	"github.com/MightyHelper/WSD25-Assign02/internal/service"
	"github.com/MightyHelper/WSD25-Assign02/internal/storage"
	"github.com/MightyHelper/WSD25-Assign02/internal/tokens"
	httpserver "github.com/MightyHelper/WSD25-Assign02/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	ctx := context.Background()
	gormDB, err := db.Open(ctx, configuration.DATABASE_URL)
	if err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}

	gormRepo := repo.New(gormDB)
	codec := tokens.NewCodec([]byte(configuration.JWT_SECRET))
	hasher := hash.New(configuration.PEPPER)
	authSvc := service.NewAuthService(gormRepo, codec, hasher)
	resolver := authmw.NewResolver(gormRepo, codec)
	m := metrics.New()

	var producer *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	var bookCache *cache.BookCache
	if configuration.REDIS_URL != "" {
		redisClient, err := cache.NewClient(ctx, configuration.REDIS_URL)
		if err != nil {
			logger.Error("redis init failed", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		bookCache = &cache.BookCache{Client: redisClient, Metrics: m}
	}

	blobStorage, err := storage.New(configuration.STORAGE_KIND, configuration.UPLOAD_DIR, gormDB)
	if err != nil {
		logger.Error("storage init failed", "error", err)
		os.Exit(1)
	}

	var searchHandler *handlers.SearchHandler
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			logger.Error("elasticsearch init failed", "error", err)
			os.Exit(1)
		}
		searchHandler = &handlers.SearchHandler{ES: esClient, Index: "books"}
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		Resolver: resolver,
		Metrics:  m,
		Auth:     &handlers.AuthHandler{Svc: authSvc, Producer: producer},
		Users:    &handlers.UserHandler{DB: gormDB, Repo: gormRepo, Svc: authSvc},
		Authors:  &handlers.AuthorHandler{DB: gormDB},
		Books:    &handlers.BookHandler{DB: gormDB, Cache: bookCache, Storage: blobStorage, Producer: producer},
		Reviews:  &handlers.ReviewHandler{DB: gormDB},
		Comments: &handlers.CommentHandler{DB: gormDB},
		Orders:   &handlers.OrderHandler{DB: gormDB, Producer: producer},
		Search:   searchHandler,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("server started", "port", configuration.PORT)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
