package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"size-fit/internal/config"
	"size-fit/internal/db"
	apihttp "size-fit/internal/http"
	"size-fit/internal/repository"
	"size-fit/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var (
		charts   repository.SizeChartRepository
		shoppers repository.ShopperProfileRepository
	)
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()

		if cfg.AutoMigrate {
			if err := db.EnsureSchema(ctx, pool); err != nil {
				logger.Fatal("db schema", zap.Error(err))
			}
		}
		charts = repository.NewPgSizeChartRepository(pool)
		shoppers = repository.NewPgShopperProfileRepository(pool)
	} else {
		logger.Warn("database url not configured; catalog and shopper routes disabled")
	}

	window := time.Minute
	limiter := service.NewMemoryRateLimiter(window, cfg.RateLimitPerMinute)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed; using in-memory rate limiter", zap.Error(err))
		} else {
			limiter = service.NewRedisRateLimiter(redisClient, window, cfg.RateLimitPerMinute)
		}
		cancel()
	}

	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured; size chart writes will be rejected")
	}

	fittingSvc := service.NewFittingService(logger, charts, shoppers)
	fittingHandler := apihttp.NewFittingHandler(logger, fittingSvc)
	catalogHandler := apihttp.NewCatalogHandler(logger, fittingSvc)
	shopperHandler := apihttp.NewShopperHandler(logger, fittingSvc)
	router := apihttp.NewRouter(logger, fittingHandler, catalogHandler, shopperHandler, jwtSvc, limiter)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.LogDevelopment {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
