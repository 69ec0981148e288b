package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"librarium/database"
	"librarium/internal/config"
	"librarium/internal/http-api/cache"
	"librarium/internal/http-api/handler"
	"librarium/internal/http-api/middleware"
	"librarium/internal/http-api/repository"
	"librarium/internal/http-api/service"
)

func main() {
	// 1. Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	// 2. Connect to the database
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	defer database.Close(db)

	// 3. Redis cache (optional; the service runs fine without it)
	bookCache, err := cache.NewBookCache(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without book cache", "err", err)
		bookCache = nil
	} else {
		defer bookCache.Close()
	}

	// 4. Wire repositories, services, handlers
	bookRepo := repository.NewBookRepository(db)
	memberRepo := repository.NewMemberRepository(db)

	bookSvc := service.NewBookService(bookRepo, bookCache)
	memberSvc := service.NewMemberService(memberRepo)
	lendingSvc := service.NewLendingService(bookRepo, memberRepo, bookCache, cfg.BorrowingPeriodDays)

	bookHandler := handler.NewBookHandler(bookSvc, lendingSvc)
	memberHandler := handler.NewMemberHandler(memberSvc)

	// 5. Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
			return
		}
		if err := bookCache.Ping(ctx); err != nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "cache": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	bookHandler.RegisterRoutes(api.Group("/books"))
	memberHandler.RegisterRoutes(api.Group("/members"))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}
