package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"rates-api-go/internal/auth"
	"rates-api-go/internal/handler"
	"rates-api-go/internal/hierarchy"
	"rates-api-go/internal/ratecache"
	"rates-api-go/internal/rates"
	"rates-api-go/internal/store"
	"rates-api-go/internal/telemetry"
	"rates-api-go/pkg/config"
	"rates-api-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.TracingEnabled,
		Environment: cfg.Environment,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialise tracing", "error", err)
	}

	// Connect to database
	db, err := store.Connect(ctx, cfg.DatabaseURL, store.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()
	pg := store.NewPostgres(db)

	if cfg.MigrateOnStart {
		applied, err := store.Migrate(ctx, db, log)
		if err != nil {
			log.Fatal("Failed to apply migrations", "error", err)
		}
		log.Info("Database schema up to date", "applied", applied)
	}

	// Region closure: load once, then keep it fresh in the background
	closure := hierarchy.NewCache(pg, log)
	if err := closure.Warm(ctx); err != nil {
		log.Fatal("Failed to load region hierarchy", "error", err)
	}
	go closure.RunScheduledRefresh(ctx, cfg.HierarchyRefreshInterval)
	if cfg.HierarchyListen {
		go func() {
			if err := closure.Listen(ctx, cfg.DatabaseURL); err != nil {
				log.Error("Hierarchy listener stopped", "error", err)
			}
		}()
	}

	// Initialize services
	rateService := rates.NewService(pg, closure, rates.Config{
		MinSamples:  cfg.MinPricesPerDay,
		MaxSpanDays: cfg.MaxDaysInterval,
	}, log)

	if cfg.RedisAddr != "" {
		resultCache, err := ratecache.New(ctx, cfg.RedisAddr, cfg.ResultCacheTTL, log)
		if err != nil {
			log.Warn("Result cache disabled", "error", err)
		} else {
			defer resultCache.Close()
			rateService.WithResultCache(resultCache)
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	serviceName := ""
	if cfg.TracingEnabled {
		serviceName = telemetry.ServiceName
	}
	router := handler.NewRouter(handler.RouterConfig{
		RateService:    rateService,
		Hierarchy:      closure,
		DB:             pg,
		Tokens:         auth.NewTokenService(cfg.JWTSecret),
		Logger:         log,
		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		ServiceName:    serviceName,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("Tracer shutdown failed", "error", err)
	}
}
