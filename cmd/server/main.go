package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	gosmtp "github.com/emersion/go-smtp"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/govindup63/Ghstmail.me/internal/auth"
	jwtpkg "github.com/govindup63/Ghstmail.me/internal/auth/jwt"
	"github.com/govindup63/Ghstmail.me/internal/cache"
	"github.com/govindup63/Ghstmail.me/internal/config"
	"github.com/govindup63/Ghstmail.me/internal/logger"
	"github.com/govindup63/Ghstmail.me/internal/monitoring"
	"github.com/govindup63/Ghstmail.me/internal/pool"
	"github.com/govindup63/Ghstmail.me/internal/security"
	"github.com/govindup63/Ghstmail.me/internal/service"
	"github.com/govindup63/Ghstmail.me/internal/smtp"
	"github.com/govindup63/Ghstmail.me/internal/storage"
	"github.com/govindup63/Ghstmail.me/internal/storage/memory"
	"github.com/govindup63/Ghstmail.me/internal/storage/postgres"
	"github.com/govindup63/Ghstmail.me/internal/storage/redis"
	httptransport "github.com/govindup63/Ghstmail.me/internal/transport/http"
)

// main starts the combined HTTP API and inbound SMTP relay.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	if cfg.Log.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		File:        cfg.Log.File,
		MaxSize:     100,
		MaxBackups:  3,
		MaxAge:      28,
		Compress:    true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("starting ghstmail server",
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("development", cfg.Log.Development),
		zap.String("alias_domain", cfg.Alias.Domain),
	)

	// Storage: PostgreSQL when a DSN is set, in-memory otherwise.
	var store storage.Store
	if cfg.Database.DSN != "" {
		pgStore, err := postgres.NewStore(
			cfg.Database.DSN,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			cfg.Database.ConnMaxLifetime,
		)
		if err != nil {
			log.Fatal("failed to connect to postgres", zap.Error(err))
		}
		if err := pgStore.Migrate(); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		store = pgStore
		log.Info("using postgres storage")
	} else {
		store = memory.NewStore()
		log.Info("using memory storage (development mode)")
	}

	// Redis resolve cache is optional; without it SMTP lookups fall
	// through the in-process cache straight to storage.
	var resolveCache *redis.ResolveCache
	if cfg.Redis.Address != "" {
		resolveCache, err = redis.NewResolveCache(
			cfg.Redis.Address,
			cfg.Redis.Password,
			cfg.Redis.DB,
			5*time.Minute,
		)
		if err != nil {
			log.Warn("redis unavailable, continuing without resolve cache", zap.Error(err))
			resolveCache = nil
		} else {
			log.Info("redis resolve cache connected", zap.String("address", cfg.Redis.Address))
		}
	}

	metrics := monitoring.NewMetrics()

	extras := map[string]monitoring.Pingable{}
	if resolveCache != nil {
		extras["redis"] = resolveCache
	}
	healthChecker := monitoring.NewHealthChecker(store, extras)

	aliasService := service.NewAliasService(store, store, cfg)
	authService := auth.NewService(store)
	jwtManager := jwtpkg.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	router := httptransport.NewRouter(httptransport.RouterDependencies{
		Config:       cfg,
		AliasService: aliasService,
		AuthService:  authService,
		JWTManager:   jwtManager,
		Metrics:      metrics,
		Logger:       log,
	})
	router.GET("/health/live", gin.WrapF(healthChecker.LiveEndpoint()))
	router.GET("/health/ready", gin.WrapF(healthChecker.ReadyEndpoint()))
	router.GET("/metrics", gin.WrapH(metrics.HTTPHandler()))

	httpAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	forwardPool := pool.NewWorkerPool(8, 256, log)
	forwardPool.Start(ctx)

	localCache := cache.NewAliasCache(time.Minute)
	defer localCache.Close()

	// Deleted aliases must stop receiving mail right away, not when
	// their cache entries expire.
	aliasService.SetCacheInvalidation(func(address string) {
		localCache.Invalidate(address)
		if resolveCache != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := resolveCache.Invalidate(ctx, address); err != nil {
				log.Warn("failed to invalidate resolve cache", zap.Error(err))
			}
		}
	})

	smtpBackend := smtp.NewBackend(smtp.BackendDeps{
		Aliases:   aliasService,
		Forwarder: smtp.NewRelayForwarder(cfg.SMTP.RelayAddr),
		Local:     localCache,
		Remote:    resolveCache,
		Filter:    security.NewContentFilter(),
		Pool:      forwardPool,
		Limiter:   smtp.NewConnectionLimiter(20, 100),
		Metrics:   metrics,
		Log:       log,
	})

	smtpServer := gosmtp.NewServer(smtpBackend)
	smtpServer.Addr = cfg.SMTP.BindAddr
	smtpServer.Domain = cfg.SMTP.Domain
	smtpServer.ReadTimeout = 10 * time.Second
	smtpServer.WriteTimeout = 10 * time.Second
	smtpServer.MaxMessageBytes = 10 * 1024 * 1024
	smtpServer.MaxRecipients = 50

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting HTTP server", zap.String("address", httpAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", zap.Error(err))
			return err
		}
		return nil
	})

	group.Go(func() error {
		log.Info("starting SMTP server",
			zap.String("address", cfg.SMTP.BindAddr),
			zap.String("domain", cfg.SMTP.Domain),
		)
		if err := smtpServer.ListenAndServe(); err != nil && err != gosmtp.ErrServerClosed {
			log.Error("SMTP server error", zap.Error(err))
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown signal received, gracefully shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", zap.Error(err))
		}
		if err := smtpServer.Close(); err != nil {
			log.Warn("SMTP server close warning", zap.Error(err))
		}

		forwardPool.Stop()
		if resolveCache != nil {
			_ = resolveCache.Close()
		}

		log.Info("servers stopped")
		return nil
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		log.Fatal("server error", zap.Error(err))
	}
	log.Info("server exited cleanly")
}
