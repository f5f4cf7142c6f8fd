package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	appasset "github.com/assetreg/backend/internal/application/asset"
	identityapp "github.com/assetreg/backend/internal/application/identity"
	appval "github.com/assetreg/backend/internal/application/valuation"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/infrastructure/auth"
	"github.com/assetreg/backend/internal/infrastructure/cache"
	"github.com/assetreg/backend/internal/infrastructure/config"
	"github.com/assetreg/backend/internal/infrastructure/event"
	"github.com/assetreg/backend/internal/infrastructure/logger"
	"github.com/assetreg/backend/internal/infrastructure/messaging"
	"github.com/assetreg/backend/internal/infrastructure/persistence"
	"github.com/assetreg/backend/internal/infrastructure/scheduler"
	"github.com/assetreg/backend/internal/infrastructure/storage"
	"github.com/assetreg/backend/internal/infrastructure/strategy"
	"github.com/assetreg/backend/internal/interfaces/http/handler"
	"github.com/assetreg/backend/internal/interfaces/http/middleware"
	"github.com/assetreg/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//	@title			Asset Register API
//	@version		1.0
//	@description	Asset register with depreciation valuation by financial year

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting asset register",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	assetRepo := persistence.NewGormAssetRepository(db.DB)
	assignmentRepo := persistence.NewGormAssignmentRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)
	rateRepo := persistence.NewGormRateRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	resetRepo := persistence.NewGormPasswordResetRepository(db.DB)

	strategies, err := strategy.NewRegistryWithDefaults()
	if err != nil {
		log.Fatal("Failed to register depreciation strategies", zap.Error(err))
	}

	// Summary cache, shared through Redis when enabled
	summaryCache, err := cache.NewSummaryCacheFactory(
		cfg.Redis, cfg.Valuation.SummaryCacheTTL, cache.WithLogger(log),
	).CreateCache()
	if err != nil {
		log.Fatal("Failed to create summary cache", zap.Error(err))
	}
	defer summaryCache.Close()

	// Token blacklist
	checks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if cfg.Redis.Enabled {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
		if err != nil {
			log.Warn("Redis token blacklist unavailable, using in-memory blacklist", zap.Error(err))
			checks["redis"] = func(context.Context) error { return err }
		} else {
			defer redisBlacklist.Close()
			blacklist = redisBlacklist
			checks["redis"] = redisBlacklist.Ping
		}
	}
	jwtService := auth.NewJWTService(cfg.JWT)

	// Object storage for bills and images
	objectStorage, err := storage.NewObjectStorage(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to create object storage", zap.Error(err))
	}
	if s3Storage, ok := objectStorage.(*storage.S3ObjectStorage); ok {
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Warn("Failed to ensure storage bucket", zap.Error(err))
		}
	}

	// Publisher for warranty reminders and password reset codes
	var publisher interface {
		appasset.NotificationPublisher
		identityapp.PasswordResetNotifier
		Close() error
	}
	if cfg.AMQP.Enabled {
		amqpPublisher, err := messaging.NewAMQPPublisher(cfg.AMQP, log)
		if err != nil {
			log.Fatal("Failed to connect to message broker", zap.Error(err))
		}
		publisher = amqpPublisher
	} else {
		publisher = messaging.NewLogPublisher(log)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Error closing notification publisher", zap.Error(err))
		}
	}()

	// Application services
	today := appval.ClockIn(cfg.Scheduler.Location())
	valuationService := appval.NewService(
		persistence.NewGormValuationScope(db),
		strategies,
		log,
		appval.WithCache(summaryCache),
		appval.WithClock(today),
	)
	assetService := appasset.NewAssetService(
		persistence.NewGormAssetTransactionScope(db.DB),
		assetRepo, assignmentRepo, categoryRepo, userRepo, strategies, log,
	)
	categoryService := appasset.NewCategoryService(categoryRepo, assetRepo, valuationService, log)
	purchaseService := appasset.NewPurchaseService(
		purchaseRepo, assetRepo, valuationService, objectStorage, storage.Layout(&cfg.Storage), log,
	)
	rateService := appval.NewRateService(rateRepo, categoryRepo, log)
	dashboardService := appasset.NewDashboardService(
		assetRepo, purchaseRepo, userRepo, persistence.NewGormAssetPopulation(db.DB),
		today, cfg.Scheduler.WarrantyWindowDays,
	)
	warrantyService := appasset.NewWarrantyReminderService(
		purchaseRepo, assetRepo, userRepo, publisher, today,
		cfg.Scheduler.WarrantyWindowDays, cfg.Scheduler.UnassignedSubjectTag, log,
	)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log.Named("auth"))
	userService := identityapp.NewUserService(userRepo, blacklist, jwtService, log.Named("user"))
	resetService := identityapp.NewPasswordResetService(
		userRepo, resetRepo, publisher, blacklist,
		identityapp.PasswordResetSettings{
			CodeTTL:     cfg.Reset.CodeTTL,
			MaxAttempts: cfg.Reset.MaxAttempts,
			SessionTTL:  jwtService.GetSessionLifetime(),
		},
		log,
	)

	// Domain events drop cached summaries whenever valuation inputs change
	eventBus := event.NewInMemoryEventBus(log)
	invalidation := appval.NewSummaryInvalidationHandler(valuationService, log)
	eventBus.Subscribe(invalidation, invalidation.EventTypes()...)
	var eventPublisher shared.EventPublisher = eventBus
	assetService.SetEventPublisher(eventPublisher)
	purchaseService.SetEventPublisher(eventPublisher)
	rateService.SetEventPublisher(eventPublisher)

	// Scheduled jobs
	var jobs handler.JobController
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(cfg.Scheduler, log)
		if err != nil {
			log.Fatal("Failed to create scheduler", zap.Error(err))
		}
		if err := sched.AddJob(cfg.Scheduler.WarrantyCron, scheduler.NewWarrantyJob(warrantyService, log)); err != nil {
			log.Fatal("Failed to register warranty job", zap.Error(err))
		}
		if err := sched.AddJob(cfg.Scheduler.ResetCleanupCron, scheduler.NewResetCleanupJob(resetService, log)); err != nil {
			log.Fatal("Failed to register reset code cleanup job", zap.Error(err))
		}
		jobs = sched
	}

	handlers := router.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		PasswordReset: handler.NewPasswordResetHandler(resetService),
		User:          handler.NewUserHandler(userService),
		Category:      handler.NewCategoryHandler(categoryService),
		Rate:          handler.NewDepreciationRateHandler(rateService, today),
		Asset:         handler.NewAssetHandler(assetService, purchaseService),
		Purchase:      handler.NewPurchaseHandler(purchaseService),
		Valuation:     handler.NewValuationHandler(valuationService),
		Dashboard:     handler.NewDashboardHandler(dashboardService),
		System:        handler.NewSystemHandler(cfg.App.Name, checks, jobs),
	}

	// HTTP
	middleware.SetupValidator()
	engine := router.NewEngine(&cfg.HTTP, log)
	authn := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths:      router.PublicPaths,
		Logger:         log,
	})
	loginLimiter := middleware.NewRateLimiter(cfg.HTTP.LoginRateLimit, cfg.HTTP.LoginRateWindow)
	defer loginLimiter.Stop()
	router.Mount(engine, handlers, authn, middleware.LoginRateLimit(loginLimiter))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if sched != nil {
		g.Go(func() error { return sched.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		_ = eventBus.Stop(shutdownCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Server exited gracefully")
}
