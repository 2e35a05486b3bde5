package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/hurricane-api/api/swagger"
	"github.com/noah-isme/hurricane-api/internal/ai"
	"github.com/noah-isme/hurricane-api/internal/catalog"
	"github.com/noah-isme/hurricane-api/internal/handler"
	internalmiddleware "github.com/noah-isme/hurricane-api/internal/middleware"
	"github.com/noah-isme/hurricane-api/internal/repository"
	"github.com/noah-isme/hurricane-api/internal/service"
	"github.com/noah-isme/hurricane-api/pkg/cache"
	"github.com/noah-isme/hurricane-api/pkg/config"
	"github.com/noah-isme/hurricane-api/pkg/database"
	"github.com/noah-isme/hurricane-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/hurricane-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/hurricane-api/pkg/middleware/requestid"
	"github.com/noah-isme/hurricane-api/pkg/storage"
)

// @title Hurricane Gradebook API
// @version 1.0.0
// @description Gradebook, prediction, study schedule and AI practice for Vietnamese high-school students.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(cfg.Catalog.File)
	if err != nil {
		logr.Sugar().Fatalw("failed to load subject catalog", "file", cfg.Catalog.File, "error", err)
	}

	metrics := service.NewMetricsService()

	store, closeStore, err := openStore(ctx, cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to open state store", "driver", cfg.Store.Driver, "error", err)
	}
	defer closeStore()
	store = repository.NewInstrumentedStore(store, metrics.ObserveStoreOp)
	state := repository.NewStateRepository(store, cfg.Store.Namespace, logr)

	suggestionCache := service.NewCacheService(openCache(ctx, cfg, logr), metrics, cfg.Practice.CacheTTL, logr, cfg.Practice.CacheEnabled)

	aiClient := ai.NewClient(newProvider(cfg, logr), cfg.AI.Model, logr, metrics.ObserveAICall)

	validate := validator.New()
	sessionSvc := service.NewSessionService(state, validate, logr, service.SessionConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		Expiry: cfg.JWT.Expiration,
	})
	practiceSvc := service.NewPracticeService(aiClient, state, suggestionCache, cat, service.PracticeConfig{
		CacheTTL:        cfg.Practice.CacheTTL,
		MaxUploadBytes:  cfg.Practice.MaxUploadBytes,
		PrefetchEnabled: cfg.Practice.PrefetchEnabled && suggestionCache.Enabled(),
		PrefetchWorkers: cfg.Practice.PrefetchWorkers,
		PrefetchRetries: cfg.Practice.PrefetchRetries,
	}, logr)
	practiceSvc.Start(ctx)
	defer practiceSvc.Stop()

	gradebookSvc := service.NewGradebookService(state, cat, practiceSvc, metrics, validate, logr)
	predictionSvc := service.NewPredictionService(state, cat, logr)
	rewardSvc := service.NewRewardService(state, cfg.Rewards.BarsPerCycle, nil, metrics, logr)
	scheduleSvc := service.NewScheduleService(state, service.DefaultLocation(), logr)
	exportSvc := service.NewExportService(state, cat, logr, nil, nil, nil)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics, "/metrics"))

	handler.RegisterRoutes(r, cfg.APIPrefix, sessionSvc, handler.Handlers{
		Session:    handler.NewSessionHandler(sessionSvc, cat),
		Subjects:   handler.NewSubjectHandler(gradebookSvc),
		Prediction: handler.NewPredictionHandler(predictionSvc),
		Rewards:    handler.NewRewardHandler(rewardSvc),
		Schedule:   handler.NewScheduleHandler(scheduleSvc),
		Practice:   handler.NewPracticeHandler(practiceSvc, exportSvc),
		Exports:    handler.NewExportHandler(exportSvc),
		Metrics:    handler.NewMetricsHandler(metrics, store),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", store.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (repository.KVStore, func(), error) {
	noop := func() {}
	switch cfg.Store.Driver {
	case config.StoreMemory, "":
		return repository.NewMemoryStore(), noop, nil
	case config.StoreFile:
		files, err := storage.NewLocalStorage(cfg.Store.FileDir)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewFileStore(files), noop, nil
	case config.StorePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		pg := repository.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return pg, func() {
			if err := db.Close(); err != nil {
				logr.Warn("failed to close database", zap.Error(err))
			}
		}, nil
	case config.StoreRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewRedisStore(client), func() {
			if err := client.Close(); err != nil {
				logr.Warn("failed to close redis", zap.Error(err))
			}
		}, nil
	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// openCache returns nil when caching is off or Redis is unreachable.
func openCache(ctx context.Context, cfg *config.Config, logr *zap.Logger) service.CacheRepository {
	if !cfg.Practice.CacheEnabled {
		return nil
	}
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("suggestion cache disabled", zap.Error(err))
		return nil
	}
	return repository.NewCacheRepository(client, cfg.Store.Namespace, logr)
}

// newProvider returns nil when no backend is configured so practice
// endpoints serve their fallbacks.
func newProvider(cfg *config.Config, logr *zap.Logger) ai.Provider {
	switch cfg.AI.Provider {
	case "google", "gemini":
		if cfg.AI.APIKey == "" {
			logr.Warn("AI_API_KEY not set, practice assistant disabled")
			return nil
		}
		opts := []ai.GoogleOption{ai.WithGoogleModel(cfg.AI.Model), ai.WithGoogleTimeout(cfg.AI.Timeout)}
		if cfg.AI.BaseURL != "" {
			opts = append(opts, ai.WithGoogleBaseURL(cfg.AI.BaseURL))
		}
		return ai.NewGoogleProvider(cfg.AI.APIKey, opts...)
	default:
		logr.Warn("practice assistant disabled", zap.String("provider", cfg.AI.Provider))
		return nil
	}
}
