package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"aquabov-backend/internal/advisory"
	"aquabov-backend/internal/chat"
	"aquabov-backend/internal/classify"
	"aquabov-backend/internal/llm"
	"aquabov-backend/internal/llm/gemini"
	"aquabov-backend/internal/predictions"
	"aquabov-backend/internal/services/health"
	"aquabov-backend/internal/shared/config"
	"aquabov-backend/internal/shared/server"
	"aquabov-backend/internal/shared/server/middleware"
	"aquabov-backend/internal/shared/storage/db"
	"aquabov-backend/internal/shared/storage/object"
	localstore "aquabov-backend/internal/shared/storage/object/local"
	s3store "aquabov-backend/internal/shared/storage/object/s3"
	"aquabov-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	DB                 *sql.DB
	Store              object.ObjectStore
	Generator          llm.Generator
	Classifier         *classify.Client
	Advisor            *advisory.Client
	PredictionsRepo    predictions.Repo
	PredictionsService *predictions.Service
	ChatRelay          *chat.Relay
	Health             *health.Service
}

// Options tune Build for callers that do not serve HTTP.
type Options struct {
	// SkipPersistence leaves DB and Store unset; predictions are kept in memory only.
	SkipPersistence bool
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	return BuildWithOptions(context.Background(), cfg, Options{})
}

// BuildWithOptions is Build with explicit context and options.
func BuildWithOptions(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	app := &App{Config: cfg}

	if !opts.SkipPersistence {
		sqlDB, err := buildDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store, err := buildStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.DB = sqlDB
		app.Store = store
	}

	gen, err := buildGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Generator = gen
	available := cfg.AdvisoryAvailable()

	app.Classifier = classify.NewClient(cfg.ClassifierURL, cfg.ClassifierField, cfg.ClassifierTimeout)
	app.Advisor = advisory.NewClient(gen, available)
	app.ChatRelay = chat.NewRelay(gen, available)

	if app.DB != nil {
		app.PredictionsRepo = &predictions.PGRepo{DB: app.DB}
	} else {
		app.PredictionsRepo = predictions.NewMemoryRepo()
	}
	app.PredictionsService = &predictions.Service{
		Classifier: app.Classifier,
		Advisor:    app.Advisor,
		Repo:       app.PredictionsRepo,
		Store:      app.Store,
	}

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	app.Health = health.NewService(available, storeLabel(cfg, app.Store), pinger)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		Health:            app.Health,
		PredictionHandler: predictions.NewHandler(app.PredictionsService),
		ChatHandler:       chat.NewHandler(app.ChatRelay),
		RateLimiter:       middleware.NewRateLimiter(nil),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":                cfg.Env,
		"advisory_available": available,
		"classifier_url":     cfg.ClassifierURL,
		"object_store":       storeLabel(cfg, app.Store),
		"database":           app.DB != nil,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Info("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
		return nil, nil
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.fallback", map[string]any{"error": err})
			return nil, nil
		}
		return nil, err
	}

	if isDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			telemetry.Warn("bootstrap.migrate.failed", map[string]any{"error": err})
			_ = sqlDB.Close()
			return nil, nil
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "none":
		return nil, nil
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildGenerator(ctx context.Context, cfg config.Config) (llm.Generator, error) {
	if !cfg.AdvisoryAvailable() {
		telemetry.Warn("bootstrap.advisory.unavailable", map[string]any{
			"reason": "GEMINI_API_KEY not set",
		})
		return llm.Unavailable{}, nil
	}
	client, err := gemini.NewClient(ctx, gemini.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func storeLabel(cfg config.Config, store object.ObjectStore) string {
	if store == nil {
		return "none"
	}
	return cfg.ObjectStoreType
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
