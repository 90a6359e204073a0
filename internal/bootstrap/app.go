package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"gobez-backend/internal/aicontent"
	"gobez-backend/internal/chat"
	"gobez-backend/internal/provider"
	"gobez-backend/internal/provider/gemini"
	"gobez-backend/internal/queue"
	"gobez-backend/internal/shared/config"
	"gobez-backend/internal/shared/server"
	"gobez-backend/internal/shared/storage/db"
	"gobez-backend/internal/shared/storage/object"
	localstore "gobez-backend/internal/shared/storage/object/local"
	s3store "gobez-backend/internal/shared/storage/object/s3"
	"gobez-backend/internal/uploads"
)

// App holds shared dependencies for the API server and the worker.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	Queue           queue.Client
	ContextCache    aicontent.ContextCache
	UploadsRepo     uploads.Repo
	ContentsRepo    aicontent.Repo
	UploadsService  *uploads.Service
	UploadProcessor UploadProcessor
	ContentsService *aicontent.Service
	ChatService     *chat.Service
	UploadsHandler  *uploads.Handler
	ContentsHandler *aicontent.Handler
	ChatHandler     *chat.Handler
}

// UploadProcessor allows callers to override upload processing for tests.
type UploadProcessor interface {
	Process(ctx context.Context, uploadID string) error
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		UploadsHandler:  app.UploadsHandler,
		ContentsHandler: app.ContentsHandler,
		ChatHandler:     app.ChatHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
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
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context) (queue.Client, error) {
	if strings.TrimSpace(os.Getenv("GB_SQS_QUEUE_URL")) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func buildProviders(cfg config.Config) (provider.Extractor, provider.Summarizer, provider.Responder, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		client, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, nil, err
		}
		return client, client, client, nil
	}
	if isDevLike(cfg.Env) {
		log.Printf("bootstrap: GEMINI_API_KEY empty; using deterministic fallback providers")
		return provider.FallbackExtractor{}, provider.FallbackSummarizer{}, provider.FallbackResponder{}, nil
	}
	// submissions will be rejected until a provider is configured
	return nil, nil, nil, nil
}

func buildServices(app *App) error {
	var uploadsRepo uploads.Repo
	var contentsRepo aicontent.Repo
	if app.DB != nil {
		uploadsRepo = &uploads.PGRepo{DB: app.DB}
		contentsRepo = &aicontent.PGRepo{DB: app.DB}
	} else {
		uploadsRepo = uploads.NewMemoryRepo()
		contentsRepo = aicontent.NewMemoryRepo()
	}

	if addr := strings.TrimSpace(app.Config.RedisAddr); addr != "" {
		cache, err := aicontent.NewRedisCache(addr)
		if err != nil {
			log.Printf("bootstrap: redis connect failed; context cache disabled: %v", err)
		} else {
			app.ContextCache = cache
		}
	}

	extractor, summarizer, responder, err := buildProviders(app.Config)
	if err != nil {
		return err
	}

	contentsSvc := &aicontent.Service{
		Repo:  contentsRepo,
		Cache: app.ContextCache,
	}
	uploadsSvc := &uploads.Service{
		Repo:       uploadsRepo,
		Store:      app.Store,
		Contents:   contentsSvc,
		Extractor:  extractor,
		Summarizer: summarizer,
		Queue:      app.Queue,
		Timeout:    app.Config.ProviderTimeout,
	}
	chatSvc := &chat.Service{
		Responder: responder,
		Contents:  contentsSvc,
		Phrases:   chat.NewPhrasePicker(rand.New(rand.NewSource(time.Now().UnixNano()))),
	}

	app.UploadsRepo = uploadsRepo
	app.ContentsRepo = contentsRepo
	app.UploadsService = uploadsSvc
	app.UploadProcessor = uploadsSvc
	app.ContentsService = contentsSvc
	app.ChatService = chatSvc
	app.UploadsHandler = uploads.NewHandler(uploadsSvc)
	app.ContentsHandler = aicontent.NewHandler(contentsSvc)
	app.ChatHandler = chat.NewHandler(chatSvc)

	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
