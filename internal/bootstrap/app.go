package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"

	"resume-diagnosis/internal/diagnosis"
	"resume-diagnosis/internal/documents"
	"resume-diagnosis/internal/jobtitles"
	"resume-diagnosis/internal/lifecycle"
	"resume-diagnosis/internal/llm"
	openai "resume-diagnosis/internal/llm/openai"
	"resume-diagnosis/internal/queue"
	"resume-diagnosis/internal/shared/config"
	"resume-diagnosis/internal/shared/server"
	"resume-diagnosis/internal/shared/storage/db"
	"resume-diagnosis/internal/shared/storage/object"
	localstore "resume-diagnosis/internal/shared/storage/object/local"
	s3store "resume-diagnosis/internal/shared/storage/object/s3"
	"resume-diagnosis/internal/uploads"
)

const uploadsDefaultRegion = "us-east-1"

// App holds shared dependencies for the API server and the worker.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	DocumentsRepo documents.Repo
	DiagnosisRepo diagnosis.Repo
	JobTitlesRepo jobtitles.Repo

	DocumentsService *documents.Service
	DiagnosisService *diagnosis.Service
	Normalizer       *jobtitles.Normalizer
	Sweeper          *lifecycle.Sweeper

	DocumentsHandler *documents.Handler
	DiagnosisHandler *diagnosis.Handler
	UploadsHandler   *uploads.Handler
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

	if err := buildServices(ctx, app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		CORSAllowOrigin:  cfg.CORSAllowOrigin,
		DocumentsHandler: app.DocumentsHandler,
		DiagnosisHandler: app.DiagnosisHandler,
		UploadsHandler:   app.UploadsHandler,
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

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
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
	if strings.TrimSpace(os.Getenv("SQS_QUEUE_URL")) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(ctx context.Context, app *App) error {
	cfg := app.Config

	var docRepo documents.Repo
	var diagRepo diagnosis.Repo
	var titleRepo jobtitles.Repo
	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		diagRepo = &diagnosis.PGRepo{DB: app.DB}
		titleRepo = &jobtitles.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		diagRepo = diagnosis.NewMemoryRepo()
		titleRepo = jobtitles.NewMemoryRepo()
	}

	normalizer := jobtitles.NewNormalizer(titleRepo)

	validator := documents.Validator{
		MaxUploadBytes:  cfg.MaxUploadBytes,
		SoftUploadBytes: cfg.SoftUploadBytes,
	}
	docSvc := &documents.Service{
		Store:      app.Store,
		Repo:       docRepo,
		Normalizer: normalizer,
		Validator:  validator,
		Retention:  cfg.RetentionWindow,
	}

	// A missing key leaves the client nil; diagnoses then fail with a
	// stored not-configured error instead of crashing the server.
	var llmClient llm.Client
	if strings.EqualFold(cfg.LLMProvider, "openai") {
		if apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); apiKey != "" {
			client, err := openai.NewClient(apiKey, cfg.LLMModel)
			if err != nil {
				return err
			}
			llmClient = client
		} else {
			log.Printf("bootstrap: OPENAI_API_KEY empty; diagnosis generation disabled")
		}
	} else {
		log.Printf("bootstrap: unknown LLM provider %q; diagnosis generation disabled", cfg.LLMProvider)
	}

	var jobQueue diagnosis.JobQueue
	if app.Queue != nil {
		jobQueue = queue.DiagnosisQueue{Client: app.Queue}
	}

	diagSvc := &diagnosis.Service{
		Repo:            diagRepo,
		Docs:            docRepo,
		Store:           app.Store,
		LLM:             llmClient,
		Normalizer:      normalizer,
		Queue:           jobQueue,
		PromptVersion:   cfg.PromptVersion,
		Model:           cfg.LLMModel,
		AnalysisTimeout: cfg.AnalysisTimeout,
		PipelineTimeout: cfg.PipelineTimeout,
	}

	app.DocumentsRepo = docRepo
	app.DiagnosisRepo = diagRepo
	app.JobTitlesRepo = titleRepo
	app.Normalizer = normalizer
	app.DocumentsService = docSvc
	app.DiagnosisService = diagSvc
	app.Sweeper = &lifecycle.Sweeper{
		Docs:      docRepo,
		Diagnoses: diagRepo,
		Store:     app.Store,
		Interval:  cfg.SweepInterval,
	}
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.DiagnosisHandler = diagnosis.NewHandler(diagSvc)
	app.UploadsHandler = buildUploadsHandler(ctx, cfg)

	return nil
}

func buildUploadsHandler(ctx context.Context, cfg config.Config) *uploads.Handler {
	bucket := strings.TrimSpace(os.Getenv("UPLOADS_S3_BUCKET"))
	if bucket == "" {
		return nil
	}

	region := strings.TrimSpace(cfg.AWSRegion)
	if region == "" {
		region = uploadsDefaultRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		log.Printf("bootstrap: presigned uploads disabled: %v", err)
		return nil
	}

	presign := s3.NewPresignClient(s3.NewFromConfig(awsCfg))
	return uploads.NewHandler(presign, bucket, strings.TrimSpace(os.Getenv("UPLOADS_S3_PREFIX")), cfg.MaxUploadBytes)
}
