package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/account"
	googleauth "coverletter-backend/internal/auth"
	"coverletter-backend/internal/jobdesc"
	"coverletter-backend/internal/letters"
	"coverletter-backend/internal/llm"
	"coverletter-backend/internal/llm/groq"
	"coverletter-backend/internal/queue"
	"coverletter-backend/internal/resumes"
	"coverletter-backend/internal/shared/config"
	"coverletter-backend/internal/shared/server"
	"coverletter-backend/internal/shared/storage/db"
	"coverletter-backend/internal/shared/storage/object"
	localstore "coverletter-backend/internal/shared/storage/object/local"
	s3store "coverletter-backend/internal/shared/storage/object/s3"
	"coverletter-backend/internal/signature"
	"coverletter-backend/internal/usage"
	"coverletter-backend/internal/users"
)

// App holds shared dependencies wired from configuration.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	Queue            queue.Client
	ResumesRepo      resumes.Repo
	LettersRepo      letters.Repo
	SignaturesRepo   signature.Repo
	UsersRepo        users.Repo
	ResumesService   *resumes.Service
	SignatureService *signature.Service
	UsageService     *usage.Service
	LettersService   *letters.Service
	LetterProcessor  LetterProcessor
	AccountService   *account.Service
	UsersService     *users.Service
	ResumesHandler   *resumes.Handler
	LettersHandler   *letters.Handler
	SignatureHandler *signature.Handler
	AccountHandler   *account.Handler
	UsageHandler     *usage.Handler
	GoogleAuth       *googleauth.GoogleService
}

// LetterProcessor allows callers to override letter processing for tests.
type LetterProcessor interface {
	ProcessLetter(ctx context.Context, letterID string) error
}

// Build prepares shared dependencies and the HTTP router.
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
		Router: nil,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		ResumeHandler:    app.ResumesHandler,
		LetterHandler:    app.LettersHandler,
		SignatureHandler: app.SignatureHandler,
		UsageHandler:     app.UsageHandler,
		AccountHandler:   app.AccountHandler,
		GoogleAuth:       app.GoogleAuth,
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
	if strings.TrimSpace(os.Getenv("CL_SQS_QUEUE_URL")) == "" {
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

func buildServices(app *App) error {
	var resumeRepo resumes.Repo
	var letterRepo letters.Repo
	var signatureRepo signature.Repo
	var userRepo users.Repo

	if app.DB != nil {
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		letterRepo = &letters.PGRepo{DB: app.DB}
		signatureRepo = &signature.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		resumeRepo = resumes.NewMemoryRepo()
		letterRepo = letters.NewMemoryRepo()
		signatureRepo = signature.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	resumeSvc := &resumes.Service{
		Store:           app.Store,
		Repo:            resumeRepo,
		StorageProvider: app.Config.ObjectStoreType,
	}

	signatureSvc := &signature.Service{
		Store: app.Store,
		Repo:  signatureRepo,
	}

	var usageSvc *usage.Service
	if app.DB != nil {
		usageSvc = usage.NewPostgresService(usage.NewPGStore(app.DB))
	} else {
		usageSvc = usage.NewService()
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if app.Config.LLMProvider == "groq" {
		if strings.TrimSpace(app.Config.GroqAPIKey) == "" && isDevLike(app.Config.Env) {
			log.Printf("bootstrap: GROQ_API_KEY empty; letter generation disabled")
		} else {
			groqClient, err := groq.NewClient(app.Config.GroqAPIKey, app.Config.LLMModel)
			if err != nil {
				return err
			}
			llmClient = groqClient
		}
	}

	letterSvc := &letters.Service{
		Repo:       letterRepo,
		ResumeRepo: resumeRepo,
		Signatures: signatureSvc,
		Usage:      usageSvc,
		Store:      app.Store,
		LLM:        llmClient,
		Queue:      app.Queue,
		Fetcher:    jobdesc.NewFetcher(),
		Provider:   app.Config.LLMProvider,
		Model:      app.Config.LLMModel,
	}

	userSvc := users.NewService(userRepo)
	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.ResumesRepo = resumeRepo
	app.LettersRepo = letterRepo
	app.SignaturesRepo = signatureRepo
	app.UsersRepo = userRepo
	app.ResumesService = resumeSvc
	app.SignatureService = signatureSvc
	app.UsageService = usageSvc
	app.LettersService = letterSvc
	app.LetterProcessor = letterSvc
	app.AccountService = account.NewService(resumeRepo, letterRepo)
	app.UsersService = userSvc
	app.ResumesHandler = resumes.NewHandler(resumeSvc)
	app.LettersHandler = letters.NewHandler(letterSvc)
	app.SignatureHandler = signature.NewHandler(signatureSvc)
	app.AccountHandler = account.NewHandler(app.AccountService)
	app.UsageHandler = usage.NewHandler(usageSvc)
	app.GoogleAuth = googleAuthSvc

	if app.ResumesHandler == nil || app.LettersHandler == nil || app.UsageHandler == nil {
		return errors.New("failed to initialize handlers")
	}

	return nil
}
