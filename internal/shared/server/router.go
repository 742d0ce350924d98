package server

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"faq-backend/internal/chat"
	"faq-backend/internal/extract"
	"faq-backend/internal/faqs"
	"faq-backend/internal/llm"
	"faq-backend/internal/llm/openai"
	"faq-backend/internal/prompt"
	"faq-backend/internal/shared/auth"
	"faq-backend/internal/shared/config"
	"faq-backend/internal/shared/server/middleware"
	"faq-backend/internal/shared/server/respond"
	"faq-backend/internal/shared/storage/db"
	"faq-backend/internal/shared/storage/upload"
	"faq-backend/internal/shared/telemetry"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Dependencies
	var sqlDB *sql.DB
	if cfg.HasDatabase() {
		ctx := context.Background()
		conn, err := db.Connect(ctx, cfg.DSN(), db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			telemetry.Warn("db.connect.failed", map[string]any{"error": err.Error(), "fallback": "memory"})
		} else {
			if err := db.RunMigrations(ctx, conn); err != nil {
				telemetry.Warn("db.migrate.failed", map[string]any{"error": err.Error(), "fallback": "memory"})
				_ = conn.Close()
				conn = nil
			}
		}
		sqlDB = conn
	}

	var repo faqs.Repo
	if sqlDB != nil {
		repo = &faqs.MySQLRepo{DB: sqlDB}
	} else {
		repo = faqs.NewMemoryRepo()
	}

	examples, err := prompt.LoadExamples(cfg.ExamplesPath)
	if err != nil {
		telemetry.Warn("prompt.examples.load", map[string]any{"path": cfg.ExamplesPath, "error": err.Error()})
	}

	var client llm.Client
	if c, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.LLMModel); err != nil {
		telemetry.Warn("llm.client.unconfigured", map[string]any{"error": err.Error()})
		client = llm.PlaceholderClient{}
	} else {
		client = c
	}

	faqSvc := &faqs.Service{
		Repo:          repo,
		Uploads:       upload.New(cfg.UploadDir),
		Extractor:     extract.New(cfg.URLFetchTimeout),
		LLM:           client,
		Examples:      examples,
		Retention:     cfg.UploadRetention,
		MaxInputChars: cfg.MaxInputChars,
	}
	faqHandler := faqs.NewHandler(faqSvc)

	tokens := auth.NewTokenIssuer(cfg.ChatTokenSecret, cfg.ChatTokenTTL)
	chatHandler := chat.NewHandler(tokens, client)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	faqHandler.RegisterRoutes(api)
	chatHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
