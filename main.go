package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/dataquill-io/dataquill-engine/pkg/config"
	"github.com/dataquill-io/dataquill-engine/pkg/datasource"
	"github.com/dataquill-io/dataquill-engine/pkg/handlers"
	"github.com/dataquill-io/dataquill-engine/pkg/llm"
	"github.com/dataquill-io/dataquill-engine/pkg/middleware"
	"github.com/dataquill-io/dataquill-engine/pkg/models"
	"github.com/dataquill-io/dataquill-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Env == "local" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	var docSeed models.Documentation
	if cfg.DocumentationFile != "" {
		docSeed, err = config.LoadDocumentation(cfg.DocumentationFile)
		if err != nil {
			logger.Fatal("Failed to load documentation overlay", zap.Error(err))
		}
		logger.Info("documentation overlay loaded",
			zap.String("file", cfg.DocumentationFile),
			zap.Int("tables", len(docSeed)))
	}

	var client llm.Client
	if cfg.AI.IsAvailable() {
		client, err = llm.NewClient(cfg.AI.Provider, &llm.Config{
			Endpoint: cfg.AI.BaseURL,
			Model:    cfg.AI.Model,
			APIKey:   cfg.AI.APIKey,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create LLM client", zap.Error(err))
		}
		logger.Info("remote generation enabled",
			zap.String("provider", cfg.AI.Provider),
			zap.String("model", cfg.AI.Model))
	} else {
		logger.Info("no remote completion service configured, using pattern generation only")
	}

	state := datasource.NewState()
	generator := services.NewQueryGenerator(client, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewDatasourceHandler(state, docSeed, logger).RegisterRoutes(mux)
	handlers.NewSchemaHandler(state, logger).RegisterRoutes(mux)
	handlers.NewDocumentationHandler(state, logger).RegisterRoutes(mux)
	handlers.NewQueryHandler(state, generator, logger).RegisterRoutes(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("starting dataquill-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version),
		zap.String("env", cfg.Env))

	if err := http.ListenAndServe(addr, middleware.RequestLogger(logger)(mux)); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
