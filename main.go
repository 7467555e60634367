package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/brandlens-ai/brandlens-engine/pkg/config"
	"github.com/brandlens-ai/brandlens-engine/pkg/database"
	"github.com/brandlens-ai/brandlens-engine/pkg/engines"
	"github.com/brandlens-ai/brandlens-engine/pkg/handlers"
	"github.com/brandlens-ai/brandlens-engine/pkg/logging"
	"github.com/brandlens-ai/brandlens-engine/pkg/repositories"
	"github.com/brandlens-ai/brandlens-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", cfg.Database.Database),
		zap.String("db_host", cfg.Database.Host),
		zap.String("scoring_engine", cfg.Scoring.Engine),
		zap.String("default_plan", cfg.Plans.DefaultPlan))

	ctx := context.Background()

	// Migrations run over database/sql; the pgx pool handles everything else.
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open database for migrations", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	registry, err := engines.NewRegistry(ctx, &cfg.Engines, logger)
	if err != nil {
		logger.Fatal("Failed to build engine registry", zap.Error(err))
	}

	// Repositories
	projectRepo := repositories.NewProjectRepository(db)
	promptSetRepo := repositories.NewPromptSetRepository(db)
	promptRepo := repositories.NewPromptRepository(db)
	scanRepo := repositories.NewScanRepository(db)
	resultRepo := repositories.NewScanResultRepository(db)
	suggestionRepo := repositories.NewSuggestionRepository(db)

	// Services
	scoringEngine := engines.Engine(cfg.Scoring.Engine)
	planService := services.NewPlanService(cfg.Plans.DefaultPlan)
	generator := services.NewAnswerGenerator(registry, logger)
	scorer := services.NewVisibilityScorer(registry, scoringEngine, logger)
	projectService := services.NewProjectService(projectRepo, promptSetRepo, promptRepo)
	scanService := services.NewScanService(
		projectRepo, promptRepo, scanRepo, resultRepo,
		planService, registry, generator, scorer,
		cfg.Plans.DefaultPlan, logger)
	gapService := services.NewGapService(
		projectRepo, promptSetRepo, promptRepo, scanRepo, resultRepo, suggestionRepo,
		registry, scoringEngine, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewProjectsHandler(projectService, logger).RegisterRoutes(mux)
	handlers.NewPromptsHandler(projectService, logger).RegisterRoutes(mux)
	handlers.NewScansHandler(scanService, logger).RegisterRoutes(mux)
	handlers.NewGapsHandler(gapService, logger).RegisterRoutes(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting brandlens-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
