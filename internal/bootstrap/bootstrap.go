package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/burak/univote/docs" // Import generated swagger docs
	appControllers "github.com/burak/univote/internal/app/controllers"
	appMigrations "github.com/burak/univote/internal/app/migrations"
	appRepos "github.com/burak/univote/internal/app/repositories"
	appRoutes "github.com/burak/univote/internal/app/routes"
	appServices "github.com/burak/univote/internal/app/services"
	"github.com/burak/univote/internal/config"
	"github.com/burak/univote/internal/db"
	"github.com/burak/univote/internal/metrics"
	appMiddleware "github.com/burak/univote/internal/middleware"
	"github.com/burak/univote/internal/pkg/ai"
	pkgAuth "github.com/burak/univote/internal/pkg/auth"
	"github.com/burak/univote/internal/pkg/helpers"
	"github.com/burak/univote/internal/pkg/logger"
	"github.com/burak/univote/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService        *appServices.AuthService
	ElectionService    *appServices.ElectionService
	BallotService      *appServices.BallotService
	ResultsService     *appServices.ResultsService
	ManifestoService   *appServices.ManifestoService
	QAService          *appServices.QAService
	AuthController     *appControllers.AuthController
	ElectionController *appControllers.ElectionController
	VotingController   *appControllers.VotingController
	ResultsController  *appControllers.ResultsController
	AIController       *appControllers.AIController
	AuthMiddleware     *appMiddleware.AuthMiddleware
	Repos              *appRepos.Repositories
	JWTService         *pkgAuth.JWTService
	AIClient           *ai.Client
	Logger             zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// Startup housekeeping, best effort
	if n, err := deps.Repos.TokenRepository.DeleteExpiredTokens(context.Background(), time.Now()); err != nil {
		lgr.Warn().Err(err).Msg("Failed to prune expired refresh tokens")
	} else if n > 0 {
		lgr.Info().Int64("count", n).Msg("Pruned expired refresh tokens")
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AIClient = ai.NewClient(ai.ClientConfig{
		APIKey:         cfg.AI.APIKey,
		BaseURL:        cfg.AI.BaseURL,
		EmbeddingModel: cfg.AI.EmbeddingModel,
		ChatModel:      cfg.AI.ChatModel,
		RequestTimeout: helpers.ParseDuration(cfg.AI.RequestTimeout, 30*time.Second),
	})

	sessionTTL := helpers.ParseDuration(cfg.Session.VoterTTL, 15*time.Minute)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.AdminRepository,
		deps.Repos.TokenRepository,
		deps.Repos.VoterRepository,
		deps.Repos.AssociationRepository,
		deps.Repos.SessionRepository,
		deps.JWTService,
		sessionTTL,
		lgr,
	)

	deps.ElectionService = appServices.NewElectionService(
		deps.Repos.ElectionRepository,
		deps.Repos.PositionRepository,
		deps.Repos.CandidateRepository,
		deps.Repos.VoterRepository,
		lgr,
	)

	deps.BallotService = appServices.NewBallotService(
		deps.Repos.VoterRepository,
		deps.Repos.ElectionRepository,
		deps.Repos.CandidateRepository,
		deps.Repos.PositionRepository,
		deps.Repos.VoteRepository,
		deps.Repos.SessionRepository,
		lgr,
	)

	deps.ResultsService = appServices.NewResultsService(
		deps.Repos.VoteRepository,
		deps.Repos.ElectionRepository,
		deps.Repos.PositionRepository,
		deps.Repos.VoterRepository,
	)

	deps.ManifestoService = appServices.NewManifestoService(
		deps.Repos.ChunkRepository,
		deps.Repos.CandidateRepository,
		deps.AIClient,
		lgr,
	)

	deps.QAService = appServices.NewQAService(
		deps.ManifestoService,
		deps.Repos.CandidateRepository,
		deps.Repos.FAQRepository,
		deps.AIClient,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.ElectionController = appControllers.NewElectionController(deps.ElectionService, lgr)
	deps.VotingController = appControllers.NewVotingController(deps.BallotService, lgr)
	deps.ResultsController = appControllers.NewResultsController(deps.ResultsService, lgr)
	deps.AIController = appControllers.NewAIController(deps.ManifestoService, deps.QAService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	metrics.Register()

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), gin.Recovery())

	// Setup Swagger
	appRoutes.SetupSwagger(router)

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ElectionController,
		deps.VotingController,
		deps.ResultsController,
		deps.AIController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
