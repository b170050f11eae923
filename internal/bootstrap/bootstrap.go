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

	appControllers "github.com/silani/discipline/internal/app/controllers"
	appMigrations "github.com/silani/discipline/internal/app/migrations"
	appRepos "github.com/silani/discipline/internal/app/repositories"
	appRoutes "github.com/silani/discipline/internal/app/routes"
	appServices "github.com/silani/discipline/internal/app/services"
	"github.com/silani/discipline/internal/config"
	"github.com/silani/discipline/internal/db"
	appMiddleware "github.com/silani/discipline/internal/middleware"
	pkgAuth "github.com/silani/discipline/internal/pkg/auth"
	"github.com/silani/discipline/internal/pkg/fonnte"
	"github.com/silani/discipline/internal/pkg/logger"
	"github.com/silani/discipline/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos              *appRepos.Repositories
	FonnteClient       *fonnte.Client
	JWTService         *pkgAuth.JWTService
	AuthMiddleware     *appMiddleware.AuthMiddleware
	ActivityLogService *appServices.ActivityLogService
	PointAggregator    *appServices.PointAggregator
	GuardianNotifier   *appServices.GuardianNotifier
	StudentService     *appServices.StudentService
	ClassService       *appServices.ClassService
	RuleService        *appServices.RuleService
	ViolationService   *appServices.ViolationService
	DeviceService      *appServices.DeviceService
	Controllers        appRoutes.Controllers
	Logger             zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
// CONFIG_PATH overrides the default configs/config.yaml.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default catalog.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Database.Seed {
		repos := appRepos.NewRepositories(dbPool)
		if err := seed.CreateDefaultData(ctx, repos.RuleRepository, repos.ClassRepository, lgr); err != nil {
			// Startup continues with whatever was seeded
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, the gateway client, services
// and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FonnteClient, err = fonnte.NewClient(fonnte.Config{
		BaseURL:      cfg.Fonnte.BaseURL,
		AccountToken: cfg.Fonnte.AccountToken,
		DeviceToken:  cfg.Fonnte.DeviceToken,
		CountryCode:  cfg.Fonnte.CountryCode,
		Timeout:      cfg.Fonnte.Timeout,
		MaxRetries:   cfg.Fonnte.MaxRetries,
	}, lgr.With().Str("component", "fonnte").Logger())
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize Fonnte client")
		return nil, fmt.Errorf("failed to initialize fonnte client: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.ActivityLogService = appServices.NewActivityLogService(deps.Repos.ActivityLogRepository, lgr)
	deps.PointAggregator = appServices.NewPointAggregator(
		deps.Repos.StudentRepository,
		deps.Repos.ViolationRepository,
		deps.Repos.RuleRepository,
		lgr,
	)
	deps.GuardianNotifier = appServices.NewGuardianNotifier(
		deps.FonnteClient,
		deps.ActivityLogService,
		appServices.Signature{AppName: cfg.School.AppName, SchoolName: cfg.School.Name},
		lgr,
	)

	deps.StudentService = appServices.NewStudentService(
		deps.Repos.StudentRepository,
		deps.Repos.ClassRepository,
		deps.ActivityLogService,
		lgr,
	)
	deps.ClassService = appServices.NewClassService(deps.Repos.ClassRepository, deps.ActivityLogService, lgr)
	deps.RuleService = appServices.NewRuleService(deps.Repos.RuleRepository, deps.ActivityLogService, lgr)
	deps.ViolationService = appServices.NewViolationService(
		deps.Repos.ViolationRepository,
		deps.Repos.StudentRepository,
		deps.Repos.RuleRepository,
		deps.PointAggregator,
		deps.GuardianNotifier,
		deps.ActivityLogService,
		lgr,
	)
	deps.DeviceService = appServices.NewDeviceService(deps.FonnteClient, lgr)

	deps.Controllers = appRoutes.Controllers{
		Student:     appControllers.NewStudentController(deps.StudentService),
		Class:       appControllers.NewClassController(deps.ClassService),
		Rule:        appControllers.NewRuleController(deps.RuleService),
		Violation:   appControllers.NewViolationController(deps.ViolationService),
		ActivityLog: appControllers.NewActivityLogController(deps.ActivityLogService),
		Device:      appControllers.NewDeviceController(deps.DeviceService),
		Health:      appControllers.NewHealthController(dbPool),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	if !cfg.IsProduction() {
		appRoutes.SetupSwagger(router)
	}

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
