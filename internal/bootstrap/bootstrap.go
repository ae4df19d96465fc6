package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/studyhub/internal/app/controllers"
	appMigrations "github.com/yigit/studyhub/internal/app/migrations"
	appRepos "github.com/yigit/studyhub/internal/app/repositories"
	sqliteRepos "github.com/yigit/studyhub/internal/app/repositories/sqlite"
	appRoutes "github.com/yigit/studyhub/internal/app/routes"
	appServices "github.com/yigit/studyhub/internal/app/services"
	"github.com/yigit/studyhub/internal/config"
	"github.com/yigit/studyhub/internal/db"
	appMiddleware "github.com/yigit/studyhub/internal/middleware"
	pkgAuth "github.com/yigit/studyhub/internal/pkg/auth"
	"github.com/yigit/studyhub/internal/pkg/filestorage"
	"github.com/yigit/studyhub/internal/pkg/helpers"
	"github.com/yigit/studyhub/internal/pkg/logger"
	"github.com/yigit/studyhub/internal/pkg/metrics"
	"github.com/yigit/studyhub/internal/scheduler"
	"github.com/yigit/studyhub/internal/seed"
)

// DefaultConfigPath is used when CONFIG_PATH is unset
const DefaultConfigPath = "configs/config.yaml"

// Store is an open database with its repositories
type Store struct {
	Repos *appRepos.Repositories
	Close func()
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	Registry       *prometheus.Registry
	Metrics        *metrics.Metrics
	Scheduler      *scheduler.LifecycleScheduler
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Format == "text",
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the configured store and brings its schema up to date.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*Store, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		lgr.Info().Str("path", cfg.Database.SQLitePath).Msg("Opening SQLite database...")
		sqliteDB, err := db.NewSQLiteDB(cfg.Database.SQLitePath)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to open SQLite database")
			return nil, err
		}
		return &Store{
			Repos: sqliteRepos.NewRepositories(sqliteDB.DB, time.Now),
			Close: func() { _ = sqliteDB.Close() },
		}, nil

	case config.DriverPostgres:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		migrationsDir := cfg.Database.MigrationsDir
		if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
			database.Close()
			lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
			return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
		}

		lgr.Info().Msg("Running database migrations...")
		if err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
			database.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")

		return &Store{
			Repos: appRepos.NewRepositories(database.Pool),
			Close: database.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// BuildDependencies initializes services, controllers and the scheduler.
func BuildDependencies(cfg *config.Config, store *Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Repos:    store.Repos,
		Registry: prometheus.NewRegistry(),
		Logger:   lgr,
	}

	deps.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps.Metrics = metrics.New(deps.Registry)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.BaseURL()+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Services = appServices.NewServices(appServices.Dependencies{
		Repos:       deps.Repos,
		JWT:         deps.JWTService,
		FileStorage: deps.FileStorage,
		Metrics:     deps.Metrics,
		Logger:      lgr,
	})

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.Services.AuthService, lgr),
		Notification: appControllers.NewNotificationController(deps.Services.NotificationService, lgr),
		Program:      appControllers.NewProgramController(deps.Services.ProgramService, lgr),
		Profile:      appControllers.NewProfileController(deps.Services.ProfileService, lgr),
		Testimonial:  appControllers.NewTestimonialController(deps.Services.TestimonialService, lgr),
	}

	if cfg.Scheduler.Enabled {
		deps.Scheduler, err = scheduler.NewLifecycleScheduler(deps.Services.ProgramLifecycleService, scheduler.Options{
			Spec:       cfg.Scheduler.Spec,
			Location:   cfg.Location(),
			RunOnStart: cfg.Scheduler.RunOnStart,
			Metrics:    deps.Metrics,
			Logger:     lgr,
		})
		if err != nil {
			return nil, err
		}
	}

	if !cfg.IsProduction() {
		today := helpers.CalendarDate(time.Now(), cfg.Location())
		if err := seed.CreateDefaultData(context.Background(), deps.Repos, deps.Services, today, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
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
	router.Use(appMiddleware.Recovery(lgr), appMiddleware.RequestLogger(lgr))

	if cfg.Metrics.Enabled {
		router.Use(appMiddleware.Metrics(deps.Metrics))
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
