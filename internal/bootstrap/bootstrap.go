// Package bootstrap loads configuration and assembles the application's dependencies.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/scholaris/resultportal/internal/app/auth"
	appControllers "github.com/scholaris/resultportal/internal/app/controllers"
	appMigrations "github.com/scholaris/resultportal/internal/app/migrations"
	appRepos "github.com/scholaris/resultportal/internal/app/repositories"
	"github.com/scholaris/resultportal/internal/app/repositories/memory"
	appRoutes "github.com/scholaris/resultportal/internal/app/routes"
	appServices "github.com/scholaris/resultportal/internal/app/services"
	"github.com/scholaris/resultportal/internal/config"
	"github.com/scholaris/resultportal/internal/db"
	appMiddleware "github.com/scholaris/resultportal/internal/middleware"
	pkgAuth "github.com/scholaris/resultportal/internal/pkg/auth"
	"github.com/scholaris/resultportal/internal/pkg/filestorage"
	"github.com/scholaris/resultportal/internal/pkg/helpers"
	"github.com/scholaris/resultportal/internal/pkg/logger"
	"github.com/scholaris/resultportal/internal/pkg/validation"
	"github.com/scholaris/resultportal/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos            *appRepos.Repositories
	JWTService       *pkgAuth.JWTService
	Auditor          *appServices.Auditor
	AuthService      *appServices.AuthService
	StudentService   *appServices.StudentService
	ResultService    *appServices.ResultService
	SettingsService  *appServices.SettingsService
	ActivityService  *appServices.ActivityService
	PortalService    *appServices.PortalService
	AuthzService     *appAuth.AuthorizationService
	Controllers      appRoutes.Controllers
	AuthMiddleware   *appMiddleware.AuthMiddleware
	FileStorage      *filestorage.LocalStorage
	PasswordVerifier *pkgAuth.BcryptVerifier
	Logger           zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// Storage is an opened repository set together with the functions that manage it
type Storage struct {
	Repos *appRepos.Repositories
	// Migrate applies pending schema migrations and reports how many ran
	Migrate func(ctx context.Context) (int, error)
	Close   func()
}

// OpenStorage opens the configured driver without touching the schema
func OpenStorage(cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		lgr.Warn().Msg("Using in-memory storage; data is lost on restart")
		repos, _ := memory.NewRepositories()
		return &Storage{
			Repos:   repos,
			Migrate: func(context.Context) (int, error) { return 0, nil },
			Close:   func() {},
		}, nil
	case config.DriverPostgres:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		migrator := appMigrations.NewMigrator(database.Pool, lgr)
		return &Storage{
			Repos: appRepos.NewRepositories(database),
			Migrate: func(ctx context.Context) (int, error) {
				return migrator.MigrateFromDirectory(ctx, cfg.Database.MigrationsDir)
			},
			Close: database.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// SetupStorage opens the configured driver and applies pending migrations
func SetupStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	storage, err := OpenStorage(cfg, lgr)
	if err != nil {
		return nil, err
	}

	applied, err := storage.Migrate(ctx)
	if err != nil {
		storage.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations up to date.")
	return storage, nil
}

// BuildDependencies initializes services, controllers and middleware on top of repos.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Repos: repos}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.PublicBaseURL())
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.PasswordVerifier = pkgAuth.NewBcryptVerifier(cfg.Auth.BcryptCost)

	deps.Auditor = appServices.NewAuditor(repos.ActivityLogRepository, logger.Component("audit"))
	deps.AuthzService = appAuth.NewAuthorizationService(repos.ResultRepository)
	deps.AuthService = appServices.NewAuthService(repos, deps.Auditor, deps.JWTService, logger.Component("auth"),
		appServices.WithPasswordVerifier(deps.PasswordVerifier))
	deps.StudentService = appServices.NewStudentService(repos, deps.Auditor, logger.Component("students"))
	deps.ResultService = appServices.NewResultService(repos, deps.Auditor, logger.Component("results"))
	deps.SettingsService = appServices.NewSettingsService(repos, deps.Auditor, deps.FileStorage, logger.Component("settings"))
	deps.ActivityService = appServices.NewActivityService(repos, cfg.Auth.ActivityPageSize, logger.Component("activity"))
	deps.PortalService = appServices.NewPortalService(repos, deps.AuthzService, deps.SettingsService, logger.Component("portal"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService)

	deps.Controllers = appRoutes.Controllers{
		Auth:     appControllers.NewAuthController(deps.AuthService, lgr),
		Students: appControllers.NewStudentController(deps.StudentService, lgr),
		Results:  appControllers.NewResultController(deps.ResultService, lgr),
		Settings: appControllers.NewSettingsController(deps.SettingsService, lgr),
		Activity: appControllers.NewActivityController(deps.ActivityService, lgr),
		Portal:   appControllers.NewPortalController(deps.PortalService, lgr),
		Health:   appControllers.NewHealthController(cfg.Database.Driver),
	}

	return deps, nil
}

// SeedDefaults creates the default admin and settings when seeding is enabled
func SeedDefaults(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	if !cfg.Seed.Enabled {
		return
	}
	err := seed.CreateDefaultData(ctx, deps.Repos, deps.PasswordVerifier, seed.Options{
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminName:     cfg.Seed.AdminName,
		AdminPassword: cfg.Seed.AdminPassword,
		SchoolName:    cfg.Seed.SchoolName,
	}, deps.Logger)
	if err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.Server.AllowedOrigins) == 0 || slices.Contains(cfg.Server.AllowedOrigins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.Server.AllowedOrigins
	}
	return c
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

	validation.Setup()

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr), cors.New(corsConfig(cfg)))
	router.MaxMultipartMemory = filestorage.DefaultMaxSize

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.Static(filestorage.URLPrefix, deps.FileStorage.BasePath())
	lgr.Info().Str("path", deps.FileStorage.BasePath()).Msg("Static file serving configured for uploads directory")

	return router
}
