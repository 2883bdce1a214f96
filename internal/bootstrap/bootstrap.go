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

	appAuth "github.com/yigit/dojo/internal/app/auth"
	appControllers "github.com/yigit/dojo/internal/app/controllers"
	appMigrations "github.com/yigit/dojo/internal/app/migrations"
	appRepos "github.com/yigit/dojo/internal/app/repositories"
	appRoutes "github.com/yigit/dojo/internal/app/routes"
	appServices "github.com/yigit/dojo/internal/app/services"
	"github.com/yigit/dojo/internal/config"
	"github.com/yigit/dojo/internal/db"
	"github.com/yigit/dojo/internal/jobs"
	appMiddleware "github.com/yigit/dojo/internal/middleware"
	pkgAuth "github.com/yigit/dojo/internal/pkg/auth"
	"github.com/yigit/dojo/internal/pkg/cache"
	"github.com/yigit/dojo/internal/pkg/diploma"
	"github.com/yigit/dojo/internal/pkg/email"
	"github.com/yigit/dojo/internal/pkg/filestorage"
	"github.com/yigit/dojo/internal/pkg/helpers"
	"github.com/yigit/dojo/internal/pkg/logger"
	"github.com/yigit/dojo/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	PlanCache   *cache.Cache // nil when Redis is disabled or unreachable
	FileStorage *filestorage.LocalStorage
	JWTService  *pkgAuth.JWTService

	AuthService       appServices.AuthService
	StudentService    appServices.StudentService
	PlanService       appServices.PlanService
	BillingService    appServices.BillingService
	InstructorService appServices.InstructorService
	ResetService      appServices.PasswordResetService
	GraduationService appServices.GraduationService
	EnrollmentService appServices.EnrollmentService
	EvaluationService appServices.EvaluationService
	AuthzService      *appAuth.AuthorizationService

	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	FeeStatusJob   *jobs.FeeStatusJob

	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFromSettings(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	dbPool, err := db.Connect(context.Background(), cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr.With().Str("component", "migrator").Logger())
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return dbPool, nil
}

// setupPlanCache connects to Redis when enabled. A failed connection is logged
// and the plan repository reads straight from Postgres.
func setupPlanCache(cfg *config.Config, lgr zerolog.Logger) *cache.Cache {
	if !cfg.Redis.Enabled {
		lgr.Info().Msg("Redis disabled, plan cache off")
		return nil
	}

	c, err := cache.New(cache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		lgr.Warn().Err(err).Str("host", cfg.Redis.Host).Int("port", cfg.Redis.Port).Msg("Redis unavailable, plan cache off")
		return nil
	}
	lgr.Info().Str("host", cfg.Redis.Host).Int("port", cfg.Redis.Port).Msg("Plan cache connected to Redis")
	return c
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	// A nil *cache.Cache must not reach the repository as a non-nil interface
	var planCache cache.Store
	if deps.PlanCache = setupPlanCache(cfg, lgr); deps.PlanCache != nil {
		planCache = deps.PlanCache
	}
	deps.Repos = appRepos.NewRepositories(dbPool, planCache, helpers.ParseDuration(cfg.Redis.PlanTTL, appRepos.DefaultPlanTTL))

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.PublicBaseURL()+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	// Gateways
	diplomas := diploma.NewGenerator(deps.FileStorage, diploma.Config{
		SchoolName: cfg.Diploma.SchoolName,
		SubDir:     cfg.Diploma.SubDir,
	}, logger.Component(lgr, "diploma"))
	sender := email.NewSender(email.Config{
		Driver:      cfg.Email.Driver,
		FromName:    cfg.Email.FromName,
		FromEmail:   cfg.Email.FromEmail,
		SendGridKey: cfg.Email.SendGridKey,
		SMTP: email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			UseTLS:   cfg.SMTP.UseTLS,
		},
	}, logger.Component(lgr, "email"))
	notifier := email.NewNotifier(sender, deps.FileStorage, logger.Component(lgr, "notifier"))

	// Services
	repos := deps.Repos
	deps.BillingService = appServices.NewBillingService(repos.MonthlyFeeRepository, logger.Component(lgr, "billing"))
	deps.AuthService = appServices.NewAuthService(repos.StudentRepository, repos.InstructorRepository, deps.JWTService, logger.Component(lgr, "auth"))
	deps.StudentService = appServices.NewStudentService(repos.StudentRepository, repos.InstructorRepository, cfg.Instructors.MaxStudents, logger.Component(lgr, "students"))
	deps.InstructorService = appServices.NewInstructorService(repos.InstructorRepository, repos.StudentRepository, cfg.Instructors.MaxStudents, logger.Component(lgr, "instructors"))
	deps.ResetService = appServices.NewPasswordResetService(
		repos.StudentRepository,
		repos.InstructorRepository,
		repos.ResetTokenRepository,
		notifier,
		appServices.PasswordResetConfig{
			TokenTTL:   helpers.ParseDuration(cfg.JWT.PasswordResetExpiration, time.Hour),
			BaseURL:    cfg.PublicBaseURL(),
			SchoolName: cfg.Diploma.SchoolName,
		},
		logger.Component(lgr, "password_reset"),
	)
	deps.PlanService = appServices.NewPlanService(repos.MonthlyPlanRepository, repos.StudentRepository, repos.MonthlyFeeRepository, logger.Component(lgr, "plans"))
	deps.GraduationService = appServices.NewGraduationService(repos.GraduationRepository, repos.InstructorRepository, repos.StudentRepository, logger.Component(lgr, "graduations"))
	deps.EnrollmentService = appServices.NewEnrollmentService(repos.GraduationRepository, repos.StudentRepository, repos.MonthlyPlanRepository, deps.BillingService, logger.Component(lgr, "enrollment"))
	deps.EvaluationService = appServices.NewEvaluationService(
		repos.GraduationRepository,
		repos.StudentRepository,
		repos.InstructorRepository,
		diplomas,
		notifier,
		cfg.Diploma.SchoolName,
		logger.Component(lgr, "evaluation"),
	)
	deps.AuthzService = appAuth.NewAuthorizationService(repos.StudentRepository, repos.InstructorRepository, deps.BillingService)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthzService)

	deps.Controllers = appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(deps.AuthService, deps.ResetService, logger.Component(lgr, "auth_controller")),
		Graduation: appControllers.NewGraduationController(deps.GraduationService, deps.EnrollmentService, deps.EvaluationService),
		Student:    appControllers.NewStudentController(deps.StudentService),
		Plan:       appControllers.NewPlanController(deps.PlanService),
		Fee:        appControllers.NewFeeController(deps.BillingService),
		Instructor: appControllers.NewInstructorController(deps.InstructorService),
	}

	deps.FeeStatusJob = jobs.NewFeeStatusJob(deps.BillingService, helpers.ParseDuration(cfg.Billing.SweepInterval, time.Hour), lgr)

	return deps, nil
}

// SeedDefaults creates the monthly plans and the first instructor
func SeedDefaults(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	err := seed.CreateDefaultData(ctx, deps.Repos.MonthlyPlanRepository, deps.Repos.InstructorRepository, seed.AdminAccount{
		Name:     cfg.Seed.AdminName,
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	}, deps.Logger)
	if err != nil {
		// Startup continues; the API still serves what it can
		deps.Logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
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

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
