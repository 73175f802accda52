package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-management-api/config"
	deliveryHttp "clinic-management-api/internal/delivery/http"
	"clinic-management-api/internal/delivery/http/handler"
	"clinic-management-api/internal/delivery/http/middleware"
	"clinic-management-api/internal/infrastructure/cache"
	"clinic-management-api/internal/infrastructure/database"
	"clinic-management-api/internal/infrastructure/mail"
	"clinic-management-api/internal/infrastructure/metrics"
	"clinic-management-api/internal/infrastructure/storage"
	"clinic-management-api/internal/repository"
	"clinic-management-api/internal/service"
	"clinic-management-api/internal/usecase"
	"clinic-management-api/pkg/jwt"
	"clinic-management-api/pkg/logger"
	"clinic-management-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const passwordResetPrefix = "rate:password_reset:"

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	// UserUsecase is exposed for the create-admin command.
	UserUsecase usecase.UserUsecase
}

// LoadConfig reads the configuration and sets up the logger.
func LoadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg.Log)
	log.Info("Configuration loaded successfully")
	return cfg, log, nil
}

// New creates a new App instance with all dependencies initialized
func New(cfg *config.Config, log *logrus.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	store, err := storage.New(cfg.Storage)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Infof("File storage driver: %s", storageDriver(cfg.Storage))

	if err := app.initialize(store); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

func storageDriver(cfg config.StorageConfig) string {
	if cfg.Driver == "" {
		return "local"
	}
	return cfg.Driver
}

// initialize wires every layer and builds the HTTP server.
func (app *App) initialize(store storage.Storage) error {
	cfg, log, db, redisClient := app.Config, app.Log, app.DB, app.RedisClient

	// Initialize infrastructure services
	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	appMetrics := metrics.New()
	mailer := mail.New(cfg.Mail)
	transactor := database.NewTransactor(db)

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	patientRepo := repository.NewPatientRepository()
	expedienteRepo := repository.NewExpedienteRepository()
	sessionRepo := repository.NewClinicalSessionRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	clinicRepo := repository.NewClinicRepository()
	referralRepo := repository.NewReferralRepository()
	fileRepo := repository.NewPatientFileRepository()
	reportRepo := repository.NewReportRepository()

	// Initialize domain services
	auditService := service.NewAuditService(log, auditLogRepo)
	tokenStore := service.NewTokenStore(redisClient)
	resetLimiter := service.NewRateLimiter(redisClient, passwordResetPrefix, cfg.RateLimit.PasswordResetAttempts, cfg.RateLimit.PasswordResetWindow)
	allocator := service.NewExpedienteNumberAllocator(log, expedienteRepo, appMetrics)
	guard := service.NewReferentialGuard(log, patientRepo, expedienteRepo, sessionRepo, referralRepo, appMetrics)
	uploadPolicy := service.UploadPolicy{MaxBytes: cfg.Upload.MaxFileBytes}

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, transactor, userRepo, auditService, jwtService, tokenStore, resetLimiter, mailer)
	userUsecase := usecase.NewUserUsecase(db, log, transactor, userRepo, roleRepo, auditService, tokenStore)
	patientUsecase := usecase.NewPatientUsecase(db, log, transactor, patientRepo, guard, auditService)
	expedienteUsecase := usecase.NewExpedienteUsecase(db, log, transactor, expedienteRepo, patientRepo, allocator, guard, auditService, cfg.Allocator.MaxInsertAttempts)
	sessionUsecase := usecase.NewClinicalSessionUsecase(db, log, transactor, sessionRepo, patientRepo, userRepo, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, transactor, appointmentRepo, patientRepo, userRepo, auditService)
	referralUsecase := usecase.NewReferralUsecase(db, log, transactor, referralRepo, clinicRepo, expedienteRepo, userRepo, auditService)
	fileUsecase := usecase.NewPatientFileUsecase(db, log, transactor, fileRepo, patientRepo, sessionRepo, auditService, store, uploadPolicy, cfg.Upload.MaxFiles)
	reportUsecase := usecase.NewReportUsecase(db, log, reportRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)
	deletionCheckUsecase := usecase.NewDeletionCheckUsecase(db, log, guard)
	app.UserUsecase = userUsecase

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:            handler.NewAuthHandler(authUsecase, customValidator),
		User:            handler.NewUserHandler(userUsecase, customValidator),
		Patient:         handler.NewPatientHandler(patientUsecase, customValidator),
		Expediente:      handler.NewExpedienteHandler(expedienteUsecase, customValidator),
		ClinicalSession: handler.NewClinicalSessionHandler(sessionUsecase, customValidator),
		Appointment:     handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		Referral:        handler.NewReferralHandler(referralUsecase, customValidator),
		PatientFile:     handler.NewPatientFileHandler(fileUsecase, maxUploadRequestBytes(cfg.Upload)),
		Report:          handler.NewReportHandler(reportUsecase, customValidator),
		AuditLog:        handler.NewAuditLogHandler(auditLogUsecase),
		DeletionCheck:   handler.NewDeletionCheckHandler(deletionCheckUsecase),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(db, log, jwtService, tokenStore, userRepo)
	corsMiddleware := middleware.NewCORSMiddleware()
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	healthChecks := map[string]deliveryHttp.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	}

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware, loggingMiddleware, appMetrics, healthChecks)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	app.Server = &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// maxUploadRequestBytes leaves room for every allowed file plus the form
// overhead.
func maxUploadRequestBytes(cfg config.UploadConfig) int64 {
	files := int64(cfg.MaxFiles)
	if files < 1 {
		files = 1
	}
	return cfg.MaxFileBytes*files + 1<<20
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() error {
	errCh := make(chan error, 1)

	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	return app.waitForShutdown(errCh)
}

// waitForShutdown blocks until an interrupt signal is received or the
// server fails to start.
func (app *App) waitForShutdown(errCh <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		app.Close()
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
	return nil
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
