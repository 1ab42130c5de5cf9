package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-booking/config"
	deliveryHttp "clinic-booking/internal/delivery/http"
	"clinic-booking/internal/delivery/http/handler"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/delivery/http/view"
	domainRepo "clinic-booking/internal/domain/repository"
	"clinic-booking/internal/infrastructure/cache"
	"clinic-booking/internal/infrastructure/database"
	"clinic-booking/internal/repository"
	"clinic-booking/internal/service"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/jwt"
	"clinic-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	log := setupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		log.SetLevel(level)
	}
	log.Info("Configuration loaded successfully")
	if cfg.IsProduction() && !cfg.Session.SecureCookie {
		log.Warn("SESSION_SECURE_COOKIE is off in production; session cookies will be sent over plain HTTP")
	}

	location, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone: %w", err)
	}

	if cfg.DB.Migrate {
		if err := database.RunMigrations(cfg.DB); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	sqlDB, err := db.DB()
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sessionRepo := repository.NewSessionRepository(redisClient, cfg.Session.PointerTTL)
	deps := map[string]handler.Pinger{
		"postgres": handler.PingFunc(sqlDB.PingContext),
		"redis": handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}),
	}

	httpHandler, err := NewHandler(cfg, db, sessionRepo, log, location, deps)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           httpHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() *logrus.Logger {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
	return logrus.StandardLogger()
}

// NewHandler wires repositories, services, usecases and handlers into the application's router.
func NewHandler(
	cfg *config.Config,
	db *gorm.DB,
	sessionRepo domainRepo.SessionRepository,
	log *logrus.Logger,
	location *time.Location,
	deps map[string]handler.Pinger,
) (http.Handler, error) {
	jwtService := jwt.NewJWTService(cfg.Session)
	customValidator := validator.NewValidator()

	renderer, err := view.NewRenderer(log)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	profileRepo := repository.NewProfileRepository()
	departmentRepo := repository.NewDepartmentRepository()
	doctorRepo := repository.NewDoctorRepository()
	treatmentRepo := repository.NewTreatmentRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	flashService := service.NewFlashService(log, sessionRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, profileRepo, sessionRepo, auditService, jwtService)
	bookingUsecase := usecase.NewBookingUsecase(db, log, customValidator, location, doctorRepo, appointmentRepo, sessionRepo, auditService)
	departmentUsecase := usecase.NewDepartmentUsecase(db, log, departmentRepo, auditService)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorRepo, departmentRepo, auditService)
	treatmentUsecase := usecase.NewTreatmentUsecase(db, log, treatmentRepo, departmentRepo, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, doctorRepo, auditService, location)
	profileUsecase := usecase.NewProfileUsecase(db, log, profileRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, sessionRepo, log, cfg.Session)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.AllowedOrigins)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:        handler.NewAuthHandler(authUsecase, authMiddleware, renderer, flashService),
		Booking:     handler.NewBookingHandler(bookingUsecase, renderer, flashService, log),
		Treatment:   handler.NewTreatmentHandler(treatmentUsecase, customValidator, renderer, flashService),
		Department:  handler.NewDepartmentHandler(departmentUsecase, customValidator),
		Doctor:      handler.NewDoctorHandler(doctorUsecase, customValidator),
		Appointment: handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		Profile:     handler.NewProfileHandler(profileUsecase),
		AuditLog:    handler.NewAuditLogHandler(auditLogUsecase),
		Health:      handler.NewHealthHandler(deps, cfg.App.Env),
	}

	return deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware, log).Setup(), nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes the database and Redis connections
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
