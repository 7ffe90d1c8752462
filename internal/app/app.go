package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agelink_backend/internal/auth"
	"agelink_backend/internal/config"
	"agelink_backend/internal/database"
	"agelink_backend/internal/email"
	"agelink_backend/internal/handlers"
	"agelink_backend/internal/logger"
	"agelink_backend/internal/middleware"
	"agelink_backend/internal/models"
	"agelink_backend/internal/repositories"
	"agelink_backend/internal/routes"
	"agelink_backend/internal/services"
	"agelink_backend/internal/validator"
	"agelink_backend/internal/workers"
	"agelink_backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := SetupRouter(ctx, cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := router.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	relationshipRepo := repositories.NewRelationshipRepository(gormDB)

	serviceContainer := initializeServices(cfg, gormDB, relationshipRepo)
	appHandlers := handlers.NewAppHandlers(serviceContainer, validator.New())

	wsManager := ws.NewManager(serviceContainer.ChatService)
	go wsManager.Run()
	wsHandler := ws.NewHandler(wsManager, serviceContainer.ChatService)

	coolingOffWorker := workers.NewCoolingOffWorker(
		relationshipRepo,
		serviceContainer.NotificationService,
		time.Duration(cfg.Workers.CoolingOffInterval)*time.Minute,
	)
	coolingOffWorker.Start(ctx)

	router := initializeGinRouter(cfg)
	routes.RegisterRoutes(router, appHandlers, wsHandler)

	return router
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, relationshipRepo repositories.RelationshipRepository) *services.ServiceContainer {
	var emailProvider email.Provider
	if cfg.Email.SMTPHost != "" {
		provider, err := email.NewSMTPProvider(&email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			UseTLS:    cfg.Email.UseTLS,
		})
		if err != nil {
			logger.Fatal("Failed to initialize SMTP provider", "error", err)
		}
		emailProvider = provider
	} else {
		logger.Warn("SMTP not configured, email delivery disabled")
		emailProvider = &MockEmailProvider{}
	}

	userRepo := repositories.NewUserRepository(gormDB)
	profileRepo := repositories.NewProfileRepository(gormDB)
	applicationRepo := repositories.NewApplicationRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)
	chatRepo := repositories.NewChatRepository(gormDB)

	notificationService := services.NewNotificationService(notificationRepo, userRepo, emailProvider)
	stageService := services.NewStageService(applicationRepo, relationshipRepo)

	return &services.ServiceContainer{
		AuthService:         services.NewAuthService(userRepo),
		ProfileService:      services.NewProfileService(profileRepo, userRepo),
		StageService:        stageService,
		ApplicationService:  services.NewApplicationService(applicationRepo, relationshipRepo, userRepo, chatRepo, notificationService),
		RelationshipService: services.NewRelationshipService(relationshipRepo, notificationService),
		ChatAccessService:   services.NewChatAccessService(applicationRepo, relationshipRepo, chatRepo, stageService),
		ChatService:         services.NewChatService(chatRepo, applicationRepo, relationshipRepo),
		NotificationService: notificationService,
		GateService:         services.NewGateService(userRepo, profileRepo, stageService),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())

	return router
}

// seedFirstAdmin creates the admin account from config when no admin exists
// yet, so a fresh deployment can review applications immediately.
func seedFirstAdmin(gormDB *gorm.DB, cfg *config.Config) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		logger.Warn("Admin credentials not configured, skipping admin seed")
		return nil
	}

	var count int64
	if err := gormDB.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:            cfg.Admin.Email,
		PasswordHash:     hash,
		Role:             models.UserRoleAdmin,
		Status:           models.UserStatusActive,
		ProfileCompleted: true,
	}
	if err := gormDB.Create(admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	logger.Info("First admin user created", "email", cfg.Admin.Email)
	return nil
}
