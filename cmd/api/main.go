package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yohanes2124/dms-portal/internal/config"
	"github.com/yohanes2124/dms-portal/internal/database"
	"github.com/yohanes2124/dms-portal/internal/handler"
	"github.com/yohanes2124/dms-portal/internal/middleware"
	"github.com/yohanes2124/dms-portal/internal/models"
	"github.com/yohanes2124/dms-portal/internal/repository"
	"github.com/yohanes2124/dms-portal/internal/router"
	"github.com/yohanes2124/dms-portal/internal/service"
	cloud "github.com/yohanes2124/dms-portal/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Block{},
		&models.Room{},
		&models.Application{},
		&models.RoomChangeRequest{},
		&models.Issue{},
		&models.Notification{},
		&models.Announcement{},
		&models.Rule{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, caching and fan-out disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	var uploader service.FileUploader
	if cfg.CloudinaryCloudName != "" {
		cloudService, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		uploader = cloudService
	} else {
		logger.Warn().Msg("cloudinary not configured, issue photo uploads disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	roomChangeRepo := repository.NewRoomChangeRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	reportRepo := repository.NewReportRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, redisClient, cfg.EventChannel, natsConn, validate, logger)
	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	userService := service.NewUserService(userRepo, notificationService, validate, logger)
	housingService := service.NewHousingService(blockRepo, roomRepo, validate, logger)
	applicationService := service.NewApplicationService(applicationRepo, roomChangeRepo, roomRepo, userRepo, notificationService, validate, logger)
	issueService := service.NewIssueService(issueRepo, roomRepo, uploader, cfg.IssuePhotoMaxBytes, validate, logger)
	ruleService := service.NewRuleService(ruleRepo, validate, logger)
	announcementService := service.NewAnnouncementService(announcementRepo, redisClient, cfg.AnnouncementCacheTTL, validate, logger)
	reportService := service.NewReportService(reportRepo, applicationRepo, redisClient, cfg.ReportCacheTTL, logger)

	serviceCtx, stopServices := context.WithCancel(context.Background())
	defer stopServices()
	notificationService.Start(serviceCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		UserHandler:         handler.NewUserHandler(userService, logger),
		HousingHandler:      handler.NewHousingHandler(housingService, logger),
		ApplicationHandler:  handler.NewApplicationHandler(applicationService, logger),
		IssueHandler:        handler.NewIssueHandler(issueService, logger),
		RuleHandler:         handler.NewRuleHandler(ruleService, logger),
		AnnouncementHandler: handler.NewAnnouncementHandler(announcementService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger, cfg.SSEKeepAlive),
		ReportHandler:       handler.NewReportHandler(reportService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, stopServices)
}

func waitForShutdown(app *fiber.App, stopServices context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	stopServices()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
