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
	"github.com/rs/zerolog"

	"github.com/noah-isme/gradebook-go-api/internal/config"
	"github.com/noah-isme/gradebook-go-api/internal/database"
	"github.com/noah-isme/gradebook-go-api/internal/handler"
	"github.com/noah-isme/gradebook-go-api/internal/middleware"
	"github.com/noah-isme/gradebook-go-api/internal/models"
	"github.com/noah-isme/gradebook-go-api/internal/repository"
	"github.com/noah-isme/gradebook-go-api/internal/router"
	"github.com/noah-isme/gradebook-go-api/internal/service"
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
		&models.Class{},
		&models.Student{},
		&models.Enrollment{},
		&models.Activity{},
		&models.GradingScheme{},
		&models.TransmutationRule{},
		&models.ScoreSubmission{},
		&models.AuditLogEntry{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	classRepo := repository.NewClassRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	schemeRepo := repository.NewGradingSchemeRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	activityService := service.NewActivityService(activityRepo, classRepo, validate, logger)
	schemeService := service.NewSchemeService(schemeRepo, classRepo, validate, redisClient, logger)
	submissionService := service.NewSubmissionService(submissionRepo, activityRepo, enrollmentRepo, validate, logger)
	reviewService := service.NewReviewService(submissionRepo, classRepo, validate, redisClient, logger)
	gradeService := service.NewGradeService(schemeRepo, activityRepo, submissionRepo, enrollmentRepo, classRepo, redisClient, cfg.GradeCacheTTL, logger)
	auditService := service.NewAuditService(auditRepo, submissionRepo, classRepo, logger)

	activityHandler := handler.NewActivityHandler(activityService, logger)
	schemeHandler := handler.NewSchemeHandler(schemeService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, reviewService, auditService, logger)
	gradeHandler := handler.NewGradeHandler(gradeService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ActivityHandler:   activityHandler,
		SchemeHandler:     schemeHandler,
		SubmissionHandler: submissionHandler,
		GradeHandler:      gradeHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
