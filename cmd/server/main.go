package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skychimp/newsletter-service/internal/cache"
	"github.com/skychimp/newsletter-service/internal/database"
	"github.com/skychimp/newsletter-service/internal/database/repository"
	"github.com/skychimp/newsletter-service/internal/mailer"
	"github.com/skychimp/newsletter-service/internal/router"
	"github.com/skychimp/newsletter-service/internal/scheduler"
	"github.com/skychimp/newsletter-service/internal/services"
	"github.com/skychimp/newsletter-service/internal/services/auth"
	"github.com/skychimp/newsletter-service/internal/services/excel"
	"github.com/skychimp/newsletter-service/internal/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	// Import Swagger docs
	_ "github.com/skychimp/newsletter-service/docs"
)

// @title Sky Chimp Newsletter API
// @version 1.0
// @description Email newsletter and client registry service with JWT authentication
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter `Bearer ` followed by your JWT token (e.g. "Bearer <token>")

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Configure logging
	configureLogging()

	// Initialize Sentry
	utils.InitSentry()

	// Initialize database connection
	db, err := database.InitDB()
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	// SMTP sender for confirmation mails and newsletter delivery
	sender, err := mailer.NewSMTPSenderFromEnv()
	if err != nil {
		logrus.Fatalf("Failed to configure SMTP sender: %v", err)
	}

	// Initialize auth service
	authService := auth.NewAuthService(db, sender)

	// Create admin user if not exists
	if err := authService.CreateAdminUser(); err != nil {
		logrus.Warnf("Failed to create admin user: %v", err)
	}

	// Initialize token cleanup service
	tokenCleanupService := auth.NewTokenCleanupService(db)
	tokenCleanupService.Start()
	defer tokenCleanupService.Stop()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	newsletterRepo := repository.NewNewsletterRepository(db)
	logRepo := repository.NewNewsletterLogRepository(db)
	postRepo := repository.NewPostRepository(db)

	// Initialize RabbitMQ service for delivery events
	var events services.EventPublisher
	rabbitMQService, err := services.NewRabbitMQService()
	if err != nil {
		logrus.Warnf("Failed to initialize RabbitMQ: %v", err)
	} else {
		logrus.Info("RabbitMQ service initialized")
		defer rabbitMQService.Close()
		events = rabbitMQService
	}

	// Delivery scheduling
	sched := scheduler.NewTimerScheduler()
	defer sched.Stop()

	deliveryService := services.NewDeliveryService(newsletterRepo, logRepo, sched, sender, events)
	if err := deliveryService.RestoreSchedules(); err != nil {
		logrus.Warnf("Failed to restore delivery schedules: %v", err)
	}

	// Business services
	newsletterService := services.NewNewsletterService(newsletterRepo, clientRepo, messageRepo, logRepo, deliveryService)
	clientService := services.NewClientService(clientRepo)
	messageService := services.NewMessageService(messageRepo)
	postService := services.NewPostService(postRepo)

	cacheEnabled := getEnv("CACHE_ENABLED", "true") == "true"
	dashboardService := services.NewDashboardService(newsletterRepo, clientRepo, postService, cache.NewMemory(), cacheEnabled)

	userManagerService := services.NewUserManagerService(userRepo)
	excelService := excel.NewService(clientRepo)

	// Initialize router
	r := router.SetupRouter(db, &router.Services{
		Auth:        authService,
		Newsletter:  newsletterService,
		Client:      clientService,
		Message:     messageService,
		Post:        postService,
		Dashboard:   dashboardService,
		UserManager: userManagerService,
		Excel:       excelService,
	})

	// Configure HTTP server
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logrus.Infof("Server starting on port %s", port)
		logrus.Infof("API Health Check: http://localhost:%s/api/v1/health", port)
		logrus.Infof("Swagger UI: http://localhost:%s/swagger/index.html", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited properly")
}

func configureLogging() {
	logLevel := getEnv("LOG_LEVEL", "info")
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
