package router

import (
	"time"

	"github.com/skychimp/newsletter-service/internal/handlers"
	"github.com/skychimp/newsletter-service/internal/middleware"
	"github.com/skychimp/newsletter-service/internal/services"
	"github.com/skychimp/newsletter-service/internal/services/auth"
	"github.com/skychimp/newsletter-service/internal/services/excel"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Services carries the wired service layer into the router
type Services struct {
	Auth        *auth.AuthService
	Newsletter  *services.NewsletterService
	Client      *services.ClientService
	Message     *services.MessageService
	Post        *services.PostService
	Dashboard   *services.DashboardService
	UserManager *services.UserManagerService
	Excel       *excel.Service
}

// SetupRouter configures the Gin router with all API routes
func SetupRouter(db *gorm.DB, svc *Services) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	bearerTokenMiddleware := middleware.NewBearerTokenMiddleware(db, svc.Auth)

	authHandler := handlers.NewAuthHandler(svc.Auth)
	clientHandler := handlers.NewClientHandler(svc.Client)
	messageHandler := handlers.NewMessageHandler(svc.Message)
	newsletterHandler := handlers.NewNewsletterHandler(svc.Newsletter)
	postHandler := handlers.NewPostHandler(svc.Post)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)
	adminHandler := handlers.NewAdminHandler(svc.UserManager, svc.Excel)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	logrus.Info("Swagger UI endpoint registered at /swagger/index.html")

	// API v1 routes
	api := r.Group("/api/v1")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
				"time":   time.Now().Format(time.RFC3339),
			})
		})

		// Auth routes (public)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/confirm-email", authHandler.ConfirmEmail)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.RefreshToken)
			authGroup.POST("/password-reset", authHandler.RequestPasswordReset)
			authGroup.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)
		}

		// Public blog and dashboard routes
		api.GET("/posts", postHandler.GetPublishedPosts)
		api.GET("/posts/:slug", postHandler.GetPostBySlug)
		api.GET("/dashboard", dashboardHandler.GetDashboard)

		// Protected routes
		protected := api.Group("")
		protected.Use(bearerTokenMiddleware.BearerTokenAuthMiddleware())
		{
			authProtected := protected.Group("/auth")
			{
				authProtected.POST("/logout", authHandler.Logout)
				authProtected.POST("/change-password", authHandler.ChangePassword)
			}

			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)

			clients := protected.Group("/clients")
			{
				clients.POST("", clientHandler.CreateClient)
				clients.GET("", clientHandler.GetClients)
				clients.GET("/:id", clientHandler.GetClientByID)
				clients.PUT("/:id", clientHandler.UpdateClient)
				clients.DELETE("/:id", clientHandler.DeleteClient)
			}

			messages := protected.Group("/messages")
			{
				messages.POST("", messageHandler.CreateMessage)
				messages.GET("", messageHandler.GetMessages)
				messages.GET("/:id", messageHandler.GetMessageByID)
				messages.PUT("/:id", messageHandler.UpdateMessage)
				messages.DELETE("/:id", messageHandler.DeleteMessage)
			}

			newsletters := protected.Group("/newsletters")
			{
				newsletters.POST("", newsletterHandler.CreateNewsletter)
				newsletters.GET("", newsletterHandler.GetNewsletters)
				newsletters.GET("/:id", newsletterHandler.GetNewsletterByID)
				newsletters.PUT("/:id", newsletterHandler.UpdateNewsletter)
				newsletters.DELETE("/:id", newsletterHandler.DisableNewsletter)
			}

			logs := protected.Group("/logs")
			{
				logs.GET("", newsletterHandler.GetLogs)
				logs.GET("/:id", newsletterHandler.GetLogByID)
			}

			posts := protected.Group("/posts")
			{
				posts.POST("", postHandler.CreatePost)
				posts.PUT("/:id", postHandler.UpdatePost)
				posts.DELETE("/:id", postHandler.DeletePost)
			}

			// Manager routes
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireManager())
			{
				admin.GET("/users", adminHandler.GetUsers)
				admin.POST("/users/manage", adminHandler.ManageUsers)
				admin.GET("/clients/export", adminHandler.ExportClients)
			}
		}
	}

	return r
}
