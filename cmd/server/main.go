package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/contactsapp/backend/internal/application/services"
	"github.com/contactsapp/backend/internal/bootstrap"
	"github.com/contactsapp/backend/internal/infrastructure/cache"
	"github.com/contactsapp/backend/internal/infrastructure/database"
	"github.com/contactsapp/backend/internal/interfaces/middleware"
	"github.com/contactsapp/backend/internal/interfaces/rest"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("📁 Loaded configuration from .env")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	// Initialize database connection
	db, err := database.GetInstance()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("✅ Database connection established")

	// Create tables and seed the admin account
	if err := bootstrap.InitializeSchema(db); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	if err := bootstrap.InitializeAdminUser(db); err != nil {
		log.Printf("⚠️  Warning: Failed to seed admin user: %v", err)
	}

	// Redis is an accelerator only; a failed ping is not fatal
	redisCache := cache.GetInstance()
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Printf("⚠️  Warning: Redis unreachable (%v) - caching and rate limiting degraded", err)
	} else {
		log.Println("✅ Redis connection established")
	}

	// Initialize service manager
	svcMgr := services.NewServiceManager(db, redisCache)
	log.Println("🔧 Service manager initialized")

	// Create Gin router
	router := gin.Default()

	router.Use(middleware.Cors())
	router.Use(middleware.ProcessTime())

	// Project root
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "REST APP v1.2"})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"server": "golang",
		})
	})

	// Debug/pprof endpoints for goroutine debugging
	debug := router.Group("/debug/pprof")
	{
		debug.GET("/goroutine", gin.WrapH(http.DefaultServeMux))
		debug.GET("/heap", gin.WrapH(http.DefaultServeMux))
		debug.GET("/profile", gin.WrapH(http.DefaultServeMux))
		debug.GET("/trace", gin.WrapH(http.DefaultServeMux))
	}

	// Initialize handlers
	authHandler := rest.NewAuthHandler(svcMgr)
	userHandler := rest.NewUserHandler(svcMgr)
	contactHandler := rest.NewContactHandler(svcMgr)

	// Initialize middleware
	requireAuth := middleware.RequireAuth(svcMgr.Auth)
	meRateLimit := middleware.RateLimit(redisCache, 10, time.Minute)

	api := router.Group("/api")
	{
		// Deep health check hitting the database
		api.GET("/healthchecker", func(c *gin.Context) {
			var one int
			if err := db.QueryRowContext(c.Request.Context(), "SELECT 1").Scan(&one); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Error connecting to the database"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Contacts API!"})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetMe)
			auth.POST("/change-password", requireAuth, authHandler.ChangePassword)
			auth.GET("/confirmed_email/:token", authHandler.ConfirmEmail)
			auth.POST("/request_email", authHandler.RequestEmail)
			auth.POST("/reset_password_request", authHandler.ResetPasswordRequest)
			auth.POST("/reset_password", authHandler.ResetPassword)
		}

		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("/me", meRateLimit, userHandler.GetMe)
			users.PATCH("/avatar", middleware.RequireAdmin(), userHandler.UpdateAvatar)
		}

		contacts := api.Group("/contacts")
		contacts.Use(requireAuth)
		{
			contacts.GET("", contactHandler.List)
			contacts.POST("", contactHandler.Create)
			// Literal segments must be registered before /:id
			contacts.GET("/search/", contactHandler.Search)
			contacts.GET("/birthdays/", contactHandler.Birthdays)
			contacts.GET("/:id", contactHandler.Get)
			contacts.PUT("/:id", contactHandler.Update)
			contacts.DELETE("/:id", contactHandler.Delete)
		}
	}

	// Uploaded avatars are served statically
	router.Static("/uploads", "./uploads")

	// Start background workers (email outbox + maintenance cron)
	svcMgr.StartWorkers()

	log.Println("\n═══════════════════════════════════════════════════════")
	log.Println("🚀 Contacts API Backend Started Successfully")
	log.Println("═══════════════════════════════════════════════════════")
	log.Printf("\n📍 Server:       http://localhost:%s", port)
	log.Printf("🔐 Auth API:     http://localhost:%s/api/auth", port)
	log.Printf("📇 Contacts API: http://localhost:%s/api/contacts", port)
	log.Printf("💚 Health check: http://localhost:%s/api/healthchecker\n", port)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down with a 5 second timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	svcMgr.StopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}
