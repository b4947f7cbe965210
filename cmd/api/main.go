package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"mysre-api/internal/api"
	"mysre-api/internal/api/handlers"
	"mysre-api/internal/config"
	"mysre-api/internal/database"
	"mysre-api/internal/middleware"
	"mysre-api/internal/migrations"
	"mysre-api/internal/repository"
	"mysre-api/internal/services"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	// Initialize database connection
	db, err := database.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Get underlying *sql.DB instance for connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get underlying *sql.DB instance:", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	tierLimits := config.NewTierLimitConfig()

	if pw := os.Getenv("ADMIN_PASSWORD"); pw != "" {
		email := os.Getenv("ADMIN_EMAIL")
		if email == "" {
			email = "admin@mysre.local"
		}
		if err := migrations.SeedAdminUser(db, email, pw, tierLimits); err != nil {
			log.Printf("Warning: failed to seed admin user: %v", err)
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewUsageEventRepository(db)
	billingRepo := repository.NewBillingRecordRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	writerRepo := repository.NewWriterSessionRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	svcTokenRepo := repository.NewServiceTokenRepository(db)

	// Initialize services
	emailService := services.NewEmailService()
	authService := services.NewAuthService(userRepo, tierLimits, emailService, jwtSecret)
	ledgerService := services.NewTokenLedgerService(db, userRepo, eventRepo)
	usageRecorder := services.NewUsageRecorder(ledgerService, userRepo, emailService)
	userService := services.NewUserService(userRepo, tierLimits)
	writerService := services.NewWriterService(writerRepo)
	activityService := services.NewActivityLogService(activityRepo)
	svcTokenService := services.NewServiceTokenService(svcTokenRepo)
	if token := os.Getenv("SERVICE_TOKEN"); token != "" {
		if err := svcTokenService.EnsureToken(token); err != nil {
			log.Printf("Warning: failed to seed service token: %v", err)
		}
	}
	paymentService := services.NewPaymentService()

	storageService, err := services.NewS3StorageService()
	if err != nil {
		log.Printf("Warning: object storage unavailable: %v", err)
	}
	articleService := services.NewArticleService(articleRepo, storageService)

	var cacheService services.CacheService
	if redisCache, err := services.NewRedisCacheService(config.NewCacheConfig()); err != nil {
		log.Printf("Warning: cache unavailable, billing stats uncached: %v", err)
	} else {
		cacheService = redisCache
	}
	analyticsService := services.NewBillingAnalyticsService(ledgerService, userRepo, eventRepo, billingRepo, cacheService)

	// Initialize handlers
	router := api.SetupRoutes(api.RouterDeps{
		AuthHandler:      handlers.NewAuthHandler(authService),
		BillingHandler:   handlers.NewBillingHandler(usageRecorder, ledgerService, analyticsService, paymentService, authService),
		ArticleHandler:   handlers.NewArticleHandler(articleService),
		UserHandler:      handlers.NewUserHandler(userService),
		WriterHandler:    handlers.NewWriterHandler(writerService),
		UploadHandler:    handlers.NewUploadHandler(storageService),
		ActivityHandler:  handlers.NewActivityHandler(activityService),
		SvcTokenHandler:  handlers.NewServiceTokenHandler(svcTokenService),
		AuthService:      authService,
		SvcTokenService:  svcTokenService,
		ActivityRecorder: middleware.NewActivityRecorder(activityService),
		RateLimiter:      middleware.NewRateLimiter(tierLimits),
	})

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
			"X-Service-Token",
		},
		ExposedHeaders: []string{
			"Link",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	// Create server with timeouts
	srv := &http.Server{
		Handler:      corsMiddleware.Handler(router),
		Addr:         ":" + getPort(),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	// Start server
	log.Printf("Server starting on port %s...", getPort())
	log.Fatal(srv.ListenAndServe())
}

func getPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}
	return port
}
