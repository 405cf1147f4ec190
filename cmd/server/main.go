package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"qrnest_app_echo/internal/handlers"
	appMiddleware "qrnest_app_echo/internal/middleware"
	"qrnest_app_echo/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize Firebase
	credPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credPath == "" {
		credPath = "./firebase-service-account.json"
	}

	authClient, err := services.InitFirebase(credPath)
	if err != nil {
		log.Printf("Warning: Firebase initialization failed: %v", err)
		log.Println("Auth features will not work until valid credentials are provided")
	}

	// Initialize Database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Initialize Redis (optional; credential caching and scan counters)
	var cache *services.RedisCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = services.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Redis initialization failed: %v", err)
			cache = nil
		}
	} else {
		log.Println("Warning: REDIS_URL not set, caching disabled")
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Settlement flow wiring
	stores := services.NewSettlementStores(db)
	settlement := services.NewSettlementService(
		stores.Orders,
		stores.Subs,
		services.NewCachedCredentialStore(stores.Creds, cache),
		stores.History,
		stores.Tasks,
		services.SettlementConfig{
			SuccessURL:  baseURL + "/payment/success",
			CancelURL:   baseURL + "/payment/failure",
			CallbackURL: baseURL + "/api/payments/ccavenue/callback",
		},
	)
	scans := services.NewScanService(db, cache)

	// Create Echo instance
	e := echo.New()
	e.HTTPErrorHandler = appMiddleware.CustomErrorHandler

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authClient, db)
	paymentHandler := handlers.NewPaymentHandler(settlement)
	planHandler := handlers.NewPlanHandler(db)
	subscriptionHandler := handlers.NewSubscriptionHandler(db)
	qrHandler := handlers.NewQRHandler(db, scans)

	// Public routes
	e.GET("/auth/config", authHandler.Config)
	e.POST("/auth/login", authHandler.HandleLogin)
	e.POST("/auth/logout", authHandler.HandleLogout)

	// Processor-facing routes: redirect targets, never JSON
	e.POST("/api/payments/ccavenue/callback", paymentHandler.CCAvenueCallback)
	e.GET("/payment/success", paymentHandler.SuccessPage)
	e.GET("/payment/failure", paymentHandler.FailurePage)

	// Public scan redirect (this is what the printed QR encodes)
	e.GET("/q/:code", qrHandler.Resolve)

	// Plan catalog
	e.GET("/api/plans", planHandler.ListPlans)
	e.GET("/api/plans/:code", planHandler.GetPlan)

	// Protected routes
	protected := e.Group("/api")
	protected.Use(appMiddleware.RequireAuth(authClient))
	protected.POST("/payments/session", paymentHandler.CreateSession)
	protected.GET("/orders/:id", paymentHandler.GetOrder)
	protected.GET("/subscriptions", subscriptionHandler.ListMySubscriptions)
	protected.GET("/qrcodes", qrHandler.ListQRCodes)
	protected.POST("/qrcodes", qrHandler.CreateQRCode)
	protected.GET("/qrcodes/:id/scans", qrHandler.ListScans)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"service": "qrnest", "status": "ok"})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
