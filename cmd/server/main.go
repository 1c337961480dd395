package main

import (
	"log"
	"net/http"
	"os"

	"binwatch-backend/internal/database"
	"binwatch-backend/internal/handlers"
	"binwatch-backend/internal/middleware"
	"binwatch-backend/internal/services"
	"binwatch-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 BINWATCH BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	log.Println("📂 Loading environment variables...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	// Connect to database
	log.Println("🔌 Connecting to database...")
	db, err := database.Connect(dbURL)
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Database connection failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	defer db.Close()

	// Run migrations
	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ Database migrations failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// Seed database
	log.Println("🌱 Seeding database with initial data...")
	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("❌ User seeding failed: %v", err)
	}
	if err := database.SeedDevices(db); err != nil {
		log.Fatalf("❌ Device seeding failed: %v", err)
	}
	log.Println("✅ Seeding complete")

	// Initialize Firebase Cloud Messaging
	// Supports both file path and base64-encoded credentials (for cloud deployments)
	var fcmService *services.FCMService
	if fcmCredsBase64 := os.Getenv("FIREBASE_CREDENTIALS_BASE64"); fcmCredsBase64 != "" {
		fcmService, err = services.NewFCMServiceFromBase64(fcmCredsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		}
	} else {
		fcmCredentialsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE")
		if fcmCredentialsFile == "" {
			fcmCredentialsFile = "./firebase-service-account.json"
		}

		fcmService, err = services.NewFCMService(fcmCredentialsFile)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from file")
		}
	}

	// Directions client for drive-time estimates on route previews
	var directionsService *services.DirectionsService
	if apiKey := os.Getenv("DIRECTIONS_API_KEY"); apiKey != "" {
		directionsService = services.NewDirectionsService(apiKey)
		log.Println("✅ Directions client initialized")
	} else {
		log.Println("⚠️  DIRECTIONS_API_KEY not set, drive estimates disabled")
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Authentication routes (no auth required)
	r.Post("/api/auth/login", handlers.Login(db))

	// WebSocket endpoint (authentication handled in handler via query param)
	r.Get("/ws", websocket.HandleWebSocket(wsHub))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Hardware telemetry ingest (devices carry no JWT)
		r.Post("/telemetry", handlers.ReportTelemetry(db, wsHub))
		r.Post("/telemetry/weather", handlers.ReportWeather(db, wsHub))

		// Dashboard endpoints (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)

			// Devices
			r.Get("/devices", handlers.GetDevices(db))
			r.Post("/devices", handlers.CreateDevice(db, wsHub))
			r.Get("/devices/{unique_id}", handlers.GetDevice(db))
			r.Patch("/devices/{unique_id}", handlers.UpdateDevice(db, wsHub))
			r.Delete("/devices/{unique_id}", handlers.DeleteDevice(db, wsHub))

			// Weather sensors
			r.Get("/weather-sensors", handlers.GetWeatherSensors(db))
			r.Patch("/weather-sensors/{unique_id}", handlers.UpdateWeatherSensor(db, wsHub))
			r.Delete("/weather-sensors/{unique_id}", handlers.DeleteWeatherSensor(db, wsHub))

			// Fill history
			r.Get("/historical", handlers.GetHistorical(db))
			r.Get("/historical/empty-events", handlers.GetEmptyEvents(db))

			// Dashboard summary
			r.Get("/dashboard/summary", handlers.GetDashboardSummary(db))

			// Feedback
			r.Get("/feedbacks", handlers.GetFeedbacks(db))
			r.Post("/feedbacks", handlers.CreateFeedback(db, wsHub))
			r.Patch("/feedbacks/{id}", handlers.UpdateFeedback(db, wsHub))

			// Routes
			r.Get("/routes", handlers.GetRoutes(db))
			r.Get("/routes/{id}", handlers.GetRoute(db))
			r.Post("/routes/preview", handlers.PreviewRoute(db, directionsService))
			r.Post("/routes", handlers.CreateRoute(db, wsHub, fcmService))
			r.Post("/routes/{id}/start", handlers.StartRoute(db, wsHub))
			r.Post("/routes/{id}/finish", handlers.FinishRoute(db, wsHub))
			r.Delete("/routes/{id}", handlers.DeleteRoute(db, wsHub))

			// FCM token registration
			r.Post("/users/fcm-token", handlers.UpdateFCMToken(db))

			// Users
			r.Get("/users", handlers.GetUsers(db))
		})

		// Admin endpoints (require authentication + admin role)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)
			r.Use(middleware.RequireRole("admin"))

			r.Post("/users", handlers.CreateUser(db))
			r.Delete("/historical", handlers.ClearHistorical(db))
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("⚠️  PORT not set, using default: %s", port)
	}

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", port)
	log.Println("🔌 Ready to accept requests!")
	log.Println("═══════════════════════════════════════════════════════════════════")

	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}
