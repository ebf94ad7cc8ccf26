package main

import (
	"log"
	"net/http"
	"os"

	"github.com/disasterprep/backend/internal/admin"
	"github.com/disasterprep/backend/internal/auth"
	"github.com/disasterprep/backend/internal/catalog"
	"github.com/disasterprep/backend/internal/database"
	"github.com/disasterprep/backend/internal/generator"
	"github.com/disasterprep/backend/internal/middleware"
	"github.com/disasterprep/backend/internal/progression"
	"github.com/disasterprep/backend/internal/quiz"
	"github.com/disasterprep/backend/internal/sos"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize stores and services
	catalogStore := catalog.NewStore(db)
	progressStore := progression.NewStore(db)
	quizStore := quiz.NewStore(db)
	gen := generator.NewGenerator()

	progressService := progression.NewService(progressStore, catalogStore)
	quizService := quiz.NewService(quizStore, catalogStore, gen)

	// Initialize handlers
	authHandler := auth.NewHandler(db, progressStore)
	catalogHandler := catalog.NewHandler(catalogStore)
	progressHandler := progression.NewHandler(progressService)
	quizHandler := quiz.NewHandler(quizService)
	sosHandler := sos.NewHandler(progressStore)
	adminHandler := admin.NewHandler(catalogStore, progressStore)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/admin/login", authHandler.AdminLogin).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")
	protected.HandleFunc("/auth/profile", authHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/auth/contacts", authHandler.UpdateContacts).Methods("PUT")
	protected.HandleFunc("/auth/tutorial-seen", authHandler.MarkTutorialSeen).Methods("POST")

	protected.HandleFunc("/modules", catalogHandler.ListEligible).Methods("GET")
	protected.HandleFunc("/modules/{id}/quiz", quizHandler.GetQuiz).Methods("GET")
	protected.HandleFunc("/modules/{id}/info", quizHandler.GetSafetyInfo).Methods("GET")

	protected.HandleFunc("/progress", progressHandler.GetProgress).Methods("GET")
	protected.HandleFunc("/progress/complete-quiz", progressHandler.CompleteQuiz).Methods("POST")

	protected.HandleFunc("/sos", sosHandler.SendSOS).Methods("POST")

	// Admin routes
	adminRoutes := protected.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.RequireAdmin)
	adminRoutes.HandleFunc("/modules", adminHandler.ListModules).Methods("GET")
	adminRoutes.HandleFunc("/modules/{id}/status", adminHandler.SetModuleStatus).Methods("PUT")
	adminRoutes.HandleFunc("/stats", adminHandler.GetClassStats).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
