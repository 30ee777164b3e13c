package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"customer-backend/config"
	"customer-backend/controllers"
	"customer-backend/routes"
	"customer-backend/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("ERROR: SESSION_SECRET environment variable is not set. Cannot issue session tokens.")
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("config.DB is nil after ConnectDatabase()")
	}
	logger.Info().Msg("Database connection established and migrations applied.")

	// Photo storage: GCS when a bucket is configured, local disk otherwise.
	var photoStorage services.ObjectStorage
	if bucket := os.Getenv("PHOTO_BUCKET"); bucket != "" {
		gcs, err := services.NewGCSStorage(context.Background(), bucket, logger)
		if err != nil {
			log.Fatalf("GCS storage init failed: %v", err)
		}
		defer gcs.Close()
		photoStorage = gcs
	} else {
		publicURL := os.Getenv("PUBLIC_URL")
		if publicURL == "" {
			publicURL = "http://localhost:8080"
		}
		photoStorage = services.NewLocalStorage("uploads", publicURL+"/uploads")
	}

	// Initialize services
	customerService := services.NewCustomerService(db)
	countryService := services.NewCountryService(db)

	// Initialize controllers
	customerController := controllers.NewCustomerController(customerService, logger)
	countryController := controllers.NewCountryController(countryService, logger)
	uploadController := controllers.NewUploadController(photoStorage, logger)
	authController := controllers.NewAuthController(db, sessionSecret)

	// Build router
	router := routes.SetupRouter(customerController, countryController, uploadController, authController, sessionSecret, logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info().Msg("Server stopped gracefully")
}
