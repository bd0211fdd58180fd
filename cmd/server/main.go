package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitquest/expedition-app/internal/api"
	"fitquest/expedition-app/internal/config"
	"fitquest/expedition-app/internal/repository/mongo"
	"fitquest/expedition-app/internal/service"
	"fitquest/expedition-app/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title Expedition App API
// @version 1.0
// @description API for fitness expeditions: workouts, points, leaderboards and character classes.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Expedition App Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureUserProfileIndexes(ctx, appDB.Collection("userProfiles"))
		mongo.EnsureExpeditionIndexes(ctx, appDB.Collection("expeditions"))
		mongo.EnsureUserExpeditionIndexes(ctx, appDB.Collection("userExpeditions"))
		mongo.EnsureWorkoutIndexes(ctx, appDB.Collection("workouts"))
		mongo.EnsureWorkoutPhotoIndexes(ctx, appDB.Collection("workoutPhotos"))
		mongo.EnsureUserArtifactIndexes(ctx, appDB.Collection("userArtifacts"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	profileRepo := mongo.NewMongoUserProfileRepository(appDB)
	classRepo := mongo.NewMongoCharacterClassRepository(appDB)
	exerciseTypeRepo := mongo.NewMongoExerciseTypeRepository(appDB)
	expeditionRepo := mongo.NewMongoExpeditionRepository(appDB)
	membershipRepo := mongo.NewMongoUserExpeditionRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	photoRepo := mongo.NewMongoWorkoutPhotoRepository(appDB)
	artifactRepo := mongo.NewMongoUserArtifactRepository(appDB)
	txManager := mongo.NewTransactionManager(dbClient)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	referenceService := service.NewReferenceService(classRepo, exerciseTypeRepo)
	profileService := service.NewProfileService(profileRepo, classRepo, membershipRepo, expeditionRepo, workoutRepo, artifactRepo)
	expeditionService := service.NewExpeditionService(expeditionRepo, membershipRepo, profileRepo, workoutRepo, photoRepo, classRepo, userRepo, txManager)
	workoutService := service.NewWorkoutService(workoutRepo, photoRepo, profileRepo, membershipRepo, classRepo, txManager, fileStorage)
	accountService := service.NewAccountService(userRepo, profileRepo, workoutRepo, photoRepo, artifactRepo, membershipRepo, expeditionRepo, txManager, fileStorage)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, profileService, referenceService, expeditionService, workoutService, accountService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// In-flight requests get 5 seconds to finish.
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
