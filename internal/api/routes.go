package api

import (
	"net/http"

	"fitquest/expedition-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	profileService service.ProfileService,
	referenceService service.ReferenceService,
	expeditionService service.ExpeditionService,
	workoutService service.WorkoutService,
	accountService service.AccountService,
) {

	authHandler := NewAuthHandler(authService)
	profileHandler := NewProfileHandler(profileService)
	referenceHandler := NewReferenceHandler(referenceService)
	expeditionHandler := NewExpeditionHandler(expeditionService, profileService)
	workoutHandler := NewWorkoutHandler(workoutService, profileService)
	accountHandler := NewAccountHandler(accountService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Profile Routes ---
		profileGroup := protected.Group("/profiles")
		{
			profileGroup.POST("", profileHandler.UpsertProfile)
			profileGroup.GET("/me", profileHandler.GetMyProfile)
			profileGroup.PATCH("/me", profileHandler.PatchProfile)
		}

		// --- Reference Data Routes ---
		classGroup := protected.Group("/character-classes")
		{
			classGroup.GET("", referenceHandler.ListCharacterClasses)
			classGroup.POST("/seed", referenceHandler.SeedCharacterClasses)
			classGroup.GET("/:id", referenceHandler.GetCharacterClass)
		}
		exerciseTypeGroup := protected.Group("/exercise-types")
		{
			exerciseTypeGroup.GET("", referenceHandler.ListExerciseTypes)
			exerciseTypeGroup.POST("/seed", referenceHandler.SeedExerciseTypes)
		}

		// --- Expedition Routes ---
		expeditionGroup := protected.Group("/expeditions")
		{
			expeditionGroup.POST("", expeditionHandler.CreateExpedition)
			expeditionGroup.GET("/public", expeditionHandler.GetPublicExpeditions)
			expeditionGroup.GET("/mine", expeditionHandler.GetMyExpeditions)
			expeditionGroup.POST("/join-by-code", expeditionHandler.JoinByCode)
			expeditionGroup.GET("/:id", expeditionHandler.GetExpedition)
			expeditionGroup.POST("/:id/join", expeditionHandler.JoinExpedition)
			expeditionGroup.POST("/:id/leave", expeditionHandler.LeaveExpedition)
			expeditionGroup.GET("/:id/leaderboard", expeditionHandler.GetLeaderboard)
			expeditionGroup.GET("/:id/progress", expeditionHandler.GetProgress)
		}

		// --- Workout Routes ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("", workoutHandler.GetMyWorkouts)
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.POST("/calculate-points", workoutHandler.CalculatePoints)
			workoutGroup.PATCH("/:id", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
			workoutGroup.POST("/:id/photos/upload-url", workoutHandler.RequestPhotoUpload)
			workoutGroup.POST("/:id/photos", workoutHandler.AttachPhoto)
		}

		// --- Account Routes ---
		protected.DELETE("/account", accountHandler.DeleteAccount)
	}
}
