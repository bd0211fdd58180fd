package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitquest/expedition-app/internal/service"

	"github.com/gin-gonic/gin"
)

// WorkoutHandler holds the workout and profile service dependencies.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	profileService service.ProfileService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService, profileService service.ProfileService) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
		profileService: profileService,
	}
}

// --- Request/Response Structs ---

type CreateWorkoutRequest struct {
	ExpeditionID *string   `json:"expeditionId"`
	ExerciseType string    `json:"exerciseType" binding:"required"`
	Duration     int       `json:"duration" binding:"required,gt=0"` // minutes
	METValue     float64   `json:"metValue" binding:"required,gt=0"`
	BasePoints   float64   `json:"basePoints" binding:"required,gte=0"`
	IsSolo       *bool     `json:"isSolo" binding:"required"`
	IsPublic     bool      `json:"isPublic"`
	Notes        *string   `json:"notes"`
	WorkoutDate  time.Time `json:"workoutDate" binding:"required"`
}

type UpdateWorkoutRequest struct {
	Duration   int     `json:"duration" binding:"required,gt=0"`
	METValue   float64 `json:"metValue" binding:"required,gt=0"`
	BasePoints float64 `json:"basePoints" binding:"required,gte=0"`
	Notes      *string `json:"notes"`
	IsPublic   bool    `json:"isPublic"`
}

type CalculatePointsRequest struct {
	Duration int     `json:"duration" binding:"required,gt=0"`
	METValue float64 `json:"metValue" binding:"required,gt=0"`
	IsSolo   *bool   `json:"isSolo" binding:"required"`
}

type PhotoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type AttachPhotoRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
	Caption   string `json:"caption"`
}

// --- Handler Methods ---

// CreateWorkout godoc
// @Summary Log a workout
// @Description Logs a workout for the caller; must be within 24 hours of the workout date. Points are scaled server-side by the character-class multiplier.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param workout body CreateWorkoutRequest true "Workout details"
// @Success 201 {object} domain.Workout
// @Failure 400 {object} gin.H "Invalid input or logging window closed"
// @Failure 404 {object} gin.H "Profile not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	profileID, ok := h.resolveProfileID(c)
	if !ok {
		return
	}

	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	workout, err := h.workoutService.Create(c.Request.Context(), service.CreateWorkoutInput{
		UserProfileID: profileID,
		ExpeditionID:  req.ExpeditionID,
		ExerciseType:  req.ExerciseType,
		Duration:      req.Duration,
		METValue:      req.METValue,
		BasePoints:    req.BasePoints,
		IsSolo:        *req.IsSolo,
		IsPublic:      req.IsPublic,
		Notes:         req.Notes,
		WorkoutDate:   req.WorkoutDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLoggingWindowClosed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrProfileNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to log workout")
		}
		return
	}

	c.JSON(http.StatusCreated, workout)
}

// UpdateWorkout godoc
// @Summary Update a workout
// @Description Updates a workout the caller owns; only allowed within 24 hours of the workout date. Points are recomputed and the difference is applied to the ledgers.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param id path string true "Workout ID"
// @Param workout body UpdateWorkoutRequest true "Updated fields"
// @Success 200 {object} domain.Workout
// @Failure 400 {object} gin.H "Invalid input or update window closed"
// @Failure 404 {object} gin.H "Workout not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/{id} [patch]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	profileID, ok := h.resolveProfileID(c)
	if !ok {
		return
	}

	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	workout, err := h.workoutService.Update(c.Request.Context(), c.Param("id"), profileID, service.UpdateWorkoutInput{
		Duration:   req.Duration,
		METValue:   req.METValue,
		BasePoints: req.BasePoints,
		Notes:      req.Notes,
		IsPublic:   req.IsPublic,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrUpdateWindowClosed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update workout")
		}
		return
	}

	c.JSON(http.StatusOK, workout)
}

// DeleteWorkout godoc
// @Summary Delete a workout
// @Description Deletes a workout the caller owns; only allowed within 24 hours of the workout date. Its point contribution is reversed.
// @Tags Workouts
// @Produce json
// @Param id path string true "Workout ID"
// @Success 200 {object} gin.H
// @Failure 400 {object} gin.H "Deletion window closed"
// @Failure 404 {object} gin.H "Workout not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/{id} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	profileID, ok := h.resolveProfileID(c)
	if !ok {
		return
	}

	err := h.workoutService.Delete(c.Request.Context(), c.Param("id"), profileID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrDeletionWindowClosed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete workout")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Workout deleted"})
}

// GetMyWorkouts godoc
// @Summary List the caller's workouts
// @Description Newest first; optionally filtered by expedition via ?expeditionId=.
// @Tags Workouts
// @Produce json
// @Param expeditionId query string false "Expedition ID filter"
// @Success 200 {array} domain.Workout
// @Failure 404 {object} gin.H "Profile not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts [get]
func (h *WorkoutHandler) GetMyWorkouts(c *gin.Context) {
	profileID, ok := h.resolveProfileID(c)
	if !ok {
		return
	}

	var expeditionID *string
	if v := c.Query("expeditionId"); v != "" {
		expeditionID = &v
	}

	workouts, err := h.workoutService.ListForUser(c.Request.Context(), profileID, expeditionID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load workouts")
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// CalculatePoints godoc
// @Summary Preview points for a workout
// @Description Computes base and final points with the caller's class multiplier without persisting anything.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param body body CalculatePointsRequest true "Calculation inputs"
// @Success 200 {object} service.PointsPreview
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Profile not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/calculate-points [post]
func (h *WorkoutHandler) CalculatePoints(c *gin.Context) {
	profileID, ok := h.resolveProfileID(c)
	if !ok {
		return
	}

	var req CalculatePointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	preview, err := h.workoutService.CalculatePoints(c.Request.Context(), profileID, req.Duration, req.METValue, *req.IsSolo)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to calculate points")
		}
		return
	}
	c.JSON(http.StatusOK, preview)
}

// RequestPhotoUpload godoc
// @Summary Get a presigned upload URL for a workout photo
// @Description Returns a presigned PUT URL and the object key to confirm with after uploading.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param id path string true "Workout ID"
// @Param body body PhotoUploadRequest true "Content type of the image"
// @Success 200 {object} service.PhotoUploadTicket
// @Failure 400 {object} gin.H "Invalid content type"
// @Failure 404 {object} gin.H "Workout not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/{id}/photos/upload-url [post]
func (h *WorkoutHandler) RequestPhotoUpload(c *gin.Context) {
	profileID, ok := h.resolveProfileID(c)
	if !ok {
		return
	}

	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	ticket, err := h.workoutService.RequestPhotoUpload(c.Request.Context(), c.Param("id"), profileID, req.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidPhotoType):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create upload URL")
		}
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// AttachPhoto godoc
// @Summary Attach an uploaded photo to a workout
// @Description Records the photo metadata after the client uploaded the object via the presigned URL.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param id path string true "Workout ID"
// @Param body body AttachPhotoRequest true "Object key and optional caption"
// @Success 201 {object} domain.WorkoutPhoto
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Workout not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/{id}/photos [post]
func (h *WorkoutHandler) AttachPhoto(c *gin.Context) {
	profileID, ok := h.resolveProfileID(c)
	if !ok {
		return
	}

	var req AttachPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	photo, err := h.workoutService.AttachPhoto(c.Request.Context(), c.Param("id"), profileID, req.ObjectKey, req.Caption)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to attach photo")
		}
		return
	}
	c.JSON(http.StatusCreated, photo)
}

func (h *WorkoutHandler) resolveProfileID(c *gin.Context) (string, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return "", false
	}

	profile, err := h.profileService.Resolve(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to resolve profile")
		}
		return "", false
	}
	return profile.ID, true
}
