package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitquest/expedition-app/internal/domain"
	"fitquest/expedition-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler holds the profile service dependency.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// --- Request/Response Structs ---

// UpsertProfileRequest creates the caller's profile (first class selection)
// or switches the class on an existing one.
type UpsertProfileRequest struct {
	CharacterClassID *string `json:"characterClassId"`
}

type PatchProfileRequest struct {
	TotalPoints      *float64 `json:"totalPoints"`
	Level            *int     `json:"level" binding:"omitempty,min=1"`
	CharacterClassID *string  `json:"characterClassId"`
}

// ProfileDetailResponse is the profile with its related records attached.
type ProfileDetailResponse struct {
	*domain.UserProfile
	Expeditions    []domain.UserExpedition `json:"expeditions"`
	RecentWorkouts []domain.Workout        `json:"recentWorkouts"`
	Artifacts      []domain.UserArtifact   `json:"artifacts"`
}

// --- Handler Methods ---

// UpsertProfile godoc
// @Summary Create or update the caller's profile
// @Description Creates the profile on first class selection; afterwards only switches the class.
// @Tags Profiles
// @Accept json
// @Produce json
// @Param profile body UpsertProfileRequest true "Profile details"
// @Success 200 {object} domain.UserProfile
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /profiles [post]
func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile, err := h.profileService.GetOrCreate(c.Request.Context(), userID, req.CharacterClassID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to save profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetMyProfile godoc
// @Summary Get the caller's profile
// @Description Returns the profile with expeditions, recent workouts and artifacts.
// @Tags Profiles
// @Produce json
// @Success 200 {object} ProfileDetailResponse
// @Failure 404 {object} gin.H "Profile not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /profiles/me [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, expeditions, workouts, artifacts, err := h.profileService.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load profile")
		}
		return
	}

	c.JSON(http.StatusOK, ProfileDetailResponse{
		UserProfile:    profile,
		Expeditions:    expeditions,
		RecentWorkouts: workouts,
		Artifacts:      artifacts,
	})
}

// PatchProfile godoc
// @Summary Partially update the caller's profile
// @Description Updates totalPoints, level and/or character class. Omitted fields are left untouched.
// @Tags Profiles
// @Accept json
// @Produce json
// @Param profile body PatchProfileRequest true "Fields to update"
// @Success 200 {object} domain.UserProfile
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Profile not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /profiles/me [patch]
func (h *ProfileHandler) PatchProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req PatchProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile, err := h.profileService.Patch(c.Request.Context(), userID, req.TotalPoints, req.Level, req.CharacterClassID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}
