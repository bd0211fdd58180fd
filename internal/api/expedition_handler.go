package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitquest/expedition-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ExpeditionHandler holds the expedition and profile service dependencies.
// The profile service resolves the caller's profile id from the JWT user id.
type ExpeditionHandler struct {
	expeditionService service.ExpeditionService
	profileService    service.ProfileService
}

// NewExpeditionHandler creates a new ExpeditionHandler.
func NewExpeditionHandler(expeditionService service.ExpeditionService, profileService service.ProfileService) *ExpeditionHandler {
	return &ExpeditionHandler{
		expeditionService: expeditionService,
		profileService:    profileService,
	}
}

// --- Request/Response Structs ---

type CreateExpeditionRequest struct {
	Name         string    `json:"name" binding:"required"`
	Description  string    `json:"description"`
	TargetPoints float64   `json:"targetPoints" binding:"required,gt=0"`
	DurationDays int       `json:"durationDays" binding:"required,gt=0"`
	IsPublic     bool      `json:"isPublic"`
	StartDate    time.Time `json:"startDate" binding:"required"`
}

// JoinExpeditionRequest carries the invite code for private expeditions.
// Public expeditions ignore the body entirely.
type JoinExpeditionRequest struct {
	InviteCode *string `json:"inviteCode"`
}

type JoinByCodeRequest struct {
	InviteCode string `json:"inviteCode" binding:"required"`
}

// --- Handler Methods ---

// CreateExpedition godoc
// @Summary Create an expedition
// @Description Creates an expedition and enrolls the creator as its first participant. Private expeditions get a generated invite code.
// @Tags Expeditions
// @Accept json
// @Produce json
// @Param expedition body CreateExpeditionRequest true "Expedition details"
// @Success 201 {object} domain.Expedition
// @Failure 400 {object} gin.H "Invalid input or no profile yet"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /expeditions [post]
func (h *ExpeditionHandler) CreateExpedition(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateExpeditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	expedition, err := h.expeditionService.Create(c.Request.Context(), service.CreateExpeditionInput{
		CreatorUserID: userID,
		Name:          req.Name,
		Description:   req.Description,
		TargetPoints:  req.TargetPoints,
		DurationDays:  req.DurationDays,
		IsPublic:      req.IsPublic,
		StartDate:     req.StartDate,
	})
	if err != nil {
		if errors.Is(err, service.ErrCreatorProfileNeeded) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create expedition")
		}
		return
	}

	c.JSON(http.StatusCreated, expedition)
}

// GetPublicExpeditions godoc
// @Summary List public upcoming expeditions
// @Tags Expeditions
// @Produce json
// @Success 200 {array} domain.Expedition
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /expeditions/public [get]
func (h *ExpeditionHandler) GetPublicExpeditions(c *gin.Context) {
	expeditions, err := h.expeditionService.GetPublic(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load expeditions")
		return
	}
	c.JSON(http.StatusOK, expeditions)
}

// GetMyExpeditions godoc
// @Summary List the caller's expedition participations
// @Tags Expeditions
// @Produce json
// @Success 200 {array} domain.UserExpedition
// @Failure 404 {object} gin.H "Profile not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /expeditions/mine [get]
func (h *ExpeditionHandler) GetMyExpeditions(c *gin.Context) {
	profileID, ok := h.resolveProfileID(c)
	if !ok {
		return
	}

	participations, err := h.expeditionService.ListForUser(c.Request.Context(), profileID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load expeditions")
		return
	}
	c.JSON(http.StatusOK, participations)
}

// GetExpedition godoc
// @Summary Get an expedition by ID
// @Description Returns the expedition with participants, creator and workout feed.
// @Tags Expeditions
// @Produce json
// @Param id path string true "Expedition ID"
// @Success 200 {object} domain.Expedition
// @Failure 404 {object} gin.H "Expedition not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /expeditions/{id} [get]
func (h *ExpeditionHandler) GetExpedition(c *gin.Context) {
	expedition, err := h.expeditionService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrExpeditionNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load expedition")
		}
		return
	}
	c.JSON(http.StatusOK, expedition)
}

// JoinExpedition godoc
// @Summary Join an expedition
// @Description Joins the caller to an upcoming expedition. Private expeditions require the matching invite code.
// @Tags Expeditions
// @Accept json
// @Produce json
// @Param id path string true "Expedition ID"
// @Param body body JoinExpeditionRequest false "Invite code for private expeditions"
// @Success 201 {object} domain.UserExpedition
// @Failure 400 {object} gin.H "Not joinable or already participating"
// @Failure 403 {object} gin.H "Invalid invite code"
// @Failure 404 {object} gin.H "Expedition not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /expeditions/{id}/join [post]
func (h *ExpeditionHandler) JoinExpedition(c *gin.Context) {
	profileID, ok := h.resolveProfileID(c)
	if !ok {
		return
	}

	// Body is optional; public expeditions need none.
	var req JoinExpeditionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
			return
		}
	}

	participation, err := h.expeditionService.Join(c.Request.Context(), c.Param("id"), profileID, req.InviteCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExpeditionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidInviteCode):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrNotJoinable), errors.Is(err, service.ErrAlreadyParticipating):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to join expedition")
		}
		return
	}

	c.JSON(http.StatusCreated, participation)
}

// JoinByCode godoc
// @Summary Join a private expedition by invite code
// @Description Resolves the expedition from the invite code and joins the caller. Unknown codes map to 404.
// @Tags Expeditions
// @Accept json
// @Produce json
// @Param body body JoinByCodeRequest true "Invite code"
// @Success 201 {object} domain.UserExpedition
// @Failure 400 {object} gin.H "Not joinable or already participating"
// @Failure 404 {object} gin.H "Invite code does not match any expedition"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /expeditions/join-by-code [post]
func (h *ExpeditionHandler) JoinByCode(c *gin.Context) {
	profileID, ok := h.resolveProfileID(c)
	if !ok {
		return
	}

	var req JoinByCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	participation, err := h.expeditionService.JoinByCode(c.Request.Context(), req.InviteCode, profileID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInviteCode):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotJoinable), errors.Is(err, service.ErrAlreadyParticipating):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to join expedition")
		}
		return
	}

	c.JSON(http.StatusCreated, participation)
}

// LeaveExpedition godoc
// @Summary Leave an expedition
// @Description Removes the caller's participation. Active expeditions cannot be left.
// @Tags Expeditions
// @Produce json
// @Param id path string true "Expedition ID"
// @Success 200 {object} gin.H
// @Failure 400 {object} gin.H "Not participating or expedition is active"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /expeditions/{id}/leave [post]
func (h *ExpeditionHandler) LeaveExpedition(c *gin.Context) {
	profileID, ok := h.resolveProfileID(c)
	if !ok {
		return
	}

	err := h.expeditionService.Leave(c.Request.Context(), c.Param("id"), profileID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotParticipating), errors.Is(err, service.ErrExpeditionActive):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to leave expedition")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left expedition"})
}

// GetLeaderboard godoc
// @Summary Get an expedition's leaderboard
// @Description Participants ordered by points earned, descending.
// @Tags Expeditions
// @Produce json
// @Param id path string true "Expedition ID"
// @Success 200 {array} domain.UserExpedition
// @Failure 404 {object} gin.H "Expedition not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /expeditions/{id}/leaderboard [get]
func (h *ExpeditionHandler) GetLeaderboard(c *gin.Context) {
	leaderboard, err := h.expeditionService.GetLeaderboard(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrExpeditionNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load leaderboard")
		}
		return
	}
	c.JSON(http.StatusOK, leaderboard)
}

// GetProgress godoc
// @Summary Get an expedition's progress
// @Description Summed points, completion percentage (capped at 100), participant count and recent workouts.
// @Tags Expeditions
// @Produce json
// @Param id path string true "Expedition ID"
// @Success 200 {object} service.ExpeditionProgress
// @Failure 404 {object} gin.H "Expedition not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /expeditions/{id}/progress [get]
func (h *ExpeditionHandler) GetProgress(c *gin.Context) {
	progress, err := h.expeditionService.GetProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrExpeditionNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load expedition progress")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"expedition":         progress.Expedition,
		"totalPoints":        progress.TotalPoints,
		"targetPoints":       progress.TargetPoints,
		"progressPercentage": progress.ProgressPercentage,
		"participantCount":   progress.ParticipantCount,
		"recentWorkouts":     progress.RecentWorkouts,
	})
}

// resolveProfileID maps the authenticated user to their profile id, writing
// the error response itself when that fails.
func (h *ExpeditionHandler) resolveProfileID(c *gin.Context) (string, bool) {
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
