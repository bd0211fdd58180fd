package api

import (
	"errors"
	"net/http"

	"fitquest/expedition-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ReferenceHandler serves the seeded reference data (character classes and
// exercise types).
type ReferenceHandler struct {
	referenceService service.ReferenceService
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(referenceService service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

// ListCharacterClasses godoc
// @Summary List all character classes
// @Tags Reference
// @Produce json
// @Success 200 {array} domain.CharacterClass
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /character-classes [get]
func (h *ReferenceHandler) ListCharacterClasses(c *gin.Context) {
	classes, err := h.referenceService.ListCharacterClasses(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load character classes")
		return
	}
	c.JSON(http.StatusOK, classes)
}

// GetCharacterClass godoc
// @Summary Get a single character class
// @Tags Reference
// @Produce json
// @Param id path string true "Character class ID"
// @Success 200 {object} domain.CharacterClass
// @Failure 404 {object} gin.H "Character class not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /character-classes/{id} [get]
func (h *ReferenceHandler) GetCharacterClass(c *gin.Context) {
	class, err := h.referenceService.GetCharacterClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCharacterClassNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load character class")
		}
		return
	}
	c.JSON(http.StatusOK, class)
}

// ListExerciseTypes godoc
// @Summary List all exercise types with their MET values
// @Tags Reference
// @Produce json
// @Success 200 {array} domain.ExerciseType
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /exercise-types [get]
func (h *ReferenceHandler) ListExerciseTypes(c *gin.Context) {
	types, err := h.referenceService.ListExerciseTypes(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load exercise types")
		return
	}
	c.JSON(http.StatusOK, types)
}

// SeedCharacterClasses godoc
// @Summary Seed the default character classes
// @Description No-op when any classes already exist.
// @Tags Reference
// @Produce json
// @Success 200 {object} service.SeedResult
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /character-classes/seed [post]
func (h *ReferenceHandler) SeedCharacterClasses(c *gin.Context) {
	result, err := h.referenceService.SeedCharacterClasses(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to seed character classes")
		return
	}
	if result.AlreadySeeded {
		c.JSON(http.StatusOK, gin.H{"message": "Character classes already seeded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Character classes seeded", "count": result.Count})
}

// SeedExerciseTypes godoc
// @Summary Seed the default exercise types
// @Description No-op when any exercise types already exist.
// @Tags Reference
// @Produce json
// @Success 200 {object} service.SeedResult
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /exercise-types/seed [post]
func (h *ReferenceHandler) SeedExerciseTypes(c *gin.Context) {
	result, err := h.referenceService.SeedExerciseTypes(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to seed exercise types")
		return
	}
	if result.AlreadySeeded {
		c.JSON(http.StatusOK, gin.H{"message": "Exercise types already seeded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exercise types seeded", "count": result.Count})
}
