package api

import (
	"errors"
	"net/http"

	"fitquest/expedition-app/internal/service"

	"github.com/gin-gonic/gin"
)

// AccountHandler holds the account service dependency.
type AccountHandler struct {
	accountService service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// DeleteAccount godoc
// @Summary Delete the caller's account
// @Description Removes the user and everything they own in one transaction. Expeditions they created are transferred to another participant or deleted if empty.
// @Tags Account
// @Produce json
// @Success 200 {object} gin.H
// @Failure 404 {object} gin.H "Profile not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /account [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), userID); err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete account")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
