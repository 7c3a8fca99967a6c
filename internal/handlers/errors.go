package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/securitypro/oms_backend/internal/apperrors"
)

// respondError maps a service error to its HTTP status. Only classified errors
// expose their message to the caller.
func respondError(c *gin.Context, logger *slog.Logger, err error, action string) {
	var limitErr *apperrors.LimitExceededError
	switch {
	case errors.As(err, &limitErr):
		logger.Warn("Amount limit exceeded while "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requested": limitErr.Requested,
			"available": limitErr.Available,
		})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error while "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found while "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource while "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidState):
		logger.Warn("Invalid state while "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	default:
		logger.Error("Failed while "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed while " + action})
	}
}

// bindError reports a malformed body or query string.
func bindError(c *gin.Context, logger *slog.Logger, err error, what string) {
	logger.Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + ": " + err.Error()})
}
