package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

// respondData writes the success envelope shared by every endpoint.
func respondData(c *gin.Context, status int, message string, data any) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// respondServiceError maps service errors onto HTTP statuses:
// validation 400, missing task/user 404, denial 403, anything else 500.
// The 403 message is per-action, supplied by the calling handler.
func respondServiceError(c *gin.Context, err error, forbiddenMsg, internalMsg string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		respondError(c, http.StatusBadRequest, ve.Message)
	case errors.Is(err, service.ErrTaskNotFound):
		respondError(c, http.StatusNotFound, "Task not found")
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, forbiddenMsg)
	default:
		respondError(c, http.StatusInternalServerError, internalMsg)
	}
}

// currentUser returns the authenticated actor placed in the context by
// the auth middleware.
func currentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get("user")
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return nil, false
	}
	u, ok := v.(*model.User)
	if !ok {
		respondError(c, http.StatusInternalServerError, "Invalid user in context")
		return nil, false
	}
	return u, true
}
