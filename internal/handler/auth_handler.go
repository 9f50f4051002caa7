package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/metrics"
	"taskboard/internal/service"
)

type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Name, email, and password are required")
		return
	}

	u, token, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		metrics.RecordAuthAttempt("register", "failure")
		if errors.Is(err, service.ErrEmailTaken) {
			respondError(c, http.StatusBadRequest, "Email already registered")
			return
		}
		if service.IsValidation(err) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Register failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Error registering user")
		return
	}

	metrics.RecordAuthAttempt("register", "success")
	respondData(c, http.StatusCreated, "User registered successfully", gin.H{
		"token": token,
		"user":  u,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	u, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.RecordAuthAttempt("login", "failure")
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Error logging in")
		return
	}

	metrics.RecordAuthAttempt("login", "success")
	respondData(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  u,
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, "", gin.H{"user": u})
}

// ListUsers handles GET /api/auth/users. The router restricts it to admins.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("ListUsers failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Error fetching users")
		return
	}
	respondData(c, http.StatusOK, "", gin.H{"users": users})
}
