package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opsdeck/admin-api/internal/service"
	"github.com/opsdeck/admin-api/internal/utils"
)

// AuthHandler handles admin authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, nil, "Invalid request body")
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, utils.ErrInvalidCredentials) || errors.Is(err, utils.ErrAccountDisabled) {
		utils.Error(c, 401, nil, err.Error())
		return
	}
	if err != nil {
		utils.Error(c, 500, nil, "Failed to log in: "+err.Error())
		return
	}

	utils.Success(c, 200, gin.H{"token": token}, "Login successful")
}

// Logout handles POST /api/auth/logout
//
// Runs behind the JWT middleware, which stores the token ID and expiry in the
// context; the token is denylisted until it would have expired anyway.
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenID := c.GetString("token_id")
	if tokenID == "" {
		utils.Error(c, 400, nil, "No token to revoke")
		return
	}

	expiresAt, _ := c.Get("token_expires_at")
	exp, ok := expiresAt.(time.Time)
	if !ok {
		exp = time.Now().Add(24 * time.Hour)
	}

	if err := h.authService.Logout(c.Request.Context(), tokenID, exp); err != nil {
		utils.Error(c, 500, nil, "Failed to log out: "+err.Error())
		return
	}

	utils.Success(c, 200, nil, "Logged out")
}
