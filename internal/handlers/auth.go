package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glmzsby/branch-points-api/internal/dto"
	apierrors "github.com/glmzsby/branch-points-api/internal/errors"
	"github.com/glmzsby/branch-points-api/internal/middleware"
	"github.com/glmzsby/branch-points-api/internal/models"
	"github.com/glmzsby/branch-points-api/internal/services"
	"github.com/glmzsby/branch-points-api/internal/utils"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	tokens      *utils.TokenManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, userService *services.UserService, tokens *utils.TokenManager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		tokens:      tokens,
	}
}

// Login authenticates a member and issues a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Type     string `json:"type" binding:"required,oneof=normal branch"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "", "Invalid request body")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Username: req.Username,
		Password: req.Password,
		Type:     models.MembershipType(req.Type),
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  dto.ToUserDTO(*user),
	})
}

// AdminLogin authenticates the branch secretary.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	type AdminLoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "", "Invalid request body")
		return
	}

	user, err := h.authService.AdminLogin(req.Username, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Logout revokes the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apierrors.Unauthorized(c, apierrors.ErrCodeTokenMissing, "")
		return
	}

	if err := h.tokens.Revoke(c.Request.Context(), claims); err != nil {
		apierrors.InternalError(c, "Failed to revoke token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetCurrentUser returns the authenticated user with rank context.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, apierrors.ErrCodeTokenMissing, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	rank, total, err := h.userService.RankOf(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute rank")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": dto.UserInfoDTO{
			UserDTO:    dto.ToUserDTO(*user),
			Rank:       rank,
			TotalUsers: total,
		},
	})
}

// GetCurrentPoints returns the authenticated user's balance and rank.
func (h *AuthHandler) GetCurrentPoints(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, apierrors.ErrCodeTokenMissing, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	rank, total, err := h.userService.RankOf(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute rank")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"points":      user.Points,
		"rank":        rank,
		"total_users": total,
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, apierrors.ErrCodeInvalidCredentials, err.Error())
	case errors.Is(err, services.ErrIdentityMismatch):
		apierrors.Unauthorized(c, apierrors.ErrCodeInvalidCredentials, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
