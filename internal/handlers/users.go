package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/glmzsby/branch-points-api/internal/dto"
	apierrors "github.com/glmzsby/branch-points-api/internal/errors"
	"github.com/glmzsby/branch-points-api/internal/models"
	"github.com/glmzsby/branch-points-api/internal/services"
)

// UserHandler coordinates the member directory and admin user management.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns all members with competition ranks. Available to every
// authenticated member (the directory doubles as the leaderboard).
func (h *UserHandler) ListUsers(c *gin.Context) {
	ranked, err := h.userService.ListRanked()
	if err != nil {
		apierrors.InternalError(c, "Failed to list users")
		return
	}

	users := make([]dto.RankedUserDTO, len(ranked))
	for i, r := range ranked {
		users[i] = dto.RankedUserDTO{
			UserDTO: dto.ToUserDTO(r.User),
			Rank:    r.Rank,
		}
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CreateUser creates a member (branch secretary only).
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Username string `json:"username" binding:"required,min=3,max=50"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name" binding:"required"`
		Type     string `json:"type" binding:"required,oneof=normal branch"`
		Role     string `json:"role" binding:"required"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "", "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(services.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Type:     models.MembershipType(req.Type),
		Role:     req.Role,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// GetUser returns one member (branch secretary only).
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserDTO(*user)})
}

// UpdateUser applies an admin edit (branch secretary only).
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		Username *string `json:"username"`
		Password *string `json:"password"`
		Name     *string `json:"name"`
		Type     *string `json:"type"`
		Role     *string `json:"role"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "", "Invalid request body")
		return
	}

	input := services.UpdateUserInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	}
	if req.Type != nil {
		mtype := models.MembershipType(*req.Type)
		input.Type = &mtype
	}

	user, err := h.userService.UpdateUser(userID, input)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser removes a member (branch secretary only).
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(userID); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "", "Invalid user ID")
		return 0, false
	}
	return id, true
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, apierrors.ErrCodeDuplicateUsername, err.Error())
	case errors.Is(err, services.ErrReservedRoleTaken):
		apierrors.Conflict(c, apierrors.ErrCodeDuplicateReservedRole, err.Error())
	case errors.Is(err, services.ErrUserStillResponsible):
		apierrors.Conflict(c, "", err.Error())
	case errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrUsernameRequired),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrInvalidMembership):
		apierrors.BadRequest(c, "", err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
