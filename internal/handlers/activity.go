package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glmzsby/branch-points-api/internal/dto"
	apierrors "github.com/glmzsby/branch-points-api/internal/errors"
	"github.com/glmzsby/branch-points-api/internal/middleware"
	"github.com/glmzsby/branch-points-api/internal/services"
)

// timeLayout matches the client's "2006-01-02 15:04:05" format.
const timeLayout = "2006-01-02 15:04:05"

// ActivityHandler coordinates the activity workflow HTTP handlers.
type ActivityHandler struct {
	activityService *services.ActivityService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// Apply proposes a new activity.
func (h *ActivityHandler) Apply(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, apierrors.ErrCodeTokenMissing, "Not authenticated")
		return
	}

	type ApplyRequest struct {
		Title           string   `json:"title" binding:"required"`
		Description     string   `json:"description" binding:"required"`
		StartTime       string   `json:"start_time" binding:"required"`
		EndTime         string   `json:"end_time" binding:"required"`
		Location        string   `json:"location" binding:"required"`
		MainResponsible uint64   `json:"main_responsible" binding:"required"`
		SubResponsibles []uint64 `json:"sub_responsibles"`
	}

	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "", "Invalid request body")
		return
	}

	startTime, err := time.ParseInLocation(timeLayout, req.StartTime, time.Local)
	if err != nil {
		apierrors.BadRequest(c, apierrors.ErrCodeInvalidTimeRange, "Invalid start_time format")
		return
	}
	endTime, err := time.ParseInLocation(timeLayout, req.EndTime, time.Local)
	if err != nil {
		apierrors.BadRequest(c, apierrors.ErrCodeInvalidTimeRange, "Invalid end_time format")
		return
	}

	activity, err := h.activityService.Propose(services.ProposeInput{
		ApplicantID:       userID,
		Title:             req.Title,
		Description:       req.Description,
		StartTime:         startTime,
		EndTime:           endTime,
		Location:          req.Location,
		MainResponsibleID: req.MainResponsible,
		SubResponsibleIDs: req.SubResponsibles,
	})
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Activity proposal submitted",
		"activity_id": activity.ID,
	})
}

// List returns the activities visible to the caller.
func (h *ActivityHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, apierrors.ErrCodeTokenMissing, "Not authenticated")
		return
	}

	activities, err := h.activityService.ListVisible(userID)
	if err != nil {
		respondActivityError(c, err)
		return
	}

	list := make([]dto.ActivityDTO, len(activities))
	for i, activity := range activities {
		list[i] = dto.ToActivityDTO(activity, userID)
	}

	c.JSON(http.StatusOK, gin.H{"activities": list})
}

// ReviewList returns the pending activity queue (branch members only).
func (h *ActivityHandler) ReviewList(c *gin.Context) {
	reviewer := currentUser(c)
	if reviewer == nil {
		return
	}

	activities, err := h.activityService.ListPending(reviewer)
	if err != nil {
		respondActivityError(c, err)
		return
	}

	list := make([]dto.PendingActivityDTO, len(activities))
	for i, activity := range activities {
		list[i] = dto.ToPendingActivityDTO(activity)
	}

	c.JSON(http.StatusOK, gin.H{"activities": list})
}

// Review approves or rejects a pending activity (branch members only).
func (h *ActivityHandler) Review(c *gin.Context) {
	reviewer := currentUser(c)
	if reviewer == nil {
		return
	}

	type ReviewRequest struct {
		ActivityID uint64 `json:"activity_id" binding:"required"`
		Approved   *bool  `json:"approved" binding:"required"`
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "", "Invalid request body")
		return
	}

	activity, err := h.activityService.Review(reviewer, req.ActivityID, *req.Approved)
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review completed",
		"status":  activity.Status,
	})
}

// Join signs the caller up for an activity.
func (h *ActivityHandler) Join(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, apierrors.ErrCodeTokenMissing, "Not authenticated")
		return
	}

	type JoinRequest struct {
		ActivityID uint64 `json:"activity_id" binding:"required"`
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "", "Invalid request body")
		return
	}

	if err := h.activityService.Join(userID, req.ActivityID); err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Joined successfully"})
}

// Sweep advances time-due activity statuses and settles completed ones
// (branch secretary only).
func (h *ActivityHandler) Sweep(c *gin.Context) {
	advanced, err := h.activityService.Sweep()
	if err != nil {
		apierrors.InternalError(c, "Failed to sweep activities")
		return
	}

	c.JSON(http.StatusOK, gin.H{"advanced": advanced})
}

func respondActivityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrActivityNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrMissingFields):
		apierrors.BadRequest(c, "", err.Error())
	case errors.Is(err, services.ErrInvalidTimeRange):
		apierrors.BadRequest(c, apierrors.ErrCodeInvalidTimeRange, err.Error())
	case errors.Is(err, services.ErrUnknownResponsible):
		apierrors.BadRequest(c, apierrors.ErrCodeUnknownUser, err.Error())
	case errors.Is(err, services.ErrAlreadyReviewed):
		apierrors.BadRequest(c, apierrors.ErrCodeAlreadyReviewed, err.Error())
	case errors.Is(err, services.ErrNotInSignupPhase):
		apierrors.BadRequest(c, apierrors.ErrCodeNotInSignupPhase, err.Error())
	case errors.Is(err, services.ErrAlreadyJoined):
		apierrors.BadRequest(c, apierrors.ErrCodeAlreadyJoined, err.Error())
	case errors.Is(err, services.ErrNotBranchMember):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
