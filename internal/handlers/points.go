package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/glmzsby/branch-points-api/internal/dto"
	apierrors "github.com/glmzsby/branch-points-api/internal/errors"
	"github.com/glmzsby/branch-points-api/internal/middleware"
	"github.com/glmzsby/branch-points-api/internal/models"
	"github.com/glmzsby/branch-points-api/internal/services"
	"github.com/glmzsby/branch-points-api/internal/utils"
)

// PointsHandler coordinates the contribution-claim HTTP handlers.
type PointsHandler struct {
	pointsService *services.PointsService
}

// NewPointsHandler creates a new PointsHandler.
func NewPointsHandler(pointsService *services.PointsService) *PointsHandler {
	return &PointsHandler{
		pointsService: pointsService,
	}
}

// Apply submits a contribution claim with its evidence attachment. The form
// carries category, subcategory, summary, optional hours and a "file" part.
func (h *PointsHandler) Apply(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, apierrors.ErrCodeTokenMissing, "Not authenticated")
		return
	}

	category := c.PostForm("category")
	subcategory := c.PostForm("subcategory")
	summary := c.PostForm("summary")
	hours, _ := strconv.Atoi(c.PostForm("hours"))

	input := services.SubmitInput{
		UserID:      userID,
		Category:    category,
		Subcategory: subcategory,
		Summary:     summary,
		Hours:       hours,
	}

	fileHeader, err := c.FormFile("file")
	if err == nil {
		file, openErr := fileHeader.Open()
		if openErr != nil {
			apierrors.InternalError(c, "Failed to read evidence upload")
			return
		}
		defer file.Close()
		input.Evidence = file
		input.EvidenceName = fileHeader.Filename
		input.EvidenceSize = fileHeader.Size
	}

	record, err := h.pointsService.Submit(c.Request.Context(), input)
	if err != nil {
		respondPointsError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"application": dto.ToPointsApplicationDTO(*record, false),
	})
}

// ReviewList returns the pending claims queue (branch members only).
func (h *PointsHandler) ReviewList(c *gin.Context) {
	reviewer := currentUser(c)
	if reviewer == nil {
		return
	}

	records, err := h.pointsService.ListPending(reviewer)
	if err != nil {
		respondPointsError(c, err)
		return
	}

	applications := make([]dto.PointsApplicationDTO, 0, len(records))
	for i := range records {
		if !services.RecoverLegacyReason(&records[i]) {
			continue
		}
		applications = append(applications, dto.ToPointsApplicationDTO(records[i], true))
	}

	c.JSON(http.StatusOK, gin.H{"applications": applications})
}

// Review approves or rejects a pending claim (branch members only).
func (h *PointsHandler) Review(c *gin.Context) {
	reviewer := currentUser(c)
	if reviewer == nil {
		return
	}

	type ReviewRequest struct {
		ApplicationID uint64 `json:"application_id" binding:"required"`
		Approved      *bool  `json:"approved" binding:"required"`
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "", "Invalid request body")
		return
	}

	record, err := h.pointsService.Review(reviewer, req.ApplicationID, *req.Approved)
	if err != nil {
		respondPointsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": record.Status})
}

// Personal returns the caller's claim history.
func (h *PointsHandler) Personal(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, apierrors.ErrCodeTokenMissing, "Not authenticated")
		return
	}

	records, err := h.pointsService.ListPersonal(userID)
	if err != nil {
		respondPointsError(c, err)
		return
	}

	applications := make([]dto.PointsApplicationDTO, 0, len(records))
	for i := range records {
		if !services.RecoverLegacyReason(&records[i]) {
			continue
		}
		applications = append(applications, dto.ToPointsApplicationDTO(records[i], false))
	}

	c.JSON(http.StatusOK, gin.H{"applications": applications})
}

// Approved returns the public feed of approved records, paginated.
func (h *PointsHandler) Approved(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	records, total, err := h.pointsService.ListApproved(params)
	if err != nil {
		respondPointsError(c, err)
		return
	}

	points := make([]dto.ApprovedPointsDTO, 0, len(records))
	for i := range records {
		if !services.RecoverLegacyReason(&records[i]) {
			continue
		}
		points = append(points, dto.ToApprovedPointsDTO(records[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"points": points,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// currentUser returns the user loaded by the capability middleware, writing
// the error response itself when absent.
func currentUser(c *gin.Context) *models.User {
	v, exists := c.Get("current_user")
	if !exists {
		apierrors.Forbidden(c, "")
		return nil
	}
	user, ok := v.(models.User)
	if !ok {
		apierrors.InternalError(c, "Invalid user data in context")
		return nil
	}
	return &user
}

func respondPointsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCategory):
		apierrors.BadRequest(c, apierrors.ErrCodeInvalidCategory, err.Error())
	case errors.Is(err, services.ErrMissingEvidence):
		apierrors.BadRequest(c, apierrors.ErrCodeMissingEvidence, err.Error())
	case errors.Is(err, services.ErrRecordNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAlreadyReviewed):
		apierrors.BadRequest(c, apierrors.ErrCodeAlreadyReviewed, err.Error())
	case errors.Is(err, services.ErrNotBranchMember):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
