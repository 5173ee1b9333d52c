package dto

import (
	"time"

	"github.com/glmzsby/branch-points-api/internal/models"
)

// PointsApplicationDTO is one claim in a member's history or the review queue.
type PointsApplicationDTO struct {
	ID          uint64              `json:"id"`
	UserName    string              `json:"user_name,omitempty"`
	Category    string              `json:"category"`
	Subcategory string              `json:"subcategory"`
	Summary     string              `json:"summary"`
	Points      int                 `json:"points"`
	Status      models.RecordStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ApprovedPointsDTO is one row of the public approved-records feed.
type ApprovedPointsDTO struct {
	UserName    string     `json:"user_name"`
	Category    string     `json:"category"`
	Subcategory string     `json:"subcategory"`
	Summary     string     `json:"summary"`
	Points      int        `json:"points"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
}

// ToPointsApplicationDTO converts a record; includeUser adds the owner's name
// (preloaded in reviewer views).
func ToPointsApplicationDTO(record models.PointsRecord, includeUser bool) PointsApplicationDTO {
	d := PointsApplicationDTO{
		ID:          record.ID,
		Category:    record.Category,
		Subcategory: record.Subcategory,
		Summary:     record.Summary,
		Points:      record.Points,
		Status:      record.Status,
		CreatedAt:   record.CreatedAt,
	}
	if includeUser {
		d.UserName = record.User.Name
	}
	return d
}

// ToApprovedPointsDTO converts an approved record for the public feed.
func ToApprovedPointsDTO(record models.PointsRecord) ApprovedPointsDTO {
	return ApprovedPointsDTO{
		UserName:    record.User.Name,
		Category:    record.Category,
		Subcategory: record.Subcategory,
		Summary:     record.Summary,
		Points:      record.Points,
		ReviewedAt:  record.ReviewedAt,
	}
}
