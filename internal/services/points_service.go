package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/glmzsby/branch-points-api/internal/models"
	"github.com/glmzsby/branch-points-api/internal/repository"
	"github.com/glmzsby/branch-points-api/internal/rubric"
	"github.com/glmzsby/branch-points-api/internal/storage"
	"github.com/glmzsby/branch-points-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInvalidCategory = errors.New("unknown contribution category")
	ErrMissingEvidence = errors.New("evidence attachment is required")
	ErrRecordNotFound  = errors.New("points record not found")
	ErrAlreadyReviewed = errors.New("already reviewed")
	ErrNotBranchMember = errors.New("reviewer must be a branch member")
)

// PointsService handles the contribution-claim workflow.
type PointsService struct {
	pointsRepo repository.PointsRepository
	userRepo   repository.UserRepository
	evidence   storage.EvidenceStore
}

// NewPointsService creates a new PointsService.
func NewPointsService(pointsRepo repository.PointsRepository, userRepo repository.UserRepository, evidence storage.EvidenceStore) *PointsService {
	return &PointsService{
		pointsRepo: pointsRepo,
		userRepo:   userRepo,
		evidence:   evidence,
	}
}

// SubmitInput represents a contribution claim.
type SubmitInput struct {
	UserID      uint64
	Category    string
	Subcategory string
	Summary     string
	Hours       int

	// Evidence attachment; Evidence nil means nothing was uploaded.
	Evidence     io.Reader
	EvidenceName string
	EvidenceSize int64
}

// Submit computes the claim's points from the rubric, stores the evidence and
// creates a pending record. The balance is untouched until review.
func (s *PointsService) Submit(ctx context.Context, input SubmitInput) (*models.PointsRecord, error) {
	points, ok := rubric.Points(input.Category, input.Subcategory, input.Hours)
	if !ok {
		return nil, ErrInvalidCategory
	}

	if input.Evidence == nil {
		return nil, ErrMissingEvidence
	}

	key, err := s.evidence.Save(ctx, input.EvidenceName, input.Evidence, input.EvidenceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to store evidence: %w", err)
	}

	record := &models.PointsRecord{
		UserID:      input.UserID,
		Points:      points,
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Summary:     input.Summary,
		EvidenceKey: key,
		Status:      models.RecordStatusPending,
	}

	if err := s.pointsRepo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to create points record: %w", err)
	}

	return record, nil
}

// Review approves or rejects a pending claim. Approval credits the owner's
// balance exactly once, atomically with the status change.
func (s *PointsService) Review(reviewer *models.User, recordID uint64, approved bool) (*models.PointsRecord, error) {
	if !reviewer.IsBranchMember() {
		return nil, ErrNotBranchMember
	}

	record, err := s.pointsRepo.Review(recordID, reviewer.ID, approved, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		case errors.Is(err, repository.ErrNotPending):
			return nil, ErrAlreadyReviewed
		default:
			return nil, fmt.Errorf("failed to review record: %w", err)
		}
	}

	return record, nil
}

// ListPending returns the reviewer queue.
func (s *PointsService) ListPending(reviewer *models.User) ([]models.PointsRecord, error) {
	if !reviewer.IsBranchMember() {
		return nil, ErrNotBranchMember
	}

	records, err := s.pointsRepo.ListPending()
	if err != nil {
		return nil, fmt.Errorf("failed to list pending records: %w", err)
	}
	return records, nil
}

// ListPersonal returns one member's claim history.
func (s *PointsService) ListPersonal(userID uint64) ([]models.PointsRecord, error) {
	records, err := s.pointsRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// ListApproved returns one page of the public feed of approved records.
func (s *PointsService) ListApproved(params utils.PaginationParams) ([]models.PointsRecord, int64, error) {
	records, total, err := s.pointsRepo.ListApproved(params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list approved records: %w", err)
	}
	return records, total, nil
}

// RecoverLegacyReason fills the structured fields of a record imported from
// the old system, where category, subcategory and summary were packed into one
// "category-subcategory: summary" string. Returns false for malformed rows;
// the caller is expected to skip (not fail) those.
func RecoverLegacyReason(record *models.PointsRecord) bool {
	if record.Category != "" {
		return true
	}

	category, rest, ok := strings.Cut(record.Reason, "-")
	if !ok {
		log.Printf("skipping points record %d: unparseable legacy reason %q", record.ID, record.Reason)
		return false
	}
	subcategory, summary, ok := strings.Cut(rest, ":")
	if !ok {
		log.Printf("skipping points record %d: unparseable legacy reason %q", record.ID, record.Reason)
		return false
	}

	record.Category = strings.TrimSpace(category)
	record.Subcategory = strings.TrimSpace(subcategory)
	record.Summary = strings.TrimSpace(summary)
	return true
}
