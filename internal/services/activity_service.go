package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glmzsby/branch-points-api/internal/constants"
	"github.com/glmzsby/branch-points-api/internal/models"
	"github.com/glmzsby/branch-points-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrActivityNotFound   = errors.New("activity not found")
	ErrMissingFields      = errors.New("all activity fields are required")
	ErrInvalidTimeRange   = errors.New("invalid activity time range")
	ErrUnknownResponsible = errors.New("responsible user does not exist")
	ErrNotInSignupPhase   = errors.New("activity is not in the signup phase")
	ErrAlreadyJoined      = errors.New("already joined this activity")
)

// ActivityService handles the activity workflow.
type ActivityService struct {
	activityRepo repository.ActivityRepository
	userRepo     repository.UserRepository
}

// NewActivityService creates a new ActivityService.
func NewActivityService(activityRepo repository.ActivityRepository, userRepo repository.UserRepository) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		userRepo:     userRepo,
	}
}

// ProposeInput represents an activity proposal.
type ProposeInput struct {
	ApplicantID       uint64
	Title             string
	Description       string
	StartTime         time.Time
	EndTime           time.Time
	Location          string
	MainResponsibleID uint64
	SubResponsibleIDs []uint64
}

// Propose validates and creates a pending activity.
func (s *ActivityService) Propose(input ProposeInput) (*models.Activity, error) {
	if strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		strings.TrimSpace(input.Location) == "" ||
		input.MainResponsibleID == 0 {
		return nil, ErrMissingFields
	}

	if !input.StartTime.Before(input.EndTime) {
		return nil, ErrInvalidTimeRange
	}
	if input.StartTime.Before(time.Now()) {
		return nil, ErrInvalidTimeRange
	}

	ids := append([]uint64{input.MainResponsibleID}, input.SubResponsibleIDs...)
	unique := uniqueUint64(ids)
	count, err := s.userRepo.CountByIDs(unique)
	if err != nil {
		return nil, fmt.Errorf("failed to verify responsibles: %w", err)
	}
	if int(count) != len(unique) {
		return nil, ErrUnknownResponsible
	}

	activity := &models.Activity{
		Title:             input.Title,
		Description:       input.Description,
		Points:            constants.ActivityBasePoints,
		StartTime:         input.StartTime,
		EndTime:           input.EndTime,
		Location:          input.Location,
		Status:            models.ActivityStatusPending,
		ApplicantID:       input.ApplicantID,
		MainResponsibleID: input.MainResponsibleID,
	}

	if err := s.activityRepo.CreateWithSubResponsibles(activity, uniqueUint64(input.SubResponsibleIDs)); err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	return activity, nil
}

// Review approves or rejects a pending activity. Approval escalates through
// ongoing/completed when the start/end time already passed, settling organizer
// points on completion, all within one transaction.
func (s *ActivityService) Review(reviewer *models.User, activityID uint64, approved bool) (*models.Activity, error) {
	if !reviewer.IsBranchMember() {
		return nil, ErrNotBranchMember
	}

	activity, err := s.activityRepo.Review(activityID, reviewer.ID, approved, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrActivityNotFound
		case errors.Is(err, repository.ErrNotPending):
			return nil, ErrAlreadyReviewed
		default:
			return nil, fmt.Errorf("failed to review activity: %w", err)
		}
	}

	return activity, nil
}

// Sweep advances approved and ongoing activities whose start or end time has
// passed, settling points on completion. It is safe to call at any time.
func (s *ActivityService) Sweep() (int, error) {
	advanced, err := s.activityRepo.SweepStatuses(time.Now())
	if err != nil {
		return advanced, fmt.Errorf("failed to sweep activity statuses: %w", err)
	}
	return advanced, nil
}

// Join signs the user up for an activity in the signup phase.
func (s *ActivityService) Join(userID, activityID uint64) error {
	err := s.activityRepo.AddParticipant(activityID, userID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrActivityNotFound
		case errors.Is(err, repository.ErrNotSignupPhase):
			return ErrNotInSignupPhase
		case errors.Is(err, repository.ErrAlreadyParticipant):
			return ErrAlreadyJoined
		default:
			return fmt.Errorf("failed to join activity: %w", err)
		}
	}
	return nil
}

// ListPending returns the reviewer queue, newest first.
func (s *ActivityService) ListPending(reviewer *models.User) ([]models.Activity, error) {
	if !reviewer.IsBranchMember() {
		return nil, ErrNotBranchMember
	}

	activities, err := s.activityRepo.ListPending()
	if err != nil {
		return nil, fmt.Errorf("failed to list pending activities: %w", err)
	}
	return activities, nil
}

// ListVisible returns the activities the requesting user may see: their own
// proposals, everything approved or ongoing, and completed activities they
// took part in.
func (s *ActivityService) ListVisible(userID uint64) ([]models.Activity, error) {
	activities, err := s.activityRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	visible := make([]models.Activity, 0, len(activities))
	for _, activity := range activities {
		isApplicant := activity.ApplicantID == userID
		isParticipant := false
		for _, p := range activity.Participants {
			if p.UserID == userID {
				isParticipant = true
				break
			}
		}

		switch {
		case isApplicant:
		case activity.Status == models.ActivityStatusApproved,
			activity.Status == models.ActivityStatusOngoing:
		case activity.Status == models.ActivityStatusCompleted && isParticipant:
		default:
			continue
		}

		visible = append(visible, activity)
	}

	return visible, nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
