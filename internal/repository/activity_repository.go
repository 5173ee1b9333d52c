package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/glmzsby/branch-points-api/internal/constants"
	"github.com/glmzsby/branch-points-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrNotSignupPhase is returned when joining an activity that is not
	// accepting signups.
	ErrNotSignupPhase = errors.New("activity repository: activity is not in the signup phase")

	// ErrAlreadyParticipant is returned when joining an activity twice.
	ErrAlreadyParticipant = errors.New("activity repository: user already joined")
)

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

// CreateWithSubResponsibles creates an activity and its secondary responsible rows atomically
func (r *GormActivityRepository) CreateWithSubResponsibles(activity *models.Activity, subIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(activity).Error; err != nil {
			return err
		}

		for _, userID := range subIDs {
			sub := models.ActivitySubResponsible{
				ActivityID: activity.ID,
				UserID:     userID,
			}
			if err := tx.Create(&sub).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// FindByID finds an activity by ID with optional preloading
func (r *GormActivityRepository) FindByID(id uint64, preload ...string) (*models.Activity, error) {
	var activity models.Activity
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&activity, id).Error; err != nil {
		return nil, err
	}

	return &activity, nil
}

// ListAll lists activities with all relations, newest first
func (r *GormActivityRepository) ListAll() ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.
		Preload("Applicant").
		Preload("MainResponsible").
		Preload("SubResponsibles.User").
		Preload("Participants.User").
		Order("created_at DESC").
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

// ListPending lists pending activities with applicants, newest first
func (r *GormActivityRepository) ListPending() ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.Where("status = ?", models.ActivityStatusPending).
		Preload("Applicant").
		Order("created_at DESC").
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

// Review transitions a pending activity and applies the time-based
// escalations. The pending check rides on the guarded UPDATE, so a concurrent
// duplicate review loses the race and reports ErrNotPending.
func (r *GormActivityRepository) Review(activityID, reviewerID uint64, approved bool, now time.Time) (*models.Activity, error) {
	status := models.ActivityStatusRejected
	if approved {
		status = models.ActivityStatusApproved
	}

	var activity models.Activity
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&activity, activityID).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Activity{}).
			Where("id = ? AND status = ?", activityID, models.ActivityStatusPending).
			Updates(map[string]interface{}{
				"status":      status,
				"reviewer_id": reviewerID,
				"reviewed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotPending
		}

		if approved {
			if !activity.StartTime.After(now) {
				if err := advanceStatus(tx, activityID, models.ActivityStatusOngoing, models.ActivityStatusApproved); err != nil {
					return err
				}
			}
			if !activity.EndTime.After(now) {
				if err := completeAndSettle(tx, &activity); err != nil {
					return err
				}
			}
		}

		return tx.First(&activity, activityID).Error
	})
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// SweepStatuses advances approved and ongoing activities past their start and
// end times. Settlement happens on the completed edge only, so an activity
// already completed by a review call is never settled again.
func (r *GormActivityRepository) SweepStatuses(now time.Time) (int, error) {
	var due []models.Activity
	err := r.db.
		Where("status IN ? AND start_time <= ?",
			[]models.ActivityStatus{models.ActivityStatusApproved, models.ActivityStatusOngoing}, now).
		Find(&due).Error
	if err != nil {
		return 0, err
	}

	advanced := 0
	for i := range due {
		activity := due[i]
		if activity.Status == models.ActivityStatusOngoing && activity.EndTime.After(now) {
			continue
		}
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if activity.EndTime.After(now) {
				// Started but not finished: approved -> ongoing.
				return advanceStatus(tx, activity.ID, models.ActivityStatusOngoing, models.ActivityStatusApproved)
			}
			return completeAndSettle(tx, &activity)
		})
		if err != nil {
			return advanced, fmt.Errorf("failed to sweep activity %d: %w", activity.ID, err)
		}
		advanced++
	}

	return advanced, nil
}

// AddParticipant signs a user up for an activity
func (r *GormActivityRepository) AddParticipant(activityID, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var activity models.Activity
		if err := tx.First(&activity, activityID).Error; err != nil {
			return err
		}
		if activity.Status != models.ActivityStatusApproved {
			return ErrNotSignupPhase
		}

		var existing models.ActivityParticipant
		err := tx.Where("activity_id = ? AND user_id = ?", activityID, userID).
			First(&existing).Error
		if err == nil {
			return ErrAlreadyParticipant
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// The composite primary key backstops the membership re-check under
		// concurrent joins.
		participant := models.ActivityParticipant{
			ActivityID: activityID,
			UserID:     userID,
		}
		return tx.Create(&participant).Error
	})
}

// advanceStatus moves an activity along one status edge, guarded by the
// current status so the transition fires at most once.
func advanceStatus(tx *gorm.DB, activityID uint64, to models.ActivityStatus, from ...models.ActivityStatus) error {
	return tx.Model(&models.Activity{}).
		Where("id = ? AND status IN ?", activityID, from).
		Update("status", to).Error
}

// completeAndSettle moves an activity to completed and credits the organizers.
// The guarded UPDATE makes the settlement fire exactly once: whichever caller
// wins the completed edge performs the credits, everyone after is a no-op.
func completeAndSettle(tx *gorm.DB, activity *models.Activity) error {
	res := tx.Model(&models.Activity{}).
		Where("id = ? AND status IN ?", activity.ID,
			[]models.ActivityStatus{models.ActivityStatusApproved, models.ActivityStatusOngoing}).
		Update("status", models.ActivityStatusCompleted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}

	if err := settleUser(tx, activity.MainResponsibleID, constants.MainResponsiblePoints,
		models.SubcategoryMainOrganizer, activity.Title); err != nil {
		return err
	}

	var subs []models.ActivitySubResponsible
	if err := tx.Where("activity_id = ?", activity.ID).Find(&subs).Error; err != nil {
		return err
	}
	for _, sub := range subs {
		if err := settleUser(tx, sub.UserID, constants.SubResponsiblePoints,
			models.SubcategorySubOrganizer, activity.Title); err != nil {
			return err
		}
	}

	return nil
}

// settleUser credits one organizer and writes the matching approved record.
func settleUser(tx *gorm.DB, userID uint64, points int, subcategory, title string) error {
	err := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", points)).Error
	if err != nil {
		return err
	}

	record := models.PointsRecord{
		UserID:      userID,
		Points:      points,
		Category:    models.CategoryActivity,
		Subcategory: subcategory,
		Summary:     title,
		Status:      models.RecordStatusApproved,
	}
	return tx.Create(&record).Error
}
