package repository

import (
	"errors"
	"time"

	"github.com/glmzsby/branch-points-api/internal/database"
	"github.com/glmzsby/branch-points-api/internal/models"
	"github.com/glmzsby/branch-points-api/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrNotPending is returned when a review targets a record or activity
	// that already left the pending state.
	ErrNotPending = errors.New("repository: not in pending state")
)

// GormPointsRepository is a GORM implementation of PointsRepository
type GormPointsRepository struct {
	db *gorm.DB
}

// NewPointsRepository creates a new PointsRepository
func NewPointsRepository(db *gorm.DB) PointsRepository {
	return &GormPointsRepository{db: db}
}

// Create creates a new points record
func (r *GormPointsRepository) Create(record *models.PointsRecord) error {
	return r.db.Create(record).Error
}

// FindByID finds a record by ID
func (r *GormPointsRepository) FindByID(id uint64) (*models.PointsRecord, error) {
	var record models.PointsRecord
	if err := r.db.First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ListPending lists pending records with their owners, newest first
func (r *GormPointsRepository) ListPending() ([]models.PointsRecord, error) {
	var records []models.PointsRecord
	err := r.db.Where("status = ?", models.RecordStatusPending).
		Preload("User").
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListByUser lists one user's records, newest first
func (r *GormPointsRepository) ListByUser(userID uint64) ([]models.PointsRecord, error) {
	var records []models.PointsRecord
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListApproved lists a page of approved records with their owners, most
// recently reviewed first
func (r *GormPointsRepository) ListApproved(params utils.PaginationParams) ([]models.PointsRecord, int64, error) {
	query := r.db.Where("status = ?", models.RecordStatusApproved)

	var total int64
	if err := query.Model(&models.PointsRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.PointsRecord
	err := query.
		Preload("User").
		Order("reviewed_at DESC").
		Scopes(database.Paginate(params)).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Review transitions a pending record and credits the owner on approval. The
// status is re-checked by the guarded UPDATE, so two concurrent reviews cannot
// both succeed and the balance is credited at most once.
func (r *GormPointsRepository) Review(recordID, reviewerID uint64, approved bool, now time.Time) (*models.PointsRecord, error) {
	status := models.RecordStatusRejected
	if approved {
		status = models.RecordStatusApproved
	}

	var record models.PointsRecord
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&record, recordID).Error; err != nil {
			return err
		}

		res := tx.Model(&models.PointsRecord{}).
			Where("id = ? AND status = ?", recordID, models.RecordStatusPending).
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
			err := tx.Model(&models.User{}).
				Where("id = ?", record.UserID).
				UpdateColumn("points", gorm.Expr("points + ?", record.Points)).Error
			if err != nil {
				return err
			}
		}

		return tx.First(&record, recordID).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// SumApprovedSince sums approved record points per user within the window
func (r *GormPointsRepository) SumApprovedSince(since time.Time) (map[uint64]int, error) {
	type row struct {
		UserID uint64
		Total  int
	}
	var rows []row
	err := r.db.Model(&models.PointsRecord{}).
		Select("user_id, SUM(points) AS total").
		Where("status = ? AND created_at >= ?", models.RecordStatusApproved, since).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[uint64]int, len(rows))
	for _, r := range rows {
		sums[r.UserID] = r.Total
	}
	return sums, nil
}
