package repository

import (
	"errors"
	"fmt"

	"github.com/glmzsby/branch-points-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrUserReferenced is returned when deleting a user who is still main or
	// secondary responsible on an activity.
	ErrUserReferenced = errors.New("user repository: user is still responsible for activities")
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindBranchMemberByRole finds a branch member holding the given role
func (r *GormUserRepository) FindBranchMemberByRole(role string, excludeID uint64) (*models.User, error) {
	var user models.User
	query := r.db.Where("type = ? AND role = ?", models.MembershipBranch, role)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByPointsDesc lists all users ordered by balance, highest first
func (r *GormUserRepository) ListByPointsDesc() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("points DESC, id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update persists changes to a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete removes a user and their dependent rows. Activities still naming the
// user as an organizer block the deletion.
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var refs int64
		err := tx.Model(&models.Activity{}).
			Where("main_responsible_id = ?", id).
			Count(&refs).Error
		if err != nil {
			return fmt.Errorf("failed to count activity references: %w", err)
		}
		if refs == 0 {
			err = tx.Model(&models.ActivitySubResponsible{}).
				Where("user_id = ?", id).
				Count(&refs).Error
			if err != nil {
				return fmt.Errorf("failed to count sub-responsible references: %w", err)
			}
		}
		if refs > 0 {
			return ErrUserReferenced
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.ActivityParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.PointsRecord{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}

// CountByIDs counts how many of the given user IDs exist
func (r *GormUserRepository) CountByIDs(ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&models.User{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}
