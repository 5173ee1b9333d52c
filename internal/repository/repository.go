package repository

import (
	"time"

	"github.com/glmzsby/branch-points-api/internal/models"
	"github.com/glmzsby/branch-points-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindBranchMemberByRole finds a branch member holding the given role,
	// ignoring excludeID (0 excludes nobody)
	FindBranchMemberByRole(role string, excludeID uint64) (*models.User, error)

	// ListByPointsDesc lists all users ordered by balance, highest first
	ListByPointsDesc() ([]models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// Delete removes a user together with their participant rows and points
	// records. It fails with ErrUserReferenced while the user is main or
	// secondary responsible on any activity.
	Delete(id uint64) error

	// CountByIDs counts how many of the given user IDs exist
	CountByIDs(ids []uint64) (int64, error)
}

// PointsRepository defines the interface for points-record data access
type PointsRepository interface {
	// Create creates a new points record
	Create(record *models.PointsRecord) error

	// FindByID finds a record by ID
	FindByID(id uint64) (*models.PointsRecord, error)

	// ListPending lists pending records with their owners, newest first
	ListPending() ([]models.PointsRecord, error)

	// ListByUser lists one user's records, newest first
	ListByUser(userID uint64) ([]models.PointsRecord, error)

	// ListApproved lists a page of approved records with their owners, most
	// recently reviewed first, together with the total approved count
	ListApproved(params utils.PaginationParams) ([]models.PointsRecord, int64, error)

	// Review transitions a pending record and, on approval, credits the
	// owner's balance in the same transaction. Returns ErrNotPending when the
	// record was already reviewed (re-checked atomically).
	Review(recordID, reviewerID uint64, approved bool, now time.Time) (*models.PointsRecord, error)

	// SumApprovedSince sums approved record points per user, counting records
	// created at or after the given instant
	SumApprovedSince(since time.Time) (map[uint64]int, error)
}

// ActivityRepository defines the interface for activity data access
type ActivityRepository interface {
	// CreateWithSubResponsibles creates an activity and its secondary
	// responsible rows in one transaction
	CreateWithSubResponsibles(activity *models.Activity, subIDs []uint64) error

	// FindByID finds an activity by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Activity, error)

	// ListAll lists activities with all relations, newest first
	ListAll() ([]models.Activity, error)

	// ListPending lists pending activities with applicants, newest first
	ListPending() ([]models.Activity, error)

	// Review transitions a pending activity. On approval it escalates to
	// ongoing/completed when the start/end time has already passed, settling
	// points on completion; everything in one transaction. Returns
	// ErrNotPending when the activity was already reviewed.
	Review(activityID, reviewerID uint64, approved bool, now time.Time) (*models.Activity, error)

	// SweepStatuses advances approved and ongoing activities past their
	// start/end times, settling on completion. Each activity is processed in
	// its own transaction. Returns the number of activities that changed.
	SweepStatuses(now time.Time) (int, error)

	// AddParticipant signs a user up, re-checking signup phase and duplicate
	// membership inside the transaction. Returns ErrNotSignupPhase or
	// ErrAlreadyParticipant.
	AddParticipant(activityID, userID uint64) error
}
