package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/glmzsby/branch-points-api/internal/constants"
	"github.com/glmzsby/branch-points-api/internal/models"
	"github.com/glmzsby/branch-points-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrReservedRoleTaken    = errors.New("committee role is already held by another branch member")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUsernameRequired     = errors.New("username is required")
	ErrNameRequired         = errors.New("name is required")
	ErrInvalidMembership    = errors.New("membership type must be normal or branch")
	ErrUserStillResponsible = errors.New("user is still responsible for activities")
)

// UserService handles user administration and member-facing reads.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// CreateUserInput represents the admin form for a new member.
type CreateUserInput struct {
	Username string
	Password string
	Name     string
	Type     models.MembershipType
	Role     string
}

// CreateUser creates a new member with the base balance.
func (s *UserService) CreateUser(input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if input.Type != models.MembershipNormal && input.Type != models.MembershipBranch {
		return nil, ErrInvalidMembership
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if err := s.checkReservedRole(input.Type, input.Role, 0); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Name:         input.Name,
		Type:         input.Type,
		Role:         input.Role,
		Points:       constants.DefaultUserPoints,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateUserInput carries partial updates; nil fields stay untouched.
type UpdateUserInput struct {
	Username *string
	Password *string
	Name     *string
	Type     *models.MembershipType
	Role     *string
}

// UpdateUser applies an admin edit with the same uniqueness checks as creation.
func (s *UserService) UpdateUser(userID uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Username != nil && *input.Username != user.Username {
		if _, err := s.userRepo.FindByUsername(*input.Username); err == nil {
			return nil, ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		user.Username = *input.Username
	}

	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	if input.Name != nil {
		user.Name = *input.Name
	}

	if input.Type != nil {
		if *input.Type != models.MembershipNormal && *input.Type != models.MembershipBranch {
			return nil, ErrInvalidMembership
		}
		user.Type = *input.Type
	}

	if input.Role != nil {
		if err := s.checkReservedRole(user.Type, *input.Role, userID); err != nil {
			return nil, err
		}
		user.Role = *input.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes a member unless an activity still names them as organizer.
func (s *UserService) DeleteUser(userID uint64) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(userID); err != nil {
		if errors.Is(err, repository.ErrUserReferenced) {
			return ErrUserStillResponsible
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// RankedUser pairs a user with their competition rank.
type RankedUser struct {
	User models.User
	Rank int
}

// ListRanked returns all users ordered by balance with competition ranks:
// equal balances share a rank, the next distinct balance takes its 1-based
// position.
func (s *UserService) ListRanked() ([]RankedUser, error) {
	users, err := s.userRepo.ListByPointsDesc()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	ranked := make([]RankedUser, len(users))
	currentRank := 0
	var currentPoints int
	for i, user := range users {
		if i == 0 || user.Points != currentPoints {
			currentRank = i + 1
			currentPoints = user.Points
		}
		ranked[i] = RankedUser{User: user, Rank: currentRank}
	}

	return ranked, nil
}

// RankOf returns one user's competition rank and the total user count.
func (s *UserService) RankOf(userID uint64) (rank, total int, err error) {
	ranked, err := s.ListRanked()
	if err != nil {
		return 0, 0, err
	}

	for _, r := range ranked {
		if r.User.ID == userID {
			return r.Rank, len(ranked), nil
		}
	}

	return 0, len(ranked), ErrUserNotFound
}

func (s *UserService) checkReservedRole(mtype models.MembershipType, role string, excludeID uint64) error {
	if mtype != models.MembershipBranch || !models.IsReservedRole(role) {
		return nil
	}

	if _, err := s.userRepo.FindBranchMemberByRole(role, excludeID); err == nil {
		return ErrReservedRoleTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check committee role: %w", err)
	}

	return nil
}
