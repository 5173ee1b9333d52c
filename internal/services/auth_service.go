package services

import (
	"errors"
	"fmt"

	"github.com/glmzsby/branch-points-api/internal/models"
	"github.com/glmzsby/branch-points-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrIdentityMismatch   = errors.New("identity type does not match the account")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// LoginInput holds the credentials for authentication. Type is the identity
// the client claims to log in as and must match the stored membership type.
type LoginInput struct {
	Username string
	Password string
	Type     models.MembershipType
}

// Login verifies credentials and the declared identity type.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.verifyCredentials(input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	if input.Type != "" && input.Type != user.Type {
		return nil, ErrIdentityMismatch
	}

	return user, nil
}

// AdminLogin verifies credentials and requires the branch-secretary role.
func (s *AuthService) AdminLogin(username, password string) (*models.User, error) {
	user, err := s.verifyCredentials(username, password)
	if err != nil {
		return nil, err
	}

	if !user.IsAdmin() {
		// Do not reveal that the account exists but lacks the role.
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (s *AuthService) verifyCredentials(username, password string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
