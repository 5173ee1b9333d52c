package dto

import (
	"github.com/glmzsby/branch-points-api/internal/models"
)

// UserDTO represents a user in API responses. The password hash never leaves
// the server.
type UserDTO struct {
	ID       uint64                `json:"id"`
	Username string                `json:"username"`
	Name     string                `json:"name"`
	Type     models.MembershipType `json:"type"`
	Role     string                `json:"role"`
	Points   int                   `json:"points"`
}

// RankedUserDTO adds the competition rank to a user row.
type RankedUserDTO struct {
	UserDTO
	Rank int `json:"rank"`
}

// UserInfoDTO is the self view with rank context.
type UserInfoDTO struct {
	UserDTO
	Rank       int `json:"rank"`
	TotalUsers int `json:"total_users"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		Type:     user.Type,
		Role:     user.Role,
		Points:   user.Points,
	}
}
