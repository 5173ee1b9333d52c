package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/glmzsby/branch-points-api/internal/database"
	apierrors "github.com/glmzsby/branch-points-api/internal/errors"
	"github.com/glmzsby/branch-points-api/internal/models"
)

// RequireBranchMember restricts a route to users with the review capability.
func RequireBranchMember() gin.HandlerFunc {
	return requireCapability(func(u *models.User) bool { return u.IsBranchMember() })
}

// RequireAdmin restricts a route to the branch secretary.
func RequireAdmin() gin.HandlerFunc {
	return requireCapability(func(u *models.User) bool { return u.IsAdmin() })
}

func requireCapability(allowed func(*models.User) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, apierrors.ErrCodeTokenMissing, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c, apierrors.ErrCodeTokenInvalid, "Unknown user")
			c.Abort()
			return
		}

		if !allowed(&user) {
			apierrors.Forbidden(c, "Insufficient permissions")
			c.Abort()
			return
		}

		c.Set("current_user", user)
		c.Next()
	}
}
