package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/glmzsby/branch-points-api/internal/constants"
	apierrors "github.com/glmzsby/branch-points-api/internal/errors"
	"github.com/glmzsby/branch-points-api/internal/utils"
)

// RequireAuth authenticates the bearer token and stores the user identity in
// the request context. Missing, invalid/revoked and expired tokens are
// reported as three distinct codes.
func RequireAuth(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			apierrors.Unauthorized(c, apierrors.ErrCodeTokenMissing, "Missing bearer token")
			c.Abort()
			return
		}

		if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
			apierrors.Unauthorized(c, apierrors.ErrCodeTokenInvalid, "Malformed Authorization header")
			c.Abort()
			return
		}

		claims, err := tokens.Validate(c.Request.Context(), strings.TrimSpace(header[7:]))
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				apierrors.Unauthorized(c, apierrors.ErrCodeTokenExpired, "Token expired, please log in again")
			} else {
				apierrors.Unauthorized(c, apierrors.ErrCodeTokenInvalid, "Invalid token")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyClaims, claims)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetClaims retrieves the parsed token claims from context
func GetClaims(c *gin.Context) (*utils.Claims, bool) {
	v, exists := c.Get(constants.ContextKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}
