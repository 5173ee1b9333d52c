package utils

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenTTL is how long an issued access token stays valid.
const TokenTTL = 24 * time.Hour

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
)

// Claims carries the authenticated user identity. The token is otherwise
// opaque to the rest of the system.
type Claims struct {
	UserID uint64 `json:"uid"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates bearer tokens. The optional redis client
// backs a jti denylist for logout; with no redis configured, revocation is
// disabled and tokens simply age out.
type TokenManager struct {
	secret []byte
	redis  *redis.Client
}

func NewTokenManager(secret string, rdb *redis.Client) *TokenManager {
	return &TokenManager{secret: []byte(secret), redis: rdb}
}

// Generate issues a signed token for the given user.
func (m *TokenManager) Generate(userID uint64) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses a token string and returns its claims. Expired, malformed
// and revoked tokens map to distinct sentinel errors.
func (m *TokenManager) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if m.redis != nil && claims.ID != "" {
		res, err := m.redis.Get(ctx, denylistKey(claims.ID)).Result()
		if err == nil && res == "1" {
			return nil, ErrTokenRevoked
		}
		// A redis outage must not lock everyone out; skip the check.
	}

	return claims, nil
}

// Revoke denylists the token's jti until its natural expiry.
func (m *TokenManager) Revoke(ctx context.Context, claims *Claims) error {
	if m.redis == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return m.redis.Set(ctx, denylistKey(claims.ID), "1", ttl).Err()
}

func denylistKey(jti string) string {
	return "jwt:denylist:" + jti
}
