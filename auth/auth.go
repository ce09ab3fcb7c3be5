package auth

import (
	"context"
	"fmt"
	"time"

	"unisport/models"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// JwtKey signs every session token. Set from config at startup.
var JwtKey = []byte("unisport_dev_secret")

const tokenLifetime = 24 * time.Hour

// SetKey installs the signing secret loaded from config.json.
func SetKey(secret string) {
	if secret != "" {
		JwtKey = []byte(secret)
	}
}

// GenerateToken issues a signed session token for the user.
func GenerateToken(user models.User) (string, error) {
	claims := &models.AuthClaims{
		UserID:    user.ID,
		StudentID: user.StudentID,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "unisport",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtKey)
}

// ParseToken validates a session token and returns its claims.
func ParseToken(tokenString string) (*models.AuthClaims, error) {
	claims := &models.AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// HashPassword hashes the password for storage on first login.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a stored hash against a login attempt.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// RevokeToken blacklists a token ID in Redis until the token would expire.
// Claims without an expiry have nothing to blacklist and are a no-op.
func RevokeToken(ctx context.Context, rdb *redis.Client, claims *models.AuthClaims) error {
	if rdb == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return rdb.Set(ctx, "revoked:"+claims.ID, "1", ttl).Err()
}

// IsRevoked reports whether a token ID has been blacklisted by logout.
func IsRevoked(ctx context.Context, rdb *redis.Client, tokenID string) bool {
	if rdb == nil {
		return false
	}
	n, err := rdb.Exists(ctx, "revoked:"+tokenID).Result()
	return err == nil && n > 0
}
