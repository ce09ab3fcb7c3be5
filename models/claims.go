package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the JWT claim set issued on login.
type AuthClaims struct {
	UserID    uint   `json:"userid"`
	StudentID string `json:"studentId"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}
