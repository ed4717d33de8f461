package types

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload carried on every authenticated request.
type Claims struct {
	UserID     uint    `json:"user_id"`
	Name       string  `json:"name"`
	UserType   string  `json:"user_type"`
	Department *string `json:"department,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	jwt.RegisteredClaims
}
