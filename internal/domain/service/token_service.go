package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the identity snapshot embedded in a session token. It reflects the
// account at issuance time; later privilege changes do not affect issued tokens.
type Claims struct {
	AccountID uuid.UUID `json:"accountId"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and verifying session tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// Generate creates a signed session token carrying the account's identity claims.
	Generate(accountID uuid.UUID, email string, isAdmin bool) (string, error)

	// Validate checks a token string and returns its claims. It is pure and
	// side-effect-free; failures distinguish malformed tokens from bad signatures.
	Validate(tokenString string) (*Claims, error)
}
