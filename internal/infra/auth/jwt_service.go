// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"accountd/config"
	domainerrors "accountd/internal/domain/errors"
	"accountd/internal/domain/service"
	"accountd/internal/errors"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// Tokens are signed with a single symmetric secret and carry no expiry claim:
// a token stays valid until the secret is rotated.
type jwtService struct {
	secret []byte
}

// NewJWTService is the constructor for jwtService.
// The signing secret is injected from configuration; an empty secret is refused.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Token == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return &jwtService{secret: []byte(cfg.SecretKey.Token)}, nil
}

// Generate creates a signed session token carrying the account's identity claims.
func (s *jwtService) Generate(accountID uuid.UUID, email string, isAdmin bool) (string, error) {
	claims := &service.Claims{
		AccountID: accountID,
		Email:     email,
		IsAdmin:   isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Validate checks a token string and returns its claims.
// Parsing failures map onto the domain error taxonomy so the middleware can
// report the reason without inspecting jwt internals.
func (s *jwtService) Validate(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Only HMAC is acceptable; anything else is treated as a forged signature.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, domainerrors.ErrTokenMalformed.WrapMessage("failed to parse token structure")
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, domainerrors.ErrTokenSignatureInvalid.WrapMessage("token signature mismatch")
		default:
			return nil, domainerrors.ErrTokenMalformed.WrapMessage("failed to validate token")
		}
	}

	if !token.Valid {
		return nil, domainerrors.ErrTokenSignatureInvalid.WrapMessage("token is not valid")
	}

	return claims, nil
}
