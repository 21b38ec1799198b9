// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"accountd/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	MobileNo  string `json:"mobileNo"`
	Password  string `json:"password"`
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account.
// The entity still carries the password hash; the delivery layer is
// responsible for redaction before external exposure.
type RegisterOutput struct {
	Account *entity.Account
}

// LoginOutput returns the issued session token after a successful login.
type LoginOutput struct {
	AccessToken string
	Account     *entity.Account
}

// AccountUsecase defines the interface for registration and authentication flows.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	// CheckEmail reports whether an account with the given email already exists.
	// Query-only; never mutates.
	CheckEmail(ctx context.Context, email string) (bool, error)

	// Register validates the input, hashes the password and persists a new account.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login verifies credentials and issues a session token snapshotting the
	// account's identity and admin flag.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
}
