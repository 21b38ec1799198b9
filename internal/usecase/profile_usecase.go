// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"accountd/internal/domain/entity"

	"github.com/google/uuid"
)

// ProfileUsecase defines the interface for account profile and credential mutations.
type ProfileUsecase interface {
	// GetProfile fetches an account by id with the password hash redacted.
	GetProfile(ctx context.Context, accountID uuid.UUID) (*entity.Account, error)

	// ElevateToAdmin unconditionally grants admin privilege to the account.
	// Authorization is enforced upstream by the admin middleware, not here.
	ElevateToAdmin(ctx context.Context, accountID uuid.UUID) (*entity.Account, error)

	// ResetPassword hashes and overwrites the account's password.
	ResetPassword(ctx context.Context, accountID uuid.UUID, newPassword string) error

	// UpdateProfile partially updates name/mobile/address fields.
	// Nil fields are left unchanged.
	UpdateProfile(ctx context.Context, accountID uuid.UUID, input *UpdateProfileInput) (*entity.Account, error)

	// UpdateAccount is the broader partial update additionally covering email
	// and password; the password is re-hashed when supplied. The returned
	// account is redacted.
	UpdateAccount(ctx context.Context, accountID uuid.UUID, input *UpdateAccountInput) (*entity.Account, error)
}

// --- Input DTOs ---

// UpdateProfileInput defines the partially updatable profile fields.
type UpdateProfileInput struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	MobileNo  *string `json:"mobileNo,omitempty"`
	Address   *string `json:"address,omitempty"`
}

// UpdateAccountInput defines the broader partial update, including credentials.
type UpdateAccountInput struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	MobileNo  *string `json:"mobileNo,omitempty"`
	Address   *string `json:"address,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
}
