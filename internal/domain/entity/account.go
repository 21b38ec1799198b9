// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the core entity in the system, representing one registered person.
type Account struct {
	ID           uuid.UUID // The unique identifier for the account, assigned by the store at creation.
	Email        string    // The account's login identifier. Unique across the system.
	FirstName    string    // Optional given name.
	LastName     string    // Optional family name.
	MobileNo     string    // Optional mobile number. Exactly 11 digits when present.
	Address      string    // Optional free-form address.
	PasswordHash string    // The bcrypt hash of the password. Never holds plaintext.
	IsAdmin      bool      // Admin privilege flag. Only set through explicit elevation.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account.
}

// Redacted returns a copy of the account with the password hash cleared,
// safe for external exposure.
func (a *Account) Redacted() *Account {
	if a == nil {
		return nil
	}

	clone := *a
	clone.PasswordHash = ""

	return &clone
}
