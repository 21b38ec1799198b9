// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"

	"accountd/internal/domain/entity"
	domainerrors "accountd/internal/domain/errors"
	"accountd/internal/domain/repository"
	"accountd/internal/domain/service"
	"accountd/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	repo   repository.AccountRepository
	hasher service.PasswordHasher
	logger *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(
	repo repository.AccountRepository,
	hasher service.PasswordHasher,
	logger *slog.Logger,
) usecase.ProfileUsecase {
	return &profileService{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

// GetProfile retrieves the account with the password hash redacted.
func (srv *profileService) GetProfile(ctx context.Context, accountID uuid.UUID) (*entity.Account, error) {
	srv.logger.Debug("Getting profile", "accountID", accountID)

	account, err := srv.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return account.Redacted(), nil
}

// ElevateToAdmin unconditionally sets the admin flag on the account.
func (srv *profileService) ElevateToAdmin(ctx context.Context, accountID uuid.UUID) (*entity.Account, error) {
	srv.logger.Info("Elevating account to admin", "accountID", accountID)

	account, err := srv.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.IsAdmin = true
	if err := srv.repo.Update(ctx, account); err != nil {
		srv.logger.Error("Failed to elevate account", "error", err, "accountID", accountID)

		return nil, errors.Wrap(err, "failed to elevate account")
	}

	return account.Redacted(), nil
}

// ResetPassword hashes and overwrites the account's password.
// Password strength is not re-validated here.
func (srv *profileService) ResetPassword(ctx context.Context, accountID uuid.UUID, newPassword string) error {
	srv.logger.Info("Resetting password", "accountID", accountID)

	account, err := srv.findAccount(ctx, accountID)
	if err != nil {
		return err
	}

	hashed, err := srv.hasher.Hash(newPassword)
	if err != nil {
		srv.logger.Error("Failed to hash password during reset", "error", err)

		return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password during reset")
	}

	account.PasswordHash = hashed
	if err := srv.repo.Update(ctx, account); err != nil {
		srv.logger.Error("Failed to persist password reset", "error", err, "accountID", accountID)

		return errors.Wrap(err, "failed to persist password reset")
	}

	return nil
}

// UpdateProfile partially updates name/mobile/address fields; nil fields are left unchanged.
func (srv *profileService) UpdateProfile(ctx context.Context, accountID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.Account, error) {
	srv.logger.Info("Updating profile", "accountID", accountID)

	account, err := srv.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		account.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		account.LastName = *input.LastName
	}
	if input.MobileNo != nil {
		account.MobileNo = *input.MobileNo
	}
	if input.Address != nil {
		account.Address = *input.Address
	}

	if err := srv.repo.Update(ctx, account); err != nil {
		srv.logger.Error("Failed to update profile", "error", err, "accountID", accountID)

		return nil, errors.Wrap(err, "failed to update profile")
	}

	return account.Redacted(), nil
}

// UpdateAccount is the broader partial update additionally covering email and password.
func (srv *profileService) UpdateAccount(ctx context.Context, accountID uuid.UUID, input *usecase.UpdateAccountInput) (*entity.Account, error) {
	srv.logger.Info("Updating account data", "accountID", accountID)

	account, err := srv.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		account.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		account.LastName = *input.LastName
	}
	if input.MobileNo != nil {
		account.MobileNo = *input.MobileNo
	}
	if input.Address != nil {
		account.Address = *input.Address
	}
	if input.Email != nil {
		account.Email = *input.Email
	}
	if input.Password != nil {
		hashed, err := srv.hasher.Hash(*input.Password)
		if err != nil {
			srv.logger.Error("Failed to hash password during account update", "error", err)

			return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password during account update")
		}
		account.PasswordHash = hashed
	}

	if err := srv.repo.Update(ctx, account); err != nil {
		srv.logger.Error("Failed to update account data", "error", err, "accountID", accountID)

		return nil, errors.Wrap(err, "failed to update account data")
	}

	return account.Redacted(), nil
}

// findAccount loads an account and maps the repository's not-found error onto
// the application error taxonomy.
func (srv *profileService) findAccount(ctx context.Context, accountID uuid.UUID) (*entity.Account, error) {
	account, err := srv.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound.WrapMessage("account lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find account")
	}

	return account, nil
}
