// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"accountd/internal/domain/entity"
	domainerrors "accountd/internal/domain/errors"
	"accountd/internal/domain/repository"
	"accountd/internal/domain/service"
	"accountd/internal/usecase"

	"github.com/pkg/errors"
)

const minPasswordLength = 8

// accountService implements the AccountUsecase interface.
type accountService struct {
	repo      repository.AccountRepository
	txManager repository.TransactionManager
	hasher    service.PasswordHasher
	tokenSvc  service.TokenService
	logger    *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(
	repo repository.AccountRepository,
	txManager repository.TransactionManager,
	hasher service.PasswordHasher,
	tokenSvc service.TokenService,
	logger *slog.Logger,
) usecase.AccountUsecase {
	return &accountService{
		repo:      repo,
		txManager: txManager,
		hasher:    hasher,
		tokenSvc:  tokenSvc,
		logger:    logger,
	}
}

// CheckEmail reports whether an account with the given email already exists.
func (srv *accountService) CheckEmail(ctx context.Context, email string) (bool, error) {
	_, err := srv.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return false, nil
		}

		return false, errors.Wrap(err, "failed to check email")
	}

	return true, nil
}

// Register orchestrates the complete account registration process.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.logger.Info("Starting registration", "email", input.Email)

	// Validation order matters: the first failing rule aborts before any
	// hashing or store access happens.
	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.logger.Error("Failed to hash password during registration", "error", err)

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password during registration")
	}

	var registered *entity.Account

	// Uniqueness check and insert run in one transaction; the store's unique
	// constraint on email settles any remaining race.
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		_, err := accountRepo.FindByEmail(ctx, input.Email)
		if err == nil {
			return domainerrors.ErrEmailAlreadyExists.WrapMessage("registration failed")
		}
		if !errors.Is(err, repository.ErrAccountNotFound) {
			return errors.Wrap(err, "failed to check existing email")
		}

		newAccount := &entity.Account{
			Email:        input.Email,
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			MobileNo:     input.MobileNo,
			PasswordHash: hashedPassword,
		}

		if err := accountRepo.Create(ctx, newAccount); err != nil {
			return errors.WithStack(err)
		}
		registered = newAccount

		return nil
	})
	if err != nil {
		srv.logger.Error("Failed to execute registration transaction", "error", err, "email", input.Email)

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}
	srv.logger.Debug("Account registered", "accountID", registered.ID)

	return &usecase.RegisterOutput{Account: registered}, nil
}

// Login orchestrates the login process.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.logger.Debug("Starting login", "email", input.Email)

	account, err := srv.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		// Unknown email and wrong password report the same error so callers
		// cannot enumerate registered accounts.
		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	accessToken, err := srv.tokenSvc.Generate(account.ID, account.Email, account.IsAdmin)
	if err != nil {
		srv.logger.Error("Failed to issue token", "error", err, "accountID", account.ID)

		return nil, errors.Wrap(err, "failed to issue token")
	}
	srv.logger.Debug("Login succeeded", "accountID", account.ID)

	return &usecase.LoginOutput{AccessToken: accessToken, Account: account}, nil
}

// validateRegistration applies the registration field rules in order and
// short-circuits on the first failure.
func validateRegistration(input *usecase.RegisterInput) error {
	if !strings.Contains(input.Email, "@") {
		return domainerrors.ErrEmailInvalid.WrapMessage("registration validation failed")
	}
	if input.MobileNo != "" && !isElevenDigits(input.MobileNo) {
		return domainerrors.ErrMobileNoInvalid.WrapMessage("registration validation failed")
	}
	if len(input.Password) < minPasswordLength {
		return domainerrors.ErrPasswordTooShort.WrapMessage("registration validation failed")
	}

	return nil
}

func isElevenDigits(s string) bool {
	if len(s) != 11 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}
