package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"accountd/internal/domain/entity"
	domainerrors "accountd/internal/domain/errors"
	"accountd/internal/domain/repository"
	mockRepo "accountd/internal/mocks/repository"
	mockSvc "accountd/internal/mocks/service"
	"accountd/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service      usecase.AccountUsecase
	accountRepo  *mockRepo.MockAccountRepository
	txManager    *mockRepo.MockTransactionManager
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	accountRepo := mockRepo.NewMockAccountRepository(t)
	txManager := mockRepo.NewMockTransactionManager(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewAccountService(accountRepo, txManager, hasher, tokenService, logger)

	return accountServiceFixtures{
		service:      service,
		accountRepo:  accountRepo,
		txManager:    txManager,
		hasher:       hasher,
		tokenService: tokenService,
	}
}

func validRegisterInput() *usecase.RegisterInput {
	return &usecase.RegisterInput{
		FirstName: "Test",
		LastName:  "Account",
		Email:     "test@example.com",
		MobileNo:  "09171234567",
		Password:  "password123",
	}
}

func TestAccountService_Register_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := validRegisterInput()

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)

			mockAccountRepo.EXPECT().
				FindByEmail(ctx, input.Email).
				Return(nil, repository.ErrAccountNotFound)

			mockAccountRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.Account")).
				Run(func(ctx context.Context, account *entity.Account) {
					account.ID = uuid.New()
				}).
				Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, input.Email, output.Account.Email)
	assert.Equal(t, "hashed_password", output.Account.PasswordHash)
	assert.NotEqual(t, uuid.Nil, output.Account.ID)
	assert.False(t, output.Account.IsAdmin)
}

func TestAccountService_Register_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*usecase.RegisterInput)
		wantErr *domainerrors.BaseError
	}{
		{
			name:    "email without at sign",
			mutate:  func(in *usecase.RegisterInput) { in.Email = "not-an-email" },
			wantErr: domainerrors.ErrEmailInvalid,
		},
		{
			name: "email checked before mobile",
			mutate: func(in *usecase.RegisterInput) {
				in.Email = "not-an-email"
				in.MobileNo = "123"
			},
			wantErr: domainerrors.ErrEmailInvalid,
		},
		{
			name:    "mobile too short",
			mutate:  func(in *usecase.RegisterInput) { in.MobileNo = "123456789" },
			wantErr: domainerrors.ErrMobileNoInvalid,
		},
		{
			name:    "mobile with letters",
			mutate:  func(in *usecase.RegisterInput) { in.MobileNo = "0917123456a" },
			wantErr: domainerrors.ErrMobileNoInvalid,
		},
		{
			name: "mobile checked before password",
			mutate: func(in *usecase.RegisterInput) {
				in.MobileNo = "123"
				in.Password = "short"
			},
			wantErr: domainerrors.ErrMobileNoInvalid,
		},
		{
			name:    "password too short",
			mutate:  func(in *usecase.RegisterInput) { in.Password = "seven77" },
			wantErr: domainerrors.ErrPasswordTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No expectations are set: a validation failure must not touch
			// the hasher, the transaction manager, or the store.
			fx := createTestAccountService(t)

			input := validRegisterInput()
			tt.mutate(input)

			output, err := fx.service.Register(context.Background(), input)

			assert.Nil(t, output)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestAccountService_Register_EmptyMobileAllowed(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := validRegisterInput()
	input.MobileNo = ""

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)
			mockAccountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrAccountNotFound)
			mockAccountRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.Account")).Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Empty(t, output.Account.MobileNo)
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := validRegisterInput()

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)

			existing := &entity.Account{ID: uuid.New(), Email: input.Email}
			mockAccountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(existing, nil)

			return fn(mockFactory)
		})

	output, err := fx.service.Register(ctx, input)

	assert.Nil(t, output)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailAlreadyExists))
}

func TestAccountService_Login_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		IsAdmin:      true,
	}

	fx.accountRepo.EXPECT().FindByEmail(ctx, account.Email).Return(account, nil)
	fx.hasher.EXPECT().Check("password123", account.PasswordHash).Return(true)
	fx.tokenService.EXPECT().Generate(account.ID, account.Email, true).Return("signed_token", nil)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Email: account.Email, Password: "password123"})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "signed_token", output.AccessToken)
	assert.Equal(t, account.ID, output.Account.ID)
}

func TestAccountService_Login_InvalidCredentials(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		fx := createTestAccountService(t)

		fx.accountRepo.EXPECT().
			FindByEmail(ctx, "missing@example.com").
			Return(nil, repository.ErrAccountNotFound)

		output, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "missing@example.com", Password: "password123"})

		assert.Nil(t, output)
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	})

	t.Run("wrong password", func(t *testing.T) {
		fx := createTestAccountService(t)

		account := &entity.Account{ID: uuid.New(), Email: "test@example.com", PasswordHash: "hashed_password"}
		fx.accountRepo.EXPECT().FindByEmail(ctx, account.Email).Return(account, nil)
		fx.hasher.EXPECT().Check("wrong", account.PasswordHash).Return(false)

		output, err := fx.service.Login(ctx, &usecase.LoginInput{Email: account.Email, Password: "wrong"})

		assert.Nil(t, output)
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	})
}

func TestAccountService_CheckEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("exists", func(t *testing.T) {
		fx := createTestAccountService(t)

		account := &entity.Account{ID: uuid.New(), Email: "test@example.com"}
		fx.accountRepo.EXPECT().FindByEmail(ctx, account.Email).Return(account, nil)

		exists, err := fx.service.CheckEmail(ctx, account.Email)

		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("does not exist", func(t *testing.T) {
		fx := createTestAccountService(t)

		fx.accountRepo.EXPECT().
			FindByEmail(ctx, "missing@example.com").
			Return(nil, repository.ErrAccountNotFound)

		exists, err := fx.service.CheckEmail(ctx, "missing@example.com")

		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		fx := createTestAccountService(t)

		fx.accountRepo.EXPECT().
			FindByEmail(ctx, "test@example.com").
			Return(nil, errors.New("connection refused"))

		_, err := fx.service.CheckEmail(ctx, "test@example.com")

		assert.Error(t, err)
	})
}
