// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"accountd/internal/delivery/http/middleware"
	"accountd/internal/delivery/http/response"
	"accountd/internal/domain/entity"
	"accountd/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	accountUC usecase.AccountUsecase
	profileUC usecase.ProfileUsecase
	logger    *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(accountUC usecase.AccountUsecase, profileUC usecase.ProfileUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountUC: accountUC,
		profileUC: profileUC,
		logger:    logger,
	}
}

// accountView is the externally exposed account shape. The password field is
// always rendered empty; hashes never leave the service.
type accountView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	MobileNo  string    `json:"mobileNo"`
	Address   string    `json:"address"`
	Password  string    `json:"password"`
	IsAdmin   bool      `json:"isAdmin"`
}

func toAccountView(account *entity.Account) *accountView {
	if account == nil {
		return nil
	}

	return &accountView{
		ID:        account.ID,
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		MobileNo:  account.MobileNo,
		Address:   account.Address,
		IsAdmin:   account.IsAdmin,
	}
}

type checkEmailRequest struct {
	Email string `json:"email" validate:"required"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required"`
}

// CheckEmail reports whether an email address is already registered.
func (h *AccountHandler) CheckEmail(c echo.Context) error {
	var req checkEmailRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	exists, err := h.accountUC.CheckEmail(c.Request().Context(), req.Email)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, http.StatusOK, response.Body{Exists: &exists})
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var input usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid registration input")
	}

	output, err := h.accountUC.Register(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, http.StatusCreated, response.Body{
		Message: "Registered successfully",
		User:    toAccountView(output.Account),
	})
}

// Login handles the login request and returns the issued session token.
func (h *AccountHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid login input")
	}

	output, err := h.accountUC.Login(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, http.StatusOK, response.Body{
		Message: "Login successful",
		Access:  output.AccessToken,
	})
}

// GetProfile returns the authenticated account's profile.
func (h *AccountHandler) GetProfile(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return response.AuthFailure(c, http.StatusUnauthorized, "Failed", "Missing authentication claims")
	}

	account, err := h.profileUC.GetProfile(c.Request().Context(), claims.AccountID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, http.StatusOK, response.Body{User: toAccountView(account)})
}

// UpdateProfile partially updates the authenticated account's profile fields.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return response.AuthFailure(c, http.StatusUnauthorized, "Failed", "Missing authentication claims")
	}

	var input usecase.UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid profile input")
	}

	account, err := h.profileUC.UpdateProfile(c.Request().Context(), claims.AccountID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, http.StatusOK, response.Body{
		Message: "Profile updated successfully",
		User:    toAccountView(account),
	})
}

// UpdateAccount partially updates the authenticated account, including email and password.
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return response.AuthFailure(c, http.StatusUnauthorized, "Failed", "Missing authentication claims")
	}

	var input usecase.UpdateAccountInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid account input")
	}

	account, err := h.profileUC.UpdateAccount(c.Request().Context(), claims.AccountID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, http.StatusOK, response.Body{
		Message: "Account data updated successfully",
		User:    toAccountView(account),
	})
}

// ResetPassword overwrites the authenticated account's password.
func (h *AccountHandler) ResetPassword(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return response.AuthFailure(c, http.StatusUnauthorized, "Failed", "Missing authentication claims")
	}

	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.profileUC.ResetPassword(c.Request().Context(), claims.AccountID, req.NewPassword); err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, http.StatusOK, response.Body{Message: "Password reset successful"})
}

// Elevate grants admin privilege to the account named in the route parameter.
// The route itself is gated by the admin middleware.
func (h *AccountHandler) Elevate(c echo.Context) error {
	accountID, err := uuid.Parse(c.Param("accountID"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid account id")
	}

	account, err := h.profileUC.ElevateToAdmin(c.Request().Context(), accountID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, http.StatusOK, response.Body{
		Message: "Account elevated to admin successfully",
		User:    toAccountView(account),
	})
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
