package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coderbb/identity-api/internal/api/metrics"
	"github.com/coderbb/identity-api/internal/core/domain"
	"github.com/coderbb/identity-api/internal/core/ports"
)

// AccountHandler serves registration and account confirmation.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register creates a new unconfirmed account and responds with its ID.
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	id, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Name:           req.Name,
		EmailAddress:   req.EmailAddress,
		Password:       req.Password,
		RawPhoneNumber: req.PhoneNumber,
		Consent:        req.Consent,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerResult(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return respond(c, http.StatusCreated, map[string]string{"_id": id})
}

// Confirm flips an account to confirmed for the (token, code) pair embedded
// in the confirmation link.
func (h *AccountHandler) Confirm(c echo.Context) error {
	token := c.Param("token")
	code := c.QueryParam("code")

	if _, err := h.accounts.Confirm(c.Request().Context(), token, code); err != nil {
		metrics.ConfirmationsTotal.WithLabelValues(confirmResult(err)).Inc()
		return err
	}

	metrics.ConfirmationsTotal.WithLabelValues("confirmed").Inc()
	return respond(c, http.StatusOK, nil)
}

func registerResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return "duplicate"
	case errors.Is(err, domain.ErrInvalidPhoneNumber):
		return "invalid_phone"
	default:
		return "error"
	}
}

func confirmResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyConfirmed):
		return "already_confirmed"
	case errors.Is(err, domain.ErrInvalidConfirmation):
		return "invalid"
	default:
		return "error"
	}
}
