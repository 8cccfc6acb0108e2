package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coderbb/identity-api/internal/api/metrics"
	"github.com/coderbb/identity-api/internal/core/domain"
	"github.com/coderbb/identity-api/internal/core/ports"
)

// PasswordHandler serves the password recovery and change flows.
type PasswordHandler struct {
	passwords ports.PasswordService
}

func NewPasswordHandler(passwords ports.PasswordService) *PasswordHandler {
	return &PasswordHandler{passwords: passwords}
}

// Forgot opens a 15-minute reset window and emails the reset link.
func (h *PasswordHandler) Forgot(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.passwords.Forgot(c.Request().Context(), req.EmailAddress); err != nil {
		metrics.PasswordFlowsTotal.WithLabelValues("forgot", flowResult(err)).Inc()
		return err
	}

	metrics.PasswordFlowsTotal.WithLabelValues("forgot", "success").Inc()
	return respond(c, http.StatusOK, nil)
}

// Reset replaces the password for a live reset token from the emailed link.
func (h *PasswordHandler) Reset(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.passwords.Reset(c.Request().Context(), c.Param("token"), req.NewPassword); err != nil {
		metrics.PasswordFlowsTotal.WithLabelValues("reset", flowResult(err)).Inc()
		return err
	}

	metrics.PasswordFlowsTotal.WithLabelValues("reset", "success").Inc()
	return respond(c, http.StatusOK, nil)
}

// Change replaces the authenticated user's password after verifying the old
// one. The confirm-field match is enforced at validation.
func (h *PasswordHandler) Change(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.passwords.Change(c.Request().Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		metrics.PasswordFlowsTotal.WithLabelValues("change", flowResult(err)).Inc()
		return err
	}

	metrics.PasswordFlowsTotal.WithLabelValues("change", "success").Inc()
	return respond(c, http.StatusOK, nil)
}

func flowResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrConfirmationRequired),
		errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrExpiredURL),
		errors.Is(err, domain.ErrInvalidOldPassword),
		errors.Is(err, domain.ErrPasswordUnchanged):
		return "rejected"
	default:
		return "error"
	}
}
