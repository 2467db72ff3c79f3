package cli

import (
	"errors"

	"github.com/retromarket/retromarket/internal/common"
)

// friendlyError maps the classified failures to the messages users see.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, common.ErrRequiresTwoFactor):
		return "A two-factor code is required."
	case errors.Is(err, common.ErrInvalidTwoFactorCode):
		return "That code was not accepted. Check your authenticator app and try again."
	case errors.Is(err, common.ErrEmailNotConfirmed):
		return "Please confirm your email address before logging in."
	case errors.Is(err, common.ErrSessionExpired):
		return "Your session has expired. Please log in again."
	case errors.Is(err, common.ErrTransport):
		return "Request failed. Please try again."
	default:
		return err.Error()
	}
}
