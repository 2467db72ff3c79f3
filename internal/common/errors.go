// Package common defines shared constants and sentinel errors used across
// the RetroMarket client layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Transport-level errors (network failure, 5xx, undecodable response).
	ErrTransport = errors.New("request failed")

	// Login / registration outcomes.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRequiresTwoFactor  = errors.New("two-factor code required")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")

	// Two-factor protocol errors.
	ErrInvalidTwoFactorCode = errors.New("invalid two-factor code")

	// Session lifecycle errors.
	ErrSessionExpired    = errors.New("session expired")
	ErrCorruptLocalState = errors.New("corrupt local state")
)
