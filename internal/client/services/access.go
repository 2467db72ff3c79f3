package services

import (
	"strings"

	"github.com/retromarket/retromarket/internal/client/models"
)

// AccessReason explains why a protected action was denied.
type AccessReason string

const (
	// ReasonMissingEmailConfirmation: the account email is not verified.
	ReasonMissingEmailConfirmation AccessReason = "missing_email_confirmation"

	// ReasonMissingCPF: no CPF on file (empty/whitespace counts as missing).
	ReasonMissingCPF AccessReason = "missing_cpf"

	// ReasonMissingBoth: both prerequisites are missing; remediation must
	// enumerate both steps.
	ReasonMissingBoth AccessReason = "missing_both"
)

// AccessDecision is the outcome of an advertisement-creation policy check.
type AccessDecision struct {
	Allowed bool
	Reason  AccessReason
}

// EvaluateAdCreation gates advertisement creation on the user's verified
// attributes. This is a policy check distinct from authentication: a fully
// logged-in user may still be denied. It is a pure function and must be
// re-evaluated whenever profile data changes; the result is never cached.
//
// Precedence: when both the email confirmation and the CPF are missing the
// decision reports ReasonMissingBoth, otherwise whichever single one is
// missing.
func EvaluateAdCreation(emailConfirmed bool, cpf string) AccessDecision {
	missingCPF := strings.TrimSpace(cpf) == ""

	switch {
	case !emailConfirmed && missingCPF:
		return AccessDecision{Reason: ReasonMissingBoth}
	case !emailConfirmed:
		return AccessDecision{Reason: ReasonMissingEmailConfirmation}
	case missingCPF:
		return AccessDecision{Reason: ReasonMissingCPF}
	default:
		return AccessDecision{Allowed: true}
	}
}

// EvaluateProfileForAdCreation applies EvaluateAdCreation to a profile.
// A nil profile denies with both prerequisites missing.
func EvaluateProfileForAdCreation(p *models.ExtendedProfile) AccessDecision {
	if p == nil {
		return AccessDecision{Reason: ReasonMissingBoth}
	}
	return EvaluateAdCreation(p.EmailConfirmed, p.CPF)
}

// RemediationSteps maps a denial to the user-facing steps that unlock the
// action: a missing CPF is fixed on the personal-data screen, a missing
// email confirmation on the profile screen.
func (d AccessDecision) RemediationSteps() []string {
	switch d.Reason {
	case ReasonMissingEmailConfirmation:
		return []string{"confirm your email address on the profile screen"}
	case ReasonMissingCPF:
		return []string{"add your CPF on the personal-data screen"}
	case ReasonMissingBoth:
		return []string{
			"confirm your email address on the profile screen",
			"add your CPF on the personal-data screen",
		}
	default:
		return nil
	}
}
