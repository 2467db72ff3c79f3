package client

// LoginRequest carries the credentials for POST /accounts/login. On the
// second attempt of a two-factor login exactly one of TwoFactorCode or
// TwoFactorRecoveryCode is set.
type LoginRequest struct {
	Email                 string `json:"email"`
	Password              string `json:"password"`
	TwoFactorCode         string `json:"twoFactorCode,omitempty"`
	TwoFactorRecoveryCode string `json:"twoFactorRecoveryCode,omitempty"`
}

// LoginResult is the success body of login/signup. Token is empty when the
// server was asked to establish a cookie session instead.
type LoginResult struct {
	Token string       `json:"token,omitempty"`
	User  IdentityWire `json:"user"`
}

// IdentityWire is the user snapshot as it appears on the wire.
type IdentityWire struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Roles    []string `json:"roles,omitempty"`
	ImageURL string   `json:"imageUrl,omitempty"`
}

// TwoFactorActionKind enumerates the operations of the multiplexed
// two-factor endpoint. The wire format is a flat flags object; the
// kind-to-flags mapping lives in wireBody and nowhere else.
type TwoFactorActionKind int

const (
	// TwoFactorInspect queries current enablement without mutating state.
	TwoFactorInspect TwoFactorActionKind = iota

	// TwoFactorBeginSetup requests a fresh shared secret.
	TwoFactorBeginSetup

	// TwoFactorVerify submits a 6-digit code to finish enabling.
	TwoFactorVerify

	// TwoFactorDisable turns the second factor off.
	TwoFactorDisable

	// TwoFactorResetRecovery invalidates and reissues recovery codes.
	TwoFactorResetRecovery
)

// TwoFactorAction is the tagged request for Client.TwoFactor. Code is only
// meaningful for TwoFactorVerify.
type TwoFactorAction struct {
	Kind TwoFactorActionKind
	Code string
}

// twoFactorWire is the flat flags body the backend expects.
type twoFactorWire struct {
	Enable             *bool  `json:"enable,omitempty"`
	TwoFactorCode      string `json:"twoFactorCode,omitempty"`
	ResetSharedKey     bool   `json:"resetSharedKey,omitempty"`
	ResetRecoveryCodes bool   `json:"resetRecoveryCodes,omitempty"`
}

// wireBody translates the tagged action into the flat flags object.
// An Inspect action produces an empty payload.
func (a TwoFactorAction) wireBody() twoFactorWire {
	on := true
	off := false
	switch a.Kind {
	case TwoFactorBeginSetup:
		return twoFactorWire{ResetSharedKey: true}
	case TwoFactorVerify:
		return twoFactorWire{Enable: &on, TwoFactorCode: a.Code}
	case TwoFactorDisable:
		return twoFactorWire{Enable: &off}
	case TwoFactorResetRecovery:
		return twoFactorWire{ResetRecoveryCodes: true}
	default:
		return twoFactorWire{}
	}
}
