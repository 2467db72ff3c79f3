package models

// TwoFactorState mirrors the backend's two-factor status response.
//
// SharedKey is only present between setup and a successful enable.
// RecoveryCodes are emitted exactly once, at the moment two-factor
// authentication transitions to enabled or when codes are regenerated;
// they are never retrievable again.
type TwoFactorState struct {
	IsEnabled           bool     `json:"isEnabled"`
	SharedKey           string   `json:"sharedKey,omitempty"`
	RecoveryCodes       []string `json:"recoveryCodes,omitempty"`
	RecoveryCodesLeft   int      `json:"recoveryCodesLeft,omitempty"`
	IsMachineRemembered bool     `json:"isMachineRemembered,omitempty"`
}

// Registration carries the fields submitted on signup.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
