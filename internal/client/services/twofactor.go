package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/retromarket/retromarket/internal/client/client"
	"github.com/retromarket/retromarket/internal/client/models"
	"github.com/retromarket/retromarket/internal/logging"
)

// totpIssuer is the issuer shown by authenticator apps.
const totpIssuer = "RetroMarket"

// TwoFactorService drives the two-factor setup/verify/disable protocol
// against the backend.
//
// Local view of the protocol: uninitialized -> awaiting_verification
// (after BeginSetup) -> enabled (after VerifyAndEnable); Disable moves
// enabled -> disabled; RegenerateRecoveryCodes is a side effect with no
// state change. After Disable the active session must not be trusted:
// callers are required to force a full re-login.
type TwoFactorService interface {
	Inspect(ctx context.Context) (*models.TwoFactorState, error)
	BeginSetup(ctx context.Context) (sharedKey string, err error)
	VerifyAndEnable(ctx context.Context, code string) (recoveryCodes []string, err error)
	Disable(ctx context.Context) error
	RegenerateRecoveryCodes(ctx context.Context) ([]string, error)
	PendingSharedKey() string
}

type twoFactorService struct {
	client client.Client
	log    logging.Logger

	// pendingKey holds the shared secret between BeginSetup and a
	// successful VerifyAndEnable. It doubles as the idempotency guard:
	// a repeated BeginSetup while a setup is in progress is a no-op.
	pendingKey string
}

func NewTwoFactorService(c client.Client, log logging.Logger) TwoFactorService {
	return &twoFactorService{client: c, log: log.With("component", "twofactor")}
}

// Inspect queries current enablement without mutating server state.
func (t *twoFactorService) Inspect(ctx context.Context) (*models.TwoFactorState, error) {
	return t.client.TwoFactor(ctx, client.TwoFactorAction{Kind: client.TwoFactorInspect})
}

// BeginSetup requests a fresh shared secret and moves the local view to
// awaiting_verification. Calling it again before the setup completes does
// not hit the backend and returns the same pending key.
func (t *twoFactorService) BeginSetup(ctx context.Context) (string, error) {
	if t.pendingKey != "" {
		return t.pendingKey, nil
	}

	st, err := t.client.TwoFactor(ctx, client.TwoFactorAction{Kind: client.TwoFactorBeginSetup})
	if err != nil {
		return "", err
	}
	if st.SharedKey == "" {
		return "", fmt.Errorf("backend returned no shared key")
	}

	t.pendingKey = st.SharedKey
	return st.SharedKey, nil
}

// VerifyAndEnable submits the 6-digit code. On success the recovery codes
// are returned; they are shown exactly once and never retrievable again.
// On ErrInvalidTwoFactorCode the setup stays in awaiting_verification and
// the caller may retry with a new code without re-requesting the key.
func (t *twoFactorService) VerifyAndEnable(ctx context.Context, code string) ([]string, error) {
	st, err := t.client.TwoFactor(ctx, client.TwoFactorAction{
		Kind: client.TwoFactorVerify,
		Code: strings.TrimSpace(code),
	})
	if err != nil {
		return nil, err
	}

	t.pendingKey = ""
	t.log.Info(ctx, "two-factor authentication enabled")
	return st.RecoveryCodes, nil
}

// Disable turns the second factor off. Any credential bound to the
// pre-disable factor count is no longer trustworthy, so the caller must
// invalidate the session and force a re-login afterwards.
func (t *twoFactorService) Disable(ctx context.Context) error {
	_, err := t.client.TwoFactor(ctx, client.TwoFactorAction{Kind: client.TwoFactorDisable})
	if err != nil {
		return err
	}
	t.pendingKey = ""
	t.log.Info(ctx, "two-factor authentication disabled")
	return nil
}

// RegenerateRecoveryCodes reissues recovery codes. Previous codes become
// permanently invalid server-side; the client never caches any copies.
func (t *twoFactorService) RegenerateRecoveryCodes(ctx context.Context) ([]string, error) {
	st, err := t.client.TwoFactor(ctx, client.TwoFactorAction{Kind: client.TwoFactorResetRecovery})
	if err != nil {
		return nil, err
	}
	return st.RecoveryCodes, nil
}

// PendingSharedKey returns the shared key of an in-progress setup, or "".
func (t *twoFactorService) PendingSharedKey() string {
	return t.pendingKey
}

// ProvisioningURI builds the otpauth://totp URI authenticator apps scan.
// Issuer and account name are URL-encoded and the shared key is
// whitespace-stripped. No network call.
func ProvisioningURI(email, sharedKey string) string {
	label := url.PathEscape(fmt.Sprintf("%s:%s", totpIssuer, email))
	q := url.Values{}
	q.Set("secret", StripSpaces(sharedKey))
	q.Set("issuer", totpIssuer)
	q.Set("algorithm", "SHA1")
	q.Set("digits", "6")
	q.Set("period", "30")
	return fmt.Sprintf("otpauth://totp/%s?%s", label, q.Encode())
}

// FormatKey groups the shared key into blocks of 4 characters for human
// transcription. Purely cosmetic: StripSpaces(FormatKey(k)) == k.
func FormatKey(key string) string {
	key = StripSpaces(key)
	var b strings.Builder
	for i, r := range key {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// StripSpaces removes all whitespace from a shared key.
func StripSpaces(key string) string {
	return strings.Join(strings.Fields(key), "")
}
