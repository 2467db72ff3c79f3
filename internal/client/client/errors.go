package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/retromarket/retromarket/internal/common"
)

// problemDetails is the RFC 7807-ish error body the backend returns on
// structured rejections. Detail carries the machine-readable reason.
type problemDetails struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}

// classifyLoginFailure maps a login/signup rejection to a sentinel error.
// A structured 401 distinguishes "second factor required" and "not allowed"
// (unconfirmed email) from plain bad credentials; anything else is generic.
func classifyLoginFailure(statusCode int, body []byte) error {
	if statusCode == http.StatusUnauthorized {
		var pd problemDetails
		if err := json.Unmarshal(body, &pd); err == nil {
			switch pd.Detail {
			case "RequiresTwoFactor":
				return common.ErrRequiresTwoFactor
			case "NotAllowed", "EmailNotConfirmed":
				return common.ErrEmailNotConfirmed
			}
		}
		return common.ErrInvalidCredentials
	}
	if statusCode == http.StatusBadRequest {
		return common.ErrInvalidCredentials
	}
	return fmt.Errorf("%w: unexpected status %d", common.ErrTransport, statusCode)
}

// classifyAuthedFailure maps a failure on an endpoint that expects an
// authenticated caller. A 401 means the session is gone.
func classifyAuthedFailure(statusCode int) error {
	if statusCode == http.StatusUnauthorized {
		return common.ErrSessionExpired
	}
	return fmt.Errorf("%w: unexpected status %d", common.ErrTransport, statusCode)
}
