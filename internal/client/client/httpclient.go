package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/retromarket/retromarket/internal/client/models"
	"github.com/retromarket/retromarket/internal/common"
)

// HTTPClient talks to the RetroMarket accounts backend over HTTP/JSON.
// It keeps a cookie jar so cookie-mode sessions survive across calls and
// remain inspectable for the session probe.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string

	// useCookies asks the backend to establish a cookie session on login
	// instead of returning a bearer token.
	useCookies bool
}

// NewHTTPClient builds a client for the given base URL (e.g.
// "https://api.retromarket.dev"). The timeout bounds each request.
func NewHTTPClient(baseURL string, timeout time.Duration, useCookies bool) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		baseURL:    u,
		httpClient: &http.Client{Jar: jar, Timeout: timeout},
		useCookies: useCookies,
	}, nil
}

// SetToken sets the bearer token attached to subsequent requests.
// An empty token removes the Authorization header.
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// VisibleCookies returns the cookies the jar currently holds for the
// backend origin. Used as a heuristic probe for a live cookie session;
// httpOnly siblings set by the server are still sent by the jar but the
// decision over there is the server's, not ours.
func (c *HTTPClient) VisibleCookies() []*http.Cookie {
	return c.httpClient.Jar.Cookies(c.baseURL)
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// do issues a request and returns the status code and raw body. Transport
// failures (DNS, refused connection, timeout) surface as ErrTransport.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body any) (int, []byte, error) {
	u := *c.baseURL
	u.Path = path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", common.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: reading response: %v", common.ErrTransport, err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return resp.StatusCode, data, fmt.Errorf("%w: server error %d", common.ErrTransport, resp.StatusCode)
	}
	return resp.StatusCode, data, nil
}

// Login submits credentials to POST /accounts/login. In cookie mode the
// useCookies query flag asks the server for a cookie session and the
// returned token is empty.
func (c *HTTPClient) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	q := url.Values{}
	if c.useCookies {
		q.Set("useCookies", "true")
	}

	status, body, err := c.do(ctx, http.MethodPost, "/accounts/login", q, req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, classifyLoginFailure(status, body)
	}

	var res LoginResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: decoding login response: %v", common.ErrTransport, err)
	}
	return &res, nil
}

// Register creates an account via POST /accounts/signup. The response
// shape matches Login.
func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) (*LoginResult, error) {
	q := url.Values{}
	if c.useCookies {
		q.Set("useCookies", "true")
	}

	status, body, err := c.do(ctx, http.MethodPost, "/accounts/signup", q, reg)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, classifyLoginFailure(status, body)
	}

	var res LoginResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: decoding signup response: %v", common.ErrTransport, err)
	}
	return &res, nil
}

// Profile fetches the extended profile. A 401 classifies as
// ErrSessionExpired, which also makes this call the session-liveness probe.
func (c *HTTPClient) Profile(ctx context.Context) (*models.ExtendedProfile, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/accounts/profile", nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, classifyAuthedFailure(status)
	}

	var p models.ExtendedProfile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: decoding profile: %v", common.ErrTransport, err)
	}
	return &p, nil
}

// Logout asks the server to invalidate the session. A 401 is treated as
// already logged out.
func (c *HTTPClient) Logout(ctx context.Context) error {
	status, _, err := c.do(ctx, http.MethodGet, "/accounts/profile/logout", nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent && status != http.StatusUnauthorized {
		return fmt.Errorf("%w: unexpected status %d", common.ErrTransport, status)
	}
	return nil
}

// TwoFactor drives the single multiplexed two-factor endpoint. The
// response always carries the full TwoFactorState shape. A 400 on a
// Verify action means the submitted code was rejected; we fail fast
// rather than retry with alternate payload spellings.
func (c *HTTPClient) TwoFactor(ctx context.Context, action TwoFactorAction) (*models.TwoFactorState, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/accounts/two-factor-authentication", nil, action.wireBody())
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusOK:
	case status == http.StatusBadRequest && action.Kind == TwoFactorVerify:
		return nil, common.ErrInvalidTwoFactorCode
	default:
		return nil, classifyAuthedFailure(status)
	}

	var st models.TwoFactorState
	if err := json.Unmarshal(body, &st); err != nil {
		return nil, fmt.Errorf("%w: decoding two-factor state: %v", common.ErrTransport, err)
	}
	return &st, nil
}
