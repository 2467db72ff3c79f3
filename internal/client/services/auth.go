// Package services contains application services for the RetroMarket client.
// This file defines the session manager: the single source of truth for
// "who is logged in" and the login protocol, including the two-factor
// interaction.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/retromarket/retromarket/internal/client/cache"
	"github.com/retromarket/retromarket/internal/client/client"
	"github.com/retromarket/retromarket/internal/client/models"
	"github.com/retromarket/retromarket/internal/client/session"
	"github.com/retromarket/retromarket/internal/common"
	"github.com/retromarket/retromarket/internal/logging"
)

// AuthService orchestrates session bootstrap, login (including the
// two-factor follow-up), registration, and logout, and exposes the
// current identity to the rest of the client.
//
// Contract:
//   - Bootstrap: restore a session from local state or a cookie probe;
//     never fails in a way that blocks the login screen.
//   - Login: at-most-once per call; a RequiresTwoFactor rejection leaves
//     the exposed identity unchanged and the caller re-invokes with a code.
//   - Logout: server invalidation first, then local teardown, ordered so a
//     crash mid-way never leaves state that looks authenticated.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Bootstrap(ctx context.Context)
	Login(ctx context.Context, email, password, twoFactorCode, recoveryCode string) (*models.Identity, error)
	Register(ctx context.Context, reg models.Registration) (*models.Identity, error)
	Logout(ctx context.Context) error
	CurrentIdentity() *models.Identity
	Profile(ctx context.Context) (*models.ExtendedProfile, error)
	ConsumeTwoFactorNudge() bool
}

// authService is the concrete AuthService backed by the API client, the
// durable session store, and the profile cache.
type authService struct {
	client   client.Client
	store    *session.Store
	profiles *cache.ProfileCache
	log      logging.Logger

	identity *models.Identity

	// nudgeChecked suppresses the enrollment prompt after it has been
	// evaluated once in this process; it is not persisted.
	nudgeChecked bool
	nudgePending bool
}

// NewAuthService constructs an AuthService bound to the given API client,
// session store, and profile cache.
func NewAuthService(c client.Client, store *session.Store, profiles *cache.ProfileCache, log logging.Logger) AuthService {
	return &authService{client: c, store: store, profiles: profiles, log: log.With("component", "auth")}
}

// Bootstrap restores the session on startup. A stored bearer credential is
// adopted optimistically without a network call. Otherwise, if a session
// cookie is visible, the profile endpoint is probed; on success the
// returned identity is adopted and persisted as a token-less marker. Any
// failure degrades to unauthenticated rather than propagating, since the
// login screen must always be reachable.
func (a *authService) Bootstrap(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error(ctx, "panic during bootstrap, starting unauthenticated", "panic", fmt.Sprint(r))
			a.identity = nil
			_ = a.store.Clear(ctx)
		}
	}()

	cred, err := a.store.Load(ctx)
	if err != nil {
		a.log.Warn(ctx, "could not read stored credential", "error", err)
		_ = a.store.Clear(ctx)
		return
	}

	if cred != nil && cred.Kind == models.CredentialBearer {
		a.client.SetToken(cred.Token)
		id := cred.Identity
		a.identity = &id
		a.log.Info(ctx, "session restored from stored token", "email", id.Email)
		return
	}

	// No bearer credential. Probe the cookie session only when there is
	// a marker or a visible session cookie to back it.
	if cred == nil && !a.store.HasSessionCookie() {
		return
	}

	profile, err := a.client.Profile(ctx)
	if err != nil {
		a.log.Info(ctx, "cookie session probe failed, starting unauthenticated", "error", err)
		_ = a.store.Clear(ctx)
		return
	}

	id := profile.Identity
	a.identity = &id
	a.profiles.Set(profile)
	if err := a.store.Save(ctx, "", id); err != nil {
		a.log.Warn(ctx, "could not persist cookie session marker", "error", err)
	}
	a.log.Info(ctx, "session restored from cookie", "email", id.Email)
}

// Login submits credentials, optionally with a second-factor code or a
// recovery code on the follow-up attempt. ErrRequiresTwoFactor is not a
// failure but a required next step: the exposed identity stays unchanged
// and the caller re-invokes with a code. The manager performs no retries.
func (a *authService) Login(ctx context.Context, email, password, twoFactorCode, recoveryCode string) (*models.Identity, error) {
	if twoFactorCode != "" && recoveryCode != "" {
		return nil, fmt.Errorf("supply either a two-factor code or a recovery code, not both")
	}

	res, err := a.client.Login(ctx, client.LoginRequest{
		Email:                 email,
		Password:              password,
		TwoFactorCode:         twoFactorCode,
		TwoFactorRecoveryCode: recoveryCode,
	})
	if err != nil {
		return nil, err
	}

	id := a.adoptLoginResult(ctx, res)
	a.checkTwoFactorNudge(ctx)
	return id, nil
}

// Register creates an account. Same response handling as Login, but it
// does not chain into the two-factor enrollment nudge.
func (a *authService) Register(ctx context.Context, reg models.Registration) (*models.Identity, error) {
	res, err := a.client.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	return a.adoptLoginResult(ctx, res), nil
}

func (a *authService) adoptLoginResult(ctx context.Context, res *client.LoginResult) *models.Identity {
	id := models.Identity{
		ID:       res.User.ID,
		Email:    res.User.Email,
		Name:     res.User.Name,
		Roles:    res.User.Roles,
		ImageURL: res.User.ImageURL,
	}

	a.client.SetToken(res.Token)
	if err := a.store.Save(ctx, res.Token, id); err != nil {
		a.log.Warn(ctx, "could not persist credential", "error", err)
	}
	a.profiles.Clear()
	a.identity = &id
	return &id
}

// checkTwoFactorNudge runs the once-per-process enrollment check. Errors
// are swallowed: the nudge is best effort and never blocks a login.
func (a *authService) checkTwoFactorNudge(ctx context.Context) {
	if a.nudgeChecked {
		return
	}
	a.nudgeChecked = true

	st, err := a.client.TwoFactor(ctx, client.TwoFactorAction{Kind: client.TwoFactorInspect})
	if err != nil || st == nil {
		a.log.Debug(ctx, "two-factor enrollment check skipped", "error", err)
		return
	}
	a.nudgePending = !st.IsEnabled
}

// ConsumeTwoFactorNudge reports whether the user should be prompted to
// enroll in two-factor authentication, at most once per process.
func (a *authService) ConsumeTwoFactorNudge() bool {
	pending := a.nudgePending
	a.nudgePending = false
	return pending
}

// Logout invalidates the server session and tears down local state in a
// fixed order: store, profile cache, nudge flag, exposed identity. A
// server-side failure is logged but does not keep the local session alive.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		a.log.Warn(ctx, "server-side logout failed, clearing local state anyway", "error", err)
	}

	err := a.store.Clear(ctx)
	a.profiles.Clear()
	a.nudgeChecked = false
	a.nudgePending = false
	a.client.SetToken("")
	a.identity = nil
	return err
}

// CurrentIdentity returns the identity of the logged-in user, or nil.
func (a *authService) CurrentIdentity() *models.Identity {
	return a.identity
}

// Profile returns the extended profile, fetching it once and serving the
// cached copy thereafter. On fetch failure the cache is cleared so a stale
// identity is never served; an expired session additionally forces a local
// logout before the error is returned.
func (a *authService) Profile(ctx context.Context) (*models.ExtendedProfile, error) {
	if p := a.profiles.Get(); p != nil {
		return p, nil
	}

	p, err := a.client.Profile(ctx)
	if err != nil {
		a.profiles.Clear()
		if errors.Is(err, common.ErrSessionExpired) {
			a.log.Info(ctx, "session expired, clearing local session")
			_ = a.store.Clear(ctx)
			a.client.SetToken("")
			a.identity = nil
		}
		return nil, err
	}

	a.profiles.Set(p)
	return p, nil
}
