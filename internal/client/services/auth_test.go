package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/retromarket/retromarket/internal/client/cache"
	"github.com/retromarket/retromarket/internal/client/client"
	"github.com/retromarket/retromarket/internal/client/models"
	"github.com/retromarket/retromarket/internal/client/session"
	"github.com/retromarket/retromarket/internal/common"
	"github.com/retromarket/retromarket/internal/logging"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func signedTestToken(t *testing.T) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "42"}).
		SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

// ---- fake client ----

// fakeClient implements client.Client for unit tests of the services.
type fakeClient struct {
	LoginRet *client.LoginResult
	LoginErr error

	RegisterRet *client.LoginResult
	RegisterErr error

	ProfileRet *models.ExtendedProfile
	ProfileErr error

	LogoutErr error

	TwoFactorRet *models.TwoFactorState
	TwoFactorErr error

	Cookies []*http.Cookie

	// call counters
	LoginCalls     int
	ProfileCalls   int
	TwoFactorCalls int
	LogoutCalls    int

	// argument capture
	LastLoginReq client.LoginRequest
	LastAction   client.TwoFactorAction
	LastToken    string
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Login(ctx context.Context, req client.LoginRequest) (*client.LoginResult, error) {
	f.LoginCalls++
	f.LastLoginReq = req
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	return f.LoginRet, nil
}

func (f *fakeClient) Register(ctx context.Context, reg models.Registration) (*client.LoginResult, error) {
	if f.RegisterErr != nil {
		return nil, f.RegisterErr
	}
	return f.RegisterRet, nil
}

func (f *fakeClient) Profile(ctx context.Context) (*models.ExtendedProfile, error) {
	f.ProfileCalls++
	if f.ProfileErr != nil {
		return nil, f.ProfileErr
	}
	return f.ProfileRet, nil
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.LogoutCalls++
	return f.LogoutErr
}

func (f *fakeClient) TwoFactor(ctx context.Context, action client.TwoFactorAction) (*models.TwoFactorState, error) {
	f.TwoFactorCalls++
	f.LastAction = action
	if f.TwoFactorErr != nil {
		return nil, f.TwoFactorErr
	}
	return f.TwoFactorRet, nil
}

func (f *fakeClient) SetToken(token string) { f.LastToken = token }

func (f *fakeClient) VisibleCookies() []*http.Cookie { return f.Cookies }

// ---- fixtures ----

func loginResult(token string) *client.LoginResult {
	return &client.LoginResult{
		Token: token,
		User: client.IdentityWire{
			ID:    "42",
			Email: "ana@example.com",
			Name:  "Ana",
			Roles: []string{"user"},
		},
	}
}

func newAuthFixture(t *testing.T, fc *fakeClient) (AuthService, *session.Store, *cache.ProfileCache) {
	t.Helper()
	db := setupDB(t)
	store := session.NewStore(db, fc, testLogger())
	profiles := cache.NewProfileCache()
	return NewAuthService(fc, store, profiles, testLogger()), store, profiles
}

// ---- tests ----

func TestLogin_Success_ExposesIdentityAndPersists(t *testing.T) {
	token := signedTestToken(t)
	fc := &fakeClient{
		LoginRet:     loginResult(token),
		TwoFactorRet: &models.TwoFactorState{IsEnabled: true},
	}
	svc, store, _ := newAuthFixture(t, fc)
	ctx := context.Background()

	id, err := svc.Login(ctx, "ana@example.com", "secret", "", "")
	require.NoError(t, err)
	require.Equal(t, "42", id.ID)
	require.Equal(t, id, svc.CurrentIdentity())
	require.Equal(t, token, fc.LastToken)

	// the stored credential round-trips to an equivalent identity
	cred, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cred)
	require.Equal(t, models.CredentialBearer, cred.Kind)
	require.Equal(t, *id, cred.Identity)
}

func TestLogin_RequiresTwoFactor_LeavesIdentityUnchanged(t *testing.T) {
	fc := &fakeClient{LoginErr: common.ErrRequiresTwoFactor}
	svc, store, _ := newAuthFixture(t, fc)
	ctx := context.Background()

	_, err := svc.Login(ctx, "ana@example.com", "secret", "", "")
	require.ErrorIs(t, err, common.ErrRequiresTwoFactor)
	require.Nil(t, svc.CurrentIdentity(), "still unauthenticated")

	cred, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, cred, "nothing persisted")

	// second attempt with the code transitions to authenticated
	fc.LoginErr = nil
	fc.LoginRet = loginResult(signedTestToken(t))
	fc.TwoFactorRet = &models.TwoFactorState{IsEnabled: true}

	id, err := svc.Login(ctx, "ana@example.com", "secret", "123456", "")
	require.NoError(t, err)
	require.Equal(t, "123456", fc.LastLoginReq.TwoFactorCode)
	require.Equal(t, id, svc.CurrentIdentity())
}

func TestLogin_BothCodeAndRecoveryRejected(t *testing.T) {
	fc := &fakeClient{}
	svc, _, _ := newAuthFixture(t, fc)

	_, err := svc.Login(context.Background(), "a@b.c", "pw", "123456", "recovery")
	require.Error(t, err)
	require.Zero(t, fc.LoginCalls, "must not reach the backend")
}

func TestLogin_InvalidCredentialsSurface(t *testing.T) {
	fc := &fakeClient{LoginErr: common.ErrInvalidCredentials}
	svc, _, _ := newAuthFixture(t, fc)

	_, err := svc.Login(context.Background(), "a@b.c", "wrong", "", "")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	require.Nil(t, svc.CurrentIdentity())
}

func TestLogin_TwoFactorNudge_ShownOncePerProcess(t *testing.T) {
	fc := &fakeClient{
		LoginRet:     loginResult(signedTestToken(t)),
		TwoFactorRet: &models.TwoFactorState{IsEnabled: false},
	}
	svc, _, _ := newAuthFixture(t, fc)
	ctx := context.Background()

	_, err := svc.Login(ctx, "ana@example.com", "secret", "", "")
	require.NoError(t, err)
	require.Equal(t, 1, fc.TwoFactorCalls)
	require.True(t, svc.ConsumeTwoFactorNudge())
	require.False(t, svc.ConsumeTwoFactorNudge(), "consumed")

	// a second login in the same process does not re-check
	_, err = svc.Login(ctx, "ana@example.com", "secret", "", "")
	require.NoError(t, err)
	require.Equal(t, 1, fc.TwoFactorCalls)
	require.False(t, svc.ConsumeTwoFactorNudge())
}

func TestLogin_NudgeSuppressedWhenEnabled(t *testing.T) {
	fc := &fakeClient{
		LoginRet:     loginResult(signedTestToken(t)),
		TwoFactorRet: &models.TwoFactorState{IsEnabled: true},
	}
	svc, _, _ := newAuthFixture(t, fc)

	_, err := svc.Login(context.Background(), "ana@example.com", "secret", "", "")
	require.NoError(t, err)
	require.False(t, svc.ConsumeTwoFactorNudge())
}

func TestRegister_DoesNotChainIntoNudge(t *testing.T) {
	fc := &fakeClient{RegisterRet: loginResult(signedTestToken(t))}
	svc, store, _ := newAuthFixture(t, fc)
	ctx := context.Background()

	id, err := svc.Register(ctx, models.Registration{Name: "Ana", Email: "ana@example.com", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, id, svc.CurrentIdentity())
	require.Zero(t, fc.TwoFactorCalls)

	cred, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cred)
}

func TestLogout_ClearsEverything(t *testing.T) {
	fc := &fakeClient{
		LoginRet:     loginResult(signedTestToken(t)),
		TwoFactorRet: &models.TwoFactorState{IsEnabled: false},
		ProfileRet:   &models.ExtendedProfile{Identity: models.Identity{ID: "42"}},
	}
	svc, store, profiles := newAuthFixture(t, fc)
	ctx := context.Background()

	_, err := svc.Login(ctx, "ana@example.com", "secret", "", "")
	require.NoError(t, err)
	_, err = svc.Profile(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))
	require.Equal(t, 1, fc.LogoutCalls)
	require.Nil(t, svc.CurrentIdentity())
	require.Nil(t, profiles.Get())
	require.Empty(t, fc.LastToken)
	require.False(t, svc.ConsumeTwoFactorNudge())

	cred, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, cred)
}

func TestLogout_ServerFailureStillClearsLocalState(t *testing.T) {
	fc := &fakeClient{
		LoginRet:     loginResult(signedTestToken(t)),
		TwoFactorRet: &models.TwoFactorState{IsEnabled: true},
		LogoutErr:    common.ErrTransport,
	}
	svc, store, _ := newAuthFixture(t, fc)
	ctx := context.Background()

	_, err := svc.Login(ctx, "ana@example.com", "secret", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))
	require.Nil(t, svc.CurrentIdentity())

	cred, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, cred)
}

func TestBootstrap_AdoptsStoredBearerWithoutNetwork(t *testing.T) {
	fc := &fakeClient{}
	svc, store, _ := newAuthFixture(t, fc)
	ctx := context.Background()

	token := signedTestToken(t)
	require.NoError(t, store.Save(ctx, token, models.Identity{ID: "42", Email: "ana@example.com"}))

	svc.Bootstrap(ctx)

	require.NotNil(t, svc.CurrentIdentity())
	require.Equal(t, "42", svc.CurrentIdentity().ID)
	require.Equal(t, token, fc.LastToken)
	require.Zero(t, fc.ProfileCalls, "optimistic adoption, no probe")
}

func TestBootstrap_NoCredentialNoCookie_StaysUnauthenticated(t *testing.T) {
	fc := &fakeClient{}
	svc, _, _ := newAuthFixture(t, fc)

	svc.Bootstrap(context.Background())

	require.Nil(t, svc.CurrentIdentity())
	require.Zero(t, fc.ProfileCalls)
}

func TestBootstrap_CookieProbeAdoptsIdentity(t *testing.T) {
	fc := &fakeClient{
		Cookies: []*http.Cookie{{Name: "RetroMarket.Session", Value: "abc"}},
		ProfileRet: &models.ExtendedProfile{
			Identity:       models.Identity{ID: "42", Email: "ana@example.com"},
			EmailConfirmed: true,
		},
	}
	svc, store, profiles := newAuthFixture(t, fc)
	ctx := context.Background()

	svc.Bootstrap(ctx)

	require.NotNil(t, svc.CurrentIdentity())
	require.Equal(t, 1, fc.ProfileCalls)
	require.NotNil(t, profiles.Get(), "probe result is cached")

	cred, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cred)
	require.Equal(t, models.CredentialCookie, cred.Kind, "token-less marker persisted")
}

func TestBootstrap_CookieProbeFailure_Unauthenticated(t *testing.T) {
	fc := &fakeClient{
		Cookies:    []*http.Cookie{{Name: "RetroMarket.Session", Value: "stale"}},
		ProfileErr: common.ErrSessionExpired,
	}
	svc, _, _ := newAuthFixture(t, fc)

	svc.Bootstrap(context.Background())

	require.Nil(t, svc.CurrentIdentity())
}

func TestBootstrap_CorruptStoredIdentity_ClearedNotThrown(t *testing.T) {
	fc := &fakeClient{}
	db := setupDB(t)
	store := session.NewStore(db, fc, testLogger())
	svc := NewAuthService(fc, store, cache.NewProfileCache(), testLogger())
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO metadata(key,value) VALUES('auth_identity', ?)`, []byte("not-json"))
	require.NoError(t, err)

	require.NotPanics(t, func() { svc.Bootstrap(ctx) })
	require.Nil(t, svc.CurrentIdentity())

	cred, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, cred, "corrupt entry cleared")
}

func TestProfile_FetchedOnceThenCached(t *testing.T) {
	fc := &fakeClient{
		ProfileRet: &models.ExtendedProfile{Identity: models.Identity{ID: "42"}},
	}
	svc, _, _ := newAuthFixture(t, fc)
	ctx := context.Background()

	p1, err := svc.Profile(ctx)
	require.NoError(t, err)
	p2, err := svc.Profile(ctx)
	require.NoError(t, err)
	require.Same(t, p1, p2)
	require.Equal(t, 1, fc.ProfileCalls)
}

func TestProfile_SessionExpiredForcesLocalLogout(t *testing.T) {
	fc := &fakeClient{
		LoginRet:     loginResult(signedTestToken(t)),
		TwoFactorRet: &models.TwoFactorState{IsEnabled: true},
	}
	svc, store, _ := newAuthFixture(t, fc)
	ctx := context.Background()

	_, err := svc.Login(ctx, "ana@example.com", "secret", "", "")
	require.NoError(t, err)

	fc.ProfileErr = common.ErrSessionExpired
	_, err = svc.Profile(ctx)
	require.ErrorIs(t, err, common.ErrSessionExpired)
	require.Nil(t, svc.CurrentIdentity())

	cred, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, cred)
}

func TestProfile_TransportFailureClearsCacheOnly(t *testing.T) {
	fc := &fakeClient{
		LoginRet:     loginResult(signedTestToken(t)),
		TwoFactorRet: &models.TwoFactorState{IsEnabled: true},
		ProfileErr:   common.ErrTransport,
	}
	svc, _, profiles := newAuthFixture(t, fc)
	ctx := context.Background()

	_, err := svc.Login(ctx, "ana@example.com", "secret", "", "")
	require.NoError(t, err)

	_, err = svc.Profile(ctx)
	require.ErrorIs(t, err, common.ErrTransport)
	require.Nil(t, profiles.Get())
	require.NotNil(t, svc.CurrentIdentity(), "transport failure does not log out")
}
