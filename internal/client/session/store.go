// Package session persists the minimal credential needed to re-authenticate:
// a bearer token plus an identity snapshot, or a token-less marker for a
// server-managed cookie session. Backed by the client metadata repository.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/retromarket/retromarket/internal/client/models"
	"github.com/retromarket/retromarket/internal/client/repositories/metadata"
	"github.com/retromarket/retromarket/internal/common"
	"github.com/retromarket/retromarket/internal/dbx"
	"github.com/retromarket/retromarket/internal/logging"
)

const (
	keyToken    = "auth_token"
	keyIdentity = "auth_identity"
)

// sessionCookieNames is the allow-list of cookie names whose presence
// suggests a live server-side session. The identity cookie's httpOnly
// sibling is never visible here; this is a heuristic, not a trust decision.
var sessionCookieNames = map[string]struct{}{
	"RetroMarket.Session": {},
	"XSRF-TOKEN":          {},
}

// CookieSource exposes the cookies currently visible to the client,
// typically the API client's jar.
type CookieSource interface {
	VisibleCookies() []*http.Cookie
}

// Store is the durable credential store.
type Store struct {
	db      *sql.DB
	cookies CookieSource
	log     logging.Logger
}

func NewStore(db *sql.DB, cookies CookieSource, log logging.Logger) *Store {
	return &Store{db: db, cookies: cookies, log: log.With("component", "session")}
}

// Save overwrites the durable credential in a single transaction: both the
// token and the identity snapshot land together or not at all. An empty
// token records a marker for a cookie-backed session.
func (s *Store) Save(ctx context.Context, token string, identity models.Identity) error {
	snapshot, err := json.Marshal(identity)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, keyIdentity, snapshot)
	})
}

// Load returns the stored credential, or nil when absent. A malformed
// entry (identity that does not deserialize, token that is not a
// structurally valid JWT) is treated as absent and silently cleared so a
// corrupt store can never wedge the login screen. The token is not
// validated against the backend.
func (s *Store) Load(ctx context.Context) (*models.Credential, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	snapshot, err := repo.Get(ctx, keyIdentity)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, nil
	}

	tokenBytes, err := repo.Get(ctx, keyToken)
	if err != nil {
		return nil, err
	}

	var identity models.Identity
	if err := json.Unmarshal(snapshot, &identity); err != nil || identity.ID == "" {
		s.log.Warn(ctx, "stored identity is malformed, clearing credential")
		return nil, s.clearCorrupt(ctx)
	}

	token := string(tokenBytes)
	if token == "" {
		return &models.Credential{Kind: models.CredentialCookie, Identity: identity}, nil
	}

	if !wellFormedToken(token) {
		s.log.Warn(ctx, "stored token is malformed, clearing credential")
		return nil, s.clearCorrupt(ctx)
	}

	return &models.Credential{Kind: models.CredentialBearer, Token: token, Identity: identity}, nil
}

// clearCorrupt drops a malformed credential. A failure here means the
// local database itself is unusable, which callers surface as
// ErrCorruptLocalState rather than retrying.
func (s *Store) clearCorrupt(ctx context.Context) error {
	if err := s.Clear(ctx); err != nil {
		return fmt.Errorf("%w: %v", common.ErrCorruptLocalState, err)
	}
	return nil
}

// Clear removes the durable credential. Idempotent.
func (s *Store) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, keyToken); err != nil {
			return err
		}
		return repo.Delete(ctx, keyIdentity)
	})
}

// HasSessionCookie reports whether at least one allow-listed session
// cookie is present with a non-empty value.
func (s *Store) HasSessionCookie() bool {
	if s.cookies == nil {
		return false
	}
	for _, c := range s.cookies.VisibleCookies() {
		if _, ok := sessionCookieNames[c.Name]; ok && strings.TrimSpace(c.Value) != "" {
			return true
		}
	}
	return false
}

// wellFormedToken checks JWT structure without verifying the signature;
// signature verification is the backend's job.
func wellFormedToken(token string) bool {
	parser := jwt.NewParser()
	_, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	return err == nil
}
