package client

import (
	"context"
	"net/http"

	"github.com/retromarket/retromarket/internal/client/models"
)

type Client interface {
	Close() error
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Register(ctx context.Context, reg models.Registration) (*LoginResult, error)
	Profile(ctx context.Context) (*models.ExtendedProfile, error)
	Logout(ctx context.Context) error
	TwoFactor(ctx context.Context, action TwoFactorAction) (*models.TwoFactorState, error)
	SetToken(token string)
	VisibleCookies() []*http.Cookie
}
