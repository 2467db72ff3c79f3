package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/retromarket/retromarket/internal/client/cache"
	"github.com/retromarket/retromarket/internal/client/client"
	"github.com/retromarket/retromarket/internal/client/config"
	"github.com/retromarket/retromarket/internal/client/services"
	"github.com/retromarket/retromarket/internal/client/session"
	"github.com/retromarket/retromarket/internal/logging"
)

// App wires together the RetroMarket client services behind the REPL.
type App struct {
	config    *config.Config
	api       client.Client
	auth      services.AuthService
	twoFactor services.TwoFactorService
	log       logging.Logger
	reader    *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	log := newLogger(c.LogLevel)

	db, err := client.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	api, err := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, c.UseCookieSession)
	if err != nil {
		return nil, err
	}

	store := session.NewStore(db, api, log)
	profiles := cache.NewProfileCache()

	return &App{
		config:    c,
		api:       api,
		auth:      services.NewAuthService(api, store, profiles, log),
		twoFactor: services.NewTwoFactorService(api, log),
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

func newLogger(level string) logging.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	return logging.NewSlogLogger(slog.New(h))
}

// Run bootstraps the session and starts the REPL, blocking until exit.
func (a *App) Run(ctx context.Context) {
	defer a.api.Close()
	a.auth.Bootstrap(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.auth.CurrentIdentity() != nil
}
