// Package app holds the front-end flows. Each flow returns the Route the user should
// land on next instead of navigating itself.
package app

import (
	"context"
	"strings"

	"github.com/jrsteele09/gymflow/apiclient"
	"github.com/jrsteele09/gymflow/internal/config"
	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/session"
	"github.com/jrsteele09/gymflow/tenants"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Route string

const (
	RouteNone          Route = ""
	RouteLogin         Route = "/login"
	RouteSignup        Route = "/signup"
	RouteGymSetup      Route = "/gym-setup"
	RouteDashboard     Route = "/admin"
	RouteMembers       Route = "/members"
	RouteSubscriptions Route = "/subscriptions"
	RoutePricing       Route = "/pricing"
)

// ErrPasswordMismatch is returned by Signup before any request is sent.
var ErrPasswordMismatch = errors.New("passwords do not match")

type App struct {
	client       *apiclient.Client
	sessions     *session.Manager
	resolver     *tenants.Resolver
	logger       zerolog.Logger
	expiringDays int
}

type Option func(*App)

func WithLogger(l zerolog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithExpiringWindow sets the days passed to the expiring members endpoint.
func WithExpiringWindow(days int) Option {
	return func(a *App) {
		if days >= 0 {
			a.expiringDays = days
		}
	}
}

func New(client *apiclient.Client, opts ...Option) *App {
	a := &App{
		client:       client,
		sessions:     client.Session(),
		resolver:     tenants.NewResolver(client.Session().Store()),
		logger:       log.Logger,
		expiringDays: config.DefaultExpiringWindowDays,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) Resolver() *tenants.Resolver {
	return a.resolver
}

// LoginResult reports where a successful login lands.
type LoginResult struct {
	Route Route
	GymID string
}

// Login stores the issued tokens and resolves the landing page: the dashboard when the
// account has a gym, gym setup when it has none.
func (a *App) Login(ctx context.Context, email, password string) (LoginResult, error) {
	pair, err := a.client.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return LoginResult{Route: RouteLogin}, err
	}
	if err := a.sessions.Save(pair.Access, pair.Refresh); err != nil {
		return LoginResult{Route: RouteLogin}, errors.Wrapf(err, "store session")
	}
	a.logger.Info().Str("email", strings.TrimSpace(email)).Msg("logged in")

	gc, route, err := a.LoadGyms(ctx)
	if err != nil {
		return LoginResult{Route: route}, err
	}
	if route != RouteNone {
		return LoginResult{Route: route}, nil
	}
	return LoginResult{Route: RouteDashboard, GymID: gc.ActiveID}, nil
}

// Signup creates the account and sends the user to login. There is no auto-login.
func (a *App) Signup(ctx context.Context, email, password, confirm string) (Route, error) {
	if password != confirm {
		return RouteSignup, &errors.DisplayError{Err: ErrPasswordMismatch, Message: "Passwords do not match."}
	}
	if err := a.client.Signup(ctx, strings.TrimSpace(email), password); err != nil {
		return RouteSignup, err
	}
	return RouteLogin, nil
}

// Logout removes the tokens and the active gym selection.
func (a *App) Logout() (Route, error) {
	if err := a.sessions.Clear(); err != nil {
		return RouteNone, err
	}
	a.logger.Info().Msg("logged out")
	return RouteLogin, nil
}

// routeFor maps an error to the page the user is sent to, if any.
func routeFor(err error) Route {
	if errors.Is(err, errors.ErrSessionExpired) {
		return RouteLogin
	}
	return RouteNone
}
