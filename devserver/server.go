// Package devserver is an in-memory implementation of the gym API. It backs the
// end-to-end tests and `gymflow dev-server`.
package devserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/gymflow/internal/config"
	"github.com/jrsteele09/gymflow/internal/ui"
	"github.com/jrsteele09/gymflow/members"
	memberrepofake "github.com/jrsteele09/gymflow/members/repofake"
	"github.com/jrsteele09/gymflow/tenants"
	tenantrepofakes "github.com/jrsteele09/gymflow/tenants/repofakes"
	"github.com/jrsteele09/gymflow/token"
	"github.com/jrsteele09/gymflow/token/jwt"
	"github.com/jrsteele09/gymflow/token/refresh"
	refreshrepofake "github.com/jrsteele09/gymflow/token/refresh/repofake"
	"github.com/jrsteele09/gymflow/users"
	fakeuserrepo "github.com/jrsteele09/gymflow/users/repofake"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const issuer = "gymflow-dev-server"

// NowTimeFunc is the server clock used for days_left. It can be overridden in tests.
var NowTimeFunc = time.Now

// Repos groups the storage the server runs on.
type Repos struct {
	Users         users.UserRepo
	Gyms          tenants.Repo
	Members       members.Repo
	RefreshTokens refresh.Repo
}

// InMemoryRepos returns empty in-memory storage.
func InMemoryRepos() Repos {
	return Repos{
		Users:         fakeuserrepo.NewFakeUserRepo(),
		Gyms:          tenantrepofakes.NewFakeTenantRepo(),
		Members:       memberrepofake.NewFakeMemberRepo(),
		RefreshTokens: refreshrepofake.NewFakeRefreshTokenRepo(),
	}
}

// Config is the part of the application config the server reads.
type Config interface {
	config.EnvConfig
	config.ServerConfig
}

type Server struct {
	env         string
	mux         *http.ServeMux
	routes      []string
	repos       Repos
	creator     *jwt.Creator
	inspector   *jwt.Inspector
	refresh     *refresh.Manager
	razorpayKey string
	logger      zerolog.Logger
}

type Option func(*Server)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

func New(c Config, repos Repos, opts ...Option) *Server {
	signer := token.NewHMACSigner(c.GetJWTSecret())
	s := &Server{
		env:         c.GetEnv(),
		mux:         http.NewServeMux(),
		repos:       repos,
		creator:     jwt.NewCreator(signer, issuer, c.GetAccessTokenExpiry()),
		inspector:   jwt.NewInspector(signer, issuer),
		refresh:     refresh.NewManager(repos.RefreshTokens, c.GetRefreshTokenExpiry()),
		razorpayKey: c.GetRazorpayKey(),
		logger:      log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.initRoutes()
	s.logRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes lists the registered patterns in registration order.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		method, path, found := strings.Cut(route, " ")
		if !found {
			method, path = "", route
		}
		s.logRoute(method, path)
	}
}

func (s *Server) logRoute(method, path string) {
	s.logger.Info().Msg(fmt.Sprintf("[ %s ] %s", ui.Method(method), path))
}
