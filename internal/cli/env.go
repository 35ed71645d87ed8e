package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jrsteele09/gymflow/apiclient"
	"github.com/jrsteele09/gymflow/app"
	"github.com/jrsteele09/gymflow/internal/config"
	"github.com/jrsteele09/gymflow/internal/logging"
	"github.com/jrsteele09/gymflow/session"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// env is the state shared by every command of one invocation. The session store and
// API client are opened on first use so that commands like version never touch disk.
type env struct {
	flags  flags
	cfg    config.Config
	logger zerolog.Logger
	in     *bufio.Reader

	store  session.Store
	closer io.Closer
	client *apiclient.Client
	app    *app.App
}

func (e *env) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(e.flags.configPath)
	if err != nil {
		return err
	}
	e.cfg = cfg

	level := cfg.GetLogLevel()
	if e.flags.logLevel != "" {
		level = e.flags.logLevel
	}
	if e.flags.debug {
		level = "debug"
	}
	format := cfg.GetLogFormat()
	if e.flags.logFormat != "" {
		format = e.flags.logFormat
	}
	e.logger = logging.NewWithWriter(logging.ParseLevel(level), format, cmd.ErrOrStderr())
	return nil
}

func (e *env) apiURL() string {
	if e.flags.server != "" {
		return trimURL(e.flags.server)
	}
	return e.cfg.GetAPIBaseURL()
}

func (e *env) backend() string {
	if e.flags.sessionBackend != "" {
		return e.flags.sessionBackend
	}
	return e.cfg.GetSessionBackend()
}

// sessionPath follows a --session-backend override to that backend's default file.
func (e *env) sessionPath() string {
	if e.flags.sessionBackend != "" && e.flags.sessionBackend != e.cfg.GetSessionBackend() {
		return config.SessionPathIn(e.cfg.GetDataFolder(), e.flags.sessionBackend)
	}
	return e.cfg.GetSessionPath()
}

// Store opens the configured session store.
func (e *env) Store() (session.Store, error) {
	if e.store != nil {
		return e.store, nil
	}
	store, closer, err := OpenStore(e.backend(), e.sessionPath())
	if err != nil {
		return nil, err
	}
	e.store, e.closer = store, closer
	return store, nil
}

// App builds the API client and flows on top of the session store.
func (e *env) App() (*app.App, error) {
	if e.app != nil {
		return e.app, nil
	}
	store, err := e.Store()
	if err != nil {
		return nil, err
	}

	logger := e.logger
	e.client = apiclient.New(e.apiURL(), session.NewManager(store),
		apiclient.WithTimeout(e.cfg.GetRequestTimeout()),
		apiclient.WithLogger(logger),
		apiclient.WithUserAgent(fmt.Sprintf("gymflow-cli/%s", Version)),
		apiclient.WithSessionExpiredHandler(func() {
			logger.Warn().Msg("session expired, run gymflow login")
		}),
		apiclient.WithTransitionHook(func(method, path string, from, to apiclient.State) {
			logger.Debug().Str("method", method).Str("path", path).
				Stringer("from", from).Stringer("to", to).Msg("auth exchange")
		}),
	)
	e.app = app.New(e.client,
		app.WithLogger(logger),
		app.WithExpiringWindow(e.cfg.GetExpiringWindowDays()),
	)
	return e.app, nil
}

func (e *env) close() error {
	if e.closer == nil {
		return nil
	}
	err := e.closer.Close()
	e.closer, e.store, e.client, e.app = nil, nil, nil, nil
	return err
}
