package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jrsteele09/gymflow/devserver"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newDevServerCmd(e *env) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "dev-server",
		Short: "Run an in-memory GymFlow API for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = e.cfg.GetPort()
			}
			displayAppname(cmd.OutOrStdout(), e.cfg.GetAppName())

			handler := devserver.New(e.cfg, devserver.InMemoryRepos(), devserver.WithLogger(e.logger))
			server := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
			return serve(cmd.Context(), server, e.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from GYMFLOW_DEV_PORT)")
	return cmd
}

// serve runs server until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, server *http.Server, logger zerolog.Logger) error {
	errs := make(chan error, 1)
	go func() { errs <- listenAndServe(server, logger) }()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	return shutdown(server)
}

func listenAndServe(server *http.Server, logger zerolog.Logger) error {
	logger.Info().Str("addr", server.Addr).Msg("dev server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
