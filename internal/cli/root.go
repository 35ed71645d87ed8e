// Package cli is the gymflow command-line front end. Each command runs one flow from
// package app and prints where the user should go next.
package cli

import (
	"github.com/jrsteele09/gymflow/internal/config"
	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

type flags struct {
	server         string
	configPath     string
	sessionBackend string
	debug          bool
	logLevel       string
	logFormat      string
}

// NewRootCmd creates the root cobra command for the gymflow CLI.
func NewRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "gymflow",
		Short: "GymFlow gym membership admin",
		Long:  "GymFlow manages gyms, members and subscriptions against the GymFlow API.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return e.close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&e.flags.server, "server", "", "GymFlow API URL (or GYMFLOW_API_URL env)")
	pf.StringVar(&e.flags.configPath, "config", config.DefaultPath(), "Config file")
	pf.StringVar(&e.flags.sessionBackend, "session-backend", "", "Session storage: file, sqlite or memory")
	pf.BoolVar(&e.flags.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&e.flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&e.flags.logFormat, "log-format", "", "Log format (console, json)")

	root.AddCommand(
		newLoginCmd(e),
		newSignupCmd(e),
		newLogoutCmd(e),
		newStatusCmd(e),
		newGymsCmd(e),
		newMembersCmd(e),
		newSubscriptionsCmd(e),
		newPricingCmd(e),
		newCheckoutCmd(e),
		newDevServerCmd(e),
		newVersionCmd(e),
	)
	return root
}
