package cli

import (
	"fmt"

	"github.com/jrsteele09/gymflow/app"
	"github.com/jrsteele09/gymflow/internal/ui"
	"github.com/spf13/cobra"
)

func newSubscriptionsCmd(e *env) *cobra.Command {
	var tab string

	cmd := &cobra.Command{
		Use:   "subscriptions",
		Short: "Show plan expiry for the active gym",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.ParseTab(tab)
			if err != nil {
				return err
			}
			a, err := e.App()
			if err != nil {
				return err
			}
			st := a.Subscriptions().Load(cmd.Context())

			out := cmd.OutOrStdout()
			if done, err := settle(out, st.Route, st.Error); done {
				return err
			}
			printStats(out, st.Stats())
			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.Bold(fmt.Sprintf("%s members", t)))
			return printMembers(out, st.Tab(t))
		},
	}
	cmd.Flags().StringVar(&tab, "tab", string(app.TabAll), "all, expiring or expired")
	return cmd
}
