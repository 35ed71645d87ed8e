package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jrsteele09/gymflow/app"
	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/internal/ui"
	"github.com/jrsteele09/gymflow/members"
	"github.com/spf13/cobra"
)

// nextStep prints what the user should run to reach route.
func nextStep(w io.Writer, route app.Route) {
	switch route {
	case app.RouteLogin:
		fmt.Fprintln(w, "Not logged in. Run: gymflow login")
	case app.RouteSignup:
		fmt.Fprintln(w, "Create an account with: gymflow signup")
	case app.RouteGymSetup:
		fmt.Fprintln(w, "No gym yet. Run: gymflow gyms create --name <name>")
	case app.RouteDashboard:
		fmt.Fprintln(w, "Next: gymflow members list")
	case app.RoutePricing:
		fmt.Fprintln(w, "See plans with: gymflow pricing")
	}
}

// settle turns a view's Route and Error into the command result. Landing on login is a
// failure; landing on gym setup only prints a hint.
func settle(w io.Writer, route app.Route, msg string) (done bool, err error) {
	nextStep(w, route)
	if msg != "" {
		return true, errors.New(msg)
	}
	if route == app.RouteLogin {
		return true, errors.ErrNotAuthenticated
	}
	return route != app.RouteNone, nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
}

// printMembers renders members with the status pill last so colour codes do not skew
// column widths.
func printMembers(w io.Writer, list []members.WithStatus) error {
	if len(list) == 0 {
		fmt.Fprintln(w, "No members found.")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tPLAN\tEND DATE\tDAYS LEFT\tSTATUS")
	fmt.Fprintln(tw, "--\t----\t-----\t----\t--------\t---------\t------")
	for _, m := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.ID, m.Name, orDash(m.Phone), orDash(string(m.Plan)), orDash(m.EndDate),
			m.DaysText(), ui.Status(string(m.Status)))
	}
	return tw.Flush()
}

func printStats(w io.Writer, s members.Stats) {
	fmt.Fprintf(w, "%s %d   %s %d   %s %d   %s %d\n",
		ui.Bold("Total"), s.Total,
		ui.Colored("Active", string(members.StatusActive)), s.Active,
		ui.Colored("Expiring", string(members.StatusExpiring)), s.Expiring,
		ui.Colored("Expired", string(members.StatusExpired)), s.Expired)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// prompt reads one line from the command's input when value is empty.
func (e *env) prompt(cmd *cobra.Command, label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	if e.in == nil {
		e.in = bufio.NewReader(cmd.InOrStdin())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ", label)
	line, err := e.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
