package cli

import (
	"fmt"

	"github.com/jrsteele09/gymflow/app"
	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/tenants"
	"github.com/spf13/cobra"
)

func newGymsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gyms",
		Short: "List, create and switch gyms",
	}
	cmd.AddCommand(newGymsListCmd(e), newGymsCreateCmd(e), newGymsUseCmd(e))
	return cmd
}

func newGymsListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your gyms, marking the active one",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			gc, route, err := a.LoadGyms(cmd.Context())
			if err != nil {
				nextStep(out, routeOnFailure(route))
				return err
			}
			if done, err := settle(out, route, ""); done {
				return err
			}

			tw := newTable(out)
			fmt.Fprintln(tw, " \tID\tNAME\tCITY\tPHONE")
			fmt.Fprintln(tw, " \t--\t----\t----\t-----")
			for _, g := range gc.Gyms {
				marker := " "
				if g.ID == gc.ActiveID {
					marker = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", marker, g.ID, g.Name, orDash(g.City), orDash(g.Phone))
			}
			return tw.Flush()
		},
	}
}

func newGymsCreateCmd(e *env) *cobra.Command {
	var in tenants.GymInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a gym and make it active",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App()
			if err != nil {
				return err
			}
			gym, route, err := a.CreateGym(cmd.Context(), in)
			if err != nil {
				nextStep(cmd.OutOrStdout(), routeOnFailure(route))
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created gym %s (%s), now active\n", gym.Name, gym.ID)
			nextStep(out, route)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "Gym name (required)")
	f.StringVar(&in.Address, "address", "", "Street address")
	f.StringVar(&in.City, "city", "", "City")
	f.StringVar(&in.State, "state", "", "State")
	f.StringVar(&in.ZipCode, "zip", "", "Zip code")
	f.StringVar(&in.Phone, "phone", "", "Phone")
	f.StringVar(&in.Email, "email", "", "Contact email")
	return cmd
}

func newGymsUseCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "use <gym_id>",
		Short: "Switch the active gym",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			gc, route, err := a.LoadGyms(cmd.Context())
			if err != nil {
				nextStep(out, routeOnFailure(route))
				return err
			}
			if done, err := settle(out, route, ""); done {
				return err
			}
			gym := tenants.FindByID(gc.Gyms, args[0])
			if gym == nil {
				return errors.Wrapf(errors.ErrNotFound, "gym %s", args[0])
			}
			if err := a.SwitchGym(gym.ID); err != nil {
				return err
			}
			fmt.Fprintf(out, "Active gym: %s (%s)\n", gym.Name, gym.ID)
			return nil
		},
	}
}

// routeOnFailure keeps only routes worth a hint after a failed command.
func routeOnFailure(route app.Route) app.Route {
	if route == app.RouteLogin {
		return route
	}
	return app.RouteNone
}
