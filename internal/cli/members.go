package cli

import (
	"fmt"

	"github.com/jrsteele09/gymflow/app"
	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/members"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newMembersCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Manage the active gym's members",
	}
	cmd.AddCommand(newMembersListCmd(e), newMembersAddCmd(e), newMembersUpdateCmd(e), newMembersDeleteCmd(e))
	return cmd
}

func newMembersListCmd(e *env) *cobra.Command {
	var search, plan string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List members sorted by days left",
		RunE: func(cmd *cobra.Command, args []string) error {
			if plan != members.FilterAll && !members.Plan(plan).Valid() {
				return errors.Wrapf(errors.ErrValidation, "unknown plan %q", plan)
			}
			a, err := e.App()
			if err != nil {
				return err
			}
			v := a.Members()
			v.FilterPlan(plan)
			st := v.Load(cmd.Context(), search)

			out := cmd.OutOrStdout()
			if done, err := settle(out, st.Route, st.Error); done {
				return err
			}
			if gym := st.Gyms.Active(); gym != nil {
				fmt.Fprintf(out, "%s\n", gym.Name)
			}
			return printMembers(out, st.Visible())
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Match name or phone")
	cmd.Flags().StringVar(&plan, "plan", members.FilterAll, "Filter by plan: all, monthly or yearly")
	return cmd
}

// memberFlags binds the member form to flags shared by add and update.
func memberFlags(f *pflag.FlagSet, form *members.Form) {
	f.StringVar(&form.Name, "name", "", "Member name")
	f.StringVar(&form.Phone, "phone", "", "Phone number")
	f.Var(newPlanValue(&form.Plan), "plan", "Plan: monthly or yearly")
	f.StringVar(&form.StartDate, "start", "", "Start date (YYYY-MM-DD)")
	f.StringVar(&form.EndDate, "end", "", "End date (YYYY-MM-DD)")
	f.StringVar(&form.CourseTaken, "course", "", "Course taken")
	f.StringVar(&form.OfferTaken, "offer", "", "Offer taken")
}

// planValue is a pflag.Value that only accepts known plans.
type planValue struct{ plan *members.Plan }

func newPlanValue(p *members.Plan) *planValue { return &planValue{plan: p} }

func (v *planValue) String() string {
	if v.plan == nil {
		return ""
	}
	return string(*v.plan)
}

func (v *planValue) Set(s string) error {
	p := members.Plan(s)
	if !p.Valid() {
		return fmt.Errorf("must be %s or %s", members.PlanMonthly, members.PlanYearly)
	}
	*v.plan = p
	return nil
}

func (v *planValue) Type() string { return "plan" }

// loadDashboard resolves the active gym so member writes know where to go.
func loadDashboard(cmd *cobra.Command, e *env) (*app.DashboardView, bool, error) {
	a, err := e.App()
	if err != nil {
		return nil, true, err
	}
	dash := a.Dashboard()
	st := dash.Load(cmd.Context())
	done, err := settle(cmd.OutOrStdout(), st.Route, st.Error)
	return dash, done, err
}

func newMembersAddCmd(e *env) *cobra.Command {
	form := members.NewForm()

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a member to the active gym",
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, done, err := loadDashboard(cmd, e)
			if done {
				return err
			}
			m, err := dash.Save(cmd.Context(), "", form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s): %s\n", m.Name, m.ID, m.Status())
			return nil
		},
	}
	memberFlags(cmd.Flags(), &form)
	return cmd
}

func newMembersUpdateCmd(e *env) *cobra.Command {
	var changes members.Form

	cmd := &cobra.Command{
		Use:   "update <member_id>",
		Short: "Change a member's details; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, done, err := loadDashboard(cmd, e)
			if done {
				return err
			}
			var current *members.Member
			for i, m := range dash.State().Members {
				if m.ID == args[0] {
					current = &dash.State().Members[i]
					break
				}
			}
			if current == nil {
				return errors.Wrapf(errors.ErrNotFound, "member %s", args[0])
			}

			form := members.FormFrom(*current)
			f := cmd.Flags()
			apply := func(flag string, dst *string, src string) {
				if f.Changed(flag) {
					*dst = src
				}
			}
			apply("name", &form.Name, changes.Name)
			apply("phone", &form.Phone, changes.Phone)
			apply("start", &form.StartDate, changes.StartDate)
			apply("end", &form.EndDate, changes.EndDate)
			apply("course", &form.CourseTaken, changes.CourseTaken)
			apply("offer", &form.OfferTaken, changes.OfferTaken)
			if f.Changed("plan") {
				form.Plan = changes.Plan
			}

			m, err := dash.Save(cmd.Context(), current.ID, form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s): %s, %s\n", m.Name, m.ID, m.Status(), m.DaysText())
			return nil
		},
	}
	memberFlags(cmd.Flags(), &changes)
	return cmd
}

func newMembersDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <member_id>",
		Short: "Delete a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, done, err := loadDashboard(cmd, e)
			if done {
				return err
			}
			if err := dash.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted member %s\n", args[0])
			return nil
		},
	}
}
