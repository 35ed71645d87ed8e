package cli

import (
	"fmt"
	"strings"

	"github.com/jrsteele09/gymflow/internal/ui"
	"github.com/spf13/cobra"
)

// newPricingCmd lists plans. It works offline since the catalogue is built in.
func newPricingCmd(e *env) *cobra.Command {
	var yearly bool

	cmd := &cobra.Command{
		Use:   "pricing",
		Short: "List subscription plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App()
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "PLAN\tPRICE\tFEATURES")
			fmt.Fprintln(tw, "----\t-----\t--------")
			for _, p := range a.Pricing(yearly) {
				name := p.Name
				if p.Popular {
					name += " (popular)"
				}
				fmt.Fprintf(tw, "%s\t%s%s\t%s\n", name, p.Price, p.Period, strings.Join(p.Features, ", "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&yearly, "yearly", false, "Show yearly prices")
	return cmd
}

func newCheckoutCmd(e *env) *cobra.Command {
	var (
		plan   string
		yearly bool
	)

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Start a paid subscription",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App()
			if err != nil {
				return err
			}
			resp, route, err := a.Checkout(cmd.Context(), plan, yearly)
			out := cmd.OutOrStdout()
			if err != nil {
				nextStep(out, routeOnFailure(route))
				return err
			}
			fmt.Fprintln(out, ui.Bold("Complete payment in Razorpay checkout"))
			fmt.Fprintf(out, "Key:          %s\n", resp.RazorpayKey)
			fmt.Fprintf(out, "Subscription: %s\n", resp.SubscriptionID)
			return nil
		},
	}
	cmd.Flags().StringVar(&plan, "plan", "", "Plan id: standard or pro")
	cmd.Flags().BoolVar(&yearly, "yearly", false, "Bill yearly")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}
