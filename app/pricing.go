package app

import (
	"context"

	"github.com/jrsteele09/gymflow/billing"
	"github.com/jrsteele09/gymflow/internal/errors"
)

// PricedPlan is a catalogue entry priced for one billing cycle.
type PricedPlan struct {
	billing.Plan
	Price  string
	Period string
}

// Pricing lists the plans for the chosen cycle.
func (a *App) Pricing(yearly bool) []PricedPlan {
	cycle := billing.CycleFor(yearly)
	plans := billing.Plans()
	out := make([]PricedPlan, 0, len(plans))
	for _, p := range plans {
		out = append(out, PricedPlan{Plan: p, Price: p.Price(cycle), Period: cycle.Period()})
	}
	return out
}

// Checkout requests a subscription for a paid plan and returns the payment handoff.
func (a *App) Checkout(ctx context.Context, planID string, yearly bool) (billing.CheckoutResponse, Route, error) {
	req, err := billing.NewCheckout(planID, billing.CycleFor(yearly))
	if err != nil {
		return billing.CheckoutResponse{}, RoutePricing, err
	}
	resp, err := a.client.Checkout(ctx, req)
	if err != nil {
		if r := routeFor(err); r != RouteNone {
			return billing.CheckoutResponse{}, r, err
		}
		return billing.CheckoutResponse{}, RoutePricing, err
	}
	if resp.RazorpayKey == "" || resp.SubscriptionID == "" {
		return resp, RoutePricing, errors.New("checkout response is missing payment details")
	}
	a.logger.Info().Str("plan", req.Plan).Str("cycle", string(req.BillingCycle)).
		Str("subscription_id", resp.SubscriptionID).Msg("checkout started")
	return resp, RoutePricing, nil
}
