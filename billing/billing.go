package billing

import (
	"fmt"
	"strings"

	"github.com/jrsteele09/gymflow/internal/errors"
)

type Cycle string

const (
	CycleMonthly Cycle = "monthly"
	CycleYearly  Cycle = "yearly"
)

func CycleFor(yearly bool) Cycle {
	if yearly {
		return CycleYearly
	}
	return CycleMonthly
}

// Plan is one tier on the pricing page. Prices are in cents.
type Plan struct {
	ID           string
	Name         string
	MonthlyCents int
	YearlyCents  int
	Popular      bool
	Features     []string
}

var catalogue = []Plan{
	{
		ID:   "free",
		Name: "Free Plan",
		Features: []string{
			"One gym",
			"Up to 25 members",
			"Expiry dashboard",
			"Email support",
		},
	},
	{
		ID:           "standard",
		Name:         "Standard Plan",
		MonthlyCents: 999,
		YearlyCents:  9999,
		Popular:      true,
		Features: []string{
			"Unlimited members",
			"Subscription tracking with search and plan filters",
			"Priority email support",
			"Multiple gyms",
		},
	},
	{
		ID:           "pro",
		Name:         "Pro Plan",
		MonthlyCents: 1999,
		YearlyCents:  19999,
		Features: []string{
			"Everything in Standard",
			"Expiry reminders",
			"24/7 priority support",
			"Staff accounts",
		},
	},
}

// Plans returns the pricing catalogue in display order.
func Plans() []Plan {
	out := make([]Plan, len(catalogue))
	copy(out, catalogue)
	return out
}

// Lookup finds a plan by id, case-insensitively.
func Lookup(id string) (Plan, error) {
	for _, p := range catalogue {
		if strings.EqualFold(p.ID, strings.TrimSpace(id)) {
			return p, nil
		}
	}
	return Plan{}, errors.Wrapf(errors.ErrValidation, "unknown plan %q", id)
}

func (p Plan) PriceCents(c Cycle) int {
	if c == CycleYearly {
		return p.YearlyCents
	}
	return p.MonthlyCents
}

// Price formats the plan price for the cycle, e.g. "$9.99".
func (p Plan) Price(c Cycle) string {
	cents := p.PriceCents(c)
	if cents == 0 {
		return "$0"
	}
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

// Period is the label shown next to the price.
func (c Cycle) Period() string {
	if c == CycleYearly {
		return "/year"
	}
	return "/month"
}

// Free reports whether checkout can be skipped for the plan.
func (p Plan) Free() bool {
	return p.MonthlyCents == 0 && p.YearlyCents == 0
}

// CheckoutRequest starts a paid subscription.
type CheckoutRequest struct {
	Plan         string `json:"plan"`
	BillingCycle Cycle  `json:"billing_cycle"`
}

// CheckoutResponse carries what the payment widget needs.
type CheckoutResponse struct {
	RazorpayKey    string `json:"razorpay_key"`
	SubscriptionID string `json:"subscription_id"`
}

// NewCheckout validates the plan and cycle. Free plans need no checkout.
func NewCheckout(planID string, cycle Cycle) (CheckoutRequest, error) {
	plan, err := Lookup(planID)
	if err != nil {
		return CheckoutRequest{}, err
	}
	if plan.Free() {
		return CheckoutRequest{}, errors.Wrapf(errors.ErrValidation, "%s needs no checkout", plan.Name)
	}
	if cycle != CycleMonthly && cycle != CycleYearly {
		return CheckoutRequest{}, errors.Wrapf(errors.ErrValidation, "unknown billing cycle %q", cycle)
	}
	return CheckoutRequest{Plan: plan.ID, BillingCycle: cycle}, nil
}
