package devserver

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/gymflow/billing"
)

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var in billing.CheckoutRequest
	if !decodeBody(w, r, &in) {
		return
	}
	if in.BillingCycle == "" {
		in.BillingCycle = billing.CycleMonthly
	}
	fe := fieldErrors{}
	plan, err := billing.Lookup(in.Plan)
	switch {
	case err != nil:
		fe.add("plan", `"`+in.Plan+`" is not a valid choice.`)
	case plan.Free():
		fe.add("plan", plan.Name+" does not need a checkout.")
	}
	if in.BillingCycle != billing.CycleMonthly && in.BillingCycle != billing.CycleYearly {
		fe.add("billing_cycle", `"`+string(in.BillingCycle)+`" is not a valid choice.`)
	}
	if len(fe) > 0 {
		writeFieldErrors(w, fe)
		return
	}
	req := billing.CheckoutRequest{Plan: plan.ID, BillingCycle: in.BillingCycle}

	subscriptionID := "sub_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:14]
	s.logger.Info().Str("user_id", userID(r)).Str("plan", req.Plan).
		Str("cycle", string(req.BillingCycle)).Str("subscription_id", subscriptionID).Msg("checkout")
	writeJSON(w, http.StatusOK, billing.CheckoutResponse{
		RazorpayKey:    s.razorpayKey,
		SubscriptionID: subscriptionID,
	})
}
