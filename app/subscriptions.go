package app

import (
	"context"

	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/members"
)

type Tab string

const (
	TabAll      Tab = "all"
	TabExpiring Tab = "expiring"
	TabExpired  Tab = "expired"
)

func ParseTab(raw string) (Tab, error) {
	switch t := Tab(raw); t {
	case TabAll, TabExpiring, TabExpired:
		return t, nil
	case "":
		return TabAll, nil
	}
	return "", errors.Wrapf(errors.ErrValidation, "unknown tab %q", raw)
}

type SubscriptionsState struct {
	Loading  bool
	Gyms     GymContext
	All      []members.Member // sorted by days left
	Expiring []members.Member // from the expiring endpoint, sorted by days left
	Error    string
	Route    Route
}

// Stats counts expired and active members from the full list and expiring ones from
// the server-filtered list.
func (s SubscriptionsState) Stats() members.Stats {
	all := members.Tally(s.All)
	return members.Stats{
		Total:    all.Total,
		Active:   all.Active,
		Expired:  all.Expired,
		Expiring: len(members.FilterByStatus(s.Expiring, members.StatusExpiring)),
	}
}

func (s SubscriptionsState) Tab(t Tab) []members.WithStatus {
	switch t {
	case TabExpiring:
		return members.Classify(s.Expiring)
	case TabExpired:
		return members.Classify(members.FilterByStatus(s.All, members.StatusExpired))
	default:
		return members.Classify(s.All)
	}
}

// SubscriptionsView monitors plan expiry.
type SubscriptionsView struct {
	view[SubscriptionsState]
	app *App
}

func (a *App) Subscriptions() *SubscriptionsView {
	return &SubscriptionsView{app: a}
}

func (v *SubscriptionsView) Load(ctx context.Context) (st SubscriptionsState) {
	v.apply(ctx, func(s *SubscriptionsState) {
		s.Loading = true
		s.Error = ""
	})
	defer func() {
		st = v.settle(ctx, func(s *SubscriptionsState) { s.Loading = false })
	}()

	gc, route, err := v.app.LoadGyms(ctx)
	if err != nil || route != RouteNone {
		v.apply(ctx, func(s *SubscriptionsState) {
			s.Route = route
			s.Error = errors.DisplayMessage(err)
		})
		return v.State()
	}
	if !v.apply(ctx, func(s *SubscriptionsState) { s.Gyms = gc }) {
		return v.State()
	}

	all, err := v.app.client.ListMembers(ctx, gc.ActiveID, "")
	var expiring []members.Member
	if err == nil {
		expiring, err = v.app.client.ExpiringMembers(ctx, gc.ActiveID, v.app.expiringDays)
	}
	v.apply(ctx, func(s *SubscriptionsState) {
		if err != nil {
			s.Route = routeFor(err)
			s.Error = errors.DisplayMessage(err)
			return
		}
		s.All = members.SortByDaysLeft(all)
		s.Expiring = members.SortByDaysLeft(expiring)
	})
	return v.State()
}
