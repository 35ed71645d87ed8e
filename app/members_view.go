package app

import (
	"context"
	"strings"

	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/members"
)

type MembersState struct {
	Loading    bool
	Gyms       GymContext
	Search     string
	PlanFilter string
	Members    []members.Member // sorted by days left
	Error      string
	Route      Route
}

// Visible applies the plan filter and classifies what remains.
func (s MembersState) Visible() []members.WithStatus {
	return members.Classify(members.FilterByPlan(s.Members, s.PlanFilter))
}

// MembersView is the searchable all-members grid.
type MembersView struct {
	view[MembersState]
	app *App
}

func (a *App) Members() *MembersView {
	v := &MembersView{app: a}
	v.state.PlanFilter = members.FilterAll
	return v
}

// Load resolves the gym and fetches members matching search. Search runs on the
// server; the plan filter is applied locally. The gym is resolved on the first Load
// only, so a switch made elsewhere takes effect in a new view.
func (v *MembersView) Load(ctx context.Context, search string) (st MembersState) {
	search = strings.TrimSpace(search)
	v.apply(ctx, func(s *MembersState) {
		s.Loading = true
		s.Error = ""
		s.Search = search
	})
	defer func() {
		st = v.settle(ctx, func(s *MembersState) { s.Loading = false })
	}()

	gymID := v.State().Gyms.ActiveID
	if gymID == "" {
		gc, route, err := v.app.LoadGyms(ctx)
		if err != nil || route != RouteNone {
			v.apply(ctx, func(s *MembersState) {
				s.Route = route
				s.Error = errors.DisplayMessage(err)
			})
			return v.State()
		}
		if !v.apply(ctx, func(s *MembersState) { s.Gyms = gc }) {
			return v.State()
		}
		gymID = gc.ActiveID
	}

	list, err := v.app.client.ListMembers(ctx, gymID, search)
	v.apply(ctx, func(s *MembersState) {
		if err != nil {
			s.Route = routeFor(err)
			s.Error = errors.DisplayMessage(err)
			return
		}
		s.Members = members.SortByDaysLeft(list)
	})
	return v.State()
}

// FilterPlan sets the local plan filter ("all", "monthly" or "yearly").
func (v *MembersView) FilterPlan(plan string) {
	v.apply(context.Background(), func(s *MembersState) {
		if plan == "" {
			plan = members.FilterAll
		}
		s.PlanFilter = plan
	})
}
