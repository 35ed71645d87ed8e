package app

import (
	"context"

	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/members"
)

type DashboardState struct {
	Loading bool
	Gyms    GymContext
	Members []members.Member
	Stats   members.Stats
	Error   string
	Route   Route
}

// Classified pairs each member with its status, newest first as the server returned.
func (s DashboardState) Classified() []members.WithStatus {
	return members.Classify(s.Members)
}

// DashboardView is the admin landing page: stats plus add, edit and delete.
type DashboardView struct {
	view[DashboardState]
	app *App
}

func (a *App) Dashboard() *DashboardView {
	return &DashboardView{app: a}
}

// Load fetches the gyms and the active gym's members.
func (v *DashboardView) Load(ctx context.Context) (st DashboardState) {
	v.apply(ctx, func(s *DashboardState) {
		s.Loading = true
		s.Error = ""
	})
	defer func() {
		st = v.settle(ctx, func(s *DashboardState) { s.Loading = false })
	}()

	gc, route, err := v.app.LoadGyms(ctx)
	if err != nil || route != RouteNone {
		v.apply(ctx, func(s *DashboardState) {
			s.Route = route
			s.Error = errors.DisplayMessage(err)
		})
		return v.State()
	}
	if !v.apply(ctx, func(s *DashboardState) { s.Gyms = gc }) {
		return v.State()
	}

	list, err := v.app.client.ListMembers(ctx, gc.ActiveID, "")
	v.apply(ctx, func(s *DashboardState) {
		if err != nil {
			s.Route = routeFor(err)
			s.Error = errors.DisplayMessage(err)
			return
		}
		s.Members = list
		s.Stats = members.Tally(list)
	})
	return v.State()
}

// Save creates a member, or updates memberID when it is set. The local list is updated
// from the server's reply without a refetch.
func (v *DashboardView) Save(ctx context.Context, memberID string, form members.Form) (members.Member, error) {
	gymID := v.State().Gyms.ActiveID
	if gymID == "" {
		return members.Member{}, errors.ErrNoActiveGym
	}

	var (
		saved members.Member
		err   error
	)
	if memberID != "" {
		saved, err = v.app.client.UpdateMember(ctx, gymID, memberID, form)
	} else {
		saved, err = v.app.client.CreateMember(ctx, gymID, form)
	}
	v.apply(ctx, func(s *DashboardState) {
		if err != nil {
			s.Route = routeFor(err)
			s.Error = errors.DisplayMessage(err)
			return
		}
		s.Error = ""
		s.Members = members.Upsert(s.Members, saved)
		s.Stats = members.Tally(s.Members)
	})
	return saved, err
}

func (v *DashboardView) Delete(ctx context.Context, memberID string) error {
	gymID := v.State().Gyms.ActiveID
	if gymID == "" {
		return errors.ErrNoActiveGym
	}
	err := v.app.client.DeleteMember(ctx, gymID, memberID)
	v.apply(ctx, func(s *DashboardState) {
		if err != nil {
			s.Route = routeFor(err)
			s.Error = errors.DisplayMessage(err)
			return
		}
		s.Members = members.Remove(s.Members, memberID)
		s.Stats = members.Tally(s.Members)
	})
	return err
}
