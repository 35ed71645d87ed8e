package app

import (
	"context"
	"strings"

	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/tenants"
)

// GymContext is the fetched gym list and the resolved active gym.
type GymContext struct {
	Gyms     []tenants.Gym
	ActiveID string
}

func (gc GymContext) Active() *tenants.Gym {
	return tenants.FindByID(gc.Gyms, gc.ActiveID)
}

// LoadGyms fetches the gyms and resolves the active one. A non-empty Route means the
// caller should leave the page: login when there is no session, gym setup when the
// account owns no gym.
func (a *App) LoadGyms(ctx context.Context) (GymContext, Route, error) {
	s, err := a.sessions.Session()
	if err != nil {
		return GymContext{}, RouteNone, err
	}
	if !s.Authenticated() {
		return GymContext{}, RouteLogin, nil
	}

	gyms, err := a.client.ListGyms(ctx)
	if err != nil {
		return GymContext{}, routeFor(err), err
	}
	activeID, err := a.resolver.ResolveActive(gyms)
	if err != nil {
		return GymContext{}, RouteNone, err
	}
	if activeID == "" {
		return GymContext{Gyms: gyms}, RouteGymSetup, nil
	}
	return GymContext{Gyms: gyms, ActiveID: activeID}, RouteNone, nil
}

// CreateGym stores a new gym and makes it active straight away.
func (a *App) CreateGym(ctx context.Context, in tenants.GymInput) (tenants.Gym, Route, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return tenants.Gym{}, RouteGymSetup, errors.Wrapf(errors.ErrValidation, "gym name is required")
	}
	gym, err := a.client.CreateGym(ctx, in)
	if err != nil {
		if r := routeFor(err); r != RouteNone {
			return tenants.Gym{}, r, err
		}
		return tenants.Gym{}, RouteGymSetup, err
	}
	if gym.ID == "" {
		return tenants.Gym{}, RouteGymSetup, errors.New("gym created without an id")
	}
	if err := a.resolver.SetActive(gym.ID); err != nil {
		return gym, RouteGymSetup, err
	}
	a.logger.Info().Str("gym_id", gym.ID).Str("name", gym.Name).Msg("gym created")
	return gym, RouteDashboard, nil
}

// SwitchGym makes id the active gym. The next LoadGyms validates it.
func (a *App) SwitchGym(id string) error {
	return a.resolver.SetActive(strings.TrimSpace(id))
}
