package app

import (
	"context"

	"github.com/jrsteele09/gymflow/internal/errors"
)

type SwitcherState struct {
	Loading bool
	Gyms    GymContext
	Error   string
}

// GymSwitcher is the navigation gym picker. Without a session it shows nothing and
// makes no request.
type GymSwitcher struct {
	view[SwitcherState]
	app *App
}

func (a *App) GymSwitcher() *GymSwitcher {
	return &GymSwitcher{app: a}
}

func (v *GymSwitcher) Load(ctx context.Context) (st SwitcherState) {
	v.apply(ctx, func(s *SwitcherState) {
		s.Loading = true
		s.Error = ""
	})
	defer func() {
		st = v.settle(ctx, func(s *SwitcherState) { s.Loading = false })
	}()

	gc, _, err := v.app.LoadGyms(ctx)
	v.apply(ctx, func(s *SwitcherState) {
		s.Gyms = gc
		s.Error = errors.DisplayMessage(err)
	})
	return v.State()
}

// Switch persists the choice. Every view loaded afterwards uses the new gym.
func (v *GymSwitcher) Switch(id string) error {
	if err := v.app.SwitchGym(id); err != nil {
		return err
	}
	v.apply(context.Background(), func(s *SwitcherState) { s.Gyms.ActiveID = id })
	return nil
}
