package tenants

import (
	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/session"
)

// Resolver decides which gym subsequent API calls apply to. It works only on an
// already fetched gym list and never touches the network.
type Resolver struct {
	store session.Store
}

func NewResolver(store session.Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveActive returns the persisted gym id if it is still in gyms. Otherwise the first
// gym becomes active and is persisted. An empty id means the list is empty and the
// caller should route to gym setup.
func (r *Resolver) ResolveActive(gyms []Gym) (string, error) {
	persisted, ok, err := r.store.Get(session.KeyActiveGymID)
	if err != nil {
		return "", errors.Wrapf(err, "read active gym")
	}
	if ok && FindByID(gyms, persisted) != nil {
		return persisted, nil
	}
	if len(gyms) == 0 {
		return "", nil
	}

	fallback := gyms[0].ID
	if err := r.SetActive(fallback); err != nil {
		return "", err
	}
	return fallback, nil
}

// SetActive persists id without checking it against any list. ResolveActive is the
// validation gate.
func (r *Resolver) SetActive(id string) error {
	if err := r.store.Set(session.KeyActiveGymID, id); err != nil {
		return errors.Wrapf(err, "persist active gym %s", id)
	}
	return nil
}

// Active returns the persisted gym id, or ErrNoActiveGym when none is stored.
func (r *Resolver) Active() (string, error) {
	id, ok, err := r.store.Get(session.KeyActiveGymID)
	if err != nil {
		return "", errors.Wrapf(err, "read active gym")
	}
	if !ok || id == "" {
		return "", errors.ErrNoActiveGym
	}
	return id, nil
}
