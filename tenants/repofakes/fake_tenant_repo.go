package tenantrepofakes

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/tenants"
)

var _ tenants.Repo = (*FakeTenantRepo)(nil)

type storedGym struct {
	gym tenants.Gym
	seq int
}

type FakeTenantRepo struct {
	gyms map[string]*storedGym
	seq  int
	lock sync.RWMutex
}

func NewFakeTenantRepo() *FakeTenantRepo {
	return &FakeTenantRepo{
		gyms: make(map[string]*storedGym),
	}
}

func (tr *FakeTenantRepo) Upsert(gym *tenants.Gym) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	if gym.ID == "" {
		gym.ID = uuid.New().String()
	}
	if existing, ok := tr.gyms[gym.ID]; ok {
		existing.gym = *gym
		return nil
	}
	tr.seq++
	tr.gyms[gym.ID] = &storedGym{gym: *gym, seq: tr.seq}
	return nil
}

func (tr *FakeTenantRepo) Delete(gymID string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	if _, ok := tr.gyms[gymID]; !ok {
		return errors.ErrNotFound
	}
	delete(tr.gyms, gymID)
	return nil
}

func (tr *FakeTenantRepo) Get(gymID string) (*tenants.Gym, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	stored, ok := tr.gyms[gymID]
	if !ok {
		return nil, errors.ErrNotFound
	}
	gym := stored.gym
	return &gym, nil
}

// ListByOwner returns the owner's gyms in creation order.
func (tr *FakeTenantRepo) ListByOwner(ownerID string) ([]*tenants.Gym, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	ordered := make([]*storedGym, tr.seq+1)
	for _, stored := range tr.gyms {
		if stored.gym.OwnerID == ownerID {
			ordered[stored.seq] = stored
		}
	}

	gyms := make([]*tenants.Gym, 0)
	for _, stored := range ordered {
		if stored == nil {
			continue
		}
		gym := stored.gym
		gyms = append(gyms, &gym)
	}
	return gyms, nil
}
