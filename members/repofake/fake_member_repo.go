package memberrepofake

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/members"
)

var _ members.Repo = (*FakeMemberRepo)(nil)

type FakeMemberRepo struct {
	gyms map[string][]*members.Member // newest first
	lock sync.RWMutex
}

func NewFakeMemberRepo() *FakeMemberRepo {
	return &FakeMemberRepo{
		gyms: make(map[string][]*members.Member),
	}
}

func (mr *FakeMemberRepo) Upsert(gymID string, member *members.Member) error {
	mr.lock.Lock()
	defer mr.lock.Unlock()

	stored := *member
	stored.DaysLeft = nil
	if member.ID == "" {
		member.ID = uuid.New().String()
		stored.ID = member.ID
	}
	list := mr.gyms[gymID]
	for i, existing := range list {
		if existing.ID == stored.ID {
			list[i] = &stored
			return nil
		}
	}
	mr.gyms[gymID] = append([]*members.Member{&stored}, list...)
	return nil
}

func (mr *FakeMemberRepo) Delete(gymID, memberID string) error {
	mr.lock.Lock()
	defer mr.lock.Unlock()

	list := mr.gyms[gymID]
	for i, existing := range list {
		if existing.ID == memberID {
			mr.gyms[gymID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return errors.ErrNotFound
}

func (mr *FakeMemberRepo) Get(gymID, memberID string) (*members.Member, error) {
	mr.lock.RLock()
	defer mr.lock.RUnlock()

	for _, existing := range mr.gyms[gymID] {
		if existing.ID == memberID {
			m := *existing
			return &m, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (mr *FakeMemberRepo) ListByGym(gymID string) ([]*members.Member, error) {
	mr.lock.RLock()
	defer mr.lock.RUnlock()

	out := make([]*members.Member, 0, len(mr.gyms[gymID]))
	for _, existing := range mr.gyms[gymID] {
		m := *existing
		out = append(out, &m)
	}
	return out, nil
}
