package sessionrepofakes

import (
	"sync"

	"github.com/jrsteele09/gymflow/session"
)

var _ session.Store = (*FakeSessionStore)(nil)

// FakeSessionStore keeps the session in memory. It forgets everything when the process
// exits, which is what tests and one-shot scripts want.
type FakeSessionStore struct {
	values map[string]string
	lock   sync.RWMutex
}

func NewFakeSessionStore() *FakeSessionStore {
	return &FakeSessionStore{
		values: make(map[string]string),
	}
}

func (s *FakeSessionStore) Get(key string) (string, bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *FakeSessionStore) Set(key, value string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.values[key] = value
	return nil
}

func (s *FakeSessionStore) Remove(key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.values, key)
	return nil
}

func (s *FakeSessionStore) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.values = make(map[string]string)
	return nil
}

// Len reports how many keys are stored.
func (s *FakeSessionStore) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.values)
}
