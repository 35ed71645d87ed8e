package session

import (
	"fmt"
	"sync"

	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/token"
	"golang.org/x/oauth2"
)

// Manager is the process-wide owner of a Store. Login, refresh and logout all mutate
// the session through it so multi-key updates are never interleaved.
type Manager struct {
	store      Store
	lock       sync.Mutex
	generation uint64
}

var _ oauth2.TokenSource = (*Manager)(nil)

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Store exposes the underlying storage for collaborators that keep their own keys,
// such as the tenant resolver.
func (m *Manager) Store() Store {
	return m.store
}

func (m *Manager) Session() (Session, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return Load(m.store)
}

// Save stores the pair returned by login and starts a new generation.
func (m *Manager) Save(access, refresh string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if err := SaveTokens(m.store, access, refresh); err != nil {
		return err
	}
	m.generation++
	return nil
}

// Generation counts the token pairs saved through m. It tells one stored session apart
// from the next.
func (m *Manager) Generation() uint64 {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.generation
}

// SetAccessToken replaces the access token after a refresh.
func (m *Manager) SetAccessToken(access string) error {
	return m.Save(access, "")
}

func (m *Manager) RefreshToken() (string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	refresh, _, err := m.store.Get(KeyRefreshToken)
	return refresh, err
}

// Clear destroys the session, including the active gym selection.
func (m *Manager) Clear() error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if err := m.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Token implements oauth2.TokenSource over the stored access token. Expiry is read from
// the JWT when it has one; it is informational only, the server stays the judge.
func (m *Manager) Token() (*oauth2.Token, error) {
	s, err := m.Session()
	if err != nil {
		return nil, err
	}
	if !s.Authenticated() {
		return nil, errors.ErrNotAuthenticated
	}
	t := &oauth2.Token{
		AccessToken:  s.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: s.RefreshToken,
	}
	if exp, err := token.ExpiresAt(s.AccessToken); err == nil {
		t.Expiry = exp
	}
	return t, nil
}
