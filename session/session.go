// Package session holds the client's credentials and active-gym selection in durable
// key/value storage.
//
// Tokens are stored as plain text, without expiry or encryption. Anyone able to read
// the backing file or database can act as the logged-in user.
package session

import "fmt"

// Canonical storage keys. Older builds also wrote "access" and "refresh"; those are
// never written again and are removed by Clear along with everything else.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyActiveGymID  = "activeGymId"
)

// Store is durable key/value storage scoped to one user profile.
// Get reports ok=false for a key that was never set or has been removed.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Clear() error
}

// Session is the credential pair issued by login and rotated by refresh.
type Session struct {
	AccessToken  string
	RefreshToken string
}

// Authenticated reports whether an access token is present. It says nothing about
// whether the server still accepts it.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// Load reads the credential pair from store.
func Load(store Store) (Session, error) {
	access, _, err := store.Get(KeyAccessToken)
	if err != nil {
		return Session{}, fmt.Errorf("read %s: %w", KeyAccessToken, err)
	}
	refresh, _, err := store.Get(KeyRefreshToken)
	if err != nil {
		return Session{}, fmt.Errorf("read %s: %w", KeyRefreshToken, err)
	}
	return Session{AccessToken: access, RefreshToken: refresh}, nil
}

// SaveTokens stores a freshly issued pair. An empty refresh token leaves the stored
// one untouched, since not every server rotates it.
func SaveTokens(store Store, access, refresh string) error {
	if err := store.Set(KeyAccessToken, access); err != nil {
		return fmt.Errorf("write %s: %w", KeyAccessToken, err)
	}
	if refresh == "" {
		return nil
	}
	if err := store.Set(KeyRefreshToken, refresh); err != nil {
		return fmt.Errorf("write %s: %w", KeyRefreshToken, err)
	}
	return nil
}
