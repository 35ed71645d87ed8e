package refresh

import (
	"time"
)

// StoredRefreshToken is the server-side record behind an opaque refresh token.
// The client only receives the Token field (a random string).
type StoredRefreshToken struct {
	Token  string    // The actual random token string (sent to client)
	UserID string    // Account the token was issued to
	Iat    time.Time // Issued at time
}

// Repo manages server-side storage of refresh tokens keyed by the token string.
type Repo interface {
	Upsert(refreshToken *StoredRefreshToken) error
	Delete(token string) error
	Get(token string) (*StoredRefreshToken, error)
}
