package refresh

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jrsteele09/gymflow/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// tokenLength is 32 bytes = 256 bits of randomness.
const tokenLength = 32

// Manager handles refresh token creation and validation
type Manager struct {
	repo   Repo
	expiry time.Duration
}

// NewManager creates a new refresh token manager
func NewManager(repo Repo, expiry time.Duration) *Manager {
	return &Manager{
		repo:   repo,
		expiry: expiry,
	}
}

// Create generates a new refresh token for userID and stores it. Earlier tokens of the
// same user stay valid, so several devices can be logged in at once.
func (m *Manager) Create(userID string) (string, error) {
	tokenBytes := make([]byte, tokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	tokenStr := hex.EncodeToString(tokenBytes)
	if err := m.repo.Upsert(&StoredRefreshToken{
		Token:  tokenStr,
		UserID: userID,
		Iat:    NowTimeFunc(),
	}); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return tokenStr, nil
}

// Validate returns the stored token when it exists and has not expired. Expired tokens
// are deleted as a side effect.
func (m *Manager) Validate(token string) (*StoredRefreshToken, error) {
	rt, err := m.repo.Get(token)
	if err != nil {
		return nil, errors.ErrInvalidRefreshToken
	}
	if m.IsExpired(rt) {
		_ = m.repo.Delete(token)
		return nil, errors.ErrRefreshTokenExpired
	}
	return rt, nil
}

// Delete removes a refresh token from storage
func (m *Manager) Delete(token string) error {
	return m.repo.Delete(token)
}

// IsExpired checks if a refresh token has outlived the configured lifetime
func (m *Manager) IsExpired(rt *StoredRefreshToken) bool {
	return NowTimeFunc().Sub(rt.Iat) > m.expiry
}
