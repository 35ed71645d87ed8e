package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// ErrNoExpiry is returned for tokens that are not JWTs or carry no exp claim.
var ErrNoExpiry = errors.New("token has no expiry")

// ExpiresAt reads the exp claim of a JWT without verifying its signature. The client
// holds no verification key; the value is only used for display and never for deciding
// whether to send a request.
func ExpiresAt(rawToken string) (time.Time, error) {
	if rawToken == "" {
		return time.Time{}, ErrNoExpiry
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(rawToken, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, ErrNoExpiry
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}

// Expired reports whether the token's exp claim lies in the past. Tokens without an
// expiry are never reported as expired.
func Expired(rawToken string) bool {
	exp, err := ExpiresAt(rawToken)
	if err != nil {
		return false
	}
	return !NowTimeFunc().Before(exp)
}
