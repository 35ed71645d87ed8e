package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/gymflow/token"
	"github.com/jrsteele09/gymflow/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Creator issues short-lived access tokens for gym owners
type Creator struct {
	signer token.Signer
	issuer string
	expiry time.Duration
}

// NewCreator creates a new JWT creator
func NewCreator(signer token.Signer, issuer string, expiry time.Duration) *Creator {
	return &Creator{
		signer: signer,
		issuer: issuer,
		expiry: expiry,
	}
}

// CreateAccessToken creates a bearer access token for user
func (c *Creator) CreateAccessToken(user *users.User) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"iss":        c.issuer,                 // The issuer of the token
		"sub":        user.ID,                  // The account the token acts for
		"email":      user.Email,               // Convenience claim for display
		"token_type": "access",                 // Distinguishes from any other token kind
		"iat":        now.Unix(),               // Issued At: the time at which the token was issued
		"exp":        now.Add(c.expiry).Unix(), // Expiry: when the token will expire
		"jti":        uuid.New().String(),      // Unique token ID
	}

	signedToken, err := c.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signedToken, nil
}
