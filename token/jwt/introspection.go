package jwt

import (
	"fmt"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/token"
)

// TokenIntrospection is the verified content of an access token.
// The 'active' field indicates the state of the token - if it's false, other fields may not be populated.
type TokenIntrospection struct {
	Active bool   `json:"active"`          // True or false - Is the token valid
	Sub    string `json:"sub,omitempty"`   // Users unique ID
	Email  string `json:"email,omitempty"` // Users email
	Exp    int64  `json:"exp,omitempty"`   // Expiration
	Jti    string `json:"jti,omitempty"`   // Token ID
}

// Inspector verifies access tokens presented to the API
type Inspector struct {
	signer token.Signer
	issuer string
}

// NewInspector creates a new JWT inspector
func NewInspector(signer token.Signer, issuer string) *Inspector {
	return &Inspector{
		signer: signer,
		issuer: issuer,
	}
}

// Introspect validates signature, expiry, issuer and token type. Any failure returns an
// inactive result together with an error wrapping errors.ErrInvalidToken.
func (i *Inspector) Introspect(rawToken string) (*TokenIntrospection, error) {
	if strings.TrimSpace(rawToken) == "" {
		return &TokenIntrospection{Active: false}, errors.ErrInvalidToken
	}

	parsed, err := jwtlib.ParseWithClaims(rawToken, jwtlib.MapClaims{}, i.signer.GetVerificationKey,
		jwtlib.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
		jwtlib.WithIssuer(i.issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(NowTimeFunc),
	)
	if err != nil || !parsed.Valid {
		return &TokenIntrospection{Active: false}, fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return &TokenIntrospection{Active: false}, fmt.Errorf("%w: error extracting claims", errors.ErrInvalidToken)
	}
	if tokenType, _ := claims["token_type"].(string); tokenType != "access" {
		return &TokenIntrospection{Active: false}, fmt.Errorf("%w: not an access token", errors.ErrInvalidToken)
	}

	sub, _ := claims.GetSubject()
	email, _ := claims["email"].(string)
	jti, _ := claims["jti"].(string)
	var exp int64
	if e, err := claims.GetExpirationTime(); err == nil && e != nil {
		exp = e.Unix()
	}

	return &TokenIntrospection{
		Active: true,
		Sub:    sub,
		Email:  email,
		Exp:    exp,
		Jti:    jti,
	}, nil
}
