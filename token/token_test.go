package token_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/token"
	"github.com/jrsteele09/gymflow/token/jwt"
	"github.com/jrsteele09/gymflow/users"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "gymflow-test"
)

func TestCreateAndIntrospect(t *testing.T) {
	signer := token.NewHMACSigner(testSecret)
	creator := jwt.NewCreator(signer, testIssuer, 15*time.Minute)
	inspector := jwt.NewInspector(signer, testIssuer)

	raw, err := creator.CreateAccessToken(&users.User{ID: "u1", Email: "owner@gym.example"})
	require.NoError(t, err)

	info, err := inspector.Introspect(raw)
	require.NoError(t, err)
	require.True(t, info.Active)
	require.Equal(t, "u1", info.Sub)
	require.Equal(t, "owner@gym.example", info.Email)
	require.NotEmpty(t, info.Jti)

	exp, err := token.ExpiresAt(raw)
	require.NoError(t, err)
	require.Equal(t, info.Exp, exp.Unix())
	require.False(t, token.Expired(raw))
}

func TestIntrospect_Rejects(t *testing.T) {
	signer := token.NewHMACSigner(testSecret)
	inspector := jwt.NewInspector(signer, testIssuer)

	t.Run("empty", func(t *testing.T) {
		info, err := inspector.Introspect("  ")
		require.ErrorIs(t, err, errors.ErrInvalidToken)
		require.False(t, info.Active)
	})

	t.Run("wrong secret", func(t *testing.T) {
		raw, err := jwt.NewCreator(token.NewHMACSigner("other"), testIssuer, time.Minute).CreateAccessToken(&users.User{ID: "u1"})
		require.NoError(t, err)
		_, err = inspector.Introspect(raw)
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		raw, err := jwt.NewCreator(signer, "someone-else", time.Minute).CreateAccessToken(&users.User{ID: "u1"})
		require.NoError(t, err)
		_, err = inspector.Introspect(raw)
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		jwt.NowTimeFunc = func() time.Time { return time.Now().Add(-time.Hour) }
		raw, err := jwt.NewCreator(signer, testIssuer, time.Minute).CreateAccessToken(&users.User{ID: "u1"})
		jwt.NowTimeFunc = time.Now
		require.NoError(t, err)

		_, err = inspector.Introspect(raw)
		require.ErrorIs(t, err, errors.ErrInvalidToken)
		require.True(t, token.Expired(raw))
	})
}

func TestExpiresAt_Opaque(t *testing.T) {
	_, err := token.ExpiresAt("not-a-jwt")
	require.ErrorIs(t, err, token.ErrNoExpiry)
	_, err = token.ExpiresAt("")
	require.ErrorIs(t, err, token.ErrNoExpiry)
	require.False(t, token.Expired("not-a-jwt"))
}
