package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/internal/utils"
)

const (
	PathLogin   = "/api/auth/login/"
	PathSignup  = "/api/auth/signup/"
	PathRefresh = "/api/auth/refresh/"
)

// TokenPair is what login and refresh hand back. Refresh may be empty when the server
// does not rotate refresh tokens.
type TokenPair struct {
	Access  string
	Refresh string
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for tokens. It does not touch the session; the caller
// decides whether to keep the pair.
func (c *Client) Login(ctx context.Context, email, password string) (TokenPair, error) {
	var body map[string]any
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   PathLogin,
		in:     Credentials{Email: email, Password: password},
		out:    &body,
		public: true,
	})
	if err != nil {
		return TokenPair{}, err
	}
	return tokenPairFrom(body)
}

// Signup creates an account. The server does not log the new user in.
func (c *Client) Signup(ctx context.Context, email, password string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   PathSignup,
		in:     Credentials{Email: email, Password: password},
		public: true,
	})
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Refresh exchanges a refresh token for a new access token. It is sent outside the
// refresh protocol, so a rejected refresh token is returned as a 401 ResponseError.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	return c.refresh(ctx, refreshToken, false)
}

func (c *Client) refresh(ctx context.Context, refreshToken string, internal bool) (TokenPair, error) {
	var body map[string]any
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     PathRefresh,
		in:       refreshRequest{Refresh: refreshToken},
		out:      &body,
		public:   true,
		internal: internal,
	})
	if err != nil {
		return TokenPair{}, err
	}
	return tokenPairFrom(body)
}

// tokenPairFrom accepts the field spellings different API revisions have used.
func tokenPairFrom(body map[string]any) (TokenPair, error) {
	nested, _ := body["tokens"].(map[string]any)

	pair := TokenPair{
		Access:  utils.FirstString(body, "access", "access_token", "token"),
		Refresh: utils.FirstString(body, "refresh", "refresh_token"),
	}
	if pair.Access == "" {
		pair.Access = utils.FirstString(nested, "access")
	}
	if pair.Refresh == "" {
		pair.Refresh = utils.FirstString(nested, "refresh")
	}
	if pair.Access == "" {
		return TokenPair{}, errors.ErrNoAccessToken
	}
	return pair, nil
}

// refreshAccess runs the refresh step of the protocol. Concurrent callers holding the
// same refresh token share one call. When the stored access token already differs from
// the rejected one, another request has refreshed and that token is reused.
func (c *Client) refreshAccess(ctx context.Context, staleToken string) (string, error) {
	refreshToken, err := c.session.RefreshToken()
	if err != nil {
		return "", errors.Wrapf(err, "read refresh token")
	}
	if refreshToken == "" {
		c.expireSession(errors.ErrNoRefreshToken)
		return "", fmt.Errorf("%w: %w", errors.ErrSessionExpired, errors.ErrNoRefreshToken)
	}

	v, err, shared := c.refreshes.Do(refreshToken, func() (any, error) {
		current, err := c.session.Session()
		if err == nil && current.AccessToken != "" && current.AccessToken != staleToken {
			return current.AccessToken, nil
		}

		// The refresh outlives any one waiter's cancellation.
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		pair, err := c.refresh(flightCtx, refreshToken, true)
		if err != nil {
			c.expireSession(err)
			return nil, fmt.Errorf("%w: %w", errors.ErrSessionExpired, err)
		}
		if err := c.session.Save(pair.Access, pair.Refresh); err != nil {
			return nil, errors.Wrapf(err, "store refreshed token")
		}
		c.logger.Info().Bool("rotated", pair.Refresh != "").Msg("access token refreshed")
		return pair.Access, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		c.logger.Debug().Msg("joined in-flight token refresh")
	}
	return v.(string), nil
}

// expireSession clears every stored key and notifies the front end. The hook fires once
// per stored session: late 401s for a session that is already gone only clear again.
func (c *Client) expireSession(cause error) {
	gen := int64(c.session.Generation())
	if c.expiredGen.Swap(gen) == gen {
		c.logger.Debug().Err(cause).Msg("session already expired")
		if err := c.session.Clear(); err != nil {
			c.logger.Error().Err(err).Msg("failed to clear session")
		}
		return
	}

	c.logger.Warn().Err(cause).Msg("session could not be refreshed, logging out")
	if err := c.session.Clear(); err != nil {
		c.logger.Error().Err(err).Msg("failed to clear session")
	}
	if c.onExpired != nil {
		c.onExpired()
	}
}
