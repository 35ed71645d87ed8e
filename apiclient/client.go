// Package apiclient is the single chokepoint for calls to the gym API. It attaches the
// stored access token, annotates transport failures, and refreshes a rejected token
// once before retrying the original request.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/gymflow/internal/config"
	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	// RequestIDHeader is set on every attempt, retries included.
	RequestIDHeader = "X-Request-ID"

	maxResponseBytes = 4 << 20
	defaultUserAgent = "gymflow-cli"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Manager
	timeout    time.Duration
	userAgent  string
	logger     zerolog.Logger
	onExpired  func()

	onTransition func(method, path string, from, to State)
	refreshes    singleflight.Group
	// expiredGen is the session generation last reported to onExpired, -1 for none.
	expiredGen atomic.Int64
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each attempt. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithSessionExpiredHandler is called after the session has been cleared because it
// could not be refreshed. Front ends use it to send the user back to login.
func WithSessionExpiredHandler(fn func()) Option {
	return func(c *Client) { c.onExpired = fn }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTransitionHook observes every protocol state change of caller-issued requests. The
// refresh call made inside the protocol is not reported; its outcome shows up as the
// Refreshing transition of the request that triggered it.
func WithTransitionHook(fn func(method, path string, from, to State)) Option {
	return func(c *Client) { c.onTransition = fn }
}

// New returns a client for the API rooted at baseURL (without the /api prefix).
func New(baseURL string, sm *session.Manager, opts ...Option) *Client {
	c := &Client{
		baseURL:    trimBase(baseURL),
		httpClient: &http.Client{},
		session:    sm,
		timeout:    config.DefaultRequestTimeout,
		userAgent:  defaultUserAgent,
		logger:     log.Logger,
	}
	c.expiredGen.Store(-1)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Session() *session.Manager {
	return c.session
}

// call describes one logical request.
type call struct {
	method string
	path   string
	query  url.Values
	in     any
	out    any
	// public calls never trigger the refresh protocol: a 401 from login means bad
	// credentials, not an expired token.
	public bool
	// internal calls are made by the protocol itself and are not reported to the
	// transition hook.
	internal bool
}

func (c *Client) do(ctx context.Context, cl call) error {
	var body []byte
	if cl.in != nil {
		b, err := json.Marshal(cl.in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = b
	}

	token := ""
	if !cl.public {
		t, err := c.session.Token()
		switch {
		case err == nil:
			token = t.AccessToken
		case errors.Is(err, errors.ErrNotAuthenticated):
		default:
			return errors.Wrapf(err, "read session")
		}
	}

	send := func(ctx context.Context, accessToken string) (*reply, error) {
		return c.send(ctx, cl, body, accessToken)
	}
	var refresh refreshFunc
	if !cl.public {
		refresh = c.refreshAccess
	}

	ex := newExchange(send, refresh, token)
	ex.onTransition = func(from, to State) {
		c.logger.Debug().Str("method", cl.method).Str("path", cl.path).
			Stringer("from", from).Stringer("to", to).Msg("request state")
		if c.onTransition != nil && !cl.internal {
			c.onTransition(cl.method, cl.path, from, to)
		}
	}

	r, err := ex.run(ctx)
	if err != nil {
		return err
	}
	if r.StatusCode < 200 || r.StatusCode > 299 {
		return &errors.ResponseError{Method: cl.method, Path: cl.path, StatusCode: r.StatusCode, Body: r.Body}
	}
	if cl.out == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, cl.out); err != nil {
		return fmt.Errorf("decode %s %s: %w", cl.method, cl.path, err)
	}
	return nil
}

// send performs a single HTTP attempt bounded by the client timeout.
func (c *Client) send(ctx context.Context, cl call, body []byte, accessToken string) (*reply, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", c.userAgent)
	requestID := uuid.New().String()
	req.Header.Set(RequestIDHeader, requestID)
	if accessToken != "" {
		(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}).SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, cl, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, c.transportError(ctx, cl, err)
	}

	c.logger.Debug().
		Str("method", cl.method).
		Str("path", cl.path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Bool("authenticated", accessToken != "").
		Dur("elapsed", time.Since(start)).
		Msg("api response")

	return &reply{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// transportError classifies a failure that produced no response. A caller cancelling
// its own context is not a network problem and is returned as is.
func (c *Client) transportError(ctx context.Context, cl call, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%s %s: %w", cl.method, cl.path, ctx.Err())
	}
	netErr := &errors.NetworkError{Method: cl.method, Path: cl.path, Timeout: isTimeout(err), Err: err}
	c.logger.Warn().Err(err).Str("method", cl.method).Str("path", cl.path).
		Bool("timeout", netErr.Timeout).Msg("api unreachable")
	return netErr
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func trimBase(raw string) string {
	for len(raw) > 0 && raw[len(raw)-1] == '/' {
		raw = raw[:len(raw)-1]
	}
	return raw
}
