package apiclient

import (
	"context"
	"net/http"
)

// State is a step of the request protocol:
//
//	Sending -> Done
//	Sending -> Unauthorized -> Refreshing -> Retrying -> Done
//	any step -> Failed
//
// A 401 seen in Retrying goes to Done, so a request is refreshed at most once.
type State int

const (
	StateSending State = iota
	StateUnauthorized
	StateRefreshing
	StateRetrying
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSending:
		return "sending"
	case StateUnauthorized:
		return "unauthorized"
	case StateRefreshing:
		return "refreshing"
	case StateRetrying:
		return "retrying"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// reply is a complete HTTP answer with the body already read.
type reply struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// sendFunc performs one attempt carrying accessToken ("" sends no credential).
type sendFunc func(ctx context.Context, accessToken string) (*reply, error)

// refreshFunc exchanges the refresh token for a new access token. staleToken is the
// token the server just rejected.
type refreshFunc func(ctx context.Context, staleToken string) (string, error)

// exchange drives one logical request through the protocol. It holds no HTTP state of
// its own so it can be exercised with plain functions.
type exchange struct {
	send    sendFunc
	refresh refreshFunc // nil disables the refresh protocol

	token   string
	state   State
	retried bool
	reply   *reply
	err     error

	onTransition func(from, to State)
}

func newExchange(send sendFunc, refresh refreshFunc, token string) *exchange {
	return &exchange{send: send, refresh: refresh, token: token, state: StateSending}
}

func (e *exchange) to(next State) {
	if e.onTransition != nil {
		e.onTransition(e.state, next)
	}
	e.state = next
}

// run executes the protocol to completion. A non-2xx reply is not an error here; the
// caller decides how to surface it.
func (e *exchange) run(ctx context.Context) (*reply, error) {
	for {
		switch e.state {
		case StateSending, StateRetrying:
			r, err := e.send(ctx, e.token)
			if err != nil {
				e.err = err
				e.to(StateFailed)
				continue
			}
			e.reply = r
			if r.StatusCode == http.StatusUnauthorized && !e.retried && e.refresh != nil {
				e.to(StateUnauthorized)
				continue
			}
			e.to(StateDone)

		case StateUnauthorized:
			e.retried = true
			e.to(StateRefreshing)

		case StateRefreshing:
			token, err := e.refresh(ctx, e.token)
			if err != nil {
				e.err = err
				e.to(StateFailed)
				continue
			}
			e.token = token
			e.to(StateRetrying)

		case StateDone:
			return e.reply, nil

		case StateFailed:
			return nil, e.err
		}
	}
}
