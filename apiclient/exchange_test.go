package apiclient

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

type scriptedSender struct {
	statuses []int
	tokens   []string
	err      error
}

func (s *scriptedSender) send(_ context.Context, token string) (*reply, error) {
	s.tokens = append(s.tokens, token)
	if s.err != nil {
		return nil, s.err
	}
	status := s.statuses[0]
	if len(s.statuses) > 1 {
		s.statuses = s.statuses[1:]
	}
	return &reply{StatusCode: status}, nil
}

func runExchange(t *testing.T, sender *scriptedSender, refresh refreshFunc) (*reply, error, []State) {
	t.Helper()
	ex := newExchange(sender.send, refresh, "old")
	visited := []State{ex.state}
	ex.onTransition = func(_, to State) { visited = append(visited, to) }
	r, err := ex.run(context.Background())
	return r, err, visited
}

func TestExchange(t *testing.T) {
	okRefresh := func(refreshes *int) refreshFunc {
		return func(_ context.Context, stale string) (string, error) {
			*refreshes++
			require.Equal(t, "old", stale)
			return "new", nil
		}
	}

	t.Run("success passes through", func(t *testing.T) {
		refreshes := 0
		sender := &scriptedSender{statuses: []int{http.StatusOK}}
		r, err, visited := runExchange(t, sender, okRefresh(&refreshes))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, r.StatusCode)
		require.Equal(t, []State{StateSending, StateDone}, visited)
		require.Zero(t, refreshes)
	})

	t.Run("401 refreshes once and retries with new token", func(t *testing.T) {
		refreshes := 0
		sender := &scriptedSender{statuses: []int{http.StatusUnauthorized, http.StatusOK}}
		r, err, visited := runExchange(t, sender, okRefresh(&refreshes))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, r.StatusCode)
		require.Equal(t, []State{StateSending, StateUnauthorized, StateRefreshing, StateRetrying, StateDone}, visited)
		require.Equal(t, 1, refreshes)
		require.Equal(t, []string{"old", "new"}, sender.tokens)
	})

	t.Run("second 401 is returned without another refresh", func(t *testing.T) {
		refreshes := 0
		sender := &scriptedSender{statuses: []int{http.StatusUnauthorized}}
		r, err, _ := runExchange(t, sender, okRefresh(&refreshes))
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, r.StatusCode)
		require.Equal(t, 1, refreshes)
		require.Len(t, sender.tokens, 2)
	})

	t.Run("other errors are not refreshed", func(t *testing.T) {
		refreshes := 0
		sender := &scriptedSender{statuses: []int{http.StatusForbidden}}
		r, err, _ := runExchange(t, sender, okRefresh(&refreshes))
		require.NoError(t, err)
		require.Equal(t, http.StatusForbidden, r.StatusCode)
		require.Zero(t, refreshes)
	})

	t.Run("refresh failure fails the exchange", func(t *testing.T) {
		boom := errors.New("refresh rejected")
		sender := &scriptedSender{statuses: []int{http.StatusUnauthorized}}
		_, err, visited := runExchange(t, sender, func(context.Context, string) (string, error) { return "", boom })
		require.ErrorIs(t, err, boom)
		require.Equal(t, []State{StateSending, StateUnauthorized, StateRefreshing, StateFailed}, visited)
		require.Len(t, sender.tokens, 1)
	})

	t.Run("transport failure", func(t *testing.T) {
		boom := errors.New("connection refused")
		_, err, visited := runExchange(t, &scriptedSender{err: boom}, nil)
		require.ErrorIs(t, err, boom)
		require.Equal(t, []State{StateSending, StateFailed}, visited)
	})

	t.Run("without a refresher 401 passes through", func(t *testing.T) {
		r, err, visited := runExchange(t, &scriptedSender{statuses: []int{http.StatusUnauthorized}}, nil)
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, r.StatusCode)
		require.Equal(t, []State{StateSending, StateDone}, visited)
	})
}

func TestStateString(t *testing.T) {
	require.Equal(t, "refreshing", StateRefreshing.String())
	require.Equal(t, "unknown", State(42).String())
}
