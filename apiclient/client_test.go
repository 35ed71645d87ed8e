package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/gymflow/apiclient"
	"github.com/jrsteele09/gymflow/billing"
	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/members"
	"github.com/jrsteele09/gymflow/session"
	sessionrepofakes "github.com/jrsteele09/gymflow/session/repofakes"
	"github.com/jrsteele09/gymflow/tenants"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fakeAPI accepts one access token at a time and counts what it is asked to do.
type fakeAPI struct {
	mu           sync.Mutex
	validAccess  string
	nextAccess   string
	nextRefresh  string
	refreshFails bool
	alwaysReject bool

	refreshCalls atomic.Int32
	gymCalls     atomic.Int32
	authHeaders  []string
	requestIDs   []string
	refreshBody  []string

	// arrivals, when set, holds protected requests carrying a stale token until it drains.
	arrivals *sync.WaitGroup
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		f.refreshCalls.Add(1)
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.refreshBody = append(f.refreshBody, string(body))
		fails := f.refreshFails
		f.mu.Unlock()

		time.Sleep(20 * time.Millisecond)
		if fails {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Token is invalid or expired"})
			return
		}
		f.mu.Lock()
		f.validAccess = f.nextAccess
		resp := map[string]any{"access": f.nextAccess}
		if f.nextRefresh != "" {
			resp["refresh"] = f.nextRefresh
		}
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, resp)
	})
	mux.HandleFunc("GET /api/gyms/", func(w http.ResponseWriter, r *http.Request) {
		f.gymCalls.Add(1)
		auth := r.Header.Get("Authorization")
		f.mu.Lock()
		f.authHeaders = append(f.authHeaders, auth)
		f.requestIDs = append(f.requestIDs, r.Header.Get(apiclient.RequestIDHeader))
		ok := !f.alwaysReject && auth == "Bearer "+f.validAccess
		arrivals := f.arrivals
		f.mu.Unlock()

		if !ok {
			if arrivals != nil && auth == "Bearer old" {
				arrivals.Done()
				arrivals.Wait()
			}
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Given token not valid for any token type"})
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "Iron Works"}})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type fixture struct {
	api     *fakeAPI
	store   *sessionrepofakes.FakeSessionStore
	client  *apiclient.Client
	expired atomic.Int32
	states  []string
	mu      sync.Mutex
}

func newFixture(t *testing.T, api *fakeAPI, opts ...apiclient.Option) *fixture {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	f := &fixture{api: api, store: sessionrepofakes.NewFakeSessionStore()}
	opts = append([]apiclient.Option{
		apiclient.WithLogger(zerolog.Nop()),
		apiclient.WithSessionExpiredHandler(func() { f.expired.Add(1) }),
		apiclient.WithTransitionHook(func(_, _ string, from, to apiclient.State) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.states = append(f.states, from.String()+">"+to.String())
		}),
	}, opts...)
	f.client = apiclient.New(srv.URL+"/", session.NewManager(f.store), opts...)
	return f
}

func (f *fixture) login(t *testing.T, access, refresh string) {
	t.Helper()
	require.NoError(t, session.SaveTokens(f.store, access, refresh))
	require.NoError(t, f.store.Set(session.KeyActiveGymID, "g1"))
}

func TestBearerAttached(t *testing.T) {
	f := newFixture(t, &fakeAPI{validAccess: "good"})
	f.login(t, "good", "r1")

	gyms, err := f.client.ListGyms(context.Background())
	require.NoError(t, err)
	require.Equal(t, []tenants.Gym{{ID: "1", Name: "Iron Works"}}, gyms)
	require.Equal(t, []string{"Bearer good"}, f.api.authHeaders)
	require.NotEmpty(t, f.api.requestIDs[0])
	require.Zero(t, f.api.refreshCalls.Load())
}

func TestNoTokenSendsUnauthenticated(t *testing.T) {
	f := newFixture(t, &fakeAPI{validAccess: "good"})

	_, err := f.client.ListGyms(context.Background())
	require.ErrorIs(t, err, errors.ErrSessionExpired)
	require.ErrorIs(t, err, errors.ErrNoRefreshToken)
	require.Equal(t, []string{""}, f.api.authHeaders)
	require.Zero(t, f.api.refreshCalls.Load())
	require.Equal(t, int32(1), f.expired.Load())
}

func TestUnauthorizedRefreshesOnceAndRetries(t *testing.T) {
	f := newFixture(t, &fakeAPI{validAccess: "new", nextAccess: "new"})
	f.login(t, "old", "r1")

	gyms, err := f.client.ListGyms(context.Background())
	require.NoError(t, err)
	require.Len(t, gyms, 1)

	require.Equal(t, int32(1), f.api.refreshCalls.Load())
	require.Equal(t, int32(2), f.api.gymCalls.Load())
	require.Equal(t, []string{"Bearer old", "Bearer new"}, f.api.authHeaders)
	require.NotEqual(t, f.api.requestIDs[0], f.api.requestIDs[1])
	require.JSONEq(t, `{"refresh":"r1"}`, f.api.refreshBody[0])
	require.Equal(t, []string{
		"sending>unauthorized",
		"unauthorized>refreshing",
		"refreshing>retrying",
		"retrying>done",
	}, f.states)

	s, err := session.Load(f.store)
	require.NoError(t, err)
	require.Equal(t, session.Session{AccessToken: "new", RefreshToken: "r1"}, s)
	require.Zero(t, f.expired.Load())
}

func TestRotatedRefreshTokenIsStored(t *testing.T) {
	f := newFixture(t, &fakeAPI{validAccess: "new", nextAccess: "new", nextRefresh: "r2"})
	f.login(t, "old", "r1")

	_, err := f.client.ListGyms(context.Background())
	require.NoError(t, err)

	refresh, _, err := f.store.Get(session.KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, "r2", refresh)
}

func TestSecondUnauthorizedDoesNotRefreshAgain(t *testing.T) {
	f := newFixture(t, &fakeAPI{alwaysReject: true, nextAccess: "new"})
	f.login(t, "old", "r1")

	_, err := f.client.ListGyms(context.Background())
	require.ErrorIs(t, err, errors.ErrUnauthorized)
	var respErr *errors.ResponseError
	require.ErrorAs(t, err, &respErr)
	require.Equal(t, http.StatusUnauthorized, respErr.StatusCode)
	require.Equal(t, "Given token not valid for any token type", errors.DisplayMessage(err))

	require.Equal(t, int32(1), f.api.refreshCalls.Load())
	require.Equal(t, int32(2), f.api.gymCalls.Load())
	require.Zero(t, f.expired.Load())
}

func TestRefreshFailureClearsSession(t *testing.T) {
	f := newFixture(t, &fakeAPI{validAccess: "unreachable", refreshFails: true})
	f.login(t, "old", "r1")

	_, err := f.client.ListGyms(context.Background())
	require.ErrorIs(t, err, errors.ErrSessionExpired)
	require.Equal(t, int32(1), f.expired.Load())
	require.Equal(t, int32(1), f.api.gymCalls.Load(), "the original request is not retried")
	require.Zero(t, f.store.Len())
}

func TestExpiredHookFiresOncePerSession(t *testing.T) {
	f := newFixture(t, &fakeAPI{validAccess: "unreachable", refreshFails: true})
	f.login(t, "old", "r1")

	_, err := f.client.ListGyms(context.Background())
	require.ErrorIs(t, err, errors.ErrSessionExpired)
	require.Equal(t, int32(1), f.expired.Load())

	// A late 401 for the cleared session finds no refresh token.
	_, err = f.client.ListGyms(context.Background())
	require.ErrorIs(t, err, errors.ErrSessionExpired)
	require.ErrorIs(t, err, errors.ErrNoRefreshToken)
	require.Equal(t, int32(1), f.expired.Load())
	require.Equal(t, int32(1), f.api.refreshCalls.Load())

	require.NoError(t, f.client.Session().Save("old", "r2"))
	_, err = f.client.ListGyms(context.Background())
	require.ErrorIs(t, err, errors.ErrSessionExpired)
	require.Equal(t, int32(2), f.expired.Load(), "a new login expires on its own")
}

func TestRefreshCalledDirectlyIsReported(t *testing.T) {
	f := newFixture(t, &fakeAPI{nextAccess: "new"})

	pair, err := f.client.Refresh(context.Background(), "r1")
	require.NoError(t, err)
	require.Equal(t, "new", pair.Access)
	require.Equal(t, []string{"sending>done"}, f.states)
}

func TestConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	const callers = 6
	arrivals := &sync.WaitGroup{}
	arrivals.Add(callers)
	f := newFixture(t, &fakeAPI{validAccess: "new", nextAccess: "new", arrivals: arrivals})
	f.login(t, "old", "r1")

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.client.ListGyms(context.Background())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), f.api.refreshCalls.Load())
	require.Equal(t, int32(2*callers), f.api.gymCalls.Load())
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := apiclient.New(url, session.NewManager(sessionrepofakes.NewFakeSessionStore()), apiclient.WithLogger(zerolog.Nop()))
	_, err := client.ListGyms(context.Background())

	require.ErrorIs(t, err, errors.ErrNetwork)
	require.NotErrorIs(t, err, errors.ErrTimeout)
	var netErr *errors.NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Equal(t, apiclient.PathGyms, netErr.Path)
	require.Equal(t, errors.NetworkMessage, errors.DisplayMessage(err))
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	client := apiclient.New(srv.URL, session.NewManager(sessionrepofakes.NewFakeSessionStore()),
		apiclient.WithLogger(zerolog.Nop()), apiclient.WithTimeout(30*time.Millisecond))
	_, err := client.ListGyms(context.Background())

	require.ErrorIs(t, err, errors.ErrTimeout)
	require.ErrorIs(t, err, errors.ErrNetwork)
	require.Equal(t, errors.TimeoutMessage, errors.DisplayMessage(err))
}

func TestCallerCancellationIsNotANetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	client := apiclient.New(srv.URL, session.NewManager(sessionrepofakes.NewFakeSessionStore()), apiclient.WithLogger(zerolog.Nop()))
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := client.ListGyms(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.NotErrorIs(t, err, errors.ErrNetwork)
}

func TestLoginTokenFields(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    apiclient.TokenPair
		wantErr error
	}{
		{"simplejwt", `{"access":"a","refresh":"r"}`, apiclient.TokenPair{Access: "a", Refresh: "r"}, nil},
		{"oauth style", `{"access_token":"a","refresh_token":"r"}`, apiclient.TokenPair{Access: "a", Refresh: "r"}, nil},
		{"bare token", `{"token":"a"}`, apiclient.TokenPair{Access: "a"}, nil},
		{"nested", `{"tokens":{"access":"a","refresh":"r"}}`, apiclient.TokenPair{Access: "a", Refresh: "r"}, nil},
		{"missing access", `{"refresh":"r"}`, apiclient.TokenPair{}, errors.ErrNoAccessToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, apiclient.PathLogin, r.URL.Path)
				require.Empty(t, r.Header.Get("Authorization"))
				var creds apiclient.Credentials
				require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
				require.Equal(t, "owner@gym.example", creds.Email)
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, tt.body)
			}))
			t.Cleanup(srv.Close)

			store := sessionrepofakes.NewFakeSessionStore()
			require.NoError(t, store.Set(session.KeyAccessToken, "stale"))
			client := apiclient.New(srv.URL, session.NewManager(store), apiclient.WithLogger(zerolog.Nop()))

			pair, err := client.Login(context.Background(), "owner@gym.example", "pw")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Equal(t, "no access token returned from login API", errors.DisplayMessage(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, pair)
		})
	}
}

func TestLoginRejectedIsNotRefreshed(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "No active account found with the given credentials"})
	})
	mux.HandleFunc("POST /api/auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	expired := false
	client := apiclient.New(srv.URL, session.NewManager(sessionrepofakes.NewFakeSessionStore()),
		apiclient.WithLogger(zerolog.Nop()), apiclient.WithSessionExpiredHandler(func() { expired = true }))

	_, err := client.Login(context.Background(), "owner@gym.example", "wrong")
	require.ErrorIs(t, err, errors.ErrUnauthorized)
	require.Equal(t, "No active account found with the given credentials", errors.DisplayMessage(err))
	require.Zero(t, refreshCalls.Load())
	require.False(t, expired)
}

type recorded struct {
	method string
	uri    string
	body   string
	auth   string
}

func recordingServer(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *[]recorded) {
	t.Helper()
	var mu sync.Mutex
	calls := &[]recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		*calls = append(*calls, recorded{method: r.Method, uri: r.URL.RequestURI(), body: string(body), auth: r.Header.Get("Authorization")})
		mu.Unlock()
		respond(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func TestEndpoints(t *testing.T) {
	srv, calls := recordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case strings.HasPrefix(r.URL.Path, "/api/billing/"):
			writeJSON(w, http.StatusOK, map[string]any{"razorpay_key": "rzp_test", "subscription_id": "sub_1"})
		case r.Method == http.MethodGet:
			writeJSON(w, http.StatusOK, []map[string]any{{"id": "m1", "name": "Asha", "plan": "monthly", "days_left": 3}})
		default:
			writeJSON(w, http.StatusCreated, map[string]any{"id": 9, "name": "Asha", "plan": "yearly", "days_left": nil})
		}
	})

	store := sessionrepofakes.NewFakeSessionStore()
	require.NoError(t, session.SaveTokens(store, "tok", "r1"))
	client := apiclient.New(srv.URL, session.NewManager(store), apiclient.WithLogger(zerolog.Nop()))
	ctx := context.Background()

	list, err := client.ListMembers(ctx, "g1", "  asha ")
	require.NoError(t, err)
	require.Equal(t, members.StatusExpiring, list[0].Status())

	_, err = client.ListMembers(ctx, "g1", "")
	require.NoError(t, err)

	form := members.NewForm()
	form.Name = "Asha"
	created, err := client.CreateMember(ctx, "g1", form)
	require.NoError(t, err)
	require.Equal(t, "9", created.ID)

	_, err = client.UpdateMember(ctx, "g1", "9", form)
	require.NoError(t, err)

	require.NoError(t, client.DeleteMember(ctx, "g1", "9"))

	_, err = client.ExpiringMembers(ctx, "g1", 7)
	require.NoError(t, err)

	gym, err := client.CreateGym(ctx, tenants.GymInput{Name: "Iron Works", ZipCode: "411001"})
	require.NoError(t, err)
	require.Equal(t, "9", gym.ID)

	checkout, err := client.Checkout(ctx, billing.CheckoutRequest{Plan: "pro", BillingCycle: billing.CycleYearly})
	require.NoError(t, err)
	require.Equal(t, billing.CheckoutResponse{RazorpayKey: "rzp_test", SubscriptionID: "sub_1"}, checkout)

	got := *calls
	require.Len(t, got, 8)
	want := []struct{ method, uri string }{
		{http.MethodGet, "/api/gyms/g1/members/?search=asha"},
		{http.MethodGet, "/api/gyms/g1/members/"},
		{http.MethodPost, "/api/gyms/g1/members/"},
		{http.MethodPatch, "/api/gyms/g1/members/9/"},
		{http.MethodDelete, "/api/gyms/g1/members/9/delete"},
		{http.MethodGet, "/api/gyms/g1/members/expiring/?days=7"},
		{http.MethodPost, "/api/gyms/"},
		{http.MethodPost, "/api/billing/checkout/"},
	}
	for i, w := range want {
		require.Equal(t, w.method, got[i].method, i)
		require.Equal(t, w.uri, got[i].uri, i)
		require.Equal(t, "Bearer tok", got[i].auth, i)
	}
	require.JSONEq(t, `{"name":"Asha","phone":"","plan":"monthly","start_date":"","end_date":"","course_taken":"","offer_taken":""}`, got[2].body)
	require.JSONEq(t, `{"name":"Iron Works","zip_code":"411001"}`, got[6].body)
	require.JSONEq(t, `{"plan":"pro","billing_cycle":"yearly"}`, got[7].body)
}

func TestRetryResendsSameBody(t *testing.T) {
	var attempts atomic.Int32
	srv, calls := recordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == apiclient.PathRefresh {
			writeJSON(w, http.StatusOK, map[string]any{"access": "new"})
			return
		}
		if attempts.Add(1) == 1 {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "expired"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": "m1", "name": "Asha"})
	})

	store := sessionrepofakes.NewFakeSessionStore()
	require.NoError(t, session.SaveTokens(store, "old", "r1"))
	client := apiclient.New(srv.URL, session.NewManager(store), apiclient.WithLogger(zerolog.Nop()))

	form := members.NewForm()
	form.Name = "Asha"
	_, err := client.CreateMember(context.Background(), "g1", form)
	require.NoError(t, err)

	got := *calls
	require.Len(t, got, 3)
	require.Equal(t, got[0].body, got[2].body)
	require.Equal(t, "Bearer old", got[0].auth)
	require.Empty(t, got[1].auth, "refresh is sent without the rejected token")
	require.Equal(t, "Bearer new", got[2].auth)
}

func TestValidationError(t *testing.T) {
	srv, _ := recordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"name":["This field is required."],"phone":["Enter a valid phone.","Too short."]}`)
	})

	store := sessionrepofakes.NewFakeSessionStore()
	require.NoError(t, session.SaveTokens(store, "tok", ""))
	client := apiclient.New(srv.URL, session.NewManager(store), apiclient.WithLogger(zerolog.Nop()))

	_, err := client.CreateMember(context.Background(), "g1", members.NewForm())
	require.ErrorIs(t, err, errors.ErrValidation)
	require.Equal(t, "name: This field is required.\nphone: Enter a valid phone. Too short.", errors.DisplayMessage(err))
}
