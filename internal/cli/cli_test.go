package cli_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/gymflow/app"
	"github.com/jrsteele09/gymflow/devserver"
	"github.com/jrsteele09/gymflow/internal/cli"
	"github.com/jrsteele09/gymflow/internal/config"
	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// startTestServer runs an in-memory dev server and points the CLI's data folder at a
// temp dir.
func startTestServer(t *testing.T) string {
	t.Helper()
	t.Setenv("GYMFLOW_FOLDER", t.TempDir())
	for _, v := range []string{"GYMFLOW_API_URL", "GYMFLOW_SESSION_BACKEND", "GYMFLOW_SESSION_PATH", "GYMFLOW_LOG_LEVEL"} {
		t.Setenv(v, "")
	}

	srv := httptest.NewServer(devserver.New(config.New(), devserver.InMemoryRepos(), devserver.WithLogger(zerolog.Nop())))
	t.Cleanup(srv.Close)
	return srv.URL
}

func runCLI(t *testing.T, serverURL, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--server", serverURL, "--log-level", "disabled"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, serverURL string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, serverURL, "", args...)
	require.NoError(t, err, out)
	return out
}

func signedUp(t *testing.T, serverURL string) {
	t.Helper()
	mustRun(t, serverURL, "signup", "--email", "owner@gym.example", "--password", "lift4ever", "--confirm", "lift4ever")
	out := mustRun(t, serverURL, "login", "--email", "owner@gym.example", "--password", "lift4ever")
	require.Contains(t, out, "Logged in as owner@gym.example")
}

var idPattern = regexp.MustCompile(`\(([0-9a-f-]{36})\)`)

func idFrom(t *testing.T, out string) string {
	t.Helper()
	m := idPattern.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	return m[1]
}

func TestSignupAndLogin(t *testing.T) {
	url := startTestServer(t)

	out := mustRun(t, url, "signup", "--email", "owner@gym.example", "--password", "lift4ever", "--confirm", "lift4ever")
	require.Contains(t, out, "Account created")
	require.Contains(t, out, "gymflow login")

	out = mustRun(t, url, "login", "--email", "owner@gym.example", "--password", "lift4ever")
	require.Contains(t, out, "No gym yet")

	out = mustRun(t, url, "status")
	require.Contains(t, out, "Logged in:  yes")
	require.Contains(t, out, "valid until")
	require.Contains(t, out, "Active gym: -")
}

func TestSignup_PasswordMismatch(t *testing.T) {
	url := startTestServer(t)
	_, err := runCLI(t, url, "", "signup", "--email", "a@b.example", "--password", "lift4ever", "--confirm", "nope")
	require.ErrorIs(t, err, app.ErrPasswordMismatch)
	require.Equal(t, "Passwords do not match.", errors.DisplayMessage(err))
}

func TestLogin_Prompts(t *testing.T) {
	url := startTestServer(t)
	mustRun(t, url, "signup", "--email", "owner@gym.example", "--password", "lift4ever", "--confirm", "lift4ever")

	out, err := runCLI(t, url, "owner@gym.example\nlift4ever\n", "login")
	require.NoError(t, err)
	require.Contains(t, out, "Email: ")
	require.Contains(t, out, "Password: ")
	require.Contains(t, out, "Logged in as owner@gym.example")
}

func TestLogin_BadPassword(t *testing.T) {
	url := startTestServer(t)
	mustRun(t, url, "signup", "--email", "owner@gym.example", "--password", "lift4ever", "--confirm", "lift4ever")

	_, err := runCLI(t, url, "", "login", "--email", "owner@gym.example", "--password", "wrong-pass1")
	require.ErrorIs(t, err, errors.ErrUnauthorized)
	require.Equal(t, "No active account found with the given credentials", errors.DisplayMessage(err))
}

func TestNotLoggedIn(t *testing.T) {
	url := startTestServer(t)

	out, err := runCLI(t, url, "", "members", "list")
	require.ErrorIs(t, err, errors.ErrNotAuthenticated)
	require.Contains(t, out, "gymflow login")

	out = mustRun(t, url, "status")
	require.Contains(t, out, "Logged in:  no")
}

func TestGyms(t *testing.T) {
	url := startTestServer(t)
	signedUp(t, url)

	out := mustRun(t, url, "gyms", "list")
	require.Contains(t, out, "No gym yet")

	_, err := runCLI(t, url, "", "gyms", "create")
	require.ErrorIs(t, err, errors.ErrValidation)

	out = mustRun(t, url, "gyms", "create", "--name", "Iron Works", "--city", "Pune")
	require.Contains(t, out, "now active")
	first := idFrom(t, out)
	second := idFrom(t, mustRun(t, url, "gyms", "create", "--name", "Annex"))

	out = mustRun(t, url, "gyms", "list")
	require.Regexp(t, `\*\s+`+second+`\s+Annex`, out)
	require.Contains(t, out, "Pune")

	out = mustRun(t, url, "gyms", "use", first)
	require.Contains(t, out, "Active gym: Iron Works")
	require.Regexp(t, `\*\s+`+first+`\s+Iron Works`, mustRun(t, url, "gyms", "list"))
	require.Contains(t, mustRun(t, url, "status"), "Active gym: "+first)

	_, err = runCLI(t, url, "", "gyms", "use", "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, errors.ErrNotFound)
}

func TestMembers(t *testing.T) {
	devserver.NowTimeFunc = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local) }
	t.Cleanup(func() { devserver.NowTimeFunc = time.Now })

	url := startTestServer(t)
	signedUp(t, url)

	out := mustRun(t, url, "members", "list")
	require.Contains(t, out, "No gym yet")

	mustRun(t, url, "gyms", "create", "--name", "Iron Works")
	require.Contains(t, mustRun(t, url, "members", "list"), "No members found.")

	out = mustRun(t, url, "members", "add", "--name", "Asha", "--phone", "98765", "--start", "2026-03-01", "--end", "2026-03-12")
	require.Contains(t, out, "Added Asha")
	require.Contains(t, out, "expiring")
	asha := idFrom(t, out)

	mustRun(t, url, "members", "add", "--name", "Ravi", "--phone", "55501", "--plan", "yearly", "--end", "2026-03-01")

	_, err := runCLI(t, url, "", "members", "add", "--name", "Bad", "--phone", "1", "--plan", "weekly")
	require.Error(t, err)
	_, err = runCLI(t, url, "", "members", "add", "--phone", "1")
	require.ErrorIs(t, err, errors.ErrValidation)
	require.Contains(t, errors.DisplayMessage(err), "name: This field may not be blank.")

	out = mustRun(t, url, "members", "list")
	require.Less(t, strings.Index(out, "Ravi"), strings.Index(out, "Asha"), "sorted by days left")
	require.Contains(t, out, "9 overdue")
	require.Contains(t, out, "2 days")

	out = mustRun(t, url, "members", "list", "--plan", "yearly")
	require.Contains(t, out, "Ravi")
	require.NotContains(t, out, "Asha")

	out = mustRun(t, url, "members", "list", "--search", "ash")
	require.Contains(t, out, "Asha")
	require.NotContains(t, out, "Ravi")

	out = mustRun(t, url, "members", "update", asha, "--end", "2026-06-01")
	require.Contains(t, out, "Updated Asha")
	require.Contains(t, out, "active, 83 days")
	require.Contains(t, mustRun(t, url, "members", "list", "--search", "98765"), "monthly")

	out = mustRun(t, url, "subscriptions", "--tab", "expired")
	require.Regexp(t, `Total\S* 2`, out)
	require.Contains(t, out, "Ravi")
	require.NotContains(t, out, "Asha")

	_, err = runCLI(t, url, "", "subscriptions", "--tab", "soon")
	require.ErrorIs(t, err, errors.ErrValidation)

	_, err = runCLI(t, url, "", "members", "update", "missing-id", "--name", "X")
	require.ErrorIs(t, err, errors.ErrNotFound)

	require.Contains(t, mustRun(t, url, "members", "delete", asha), "Deleted member "+asha)
	require.NotContains(t, mustRun(t, url, "members", "list"), "Asha")
}

func TestLogout(t *testing.T) {
	url := startTestServer(t)
	signedUp(t, url)
	mustRun(t, url, "gyms", "create", "--name", "Iron Works")

	require.Contains(t, mustRun(t, url, "logout"), "Logged out")
	out := mustRun(t, url, "status")
	require.Contains(t, out, "Logged in:  no")
}

func TestSQLiteSession(t *testing.T) {
	url := startTestServer(t)
	mustRun(t, url, "--session-backend", "sqlite", "signup", "--email", "owner@gym.example", "--password", "lift4ever", "--confirm", "lift4ever")
	mustRun(t, url, "--session-backend", "sqlite", "login", "--email", "owner@gym.example", "--password", "lift4ever")

	out := mustRun(t, url, "--session-backend", "sqlite", "status")
	require.Contains(t, out, "Logged in:  yes")
	require.Contains(t, out, "session.db")

	require.Contains(t, mustRun(t, url, "status"), "Logged in:  no", "file backend is separate")
}

func TestPricingAndCheckout(t *testing.T) {
	url := startTestServer(t)

	out := mustRun(t, url, "pricing")
	require.Contains(t, out, "$9.99/month")
	require.Contains(t, out, "(popular)")
	require.Contains(t, mustRun(t, url, "pricing", "--yearly"), "$199.99/year")

	signedUp(t, url)
	out = mustRun(t, url, "checkout", "--plan", "pro", "--yearly")
	require.Contains(t, out, "Key:          rzp_test_gymflow")
	require.Regexp(t, `Subscription: sub_[0-9a-f]{14}`, out)

	_, err := runCLI(t, url, "", "checkout", "--plan", "free")
	require.ErrorIs(t, err, errors.ErrValidation)
	_, err = runCLI(t, url, "", "checkout")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	url := startTestServer(t)
	out := mustRun(t, url, "version")
	require.Contains(t, out, "gymflow "+cli.Version)
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()

	store, closer, err := cli.OpenStore(config.SessionBackendMemory, "")
	require.NoError(t, err)
	require.Nil(t, closer)
	require.NoError(t, store.Set("k", "v"))

	store, closer, err = cli.OpenStore(config.SessionBackendSQLite, filepath.Join(dir, "nested", "session.db"))
	require.NoError(t, err)
	require.NotNil(t, closer)
	require.NoError(t, store.Set("k", "v"))
	v, ok, err := store.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", v)
	require.NoError(t, closer.Close())

	store, closer, err = cli.OpenStore(config.SessionBackendFile, filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	require.Nil(t, closer)
	_, ok, err = store.Get("k")
	require.NoError(t, err)
	require.False(t, ok)

	_, _, err = cli.OpenStore("redis", "")
	require.ErrorIs(t, err, errors.ErrValidation)
}
