package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rajgupta764/legal-saarthi/internal/client/client"
	"github.com/Rajgupta764/legal-saarthi/internal/client/config"
	"github.com/Rajgupta764/legal-saarthi/internal/client/services"
	"github.com/Rajgupta764/legal-saarthi/internal/common"
	"github.com/Rajgupta764/legal-saarthi/internal/mockbackend"
)

const (
	testEmail    = "asha@example.com"
	testPassword = "secret1"
)

type testEnv struct {
	app     *App
	out     *bytes.Buffer
	backend *mockbackend.Server
	server  *httptest.Server
}

// newTestEnv returns an app whose (empty) session has been bootstrapped.
func newTestEnv(t *testing.T, script string) *testEnv {
	t.Helper()
	env := newUnbootedEnv(t, script)
	env.app.session.Bootstrap(context.Background())
	return env
}

func newUnbootedEnv(t *testing.T, script string) *testEnv {
	t.Helper()

	mb := mockbackend.New()
	require.NoError(t, mb.Seed("Asha", testEmail, "9876543210", testPassword))
	srv := httptest.NewServer(mb.Handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = srv.URL + mockbackend.APIPrefix
	cfg.StoragePath = config.StorageMemory
	cfg.OnlineCheckInterval = 0

	out := &bytes.Buffer{}
	app, err := newApp(context.Background(), cfg, strings.NewReader(script), out, io.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	return &testEnv{app: app, out: out, backend: mb, server: srv}
}

func loginScript() string {
	return testEmail + "\n" + testPassword + "\n"
}

func TestNewApp_InvalidConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StoragePath = config.StorageMemory

	cfg.LogLevel = "loud"
	_, err := newApp(context.Background(), cfg, strings.NewReader(""), io.Discard, io.Discard)
	require.Error(t, err)

	cfg.LogLevel = "warn"
	cfg.APIBaseURL = "ftp://example.com"
	_, err = newApp(context.Background(), cfg, strings.NewReader(""), io.Discard, io.Discard)
	require.Error(t, err)
}

func TestNewApp_SQLiteStorage(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StoragePath = filepath.Join(t.TempDir(), "session.db")

	app, err := newApp(context.Background(), cfg, strings.NewReader(""), io.Discard, io.Discard)
	require.NoError(t, err)
	require.NotNil(t, app.repos.DB)
	require.NoError(t, app.Close())
}

func TestLogin_ShowsDashboard(t *testing.T) {
	env := newTestEnv(t, loginScript())
	ctx := context.Background()

	require.NoError(t, env.app.Login(ctx))

	assert.True(t, env.app.isLoggedIn())
	assert.Equal(t, PathDashboard, env.app.router.Current())
	out := env.out.String()
	assert.Contains(t, out, services.MsgLoginSuccess)
	assert.Contains(t, out, "== Dashboard ==")
	assert.Contains(t, out, "नमस्ते, Asha")
	assert.Equal(t, "(Asha)", env.app.status())

	token, err := env.app.session.GetToken(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t, testEmail+"\nwrong-password\n")

	require.NoError(t, env.app.Login(context.Background()))

	assert.False(t, env.app.isLoggedIn())
	assert.Equal(t, PathAuth, env.app.router.Current())
	assert.Contains(t, env.out.String(), "गलत ईमेल या पासवर्ड")
	assert.NotContains(t, env.out.String(), "session has expired")
}

func TestLogin_BackendDown(t *testing.T) {
	env := newTestEnv(t, loginScript())
	env.server.Close()

	require.NoError(t, env.app.Login(context.Background()))
	assert.Contains(t, env.out.String(), services.MsgConnectivity)
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		want     string
		loggedIn bool
		requests int64
	}{
		{
			name:     "passwords differ",
			script:   "Ravi\nravi@example.com\n9876543210\nsecret1\nsecret2\n",
			want:     MsgPasswordMismatch,
			requests: 0,
		},
		{
			name:     "password too short",
			script:   "Ravi\nravi@example.com\n9876543210\nabc\nabc\n",
			want:     MsgPasswordTooShort,
			requests: 0,
		},
		{
			name:     "email taken",
			script:   "Asha\n" + testEmail + "\n9876543210\nsecret1\nsecret1\n",
			want:     "यह ईमेल पहले से पंजीकृत है",
			requests: 1,
		},
		{
			name:     "success",
			script:   "Ravi\nravi@example.com\n9876543210\nsecret1\nsecret1\n",
			want:     services.MsgSignupSuccess,
			loggedIn: true,
			requests: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.script)

			require.NoError(t, env.app.Signup(context.Background()))

			assert.Contains(t, env.out.String(), tt.want)
			assert.Equal(t, tt.loggedIn, env.app.isLoggedIn())
			assert.Equal(t, tt.requests, env.backend.Requests())
		})
	}
}

func TestReadSecret_Interactive(t *testing.T) {
	env := newTestEnv(t, testEmail+"\n")
	env.app.interactive = true

	orig := getPassword
	t.Cleanup(func() { getPassword = orig })
	getPassword = func(prompt string, w io.Writer) ([]byte, error) {
		return []byte(testPassword), nil
	}

	require.NoError(t, env.app.Login(context.Background()))
	assert.True(t, env.app.isLoggedIn())
}

func TestGo_ProtectedViewRedirects(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	require.NoError(t, env.app.Go(ctx, PathUpload))
	assert.Equal(t, PathAuth, env.app.router.Current())
	assert.Contains(t, env.out.String(), "== Login / Signup ==")

	require.ErrorIs(t, env.app.Go(ctx, "/admin"), ErrUnknownView)
}

func TestLogout_ReturnsHome(t *testing.T) {
	env := newTestEnv(t, loginScript())
	ctx := context.Background()
	require.NoError(t, env.app.Login(ctx))

	require.NoError(t, env.app.Logout(ctx))

	assert.False(t, env.app.isLoggedIn())
	assert.Equal(t, PathHome, env.app.router.Current())
	token, err := env.app.session.GetToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSessionInvalidated_RedirectsToAuth(t *testing.T) {
	env := newTestEnv(t, loginScript())
	ctx := context.Background()
	require.NoError(t, env.app.Login(ctx))

	env.backend.RotateSecret("another-secret")

	err := env.app.Profile(ctx)
	require.ErrorIs(t, err, client.ErrUnauthorized)

	assert.False(t, env.app.isLoggedIn())
	assert.Equal(t, PathAuth, env.app.router.Current())
	assert.Contains(t, env.out.String(), "Your session has expired")

	raw, err := env.app.repos.Metadata.Get(ctx, common.UserDataKey)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestWhoAmIAndProfile(t *testing.T) {
	env := newTestEnv(t, loginScript())
	ctx := context.Background()

	require.ErrorIs(t, env.app.WhoAmI(ctx), services.ErrNotAuthenticated)
	require.NoError(t, env.app.Login(ctx))
	env.out.Reset()

	require.NoError(t, env.app.WhoAmI(ctx))
	assert.Contains(t, env.out.String(), "Email: "+testEmail)
	assert.Contains(t, env.out.String(), "Token: expires at")

	env.out.Reset()
	require.NoError(t, env.app.Profile(ctx))
	assert.Contains(t, env.out.String(), "Name: Asha")
	assert.Contains(t, env.out.String(), "Phone: 9876543210")
}

func TestFeatures(t *testing.T) {
	tests := []struct {
		name   string
		script string
		run    func(a *App, ctx context.Context) error
		want   []string
	}{
		{
			name:   "classify",
			script: "mere khet ki zameen par kabza ho gaya\n\n",
			run:    (*App).Classify,
			want:   []string{"Category: ज़मीन विवाद (land_dispute)", "Steps:", "आधार कार्ड"},
		},
		{
			name:   "schemes",
			script: "100000\n\n\n\n",
			run:    (*App).Schemes,
			want:   []string{"pm_kisan", "nalsa_free_aid"},
		},
		{
			name:   "legal aid by district",
			script: "Gaya\n\n",
			run:    (*App).LegalAid,
			want:   []string{"District Legal Services Authority, Gaya"},
		},
		{
			name:   "legal aid with bad pincode",
			script: "\n12ab\n",
			run:    (*App).LegalAid,
			want:   []string{"Please enter a valid 6-digit pincode"},
		},
		{
			name:   "draft",
			script: "7\nपुलिस ने FIR दर्ज नहीं की\n\n",
			run:    (*App).Draft,
			want:   []string{"विषय: police_complaint", "प्राप्ति रसीद अवश्य लें", "नज़दीकी पुलिस थाना"},
		},
		{
			name:   "chat to document",
			script: "1\n1\ny\n",
			run:    (*App).Chat,
			want:   []string{"आपकी समस्या किस बारे में है?", "यह घटना कब हुई?", "FIR दर्ज करें", "FIR तैयार करने के लिए तैयार है"},
		},
		{
			name:   "chat ended early",
			script: "done\n",
			run:    (*App).Chat,
			want:   []string{"1. पुलिस उत्पीड़न"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, loginScript()+tt.script)
			ctx := context.Background()
			require.NoError(t, env.app.Login(ctx))
			env.out.Reset()

			require.NoError(t, tt.run(env.app, ctx))

			for _, w := range tt.want {
				assert.Contains(t, env.out.String(), w)
			}
		})
	}
}

func TestFeatures_InputErrors(t *testing.T) {
	env := newTestEnv(t, loginScript()+"\n\n\n"+"99\n")
	ctx := context.Background()
	require.NoError(t, env.app.Login(ctx))

	require.ErrorIs(t, env.app.Schemes(ctx), services.ErrEmptyInput)
	require.ErrorIs(t, env.app.Draft(ctx), services.ErrEmptyInput)
}

func TestUpload(t *testing.T) {
	dir := t.TempDir()
	notice := filepath.Join(dir, "notice.pdf")
	require.NoError(t, os.WriteFile(notice, []byte("%PDF-1.4 notice"), 0o600))
	text := filepath.Join(dir, "notice.txt")
	require.NoError(t, os.WriteFile(text, []byte("plain"), 0o600))

	env := newTestEnv(t, loginScript())
	ctx := context.Background()
	require.NoError(t, env.app.Login(ctx))

	require.NoError(t, env.app.Upload(ctx, notice))
	assert.Equal(t, PathUpload, env.app.router.Current())
	assert.Contains(t, env.out.String(), `"documentType": "court_notice"`)
	assert.Contains(t, env.out.String(), `"filename": "notice.pdf"`)

	err := env.app.Upload(ctx, text)
	require.Error(t, err)
	assert.Equal(t, "केवल PNG, JPG, PDF फ़ाइलें स्वीकार हैं। आपकी फ़ाइल: .txt", errorMessage(err))

	err = env.app.Upload(ctx, filepath.Join(dir, "missing.pdf"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLearn(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	require.NoError(t, env.app.Learn(ctx, nil))
	assert.Contains(t, env.out.String(), "police_powers")

	env.out.Reset()
	require.NoError(t, env.app.Learn(ctx, []string{"user_rights"}))
	assert.Contains(t, env.out.String(), "वकील से मिलने का अधिकार")

	env.out.Reset()
	require.NoError(t, env.app.Learn(ctx, []string{"search", "FIR"}))
	assert.Contains(t, env.out.String(), "fir_information")

	require.ErrorIs(t, env.app.Learn(ctx, []string{"search"}), services.ErrEmptyInput)
}

func TestStartOnlineStatusWatcher(t *testing.T) {
	env := newTestEnv(t, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		env.app.StartOnlineStatusWatcher(ctx, 10*time.Millisecond)
	}()

	require.Eventually(t, func() bool { return env.app.Mode() == ModeOnline }, 2*time.Second, 5*time.Millisecond)

	env.server.Close()
	require.Eventually(t, func() bool { return env.app.Mode() == ModeOffline }, 2*time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, "(offline)", env.app.status())
}

func TestRun_REPLSession(t *testing.T) {
	out := capturePrintln(t)

	script := strings.Join([]string{
		"help",
		"go /dashboard",
		"login",
		testEmail,
		testPassword,
		"learn fear",
		"logout",
		"exit",
	}, "\n") + "\n"
	env := newTestEnv(t, script)

	require.NoError(t, env.app.Run(context.Background()))

	assert.Contains(t, out.String(), "Available commands: login, signup, go, learn, exit")
	assert.Contains(t, out.String(), "Bye!")
	assert.Contains(t, env.out.String(), "Welcome to Legal Saathi CLI")
	assert.Contains(t, env.out.String(), "== Rural Legal Saathi ==")
	assert.Contains(t, env.out.String(), services.MsgLoginSuccess)
	assert.Contains(t, env.out.String(), "Logged out.")
	assert.False(t, env.app.isLoggedIn())
}

func TestRun_RestoresPersistedSession(t *testing.T) {
	env := newUnbootedEnv(t, "whoami\nexit\n")
	ctx := context.Background()

	token, err := env.backend.IssueToken(testEmail)
	require.NoError(t, err)
	require.NoError(t, env.app.repos.Metadata.SetMany(ctx, map[string][]byte{
		common.AuthTokenKey: []byte(token),
		common.UserDataKey:  []byte(`{"name":"Asha","email":"asha@example.com"}`),
	}))
	capturePrintln(t)

	require.NoError(t, env.app.Run(ctx))

	assert.True(t, env.app.isLoggedIn())
	assert.Contains(t, env.out.String(), "Token: expires at")
}

func TestMetricsHandler(t *testing.T) {
	env := newTestEnv(t, "")
	require.NoError(t, env.app.Learn(context.Background(), nil))

	rec := httptest.NewRecorder()
	env.app.metricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "legal_saarthi_client_requests_total")
}
