package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/Rajgupta764/legal-saarthi/internal/client/client"
	"github.com/Rajgupta764/legal-saarthi/internal/client/config"
	"github.com/Rajgupta764/legal-saarthi/internal/client/services"
	"github.com/Rajgupta764/legal-saarthi/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

// App is the terminal client. It owns the session store, the API client
// and the view router, and reacts to the API client's session
// invalidation by logging out and returning to the auth view.
type App struct {
	config   *config.Config
	log      logging.Logger
	repos    *client.Repositories
	api      *client.APIClient
	session  *services.SessionStore
	features *services.Features
	router   *Router
	registry *prometheus.Registry

	reader      *bufio.Reader
	out         io.Writer
	interactive bool

	modeMu sync.RWMutex
	mode   Mode

	unsubscribe func()
}

// NewApp wires the client against the terminal.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	app, err := newApp(ctx, c, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		return nil, err
	}
	app.interactive = term.IsTerminal(int(os.Stdin.Fd()))
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, in io.Reader, out, errOut io.Writer) (*App, error) {
	log, err := logging.New(c.LogBackend, c.LogLevel, errOut)
	if err != nil {
		return nil, err
	}

	repos, err := openStorage(ctx, c.StoragePath)
	if err != nil {
		log.Error(ctx, "error initializing storage", "path", c.StoragePath, "error", err)
		return nil, err
	}

	a := &App{
		config:   c,
		log:      log,
		repos:    repos,
		registry: prometheus.NewRegistry(),
		reader:   bufio.NewReader(in),
		out:      &syncWriter{w: out},
	}

	api, err := client.NewAPIClient(c.APIBaseURL, repos.Metadata,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(log),
		client.WithMetrics(client.NewMetrics(a.registry)),
		client.WithTracer(client.NewTracer()),
		client.WithSessionInvalidatedHandler(a.onSessionInvalidated),
	)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	a.api = api
	a.session = services.NewSessionStore(api, repos.Metadata, log)
	a.features = services.NewFeatures(api, services.WithUploadTimeout(c.UploadTimeout))
	a.router = NewRouter(a.session.State, a.views()...)
	a.unsubscribe = a.session.Subscribe(a.onSessionChange)

	return a, nil
}

func openStorage(ctx context.Context, path string) (*client.Repositories, error) {
	if path == config.StorageMemory {
		return client.InitMemory(), nil
	}
	return client.InitDatabase(ctx, path)
}

// Run restores the persisted session and serves the REPL until the user
// exits or ctx is cancelled. The connectivity watcher and, when configured,
// the metrics endpoint run alongside it.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to Legal Saathi CLI (type 'help' for commands)")

	a.session.Bootstrap(ctx)
	a.router.Render(a.out)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.StartOnlineStatusWatcher(gctx, a.config.OnlineCheckInterval)
		return nil
	})

	if a.config.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              a.config.MetricsAddr,
			Handler:           a.metricsHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			a.log.Info(gctx, "serving metrics", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer cancel()
		runREPL(gctx, a, a.status, a.reader)
		return nil
	})

	return g.Wait()
}

// Close releases storage and flushes the logger.
func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if s, ok := a.log.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	return a.repos.Close()
}

func (a *App) metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	return mux
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.log.Info(context.Background(), "switched mode", "mode", mode)
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.State().Authenticated
}

// status is shown in the prompt, e.g. "(Asha online)".
func (a *App) status() string {
	s := ""
	if st := a.session.State(); st.Authenticated && st.User != nil {
		s = st.User.DisplayName() + " "
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	if s = strings.TrimSpace(s); s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// StartOnlineStatusWatcher probes the backend every interval and switches
// between online and offline mode. It blocks until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.api.Ping(pctx)
	cancel()

	if ctx.Err() != nil {
		return
	}
	if err != nil {
		a.log.Debug(ctx, "health check failed", "error", err)
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// onSessionInvalidated runs when the backend rejected the token. Storage
// is already cleared by the API client.
func (a *App) onSessionInvalidated(ctx context.Context) {
	wasAuthenticated := a.session.State().Authenticated

	if err := a.session.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout after invalidation failed", "error", err)
	}
	if _, err := a.router.Navigate(PathAuth); err != nil {
		a.log.Warn(ctx, "redirect to auth view failed", "error", err)
	}
	if wasAuthenticated {
		fmt.Fprintln(a.out, "Your session has expired. Please log in again.")
	}
}

// onSessionChange re-applies the view guard once the session settles.
func (a *App) onSessionChange(st services.State) {
	if st.Loading {
		return
	}
	_, _ = a.router.Navigate(a.router.Current())
}

// syncWriter serializes writes from the REPL and the watcher.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
