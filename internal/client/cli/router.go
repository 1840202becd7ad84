package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/Rajgupta764/legal-saarthi/internal/client/services"
)

const (
	PathHome      = "/"
	PathAuth      = "/auth"
	PathDashboard = "/dashboard"
	PathUpload    = "/upload"
)

// LoadingText is shown instead of a protected view while the session is
// still being restored.
const LoadingText = "लोड हो रहा है..."

var ErrUnknownView = errors.New("unknown view")

// View is one screen of the terminal app.
type View struct {
	Path      string
	Title     string
	Protected bool
	Render    func(w io.Writer, st services.State)
}

// Router tracks the current view. Protected views are only shown to an
// authenticated session: while the session is loading a placeholder is
// rendered instead, and without a session the router redirects to PathAuth.
type Router struct {
	state func() services.State

	mu      sync.Mutex
	views   map[string]View
	current string
}

func NewRouter(state func() services.State, views ...View) *Router {
	r := &Router{
		state:   state,
		views:   make(map[string]View, len(views)),
		current: PathHome,
	}
	for _, v := range views {
		r.views[v.Path] = v
	}
	return r
}

// Navigate switches to path and returns the path actually shown, which
// differs from path when the guard redirected.
func (r *Router) Navigate(path string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.views[path]
	if !ok {
		return r.current, fmt.Errorf("%w: %s", ErrUnknownView, path)
	}
	r.current = r.guard(v, r.state())
	return r.current, nil
}

func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Paths lists the registered views in lexical order.
func (r *Router) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.views))
	for p := range r.views {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Render writes the current view to w. The guard is applied again, so a
// session that ended since the last navigation lands on PathAuth.
func (r *Router) Render(w io.Writer) {
	st := r.state()

	r.mu.Lock()
	v := r.views[r.current]
	if v.Protected && st.Loading {
		r.mu.Unlock()
		fmt.Fprintln(w, LoadingText)
		return
	}
	r.current = r.guard(v, st)
	v = r.views[r.current]
	r.mu.Unlock()

	if v.Title != "" {
		fmt.Fprintf(w, "== %s ==\n", v.Title)
	}
	if v.Render != nil {
		v.Render(w, st)
	}
}

// guard must be called with r.mu held.
func (r *Router) guard(v View, st services.State) string {
	if v.Protected && !st.Loading && !st.Authenticated {
		return PathAuth
	}
	return v.Path
}
