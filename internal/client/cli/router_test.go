package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rajgupta764/legal-saarthi/internal/client/models"
	"github.com/Rajgupta764/legal-saarthi/internal/client/services"
)

func testRouter(st *services.State) *Router {
	render := func(text string) func(io.Writer, services.State) {
		return func(w io.Writer, _ services.State) { _, _ = io.WriteString(w, text+"\n") }
	}
	return NewRouter(func() services.State { return *st },
		View{Path: PathHome, Render: render("home")},
		View{Path: PathAuth, Title: "Auth", Render: render("auth")},
		View{Path: PathDashboard, Protected: true, Render: render("dashboard")},
		View{Path: PathUpload, Protected: true, Render: render("upload")},
	)
}

func TestRouter_Guard(t *testing.T) {
	user := &models.User{Name: "Asha"}

	tests := []struct {
		name  string
		state services.State
		path  string
		want  string
	}{
		{"public view", services.State{}, PathHome, PathHome},
		{"auth view", services.State{}, PathAuth, PathAuth},
		{"protected without session", services.State{}, PathDashboard, PathAuth},
		{"protected with session", services.State{User: user, Authenticated: true}, PathUpload, PathUpload},
		{"protected while loading", services.State{Loading: true}, PathDashboard, PathDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := tt.state
			r := testRouter(&st)

			got, err := r.Navigate(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, r.Current())
		})
	}
}

func TestRouter_UnknownView(t *testing.T) {
	st := services.State{}
	r := testRouter(&st)

	got, err := r.Navigate("/admin")
	require.ErrorIs(t, err, ErrUnknownView)
	assert.Equal(t, PathHome, got)
	assert.Equal(t, PathHome, r.Current())
}

func TestRouter_RenderLoadingThenResolved(t *testing.T) {
	st := services.State{Loading: true}
	r := testRouter(&st)

	_, err := r.Navigate(PathDashboard)
	require.NoError(t, err)

	var buf bytes.Buffer
	r.Render(&buf)
	assert.Equal(t, LoadingText+"\n", buf.String())

	st = services.State{User: &models.User{Name: "Asha"}, Authenticated: true}
	buf.Reset()
	r.Render(&buf)
	assert.Equal(t, "dashboard\n", buf.String())
	assert.Equal(t, PathDashboard, r.Current())
}

func TestRouter_RenderRedirectsWhenSessionEnded(t *testing.T) {
	st := services.State{Authenticated: true}
	r := testRouter(&st)

	_, err := r.Navigate(PathUpload)
	require.NoError(t, err)

	st = services.State{}
	var buf bytes.Buffer
	r.Render(&buf)

	assert.Equal(t, PathAuth, r.Current())
	assert.Equal(t, "== Auth ==\nauth\n", buf.String())
}

func TestRouter_Paths(t *testing.T) {
	st := services.State{}
	assert.Equal(t, []string{PathHome, PathAuth, PathDashboard, PathUpload}, testRouter(&st).Paths())
}
