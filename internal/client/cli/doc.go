// Package cli provides the interactive Legal Saathi terminal client.
//
// It wires configuration, local session storage, the API client and the
// session store, and serves a REPL over a small set of views: home, auth,
// dashboard and upload. The dashboard and upload views require a session;
// while the persisted session is being verified they show a loading
// placeholder, and without one the router sends the user to the auth view.
//
// When the backend rejects the token, the API client clears storage and
// the App logs out and returns to the auth view.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, Router, StartOnlineStatusWatcher, and runREPL for details.
package cli
