// Package client contains the legal-saarthi HTTP API client and the local
// storage bootstrap used by the terminal app.
//
// # Overview
//
// APIClient sends every request through two fixed stages:
//  1. The request stage (prepareRequest) resolves the path against the base
//     URL, encodes the body, attaches "Authorization: Bearer <token>" when a
//     token is stored, and sets "Content-Type: application/json" for JSON
//     bodies. Multipart bodies (*Form) never carry a caller Content-Type; the
//     encoder sets one with the boundary.
//  2. The response stage (the session guard) reacts to 401 by deleting the
//     stored token and profile and calling the handler registered with
//     WithSessionInvalidatedHandler.
//
// Between the two sit optional interceptors: request ids, OpenTelemetry spans,
// Prometheus metrics and structured logging.
//
// # Error Handling
//
// Non-2xx responses return *StatusError with the status and raw body.
// Failures without a response return *TransportError, which matches
// ErrUnavailable and, when the deadline fired, ErrTimeout. A 401 matches
// ErrUnauthorized. Envelopes with success=false decode to *LogicalError.
//
// Requests are never retried.
//
// # Storage
//
// InitDatabase opens the client's SQLite file and applies the embedded goose
// migrations; InitMemory is the non-persistent variant.
package client
