// Package common contains shared constants, sentinel errors and small helpers
// used by both the legal-saarthi client and the development backend.
package common

// Durable storage keys. The session store and the API client agree on these
// names and on nothing else.
const (
	AuthTokenKey = "auth_token"
	UserDataKey  = "user_data"
)

// Header names used on outbound requests.
const (
	AuthorizationHeaderName = "Authorization"
	ContentTypeHeaderName   = "Content-Type"
	RequestIDHeaderName     = "X-Request-ID"

	BearerPrefix    = "Bearer "
	JSONContentType = "application/json"
)

// Backend routes relative to the API base URL.
const (
	LoginPath       = "/auth/login"
	SignupPath      = "/auth/signup"
	VerifyTokenPath = "/auth/verify-token"
	CurrentUserPath = "/auth/user"
	HealthPath      = "/health"
)

// AuthViewPath is the route the client navigates to once a session is invalidated.
const AuthViewPath = "/auth"
