// Package models defines the client-side data models of legal-saarthi: the
// user profile kept in durable storage and the request/response shapes of the
// backend features the client calls.
package models

import (
	"encoding/json"
	"maps"
)

// User is the profile the backend returns on login and signup. Its structure
// is owned by the backend; the client stores it as JSON and only reads the
// fields below for display.
type User struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

// DisplayName returns the name, falling back to the email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.IsActive != nil {
		active := *u.IsActive
		c.IsActive = &active
	}
	return &c
}

// ParseUser decodes a persisted profile. An empty document or JSON null is
// rejected so that a half-written session never counts as a profile.
func ParseUser(b []byte) (*User, error) {
	var u *User
	if err := json.Unmarshal(b, &u); err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrEmptyProfile
	}
	return u, nil
}

// profileKeys are the User fields as they appear in the profile document.
var profileKeys = []string{"id", "name", "email", "phone", "created_at", "is_active"}

// MergeProfile overlays u onto a stored profile document. Fields the client
// does not model are kept as they are; modeled fields take u's values, and
// empty ones are dropped. An unreadable document is replaced.
func MergeProfile(stored []byte, u *User) ([]byte, error) {
	if u == nil {
		return nil, ErrEmptyProfile
	}

	var doc map[string]json.RawMessage
	if len(stored) > 0 {
		if err := json.Unmarshal(stored, &doc); err != nil {
			doc = nil
		}
	}
	if doc == nil {
		doc = make(map[string]json.RawMessage)
	}
	for _, k := range profileKeys {
		delete(doc, k)
	}

	b, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	maps.Copy(doc, fields)

	return json.Marshal(doc)
}

// AuthPayload is the data part of a successful login or signup response.
type AuthPayload struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the signup request body.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}
