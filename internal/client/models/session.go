// Package models defines client-side data models used by the café catalog
// client: the session, catalog entities and the request payloads sent to the
// catalog API. JSON tags follow the API's wire names.
package models

import "time"

// SessionStatus is the state of the auth state machine.
type SessionStatus string

const (
	StatusChecking         SessionStatus = "checking"
	StatusAuthenticated    SessionStatus = "authenticated"
	StatusNotAuthenticated SessionStatus = "not-authenticated"
)

// User is the account returned by the API as "usuario".
type User struct {
	UID    string `json:"uid"`
	Name   string `json:"nombre"`
	Email  string `json:"correo"`
	Role   string `json:"rol"`
	Active bool   `json:"estado"`
	Google bool   `json:"google"`
	Image  string `json:"img,omitempty"`
}

// Session is the client-side view of the current identity.
//
// Status is StatusAuthenticated exactly when Token is non-empty and User is
// set. LastError is non-empty only between a failed operation and the
// dismissal of that error.
type Session struct {
	Status    SessionStatus
	Token     string
	User      *User
	LastError string

	// ExpiresAt is the token's exp claim, zero when unknown.
	ExpiresAt time.Time
}

// Clone returns a deep copy, safe to hand to readers.
func (s Session) Clone() Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// IsAuthenticated reports whether the session carries a usable identity.
func (s Session) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated && s.Token != "" && s.User != nil
}

// LoginData is the body of POST /auth/login.
type LoginData struct {
	Email    string `json:"correo"`
	Password string `json:"password"`
}

// RegisterData is the body of POST /usuarios.
type RegisterData struct {
	Email    string `json:"correo"`
	Password string `json:"password"`
	Name     string `json:"nombre"`
}

// AuthResponse is returned by login, registration and session validation.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"usuario"`
}
