// Package session resolves a logged-in user to a stable patient key. Every
// store read and write in the system is scoped by the user id this package
// hands out.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/careloop/careloop/internal/record"
)

// State is the resolver's position in its two-state machine, plus the
// pre-initialization Unknown state. Reads before Init completes must be
// treated as unknown, never as logged out.
type State int

const (
	StateUnknown State = iota
	StateLoggedOut
	StateLoggedIn
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged_out"
	case StateLoggedIn:
		return "logged_in"
	default:
		return "unknown"
	}
}

// Authenticator is the slice of the record store the resolver needs. A nil
// Authenticator means persistence is unavailable; only the fixed demo
// credentials work then.
type Authenticator interface {
	UserByUsername(ctx context.Context, username string) (*record.User, bool, error)
	PatientByUserID(ctx context.Context, userID int64) (*record.Patient, bool, error)
}

// Session is a snapshot of the resolver's current state. UserID, Token and
// PatientName are only meaningful when State is StateLoggedIn.
type Session struct {
	State       State  `json:"state"`
	UserID      int64  `json:"user_id,omitempty"`
	Token       string `json:"token,omitempty"`
	PatientName string `json:"patient_name,omitempty"`
}

// demoCredential is a fallback account honored when no store is available.
type demoCredential struct {
	password string
	userID   int64
	name     string
}

// The same accounts the store seeds, minus persistence.
var demoCredentials = map[string]demoCredential{
	"demo":       {password: "demo", userID: 1, name: "Demo"},
	"John Smith": {password: "john", userID: 2, name: "John Smith"},
}

// Resolver is the session/identity state machine.
//
// Transitions: LoggedOut -> LoggedIn on a successful Login only, and
// LoggedIn -> LoggedOut on Logout unconditionally. There are no others.
// The resolver is the sole writer of current-user state for the process
// lifetime.
//
// Safe for use from a single logical session; internal state is
// mutex-guarded so snapshot reads never see a half-written transition.
type Resolver struct {
	mu   sync.Mutex
	auth Authenticator
	log  zerolog.Logger

	state       State
	userID      int64
	token       string
	patientName string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger attaches a structured logger. The default is a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) { r.log = l }
}

// NewResolver creates a resolver in StateUnknown. Call Init to complete
// initialization; auth may be nil when persistence is unavailable.
func NewResolver(auth Authenticator, opts ...Option) *Resolver {
	r := &Resolver{auth: auth, log: zerolog.Nop(), state: StateUnknown}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init completes initialization and moves the resolver to LoggedOut. It is
// a no-op after the first call.
func (r *Resolver) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateUnknown {
		return nil
	}
	r.state = StateLoggedOut
	r.log.Debug().Msg("session resolver initialized")
	return nil
}

// Login attempts the LoggedOut -> LoggedIn transition.
//
// A credential mismatch returns (false, nil): an ordinary negative result,
// not an error, and deliberately identical for unknown usernames and wrong
// passwords. A store failure returns an error and leaves the state
// unchanged. Calling Login in any state but LoggedOut is a caller bug and
// returns an error.
//
// On success the resolver caches the user id, a fresh session token, and
// the display name of the user's linked patient (the username when no
// patient is linked).
func (r *Resolver) Login(ctx context.Context, username, password string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateUnknown:
		return false, fmt.Errorf("login before initialization")
	case StateLoggedIn:
		return false, fmt.Errorf("already logged in")
	}

	userID, displayName, ok, err := r.resolve(ctx, username, password)
	if err != nil {
		return false, err
	}
	if !ok {
		r.log.Debug().Str("username", username).Msg("login rejected")
		return false, nil
	}

	r.state = StateLoggedIn
	r.userID = userID
	r.token = uuid.Must(uuid.NewV7()).String()
	r.patientName = displayName
	r.log.Debug().Int64("user_id", userID).Msg("login accepted")
	return true, nil
}

// resolve checks credentials against the store, or against the demo set
// when no store is available. Passwords are compared as plain text; this
// resolver is not a security boundary.
func (r *Resolver) resolve(ctx context.Context, username, password string) (int64, string, bool, error) {
	if r.auth == nil {
		cred, ok := demoCredentials[username]
		if !ok || cred.password != password {
			return 0, "", false, nil
		}
		return cred.userID, cred.name, true, nil
	}

	u, ok, err := r.auth.UserByUsername(ctx, username)
	if err != nil {
		return 0, "", false, fmt.Errorf("resolve user: %w", err)
	}
	if !ok || u.Password != password {
		return 0, "", false, nil
	}

	displayName := u.Username
	if p, ok, err := r.auth.PatientByUserID(ctx, u.ID); err != nil {
		return 0, "", false, fmt.Errorf("resolve patient: %w", err)
	} else if ok {
		displayName = p.Name
	}

	return u.ID, displayName, true, nil
}

// Logout moves to LoggedOut unconditionally and clears the cached
// identity. Calling it before Init leaves the resolver unknown: logout is
// not a way to finish initialization.
func (r *Resolver) Logout() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateUnknown {
		r.state = StateLoggedOut
	}
	r.userID = 0
	r.token = ""
	r.patientName = ""
}

// Current returns a snapshot of the resolver state.
func (r *Resolver) Current() Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Session{State: r.state}
	if r.state == StateLoggedIn {
		s.UserID = r.userID
		s.Token = r.token
		s.PatientName = r.patientName
	}
	return s
}
