package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careloop/careloop/internal/record"
	"github.com/careloop/careloop/internal/store"
)

// Compile-time check that both store backends satisfy Authenticator.
var (
	_ Authenticator = (*store.SQLite)(nil)
	_ Authenticator = (*store.Memory)(nil)
)

// mockAuthenticator is a func-field mock in the repository-mock style.
type mockAuthenticator struct {
	UserByUsernameFunc  func(ctx context.Context, username string) (*record.User, bool, error)
	PatientByUserIDFunc func(ctx context.Context, userID int64) (*record.Patient, bool, error)
}

func (m *mockAuthenticator) UserByUsername(ctx context.Context, username string) (*record.User, bool, error) {
	if m.UserByUsernameFunc != nil {
		return m.UserByUsernameFunc(ctx, username)
	}
	return nil, false, nil
}

func (m *mockAuthenticator) PatientByUserID(ctx context.Context, userID int64) (*record.Patient, bool, error) {
	if m.PatientByUserIDFunc != nil {
		return m.PatientByUserIDFunc(ctx, userID)
	}
	return nil, false, nil
}

// seededResolver returns an initialized resolver backed by a seeded memory
// store.
func seededResolver(t *testing.T) *Resolver {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, store.Seed(ctx, s))
	r := NewResolver(s)
	require.NoError(t, r.Init(ctx))
	return r
}

func TestResolver_StartsUnknown(t *testing.T) {
	r := NewResolver(nil)
	assert.Equal(t, StateUnknown, r.Current().State,
		"reads before initialization must report unknown, not logged out")
}

func TestResolver_InitMovesToLoggedOut(t *testing.T) {
	r := NewResolver(nil)
	require.NoError(t, r.Init(context.Background()))
	assert.Equal(t, StateLoggedOut, r.Current().State)

	// Init is idempotent.
	require.NoError(t, r.Init(context.Background()))
	assert.Equal(t, StateLoggedOut, r.Current().State)
}

func TestLogin_BeforeInitIsAnError(t *testing.T) {
	r := NewResolver(nil)
	_, err := r.Login(context.Background(), "demo", "demo")
	assert.Error(t, err)
	assert.Equal(t, StateUnknown, r.Current().State)
}

func TestLogin_DemoAccountAgainstSeededStore(t *testing.T) {
	r := seededResolver(t)

	ok, err := r.Login(context.Background(), "demo", "demo")
	require.NoError(t, err)
	require.True(t, ok)

	s := r.Current()
	assert.Equal(t, StateLoggedIn, s.State)
	assert.NotZero(t, s.UserID)
	assert.NotEmpty(t, s.Token)
	// No patient is linked to the demo user; display name falls back to
	// the username.
	assert.Equal(t, "demo", s.PatientName)
}

func TestLogin_ResolvesLinkedPatientName(t *testing.T) {
	r := seededResolver(t)

	ok, err := r.Login(context.Background(), "John Smith", "john")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "John Smith", r.Current().PatientName)
}

func TestLogin_WrongPasswordIsNegativeNotError(t *testing.T) {
	r := seededResolver(t)

	ok, err := r.Login(context.Background(), "demo", "wrong")
	require.NoError(t, err, "credential mismatch is a normal negative result")
	assert.False(t, ok)
	assert.Equal(t, StateLoggedOut, r.Current().State)
}

func TestLogin_UnknownUserIndistinguishableFromWrongPassword(t *testing.T) {
	r := seededResolver(t)

	okUnknown, errUnknown := r.Login(context.Background(), "nobody", "whatever")
	okWrong, errWrong := r.Login(context.Background(), "demo", "wrong")

	assert.Equal(t, okUnknown, okWrong)
	assert.Equal(t, errUnknown, errWrong)
}

func TestLogin_WhileLoggedInIsAnError(t *testing.T) {
	r := seededResolver(t)
	ok, err := r.Login(context.Background(), "demo", "demo")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = r.Login(context.Background(), "demo", "demo")
	assert.Error(t, err)
	assert.Equal(t, StateLoggedIn, r.Current().State)
}

func TestLogin_StoreFailureSurfacesAsError(t *testing.T) {
	boom := errors.New("disk gone")
	r := NewResolver(&mockAuthenticator{
		UserByUsernameFunc: func(ctx context.Context, username string) (*record.User, bool, error) {
			return nil, false, boom
		},
	})
	require.NoError(t, r.Init(context.Background()))

	ok, err := r.Login(context.Background(), "demo", "demo")
	assert.False(t, ok)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateLoggedOut, r.Current().State)
}

func TestLogin_DemoFallbackWithoutStore(t *testing.T) {
	r := NewResolver(nil)
	require.NoError(t, r.Init(context.Background()))

	ok, err := r.Login(context.Background(), "demo", "demo")
	require.NoError(t, err)
	require.True(t, ok)

	s := r.Current()
	assert.Equal(t, StateLoggedIn, s.State)
	assert.NotZero(t, s.UserID)

	r.Logout()
	ok, err = r.Login(context.Background(), "demo", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogout_ClearsIdentity(t *testing.T) {
	r := seededResolver(t)
	ok, err := r.Login(context.Background(), "demo", "demo")
	require.NoError(t, err)
	require.True(t, ok)

	r.Logout()

	s := r.Current()
	assert.Equal(t, StateLoggedOut, s.State)
	assert.Zero(t, s.UserID)
	assert.Empty(t, s.Token)
	assert.Empty(t, s.PatientName)
}

func TestLogout_BeforeInitStaysUnknown(t *testing.T) {
	r := NewResolver(nil)
	r.Logout()
	assert.Equal(t, StateUnknown, r.Current().State)
}

func TestLogin_FreshTokenPerSession(t *testing.T) {
	r := seededResolver(t)

	ok, err := r.Login(context.Background(), "demo", "demo")
	require.NoError(t, err)
	require.True(t, ok)
	first := r.Current().Token

	r.Logout()
	ok, err = r.Login(context.Background(), "demo", "demo")
	require.NoError(t, err)
	require.True(t, ok)

	assert.NotEqual(t, first, r.Current().Token)
}
