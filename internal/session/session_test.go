package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/auth"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/policy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/session"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"
)

// allowAll authorizes everything; the session tests exercise lifecycle
// gating, not the policy table.
type allowAll struct{}

func (allowAll) Decide(sdk.Identity, string, policy.Resource) bool { return true }

// backend is a minimal in-memory auth server.
type backend struct {
	mu        sync.Mutex
	tokens    map[string]sdk.Identity // token -> identity
	passwords map[string]string       // email -> password
	users     map[string]sdk.Identity // email -> identity
	meHits    int
	meGate    chan struct{} // when set, /me blocks until closed
}

func newBackend() *backend {
	return &backend{
		tokens:    make(map[string]sdk.Identity),
		passwords: make(map[string]string),
		users:     make(map[string]sdk.Identity),
	}
}

func (b *backend) addUser(ident sdk.Identity, password, token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[ident.Email] = ident
	b.passwords[ident.Email] = password
	b.tokens[token] = ident
}

func (b *backend) serve(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()

	r.Post("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var in sdk.LoginInput
		require.NoError(t, json.NewDecoder(req.Body).Decode(&in))

		b.mu.Lock()
		defer b.mu.Unlock()
		ident, ok := b.users[in.Email]
		if !ok || b.passwords[in.Email] != in.Password {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "bad credentials"})
			return
		}
		token := "tok-" + in.Email
		b.tokens[token] = ident
		json.NewEncoder(w).Encode(sdk.AuthResponse{Token: token, Identity: ident})
	})

	r.Get("/api/utilizadores/me", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		b.meHits++
		gate := b.meGate
		b.mu.Unlock()
		if gate != nil {
			<-gate
		}

		token := strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
		b.mu.Lock()
		ident, ok := b.tokens[token]
		b.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid token"})
			return
		}
		json.NewEncoder(w).Encode(ident)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func (b *backend) resolveHits() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.meHits
}

func newSession(t *testing.T, serverURL string) (*session.Session, *auth.FileStore) {
	t.Helper()
	store, err := auth.NewFileStore(t.TempDir())
	require.NoError(t, err)
	api := sdk.NewClient(serverURL)
	return session.New(store, api, allowAll{}), store
}

var professor = sdk.Identity{ID: 1, Name: "Ana Costa", Email: "ana@example.edu", Role: sdk.RoleProfessor}

func TestInit_NoStoredCredentials(t *testing.T) {
	b := newBackend()
	srv := b.serve(t)
	sess, _ := newSession(t, srv.URL)

	require.NoError(t, sess.Init(context.Background()))
	assert.Equal(t, session.StateUnauthenticated, sess.State())
	assert.Equal(t, 0, b.resolveHits(), "no token, no resolution call")
}

func TestInit_RestoresStoredToken(t *testing.T) {
	b := newBackend()
	b.addUser(professor, "secret", "tok-stored")
	srv := b.serve(t)
	sess, store := newSession(t, srv.URL)

	require.NoError(t, store.Save(&sdk.Credentials{Token: "tok-stored", Identity: professor, SavedAt: time.Now()}))

	require.NoError(t, sess.Init(context.Background()))
	assert.Equal(t, session.StateAuthenticated, sess.State())

	ident, ok := sess.CurrentIdentity(context.Background())
	require.True(t, ok)
	assert.Equal(t, professor.ID, ident.ID)
	assert.Equal(t, sdk.RoleProfessor, ident.Role)
}

func TestInit_RejectedTokenClearsStore(t *testing.T) {
	b := newBackend()
	srv := b.serve(t)
	sess, store := newSession(t, srv.URL)

	require.NoError(t, store.Save(&sdk.Credentials{Token: "tok-revoked", Identity: professor, SavedAt: time.Now()}))

	err := sess.Init(context.Background())
	require.ErrorIs(t, err, sdk.ErrInvalidSession)
	assert.Equal(t, session.StateUnauthenticated, sess.State())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded, "rejected credentials must be cleared")
}

func TestInit_NetworkFailureKeepsCredentials(t *testing.T) {
	b := newBackend()
	srv := b.serve(t)
	srv.Close() // backend unreachable

	sess, store := newSession(t, srv.URL)
	require.NoError(t, store.Save(&sdk.Credentials{Token: "tok-stored", Identity: professor, SavedAt: time.Now()}))

	err := sess.Init(context.Background())
	require.ErrorIs(t, err, sdk.ErrNetworkUnavailable)
	assert.Equal(t, session.StateUnauthenticated, sess.State())

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded, "credentials survive an outage for the next restart")
	assert.Equal(t, "tok-stored", loaded.Token)
}

func TestInit_ExpiredTokenSkipsResolution(t *testing.T) {
	b := newBackend()
	srv := b.serve(t)
	sess, store := newSession(t, srv.URL)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	require.NoError(t, store.Save(&sdk.Credentials{Token: expired, Identity: professor, SavedAt: time.Now()}))

	require.NoError(t, sess.Init(context.Background()))
	assert.Equal(t, session.StateUnauthenticated, sess.State())
	assert.Equal(t, 0, b.resolveHits(), "expired token must not be sent to the backend")

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded, "expired credentials are cleared")
}

// TestAuthorize_BlocksDuringInitialization holds the resolution open
// and checks that an authorization issued meanwhile waits for the
// outcome instead of answering from the unsettled state.
func TestAuthorize_BlocksDuringInitialization(t *testing.T) {
	b := newBackend()
	b.addUser(professor, "secret", "tok-stored")
	b.meGate = make(chan struct{})
	srv := b.serve(t)
	sess, store := newSession(t, srv.URL)

	require.NoError(t, store.Save(&sdk.Credentials{Token: "tok-stored", Identity: professor, SavedAt: time.Now()}))

	initDone := make(chan error, 1)
	go func() { initDone <- sess.Init(context.Background()) }()

	require.Eventually(t, func() bool {
		return sess.State() == session.StateInitializing
	}, time.Second, 5*time.Millisecond)

	verdict := make(chan bool, 1)
	go func() {
		ok, err := sess.Authorize(context.Background(), policy.CourseRead, policy.Resource{Object: policy.ObjectCourse})
		assert.NoError(t, err)
		verdict <- ok
	}()

	select {
	case <-verdict:
		t.Fatal("authorize answered while initialization was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(b.meGate)
	require.NoError(t, <-initDone)
	assert.True(t, <-verdict, "authorize resolves against the settled authenticated state")
}

func TestAuthorize_CancelledWhileBlocked(t *testing.T) {
	b := newBackend()
	b.addUser(professor, "secret", "tok-stored")
	b.meGate = make(chan struct{})
	srv := b.serve(t)
	sess, store := newSession(t, srv.URL)

	require.NoError(t, store.Save(&sdk.Credentials{Token: "tok-stored", Identity: professor, SavedAt: time.Now()}))

	initDone := make(chan error, 1)
	go func() { initDone <- sess.Init(context.Background()) }()
	require.Eventually(t, func() bool {
		return sess.State() == session.StateInitializing
	}, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sess.Authorize(ctx, policy.CourseRead, policy.Resource{Object: policy.ObjectCourse})
	assert.ErrorIs(t, err, context.Canceled)

	close(b.meGate)
	require.NoError(t, <-initDone)
}

func TestAuthorize_DeniesWhenUnauthenticated(t *testing.T) {
	b := newBackend()
	srv := b.serve(t)
	sess, _ := newSession(t, srv.URL)
	require.NoError(t, sess.Init(context.Background()))

	ok, err := sess.Authorize(context.Background(), policy.CourseRead, policy.Resource{Object: policy.ObjectCourse})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthenticate_EstablishesSession(t *testing.T) {
	b := newBackend()
	b.addUser(professor, "secret", "tok-old")
	srv := b.serve(t)
	sess, store := newSession(t, srv.URL)
	require.NoError(t, sess.Init(context.Background()))

	ident, err := sess.Authenticate(context.Background(), "ana@example.edu", "secret")
	require.NoError(t, err)
	assert.Equal(t, professor.ID, ident.ID)
	assert.Equal(t, session.StateAuthenticated, sess.State())

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "tok-ana@example.edu", loaded.Token)
}

func TestAuthenticate_ReplacesIdentity(t *testing.T) {
	student := sdk.Identity{ID: 2, Name: "Rui Santos", Email: "rui@example.edu", Role: sdk.RoleAluno}
	b := newBackend()
	b.addUser(professor, "secret", "tok-a")
	b.addUser(student, "hunter2", "tok-b")
	srv := b.serve(t)
	sess, _ := newSession(t, srv.URL)
	require.NoError(t, sess.Init(context.Background()))

	_, err := sess.Authenticate(context.Background(), "ana@example.edu", "secret")
	require.NoError(t, err)

	ident, err := sess.Authenticate(context.Background(), "rui@example.edu", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, student.ID, ident.ID)

	current, ok := sess.CurrentIdentity(context.Background())
	require.True(t, ok)
	assert.Equal(t, student.ID, current.ID)
	assert.Equal(t, sdk.RoleAluno, current.Role)
}

func TestAuthenticate_FailureLeavesSessionUntouched(t *testing.T) {
	b := newBackend()
	b.addUser(professor, "secret", "tok-a")
	srv := b.serve(t)
	sess, _ := newSession(t, srv.URL)
	require.NoError(t, sess.Init(context.Background()))

	_, err := sess.Authenticate(context.Background(), "ana@example.edu", "secret")
	require.NoError(t, err)

	_, err = sess.Authenticate(context.Background(), "ana@example.edu", "wrong")
	require.ErrorIs(t, err, sdk.ErrBadCredentials)

	current, ok := sess.CurrentIdentity(context.Background())
	require.True(t, ok, "previous identity survives a failed attempt")
	assert.Equal(t, professor.ID, current.ID)
	assert.Equal(t, session.StateAuthenticated, sess.State())
}

func TestEndSession(t *testing.T) {
	b := newBackend()
	b.addUser(professor, "secret", "tok-a")
	srv := b.serve(t)
	sess, store := newSession(t, srv.URL)
	require.NoError(t, sess.Init(context.Background()))

	_, err := sess.Authenticate(context.Background(), "ana@example.edu", "secret")
	require.NoError(t, err)

	require.NoError(t, sess.EndSession(context.Background()))
	assert.Equal(t, session.StateUnauthenticated, sess.State())

	_, ok := sess.CurrentIdentity(context.Background())
	assert.False(t, ok)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	ok, err = sess.Authorize(context.Background(), policy.CourseRead, policy.Resource{Object: policy.ObjectCourse})
	require.NoError(t, err)
	assert.False(t, ok)
}
