// Package session owns the process-wide authentication state machine:
// one Session per running client, created empty, populated by
// Authenticate, cleared by EndSession, and rehydrated from the
// credential store at startup.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/policy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"
)

// State is the session lifecycle phase. Transitions form a strict
// sequence: UNAUTHENTICATED → INITIALIZING → {AUTHENTICATED |
// UNAUTHENTICATED} at startup, AUTHENTICATED → UNAUTHENTICATED on
// logout.
type State int

const (
	StateUnauthenticated State = iota
	StateInitializing
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "INITIALIZING"
	case StateAuthenticated:
		return "AUTHENTICATED"
	default:
		return "UNAUTHENTICATED"
	}
}

// Resolver is the slice of the SDK client the session needs: identity
// verification plus the two endpoints that mint sessions.
type Resolver interface {
	ResolveIdentity(ctx context.Context, token string) (sdk.Identity, error)
	Login(ctx context.Context, input sdk.LoginInput) (*sdk.AuthResponse, error)
	Register(ctx context.Context, input sdk.RegisterInput) (*sdk.AuthResponse, error)
}

// Session wires the credential store, the identity resolver, and the
// access policy into the single handle the consuming layer uses.
type Session struct {
	store  sdk.CredentialStore
	api    Resolver
	decide policy.Decider
	log    *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	state State
	ident sdk.Identity
	token string
	ready chan struct{} // non-nil while INITIALIZING; closed on settle
	gen   uint64        // bumped whenever a newer operation supersedes an older one
}

// Option configures Session construction.
type Option func(*Session)

// WithLogger attaches a logger for state transition logging.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates an empty, UNAUTHENTICATED session. Call Init to attempt
// rehydration from the store.
func New(store sdk.CredentialStore, api Resolver, decide policy.Decider, opts ...Option) *Session {
	s := &Session{
		store:  store,
		api:    api,
		decide: decide,
		log:    zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init attempts to restore a stored session, exactly once. While the
// stored token resolves, the session is INITIALIZING and every
// blocking accessor waits for the outcome. A token the backend rejects
// clears the store; an unreachable backend degrades to UNAUTHENTICATED
// but keeps the stored credentials for a later restart. The returned
// error reports why rehydration did not produce an authenticated
// session; the session itself is always left in a settled state.
func (s *Session) Init(ctx context.Context) error {
	creds, err := s.store.Load()
	if err != nil || creds == nil {
		// Absent or corrupted record: nothing to restore.
		return nil
	}

	if creds.IsExpired(s.now()) {
		s.log.Info("stored token expired, clearing session")
		if err := s.store.Clear(); err != nil {
			s.log.Warn("clear expired credentials", zap.Error(err))
		}
		return nil
	}

	s.mu.Lock()
	if s.state != StateUnauthenticated {
		s.mu.Unlock()
		return fmt.Errorf("init called in state %s", s.state)
	}
	s.state = StateInitializing
	s.ready = make(chan struct{})
	s.gen++
	gen := s.gen
	s.mu.Unlock()
	s.log.Debug("session initializing")

	ident, err := s.api.ResolveIdentity(ctx, creds.Token)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settleLocked()

	if s.gen != gen {
		// A superseding operation completed while we were in flight;
		// its outcome stands and ours is discarded.
		return nil
	}

	if err != nil {
		s.state = StateUnauthenticated
		if errors.Is(err, sdk.ErrInvalidSession) {
			s.log.Info("stored token rejected, clearing session")
			if clearErr := s.store.Clear(); clearErr != nil {
				s.log.Warn("clear rejected credentials", zap.Error(clearErr))
			}
		} else {
			s.log.Warn("identity resolution failed, session degraded", zap.Error(err))
		}
		return fmt.Errorf("restore session: %w", err)
	}

	// Refresh the stored record: the backend's view of the identity
	// wins over whatever was cached.
	if saveErr := s.store.Save(&sdk.Credentials{Token: creds.Token, Identity: ident, SavedAt: s.now()}); saveErr != nil {
		s.log.Warn("refresh stored credentials", zap.Error(saveErr))
	}

	s.state = StateAuthenticated
	s.ident = ident
	s.token = creds.Token
	s.log.Info("session restored", zap.Int64("user_id", ident.ID), zap.String("role", string(ident.Role)))
	return nil
}

// Authenticate performs a login and replaces the session identity. The
// previous identity is discarded only after the new one is confirmed
// and persisted; a failed attempt leaves the session untouched.
func (s *Session) Authenticate(ctx context.Context, email, password string) (sdk.Identity, error) {
	if err := s.waitReady(ctx); err != nil {
		return sdk.Identity{}, err
	}

	resp, err := s.api.Login(ctx, sdk.LoginInput{Email: email, Password: password})
	if err != nil {
		return sdk.Identity{}, err
	}
	return s.adopt(resp)
}

// Register creates an account and starts a session for it, with the
// same replacement semantics as Authenticate.
func (s *Session) Register(ctx context.Context, input sdk.RegisterInput) (sdk.Identity, error) {
	if err := s.waitReady(ctx); err != nil {
		return sdk.Identity{}, err
	}

	resp, err := s.api.Register(ctx, input)
	if err != nil {
		return sdk.Identity{}, err
	}
	return s.adopt(resp)
}

func (s *Session) adopt(resp *sdk.AuthResponse) (sdk.Identity, error) {
	creds := &sdk.Credentials{Token: resp.Token, Identity: resp.Identity, SavedAt: s.now()}
	if err := s.store.Save(creds); err != nil {
		return sdk.Identity{}, fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.gen++
	s.state = StateAuthenticated
	s.ident = resp.Identity
	s.token = resp.Token
	s.mu.Unlock()

	s.log.Info("session established", zap.Int64("user_id", resp.ID), zap.String("role", string(resp.Role)))
	return resp.Identity, nil
}

// EndSession clears the stored credentials and returns the session to
// UNAUTHENTICATED.
func (s *Session) EndSession(ctx context.Context) error {
	if err := s.waitReady(ctx); err != nil {
		return err
	}
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.mu.Lock()
	s.gen++
	s.state = StateUnauthenticated
	s.ident = sdk.Identity{}
	s.token = ""
	s.mu.Unlock()

	s.log.Info("session ended")
	return nil
}

// Authorize answers whether the current identity may perform the
// action on the resource. Calls made while the session is INITIALIZING
// block until resolution settles rather than racing it; an
// unauthenticated session denies everything. Denial is a result, not
// an error; the error reports only a cancelled wait.
func (s *Session) Authorize(ctx context.Context, action string, res policy.Resource) (bool, error) {
	if err := s.waitReady(ctx); err != nil {
		return false, err
	}

	s.mu.Lock()
	state, ident := s.state, s.ident
	s.mu.Unlock()

	if state != StateAuthenticated {
		return false, nil
	}
	return s.decide.Decide(ident, action, res), nil
}

// CurrentIdentity returns the authenticated identity, waiting out an
// in-flight initialization first.
func (s *Session) CurrentIdentity(ctx context.Context) (sdk.Identity, bool) {
	if err := s.waitReady(ctx); err != nil {
		return sdk.Identity{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return sdk.Identity{}, false
	}
	return s.ident, true
}

// Token returns the bearer token for outgoing API calls.
func (s *Session) Token(ctx context.Context) (string, error) {
	if err := s.waitReady(ctx); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return "", sdk.ErrInvalidSession
	}
	return s.token, nil
}

// State reports the current lifecycle phase without blocking.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// waitReady blocks while an initialization is in flight.
func (s *Session) waitReady(ctx context.Context) error {
	s.mu.Lock()
	ch := s.ready
	s.mu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// settleLocked closes the ready channel, releasing blocked callers.
// The caller holds the mutex.
func (s *Session) settleLocked() {
	if s.ready != nil {
		close(s.ready)
		s.ready = nil
	}
}
