// Package app wires the client pieces together for the CLI: config,
// logger, credential store, session, policy, hierarchy index, and the
// local snapshot database. One App is built per invocation and injected
// into the cobra command context by the root command.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/auth"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/config"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/hierarchy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/policy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/session"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"
)

// ErrDenied is returned by commands when the local policy check
// refuses the requested action.
var ErrDenied = errors.New("permission denied")

// App bundles everything a command needs.
type App struct {
	Config  *config.Config
	Log     *zap.Logger
	Store   *auth.FileStore
	Session *session.Session
	Index   *hierarchy.Index

	db *bun.DB

	apiOnce sync.Once
	apiCli  *sdk.Client
	apiErr  error
}

// New builds the App from loaded configuration. The snapshot database
// is opened and the hierarchy index restored from it; a fresh data dir
// yields an empty index.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	store, err := auth.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	idx := hierarchy.NewIndex()
	db, err := hierarchy.OpenSnapshotDB(ctx, filepath.Join(cfg.DataDir, "hierarchy.db"))
	if err != nil {
		return nil, fmt.Errorf("open snapshot database: %w", err)
	}
	if err := hierarchy.LoadSnapshot(ctx, db, idx); err != nil {
		db.Close()
		return nil, fmt.Errorf("restore hierarchy snapshot: %w", err)
	}

	pol, err := policy.New(idx)
	if err != nil {
		db.Close()
		return nil, err
	}
	decider, err := policy.NewCached(pol, cfg.PolicyCacheSize)
	if err != nil {
		db.Close()
		return nil, err
	}

	base := sdk.NewClient(cfg.ServerURL, sdk.WithLogger(log))
	sess := session.New(store, base, decider, session.WithLogger(log))

	return &App{
		Config:  cfg,
		Log:     log,
		Store:   store,
		Session: sess,
		Index:   idx,
		db:      db,
	}, nil
}

// Init rehydrates the session from stored credentials. A degraded
// outcome is reported to the caller but is not fatal; commands that
// need authentication fail later with a clear message.
func (a *App) Init(ctx context.Context) error {
	return a.Session.Init(ctx)
}

// APIClient returns the SDK client used for resource calls, built once
// per invocation with the session token wired into the transport.
func (a *App) APIClient(ctx context.Context) (*sdk.Client, error) {
	a.apiOnce.Do(func() {
		token, err := a.Session.Token(ctx)
		if err != nil {
			a.apiErr = fmt.Errorf("not logged in, run `awardsctl auth login`: %w", err)
			return
		}
		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		httpCli := oauth2.NewClient(context.Background(), source)
		httpCli.Timeout = a.Config.HTTPTimeout
		a.apiCli = sdk.NewClient(a.Config.ServerURL, sdk.WithHTTPClient(httpCli), sdk.WithLogger(a.Log))
	})
	return a.apiCli, a.apiErr
}

// Authorize runs the local policy check and folds denial into
// ErrDenied so commands can treat it like any other failure.
func (a *App) Authorize(ctx context.Context, action string, res policy.Resource) error {
	ok, err := a.Session.Authorize(ctx, action, res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrDenied, action, res.Object)
	}
	return nil
}

// RefreshEnrollment fetches the authenticated user's own course
// association from the backend and records it in the index, so
// ownership scopes resolve on a data dir the user never enrolled on
// locally. Roles without enrollments are a no-op.
func (a *App) RefreshEnrollment(ctx context.Context) error {
	ident, ok := a.Session.CurrentIdentity(ctx)
	if !ok {
		return sdk.ErrInvalidSession
	}
	if ident.Role != sdk.RoleAluno && ident.Role != sdk.RoleProfessor {
		return nil
	}

	api, err := a.APIClient(ctx)
	if err != nil {
		return err
	}
	courses, err := api.ListEnrolledCourses(ctx, "", ident.Role, ident.ID)
	if err != nil {
		return fmt.Errorf("fetch enrolled courses: %w", err)
	}
	if len(courses) == 0 {
		a.Index.Unenroll(ident.ID)
		return nil
	}

	seq := a.Index.Begin()
	for _, c := range courses {
		a.Index.Observe(seq, hierarchy.CourseEntity(c))
	}
	// Single-valued association: the newest entry wins.
	a.Index.Enroll(ident.ID, courses[len(courses)-1].ID, ident.Role)
	return nil
}

// SaveSnapshot persists the current hierarchy index. Commands call it
// after observing fetches or applying mutations.
func (a *App) SaveSnapshot(ctx context.Context) error {
	return hierarchy.SaveSnapshot(ctx, a.db, a.Index)
}

// Close releases the snapshot database.
func (a *App) Close() error {
	return a.db.Close()
}

type contextKey string

const appKey contextKey = "awardsctl-app"

// Inject adds the app to the cobra command context. Called by the root
// command's PersistentPreRunE.
func Inject(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, appKey, a)
}

// FromContext retrieves the app from the command context.
func FromContext(ctx context.Context) (*App, bool) {
	a, ok := ctx.Value(appKey).(*App)
	return a, ok
}

// MustFromContext retrieves the app or panics. Only for command RunE
// functions that run under the root command.
func MustFromContext(ctx context.Context) *App {
	a, ok := FromContext(ctx)
	if !ok {
		panic("awardsctl: app not found in context - this is a bug in awardsctl")
	}
	return a
}
