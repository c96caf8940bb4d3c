package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/internal/app"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/config"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/hierarchy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/policy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"
)

func serveJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// newBackend serves a minimal awards API: one professor account
// enrolled in course 10, one student enrolled in course 11.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var in sdk.LoginInput
		require.NoError(t, json.NewDecoder(req.Body).Decode(&in))
		switch in.Email {
		case "ana@example.edu":
			serveJSON(w, http.StatusOK, sdk.AuthResponse{
				Token:    "tok-ana",
				Identity: sdk.Identity{ID: 1, Name: "Ana Costa", Email: in.Email, Role: sdk.RoleProfessor},
			})
		case "bruno@example.edu":
			serveJSON(w, http.StatusOK, sdk.AuthResponse{
				Token:    "tok-bruno",
				Identity: sdk.Identity{ID: 2, Name: "Bruno Dias", Email: in.Email, Role: sdk.RoleAluno},
			})
		default:
			serveJSON(w, http.StatusUnauthorized, map[string]string{"message": "bad credentials"})
		}
	})
	r.Get("/api/professores/1/cursos", func(w http.ResponseWriter, req *http.Request) {
		require.True(t, strings.HasPrefix(req.Header.Get("Authorization"), "Bearer "))
		serveJSON(w, http.StatusOK, []sdk.Course{{ID: 10, Name: "Engenharia Informática", Code: "EI", AdminID: 9}})
	})
	r.Get("/api/alunos/2/cursos", func(w http.ResponseWriter, req *http.Request) {
		serveJSON(w, http.StatusOK, []sdk.Course{{ID: 11, Name: "Gestão", Code: "GE", AdminID: 9}})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newApp(t *testing.T, serverURL string) *app.App {
	t.Helper()
	cfg := &config.Config{
		ServerURL:       serverURL,
		DataDir:         t.TempDir(),
		HTTPTimeout:     5 * time.Second,
		PolicyCacheSize: 8,
		LogLevel:        "info",
		Env:             "dev",
	}
	a, err := app.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, a.Close()) })
	require.NoError(t, a.Init(context.Background()))
	return a
}

// A professor logging in on a machine with an empty data dir has no
// local enrollment record; refreshing from the backend must establish
// it so own-scoped actions stop being denied.
func TestRefreshEnrollment_BootstrapsOwnership(t *testing.T) {
	srv := newBackend(t)
	a := newApp(t, srv.URL)
	ctx := context.Background()

	_, err := a.Session.Authenticate(ctx, "ana@example.edu", "pw")
	require.NoError(t, err)

	res := policy.Resource{
		Object: policy.ObjectDiscipline,
		Parent: hierarchy.Ref{Kind: hierarchy.KindCourse, ID: 10},
	}
	err = a.Authorize(ctx, policy.DisciplineCreate, res)
	require.ErrorIs(t, err, app.ErrDenied)

	require.NoError(t, a.RefreshEnrollment(ctx))

	enr, ok := a.Index.EnrollmentOf(1)
	require.True(t, ok)
	assert.Equal(t, int64(10), enr.CourseID)
	assert.Equal(t, sdk.RoleProfessor, enr.Role)

	require.NoError(t, a.Authorize(ctx, policy.DisciplineCreate, res))

	other := policy.Resource{
		Object: policy.ObjectDiscipline,
		Parent: hierarchy.Ref{Kind: hierarchy.KindCourse, ID: 11},
	}
	require.ErrorIs(t, a.Authorize(ctx, policy.DisciplineCreate, other), app.ErrDenied)
}

func TestRefreshEnrollment_StudentSelfAwards(t *testing.T) {
	srv := newBackend(t)
	a := newApp(t, srv.URL)
	ctx := context.Background()

	_, err := a.Session.Authenticate(ctx, "bruno@example.edu", "pw")
	require.NoError(t, err)
	require.NoError(t, a.RefreshEnrollment(ctx))

	enr, ok := a.Index.EnrollmentOf(2)
	require.True(t, ok)
	assert.Equal(t, int64(11), enr.CourseID)

	require.NoError(t, a.Authorize(ctx, policy.AwardRead, policy.Resource{
		Object: policy.ObjectAward, StudentID: 2,
	}))
}

func TestRefreshEnrollment_RequiresSession(t *testing.T) {
	srv := newBackend(t)
	a := newApp(t, srv.URL)

	err := a.RefreshEnrollment(context.Background())
	require.ErrorIs(t, err, sdk.ErrInvalidSession)
}
