package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client provides a typed interface to the awards REST API. It issues
// the auth endpoints itself; for resource CRUD it is the transport the
// session-gated caller uses after a local authorization check passed.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// ClientOptions configures SDK client construction.
type ClientOptions struct {
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// ClientOption mutates ClientOptions.
type ClientOption func(*ClientOptions)

// WithHTTPClient overrides the HTTP client used for API calls. Pass a
// client with an authenticated transport (e.g. an oauth2 static token
// source) for token-bearing requests.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = client
	}
}

// WithLogger enables debug logging of requests and error mapping.
func WithLogger(log *zap.Logger) ClientOption {
	return func(opts *ClientOptions) {
		opts.Logger = log
	}
}

// NewClient creates a new awards SDK client for the API server at
// baseURL. An http.Client with a sane timeout is created when one is
// not supplied.
func NewClient(baseURL string, optFns ...ClientOption) *Client {
	opts := ClientOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    opts.HTTPClient,
		log:     opts.Logger,
	}
}

// AuthResponse is the body returned by the login and register
// endpoints: a fresh token plus the identity it was issued for.
type AuthResponse struct {
	Token string `json:"token"`
	Identity
}

// LoginInput carries the credentials for a login attempt.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput carries the fields for a self-service registration.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Login exchanges email and password for a session token. A rejected
// attempt yields ErrBadCredentials.
func (c *Client) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", input, &out); err != nil {
		return nil, loginError(err)
	}
	return &out, nil
}

// Register creates a new user account and returns a fresh session for
// it, same shape as Login.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	if !input.Role.Valid() {
		return nil, fmt.Errorf("register: unknown role %q", input.Role)
	}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", input, &out); err != nil {
		return nil, loginError(err)
	}
	return &out, nil
}

// ResolveIdentity verifies a stored token against the backend and
// returns the identity it belongs to. Rejection (however the backend
// phrases it) surfaces as ErrInvalidSession; an unreachable backend
// surfaces as ErrNetworkUnavailable.
func (c *Client) ResolveIdentity(ctx context.Context, token string) (Identity, error) {
	var ident Identity
	if err := c.do(ctx, http.MethodGet, "/api/utilizadores/me", token, nil, &ident); err != nil {
		return Identity{}, err
	}
	return ident, nil
}

// --- Resource CRUD ---
//
// The core never decides to issue these on its own; the consuming
// layer calls them only after Session.Authorize allowed the action and
// the hierarchy guard accepted the parent reference.

func (c *Client) ListCourses(ctx context.Context, token string) ([]Course, error) {
	var out []Course
	err := c.do(ctx, http.MethodGet, "/api/cursos", token, nil, &out)
	return out, err
}

func (c *Client) CreateCourse(ctx context.Context, token string, course Course) (*Course, error) {
	var out Course
	if err := c.do(ctx, http.MethodPost, "/api/cursos", token, course, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCourse(ctx context.Context, token string, course Course) (*Course, error) {
	var out Course
	path := fmt.Sprintf("/api/cursos/%d", course.ID)
	if err := c.do(ctx, http.MethodPut, path, token, course, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCourse(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/cursos/%d", id), token, nil, nil)
}

func (c *Client) ListDisciplines(ctx context.Context, token string, courseID int64) ([]Discipline, error) {
	var out []Discipline
	path := fmt.Sprintf("/api/cursos/%d/disciplinas", courseID)
	err := c.do(ctx, http.MethodGet, path, token, nil, &out)
	return out, err
}

func (c *Client) CreateDiscipline(ctx context.Context, token string, d Discipline) (*Discipline, error) {
	var out Discipline
	if err := c.do(ctx, http.MethodPost, "/api/disciplinas", token, d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateDiscipline(ctx context.Context, token string, d Discipline) (*Discipline, error) {
	var out Discipline
	path := fmt.Sprintf("/api/disciplinas/%d", d.ID)
	if err := c.do(ctx, http.MethodPut, path, token, d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteDiscipline(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/disciplinas/%d", id), token, nil, nil)
}

func (c *Client) ListProjects(ctx context.Context, token string) ([]Project, error) {
	var out []Project
	err := c.do(ctx, http.MethodGet, "/api/projetos", token, nil, &out)
	return out, err
}

func (c *Client) CreateProject(ctx context.Context, token string, p Project) (*Project, error) {
	var out Project
	if err := c.do(ctx, http.MethodPost, "/api/projetos", token, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProject(ctx context.Context, token string, p Project) (*Project, error) {
	var out Project
	path := fmt.Sprintf("/api/projetos/%d", p.ID)
	if err := c.do(ctx, http.MethodPut, path, token, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/projetos/%d", id), token, nil, nil)
}

func (c *Client) ListTeams(ctx context.Context, token string, projectID int64) ([]Team, error) {
	var out []Team
	path := fmt.Sprintf("/api/projetos/%d/equipas", projectID)
	err := c.do(ctx, http.MethodGet, path, token, nil, &out)
	return out, err
}

func (c *Client) CreateTeam(ctx context.Context, token string, team Team) (*Team, error) {
	var out Team
	if err := c.do(ctx, http.MethodPost, "/api/equipas", token, team, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTeam(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/equipas/%d", id), token, nil, nil)
}

func (c *Client) ListMembers(ctx context.Context, token string, teamID int64) ([]Member, error) {
	var out []Member
	path := fmt.Sprintf("/api/equipas/%d/membros", teamID)
	err := c.do(ctx, http.MethodGet, path, token, nil, &out)
	return out, err
}

func (c *Client) AddMember(ctx context.Context, token string, m Member) (*Member, error) {
	var out Member
	path := fmt.Sprintf("/api/equipas/%d/membros", m.TeamID)
	if err := c.do(ctx, http.MethodPost, path, token, m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveMember(ctx context.Context, token string, teamID, memberID int64) error {
	path := fmt.Sprintf("/api/equipas/%d/membros/%d", teamID, memberID)
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}

func (c *Client) ListSprints(ctx context.Context, token string, projectID int64) ([]Sprint, error) {
	var out []Sprint
	path := fmt.Sprintf("/api/projetos/%d/sprints", projectID)
	err := c.do(ctx, http.MethodGet, path, token, nil, &out)
	return out, err
}

func (c *Client) CreateSprint(ctx context.Context, token string, s Sprint) (*Sprint, error) {
	var out Sprint
	if err := c.do(ctx, http.MethodPost, "/api/sprints", token, s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSprint(ctx context.Context, token string, s Sprint) (*Sprint, error) {
	var out Sprint
	path := fmt.Sprintf("/api/sprints/%d", s.ID)
	if err := c.do(ctx, http.MethodPut, path, token, s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSprint(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/sprints/%d", id), token, nil, nil)
}

// AssignCourse enrolls a student or professor in a course. The backend
// applies replace semantics: any prior enrollment for the user is
// removed in the same operation.
func (c *Client) AssignCourse(ctx context.Context, token string, role Role, userID, courseID int64) error {
	path, err := enrollmentPath(role, userID, courseID)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, token, nil, nil)
}

// UnassignCourse removes a student's or professor's course enrollment.
func (c *Client) UnassignCourse(ctx context.Context, token string, role Role, userID, courseID int64) error {
	path, err := enrollmentPath(role, userID, courseID)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}

// ListEnrolledCourses returns the courses the user is enrolled in.
// The association is single-valued under the backend's replace
// semantics, so the slice carries at most one course.
func (c *Client) ListEnrolledCourses(ctx context.Context, token string, role Role, userID int64) ([]Course, error) {
	path, err := enrollmentListPath(role, userID)
	if err != nil {
		return nil, err
	}
	var out []Course
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func enrollmentListPath(role Role, userID int64) (string, error) {
	switch role {
	case RoleAluno:
		return fmt.Sprintf("/api/alunos/%d/cursos", userID), nil
	case RoleProfessor:
		return fmt.Sprintf("/api/professores/%d/cursos", userID), nil
	default:
		return "", fmt.Errorf("role %q has no course enrollment", role)
	}
}

func enrollmentPath(role Role, userID, courseID int64) (string, error) {
	switch role {
	case RoleAluno:
		return fmt.Sprintf("/api/alunos/%d/cursos/%d", userID, courseID), nil
	case RoleProfessor:
		return fmt.Sprintf("/api/professores/%d/cursos/%d", userID, courseID), nil
	default:
		return "", fmt.Errorf("role %q has no course enrollment", role)
	}
}

// GrantAward grants an award to a student. Awards are immutable once
// granted; there is no update or delete endpoint.
func (c *Client) GrantAward(ctx context.Context, token string, a Award) (*Award, error) {
	var out Award
	if err := c.do(ctx, http.MethodPost, "/api/premios", token, a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListAwards(ctx context.Context, token string, studentID int64) ([]Award, error) {
	var out []Award
	path := fmt.Sprintf("/api/alunos/%d/premios", studentID)
	err := c.do(ctx, http.MethodGet, path, token, nil, &out)
	return out, err
}

// do issues one JSON request and maps the outcome onto the SDK error
// kinds. Transport failures wrap ErrNetworkUnavailable; HTTP statuses
// map via statusError.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("invalid request path %q: %w", path, err)
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug("api request", zap.String("method", method), zap.String("path", path))

	resp, err := c.http.Do(req)
	if err != nil {
		// Context cancellation is the caller's doing, not an outage.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Debug("api transport failure", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// statusError maps an HTTP error status to a typed SDK error, keeping
// the backend's message for context.
func statusError(resp *http.Response) error {
	msg := readErrorMessage(resp.Body)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrInvalidSession, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	default:
		return fmt.Errorf("backend returned %s: %s", resp.Status, msg)
	}
}

// loginError rewrites a rejection of the auth endpoints: a 401 there
// means the attempt itself was refused, not that a session went stale.
func loginError(err error) error {
	if errors.Is(err, ErrInvalidSession) || errors.Is(err, ErrForbidden) {
		return ErrBadCredentials
	}
	return err
}

func readErrorMessage(r io.Reader) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return "no detail"
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return string(data)
}
