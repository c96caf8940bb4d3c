package sdk

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role is the system-wide role of an authenticated user.
// It is the sole axis of authorization; components other than the
// policy package must never compare roles inline.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleProfessor Role = "PROFESSOR"
	RoleAluno     Role = "ALUNO"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProfessor, RoleAluno:
		return true
	}
	return false
}

// ScrumRole is the role a user holds inside a single team.
type ScrumRole string

const (
	ScrumMaster  ScrumRole = "SCRUM_MASTER"
	ProductOwner ScrumRole = "PRODUCT_OWNER"
	Developer    ScrumRole = "DEVELOPER"
)

// Identity is the authenticated principal for the current session.
// It is immutable once issued; re-authentication replaces it wholesale.
type Identity struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Date is a calendar date on the wire ("2006-01-02"). The backend
// stores LocalDate values without a time component.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// Course is owned by an admin and owns disciplines and projects.
type Course struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	AdminID int64  `json:"adminId"`
}

// Discipline belongs to exactly one course.
type Discipline struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	CourseID int64  `json:"courseId"`
}

// Project belongs to exactly one course, optionally scoped under one
// of its disciplines.
type Project struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	StartDate    Date   `json:"startDate"`
	EndDate      Date   `json:"endDate"`
	CourseID     int64  `json:"courseId"`
	DisciplineID *int64 `json:"disciplineId,omitempty"`
}

// Team belongs to exactly one project.
type Team struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ProjectID int64  `json:"projectId"`
}

// Member associates a user with a team. A user may belong to several
// teams but holds at most one member record per team.
type Member struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	TeamID    int64     `json:"teamId"`
	ScrumRole ScrumRole `json:"scrumRole"`
}

// Sprint belongs to exactly one project. Its lifecycle phase is derived
// from the dates and never persisted; see the lifecycle package.
type Sprint struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Goals     string `json:"goals"`
	StartDate Date   `json:"startDate"`
	EndDate   Date   `json:"endDate"`
	ProjectID int64  `json:"projectId"`
}

// Award is immutable once granted.
type Award struct {
	ID          int64     `json:"id"`
	StudentID   int64     `json:"studentId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	GrantedAt   time.Time `json:"grantedAt"`
}
