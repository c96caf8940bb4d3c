// Package policy decides whether an identity may perform an action on
// a resource. Decisions are pure and total: every input gets a verdict,
// nothing is mutated, and any internal failure reads as deny.
package policy

import (
	_ "embed"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/hierarchy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"
)

//go:embed model.conf
var modelContent string

// rolePrefix namespaces policy subjects the way all identifiers in the
// enforcer are namespaced.
const rolePrefix = "role:"

func roleID(r sdk.Role) string { return rolePrefix + string(r) }

// rules is the closed role × object × action × scope table. A tuple
// absent from this table is denied for every input.
var rules = [][4]string{
	// ADMIN manages courses.
	{roleID(sdk.RoleAdmin), ObjectCourse, CourseCreate, ScopeAny},
	{roleID(sdk.RoleAdmin), ObjectCourse, CourseUpdate, ScopeAny},
	{roleID(sdk.RoleAdmin), ObjectCourse, CourseDelete, ScopeAny},

	// PROFESSOR reads courses and manages content inside the enrolled one.
	{roleID(sdk.RoleProfessor), ObjectCourse, CourseRead, ScopeAny},
	{roleID(sdk.RoleProfessor), ObjectDiscipline, DisciplineCreate, ScopeOwn},
	{roleID(sdk.RoleProfessor), ObjectDiscipline, DisciplineUpdate, ScopeOwn},
	{roleID(sdk.RoleProfessor), ObjectDiscipline, DisciplineDelete, ScopeOwn},
	{roleID(sdk.RoleProfessor), ObjectProject, ProjectCreate, ScopeOwn},
	{roleID(sdk.RoleProfessor), ObjectProject, ProjectUpdate, ScopeOwn},
	{roleID(sdk.RoleProfessor), ObjectProject, ProjectDelete, ScopeOwn},
	{roleID(sdk.RoleProfessor), ObjectTeam, TeamCreate, ScopeOwn},
	{roleID(sdk.RoleProfessor), ObjectTeam, TeamUpdate, ScopeOwn},
	{roleID(sdk.RoleProfessor), ObjectTeam, TeamDelete, ScopeOwn},
	{roleID(sdk.RoleProfessor), ObjectMember, MemberAdd, ScopeOwn},
	{roleID(sdk.RoleProfessor), ObjectMember, MemberRemove, ScopeOwn},
	{roleID(sdk.RoleProfessor), ObjectSprint, SprintCreate, ScopeOwn},
	{roleID(sdk.RoleProfessor), ObjectSprint, SprintUpdate, ScopeOwn},
	{roleID(sdk.RoleProfessor), ObjectSprint, SprintDelete, ScopeOwn},
	{roleID(sdk.RoleProfessor), ObjectAward, AwardGrant, ScopeOwn},

	// ALUNO reads everything and sees only their own awards.
	{roleID(sdk.RoleAluno), ObjectCourse, CourseRead, ScopeAny},
	{roleID(sdk.RoleAluno), ObjectDiscipline, DisciplineRead, ScopeAny},
	{roleID(sdk.RoleAluno), ObjectProject, ProjectRead, ScopeAny},
	{roleID(sdk.RoleAluno), ObjectTeam, TeamRead, ScopeAny},
	{roleID(sdk.RoleAluno), ObjectMember, MemberRead, ScopeAny},
	{roleID(sdk.RoleAluno), ObjectSprint, SprintRead, ScopeAny},
	{roleID(sdk.RoleAluno), ObjectAward, AwardRead, ScopeSelf},
}

// Resource describes the target of a requested action. For updates,
// deletes, and reads Target identifies the entity; for creates and
// member adds Parent identifies the entity the child would hang off.
// StudentID carries the target student for award actions.
type Resource struct {
	Object    string
	Target    hierarchy.Ref
	Parent    hierarchy.Ref
	StudentID int64
}

// Ownership answers "which course does X chain to" and "which course
// is user U enrolled in" without network access. *hierarchy.Index
// satisfies it.
type Ownership interface {
	CourseOf(ref hierarchy.Ref) (int64, bool)
	EnrollmentOf(userID int64) (hierarchy.Enrollment, bool)
}

// A Decider answers authorization queries.
type Decider interface {
	Decide(ident sdk.Identity, action string, res Resource) bool
}

// Policy is the casbin-backed Decider.
type Policy struct {
	enforcer  *casbin.Enforcer
	ownership Ownership
}

var _ Decider = (*Policy)(nil)

// New builds the Policy with the embedded model and the fixed role
// table. The ownership oracle resolves own-vs-other scopes.
func New(ownership Ownership) (*Policy, error) {
	m, err := model.NewModelFromString(modelContent)
	if err != nil {
		return nil, fmt.Errorf("parse policy model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}
	for _, rule := range rules {
		if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2], rule[3]); err != nil {
			return nil, fmt.Errorf("load policy rule: %w", err)
		}
	}
	return &Policy{enforcer: enforcer, ownership: ownership}, nil
}

// Decide returns the verdict for one (identity, action, resource)
// request. It never fails: unknown roles, unknown actions, enforcer
// errors, and incomplete ownership chains all come out as deny.
func (p *Policy) Decide(ident sdk.Identity, action string, res Resource) bool {
	if !ident.Role.Valid() || !ValidateAction(action) || res.Object == "" {
		return false
	}
	scope := p.scopeOf(ident, action, res)
	allowed, err := p.enforcer.Enforce(roleID(ident.Role), res.Object, action, scope)
	if err != nil {
		return false
	}
	return allowed
}

// scopeOf computes the requester's relationship to the resource.
func (p *Policy) scopeOf(ident sdk.Identity, action string, res Resource) string {
	switch res.Object {
	case ObjectCourse:
		// Courses are the root of the ownership graph; there is no
		// chain to walk.
		return ScopeAny
	case ObjectAward:
		return p.awardScope(ident, action, res)
	default:
		return p.chainScope(ident, res)
	}
}

// chainScope walks the resource up to its course and compares against
// the requester's enrollment. An incomplete chain is "other": deny is
// the safe reading of an ownership question the index cannot answer.
func (p *Policy) chainScope(ident sdk.Identity, res Resource) string {
	ref := res.Target
	if ref.IsZero() {
		ref = res.Parent
	}
	courseID, ok := p.ownership.CourseOf(ref)
	if !ok {
		return ScopeOther
	}
	enr, ok := p.ownership.EnrollmentOf(ident.ID)
	if !ok || enr.CourseID != courseID {
		return ScopeOther
	}
	return ScopeOwn
}

func (p *Policy) awardScope(ident sdk.Identity, action string, res Resource) string {
	if action == AwardRead {
		if res.StudentID == ident.ID {
			return ScopeSelf
		}
		return ScopeOther
	}
	// Granting: the target student must be enrolled in the same course
	// as the granting professor.
	granter, ok := p.ownership.EnrollmentOf(ident.ID)
	if !ok {
		return ScopeOther
	}
	student, ok := p.ownership.EnrollmentOf(res.StudentID)
	if !ok || student.CourseID != granter.CourseID {
		return ScopeOther
	}
	return ScopeOwn
}
