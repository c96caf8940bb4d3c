package policy

// Action constants for authorization checks. These define every
// operation the policy can grant; anything else denies by default.

// Course actions
const (
	CourseCreate = "course:create"
	CourseRead   = "course:read"
	CourseUpdate = "course:update"
	CourseDelete = "course:delete"
)

// Discipline actions
const (
	DisciplineCreate = "discipline:create"
	DisciplineRead   = "discipline:read"
	DisciplineUpdate = "discipline:update"
	DisciplineDelete = "discipline:delete"
)

// Project actions
const (
	ProjectCreate = "project:create"
	ProjectRead   = "project:read"
	ProjectUpdate = "project:update"
	ProjectDelete = "project:delete"
)

// Team actions
const (
	TeamCreate = "team:create"
	TeamRead   = "team:read"
	TeamUpdate = "team:update"
	TeamDelete = "team:delete"
)

// Member actions. Membership is added and removed, not edited.
const (
	MemberAdd    = "member:add"
	MemberRead   = "member:read"
	MemberRemove = "member:remove"
)

// Sprint actions
const (
	SprintCreate = "sprint:create"
	SprintRead   = "sprint:read"
	SprintUpdate = "sprint:update"
	SprintDelete = "sprint:delete"
)

// Award actions. Awards are immutable once granted.
const (
	AwardGrant = "award:grant"
	AwardRead  = "award:read"
)

// Object types
const (
	ObjectCourse     = "course"
	ObjectDiscipline = "discipline"
	ObjectProject    = "project"
	ObjectTeam       = "team"
	ObjectMember     = "member"
	ObjectSprint     = "sprint"
	ObjectAward      = "award"
)

// Scope values describe the requester's relationship to the resource.
// Requests carry the computed relationship; policy rows carry the
// required one, with ScopeAny matching every relationship.
const (
	ScopeAny   = "any"
	ScopeOwn   = "own"
	ScopeOther = "other"
	ScopeSelf  = "self"
)

// ValidateAction checks that an action string is one this policy
// knows. It guards against typos when building requests; unknown
// actions deny regardless.
func ValidateAction(action string) bool {
	switch action {
	case CourseCreate, CourseRead, CourseUpdate, CourseDelete,
		DisciplineCreate, DisciplineRead, DisciplineUpdate, DisciplineDelete,
		ProjectCreate, ProjectRead, ProjectUpdate, ProjectDelete,
		TeamCreate, TeamRead, TeamUpdate, TeamDelete,
		MemberAdd, MemberRead, MemberRemove,
		SprintCreate, SprintRead, SprintUpdate, SprintDelete,
		AwardGrant, AwardRead:
		return true
	}
	return false
}
