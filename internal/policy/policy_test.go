package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/hierarchy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/policy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"
)

// testIndex builds a hierarchy with two courses, one discipline and
// one project chain under course 10, and enrollments on both sides.
func testIndex(t *testing.T) *hierarchy.Index {
	t.Helper()
	idx := hierarchy.NewIndex()
	seq := idx.Begin()
	idx.Observe(seq,
		hierarchy.CourseEntity(sdk.Course{ID: 10, Name: "Engineering", Code: "ENG"}),
		hierarchy.CourseEntity(sdk.Course{ID: 11, Name: "Design", Code: "DSG"}),
		hierarchy.DisciplineEntity(sdk.Discipline{ID: 20, CourseID: 10}),
		hierarchy.ProjectEntity(sdk.Project{ID: 30, CourseID: 10}),
		hierarchy.TeamEntity(sdk.Team{ID: 40, ProjectID: 30}),
		hierarchy.MemberEntity(sdk.Member{ID: 50, UserID: 2, TeamID: 40}),
		hierarchy.SprintEntity(sdk.Sprint{ID: 60, ProjectID: 30}),
	)
	idx.Enroll(1, 10, sdk.RoleProfessor) // professor of course 10
	idx.Enroll(2, 10, sdk.RoleAluno)     // student in course 10
	idx.Enroll(3, 11, sdk.RoleAluno)     // student in the other course
	return idx
}

func ident(id int64, role sdk.Role) sdk.Identity {
	return sdk.Identity{ID: id, Role: role}
}

func TestDecide_RoleTable(t *testing.T) {
	pol, err := policy.New(testIndex(t))
	require.NoError(t, err)

	courseRef := hierarchy.Ref{Kind: hierarchy.KindCourse, ID: 10}
	disciplineRef := hierarchy.Ref{Kind: hierarchy.KindDiscipline, ID: 20}
	teamRef := hierarchy.Ref{Kind: hierarchy.KindTeam, ID: 40}
	otherCourseRef := hierarchy.Ref{Kind: hierarchy.KindCourse, ID: 11}

	tests := []struct {
		name   string
		ident  sdk.Identity
		action string
		res    policy.Resource
		want   bool
	}{
		{"admin creates course", ident(9, sdk.RoleAdmin), policy.CourseCreate, policy.Resource{Object: policy.ObjectCourse}, true},
		{"admin updates course", ident(9, sdk.RoleAdmin), policy.CourseUpdate, policy.Resource{Object: policy.ObjectCourse, Target: courseRef}, true},
		{"admin deletes course", ident(9, sdk.RoleAdmin), policy.CourseDelete, policy.Resource{Object: policy.ObjectCourse, Target: courseRef}, true},
		{"admin cannot read courses", ident(9, sdk.RoleAdmin), policy.CourseRead, policy.Resource{Object: policy.ObjectCourse}, false},
		{"admin cannot create disciplines", ident(9, sdk.RoleAdmin), policy.DisciplineCreate, policy.Resource{Object: policy.ObjectDiscipline, Parent: courseRef}, false},

		{"professor reads courses", ident(1, sdk.RoleProfessor), policy.CourseRead, policy.Resource{Object: policy.ObjectCourse}, true},
		{"professor cannot create courses", ident(1, sdk.RoleProfessor), policy.CourseCreate, policy.Resource{Object: policy.ObjectCourse}, false},
		{"professor creates discipline in own course", ident(1, sdk.RoleProfessor), policy.DisciplineCreate, policy.Resource{Object: policy.ObjectDiscipline, Parent: courseRef}, true},
		{"professor updates own discipline", ident(1, sdk.RoleProfessor), policy.DisciplineUpdate, policy.Resource{Object: policy.ObjectDiscipline, Target: disciplineRef}, true},
		{"professor creates discipline in other course", ident(1, sdk.RoleProfessor), policy.DisciplineCreate, policy.Resource{Object: policy.ObjectDiscipline, Parent: otherCourseRef}, false},
		{"professor creates discipline under unknown course", ident(1, sdk.RoleProfessor), policy.DisciplineCreate, policy.Resource{Object: policy.ObjectDiscipline, Parent: hierarchy.Ref{Kind: hierarchy.KindCourse, ID: 404}}, false},
		{"professor adds member to own team", ident(1, sdk.RoleProfessor), policy.MemberAdd, policy.Resource{Object: policy.ObjectMember, Parent: teamRef}, true},
		{"professor creates sprint in own project", ident(1, sdk.RoleProfessor), policy.SprintCreate, policy.Resource{Object: policy.ObjectSprint, Parent: hierarchy.Ref{Kind: hierarchy.KindProject, ID: 30}}, true},
		{"unenrolled professor denied everywhere", ident(7, sdk.RoleProfessor), policy.ProjectCreate, policy.Resource{Object: policy.ObjectProject, Parent: courseRef}, false},

		{"student reads courses", ident(2, sdk.RoleAluno), policy.CourseRead, policy.Resource{Object: policy.ObjectCourse}, true},
		{"student reads sprints", ident(2, sdk.RoleAluno), policy.SprintRead, policy.Resource{Object: policy.ObjectSprint, Parent: hierarchy.Ref{Kind: hierarchy.KindProject, ID: 30}}, true},
		{"student cannot create teams", ident(2, sdk.RoleAluno), policy.TeamCreate, policy.Resource{Object: policy.ObjectTeam, Parent: hierarchy.Ref{Kind: hierarchy.KindProject, ID: 30}}, false},
		{"student cannot grant awards", ident(2, sdk.RoleAluno), policy.AwardGrant, policy.Resource{Object: policy.ObjectAward, StudentID: 3}, false},

		{"unknown role denied", sdk.Identity{ID: 5, Role: "GUEST"}, policy.CourseRead, policy.Resource{Object: policy.ObjectCourse}, false},
		{"unknown action denied", ident(9, sdk.RoleAdmin), "course:publish", policy.Resource{Object: policy.ObjectCourse}, false},
		{"empty object denied", ident(9, sdk.RoleAdmin), policy.CourseCreate, policy.Resource{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pol.Decide(tt.ident, tt.action, tt.res))
		})
	}
}

func TestDecide_AwardScopes(t *testing.T) {
	pol, err := policy.New(testIndex(t))
	require.NoError(t, err)

	tests := []struct {
		name   string
		ident  sdk.Identity
		action string
		res    policy.Resource
		want   bool
	}{
		{"student reads own awards", ident(2, sdk.RoleAluno), policy.AwardRead, policy.Resource{Object: policy.ObjectAward, StudentID: 2}, true},
		{"student cannot read another student's awards", ident(2, sdk.RoleAluno), policy.AwardRead, policy.Resource{Object: policy.ObjectAward, StudentID: 3}, false},
		{"professor grants within own course", ident(1, sdk.RoleProfessor), policy.AwardGrant, policy.Resource{Object: policy.ObjectAward, StudentID: 2}, true},
		{"professor cannot grant across courses", ident(1, sdk.RoleProfessor), policy.AwardGrant, policy.Resource{Object: policy.ObjectAward, StudentID: 3}, false},
		{"professor cannot grant to unenrolled student", ident(1, sdk.RoleProfessor), policy.AwardGrant, policy.Resource{Object: policy.ObjectAward, StudentID: 404}, false},
		{"professor cannot read student awards", ident(1, sdk.RoleProfessor), policy.AwardRead, policy.Resource{Object: policy.ObjectAward, StudentID: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pol.Decide(tt.ident, tt.action, tt.res))
		})
	}
}

// TestCachedDecider_AgreesWithPolicy runs the same requests through the
// raw and the memoized decider, twice each so cache hits are covered.
func TestCachedDecider_AgreesWithPolicy(t *testing.T) {
	idx := testIndex(t)
	pol, err := policy.New(idx)
	require.NoError(t, err)
	cached, err := policy.NewCached(pol, 64)
	require.NoError(t, err)

	courseRef := hierarchy.Ref{Kind: hierarchy.KindCourse, ID: 10}
	requests := []struct {
		ident  sdk.Identity
		action string
		res    policy.Resource
	}{
		{ident(9, sdk.RoleAdmin), policy.CourseCreate, policy.Resource{Object: policy.ObjectCourse}},
		{ident(1, sdk.RoleProfessor), policy.DisciplineCreate, policy.Resource{Object: policy.ObjectDiscipline, Parent: courseRef}},
		{ident(2, sdk.RoleAluno), policy.AwardRead, policy.Resource{Object: policy.ObjectAward, StudentID: 2}},
		{ident(2, sdk.RoleAluno), policy.AwardRead, policy.Resource{Object: policy.ObjectAward, StudentID: 3}},
		{sdk.Identity{ID: 5, Role: "GUEST"}, policy.CourseRead, policy.Resource{Object: policy.ObjectCourse}},
	}

	for round := 0; round < 2; round++ {
		for _, req := range requests {
			want := pol.Decide(req.ident, req.action, req.res)
			got := cached.Decide(req.ident, req.action, req.res)
			assert.Equal(t, want, got, "round %d: %s on %s", round, req.action, req.res.Object)
		}
	}
}

// TestDecide_ScopeFollowsIndexChanges verifies verdicts track the
// ownership data, not a stale snapshot of it.
func TestDecide_ScopeFollowsIndexChanges(t *testing.T) {
	idx := testIndex(t)
	pol, err := policy.New(idx)
	require.NoError(t, err)

	prof := ident(1, sdk.RoleProfessor)
	res := policy.Resource{Object: policy.ObjectDiscipline, Parent: hierarchy.Ref{Kind: hierarchy.KindCourse, ID: 10}}
	require.True(t, pol.Decide(prof, policy.DisciplineCreate, res))

	// Moving the professor to the other course flips the verdict.
	idx.Enroll(1, 11, sdk.RoleProfessor)
	assert.False(t, pol.Decide(prof, policy.DisciplineCreate, res))

	idx.Unenroll(1)
	assert.False(t, pol.Decide(prof, policy.DisciplineCreate, res))
}
