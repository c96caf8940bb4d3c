package hierarchy

import "github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"

// Adapters from wire types to graph nodes. Fetch handlers pass the
// decoded response through these before calling Observe.

func CourseEntity(c sdk.Course) Entity {
	return Entity{Ref: Ref{Kind: KindCourse, ID: c.ID}}
}

func DisciplineEntity(d sdk.Discipline) Entity {
	return Entity{
		Ref:    Ref{Kind: KindDiscipline, ID: d.ID},
		Parent: Ref{Kind: KindCourse, ID: d.CourseID},
	}
}

// ProjectEntity points the project at its discipline when it has one,
// otherwise directly at its course. CourseOf resolves both chains.
func ProjectEntity(p sdk.Project) Entity {
	parent := Ref{Kind: KindCourse, ID: p.CourseID}
	if p.DisciplineID != nil {
		parent = Ref{Kind: KindDiscipline, ID: *p.DisciplineID}
	}
	return Entity{Ref: Ref{Kind: KindProject, ID: p.ID}, Parent: parent}
}

func TeamEntity(t sdk.Team) Entity {
	return Entity{
		Ref:    Ref{Kind: KindTeam, ID: t.ID},
		Parent: Ref{Kind: KindProject, ID: t.ProjectID},
	}
}

func MemberEntity(m sdk.Member) Entity {
	return Entity{
		Ref:    Ref{Kind: KindMember, ID: m.ID},
		Parent: Ref{Kind: KindTeam, ID: m.TeamID},
	}
}

func SprintEntity(s sdk.Sprint) Entity {
	return Entity{
		Ref:    Ref{Kind: KindSprint, ID: s.ID},
		Parent: Ref{Kind: KindProject, ID: s.ProjectID},
	}
}
