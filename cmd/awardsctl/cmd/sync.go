package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/internal/app"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/hierarchy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/policy"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the local hierarchy from the backend",
	Long: `Fetches every resource collection the current role may read, along
with the user's own course enrollment, and rebuilds the local hierarchy
snapshot from the results. Resource types the role may not read are
skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		if err := a.RefreshEnrollment(ctx); err != nil {
			return err
		}

		readable := func(object, action string) bool {
			ok, authErr := a.Session.Authorize(ctx, action, policy.Resource{Object: object})
			return authErr == nil && ok
		}

		seq := a.Index.Begin()
		observed := 0

		if readable(policy.ObjectCourse, policy.CourseRead) {
			courses, err := api.ListCourses(ctx, "")
			if err != nil {
				return fmt.Errorf("fetch courses: %w", err)
			}
			for _, c := range courses {
				a.Index.Observe(seq, hierarchy.CourseEntity(c))
				observed++
			}

			if readable(policy.ObjectDiscipline, policy.DisciplineRead) {
				for _, c := range courses {
					disciplines, err := api.ListDisciplines(ctx, "", c.ID)
					if err != nil {
						return fmt.Errorf("fetch disciplines of course %d: %w", c.ID, err)
					}
					for _, d := range disciplines {
						a.Index.Observe(seq, hierarchy.DisciplineEntity(d))
						observed++
					}
				}
			}
		}

		if readable(policy.ObjectProject, policy.ProjectRead) {
			projects, err := api.ListProjects(ctx, "")
			if err != nil {
				return fmt.Errorf("fetch projects: %w", err)
			}
			for _, p := range projects {
				a.Index.Observe(seq, hierarchy.ProjectEntity(p))
				observed++
			}

			for _, p := range projects {
				if readable(policy.ObjectTeam, policy.TeamRead) {
					teams, err := api.ListTeams(ctx, "", p.ID)
					if err != nil {
						return fmt.Errorf("fetch teams of project %d: %w", p.ID, err)
					}
					for _, t := range teams {
						a.Index.Observe(seq, hierarchy.TeamEntity(t))
						observed++
					}
					if readable(policy.ObjectMember, policy.MemberRead) {
						for _, t := range teams {
							members, err := api.ListMembers(ctx, "", t.ID)
							if err != nil {
								return fmt.Errorf("fetch members of team %d: %w", t.ID, err)
							}
							for _, m := range members {
								a.Index.Observe(seq, hierarchy.MemberEntity(m))
								observed++
							}
						}
					}
				}
				if readable(policy.ObjectSprint, policy.SprintRead) {
					sprints, err := api.ListSprints(ctx, "", p.ID)
					if err != nil {
						return fmt.Errorf("fetch sprints of project %d: %w", p.ID, err)
					}
					for _, s := range sprints {
						a.Index.Observe(seq, hierarchy.SprintEntity(s))
						observed++
					}
				}
			}
		}

		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}
		if observed == 0 {
			pterm.Warning.Println("No entities synced; the current role has no readable resource types")
			return nil
		}
		pterm.Success.Printf("Synced %d entities into the local hierarchy\n", observed)
		return nil
	},
}
