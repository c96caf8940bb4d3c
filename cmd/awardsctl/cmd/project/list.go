package project

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/internal/app"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/internal/render"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/hierarchy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/lifecycle"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/policy"
)

var listFilter string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Long: `Lists projects with their derived lifecycle phase. The phase is
computed from the project dates at display time and never stored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		if err := a.Authorize(ctx, policy.ProjectRead, policy.Resource{Object: policy.ObjectProject}); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		matcher, err := render.NewMatcher(listFilter)
		if err != nil {
			return fmt.Errorf("invalid --filter expression: %w", err)
		}

		seq := a.Index.Begin()
		projects, err := api.ListProjects(ctx, "")
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}
		for _, p := range projects {
			a.Index.Observe(seq, hierarchy.ProjectEntity(p))
		}
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		now := time.Now()
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCOURSE_ID\tDISCIPLINE_ID\tSTART\tEND\tPHASE")
		for _, p := range projects {
			phase := lifecycle.ProjectPhase(p, now)
			disciplineID := "-"
			if p.DisciplineID != nil {
				disciplineID = fmt.Sprintf("%d", *p.DisciplineID)
			}
			if !matcher.Match(map[string]any{
				"id":        p.ID,
				"name":      p.Name,
				"course_id": p.CourseID,
				"phase":     string(phase),
			}) {
				continue
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\t%s\n",
				p.ID, p.Name, p.CourseID, disciplineID,
				p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"), phase)
		}
		w.Flush()

		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listFilter, "filter", "", "bexpr filter expression (e.g. phase == \"ACTIVE\")")
}
