package sprint

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

var (
	listProjectID int64
	listFilter    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the sprints of a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		res := policy.Resource{
			Object: policy.ObjectSprint,
			Parent: hierarchy.Ref{Kind: hierarchy.KindProject, ID: listProjectID},
		}
		if err := a.Authorize(ctx, policy.SprintRead, res); err != nil {
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
		sprints, err := api.ListSprints(ctx, "", listProjectID)
		if err != nil {
			return fmt.Errorf("list sprints of project %d: %w", listProjectID, err)
		}
		for _, s := range sprints {
			a.Index.Observe(seq, hierarchy.SprintEntity(s))
		}
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		now := time.Now()
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTART\tEND\tPHASE\tGOALS")
		for _, s := range sprints {
			phase := lifecycle.SprintPhase(s, now)
			if !matcher.Match(map[string]any{
				"id":    s.ID,
				"name":  s.Name,
				"phase": string(phase),
			}) {
				continue
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				s.ID, s.Name, s.StartDate.Format("2006-01-02"), s.EndDate.Format("2006-01-02"), phase, s.Goals)
		}
		w.Flush()

		return nil
	},
}

func init() {
	listCmd.Flags().Int64Var(&listProjectID, "project", 0, "Project ID")
	listCmd.Flags().StringVar(&listFilter, "filter", "", "bexpr filter expression (e.g. phase == \"ACTIVE\")")
	_ = listCmd.MarkFlagRequired("project")
}
