package team

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/internal/app"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/internal/render"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/hierarchy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/policy"
)

var (
	listProjectID int64
	listFilter    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the teams of a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		res := policy.Resource{
			Object: policy.ObjectTeam,
			Parent: hierarchy.Ref{Kind: hierarchy.KindProject, ID: listProjectID},
		}
		if err := a.Authorize(ctx, policy.TeamRead, res); err != nil {
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
		teams, err := api.ListTeams(ctx, "", listProjectID)
		if err != nil {
			return fmt.Errorf("list teams of project %d: %w", listProjectID, err)
		}
		for _, t := range teams {
			a.Index.Observe(seq, hierarchy.TeamEntity(t))
		}
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPROJECT_ID")
		for _, t := range teams {
			if !matcher.Match(map[string]any{"id": t.ID, "name": t.Name, "project_id": t.ProjectID}) {
				continue
			}
			fmt.Fprintf(w, "%d\t%s\t%d\n", t.ID, t.Name, t.ProjectID)
		}
		w.Flush()

		return nil
	},
}

func init() {
	listCmd.Flags().Int64Var(&listProjectID, "project", 0, "Project ID")
	listCmd.Flags().StringVar(&listFilter, "filter", "", "bexpr filter expression")
	_ = listCmd.MarkFlagRequired("project")
}
