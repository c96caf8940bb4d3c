package team

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/internal/app"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/hierarchy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/policy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"
)

var (
	createProjectID int64
	createName      string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a team in a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		parent := hierarchy.Ref{Kind: hierarchy.KindProject, ID: createProjectID}
		if err := a.Index.GuardCreate(hierarchy.KindTeam, parent); err != nil {
			return fmt.Errorf("project %d: %w", createProjectID, err)
		}
		res := policy.Resource{Object: policy.ObjectTeam, Parent: parent}
		if err := a.Authorize(ctx, policy.TeamCreate, res); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		seq := a.Index.Begin()
		created, err := api.CreateTeam(ctx, "", sdk.Team{Name: createName, ProjectID: createProjectID})
		if err != nil {
			return fmt.Errorf("create team: %w", err)
		}
		a.Index.Observe(seq, hierarchy.TeamEntity(*created))
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		pterm.Success.Printf("Created team %d (%s) in project %d\n", created.ID, created.Name, createProjectID)
		return nil
	},
}

func init() {
	createCmd.Flags().Int64Var(&createProjectID, "project", 0, "Project ID")
	createCmd.Flags().StringVar(&createName, "name", "", "Team name")
	_ = createCmd.MarkFlagRequired("project")
	_ = createCmd.MarkFlagRequired("name")
}
