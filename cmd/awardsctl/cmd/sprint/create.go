package sprint

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
	createGoals     string
	createStart     string
	createEnd       string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a sprint in a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		start, err := sdk.ParseDate(createStart)
		if err != nil {
			return err
		}
		end, err := sdk.ParseDate(createEnd)
		if err != nil {
			return err
		}
		if !start.Before(end.Time) {
			return fmt.Errorf("sprint start %s must be before end %s", createStart, createEnd)
		}

		parent := hierarchy.Ref{Kind: hierarchy.KindProject, ID: createProjectID}
		if err := a.Index.GuardCreate(hierarchy.KindSprint, parent); err != nil {
			return fmt.Errorf("project %d: %w", createProjectID, err)
		}
		res := policy.Resource{Object: policy.ObjectSprint, Parent: parent}
		if err := a.Authorize(ctx, policy.SprintCreate, res); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		seq := a.Index.Begin()
		created, err := api.CreateSprint(ctx, "", sdk.Sprint{
			Name:      createName,
			Goals:     createGoals,
			StartDate: start,
			EndDate:   end,
			ProjectID: createProjectID,
		})
		if err != nil {
			return fmt.Errorf("create sprint: %w", err)
		}
		a.Index.Observe(seq, hierarchy.SprintEntity(*created))
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		pterm.Success.Printf("Created sprint %d (%s) in project %d\n", created.ID, created.Name, createProjectID)
		return nil
	},
}

func init() {
	createCmd.Flags().Int64Var(&createProjectID, "project", 0, "Project ID")
	createCmd.Flags().StringVar(&createName, "name", "", "Sprint name")
	createCmd.Flags().StringVar(&createGoals, "goals", "", "Sprint goals")
	createCmd.Flags().StringVar(&createStart, "start", "", "Start date (YYYY-MM-DD)")
	createCmd.Flags().StringVar(&createEnd, "end", "", "End date (YYYY-MM-DD)")
	_ = createCmd.MarkFlagRequired("project")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("start")
	_ = createCmd.MarkFlagRequired("end")
}
