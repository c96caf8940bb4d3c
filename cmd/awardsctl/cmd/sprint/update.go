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
	updateID        int64
	updateProjectID int64
	updateName      string
	updateGoals     string
	updateStart     string
	updateEnd       string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a sprint",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		start, err := sdk.ParseDate(updateStart)
		if err != nil {
			return err
		}
		end, err := sdk.ParseDate(updateEnd)
		if err != nil {
			return err
		}
		if !start.Before(end.Time) {
			return fmt.Errorf("sprint start %s must be before end %s", updateStart, updateEnd)
		}

		res := policy.Resource{
			Object: policy.ObjectSprint,
			Target: hierarchy.Ref{Kind: hierarchy.KindSprint, ID: updateID},
		}
		if err := a.Authorize(ctx, policy.SprintUpdate, res); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		seq := a.Index.Begin()
		updated, err := api.UpdateSprint(ctx, "", sdk.Sprint{
			ID:        updateID,
			Name:      updateName,
			Goals:     updateGoals,
			StartDate: start,
			EndDate:   end,
			ProjectID: updateProjectID,
		})
		if err != nil {
			return fmt.Errorf("update sprint %d: %w", updateID, err)
		}
		a.Index.Observe(seq, hierarchy.SprintEntity(*updated))
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		pterm.Success.Printf("Updated sprint %d\n", updated.ID)
		return nil
	},
}

func init() {
	updateCmd.Flags().Int64Var(&updateID, "id", 0, "Sprint ID")
	updateCmd.Flags().Int64Var(&updateProjectID, "project", 0, "Project ID the sprint belongs to")
	updateCmd.Flags().StringVar(&updateName, "name", "", "New sprint name")
	updateCmd.Flags().StringVar(&updateGoals, "goals", "", "New sprint goals")
	updateCmd.Flags().StringVar(&updateStart, "start", "", "New start date (YYYY-MM-DD)")
	updateCmd.Flags().StringVar(&updateEnd, "end", "", "New end date (YYYY-MM-DD)")
	_ = updateCmd.MarkFlagRequired("id")
	_ = updateCmd.MarkFlagRequired("project")
	_ = updateCmd.MarkFlagRequired("start")
	_ = updateCmd.MarkFlagRequired("end")
}
