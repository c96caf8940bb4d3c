package discipline

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
	updateID       int64
	updateCourseID int64
	updateName     string
	updateCode     string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a discipline",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		res := policy.Resource{
			Object: policy.ObjectDiscipline,
			Target: hierarchy.Ref{Kind: hierarchy.KindDiscipline, ID: updateID},
		}
		if err := a.Authorize(ctx, policy.DisciplineUpdate, res); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		seq := a.Index.Begin()
		updated, err := api.UpdateDiscipline(ctx, "", sdk.Discipline{
			ID:       updateID,
			Name:     updateName,
			Code:     updateCode,
			CourseID: updateCourseID,
		})
		if err != nil {
			return fmt.Errorf("update discipline %d: %w", updateID, err)
		}
		a.Index.Observe(seq, hierarchy.DisciplineEntity(*updated))
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		pterm.Success.Printf("Updated discipline %d\n", updated.ID)
		return nil
	},
}

func init() {
	updateCmd.Flags().Int64Var(&updateID, "id", 0, "Discipline ID")
	updateCmd.Flags().Int64Var(&updateCourseID, "course", 0, "Course ID the discipline belongs to")
	updateCmd.Flags().StringVar(&updateName, "name", "", "New discipline name")
	updateCmd.Flags().StringVar(&updateCode, "code", "", "New discipline code")
	_ = updateCmd.MarkFlagRequired("id")
	_ = updateCmd.MarkFlagRequired("course")
}
