package course

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
	updateID   int64
	updateName string
	updateCode string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a course",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		res := policy.Resource{
			Object: policy.ObjectCourse,
			Target: hierarchy.Ref{Kind: hierarchy.KindCourse, ID: updateID},
		}
		if err := a.Authorize(ctx, policy.CourseUpdate, res); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		seq := a.Index.Begin()
		updated, err := api.UpdateCourse(ctx, "", sdk.Course{ID: updateID, Name: updateName, Code: updateCode})
		if err != nil {
			return fmt.Errorf("update course %d: %w", updateID, err)
		}
		a.Index.Observe(seq, hierarchy.CourseEntity(*updated))
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		pterm.Success.Printf("Updated course %d\n", updated.ID)
		return nil
	},
}

func init() {
	updateCmd.Flags().Int64Var(&updateID, "id", 0, "Course ID")
	updateCmd.Flags().StringVar(&updateName, "name", "", "New course name")
	updateCmd.Flags().StringVar(&updateCode, "code", "", "New course code")
	_ = updateCmd.MarkFlagRequired("id")
}
