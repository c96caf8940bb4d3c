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
	createCourseID int64
	createName     string
	createCode     string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a discipline in a course",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		parent := hierarchy.Ref{Kind: hierarchy.KindCourse, ID: createCourseID}
		if err := a.Index.GuardCreate(hierarchy.KindDiscipline, parent); err != nil {
			return fmt.Errorf("course %d: %w", createCourseID, err)
		}
		res := policy.Resource{Object: policy.ObjectDiscipline, Parent: parent}
		if err := a.Authorize(ctx, policy.DisciplineCreate, res); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		seq := a.Index.Begin()
		created, err := api.CreateDiscipline(ctx, "", sdk.Discipline{
			Name:     createName,
			Code:     createCode,
			CourseID: createCourseID,
		})
		if err != nil {
			return fmt.Errorf("create discipline: %w", err)
		}
		a.Index.Observe(seq, hierarchy.DisciplineEntity(*created))
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		pterm.Success.Printf("Created discipline %d (%s) in course %d\n", created.ID, created.Name, createCourseID)
		return nil
	},
}

func init() {
	createCmd.Flags().Int64Var(&createCourseID, "course", 0, "Course ID")
	createCmd.Flags().StringVar(&createName, "name", "", "Discipline name")
	createCmd.Flags().StringVar(&createCode, "code", "", "Discipline code")
	_ = createCmd.MarkFlagRequired("course")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("code")
}
