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
	createName string
	createCode string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a course",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		if err := a.Authorize(ctx, policy.CourseCreate, policy.Resource{Object: policy.ObjectCourse}); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		seq := a.Index.Begin()
		created, err := api.CreateCourse(ctx, "", sdk.Course{Name: createName, Code: createCode})
		if err != nil {
			return fmt.Errorf("create course: %w", err)
		}
		a.Index.Observe(seq, hierarchy.CourseEntity(*created))
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		pterm.Success.Printf("Created course %d (%s)\n", created.ID, created.Name)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "Course name")
	createCmd.Flags().StringVar(&createCode, "code", "", "Course code")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("code")
}
