package award

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/internal/app"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/policy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"
)

var (
	grantStudentID   int64
	grantName        string
	grantDescription string
	grantPoints      int
)

var grantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Grant an award to a student",
	Long: `Grants an award. The granting professor and the target student must
be enrolled in the same course.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		if grantPoints < 0 {
			return fmt.Errorf("points must not be negative")
		}

		res := policy.Resource{Object: policy.ObjectAward, StudentID: grantStudentID}
		if err := a.Authorize(ctx, policy.AwardGrant, res); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		created, err := api.GrantAward(ctx, "", sdk.Award{
			StudentID:   grantStudentID,
			Name:        grantName,
			Description: grantDescription,
			Points:      grantPoints,
		})
		if err != nil {
			return fmt.Errorf("grant award: %w", err)
		}

		pterm.Success.Printf("Granted award %d (%s, %d points) to student %d\n",
			created.ID, created.Name, created.Points, grantStudentID)
		return nil
	},
}

func init() {
	grantCmd.Flags().Int64Var(&grantStudentID, "student", 0, "Student user ID")
	grantCmd.Flags().StringVar(&grantName, "name", "", "Award name")
	grantCmd.Flags().StringVar(&grantDescription, "description", "", "Award description")
	grantCmd.Flags().IntVar(&grantPoints, "points", 0, "Points the award is worth")
	_ = grantCmd.MarkFlagRequired("student")
	_ = grantCmd.MarkFlagRequired("name")
}
