package award

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/internal/app"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/policy"
)

var listStudentID int64

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a student's awards",
	Long: `Lists the awards of a student. Without --student, lists the awards of
the logged-in user.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		studentID := listStudentID
		if studentID == 0 {
			ident, ok := a.Session.CurrentIdentity(ctx)
			if !ok {
				return fmt.Errorf("not logged in, run `awardsctl auth login`")
			}
			studentID = ident.ID
		}

		res := policy.Resource{Object: policy.ObjectAward, StudentID: studentID}
		if err := a.Authorize(ctx, policy.AwardRead, res); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		awards, err := api.ListAwards(ctx, "", studentID)
		if err != nil {
			return fmt.Errorf("list awards of student %d: %w", studentID, err)
		}

		total := 0
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPOINTS\tGRANTED\tDESCRIPTION")
		for _, aw := range awards {
			total += aw.Points
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n",
				aw.ID, aw.Name, aw.Points, aw.GrantedAt.Format(time.RFC3339), aw.Description)
		}
		w.Flush()
		fmt.Printf("Total points: %d\n", total)

		return nil
	},
}

func init() {
	listCmd.Flags().Int64Var(&listStudentID, "student", 0, "Student user ID (defaults to the logged-in user)")
}
