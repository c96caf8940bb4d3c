package discipline

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/internal/app"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/hierarchy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/policy"
)

var deleteID int64

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a discipline",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		ref := hierarchy.Ref{Kind: hierarchy.KindDiscipline, ID: deleteID}
		res := policy.Resource{Object: policy.ObjectDiscipline, Target: ref}
		if err := a.Authorize(ctx, policy.DisciplineDelete, res); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		if err := api.DeleteDiscipline(ctx, "", deleteID); err != nil {
			return fmt.Errorf("delete discipline %d: %w", deleteID, err)
		}
		a.Index.Drop(ref)
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		pterm.Success.Printf("Deleted discipline %d\n", deleteID)
		return nil
	},
}

func init() {
	deleteCmd.Flags().Int64Var(&deleteID, "id", 0, "Discipline ID")
	_ = deleteCmd.MarkFlagRequired("id")
}
