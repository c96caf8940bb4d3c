package project

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
	Short: "Delete a project and its teams and sprints",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		ref := hierarchy.Ref{Kind: hierarchy.KindProject, ID: deleteID}
		res := policy.Resource{Object: policy.ObjectProject, Target: ref}
		if err := a.Authorize(ctx, policy.ProjectDelete, res); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		if err := api.DeleteProject(ctx, "", deleteID); err != nil {
			return fmt.Errorf("delete project %d: %w", deleteID, err)
		}
		a.Index.Drop(ref)
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		pterm.Success.Printf("Deleted project %d\n", deleteID)
		return nil
	},
}

func init() {
	deleteCmd.Flags().Int64Var(&deleteID, "id", 0, "Project ID")
	_ = deleteCmd.MarkFlagRequired("id")
}
