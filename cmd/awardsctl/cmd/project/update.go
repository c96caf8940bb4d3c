package project

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
	updateID           int64
	updateCourseID     int64
	updateDisciplineID int64
	updateName         string
	updateDescription  string
	updateStart        string
	updateEnd          string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a project",
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
			return fmt.Errorf("project start %s must be before end %s", updateStart, updateEnd)
		}

		res := policy.Resource{
			Object: policy.ObjectProject,
			Target: hierarchy.Ref{Kind: hierarchy.KindProject, ID: updateID},
		}
		if err := a.Authorize(ctx, policy.ProjectUpdate, res); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		var disciplineID *int64
		if updateDisciplineID != 0 {
			disciplineID = &updateDisciplineID
		}

		seq := a.Index.Begin()
		updated, err := api.UpdateProject(ctx, "", sdk.Project{
			ID:           updateID,
			Name:         updateName,
			Description:  updateDescription,
			StartDate:    start,
			EndDate:      end,
			CourseID:     updateCourseID,
			DisciplineID: disciplineID,
		})
		if err != nil {
			return fmt.Errorf("update project %d: %w", updateID, err)
		}
		a.Index.Observe(seq, hierarchy.ProjectEntity(*updated))
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		pterm.Success.Printf("Updated project %d\n", updated.ID)
		return nil
	},
}

func init() {
	updateCmd.Flags().Int64Var(&updateID, "id", 0, "Project ID")
	updateCmd.Flags().Int64Var(&updateCourseID, "course", 0, "Course ID the project belongs to")
	updateCmd.Flags().Int64Var(&updateDisciplineID, "discipline", 0, "Discipline ID to scope the project under (optional)")
	updateCmd.Flags().StringVar(&updateName, "name", "", "New project name")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "New project description")
	updateCmd.Flags().StringVar(&updateStart, "start", "", "New start date (YYYY-MM-DD)")
	updateCmd.Flags().StringVar(&updateEnd, "end", "", "New end date (YYYY-MM-DD)")
	_ = updateCmd.MarkFlagRequired("id")
	_ = updateCmd.MarkFlagRequired("course")
	_ = updateCmd.MarkFlagRequired("start")
	_ = updateCmd.MarkFlagRequired("end")
}
