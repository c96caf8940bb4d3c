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
	createCourseID     int64
	createDisciplineID int64
	createName         string
	createDescription  string
	createStart        string
	createEnd          string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		start, err := sdk.ParseDate(createStart)
		if err != nil {
			return err
		}
		end, err := sdk.ParseDate(createEnd)
		if err != nil {
			return err
		}
		if !start.Before(end.Time) {
			return fmt.Errorf("project start %s must be before end %s", createStart, createEnd)
		}

		parent := hierarchy.Ref{Kind: hierarchy.KindCourse, ID: createCourseID}
		var disciplineID *int64
		if createDisciplineID != 0 {
			parent = hierarchy.Ref{Kind: hierarchy.KindDiscipline, ID: createDisciplineID}
			disciplineID = &createDisciplineID
		}
		if err := a.Index.GuardCreate(hierarchy.KindProject, parent); err != nil {
			return fmt.Errorf("%s: %w", parent, err)
		}
		res := policy.Resource{Object: policy.ObjectProject, Parent: parent}
		if err := a.Authorize(ctx, policy.ProjectCreate, res); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		seq := a.Index.Begin()
		created, err := api.CreateProject(ctx, "", sdk.Project{
			Name:         createName,
			Description:  createDescription,
			StartDate:    start,
			EndDate:      end,
			CourseID:     createCourseID,
			DisciplineID: disciplineID,
		})
		if err != nil {
			return fmt.Errorf("create project: %w", err)
		}
		a.Index.Observe(seq, hierarchy.ProjectEntity(*created))
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		pterm.Success.Printf("Created project %d (%s)\n", created.ID, created.Name)
		return nil
	},
}

func init() {
	createCmd.Flags().Int64Var(&createCourseID, "course", 0, "Course ID")
	createCmd.Flags().Int64Var(&createDisciplineID, "discipline", 0, "Discipline ID to scope the project under (optional)")
	createCmd.Flags().StringVar(&createName, "name", "", "Project name")
	createCmd.Flags().StringVar(&createDescription, "description", "", "Project description")
	createCmd.Flags().StringVar(&createStart, "start", "", "Start date (YYYY-MM-DD)")
	createCmd.Flags().StringVar(&createEnd, "end", "", "End date (YYYY-MM-DD)")
	_ = createCmd.MarkFlagRequired("course")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("start")
	_ = createCmd.MarkFlagRequired("end")
}
