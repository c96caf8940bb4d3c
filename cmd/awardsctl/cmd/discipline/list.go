package discipline

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/internal/app"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/internal/render"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/hierarchy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/policy"
)

var (
	listCourseID int64
	listFilter   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the disciplines of a course",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		res := policy.Resource{
			Object: policy.ObjectDiscipline,
			Parent: hierarchy.Ref{Kind: hierarchy.KindCourse, ID: listCourseID},
		}
		if err := a.Authorize(ctx, policy.DisciplineRead, res); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		matcher, err := render.NewMatcher(listFilter)
		if err != nil {
			return fmt.Errorf("invalid --filter expression: %w", err)
		}

		seq := a.Index.Begin()
		disciplines, err := api.ListDisciplines(ctx, "", listCourseID)
		if err != nil {
			return fmt.Errorf("list disciplines of course %d: %w", listCourseID, err)
		}
		for _, d := range disciplines {
			a.Index.Observe(seq, hierarchy.DisciplineEntity(d))
		}
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCODE\tCOURSE_ID")
		for _, d := range disciplines {
			if !matcher.Match(map[string]any{"id": d.ID, "name": d.Name, "code": d.Code, "course_id": d.CourseID}) {
				continue
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", d.ID, d.Name, d.Code, d.CourseID)
		}
		w.Flush()

		return nil
	},
}

func init() {
	listCmd.Flags().Int64Var(&listCourseID, "course", 0, "Course ID")
	listCmd.Flags().StringVar(&listFilter, "filter", "", "bexpr filter expression")
	_ = listCmd.MarkFlagRequired("course")
}
