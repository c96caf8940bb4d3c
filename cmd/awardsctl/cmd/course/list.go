package course

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

var listFilter string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		if err := a.Authorize(ctx, policy.CourseRead, policy.Resource{Object: policy.ObjectCourse}); err != nil {
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
		courses, err := api.ListCourses(ctx, "")
		if err != nil {
			return fmt.Errorf("list courses: %w", err)
		}
		for _, c := range courses {
			a.Index.Observe(seq, hierarchy.CourseEntity(c))
		}
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCODE\tADMIN_ID")
		for _, c := range courses {
			if !matcher.Match(map[string]any{"id": c.ID, "name": c.Name, "code": c.Code, "admin_id": c.AdminID}) {
				continue
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", c.ID, c.Name, c.Code, c.AdminID)
		}
		w.Flush()

		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listFilter, "filter", "", "bexpr filter expression (e.g. code == \"ENG\")")
}
