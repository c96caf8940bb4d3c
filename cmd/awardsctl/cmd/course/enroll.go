package course

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/internal/app"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/hierarchy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/policy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"
)

var (
	enrollUserID   int64
	enrollCourseID int64
	enrollRole     string

	unenrollUserID   int64
	unenrollCourseID int64
	unenrollRole     string
)

// Enrollment is a course administration concern, so both commands gate
// on the course update permission.

var enrollCmd = &cobra.Command{
	Use:   "enroll",
	Short: "Enroll a user in a course",
	Long: `Enrolls a student or professor in a course. A user holds at most one
enrollment; enrolling into a new course replaces the previous one in a
single step.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		role := sdk.Role(strings.ToUpper(enrollRole))
		if role != sdk.RoleAluno && role != sdk.RoleProfessor {
			return fmt.Errorf("role %q has no course enrollment", enrollRole)
		}

		res := policy.Resource{
			Object: policy.ObjectCourse,
			Target: hierarchy.Ref{Kind: hierarchy.KindCourse, ID: enrollCourseID},
		}
		if err := a.Authorize(ctx, policy.CourseUpdate, res); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		if err := api.AssignCourse(ctx, "", role, enrollUserID, enrollCourseID); err != nil {
			return fmt.Errorf("enroll user %d in course %d: %w", enrollUserID, enrollCourseID, err)
		}
		a.Index.Enroll(enrollUserID, enrollCourseID, role)
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		pterm.Success.Printf("Enrolled user %d in course %d as %s\n", enrollUserID, enrollCourseID, role)
		return nil
	},
}

var unenrollCmd = &cobra.Command{
	Use:   "unenroll",
	Short: "Remove a user's course enrollment",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		role := sdk.Role(strings.ToUpper(unenrollRole))
		if role != sdk.RoleAluno && role != sdk.RoleProfessor {
			return fmt.Errorf("role %q has no course enrollment", unenrollRole)
		}

		res := policy.Resource{
			Object: policy.ObjectCourse,
			Target: hierarchy.Ref{Kind: hierarchy.KindCourse, ID: unenrollCourseID},
		}
		if err := a.Authorize(ctx, policy.CourseUpdate, res); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		if err := api.UnassignCourse(ctx, "", role, unenrollUserID, unenrollCourseID); err != nil {
			return fmt.Errorf("unenroll user %d from course %d: %w", unenrollUserID, unenrollCourseID, err)
		}
		a.Index.Unenroll(unenrollUserID)
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		pterm.Success.Printf("Removed enrollment of user %d from course %d\n", unenrollUserID, unenrollCourseID)
		return nil
	},
}

func init() {
	enrollCmd.Flags().Int64Var(&enrollUserID, "user", 0, "User ID")
	enrollCmd.Flags().Int64Var(&enrollCourseID, "course", 0, "Course ID")
	enrollCmd.Flags().StringVar(&enrollRole, "role", string(sdk.RoleAluno), "Enrollment role (ALUNO or PROFESSOR)")
	_ = enrollCmd.MarkFlagRequired("user")
	_ = enrollCmd.MarkFlagRequired("course")

	unenrollCmd.Flags().Int64Var(&unenrollUserID, "user", 0, "User ID")
	unenrollCmd.Flags().Int64Var(&unenrollCourseID, "course", 0, "Course ID")
	unenrollCmd.Flags().StringVar(&unenrollRole, "role", string(sdk.RoleAluno), "Enrollment role (ALUNO or PROFESSOR)")
	_ = unenrollCmd.MarkFlagRequired("user")
	_ = unenrollCmd.MarkFlagRequired("course")
}
