// Package course holds the course management commands.
package course

import (
	"github.com/spf13/cobra"
)

// CourseCmd is the parent command for course operations.
var CourseCmd = &cobra.Command{
	Use:   "course",
	Short: "Manage courses",
	Long:  `Commands for listing and administering courses and their enrollments.`,
}

func init() {
	CourseCmd.AddCommand(listCmd)
	CourseCmd.AddCommand(createCmd)
	CourseCmd.AddCommand(updateCmd)
	CourseCmd.AddCommand(deleteCmd)
	CourseCmd.AddCommand(enrollCmd)
	CourseCmd.AddCommand(unenrollCmd)
}
