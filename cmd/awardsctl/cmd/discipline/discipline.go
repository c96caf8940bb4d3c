// Package discipline holds the discipline management commands.
package discipline

import (
	"github.com/spf13/cobra"
)

// DisciplineCmd is the parent command for discipline operations.
var DisciplineCmd = &cobra.Command{
	Use:   "discipline",
	Short: "Manage disciplines",
	Long:  `Commands for listing and managing the disciplines of a course.`,
}

func init() {
	DisciplineCmd.AddCommand(listCmd)
	DisciplineCmd.AddCommand(createCmd)
	DisciplineCmd.AddCommand(updateCmd)
	DisciplineCmd.AddCommand(deleteCmd)
}
