// Package sprint holds the sprint management commands.
package sprint

import (
	"github.com/spf13/cobra"
)

// SprintCmd is the parent command for sprint operations.
var SprintCmd = &cobra.Command{
	Use:   "sprint",
	Short: "Manage sprints",
	Long: `Commands for managing the sprints of a project. Sprint phases are
derived from the dates at display time; PLANNING before the start,
ACTIVE from the start, DONE from the end.`,
}

func init() {
	SprintCmd.AddCommand(listCmd)
	SprintCmd.AddCommand(createCmd)
	SprintCmd.AddCommand(updateCmd)
	SprintCmd.AddCommand(deleteCmd)
}
