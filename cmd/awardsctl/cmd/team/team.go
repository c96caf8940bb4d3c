// Package team holds the team and membership commands.
package team

import (
	"github.com/spf13/cobra"
)

// TeamCmd is the parent command for team operations.
var TeamCmd = &cobra.Command{
	Use:   "team",
	Short: "Manage teams and their members",
	Long: `Commands for managing the teams of a project and the students on
them. Each member carries a scrum role within the team.`,
}

func init() {
	TeamCmd.AddCommand(listCmd)
	TeamCmd.AddCommand(createCmd)
	TeamCmd.AddCommand(deleteCmd)
	TeamCmd.AddCommand(memberCmd)
}
