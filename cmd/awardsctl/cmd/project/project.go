// Package project holds the project management commands.
package project

import (
	"github.com/spf13/cobra"
)

// ProjectCmd is the parent command for project operations.
var ProjectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long: `Commands for listing and managing projects. A project belongs to a
course and may be scoped under one of the course's disciplines.`,
}

func init() {
	ProjectCmd.AddCommand(listCmd)
	ProjectCmd.AddCommand(createCmd)
	ProjectCmd.AddCommand(updateCmd)
	ProjectCmd.AddCommand(deleteCmd)
}
