// Package award holds the award commands.
package award

import (
	"github.com/spf13/cobra"
)

// AwardCmd is the parent command for award operations.
var AwardCmd = &cobra.Command{
	Use:   "award",
	Short: "Grant and list student awards",
	Long: `Commands for granting awards to students and listing the awards a
student holds. Awards are immutable once granted.`,
}

func init() {
	AwardCmd.AddCommand(grantCmd)
	AwardCmd.AddCommand(listCmd)
}
