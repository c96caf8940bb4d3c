package auth

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/internal/app"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and clear stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.MustFromContext(cmd.Context())
		if err := a.Session.EndSession(cmd.Context()); err != nil {
			return err
		}
		pterm.Success.Println("Logged out")
		return nil
	},
}
