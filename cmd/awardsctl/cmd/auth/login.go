package auth

import (
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/internal/app"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the awards backend",
	Long: `Exchanges email and password for a session token and stores it for
subsequent commands. A failed attempt leaves any existing session
untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.MustFromContext(cmd.Context())

		password := loginPassword
		if password == "" {
			entered, err := pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
			if err != nil {
				return err
			}
			password = entered
		}

		ident, err := a.Session.Authenticate(cmd.Context(), loginEmail, password)
		if err != nil {
			if errors.Is(err, sdk.ErrBadCredentials) {
				return fmt.Errorf("login rejected: check email and password")
			}
			return err
		}

		pterm.Success.Printf("Logged in as %s <%s> (%s)\n", ident.Name, ident.Email, ident.Role)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
	_ = loginCmd.MarkFlagRequired("email")
}
