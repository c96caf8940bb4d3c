package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/internal/app"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"
)

var (
	registerName     string
	registerEmail    string
	registerPassword string
	registerRole     string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and start a session for it",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.MustFromContext(cmd.Context())

		role := sdk.Role(strings.ToUpper(registerRole))
		if !role.Valid() {
			return fmt.Errorf("unknown role %q (expected ADMIN, PROFESSOR, or ALUNO)", registerRole)
		}

		password := registerPassword
		if password == "" {
			entered, err := pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
			if err != nil {
				return err
			}
			password = entered
		}

		ident, err := a.Session.Register(cmd.Context(), sdk.RegisterInput{
			Name:     registerName,
			Email:    registerEmail,
			Password: password,
			Role:     role,
		})
		if err != nil {
			if errors.Is(err, sdk.ErrBadCredentials) {
				return fmt.Errorf("registration rejected by the backend")
			}
			return err
		}

		pterm.Success.Printf("Registered and logged in as %s <%s> (%s)\n", ident.Name, ident.Email, ident.Role)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "Full name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Account password (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerRole, "role", string(sdk.RoleAluno), "Account role (ADMIN, PROFESSOR, ALUNO)")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")
}
