package auth

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/internal/app"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display session status",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.MustFromContext(cmd.Context())

		pterm.DefaultSection.Println("Session Status")

		ident, ok := a.Session.CurrentIdentity(cmd.Context())
		if !ok {
			pterm.Info.Printf("State: %s\n", a.Session.State())
			pterm.Info.Println("Not logged in; run `awardsctl auth login`")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "State\t%s\n", a.Session.State())
		fmt.Fprintf(w, "User\t%s <%s>\n", ident.Name, ident.Email)
		fmt.Fprintf(w, "Role\t%s\n", ident.Role)
		fmt.Fprintf(w, "User ID\t%d\n", ident.ID)
		if creds, err := a.Store.Load(); err == nil && creds != nil {
			fmt.Fprintf(w, "Saved at\t%s\n", creds.SavedAt.Format(time.RFC1123))
		}
		if enr, ok := a.Index.EnrollmentOf(ident.ID); ok {
			fmt.Fprintf(w, "Enrolled course\t%d\n", enr.CourseID)
		}
		w.Flush()

		return nil
	},
}
