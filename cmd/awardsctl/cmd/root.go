package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/cmd/auth"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/cmd/award"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/cmd/course"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/cmd/discipline"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/cmd/project"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/cmd/sprint"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/cmd/team"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/internal/app"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/config"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/logging"
)

var (
	serverURL string
	debug     bool

	logCloser func()
)

var rootCmd = &cobra.Command{
	Use:   "awardsctl",
	Short: "EduScrum Awards CLI - academic gamification client",
	Long: `awardsctl is the command-line client for the EduScrum Awards platform.
It manages courses, disciplines, projects, teams, sprints, and student
awards against the backend API, with authorization checked locally
before any request leaves the machine.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("server") {
			cfg.ServerURL = serverURL
		}
		if debug {
			cfg.Debug = true
		}

		level := cfg.LogLevel
		if cfg.Debug {
			level = "debug"
		}
		log, err := logging.Init(level, cfg.Env)
		if err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		logCloser = log.Closer

		a, err := app.New(cmd.Context(), cfg, log.Base)
		if err != nil {
			return err
		}
		if err := a.Init(cmd.Context()); err != nil {
			pterm.Warning.Printf("stored session not restored: %v\n", err)
		}

		cmd.SetContext(app.Inject(cmd.Context(), a))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if a, ok := app.FromContext(cmd.Context()); ok {
			if err := a.Close(); err != nil {
				pterm.Warning.Printf("close snapshot database: %v\n", err)
			}
		}
		if logCloser != nil {
			logCloser()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Awards API server URL (overrides AWARDS_SERVER_URL)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(course.CourseCmd)
	rootCmd.AddCommand(discipline.DisciplineCmd)
	rootCmd.AddCommand(project.ProjectCmd)
	rootCmd.AddCommand(team.TeamCmd)
	rootCmd.AddCommand(sprint.SprintCmd)
	rootCmd.AddCommand(award.AwardCmd)
	rootCmd.AddCommand(syncCmd)
}
