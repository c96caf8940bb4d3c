package team

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/internal/app"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/hierarchy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/internal/policy"
	"github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"
)

var (
	memberAddTeamID  int64
	memberAddUserID  int64
	memberAddRole    string
	memberRmTeamID   int64
	memberRmMemberID int64
	memberListTeamID int64
)

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Manage team membership",
}

var memberAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a student to a team",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		scrumRole := sdk.ScrumRole(strings.ToUpper(memberAddRole))
		switch scrumRole {
		case sdk.ScrumMaster, sdk.ProductOwner, sdk.Developer:
		default:
			return fmt.Errorf("unknown scrum role %q (expected SCRUM_MASTER, PRODUCT_OWNER, or DEVELOPER)", memberAddRole)
		}

		parent := hierarchy.Ref{Kind: hierarchy.KindTeam, ID: memberAddTeamID}
		if err := a.Index.GuardCreate(hierarchy.KindMember, parent); err != nil {
			return fmt.Errorf("team %d: %w", memberAddTeamID, err)
		}
		res := policy.Resource{Object: policy.ObjectMember, Parent: parent}
		if err := a.Authorize(ctx, policy.MemberAdd, res); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		seq := a.Index.Begin()
		created, err := api.AddMember(ctx, "", sdk.Member{
			UserID:    memberAddUserID,
			TeamID:    memberAddTeamID,
			ScrumRole: scrumRole,
		})
		if err != nil {
			return fmt.Errorf("add member to team %d: %w", memberAddTeamID, err)
		}
		a.Index.Observe(seq, hierarchy.MemberEntity(*created))
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		pterm.Success.Printf("Added user %d to team %d as %s\n", memberAddUserID, memberAddTeamID, scrumRole)
		return nil
	},
}

var memberRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a member from a team",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		ref := hierarchy.Ref{Kind: hierarchy.KindMember, ID: memberRmMemberID}
		res := policy.Resource{Object: policy.ObjectMember, Target: ref}
		if err := a.Authorize(ctx, policy.MemberRemove, res); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		if err := api.RemoveMember(ctx, "", memberRmTeamID, memberRmMemberID); err != nil {
			return fmt.Errorf("remove member %d from team %d: %w", memberRmMemberID, memberRmTeamID, err)
		}
		a.Index.Drop(ref)
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		pterm.Success.Printf("Removed member %d from team %d\n", memberRmMemberID, memberRmTeamID)
		return nil
	},
}

var memberListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the members of a team",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := app.MustFromContext(ctx)

		res := policy.Resource{
			Object: policy.ObjectMember,
			Parent: hierarchy.Ref{Kind: hierarchy.KindTeam, ID: memberListTeamID},
		}
		if err := a.Authorize(ctx, policy.MemberRead, res); err != nil {
			return err
		}
		api, err := a.APIClient(ctx)
		if err != nil {
			return err
		}

		seq := a.Index.Begin()
		members, err := api.ListMembers(ctx, "", memberListTeamID)
		if err != nil {
			return fmt.Errorf("list members of team %d: %w", memberListTeamID, err)
		}
		for _, m := range members {
			a.Index.Observe(seq, hierarchy.MemberEntity(m))
		}
		if err := a.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSER_ID\tSCRUM_ROLE")
		for _, m := range members {
			fmt.Fprintf(w, "%d\t%d\t%s\n", m.ID, m.UserID, m.ScrumRole)
		}
		w.Flush()

		return nil
	},
}

func init() {
	memberAddCmd.Flags().Int64Var(&memberAddTeamID, "team", 0, "Team ID")
	memberAddCmd.Flags().Int64Var(&memberAddUserID, "user", 0, "Student user ID")
	memberAddCmd.Flags().StringVar(&memberAddRole, "scrum-role", string(sdk.Developer), "Scrum role (SCRUM_MASTER, PRODUCT_OWNER, DEVELOPER)")
	_ = memberAddCmd.MarkFlagRequired("team")
	_ = memberAddCmd.MarkFlagRequired("user")

	memberRemoveCmd.Flags().Int64Var(&memberRmTeamID, "team", 0, "Team ID")
	memberRemoveCmd.Flags().Int64Var(&memberRmMemberID, "member", 0, "Member ID")
	_ = memberRemoveCmd.MarkFlagRequired("team")
	_ = memberRemoveCmd.MarkFlagRequired("member")

	memberListCmd.Flags().Int64Var(&memberListTeamID, "team", 0, "Team ID")
	_ = memberListCmd.MarkFlagRequired("team")

	memberCmd.AddCommand(memberAddCmd)
	memberCmd.AddCommand(memberRemoveCmd)
	memberCmd.AddCommand(memberListCmd)
}
