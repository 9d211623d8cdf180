package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Look up and validate JustGo members",
}

var memberJourneyCmd = &cobra.Command{
	Use:   "journey <mid>",
	Short: "Fetch a member's search hit, detail, credentials and identifiers",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemberJourney,
}

var memberValidateCmd = &cobra.Command{
	Use:   "validate <mid-or-member-id>",
	Short: "Validate a member's credentials against role requirements",
	Long: `Checks that a member holds every required credential, meets the
minimum age, and keeps those credentials valid until the role ends.

Identifiers shorter than ten characters are treated as MIDs; longer ones
as JustGo member GUIDs.

Example:
  justgo member validate M1001 --require "Garda Vetting" --require Safeguarding \
    --min-age 18 --valid-until 2025-08-31`,
	Args: cobra.ExactArgs(1),
	RunE: runMemberValidate,
}

var memberMembershipCmd = &cobra.Command{
	Use:   "membership <mid-or-member-id>",
	Short: "Validate a member's active membership types",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemberMembership,
}

// Flags for member validate and member membership.
var (
	validateRequire    []string
	validateMinAge     int
	validateValidUntil string

	membershipRequired []string
	membershipAllowed  []string
	membershipExcluded []string
)

func init() {
	memberValidateCmd.Flags().StringArrayVar(
		&validateRequire, "require", nil, "required credential name (repeatable, substring match)")
	memberValidateCmd.Flags().IntVar(
		&validateMinAge, "min-age", 0, "minimum age in years")
	memberValidateCmd.Flags().StringVar(
		&validateValidUntil, "valid-until", "", "last day of the role (YYYY-MM-DD)")

	memberMembershipCmd.Flags().StringArrayVar(
		&membershipRequired, "required", nil, "membership type that must be held (repeatable)")
	memberMembershipCmd.Flags().StringArrayVar(
		&membershipAllowed, "allowed", nil, "membership type that may be held (repeatable)")
	memberMembershipCmd.Flags().StringArrayVar(
		&membershipExcluded, "excluded", nil, "membership type that must not be held (repeatable)")

	memberCmd.AddCommand(memberJourneyCmd)
	memberCmd.AddCommand(memberValidateCmd)
	memberCmd.AddCommand(memberMembershipCmd)
	rootCmd.AddCommand(memberCmd)
}

func runMemberJourney(cmd *cobra.Command, args []string) error {
	s, err := requireServices()
	if err != nil {
		return err
	}

	journey, err := s.Workflows.GetMemberJourney(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("member journey failed: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, journey)
	}

	st := newStyles(cmd)
	m := journey.Member
	cmd.Println(st.Title.Render(fmt.Sprintf("%s %s", m.FirstName, m.LastName)))
	cmd.Printf("  MID:       %s\n", m.MID)
	cmd.Printf("  Member ID: %s\n", m.MemberID)
	cmd.Printf("  Email:     %s\n", m.EmailAddress)
	cmd.Printf("  Status:    %s\n", m.MemberStatus)
	cmd.Println()

	if len(journey.Credentials) == 0 {
		cmd.Println(st.Muted.Render("No credentials."))
		return nil
	}
	cmd.Println("Credentials:")
	for i := range journey.Credentials {
		c := journey.Credentials[i]
		line := fmt.Sprintf("  %-30s %-10s expires %s", c.Name, c.Status, orDash(c.ExpiryDate))
		if c.IsActive() {
			cmd.Println(line)
		} else {
			cmd.Println(st.Muted.Render(line))
		}
	}
	return nil
}

func runMemberValidate(cmd *cobra.Command, args []string) error {
	s, err := requireServices()
	if err != nil {
		return err
	}

	req := domain.RoleRequirements{
		RequiredCredentials: validateRequire,
		MinimumAge:          validateMinAge,
	}
	if validateValidUntil != "" {
		until, err := time.Parse(time.DateOnly, validateValidUntil)
		if err != nil {
			return fmt.Errorf("--valid-until: expected YYYY-MM-DD: %w", err)
		}
		req.ValidUntil = until
	}

	result := s.Workflows.ValidateCredentialsForRole(commandContext(cmd), args[0], req)
	if jsonOutput {
		return printJSON(cmd, result)
	}

	st := newStyles(cmd)
	cmd.Printf("%s %s\n", st.status(result.OverallStatus), result.MemberID)
	if result.Error != "" {
		cmd.Printf("  %s\n", st.Error.Render(result.Error))
	}
	if result.Age != nil {
		cmd.Printf("  Age: %d\n", *result.Age)
	}
	cmd.Printf("  Credentials: %d total, %d active, %d expired, %d expiring soon\n",
		result.Credentials.Total, result.Credentials.Active,
		result.Credentials.Expired, result.Credentials.ExpiringSoon)
	printList(cmd, "Met", result.RequirementsMet, st.Success)
	printList(cmd, "Failed", result.RequirementsFailed, st.Error)
	printList(cmd, "Warnings", result.Warnings, st.Warning)
	return nil
}

func runMemberMembership(cmd *cobra.Command, args []string) error {
	s, err := requireServices()
	if err != nil {
		return err
	}

	rules := domain.MembershipRules{
		Required: membershipRequired,
		Allowed:  membershipAllowed,
		Excluded: membershipExcluded,
	}
	result := s.Workflows.ValidateMembershipForRole(commandContext(cmd), args[0], rules)
	if jsonOutput {
		return printJSON(cmd, result)
	}

	st := newStyles(cmd)
	cmd.Printf("%s %s\n", st.status(result.OverallStatus), result.MemberID)
	if result.Error != "" {
		cmd.Printf("  %s\n", st.Error.Render(result.Error))
	}
	cmd.Printf("  Types: %s\n", orDash(strings.Join(result.MemberTypes, ", ")))
	for _, check := range result.Checks {
		mark := st.Success.Render("ok")
		if !check.Passed {
			mark = st.Error.Render("failed")
		}
		cmd.Printf("  %-18s %s  %s\n", check.Rule, mark, check.Detail)
	}
	return nil
}

// printList prints a titled list, skipping empty ones.
func printList(cmd *cobra.Command, title string, items []string, style lipgloss.Style) {
	if len(items) == 0 {
		return
	}
	cmd.Printf("  %s:\n", title)
	for _, item := range items {
		cmd.Printf("    - %s\n", style.Render(item))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
