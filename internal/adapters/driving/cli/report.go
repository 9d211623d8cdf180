package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Batch reports over many members",
}

var reportExpiryCmd = &cobra.Command{
	Use:   "expiry <member-id>...",
	Short: "List credentials expiring soon",
	Long: `Lists active credentials expiring within --days days for each member GUID.
Members that cannot be fetched are listed as errors; the rest of the batch
still runs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReportExpiry,
}

var reportMembershipCmd = &cobra.Command{
	Use:   "membership <member-id>...",
	Short: "Break down active membership types",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runReportMembership,
}

var reportDays int

func init() {
	reportExpiryCmd.Flags().IntVar(
		&reportDays, "days", 0, "days ahead to look for expiries (default from config, 30)")

	reportCmd.AddCommand(reportExpiryCmd)
	reportCmd.AddCommand(reportMembershipCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReportExpiry(cmd *cobra.Command, args []string) error {
	s, err := requireServices()
	if err != nil {
		return err
	}

	days := reportDays
	if days <= 0 {
		days = s.ExpiryDaysAhead
	}
	if days <= 0 {
		days = 30
	}

	report := s.Workflows.CredentialExpiryReport(commandContext(cmd), args, days)
	if jsonOutput {
		return printJSON(cmd, report)
	}

	st := newStyles(cmd)
	cmd.Println(st.Title.Render(fmt.Sprintf("Credentials expiring within %d days", report.DaysAhead)))
	cmd.Printf("  Members: %d checked of %d, %d with expiring credentials\n",
		report.MembersChecked, report.TotalMembers, report.MembersWithExpiring)
	cmd.Printf("  Expiring: %d\n", report.TotalExpiring)
	cmd.Println()

	for _, m := range report.Members {
		cmd.Println(m.MemberID)
		for i := range m.Credentials {
			c := m.Credentials[i]
			cmd.Printf("  %-30s %s\n", c.Name, st.Warning.Render(c.ExpiryDate))
		}
	}
	printBreakdown(cmd, report.TypeBreakdown)
	printMemberErrors(cmd, st, report.Errors)
	return nil
}

func runReportMembership(cmd *cobra.Command, args []string) error {
	s, err := requireServices()
	if err != nil {
		return err
	}

	report := s.Workflows.MembershipReport(commandContext(cmd), args)
	if jsonOutput {
		return printJSON(cmd, report)
	}

	st := newStyles(cmd)
	cmd.Println(st.Title.Render("Active memberships"))
	cmd.Printf("  Members: %d checked of %d, %d without memberships\n",
		report.MembersChecked, report.TotalMembers, report.WithoutMemberships)
	cmd.Println()

	for _, m := range report.Members {
		cmd.Printf("%s  %s\n", m.MemberID, orDash(strings.Join(m.Types, ", ")))
	}
	printBreakdown(cmd, report.TypeBreakdown)
	printMemberErrors(cmd, st, report.Errors)
	return nil
}

// printBreakdown prints type counts, largest first.
func printBreakdown(cmd *cobra.Command, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if counts[types[i]] != counts[types[j]] {
			return counts[types[i]] > counts[types[j]]
		}
		return types[i] < types[j]
	})

	cmd.Println()
	cmd.Println("By type:")
	for _, t := range types {
		cmd.Printf("  %-30s %d\n", t, counts[t])
	}
}

func printMemberErrors(cmd *cobra.Command, st styles, errs []domain.MemberError) {
	if len(errs) == 0 {
		return
	}
	cmd.Println()
	cmd.Println(st.Error.Render(fmt.Sprintf("Errors (%d):", len(errs))))
	for _, e := range errs {
		cmd.Printf("  %s: %s\n", e.MemberID, e.Error)
	}
}
