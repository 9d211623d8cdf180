package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Check JustGo authentication",
}

var authCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Authenticate and report the connection state",
	Long: `Authenticates against the configured JustGo instance (reusing a cached
token when one is valid) and prints the connection state.

Exits non-zero if authentication fails.`,
	Args: cobra.NoArgs,
	RunE: runAuthCheck,
}

func init() {
	authCmd.AddCommand(authCheckCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthCheck(cmd *cobra.Command, _ []string) error {
	s, err := requireServices()
	if err != nil {
		return err
	}
	if s.Health == nil {
		return fmt.Errorf("health check not configured")
	}

	report, err := s.Health.HealthCheck(commandContext(cmd))
	if jsonOutput && report != nil {
		if jerr := printJSON(cmd, report); jerr != nil {
			return jerr
		}
		if err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
		return nil
	}

	st := newStyles(cmd)
	if report != nil {
		cmd.Println(st.Title.Render("JustGo connection"))
		cmd.Printf("  Base URL:     %s\n", report.BaseURL)
		cmd.Printf("  API version:  %s\n", report.APIVersion)
		mode := "read-write"
		if report.ReadOnly {
			mode = "read-only"
		}
		cmd.Printf("  Write mode:   %s\n", mode)
		cmd.Printf("  Requests:     %d\n", report.RequestCount)
		if !report.TokenExpiresAt.IsZero() {
			cmd.Printf("  Token expiry: %s\n", report.TokenExpiresAt.Format(time.RFC3339))
		}
	}
	if err != nil {
		cmd.Println(st.Error.Render("Authentication failed"))
		return fmt.Errorf("authentication failed: %w", err)
	}
	cmd.Println(st.Success.Render("Authenticated"))
	return nil
}
