package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise JustGo members with local users",
}

var syncPullCmd = &cobra.Command{
	Use:   "pull <mid>...",
	Short: "Pull members from JustGo into the local user database",
	Long: `Fetches each member by MID and creates or updates the local user with
the same email, then stores the JustGo linkage on it.

Members are synchronised one at a time. A failure is reported and the
batch continues; the command exits non-zero if any member failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSyncPull,
}

var syncPushCmd = &cobra.Command{
	Use:   "push <email>",
	Short: "Push a local user to JustGo",
	Long: `Updates the linked JustGo member, links to an existing member with the
same email, or with --create registers a new member.

Requires read_only = false. Staff should use 'justgo admin push' instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runSyncPush,
}

var syncPushCreate bool

func init() {
	syncPushCmd.Flags().BoolVar(&syncPushCreate, "create", false, "create the JustGo member if none matches")

	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncPushCmd)
	rootCmd.AddCommand(syncCmd)
}

func runSyncPull(cmd *cobra.Command, args []string) error {
	s, err := requireServices()
	if err != nil {
		return err
	}
	if s.Users == nil {
		return errors.New("local user store not configured")
	}

	results := s.Workflows.BulkSyncToLocal(commandContext(cmd), args, s.Users)

	var errs error
	for _, r := range results {
		if r.Status != domain.SyncSuccess {
			errs = multierr.Append(errs, fmt.Errorf("%s: %s", r.MID, resultMessage(r)))
		}
	}

	if jsonOutput {
		if err := printJSON(cmd, results); err != nil {
			return err
		}
	} else {
		st := newStyles(cmd)
		for _, r := range results {
			printSyncResult(cmd, st, r)
		}
	}

	if errs != nil {
		return fmt.Errorf("%d of %d members failed to sync: %w",
			len(multierr.Errors(errs)), len(results), errs)
	}
	return nil
}

func runSyncPush(cmd *cobra.Command, args []string) error {
	s, err := requireServices()
	if err != nil {
		return err
	}
	if s.Users == nil {
		return errors.New("local user store not configured")
	}

	ctx := commandContext(cmd)
	user, err := s.Users.GetByEmail(ctx, args[0])
	if err != nil {
		return fmt.Errorf("local user %s: %w", args[0], err)
	}

	result, err := s.Workflows.SyncLocalToJustGo(ctx, user, syncPushCreate, s.Users)
	if err != nil {
		if errors.Is(err, domain.ErrReadOnlyMode) {
			return fmt.Errorf("%w: set read_only = false or use 'justgo admin push'", err)
		}
		return err
	}
	if jsonOutput {
		return printJSON(cmd, result)
	}

	printSyncResult(cmd, newStyles(cmd), result)
	if result.Status != domain.SyncSuccess {
		return fmt.Errorf("sync %s: %s", result.Status, resultMessage(result))
	}
	return nil
}

func printSyncResult(cmd *cobra.Command, st styles, r *domain.SyncResult) {
	label := r.MID
	if label == "" {
		label = r.LocalUserID
	}
	switch r.Status {
	case domain.SyncSuccess:
		cmd.Printf("%s %s %s (member %s)\n", st.syncStatus(r.Status), label, r.Action, r.MemberID)
	default:
		cmd.Printf("%s %s %s\n", st.syncStatus(r.Status), label, resultMessage(r))
	}
}

// resultMessage returns the error of a failed result, else its message.
func resultMessage(r *domain.SyncResult) string {
	if r.Error != "" {
		return r.Error
	}
	return r.Message
}
