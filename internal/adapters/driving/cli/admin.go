package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Audited staff overrides of read-only mode",
	Long: `Runs a single JustGo write on behalf of a staff user, regardless of the
configured read-only mode. Every override is written to the audit log with
the actor, the justification and the state before and after.

The actor is the email of a local user with staff rights (see 'justgo admin staff').`,
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a JustGo member profile",
	Long: `Creates a member from --field key=value pairs. Common aliases are accepted
(first_name, surname, email, dob, phone, eircode, ...).

Example:
  justgo admin create --actor admin@example.com --justification "walk-in" \
    --field first_name=Jane --field surname=Doe \
    --field email=jane@example.com --field dob=1990-03-04`,
	Args: cobra.NoArgs,
	RunE: runAdminCreate,
}

var adminUpdateCmd = &cobra.Command{
	Use:   "update <member-id>",
	Short: "Update a JustGo member profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminUpdate,
}

var adminCandidateStatusCmd = &cobra.Command{
	Use:   "candidate-status <booking-id> <status>",
	Short: "Set an event candidate's status",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdminCandidateStatus,
}

var adminAddCandidateCmd = &cobra.Command{
	Use:   "add-candidate <event-id> <ticket-id> <candidate-id>",
	Short: "Book a candidate onto an event",
	Args:  cobra.ExactArgs(3),
	RunE:  runAdminAddCandidate,
}

var adminPushCmd = &cobra.Command{
	Use:   "push <email>",
	Short: "Push a local user to JustGo",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminPush,
}

var adminStaffCmd = &cobra.Command{
	Use:   "staff <email>",
	Short: "Grant (or with --revoke, remove) staff rights on a local user",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminStaff,
}

var adminAuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent overrides",
	Args:  cobra.NoArgs,
	RunE:  runAdminAudit,
}

// Flags for admin commands.
var (
	adminActor         string
	adminJustification string
	adminFields        []string
	adminIssueAwards   bool
	adminCreate        bool
	adminRevoke        bool
	adminAuditLimit    int
)

func init() {
	for _, c := range []*cobra.Command{
		adminCreateCmd, adminUpdateCmd, adminCandidateStatusCmd, adminAddCandidateCmd, adminPushCmd,
	} {
		c.Flags().StringVar(&adminActor, "actor", "", "email of the staff user performing the override")
		c.Flags().StringVar(&adminJustification, "justification", "", "reason recorded in the audit log")
		_ = c.MarkFlagRequired("actor")
		_ = c.MarkFlagRequired("justification")
	}
	adminCreateCmd.Flags().StringArrayVar(&adminFields, "field", nil, "member field as key=value (repeatable)")
	adminUpdateCmd.Flags().StringArrayVar(&adminFields, "field", nil, "member field as key=value (repeatable)")
	adminCandidateStatusCmd.Flags().BoolVar(&adminIssueAwards, "issue-awards", false, "issue the event's awards")
	adminPushCmd.Flags().BoolVar(&adminCreate, "create", false, "create the JustGo member if none matches")
	adminStaffCmd.Flags().BoolVar(&adminRevoke, "revoke", false, "remove staff rights")
	adminAuditCmd.Flags().IntVar(&adminAuditLimit, "limit", 20, "number of entries (0 for all)")

	adminCmd.AddCommand(adminCreateCmd)
	adminCmd.AddCommand(adminUpdateCmd)
	adminCmd.AddCommand(adminCandidateStatusCmd)
	adminCmd.AddCommand(adminAddCandidateCmd)
	adminCmd.AddCommand(adminPushCmd)
	adminCmd.AddCommand(adminStaffCmd)
	adminCmd.AddCommand(adminAuditCmd)
	rootCmd.AddCommand(adminCmd)
}

// adminServices returns services with the override port and local users configured.
func adminServices() (*Services, error) {
	s, err := requireServices()
	if err != nil {
		return nil, err
	}
	if s.Admin == nil || s.Users == nil {
		return nil, errors.New("admin overrides not configured")
	}
	return s, nil
}

// resolveActor looks up the --actor email in the local user database.
func resolveActor(cmd *cobra.Command, s *Services) (domain.Actor, error) {
	user, err := s.Users.GetByEmail(commandContext(cmd), adminActor)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Actor{}, fmt.Errorf("actor %s is not a local user", adminActor)
		}
		return domain.Actor{}, fmt.Errorf("looking up actor: %w", err)
	}
	return domain.Actor{ID: user.ID, Username: user.Email, IsStaff: user.IsStaff}, nil
}

// parseFields turns key=value pairs into a member payload.
func parseFields(pairs []string) (map[string]any, error) {
	data := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --field %q: expected key=value", pair)
		}
		data[key] = strings.TrimSpace(value)
	}
	return data, nil
}

// overrideOutput prints an override's metadata and result.
func overrideOutput(cmd *cobra.Command, meta domain.OverrideMetadata, result any, summary string) error {
	if jsonOutput {
		return printJSON(cmd, map[string]any{"result": result, "override": meta})
	}
	st := newStyles(cmd)
	cmd.Println(st.Success.Render(summary))
	cmd.Println(st.Muted.Render(fmt.Sprintf("  %s by %s at %s: %s",
		meta.Action, meta.Actor.Username, meta.Timestamp.Format(time.RFC3339), meta.Justification)))
	return nil
}

func runAdminCreate(cmd *cobra.Command, _ []string) error {
	s, err := adminServices()
	if err != nil {
		return err
	}
	data, err := parseFields(adminFields)
	if err != nil {
		return err
	}
	actor, err := resolveActor(cmd, s)
	if err != nil {
		return err
	}

	res, err := s.Admin.CreateMemberProfile(commandContext(cmd), actor, adminJustification, data)
	if err != nil {
		return fmt.Errorf("create member failed: %w", err)
	}
	return overrideOutput(cmd, res.Override, res.Result,
		fmt.Sprintf("Created member %s (MID %s)", res.Result.MemberID, res.Result.MID))
}

func runAdminUpdate(cmd *cobra.Command, args []string) error {
	s, err := adminServices()
	if err != nil {
		return err
	}
	data, err := parseFields(adminFields)
	if err != nil {
		return err
	}
	actor, err := resolveActor(cmd, s)
	if err != nil {
		return err
	}

	res, err := s.Admin.UpdateMemberProfile(commandContext(cmd), actor, adminJustification, args[0], data)
	if err != nil {
		return fmt.Errorf("update member failed: %w", err)
	}
	return overrideOutput(cmd, res.Override, res.Result, fmt.Sprintf("Updated member %s", args[0]))
}

func runAdminCandidateStatus(cmd *cobra.Command, args []string) error {
	s, err := adminServices()
	if err != nil {
		return err
	}
	actor, err := resolveActor(cmd, s)
	if err != nil {
		return err
	}

	res, err := s.Admin.UpdateCandidateStatus(
		commandContext(cmd), actor, adminJustification, args[0], args[1], adminIssueAwards)
	if err != nil {
		return fmt.Errorf("update candidate status failed: %w", err)
	}
	return overrideOutput(cmd, res.Override, res.Result,
		fmt.Sprintf("Booking %s set to %s", args[0], args[1]))
}

func runAdminAddCandidate(cmd *cobra.Command, args []string) error {
	s, err := adminServices()
	if err != nil {
		return err
	}
	actor, err := resolveActor(cmd, s)
	if err != nil {
		return err
	}

	res, err := s.Admin.AddCandidateToEvent(
		commandContext(cmd), actor, adminJustification, args[0], args[1], args[2])
	if err != nil {
		return fmt.Errorf("add candidate failed: %w", err)
	}
	return overrideOutput(cmd, res.Override, res.Result,
		fmt.Sprintf("Candidate %s added to event %s", args[2], args[0]))
}

func runAdminPush(cmd *cobra.Command, args []string) error {
	s, err := adminServices()
	if err != nil {
		return err
	}
	actor, err := resolveActor(cmd, s)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	user, err := s.Users.GetByEmail(ctx, args[0])
	if err != nil {
		return fmt.Errorf("local user %s: %w", args[0], err)
	}

	res, err := s.Admin.SyncLocalToJustGo(ctx, actor, adminJustification, user, adminCreate)
	if err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	r := res.Result
	if r.Status != domain.SyncSuccess {
		if jsonOutput {
			_ = printJSON(cmd, res)
		}
		return fmt.Errorf("push %s: %s", r.Status, resultMessage(r))
	}
	return overrideOutput(cmd, res.Override, r, fmt.Sprintf("Pushed %s: %s member %s", args[0], r.Action, r.MemberID))
}

func runAdminStaff(cmd *cobra.Command, args []string) error {
	s, err := requireServices()
	if err != nil {
		return err
	}
	if s.Staff == nil {
		return errors.New("staff management not configured")
	}

	if err := s.Staff.SetStaff(commandContext(cmd), args[0], !adminRevoke); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%s is not a local user: run 'justgo sync pull' first", args[0])
		}
		return err
	}
	if adminRevoke {
		cmd.Printf("Revoked staff rights from %s\n", args[0])
	} else {
		cmd.Printf("Granted staff rights to %s\n", args[0])
	}
	return nil
}

func runAdminAudit(cmd *cobra.Command, _ []string) error {
	s, err := requireServices()
	if err != nil {
		return err
	}
	if s.Audit == nil {
		return errors.New("audit log not configured")
	}

	entries, err := s.Audit.Recent(commandContext(cmd), adminAuditLimit)
	if err != nil {
		return fmt.Errorf("reading audit log: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, entries)
	}
	if len(entries) == 0 {
		cmd.Println("No overrides recorded.")
		return nil
	}

	st := newStyles(cmd)
	for i := range entries {
		e := entries[i]
		outcome := st.Success.Render("ok")
		if !e.Success {
			outcome = st.Error.Render("failed")
		}
		cmd.Printf("%s  %-22s %-6s %s -> %s\n",
			e.Timestamp.Format(time.RFC3339), e.Action, outcome, e.Actor.Username, orDash(e.Target))
		cmd.Printf("    %s\n", e.Justification)
		if e.Error != "" {
			cmd.Printf("    %s\n", st.Error.Render(e.Error))
		}
	}
	return nil
}
