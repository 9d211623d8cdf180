// Package cli provides the cobra command tree for the justgo binary.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driving"
	"github.com/custodia-labs/justgo-bridge/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=x.y.z".
var version = "dev"

// StaffManager grants or revokes staff rights on local users.
type StaffManager interface {
	SetStaff(ctx context.Context, email string, staff bool) error
}

// Services groups everything the commands drive. Nil fields disable the
// commands that need them.
type Services struct {
	Health    driving.HealthChecker
	Workflows driving.MemberWorkflows
	Admin     driving.AdminOverride
	Users     driven.LocalUserStore
	Staff     StaffManager
	Audit     driven.AuditLogger
	Config    driven.ConfigStore

	// ExpiryDaysAhead is the default window for report expiry.
	ExpiryDaysAhead int

	// Close releases the resources behind the services.
	Close func() error
}

// Factory builds Services from the configuration file at configPath.
// An empty configPath means the default location.
type Factory func(ctx context.Context, configPath string) (*Services, error)

var (
	services *Services
	factory  Factory
)

// Global flags.
var (
	configPath string
	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "justgo",
	Short: "JustGo member, credential and event tooling",
	Long: `justgo talks to the JustGo membership API.

It looks up members and their credentials, validates members against
volunteer role requirements, reports on expiring credentials, and
synchronises JustGo members with the local user database.

Writes to JustGo are disabled unless read_only = false is configured.
Staff can bypass this per call with the audited 'justgo admin' commands.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.justgo/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
}

// SetFactory installs the function that builds services on first use.
func SetFactory(f Factory) {
	factory = f
}

// SetVersion sets the version reported by 'justgo version'.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Cancelling ctx aborts in-flight requests.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup enables logging and builds services unless the command needs none.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if cmd.Annotations[annotationNoServices] == "true" || services != nil || factory == nil {
		return nil
	}

	s, err := factory(cmd.Context(), configPath)
	if err != nil {
		return err
	}
	services = s
	return nil
}

// teardown releases services built by setup.
func teardown(_ *cobra.Command, _ []string) error {
	if services == nil || services.Close == nil {
		return nil
	}
	s := services
	services = nil
	return s.Close()
}

// annotationNoServices marks commands that run without services.
const annotationNoServices = "no-services"

var errNotConfigured = errors.New("justgo is not configured: run 'justgo config set justgo.base_url <url>'")

// requireServices returns the services or a configuration error.
func requireServices() (*Services, error) {
	if services == nil {
		return nil, errNotConfigured
	}
	return services, nil
}

// printJSON writes v as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// commandContext returns the command's context, or Background outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
