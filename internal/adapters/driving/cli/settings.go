package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
)

// secretKey is the config key holding the JustGo API secret.
const secretKey = "justgo.secret"

// ConfigOpener opens the configuration file at path (empty for the default).
type ConfigOpener func(path string) (driven.ConfigStore, error)

var openConfig ConfigOpener

// SetConfigOpener installs the function the config commands use to open
// the configuration file. They work without a valid configuration.
func SetConfigOpener(f ConfigOpener) {
	openConfig = f
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit the configuration file",
	Long: `View and edit ~/.justgo/config.toml (or the file given with --config).

Keys use dot notation: justgo.base_url is base_url in the [justgo] table.

Sections:
  [justgo]   secret, base_url, api_version, timeout_seconds, max_retries,
             rate_limit_delay_seconds, read_only
  [cache]    backend (memory|redis), redis_addr, redis_username,
             redis_password, redis_db, key_prefix
  [storage]  data_dir
  [expiry]   days_ahead

JUSTGO_SECRET, JUSTGO_BASE_URL, JUSTGO_API_VERSION and JUSTGO_READ_ONLY
override the file, and are also read from a .env file.`,
	Annotations: map[string]string{annotationNoServices: "true"},
	RunE:        runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show the configuration file",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoServices: "true"},
	RunE:        runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:         "set <key> <value>",
	Short:       "Set a configuration value",
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{annotationNoServices: "true"},
	RunE:        runConfigSet,
}

var configSecretCmd = &cobra.Command{
	Use:         "set-secret",
	Short:       "Prompt for the JustGo API secret and store it",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoServices: "true"},
	RunE:        runConfigSecret,
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the configuration file path",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoServices: "true"},
	RunE:        runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSecretCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig() (driven.ConfigStore, error) {
	if openConfig == nil {
		return nil, errors.New("config store not configured")
	}
	store, err := openConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	return store, nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := loadConfig()
	if err != nil {
		return err
	}

	keys := store.Keys()
	if jsonOutput {
		values := make(map[string]any, len(keys))
		for _, key := range keys {
			values[key] = displayValue(store, key)
		}
		return printJSON(cmd, values)
	}

	cmd.Printf("Config file: %s\n", store.Path())
	if len(keys) == 0 {
		cmd.Println("No settings. Start with: justgo config set justgo.base_url https://<club>.justgo.com")
		return nil
	}

	section := ""
	for _, key := range keys {
		if s, _, ok := strings.Cut(key, "."); ok && s != section {
			section = s
			cmd.Println()
			cmd.Printf("[%s]\n", section)
		}
		cmd.Printf("  %s = %v\n", key, displayValue(store, key))
	}
	return nil
}

// displayValue masks the secret.
func displayValue(store driven.ConfigStore, key string) any {
	if key == secretKey {
		return maskAPIKey(store.GetString(key))
	}
	v, _ := store.Get(key)
	return v
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	store, err := loadConfig()
	if err != nil {
		return err
	}

	key := strings.TrimSpace(args[0])
	if key == "" {
		return errors.New("key must not be empty")
	}
	if err := store.Set(key, parseValue(args[1])); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	if key == secretKey {
		cmd.Printf("Set %s\n", key)
		return nil
	}
	cmd.Printf("Set %s = %s\n", key, args[1])
	return nil
}

func runConfigSecret(cmd *cobra.Command, _ []string) error {
	store, err := loadConfig()
	if err != nil {
		return err
	}

	cmd.Print("JustGo API secret: ")
	secret := readPassword(cmd.InOrStdin())
	cmd.Println()
	if secret == "" {
		return errors.New("no secret entered")
	}
	if err := store.Set(secretKey, secret); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	cmd.Printf("Stored secret %s in %s\n", maskAPIKey(secret), store.Path())
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	store, err := loadConfig()
	if err != nil {
		return err
	}
	cmd.Println(store.Path())
	return nil
}

// parseValue stores booleans and numbers with their TOML types.
func parseValue(raw string) any {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

// readPassword reads without echo when in is a terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	input, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
