package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"excesoluz/pkg/config"
	"excesoluz/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage excesoluz configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (EXCESOLUZ_*)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
	// Config commands report load errors themselves
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			ui.SetColor(false)
		}
		return nil
	},
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.excesoluz.yaml'
unless a different path is specified with the --config flag.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the current configuration including values from all sources.

Sensitive values like the Firebase API key will be masked.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Storage backend and paths
  - Analytics settings when enabled
  - Catalogue presence`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# excesoluz configuration file
#
# Every option can also be set through environment variables prefixed with
# EXCESOLUZ_, for example EXCESOLUZ_STORAGE_BACKEND or EXCESOLUZ_FIREBASE_API_KEY.

# Where progress is stored
storage:
  # Backend: file, sqlite, keyring, memory
  backend: file

  # Directory for the file backend and the default SQLite database
  # Default: the user data directory
  directory: ""

  # SQLite database path (sqlite backend only)
  sqlite_path: ""

  # Service name used in the system keychain (keyring backend only)
  keyring_service: excesoluz

  # Encrypt stored values. The passphrase is read from EXCESOLUZ_PASSPHRASE
  # or asked for interactively.
  encrypt: false

# Wallpaper view/download events
analytics:
  enabled: false
  project_id: exceso-de-luz

  # Firebase web API key
  api_key: ""

  base_url: https://firestore.googleapis.com/v1
  collection: eventos_fondos
  timeout: 10s
  user_agent: excesoluz-cli/1.0

  # Events above this rate are dropped
  events_per_minute: 30

# Resource catalogue
catalog:
  path: catalogo.yaml

# Notifications after marking or unmarking a resource
notifications:
  enabled: true
  desktop: false
  duration: 3s

# Logging configuration
logging:
  # Log level: debug, info, warn, error, disabled
  level: warn

  # Log file path (optional)
  # Leave empty to log to stderr only
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = ".excesoluz.yaml"
	}

	out := cmd.OutOrStdout()
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintln(out, "\nTo overwrite, first remove the existing file:")
		fmt.Fprintf(out, "  rm %s\n", configPath)
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	// 0600: the file may carry the Firebase API key
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0600); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "1. Point catalog.path at your resource catalogue")
	fmt.Fprintln(out, "2. Run 'excesoluz config validate' to check the configuration")
	fmt.Fprintln(out, "3. Run 'excesoluz catalog sync' and then 'excesoluz browse'")
	return nil
}

// maskSecret keeps the first and last four characters of long secrets
func maskSecret(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) > 8:
		return s[:4] + "..." + s[len(s)-4:]
	default:
		return "***"
	}
}

// displayConfig returns a copy of c safe to print
func displayConfig(c *config.Config) config.Config {
	display := *c
	display.Analytics.APIKey = maskSecret(display.Analytics.APIKey)
	display.Storage.Passphrase = ""
	return display
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configFile, nil)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	display := displayConfig(loaded)
	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.Bold("Current Configuration"))
	fmt.Fprintln(out)
	fmt.Fprint(out, string(data))

	fmt.Fprintln(out, "\nConfiguration sources (in order of priority):")
	fmt.Fprintln(out, "1. Command line flags")
	fmt.Fprintln(out, "2. Environment variables (EXCESOLUZ_*)")
	if configFile != "" {
		fmt.Fprintf(out, "3. Configuration file: %s\n", configFile)
	} else {
		fmt.Fprintln(out, "3. Configuration file: (not specified)")
	}
	fmt.Fprintln(out, "4. Default values")
	return nil
}

// configCheck collects problems that Validate does not look for
func configCheck(c *config.Config) (warnings, problems []string) {
	if c.Analytics.Enabled && c.Analytics.APIKey == "" {
		warnings = append(warnings, "Analytics enabled without a Firebase API key")
	}
	if c.Storage.Encrypt && c.Storage.Passphrase == "" {
		warnings = append(warnings, "Encryption enabled; the passphrase will be asked for on every run")
	}
	if _, err := os.Stat(c.Catalog.Path); err != nil {
		warnings = append(warnings, fmt.Sprintf("Catalogue not found: %s", c.Catalog.Path))
	}

	if c.Storage.Directory != "" {
		if err := os.MkdirAll(c.Storage.Directory, 0755); err != nil {
			problems = append(problems, fmt.Sprintf("Cannot create data directory: %v", err))
		}
	}
	if c.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(c.Logging.File), 0755); err != nil {
			problems = append(problems, fmt.Sprintf("Cannot create log directory: %v", err))
		}
	}
	return warnings, problems
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		home := os.Getenv("HOME")
		for _, candidate := range []string{
			".excesoluz.yaml",
			".excesoluz.yml",
			filepath.Join(home, ".config", "excesoluz", "config.yaml"),
			filepath.Join(home, ".excesoluz.yaml"),
		} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return fmt.Errorf("no configuration file found, specify one with --config")
		}
	}

	ui.PrintInfo("Validating configuration", path)

	loaded, err := config.Load(path, nil)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	warnings, problems := configCheck(loaded)
	if len(problems) > 0 {
		ui.PrintError("Configuration has errors:")
		for _, p := range problems {
			fmt.Fprintf(out, "  - %s\n", p)
		}
		return fmt.Errorf("configuration has %d error(s)", len(problems))
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, w := range warnings {
			fmt.Fprintf(out, "  - %s\n", w)
		}
		fmt.Fprintln(out)
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Fprintln(out, "\nConfiguration summary:")
	fmt.Fprintf(out, "  Storage backend: %s\n", loaded.Storage.Backend)
	fmt.Fprintf(out, "  Encrypted: %t\n", loaded.Storage.Encrypt)
	fmt.Fprintf(out, "  Catalogue: %s\n", loaded.Catalog.Path)
	fmt.Fprintf(out, "  Analytics: %t\n", loaded.Analytics.Enabled)
	fmt.Fprintf(out, "  Log level: %s\n", loaded.Logging.Level)
	return nil
}
