package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"excesoluz/pkg/config"
	"excesoluz/pkg/logger"
	"excesoluz/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile    string
	logLevel      string
	noColor       bool
	quiet         bool
	storageFlag   string
	dataDir       string
	encrypt       bool
	catalogPath   string
	notifications bool

	// Loaded by PersistentPreRunE
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "excesoluz",
	Short: "Track your progress through the Exceso de Luz resources",
	Long: `excesoluz keeps track of the books, devotionals, apps, songs and
wallpapers you have completed.

Progress is stored locally (file, SQLite or the system keychain, optionally
encrypted) in the same layout the website keeps in the browser, so the
history and statistics match what the site shows.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			ui.SetColor(false)
		}

		flags := map[string]interface{}{
			"storage":  storageFlag,
			"data-dir": dataDir,
			"encrypt":  encrypt,
			"catalog":  catalogPath,
		}
		if cmd.Flags().Changed("notifications") {
			flags["notifications"] = notifications
		}
		if quiet {
			flags["notifications"] = false
			flags["log-level"] = "error"
		}
		if cmd.Flags().Changed("log-level") {
			flags["log-level"] = logLevel
		}

		loaded, err := config.Load(configFile, flags)
		if err != nil {
			return err
		}
		cfg = loaded

		if err := logger.Initialize(&cfg.Logging); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.WithField("command", cmd.CommandPath()).Debug("Command starting")
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.excesoluz.yaml or $HOME/.excesoluz.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress notifications and non-error logs")
	rootCmd.PersistentFlags().StringVar(&storageFlag, "storage", "", "storage backend (file, sqlite, keyring, memory)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for stored progress")
	rootCmd.PersistentFlags().BoolVar(&encrypt, "encrypt", false, "encrypt stored progress with a passphrase")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "path to the resource catalogue")
	rootCmd.PersistentFlags().BoolVar(&notifications, "notifications", true, "show notifications after changes")

	rootCmd.SetVersionTemplate(`excesoluz {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
