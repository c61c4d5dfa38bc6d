package main

import (
	"github.com/spf13/cobra"

	"excesoluz/pkg/analytics"
	"excesoluz/pkg/ui/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalogue interactively",
	Long: `Open the interactive resource browser.

Keys:
  ↑/↓, j/k   move
  space, x   toggle completion
  enter, d   record a wallpaper view / download
  tab        switch between resources and progress
  C          delete all progress
  ?          help
  q          quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog(true)
	if err != nil {
		return err
	}

	// The browser draws its own toasts
	sess, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	totals, err := sess.totals(cat)
	if err != nil {
		return err
	}

	opts := []tui.Option{
		tui.WithContext(cmd.Context()),
		tui.WithToastDuration(cfg.Notifications.Duration),
	}
	if cfg.Analytics.Enabled {
		opts = append(opts, tui.WithRecorder(analytics.NewRecorder(cfg.Analytics)))
	}

	return tui.NewTUI(sess.store, cat, totals, opts...).Start()
}
