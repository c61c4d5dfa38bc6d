package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"excesoluz/pkg/analytics"
	"excesoluz/pkg/ui"
)

var eventCmd = &cobra.Command{
	Use:   "event <view|download> <fondoId>",
	Short: "Record a wallpaper view or download",
	Long: `Record a wallpaper view or download in the analytics collection.

Analytics must be enabled in the configuration. Failures are reported but
never retried and never change the exit status.`,
	Args: cobra.ExactArgs(2),
	RunE: runEvent,
}

func init() {
	rootCmd.AddCommand(eventCmd)
}

func runEvent(cmd *cobra.Command, args []string) error {
	kind, ok := analytics.ParseEventKind(args[0])
	if !ok {
		return fmt.Errorf("unknown event %q (expected view or download)", args[0])
	}
	wallpaperID := args[1]

	recorder := analytics.NewRecorder(cfg.Analytics)
	if !recorder.Enabled() {
		ui.PrintWarning("Analytics are disabled, event not recorded")
		return nil
	}

	notifier := ui.NewNotifier(cfg.Notifications, ui.WithOutput(cmd.OutOrStdout()))
	detail := fmt.Sprintf("%s %s", kind, wallpaperID)
	if recorder.RecordEvent(cmd.Context(), kind, wallpaperID) {
		notifier.SendNotification("Evento registrado", detail)
	} else {
		notifier.SendError("Evento no registrado", detail)
	}
	return nil
}
