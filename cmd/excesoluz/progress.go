package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"excesoluz/pkg/progress"
	"excesoluz/pkg/ui"
)

var (
	markTitle    string
	markCategory string
	clearYes     bool
)

var markCmd = &cobra.Command{
	Use:   "mark <id>",
	Short: "Mark a resource as completed",
	Long: `Mark a resource as completed and add it to the top of the history.

Title and category are taken from the catalogue when the id is listed
there; flags override them. Marking an already completed resource does
nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runMark,
}

var unmarkCmd = &cobra.Command{
	Use:   "unmark <id>",
	Short: "Remove a resource from the completed set",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnmark,
}

var statusCmd = &cobra.Command{
	Use:   "status <id>",
	Short: "Show whether a resource is completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show completion statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the completion history, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all progress",
	Long: `Delete every completion and the whole history.

You are asked to confirm first; this cannot be undone. Category totals
are kept.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	markCmd.Flags().StringVarP(&markTitle, "title", "t", "", "resource title")
	markCmd.Flags().StringVar(&markCategory, "category", "", "resource category (libros, devocionales, aplicaciones, musica, fondos)")
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "do not ask for confirmation")

	rootCmd.AddCommand(markCmd, unmarkCmd, statusCmd, statsCmd, historyCmd, clearCmd)
}

func runMark(cmd *cobra.Command, args []string) error {
	id := args[0]
	title, category := markTitle, markCategory

	if title == "" || category == "" {
		cat, err := loadCatalog(false)
		if err != nil {
			return err
		}
		if cat != nil {
			if r, ok := cat.Find(id); ok {
				if title == "" {
					title = r.Title
				}
				if category == "" {
					category = r.Category
				}
			}
		}
	}
	if title == "" {
		title = id
	}
	if category != "" && !progress.IsKnownCategory(category) {
		ui.PrintWarning("Unknown category, it will only count towards the total", category)
	}

	sess, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer sess.Close()

	changed, err := sess.store.MarkCompleted(id, title, category)
	if err != nil {
		return sess.failed(err)
	}
	if !changed {
		fmt.Fprintf(cmd.OutOrStdout(), "%s ya estaba completado\n", id)
	}
	return nil
}

func runUnmark(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer sess.Close()

	changed, err := sess.store.UnmarkCompleted(args[0])
	if err != nil {
		return sess.failed(err)
	}
	if !changed {
		fmt.Fprintf(cmd.OutOrStdout(), "%s no estaba completado\n", args[0])
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	id := args[0]
	out := cmd.OutOrStdout()
	completion, done := sess.store.Completed()[id]
	if !done {
		fmt.Fprintf(out, "%s %s: %s\n", ui.Checkbox(false), id, ui.CompletionLabel(false))
		return nil
	}

	fmt.Fprintf(out, "%s %s: %s\n", ui.Checkbox(true), id, ui.CompletionLabel(true))
	fmt.Fprintf(out, "  %s · %s\n", completion.Title, progress.FormatCategoryLabel(completion.Category))
	fmt.Fprintf(out, "  %s\n", progress.FormatHistoryDate(completion.Timestamp.Local()))
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	cat, err := loadCatalog(false)
	if err != nil {
		return err
	}
	totals, err := sess.totals(cat)
	if err != nil {
		return err
	}

	stats := sess.store.Statistics()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.RenderStatsCards(stats))
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.RenderChart(stats, totals))
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderHistory(sess.store.History(), progress.FormatCategoryLabel))
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer sess.Close()

	var confirmer progress.Confirmer = newPromptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
	if clearYes {
		confirmer = progress.ConfirmFunc(func(string) bool { return true })
	}

	cleared, err := sess.store.ClearAll(confirmer)
	if err != nil {
		return sess.failed(err)
	}
	if !cleared {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelado")
	}
	return nil
}
