package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"excesoluz/pkg/progress"
)

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Manage the cached number of resources per category",
	Long: `Manage the cached number of resources per category.

The totals are the denominators of the progress chart. They are normally
written by 'excesoluz catalog sync' but can be set by hand.`,
}

var countsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the category totals",
	Args:  cobra.NoArgs,
	RunE:  runCountsList,
}

var countsSetCmd = &cobra.Command{
	Use:   "set <category> <n>",
	Short: "Set the total for one category",
	Args:  cobra.ExactArgs(2),
	RunE:  runCountsSet,
}

func init() {
	rootCmd.AddCommand(countsCmd)
	countsCmd.AddCommand(countsListCmd)
	countsCmd.AddCommand(countsSetCmd)
}

// orderedCategories lists the fixed categories first, then the rest by name
func orderedCategories(m map[string]int) []string {
	out := append([]string(nil), progress.Categories...)
	var extra []string
	for category := range m {
		if !progress.IsKnownCategory(category) {
			extra = append(extra, category)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func runCountsList(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	totals, err := sess.counts.All()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, category := range orderedCategories(totals) {
		fmt.Fprintf(out, "%-14s %d\n", category, totals[category])
	}
	return nil
}

func runCountsSet(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid count %q: %w", args[1], err)
	}

	sess, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.counts.Set(args[0], n); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", args[0], n)
	return nil
}
