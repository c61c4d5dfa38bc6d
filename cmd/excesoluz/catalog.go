package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"excesoluz/pkg/progress"
	"excesoluz/pkg/ui"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the resource catalogue",
}

var catalogListCmd = &cobra.Command{
	Use:   "list [category]",
	Short: "List resources with their completion state",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalogList,
}

var catalogSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Store the catalogue sizes as category totals",
	Args:  cobra.NoArgs,
	RunE:  runCatalogSync,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogSyncCmd)
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog(true)
	if err != nil {
		return err
	}

	sess, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	categories := cat.Categories()
	if len(args) == 1 {
		categories = []string{args[0]}
	}

	out := cmd.OutOrStdout()
	for _, category := range categories {
		resources := cat.Resources(category)
		if len(resources) == 0 {
			fmt.Fprintf(out, "%s: sin recursos\n", category)
			continue
		}
		fmt.Fprintln(out, ui.Bold(progress.FormatCategoryLabel(category)))
		for _, r := range resources {
			fmt.Fprintln(out, ui.RenderResource(r, sess.store.IsCompleted(r.ID)))
		}
		fmt.Fprintln(out)
	}
	return nil
}

func runCatalogSync(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog(true)
	if err != nil {
		return err
	}

	sess, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := cat.Sync(sess.counts); err != nil {
		return err
	}

	totals := cat.Totals()
	out := cmd.OutOrStdout()
	for _, category := range orderedCategories(totals) {
		if n, ok := totals[category]; ok {
			fmt.Fprintf(out, "%-14s %d\n", category, n)
		}
	}
	return nil
}
