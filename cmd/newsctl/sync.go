// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/taibuivan/newsbridge/internal/app"
	"github.com/taibuivan/newsbridge/internal/core/reference"
)

var flagPrune bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the reference store",
}

var syncSourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Fetch the upstream source listing and upsert it by id",
	Long: `Fetch every source from the news API and upsert it into the reference store.

Running it twice leaves the store unchanged. With --prune, sources that are no
longer listed upstream are deleted; an empty upstream listing never prunes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, application *app.App) error {
			report, err := application.Reference.SyncSources(ctx, flagPrune)
			if report != nil {
				printReport(cmd.OutOrStdout(), report)
			}
			return err
		})
	},
}

var syncTaxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Write the bundled categories, languages, countries and sort methods",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, application *app.App) error {
			report, err := application.Reference.SyncTaxonomy(ctx)
			if report != nil {
				printReport(cmd.OutOrStdout(), report)
			}
			return err
		})
	},
}

var purgeCmd = &cobra.Command{
	Use:       "purge COLLECTION",
	Short:     "Delete every entry of one reference collection",
	Long:      "Delete every entry of one reference collection. The next read re-seeds it.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: collectionNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, application *app.App) error {
			deleted, err := application.Reference.Purge(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged %d %s.\n", deleted, args[0])
			return nil
		})
	},
}

func init() {
	syncSourcesCmd.Flags().BoolVar(&flagPrune, "prune", false, "delete sources no longer listed upstream")

	syncCmd.AddCommand(syncSourcesCmd)
	syncCmd.AddCommand(syncTaxonomyCmd)
}

func collectionNames() []string {
	names := []string{string(reference.CollectionSources)}
	for _, collection := range reference.TaxonomyCollections {
		names = append(names, string(collection))
	}
	return names
}

func printReport(writer io.Writer, report *reference.SyncReport) {
	fmt.Fprintf(writer, "Run %s (%s) finished in %s\n", report.RunID, report.Collection, report.Duration)
	fmt.Fprintf(writer, "  fetched:   %d\n", report.Fetched)
	fmt.Fprintf(writer, "  upserted:  %d\n", report.Upserted)
	fmt.Fprintf(writer, "  unchanged: %d\n", report.Unchanged)
	fmt.Fprintf(writer, "  pruned:    %d\n", report.Pruned)

	if len(report.Failed) > 0 {
		fmt.Fprintf(writer, "  failed:    %d\n", len(report.Failed))
		for _, failure := range report.Failed {
			fmt.Fprintf(writer, "    %s: %s\n", failure.ID, failure.Error)
		}
	}
}
