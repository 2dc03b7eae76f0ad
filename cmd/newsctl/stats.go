// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/taibuivan/newsbridge/internal/app"
)

var flagDate string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Query the statistics API",
}

var statsCountryCmd = &cobra.Command{
	Use:   "country NAME",
	Short: "Print the latest statistics of a country",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, application *app.App) error {
			record, err := application.Stats.CountryStats(ctx, args[0])
			if err != nil {
				return err
			}
			record.Timeline = nil
			return printJSON(cmd.OutOrStdout(), record)
		})
	},
}

var statsTimelineCmd = &cobra.Command{
	Use:   "timeline NAME",
	Short: `Print the daily timeline of a country, or of the world with "global"`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, application *app.App) error {
			if flagDate != "" {
				day, err := application.Stats.QueryDate(ctx, args[0], flagDate)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), day)
			}

			timeline, err := application.Stats.Timeline(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), timeline)
		})
	},
}

func init() {
	statsTimelineCmd.Flags().StringVar(&flagDate, "date", "", `single day, e.g. "August 29 2020"`)

	statsCmd.AddCommand(statsCountryCmd)
	statsCmd.AddCommand(statsTimelineCmd)
}
