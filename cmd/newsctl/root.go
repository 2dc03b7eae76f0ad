// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/newsbridge/internal/app"
	"github.com/taibuivan/newsbridge/internal/platform/apperr"
	"github.com/taibuivan/newsbridge/internal/platform/config"
	"github.com/taibuivan/newsbridge/internal/platform/constants"
)

var (
	flagVerbose bool
	flagTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "newsctl",
	Short:         "Operate the newsbridge reference store and query the upstream APIs",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log debug events to stderr")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 2*time.Minute, "deadline for the whole command")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(headlinesCmd)
	rootCmd.AddCommand(everythingCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(hashKeyCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", constants.AppName, constants.AppVersion)
	},
}

// newLogger writes text logs to stderr so stdout stays machine-readable.
func newLogger(writer io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
}

// withApp loads the configuration, wires the application and runs fn under
// the command deadline.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, application *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
	defer cancel()

	logger := newLogger(cmd.ErrOrStderr())
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("wire application: %w", err)
	}
	defer func() {
		if cerr := application.Close(); cerr != nil {
			logger.Warn("close_failed", slog.Any("error", cerr))
		}
	}()

	return describe(fn(ctx, application))
}

// describe appends the error code and one line per offending field.
func describe(err error) error {
	appErr := apperr.As(err)
	if appErr == nil {
		return err
	}

	var fields strings.Builder
	for _, detail := range appErr.Details {
		fmt.Fprintf(&fields, "\n  %s: %s", detail.Field, detail.Message)
	}
	return fmt.Errorf("%w (%s)%s", err, appErr.Code, fields.String())
}

// printJSON writes value as indented JSON.
func printJSON(writer io.Writer, value any) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
