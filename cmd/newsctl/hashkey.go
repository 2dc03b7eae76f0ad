// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/newsbridge/internal/platform/sec"
)

var hashKeyCmd = &cobra.Command{
	Use:   "hash-key [KEY]",
	Short: "Print the bcrypt hash to use as OPERATOR_KEY_HASH",
	Long: `Print the bcrypt hash of an operator key.

The key is read from the first argument, or from the first line of stdin so
that it stays out of the shell history.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := ""
		if len(args) == 1 {
			key = args[0]
		} else {
			scanner := bufio.NewScanner(cmd.InOrStdin())
			if scanner.Scan() {
				key = scanner.Text()
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read key: %w", err)
			}
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return errors.New("operator key must not be empty")
		}

		hash, err := sec.HashKey(key)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}
