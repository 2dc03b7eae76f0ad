// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command newsctl is the operator CLI for newsbridge.
//
// It shares the composition root with the API server, so every command runs
// the same validation and reaches the same reference store and upstreams.
//
// # Usage
//
//	newsctl sync sources --prune
//	newsctl resolve country "United States"
//	newsctl headlines --country Canada --category Technology
//	newsctl everything --query golang --from "October 1 2026"
//	newsctl stats timeline global --date "August 29 2020"
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
