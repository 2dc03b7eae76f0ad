// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuidv7 wraps google/uuid to generate time-ordered UUIDv7 values.
//
// They identify request traces and sync runs, so that sorting log lines or
// sync reports by id also sorts them by start time.
package uuidv7

import "github.com/google/uuid"

// New generates a new UUIDv7 string. If the clock-based generator fails it
// falls back to a random UUIDv4, which is still unique but not ordered.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
