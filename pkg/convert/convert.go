// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides quick type-conversion utilities.

It wraps standards like [strconv] and [time] for query-parameter parsing.
Conversions report a comma-ok result instead of an error, except [ToBool],
which treats malformed input as false.
*/
package convert

import (
	"strconv"
	"strings"
	"time"
)

// ISODate is the calendar date layout used on the wire.
const ISODate = "2006-01-02"

// dateLayouts are the accepted spellings of a human-entered date.
var dateLayouts = []string{
	"January 2 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	ISODate,
}

// ToInt parses a whole number, reporting false on empty or malformed input.
func ToInt(str string) (int, bool) {
	value, err := strconv.Atoi(strings.TrimSpace(str))
	if err != nil {
		return 0, false
	}
	return value, true
}

// ToBool parses a boolean string ("true", "1", "false", "0").
// It returns false on empty string or parse error.
func ToBool(s string) bool {

	// If the string is empty, return false
	if s == "" {
		return false
	}

	// Try to parse the string as a boolean
	v, _ := strconv.ParseBool(s)
	return v
}

// ToDate parses a human-entered calendar date such as "January 2 2006".
// Month names are matched case-insensitively. It returns false when no layout matches.
func ToDate(s string) (time.Time, bool) {

	// Collapse inner whitespace so "January  2 2006" still parses
	s = strings.Join(strings.Fields(s), " ")

	// Try every accepted layout in turn
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}
