// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package stats exposes the epidemiological statistics API.

Countries are addressed by their display name as listed by the upstream; the
special name "global" (any case) selects the worldwide timeline.
*/
package stats

// CountryRef is one entry of the upstream country list.
type CountryRef struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Calculated holds derived ratios. The upstream sends null when a ratio is undefined.
type Calculated struct {
	DeathRate                 *float64 `json:"death_rate"`
	RecoveryRate              *float64 `json:"recovery_rate"`
	RecoveredVsDeathRatio     *float64 `json:"recovered_vs_death_ratio"`
	CasesPerMillionPopulation *float64 `json:"cases_per_million_population"`
}

// LatestData is the most recent cumulative count.
type LatestData struct {
	Deaths     int        `json:"deaths"`
	Confirmed  int        `json:"confirmed"`
	Recovered  int        `json:"recovered"`
	Critical   int        `json:"critical"`
	Calculated Calculated `json:"calculated"`
}

// Today holds the counts reported so far today.
type Today struct {
	Deaths    int `json:"deaths"`
	Confirmed int `json:"confirmed"`
}

// TimelineDay is one day of a country or global timeline.
type TimelineDay struct {
	Date         string `json:"date"`
	UpdatedAt    string `json:"updated_at"`
	Deaths       int    `json:"deaths"`
	Confirmed    int    `json:"confirmed"`
	Active       int    `json:"active"`
	Recovered    int    `json:"recovered"`
	NewConfirmed int    `json:"new_confirmed"`
	NewRecovered int    `json:"new_recovered"`
	NewDeaths    int    `json:"new_deaths"`
	IsInProgress bool   `json:"is_in_progress"`
}

// CountryStats is the full statistics record of one country.
type CountryStats struct {
	Name       string        `json:"name"`
	Code       string        `json:"code"`
	Population int           `json:"population"`
	UpdatedAt  string        `json:"updated_at"`
	Today      Today         `json:"today"`
	LatestData LatestData    `json:"latest_data"`
	Timeline   []TimelineDay `json:"timeline"`
}
