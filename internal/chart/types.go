// Package chart loads birth-chart input files. A chart is a TOML document
// carrying person metadata, the birth instant, and the chart-derived dasha
// inputs (Vimsottari starting lord, Chara sign progression and durations)
// that an astronomical engine produced upstream. This package does no
// astronomy; it only validates shape and hands oracles to the builder.
package chart

import "time"

// Person holds identity metadata. It is passed through to artifacts
// unchanged and never interpreted.
type Person struct {
	Name   string `toml:"name" json:"name"`
	Gender string `toml:"gender" json:"gender,omitempty"`
}

// Birth holds the birth instant and the already-resolved place information.
type Birth struct {
	Datetime       string  `toml:"datetime" json:"datetime"`
	City           string  `toml:"city" json:"city_name,omitempty"`
	Country        string  `toml:"country" json:"country_name,omitempty"`
	Latitude       float64 `toml:"latitude" json:"latitude,omitempty"`
	Longitude      float64 `toml:"longitude" json:"longitude,omitempty"`
	TimezoneOffset float64 `toml:"timezone_offset" json:"timezone_offset,omitempty"`
	IANATimezone   string  `toml:"iana_timezone" json:"iana_timezone_name,omitempty"`
}

// Vimsottari carries the chart-specific entry point into the fixed lord
// cycle.
type Vimsottari struct {
	StartLord string `toml:"start_lord"`
}

// Chara carries the chart-specific sign progression and each sign's nominal
// duration in years, both computed upstream.
type Chara struct {
	Progression []string           `toml:"progression"`
	Years       map[string]float64 `toml:"years"`
}

// Chart is the fully parsed representation of one chart file.
type Chart struct {
	Person     Person     `toml:"person"`
	Birth      Birth      `toml:"birth"`
	Vimsottari Vimsottari `toml:"vimsottari"`
	Chara      Chara      `toml:"chara"`

	SourceFile string    `toml:"-"` // relative path for error context
	epoch      time.Time // parsed from Birth.Datetime during Load
}

// Epoch returns the birth instant.
func (c *Chart) Epoch() time.Time {
	return c.epoch
}
