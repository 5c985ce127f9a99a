// Package dasha implements the period-tree engine: the recursive
// duration-subdivision builder, the flat-text serializer, and the universal
// text parser. Periods form a strict 4-level tree (Mahadasha through
// Sookshma-antardasha); planetary positions, progressions, and nominal
// durations all arrive from outside through the Oracle interface.
package dasha

import "time"

// Unit identifies a lord (9 values) or a sign (12 values) within one period
// system. Units are opaque to the engine; naming and durations come from the
// system's name table and oracle.
type Unit int

// Lord units, in classical planet order.
const (
	Sun Unit = iota
	Moon
	Mars
	Mercury
	Jupiter
	Venus
	Saturn
	Rahu
	Ketu
)

// Sign units, in zodiacal order.
const (
	Aries Unit = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

// Level is the depth of a period in the tree, 1 through 4.
type Level int

const (
	LevelMaha     Level = 1 // Mahadasha (MD)
	LevelAntara   Level = 2 // Antardasha (AD)
	LevelPratyant Level = 3 // Pratyantardasha (PD)
	LevelSookshma Level = 4 // Sookshma-antardasha (SD)
)

var levelTags = map[Level]string{
	LevelMaha:     "MD",
	LevelAntara:   "AD",
	LevelPratyant: "PD",
	LevelSookshma: "SD",
}

var levelTypeNames = map[Level]string{
	LevelMaha:     "Mahadasha",
	LevelAntara:   "Antardasha",
	LevelPratyant: "Pratyantardasha",
	LevelSookshma: "Sookshma-antardasha",
}

// Tag returns the two-letter level tag used in detailed text lines.
func (l Level) Tag() string {
	return levelTags[l]
}

// TypeName returns the period type name used in the nested JSON artifact.
func (l Level) TypeName() string {
	return levelTypeNames[l]
}

// tagToLevel inverts Tag. Returns 0 for unknown tags.
func tagToLevel(tag string) Level {
	for l, t := range levelTags {
		if t == tag {
			return l
		}
	}
	return 0
}

// Period is one node of a built period tree. Children exactly tile
// [Start, End) in time order; only the last child may be shortened so the
// union never exceeds the parent's End. Nodes are immutable after Build.
type Period struct {
	Level        Level
	Unit         Unit
	Start        time.Time
	End          time.Time
	NominalYears float64 // idealized full-cycle length, before truncation
	Children     []*Period
}
