package dasha

import "fmt"

var lordShort = []string{"Su", "Mo", "Ma", "Me", "Ju", "Ve", "Sa", "Ra", "Ke"}
var lordFull = []string{"Sun", "Moon", "Mars", "Mercury", "Jupiter", "Venus", "Saturn", "Rahu", "Ketu"}

var signShort = []string{"Ar", "Ta", "Ge", "Cn", "Le", "Vi", "Li", "Sc", "Sg", "Cp", "Aq", "Pi"}
var signFull = []string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// NameTable maps the units of one period system to their short codes and
// canonical full names.
type NameTable struct {
	short []string
	full  []string
}

// LordNames returns the name table for the 9 lords.
func LordNames() NameTable {
	return NameTable{short: lordShort, full: lordFull}
}

// SignNames returns the name table for the 12 signs.
func SignNames() NameTable {
	return NameTable{short: signShort, full: signFull}
}

// Short returns the unit's short code, or a numeric placeholder for units
// outside the table.
func (n NameTable) Short(u Unit) string {
	if u < 0 || int(u) >= len(n.short) {
		return fmt.Sprintf("U%d", int(u))
	}
	return n.short[u]
}

// Full returns the unit's canonical full name, or a numeric placeholder for
// units outside the table.
func (n NameTable) Full(u Unit) string {
	if u < 0 || int(u) >= len(n.full) {
		return fmt.Sprintf("Unit %d", int(u))
	}
	return n.full[u]
}

// Len returns the number of units in the table.
func (n NameTable) Len() int {
	return len(n.short)
}

// ByShort resolves a short code to its unit.
func (n NameTable) ByShort(code string) (Unit, bool) {
	for i, s := range n.short {
		if s == code {
			return Unit(i), true
		}
	}
	return 0, false
}

// expandNames is the static short-to-full lookup used by the parser. It
// covers both lord and sign codes plus the longer aliases the original text
// sources sometimes carry. Unknown codes pass through unexpanded.
var expandNames = map[string]string{
	"Ar": "Aries", "Ta": "Taurus", "Ge": "Gemini", "Cn": "Cancer",
	"Le": "Leo", "Vi": "Virgo", "Li": "Libra", "Sc": "Scorpio",
	"Sg": "Sagittarius", "Cp": "Capricorn", "Aq": "Aquarius", "Pi": "Pisces",
	"Su": "Sun", "Mo": "Moon", "Ma": "Mars", "Me": "Mercury",
	"Ju": "Jupiter", "Ve": "Venus", "Sa": "Saturn", "Ra": "Rahu", "Ke": "Ketu",
	"Sun": "Sun", "Moon": "Moon", "Mars": "Mars",
	"Merc": "Mercury", "Mer": "Mercury",
	"Jup": "Jupiter", "Ven": "Venus", "Sat": "Saturn",
	"Rah": "Rahu", "Ket": "Ketu",
}

// ExpandName maps a short unit code to its canonical full name. Codes not in
// the table are returned unchanged.
func ExpandName(short string) string {
	if full, ok := expandNames[short]; ok {
		return full
	}
	return short
}
