package dasha

import "fmt"

// Subdivision selects how levels 2-4 derive child nominal durations from the
// parent's nominal duration.
type Subdivision int

const (
	// SubdivideWeighted gives each child weight(child)/total_span of the
	// parent's nominal duration.
	SubdivideWeighted Subdivision = iota
	// SubdivideEqual gives each child 1/branching of the parent's nominal
	// duration.
	SubdivideEqual
)

// Oracle supplies the chart-derived inputs the builder consumes: the ordered
// progression of units and each unit's nominal full-cycle duration in years.
// Implementations are pure lookups; the engine never mutates them.
type Oracle interface {
	Progression() []Unit
	NominalYears(u Unit) (float64, error)
}

// System is a partitioning policy: how many children each period has, how
// their durations derive from the parent, and how units are named. The two
// concrete instances are Vimsottari (weighted 9-way) and K.N. Rao Chara
// (equal 12-way). Progressions and durations live in the Oracle, so one
// System value serves every chart.
type System struct {
	Name           string
	Branching      int
	Subdivision    Subdivision
	TotalSpanYears float64 // weighted subdivision only: the normalizing span
	Names          NameTable
}

// VimsottariTotalYears is the full Vimsottari cycle: the sum of all nine
// lords' nominal periods.
const VimsottariTotalYears = 120

// vimsottariYears is the classical lord-to-years table.
var vimsottariYears = map[Unit]float64{
	Ketu:    7,
	Venus:   20,
	Sun:     6,
	Moon:    10,
	Mars:    7,
	Rahu:    18,
	Jupiter: 16,
	Saturn:  19,
	Mercury: 17,
}

// vimsottariOrder is the fixed successor sequence of lords.
var vimsottariOrder = []Unit{Ketu, Venus, Sun, Moon, Mars, Rahu, Jupiter, Saturn, Mercury}

// Vimsottari returns the weighted 9-way lord system.
func Vimsottari() System {
	return System{
		Name:           "Vimsottari Dasa",
		Branching:      9,
		Subdivision:    SubdivideWeighted,
		TotalSpanYears: VimsottariTotalYears,
		Names:          LordNames(),
	}
}

// KNRaoChara returns the equal 12-way sign system.
func KNRaoChara() System {
	return System{
		Name:        "K.N. Rao Chara Dasa",
		Branching:   12,
		Subdivision: SubdivideEqual,
		Names:       SignNames(),
	}
}

// TableOracle is an Oracle backed by a fixed progression and duration table.
type TableOracle struct {
	prog  []Unit
	years map[Unit]float64
}

// NewTableOracle builds an oracle from an explicit progression and per-unit
// nominal years.
func NewTableOracle(progression []Unit, years map[Unit]float64) *TableOracle {
	p := make([]Unit, len(progression))
	copy(p, progression)
	y := make(map[Unit]float64, len(years))
	for u, v := range years {
		y[u] = v
	}
	return &TableOracle{prog: p, years: y}
}

// Progression returns the ordered unit sequence.
func (o *TableOracle) Progression() []Unit {
	return o.prog
}

// NominalYears returns the unit's nominal full-cycle duration in years.
func (o *TableOracle) NominalYears(u Unit) (float64, error) {
	y, ok := o.years[u]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownUnit, int(u))
	}
	return y, nil
}

// VimsottariOracle returns the classical table rotated so the progression
// starts at the chart's starting lord.
func VimsottariOracle(startLord Unit) (*TableOracle, error) {
	at := -1
	for i, u := range vimsottariOrder {
		if u == startLord {
			at = i
			break
		}
	}
	if at < 0 {
		return nil, &OracleError{
			System: "Vimsottari Dasa",
			Unit:   LordNames().Full(startLord),
			Err:    ErrUnitNotInProgression,
		}
	}
	prog := make([]Unit, len(vimsottariOrder))
	for i := range vimsottariOrder {
		prog[i] = vimsottariOrder[(at+i)%len(vimsottariOrder)]
	}
	return NewTableOracle(prog, vimsottariYears), nil
}

// CharaOracle returns an oracle for a chart-specific 12-sign progression
// with externally supplied per-sign nominal years.
func CharaOracle(progression []Unit, years map[Unit]float64) (*TableOracle, error) {
	if len(progression) != 12 {
		return nil, fmt.Errorf("chara progression has %d signs, want 12", len(progression))
	}
	seen := make(map[Unit]bool, 12)
	for _, u := range progression {
		if seen[u] {
			return nil, fmt.Errorf("chara progression repeats %s", SignNames().Full(u))
		}
		seen[u] = true
	}
	return NewTableOracle(progression, years), nil
}
