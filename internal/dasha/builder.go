package dasha

import (
	"fmt"
	"time"

	"github.com/jatakam/dashatree/internal/calendar"
)

// FallbackYears substitutes for a non-positive nominal duration reported by
// the oracle. A zero-length period would stall the progression walk, so it
// is widened to one year and the walk continues.
const FallbackYears = 1.0

// extraCycles pads the progression-cycle cap so the final partial cycle is
// never cut off by the guard itself.
const extraCycles = 3

// Builder constructs period trees for one system/oracle pair. The zero value
// is not usable; populate all three fields.
type Builder struct {
	System System
	Oracle Oracle
	Scale  calendar.Scale
}

// Build partitions [epoch, epoch + horizonYears) into Level-1 periods by
// walking the oracle's progression cyclically, and subdivides each down to
// Level 4. The final Level-1 period is truncated at the horizon, not
// dropped. The returned nodes are not mutated afterwards.
func (b *Builder) Build(epoch time.Time, horizonYears float64) ([]*Period, error) {
	if horizonYears <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrNonPositiveHorizon, horizonYears)
	}
	prog := b.Oracle.Progression()
	if len(prog) == 0 {
		return nil, &OracleError{System: b.System.Name, Err: ErrEmptyProgression}
	}

	// With FallbackYears as the minimum plausible period length, the walk
	// cannot need more than horizonYears/FallbackYears full cycles.
	maxCycles := int(horizonYears/FallbackYears) + extraCycles

	var tree []*Period
	elapsed := 0.0
	cursor := epoch
	for cycle := 0; cycle < maxCycles && elapsed < horizonYears; cycle++ {
		for _, u := range prog {
			if elapsed >= horizonYears {
				break
			}
			full, err := b.Oracle.NominalYears(u)
			if err != nil {
				return nil, &OracleError{System: b.System.Name, Unit: b.System.Names.Full(u), Err: err}
			}
			if full <= 0 {
				full = FallbackYears
			}
			run := min(full, horizonYears-elapsed)
			if run <= 0 {
				break
			}
			node := &Period{
				Level:        LevelMaha,
				Unit:         u,
				Start:        cursor,
				End:          b.Scale.AddYears(cursor, run),
				NominalYears: full,
			}
			// Children derive from the nominal duration even when the run
			// was cut short by the horizon; only their end instants are
			// capped. See the conservation and capping tests.
			if err := b.subdivide(node); err != nil {
				return nil, err
			}
			tree = append(tree, node)
			elapsed += run
			cursor = node.End
		}
	}
	return tree, nil
}

// subdivide populates parent.Children and recurses down to Level 4. The
// child unit sequence starts at the parent's own unit within the top-level
// progression and wraps through Branching consecutive entries. A child whose
// start has reached the parent's end is omitted along with the rest of its
// siblings.
func (b *Builder) subdivide(parent *Period) error {
	if parent.Level >= LevelSookshma {
		return nil
	}
	prog := b.Oracle.Progression()
	anchor := -1
	for i, u := range prog {
		if u == parent.Unit {
			anchor = i
			break
		}
	}
	if anchor < 0 {
		return &OracleError{
			System: b.System.Name,
			Unit:   b.System.Names.Full(parent.Unit),
			Err:    ErrUnitNotInProgression,
		}
	}

	cursor := parent.Start
	for i := 0; i < b.System.Branching; i++ {
		if !cursor.Before(parent.End) {
			break
		}
		u := prog[(anchor+i)%len(prog)]

		var nominal float64
		switch b.System.Subdivision {
		case SubdivideWeighted:
			w, err := b.Oracle.NominalYears(u)
			if err != nil {
				return &OracleError{System: b.System.Name, Unit: b.System.Names.Full(u), Err: err}
			}
			nominal = w / b.System.TotalSpanYears * parent.NominalYears
		case SubdivideEqual:
			nominal = parent.NominalYears / float64(b.System.Branching)
		}

		end := b.Scale.AddYears(cursor, nominal)
		if end.After(parent.End) {
			end = parent.End
		}
		if !end.After(cursor) {
			// Degenerate interval: omit the node, keep walking.
			cursor = end
			continue
		}

		child := &Period{
			Level:        parent.Level + 1,
			Unit:         u,
			Start:        cursor,
			End:          end,
			NominalYears: nominal,
		}
		if err := b.subdivide(child); err != nil {
			return err
		}
		parent.Children = append(parent.Children, child)
		cursor = end
	}
	return nil
}
