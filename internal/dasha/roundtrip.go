package dasha

import (
	"fmt"

	"github.com/jatakam/dashatree/internal/calendar"
)

// VerifyRoundTrip checks that a parsed tree is isomorphic to the built tree
// it was serialized from: same name, level, start, and end for every node in
// the same relative position. Instants are compared at the serializer's
// one-second text resolution. A mismatch is a correctness bug in the
// serializer or parser, never swallowed.
func VerifyRoundTrip(sys System, built []*Period, parsed []*ParsedPeriod) error {
	return verifyLevel(sys, built, parsed, sys.Name)
}

func verifyLevel(sys System, built []*Period, parsed []*ParsedPeriod, path string) error {
	// The serializer omits empty-span nodes, so the parsed side is compared
	// against the emitted subset.
	var emitted []*Period
	for _, p := range built {
		if p.End.After(p.Start) {
			emitted = append(emitted, p)
		}
	}
	if len(emitted) != len(parsed) {
		return fmt.Errorf("%w: %s: %d built nodes vs %d parsed", ErrRoundTripMismatch, path, len(emitted), len(parsed))
	}
	for i, b := range emitted {
		p := parsed[i]
		at := fmt.Sprintf("%s > %s %s[%d]", path, sys.Names.Full(b.Unit), b.Level.Tag(), i)
		if int(b.Level) != p.Level {
			return fmt.Errorf("%w: %s: level %d vs %d", ErrRoundTripMismatch, at, b.Level, p.Level)
		}
		if want := sys.Names.Full(b.Unit); want != p.Name {
			return fmt.Errorf("%w: %s: name %q vs %q", ErrRoundTripMismatch, at, want, p.Name)
		}
		if want := calendar.Format(b.Start); !p.StartValid || want != calendar.Format(p.Start) {
			return fmt.Errorf("%w: %s: start %q vs %q", ErrRoundTripMismatch, at, want, p.StartText)
		}
		if want := calendar.Format(b.End); !p.EndValid || want != calendar.Format(p.End) {
			return fmt.Errorf("%w: %s: end %q vs %q", ErrRoundTripMismatch, at, want, p.EndText)
		}
		if err := verifyLevel(sys, b.Children, p.SubPeriods, at); err != nil {
			return err
		}
	}
	return nil
}

// StructureIssues reports violations of the tiling invariant in a parsed
// tree: children must be contiguous, increasing, and contained within their
// parent's span. Nodes with unparseable dates are skipped (they already
// carry a bad_date warning).
func (d *Document) StructureIssues() []string {
	var issues []string
	for _, md := range d.Dasas {
		issues = append(issues, tilingIssues(md)...)
	}
	return issues
}

func tilingIssues(p *ParsedPeriod) []string {
	var issues []string
	// Text timestamps carry one-second resolution, so a same-second span is
	// legitimate; only a reversed span is structural corruption.
	if p.StartValid && p.EndValid && p.End.Before(p.Start) {
		issues = append(issues, fmt.Sprintf("%s %s: reversed span %s - %s", p.Name, p.PeriodType, p.StartText, p.EndText))
	}
	var prev *ParsedPeriod
	for _, c := range p.SubPeriods {
		if c.StartValid && p.StartValid && c.Start.Before(p.Start) {
			issues = append(issues, fmt.Sprintf("%s %s: child %s starts before parent", p.Name, p.PeriodType, c.Name))
		}
		if c.EndValid && p.EndValid && c.End.After(p.End) {
			issues = append(issues, fmt.Sprintf("%s %s: child %s ends after parent", p.Name, p.PeriodType, c.Name))
		}
		if prev != nil && prev.EndValid && c.StartValid && !c.Start.Equal(prev.End) {
			issues = append(issues, fmt.Sprintf("%s %s: gap or overlap between %s and %s", p.Name, p.PeriodType, prev.Name, c.Name))
		}
		issues = append(issues, tilingIssues(c)...)
		prev = c
	}
	return issues
}
