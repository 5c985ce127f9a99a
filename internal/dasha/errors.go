package dasha

import "errors"

// Sentinel errors for tree construction and round-trip verification.
var (
	// ErrEmptyProgression indicates the oracle supplied no progression at all.
	ErrEmptyProgression = errors.New("oracle returned empty progression")
	// ErrNonPositiveHorizon indicates Build was called with horizon_years <= 0.
	ErrNonPositiveHorizon = errors.New("horizon must be positive")
	// ErrUnknownUnit indicates the oracle has no nominal duration for a unit.
	ErrUnknownUnit = errors.New("unit not known to oracle")
	// ErrUnitNotInProgression indicates a unit needed as a child-sequence
	// anchor is missing from the progression. Silently skipping it would
	// truncate an entire branch, so it is always an error.
	ErrUnitNotInProgression = errors.New("unit missing from progression")
	// ErrRoundTripMismatch indicates a parsed tree differs structurally from
	// the tree it was serialized from.
	ErrRoundTripMismatch = errors.New("parsed tree does not match built tree")
)

// OracleError records an oracle failure with system and unit context.
type OracleError struct {
	System string
	Unit   string // full unit name, empty if the failure is not unit-scoped
	Err    error
}

// Error renders the system, unit, and underlying cause.
func (e *OracleError) Error() string {
	if e.Unit != "" {
		return e.System + ": unit " + e.Unit + ": " + e.Err.Error()
	}
	return e.System + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *OracleError) Unwrap() error {
	return e.Err
}
