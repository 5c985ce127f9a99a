package dasha

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/jatakam/dashatree/internal/calendar"
)

var testEpoch = time.Date(1976, 9, 6, 11, 20, 0, 0, time.UTC)

// specWeights is a 9-unit weight table summing to 120 years, keyed by unit
// index in fixed cyclic order.
var specWeights = []float64{6, 10, 7, 18, 16, 19, 10, 18, 16}

// weightedFixture returns a weighted 9-way builder whose progression starts
// at the given unit index.
func weightedFixture(t *testing.T, start Unit) *Builder {
	t.Helper()
	prog := make([]Unit, 9)
	years := make(map[Unit]float64, 9)
	for i := range prog {
		prog[i] = Unit((int(start) + i) % 9)
	}
	for i, w := range specWeights {
		years[Unit(i)] = w
	}
	return &Builder{
		System: System{
			Name:           "Weighted Dasa",
			Branching:      9,
			Subdivision:    SubdivideWeighted,
			TotalSpanYears: 120,
			Names:          LordNames(),
		},
		Oracle: NewTableOracle(prog, years),
		Scale:  calendar.NewScale(calendar.SiderealYearDays),
	}
}

// equalFixture returns an equal 12-way builder with a chart-specific sign
// progression beginning 7, 0, 9 and 12 nominal years for sign 7.
func equalFixture(t *testing.T) *Builder {
	t.Helper()
	prog := []Unit{7, 0, 9, 1, 2, 3, 4, 5, 6, 8, 10, 11}
	years := map[Unit]float64{
		7: 12, 0: 5, 9: 3, 1: 7, 2: 9, 3: 1,
		4: 11, 5: 2, 6: 6, 8: 4, 10: 8, 11: 10,
	}
	oracle, err := CharaOracle(prog, years)
	if err != nil {
		t.Fatalf("CharaOracle: %v", err)
	}
	return &Builder{
		System: KNRaoChara(),
		Oracle: oracle,
		Scale:  calendar.NewScale(calendar.SiderealYearDays),
	}
}

// checkTiling asserts the children of every node tile [Start, End) with no
// gaps, no overlaps, and no spill past the parent's end.
func checkTiling(t *testing.T, nodes []*Period) {
	t.Helper()
	for _, p := range nodes {
		if !p.End.After(p.Start) {
			t.Errorf("%s level %d: empty span %v - %v", p.Level.Tag(), p.Level, p.Start, p.End)
		}
		for i, c := range p.Children {
			if i == 0 && !c.Start.Equal(p.Start) {
				t.Errorf("first child of %v starts at %v, want parent start %v", p.Unit, c.Start, p.Start)
			}
			if i > 0 && !c.Start.Equal(p.Children[i-1].End) {
				t.Errorf("child %d of %v starts at %v, want previous end %v", i, p.Unit, c.Start, p.Children[i-1].End)
			}
			if c.End.After(p.End) {
				t.Errorf("child %d of %v ends at %v, past parent end %v", i, p.Unit, c.End, p.End)
			}
		}
		checkTiling(t, p.Children)
	}
}

func TestBuildWeightedScenario(t *testing.T) {
	t.Parallel()
	b := weightedFixture(t, 3)

	tree, err := b.Build(testEpoch, 5)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(tree) != 1 {
		t.Fatalf("got %d Level-1 periods, want 1", len(tree))
	}
	md := tree[0]
	if md.Unit != 3 {
		t.Errorf("first MD unit = %d, want 3", md.Unit)
	}
	if md.NominalYears != 18 {
		t.Errorf("first MD nominal = %v, want 18", md.NominalYears)
	}
	// run = min(18, 5) years.
	wantEnd := b.Scale.AddYears(testEpoch, 5)
	if !md.End.Equal(wantEnd) {
		t.Errorf("first MD end = %v, want %v", md.End, wantEnd)
	}
	// Children in the capped tree all start before the cap.
	for _, ad := range md.Children {
		if !ad.Start.Before(md.End) {
			t.Errorf("AD for unit %d starts at %v, at or past MD end %v", ad.Unit, ad.Start, md.End)
		}
	}
	checkTiling(t, tree)
}

func TestBuildWeightedNominalConservation(t *testing.T) {
	t.Parallel()
	b := weightedFixture(t, 3)

	// Uncapped horizon: the full 18-year MD carries all 9 ADs.
	tree, err := b.Build(testEpoch, 120)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	md := tree[0]
	if len(md.Children) != 9 {
		t.Fatalf("got %d ADs, want 9", len(md.Children))
	}
	sum := 0.0
	for _, ad := range md.Children {
		sum += ad.NominalYears
	}
	if math.Abs(sum-md.NominalYears) > 1e-9 {
		t.Errorf("AD nominal sum = %v, want MD nominal %v", sum, md.NominalYears)
	}

	// The same conservation holds one level down.
	ad := md.Children[0]
	sum = 0.0
	for _, pd := range ad.Children {
		sum += pd.NominalYears
	}
	if math.Abs(sum-ad.NominalYears) > 1e-9 {
		t.Errorf("PD nominal sum = %v, want AD nominal %v", sum, ad.NominalYears)
	}
}

func TestBuildWeightedChildrenDeriveFromNominal(t *testing.T) {
	t.Parallel()
	b := weightedFixture(t, 3)

	// Horizon caps the 18-year MD at 5 years. Child durations still derive
	// from the nominal 18, so the first AD spans 18/120*18 years even
	// though only part of the MD run survives.
	tree, err := b.Build(testEpoch, 5)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	md := tree[0]
	if len(md.Children) == 0 {
		t.Fatal("capped MD has no ADs")
	}
	wantFirst := specWeights[3] / 120 * 18
	if got := md.Children[0].NominalYears; math.Abs(got-wantFirst) > 1e-9 {
		t.Errorf("first AD nominal = %v, want %v", got, wantFirst)
	}
	if len(md.Children) >= 9 {
		t.Errorf("capped MD has %d ADs, want fewer than 9", len(md.Children))
	}
}

func TestBuildEqualScenario(t *testing.T) {
	t.Parallel()
	b := equalFixture(t)

	tree, err := b.Build(testEpoch, 96)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	md := tree[0]
	if md.Unit != 7 {
		t.Fatalf("first MD unit = %d, want 7", md.Unit)
	}
	if md.NominalYears != 12 {
		t.Fatalf("first MD nominal = %v, want 12", md.NominalYears)
	}
	if len(md.Children) != 12 {
		t.Fatalf("got %d ADs, want 12", len(md.Children))
	}
	for i, ad := range md.Children {
		if math.Abs(ad.NominalYears-1.0) > 1e-9 {
			t.Errorf("AD %d nominal = %v, want 1.0", i, ad.NominalYears)
		}
	}
	pd := md.Children[0]
	if len(pd.Children) != 12 {
		t.Fatalf("first AD has %d PDs, want 12", len(pd.Children))
	}
	for i, c := range pd.Children {
		if math.Abs(c.NominalYears-1.0/12) > 1e-9 {
			t.Errorf("PD %d nominal = %v, want 1/12", i, c.NominalYears)
		}
	}
	checkTiling(t, tree)
}

func TestBuildHorizonBound(t *testing.T) {
	t.Parallel()
	for _, horizon := range []float64{1, 10, 80, 96, 120} {
		t.Run(fmt.Sprintf("%v years", horizon), func(t *testing.T) {
			t.Parallel()
			b := weightedFixture(t, 0)
			tree, err := b.Build(testEpoch, horizon)
			if err != nil {
				t.Fatalf("Build(horizon=%v): %v", horizon, err)
			}
			if len(tree) == 0 {
				t.Fatalf("Build(horizon=%v): empty tree", horizon)
			}
			// The final MD is truncated at the horizon, not dropped.
			want := b.Scale.AddYears(testEpoch, horizon)
			got := tree[len(tree)-1].End
			if d := got.Sub(want); d < -time.Second || d > time.Second {
				t.Errorf("horizon %v: last MD ends %v, want %v", horizon, got, want)
			}
			checkTiling(t, tree)
		})
	}
}

func TestBuildCardinality(t *testing.T) {
	t.Parallel()

	t.Run("weighted", func(t *testing.T) {
		t.Parallel()
		tree, err := weightedFixture(t, 0).Build(testEpoch, 120)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		assertMaxChildren(t, tree, 9)
	})

	t.Run("equal", func(t *testing.T) {
		t.Parallel()
		tree, err := equalFixture(t).Build(testEpoch, 96)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		assertMaxChildren(t, tree, 12)
	})
}

func assertMaxChildren(t *testing.T, nodes []*Period, branching int) {
	t.Helper()
	for _, p := range nodes {
		if len(p.Children) > branching {
			t.Errorf("%v %s has %d children, max %d", p.Unit, p.Level.Tag(), len(p.Children), branching)
		}
		if p.Level < LevelSookshma && len(p.Children) < branching && lastEnd(p).Before(p.End) {
			t.Errorf("%v %s has short child count but children stop before parent end", p.Unit, p.Level.Tag())
		}
		assertMaxChildren(t, p.Children, branching)
	}
}

func lastEnd(p *Period) time.Time {
	if len(p.Children) == 0 {
		return p.Start
	}
	return p.Children[len(p.Children)-1].End
}

func TestBuildZeroDurationFallback(t *testing.T) {
	t.Parallel()
	prog := []Unit{0, 1, 2}
	years := map[Unit]float64{0: 0, 1: 2, 2: 3}
	b := &Builder{
		System: System{Name: "Weighted Dasa", Branching: 3, Subdivision: SubdivideEqual, Names: LordNames()},
		Oracle: NewTableOracle(prog, years),
		Scale:  calendar.NewScale(calendar.SiderealYearDays),
	}
	tree, err := b.Build(testEpoch, 6)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tree[0].NominalYears != FallbackYears {
		t.Errorf("zero-duration unit got nominal %v, want fallback %v", tree[0].NominalYears, FallbackYears)
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	t.Run("non-positive horizon", func(t *testing.T) {
		t.Parallel()
		b := weightedFixture(t, 0)
		if _, err := b.Build(testEpoch, 0); !errors.Is(err, ErrNonPositiveHorizon) {
			t.Errorf("Build(horizon=0) err = %v, want ErrNonPositiveHorizon", err)
		}
	})

	t.Run("empty progression", func(t *testing.T) {
		t.Parallel()
		b := &Builder{
			System: Vimsottari(),
			Oracle: NewTableOracle(nil, nil),
			Scale:  calendar.NewScale(calendar.SiderealYearDays),
		}
		if _, err := b.Build(testEpoch, 10); !errors.Is(err, ErrEmptyProgression) {
			t.Errorf("err = %v, want ErrEmptyProgression", err)
		}
	})

	t.Run("missing unit duration names the unit", func(t *testing.T) {
		t.Parallel()
		b := &Builder{
			System: Vimsottari(),
			Oracle: NewTableOracle([]Unit{Sun, Moon}, map[Unit]float64{Sun: 6}),
			Scale:  calendar.NewScale(calendar.SiderealYearDays),
		}
		_, err := b.Build(testEpoch, 10)
		if !errors.Is(err, ErrUnknownUnit) {
			t.Fatalf("err = %v, want ErrUnknownUnit", err)
		}
		var oe *OracleError
		if !errors.As(err, &oe) {
			t.Fatalf("err %T is not *OracleError", err)
		}
		if oe.Unit != "Moon" {
			t.Errorf("OracleError.Unit = %q, want %q", oe.Unit, "Moon")
		}
	})
}

func TestBuildCycleCount(t *testing.T) {
	t.Parallel()
	// 3 units of 2 years each: a 12-year horizon needs exactly two full
	// cycles of the progression.
	prog := []Unit{0, 1, 2}
	years := map[Unit]float64{0: 2, 1: 2, 2: 2}
	b := &Builder{
		System: System{Name: "Weighted Dasa", Branching: 3, Subdivision: SubdivideEqual, Names: LordNames()},
		Oracle: NewTableOracle(prog, years),
		Scale:  calendar.NewScale(calendar.SiderealYearDays),
	}
	tree, err := b.Build(testEpoch, 12)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(tree) != 6 {
		t.Fatalf("got %d MDs, want 6", len(tree))
	}
	wantUnits := []Unit{0, 1, 2, 0, 1, 2}
	for i, md := range tree {
		if md.Unit != wantUnits[i] {
			t.Errorf("MD %d unit = %d, want %d", i, md.Unit, wantUnits[i])
		}
	}
}
