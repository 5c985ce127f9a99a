package calendar

import (
	"testing"
	"time"
)

func TestNewScale(t *testing.T) {
	t.Parallel()

	t.Run("uses given year length", func(t *testing.T) {
		t.Parallel()
		s := NewScale(360)
		if got := s.YearDays(); got != 360 {
			t.Errorf("YearDays() = %v, want 360", got)
		}
	})

	t.Run("falls back to sidereal year for non-positive input", func(t *testing.T) {
		t.Parallel()
		for _, bad := range []float64{0, -1} {
			s := NewScale(bad)
			if got := s.YearDays(); got != SiderealYearDays {
				t.Errorf("NewScale(%v).YearDays() = %v, want %v", bad, got, SiderealYearDays)
			}
		}
	})
}

func TestAddYears(t *testing.T) {
	t.Parallel()
	base := time.Date(1976, 9, 6, 11, 20, 0, 0, time.UTC)

	t.Run("whole year", func(t *testing.T) {
		t.Parallel()
		s := NewScale(365)
		got := s.AddYears(base, 1)
		want := base.Add(365 * 24 * time.Hour)
		if !got.Equal(want) {
			t.Errorf("AddYears(1) = %v, want %v", got, want)
		}
	})

	t.Run("fractional year", func(t *testing.T) {
		t.Parallel()
		s := NewScale(360)
		got := s.AddYears(base, 0.5)
		want := base.Add(180 * 24 * time.Hour)
		if !got.Equal(want) {
			t.Errorf("AddYears(0.5) = %v, want %v", got, want)
		}
	})

	t.Run("zero years is identity", func(t *testing.T) {
		t.Parallel()
		s := NewScale(SiderealYearDays)
		if got := s.AddYears(base, 0); !got.Equal(base) {
			t.Errorf("AddYears(0) = %v, want %v", got, base)
		}
	})
}

func TestFormatParseRoundTrip(t *testing.T) {
	t.Parallel()
	in := time.Date(2001, 12, 31, 23, 59, 58, 0, time.UTC)
	s := Format(in)
	if s != "2001-12-31 23:59:58" {
		t.Fatalf("Format = %q", s)
	}
	out, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !out.Equal(in) {
		t.Errorf("round trip = %v, want %v", out, in)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	t.Parallel()
	for _, bad := range []string{"", "2001-12-31", "31/12/2001 10:00:00", "not a date"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", bad)
		}
	}
}
