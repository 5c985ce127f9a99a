package chart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/jatakam/dashatree/internal/calendar"
	"github.com/jatakam/dashatree/internal/dasha"
)

// Sentinel errors for chart validation.
var (
	// ErrNoCharts indicates the charts directory contains no *.toml files.
	ErrNoCharts = errors.New("no chart files found")
	// ErrMissingName indicates the person name is empty.
	ErrMissingName = errors.New("person name missing")
	// ErrMissingBirth indicates the birth datetime is empty or unparseable.
	ErrMissingBirth = errors.New("birth datetime missing or invalid")
	// ErrUnknownCode indicates a short code that is not a known lord or sign.
	ErrUnknownCode = errors.New("unknown unit code")
)

// Load reads and validates a single chart file.
func Load(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chart: %w", err)
	}

	var c Chart
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	c.SourceFile = filepath.Base(path)

	if strings.TrimSpace(c.Person.Name) == "" {
		return nil, fmt.Errorf("%s: %w", c.SourceFile, ErrMissingName)
	}
	c.epoch, err = calendar.Parse(c.Birth.Datetime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %q", c.SourceFile, ErrMissingBirth, c.Birth.Datetime)
	}
	return &c, nil
}

// LoadDir loads every *.toml chart in dir, sorted by filename.
func LoadDir(dir string) ([]*Chart, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading charts directory: %w", err)
	}

	var charts []*Chart
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		c, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		charts = append(charts, c)
	}
	if len(charts) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoCharts, dir)
	}
	sort.Slice(charts, func(i, j int) bool { return charts[i].SourceFile < charts[j].SourceFile })
	return charts, nil
}

// HasVimsottari reports whether the chart carries Vimsottari inputs.
func (c *Chart) HasVimsottari() bool {
	return c.Vimsottari.StartLord != ""
}

// HasChara reports whether the chart carries Chara inputs.
func (c *Chart) HasChara() bool {
	return len(c.Chara.Progression) > 0
}

// VimsottariOracle resolves the chart's starting lord and returns the
// rotated classical oracle.
func (c *Chart) VimsottariOracle() (dasha.Oracle, error) {
	lord, ok := dasha.LordNames().ByShort(c.Vimsottari.StartLord)
	if !ok {
		return nil, fmt.Errorf("%s: vimsottari start_lord: %w: %q", c.SourceFile, ErrUnknownCode, c.Vimsottari.StartLord)
	}
	return dasha.VimsottariOracle(lord)
}

// CharaOracle converts the chart's sign progression and years table into a
// builder oracle.
func (c *Chart) CharaOracle() (dasha.Oracle, error) {
	names := dasha.SignNames()
	prog := make([]dasha.Unit, 0, len(c.Chara.Progression))
	for _, code := range c.Chara.Progression {
		u, ok := names.ByShort(code)
		if !ok {
			return nil, fmt.Errorf("%s: chara progression: %w: %q", c.SourceFile, ErrUnknownCode, code)
		}
		prog = append(prog, u)
	}
	years := make(map[dasha.Unit]float64, len(c.Chara.Years))
	for code, y := range c.Chara.Years {
		u, ok := names.ByShort(code)
		if !ok {
			return nil, fmt.Errorf("%s: chara years: %w: %q", c.SourceFile, ErrUnknownCode, code)
		}
		years[u] = y
	}
	o, err := dasha.CharaOracle(prog, years)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.SourceFile, err)
	}
	return o, nil
}
