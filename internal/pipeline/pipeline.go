// Package pipeline drives the full extraction for a set of charts: build the
// period tree for each configured dasha system, serialize it, write the raw
// text, parse it back, verify the round trip, and emit the nested JSON
// artifact. Charts are independent and run on a bounded worker pool.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/jatakam/dashatree/internal/artifact"
	"github.com/jatakam/dashatree/internal/calendar"
	"github.com/jatakam/dashatree/internal/chart"
	"github.com/jatakam/dashatree/internal/config"
	"github.com/jatakam/dashatree/internal/dasha"
	"github.com/jatakam/dashatree/internal/ledger"
	"github.com/jatakam/dashatree/internal/telemetry"
	"github.com/jatakam/dashatree/internal/ui"
)

// ErrNoSystems is returned for a chart that carries no dasha system inputs.
var ErrNoSystems = errors.New("pipeline: chart defines no dasha systems")

// Pipeline holds the collaborators a run needs. Telemetry and Ledger may be
// nil; UI must be set.
type Pipeline struct {
	Cfg       config.Config
	UI        *ui.Printer
	Telemetry *telemetry.Emitter
	Ledger    *ledger.Ledger
}

// Summary aggregates the outcome of one run.
type Summary struct {
	Charts   int
	Failed   int
	Warnings int
}

// SystemResult describes one chart/system extraction.
type SystemResult struct {
	System      string
	TextPath    string
	JSONPath    string
	Mahadashas  int
	Warnings    []dasha.Warning
	RoundTripOK bool
}

// systemRun pairs a system definition with the chart-specific oracle and
// horizon it will be built with.
type systemRun struct {
	sys     dasha.System
	oracle  dasha.Oracle
	horizon float64
}

// systemsFor resolves the systems a chart asks for. A chart may carry
// Vimsottari inputs, Chara inputs, or both.
func (p *Pipeline) systemsFor(c *chart.Chart) ([]systemRun, error) {
	var runs []systemRun
	if c.HasVimsottari() {
		o, err := c.VimsottariOracle()
		if err != nil {
			return nil, err
		}
		runs = append(runs, systemRun{sys: dasha.Vimsottari(), oracle: o, horizon: p.Cfg.VimsottariYears})
	}
	if c.HasChara() {
		o, err := c.CharaOracle()
		if err != nil {
			return nil, err
		}
		runs = append(runs, systemRun{sys: dasha.KNRaoChara(), oracle: o, horizon: p.Cfg.CharaYears})
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSystems, c.SourceFile)
	}
	return runs, nil
}

// RunDir loads every chart under dir and runs the pipeline over them.
func (p *Pipeline) RunDir(ctx context.Context, dir string) (Summary, error) {
	charts, err := chart.LoadDir(dir)
	if err != nil {
		return Summary{}, err
	}
	return p.Run(ctx, charts)
}

// Run processes charts on a pool of Cfg.Workers goroutines. A chart failure
// is counted, printed, and recorded; it does not stop the run. Run returns
// an error only when the context is cancelled.
func (p *Pipeline) Run(ctx context.Context, charts []*chart.Chart) (Summary, error) {
	workers := p.Cfg.Workers
	if workers < 1 {
		workers = 1
	}

	p.Telemetry.Emit(telemetry.Event{Kind: telemetry.KindRunStart, Data: map[string]int{"charts": len(charts)}})

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	summary := Summary{Charts: len(charts)}
	done := 0

	for _, c := range charts {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{} // block at worker capacity
		wg.Add(1)
		go func(c *chart.Chart) {
			defer func() {
				<-sem
				wg.Done()
			}()
			warnings, err := p.ProcessChart(ctx, c)

			mu.Lock()
			summary.Warnings += warnings
			if err != nil {
				summary.Failed++
				p.UI.ChartFailed(c.Person.Name, err)
			}
			done++
			p.UI.Progress(done, len(charts), summary.Warnings)
			mu.Unlock()
		}(c)
	}
	wg.Wait()
	p.UI.ProgressDone()
	p.UI.RunSummary(summary.Charts, summary.Failed, summary.Warnings)

	p.Telemetry.Emit(telemetry.Event{Kind: telemetry.KindRunDone, Data: summary})

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// ProcessChart runs every configured system for one chart and writes the
// birth-info summary. It returns the total structural warning count and the
// first error encountered.
func (p *Pipeline) ProcessChart(ctx context.Context, c *chart.Chart) (int, error) {
	p.UI.ChartStart(c.Person.Name, c.SourceFile)
	p.Telemetry.Emit(telemetry.Event{Kind: telemetry.KindChartStart, Chart: c.SourceFile})

	runs, err := p.systemsFor(c)
	if err != nil {
		return 0, err
	}

	layout := artifact.Layout{Base: p.Cfg.OutputDir}
	if _, err := layout.DataSetDir(c); err != nil {
		return 0, err
	}
	if err := artifact.WriteBirthInfo(layout.BirthInfoPath(c), c); err != nil {
		return 0, err
	}

	warnings := 0
	for _, sr := range runs {
		if err := ctx.Err(); err != nil {
			return warnings, err
		}
		res, err := p.runSystem(c, sr)
		if res != nil {
			warnings += len(res.Warnings)
		}
		if err != nil {
			p.recordRun(ctx, c, sr.sys.Name, res, err)
			return warnings, err
		}
		p.UI.ParseWarnings(res.Warnings)
		p.UI.SystemDone(sr.sys.Name, res.Mahadashas, res.RoundTripOK)
		p.recordRun(ctx, c, sr.sys.Name, res, nil)
	}

	p.UI.ChartDone(c.Person.Name, len(runs))
	p.Telemetry.Emit(telemetry.Event{Kind: telemetry.KindChartDone, Chart: c.SourceFile})
	return warnings, nil
}

// runSystem executes one chart/system extraction end to end.
func (p *Pipeline) runSystem(c *chart.Chart, sr systemRun) (*SystemResult, error) {
	p.UI.SystemStart(sr.sys.Name)

	scale := calendar.NewScale(p.Cfg.SiderealYearDays)
	builder := &dasha.Builder{System: sr.sys, Oracle: sr.oracle, Scale: scale}
	tree, err := builder.Build(c.Epoch(), sr.horizon)
	if err != nil {
		return nil, fmt.Errorf("build %s for %s: %w", sr.sys.Name, c.Person.Name, err)
	}
	p.Telemetry.Emit(telemetry.Event{
		Kind: telemetry.KindTreeBuilt, Chart: c.SourceFile, System: sr.sys.Name,
		Data: map[string]int{"mahadashas": len(tree)},
	})

	text := dasha.Serialize(sr.sys, tree)

	layout := artifact.Layout{Base: p.Cfg.OutputDir}
	res := &SystemResult{
		System:   sr.sys.Name,
		TextPath: layout.RawTextPath(c, sr.sys.Name),
		JSONPath: layout.NestedJSONPath(c, sr.sys.Name),
	}
	if err := os.WriteFile(res.TextPath, []byte(text), 0o644); err != nil {
		return res, fmt.Errorf("write raw text: %w", err)
	}
	p.Telemetry.Emit(telemetry.Event{Kind: telemetry.KindTextWritten, Chart: c.SourceFile, System: sr.sys.Name})

	doc := dasha.Parse(text)
	res.Warnings = doc.Warnings
	res.Mahadashas = len(tree)
	p.Telemetry.Emit(telemetry.Event{
		Kind: telemetry.KindParseDone, Chart: c.SourceFile, System: sr.sys.Name,
		Data: map[string]int{"warnings": len(doc.Warnings)},
	})

	if err := dasha.VerifyRoundTrip(sr.sys, tree, doc.Detailed()); err != nil {
		p.Telemetry.Emit(telemetry.Event{
			Kind: telemetry.KindRoundTripMismatch, Chart: c.SourceFile, System: sr.sys.Name,
			Data: err.Error(),
		})
		return res, fmt.Errorf("round trip for %s: %w", c.Person.Name, err)
	}
	res.RoundTripOK = true
	p.Telemetry.Emit(telemetry.Event{Kind: telemetry.KindRoundTripOK, Chart: c.SourceFile, System: sr.sys.Name})

	nested := artifact.NewNested(c, doc, c.SourceFile)
	if err := nested.WriteFile(res.JSONPath); err != nil {
		return res, err
	}
	return res, nil
}

// recordRun writes one ledger row for a chart/system outcome. A nil Ledger
// means no recording; ledger write failures are surfaced on the printer but
// do not fail the chart.
func (p *Pipeline) recordRun(ctx context.Context, c *chart.Chart, system string, res *SystemResult, runErr error) {
	if p.Ledger == nil {
		return
	}
	row := ledger.Run{
		ID:     uuid.NewString(),
		Chart:  c.SourceFile,
		Person: c.Person.Name,
		System: system,
		Status: ledger.StatusOK,
	}
	if res != nil {
		row.TextPath = res.TextPath
		row.JSONPath = res.JSONPath
		row.Warnings = len(res.Warnings)
		row.RoundTripOK = res.RoundTripOK
	}
	if runErr != nil {
		row.Status = ledger.StatusFailed
		row.Error = runErr.Error()
	}
	if err := p.Ledger.Record(ctx, row); err != nil {
		p.UI.Error(err.Error())
	}
}
