// Package trace drives engines headlessly with scripted input and records a
// per-frame sample stream.
package trace

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/pointfield/internal/engine"
	"github.com/san-kum/pointfield/internal/field"
	"github.com/san-kum/pointfield/internal/metrics"
)

const DefaultDt = 16 * time.Millisecond

type Config struct {
	Frames int
	Dt     time.Duration
	Script Script
}

type Result struct {
	Seed     int64
	Samples  []metrics.Sample
	Metrics  map[string]float64
	Events   map[string]int
	Duration time.Duration
}

// Observer is told about every recorded sample. An Ensemble shares its
// runner's observers across all runs, so OnSample must be safe for
// concurrent use.
type Observer interface {
	OnSample(s metrics.Sample)
}

// Progress logs how many of an expected number of frames have been recorded,
// once per tenth. It may be shared by parallel runs.
type Progress struct {
	total int64
	every int64
	done  atomic.Int64
	log   *log.Logger
}

func NewProgress(logger *log.Logger, total int) *Progress {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	every := int64(total / 10)
	if every < 1 {
		every = 1
	}
	return &Progress{total: int64(total), every: every, log: logger}
}

func (p *Progress) OnSample(metrics.Sample) {
	n := p.done.Add(1)
	if n%p.every == 0 || n == p.total {
		p.log.Info("trace progress", "frames", n, "of", p.total)
	}
}

// Done is the number of samples seen so far.
func (p *Progress) Done() int64 { return p.done.Load() }

type Runner struct {
	metrics   []func() metrics.Metric
	observers []Observer
	log       *log.Logger
}

func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{log: logger}
}

// AddMetric registers a metric constructor. Every run builds its own
// instances so runs can proceed in parallel.
func (r *Runner) AddMetric(m func() metrics.Metric) { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)            { r.observers = append(r.observers, o) }

func (r *Runner) Run(ctx context.Context, e *engine.Engine, cfg Config) (*Result, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	script := append(Script(nil), cfg.Script...)
	sort.SliceStable(script, func(i, j int) bool { return script[i].At < script[j].At })

	ms := make([]metrics.Metric, len(r.metrics))
	for i, build := range r.metrics {
		ms[i] = build()
	}

	result := &Result{
		Seed:    e.Config().Seed,
		Samples: make([]metrics.Sample, 0, cfg.Frames),
		Metrics: make(map[string]float64),
		Events:  make(map[string]int),
	}
	count(result.Events, e.Events())

	next := 0
	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for next < len(script) && script[next].At <= e.Elapsed() {
			r.log.Debug("step", "seed", result.Seed, "step", script[next])
			script[next].Apply(e)
			next++
		}

		e.Tick(cfg.Dt)
		dirty := e.Buffers().Poll()
		s := metrics.Observe(e, dirty)

		for _, m := range ms {
			m.Observe(s)
		}
		for _, o := range r.observers {
			o.OnSample(s)
		}
		result.Samples = append(result.Samples, s)
		count(result.Events, e.Events())
	}

	result.Duration = e.Elapsed()
	for _, m := range ms {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func validate(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("trace: dt must be positive, got %v", cfg.Dt)
	}
	if cfg.Frames <= 0 {
		return fmt.Errorf("trace: frames must be positive, got %d", cfg.Frames)
	}
	return nil
}

func count(into map[string]int, events []engine.Event) {
	for _, ev := range events {
		into[EventName(ev)]++
	}
}

// EventName is the stable key used for event counts.
func EventName(ev engine.Event) string {
	switch ev.(type) {
	case engine.HoverChanged:
		return "hover_changed"
	case engine.CursorChanged:
		return "cursor_changed"
	case engine.PopupOpened:
		return "popup_opened"
	case engine.PopupPhase:
		return "popup_phase"
	case engine.PopupClosed:
		return "popup_closed"
	case engine.CatalogEmpty:
		return "catalog_empty"
	case engine.FieldRegenerated:
		return "field_regenerated"
	}
	return "unknown"
}

// Uploads counts frames that flushed each buffer region.
func (r *Result) Uploads() map[field.Region]int {
	out := make(map[field.Region]int)
	for _, s := range r.Samples {
		if s.Dirty.Position {
			out[field.RegionPosition]++
		}
		if s.Dirty.Scale {
			out[field.RegionScale]++
		}
		if s.Dirty.Color {
			out[field.RegionColor]++
		}
	}
	return out
}

// Series extracts one float column of the samples, by metric name.
func (r *Result) Series(name string) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		switch name {
		case "max_offset":
			out[i] = s.MaxOffset
		case "mean_scale":
			out[i] = s.MeanScale
		case "hovered":
			out[i] = float64(s.Hovered)
		case "popup":
			out[i] = float64(s.Popup)
		}
	}
	return out
}
