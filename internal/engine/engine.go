// Package engine orchestrates the persona pipeline: load, derive,
// classify. Recomputation is memoized on the loaded table so filtering
// stays cheap and never re-runs classification.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/marlowe-io/persona/internal/classify"
	"github.com/marlowe-io/persona/internal/config"
	"github.com/marlowe-io/persona/internal/derive"
	"github.com/marlowe-io/persona/internal/model"
	"github.com/marlowe-io/persona/internal/tabular"
)

// Result is the immutable outcome of one pipeline run. Views filter
// over Records; the table keeps every source column plus the derived
// ones for export.
type Result struct {
	Table      *tabular.Table
	Records    []model.Record
	Thresholds model.Thresholds
	Source     string
}

// Pipeline loads a dataset and classifies it. A Pipeline is safe for
// concurrent readers; Reload swaps the memoized result atomically.
type Pipeline struct {
	cols     config.Columns
	progress func(done, total int)
	mu       sync.RWMutex
	result   *Result
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithProgress installs a callback invoked while rows are classified.
func WithProgress(fn func(done, total int)) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// New creates a pipeline with the given column configuration.
func New(cols config.Columns, opts ...Option) *Pipeline {
	p := &Pipeline{cols: cols}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run loads the dataset at path, derives features, classifies every
// row, and memoizes the result.
func (p *Pipeline) Run(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Info("Loading dataset", "path", path)
	table, err := tabular.Load(path, p.cols)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	return p.finish(table, path)
}

// RunCSV classifies a CSV dataset read from a stream, for uploads that
// never touch the filesystem, and memoizes the result like Run.
func (p *Pipeline) RunCSV(ctx context.Context, r io.Reader, source string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, err := tabular.LoadCSVReader(r, p.cols)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	return p.finish(table, source)
}

func (p *Pipeline) finish(table *tabular.Table, source string) (*Result, error) {
	result, err := p.Recompute(table)
	if err != nil {
		return nil, err
	}
	result.Source = source

	p.mu.Lock()
	p.result = result
	p.mu.Unlock()

	slog.Info("Pipeline complete",
		"source", source,
		"rows", len(result.Records),
		"q75", result.Thresholds.Q75,
		"median", result.Thresholds.Median)

	return result, nil
}

// Recompute derives features and classifies a loaded table. The table
// is augmented in place with the derived columns; the returned result
// is independent of any later filtering.
func (p *Pipeline) Recompute(table *tabular.Table) (*Result, error) {
	features, err := derive.Compute(table, p.cols)
	if err != nil {
		return nil, fmt.Errorf("failed to derive features: %w", err)
	}

	thresholds := features.Thresholds()
	records := classify.Apply(table, features, thresholds)

	if p.progress != nil {
		p.progress(len(records), len(records))
	}

	return &Result{
		Table:      table,
		Records:    records,
		Thresholds: thresholds,
	}, nil
}

// Current returns the most recent memoized result, or nil before the
// first successful run.
func (p *Pipeline) Current() *Result {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.result
}
