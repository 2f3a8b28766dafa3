package profiler

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"fieldprof/domain/dataset"
	"fieldprof/domain/profile"
	"fieldprof/internal"
	"fieldprof/internal/classify"
	"fieldprof/internal/distribution"
	"fieldprof/internal/errors"
	"fieldprof/internal/quality"
	"fieldprof/internal/statistics"
	"fieldprof/internal/temporal"
	"fieldprof/ports"
)

// Engine profiles fields of an in-memory dataset. Each request works on
// its own accumulators, so one engine can serve concurrent requests.
type Engine struct {
	opts profile.Options
	log  *internal.Logger
}

// New creates an engine with the given options.
func New(opts profile.Options) *Engine {
	return &Engine{opts: opts, log: internal.DefaultLogger}
}

// NewDefault creates an engine with default options.
func NewDefault() *Engine {
	return New(profile.DefaultOptions())
}

// Profile computes one FieldProfile per requested field. Fields are
// independent, so they run in parallel under a bounded semaphore; within
// a field the pipeline is strictly sequential
// (classify -> distribute -> statistics/temporal -> quality).
//
// Input errors surface immediately with no partial result. Undefined
// statistics never abort: they come back as nil sub-records.
func (e *Engine) Profile(ctx context.Context, table *dataset.Table, fields []string) ([]profile.FieldProfile, error) {
	if table == nil || table.RowCount() == 0 {
		return nil, errors.EmptyDataset("dataset has no rows to profile")
	}
	if len(fields) == 0 {
		return nil, errors.InvalidInput("at least one field name is required")
	}
	for _, f := range fields {
		if !table.HasField(f) {
			return nil, errors.FieldNotFound(f)
		}
	}

	workers := e.opts.MaxParallelFields
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	sem := semaphore.NewWeighted(int64(workers))
	results := make([]profile.FieldProfile, len(fields))
	var wg sync.WaitGroup
	var acquireErr error

	for i, name := range fields {
		if err := sem.Acquire(ctx, 1); err != nil {
			acquireErr = errors.Wrapf(err, "profiling cancelled at field %q", name)
			break
		}
		wg.Add(1)
		go func(idx int, fieldName string) {
			defer wg.Done()
			defer sem.Release(1)
			results[idx] = e.profileField(table, fieldName)
		}(i, name)
	}
	wg.Wait()

	if acquireErr != nil {
		return nil, acquireErr
	}

	e.log.Debug("profiled %d fields over %d rows", len(fields), table.RowCount())
	return results, nil
}

// ProfileSource reads rows through the acquisition collaborator and
// profiles them. Read failures abort the whole request; there is nothing
// to profile and nothing here retries.
func (e *Engine) ProfileSource(ctx context.Context, reader ports.RowReader, source string, maxRows int, fields []string) ([]profile.FieldProfile, error) {
	table, err := reader.ReadRows(ctx, source, maxRows)
	if err != nil {
		return nil, errors.UpstreamRead(source, err)
	}
	if len(fields) == 0 {
		fields = table.Fields
	}
	return e.Profile(ctx, table, fields)
}

func (e *Engine) profileField(table *dataset.Table, name string) profile.FieldProfile {
	raw := table.Column(name)
	classified := classify.Column(raw)

	dist := distribution.Distribute(classified, e.opts.MaxUniqueValues)

	fp := profile.FieldProfile{
		FieldName:        name,
		TotalRows:        dist.TotalRows,
		UniqueValueCount: dist.UniqueCount,
		NullCount:        dist.NullCount,
		Distributions:    dist.Entries,
		Truncated:        dist.Truncated,
		TruncatedAt:      dist.TruncatedAt,
	}

	if classify.IsNumericField(classified, e.opts.TypeThreshold) {
		fp.IsNumeric = true
		fp.Statistics = statistics.Compute(classify.NumericValues(classified), e.opts.OutlierValueCap)
	}

	fp.Temporal = temporal.Analyze(raw, temporal.Config{
		MinConfidence: e.opts.TemporalMinConfidence,
		SampleSize:    e.opts.TemporalSampleSize,
	})

	fp.Quality = quality.Score(dist)
	return fp
}
