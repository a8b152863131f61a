package engine

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"stage-reconciler/internal/common"
	"stage-reconciler/internal/compare"
	"stage-reconciler/internal/diagnostic"
	"stage-reconciler/internal/mapping"
	"stage-reconciler/internal/match"
	"stage-reconciler/internal/result"
	"stage-reconciler/internal/row"
	"stage-reconciler/internal/transform"
)

const (
	defaultChunkSize = 256
	maxSuggestions   = 3
)

var (
	// ErrMissingStage reports a named flow called without its stage settings.
	ErrMissingStage = errors.New("validation stage is not configured")
	// ErrRuleSettings reports a rule whose settings section is absent.
	ErrRuleSettings = errors.New("transformation rule settings are missing")
)

// Request describes one comparison.
type Request struct {
	Type       result.Type
	SourceName string
	TargetName string

	Source row.Set
	Target row.Set

	Mapping mapping.ColumnMapping

	// Rules switches on transformation and tolerance. Nil compares string
	// forms only.
	Rules *mapping.ValidationRules
}

// Engine runs validations. It holds no per-run state and may be shared.
type Engine struct {
	registry   *transform.Registry
	comparator *compare.Comparator
	log        *log.Entry
	workers    int
	chunkSize  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default is the standard logrus logger.
func WithLogger(l *log.Entry) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithWorkers bounds the number of goroutines comparing records.
// Values below one mean runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithChunkSize sets how many consecutive records one worker task compares.
func WithChunkSize(n int) Option {
	return func(e *Engine) {
		e.chunkSize = n
	}
}

// WithRegistry replaces the built-in rule registry.
func WithRegistry(r *transform.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}

	if e.log == nil {
		e.log = log.NewEntry(log.StandardLogger())
	}

	if e.registry == nil {
		e.registry = transform.DefaultRegistry()
	}

	if e.workers < 1 {
		e.workers = runtime.GOMAXPROCS(0)
	}

	if e.chunkSize < 1 {
		e.chunkSize = defaultChunkSize
	}

	e.comparator = compare.New(transform.New(e.registry, e.log))

	return e
}

// Validate compares source against target. With rules == nil the run is a
// staging comparison, otherwise a curated one.
func (e *Engine) Validate(
	source, target row.Set,
	m mapping.ColumnMapping,
	rules *mapping.ValidationRules,
) (result.Result, error) {
	typ := result.TypeStaging
	if rules != nil {
		typ = result.TypeCurated
	}

	return e.Run(Request{
		Type:       typ,
		SourceName: "source",
		TargetName: "target",
		Source:     source,
		Target:     target,
		Mapping:    m,
		Rules:      rules,
	})
}

// ValidateStaging compares file rows with the staging table rows. Values are
// compared by string form without transformation.
func (e *Engine) ValidateStaging(source, target row.Set, cfg *mapping.StagingConfig) (result.Result, error) {
	if cfg == nil {
		return result.Result{}, fmt.Errorf("%w: %s", ErrMissingStage, result.TypeStaging)
	}

	sourceName := "CSV"
	if cfg.SourceFile != "" {
		sourceName = "CSV " + cfg.SourceFile
	}

	return e.Run(Request{
		Type:       result.TypeStaging,
		SourceName: sourceName,
		TargetName: cfg.TargetTable,
		Source:     source,
		Target:     target,
		Mapping:    cfg.ColumnMappings,
	})
}

// ValidateCurated compares staging table rows with curated table rows,
// applying each column's rule under rules.
func (e *Engine) ValidateCurated(
	source, target row.Set,
	cfg *mapping.CuratedConfig,
	rules *mapping.ValidationRules,
) (result.Result, error) {
	if cfg == nil {
		return result.Result{}, fmt.Errorf("%w: %s", ErrMissingStage, result.TypeCurated)
	}

	return e.Run(Request{
		Type:       result.TypeCurated,
		SourceName: cfg.SourceTable,
		TargetName: cfg.TargetTable,
		Source:     source,
		Target:     target,
		Mapping:    cfg.ColumnMappings,
		Rules:      rules,
	})
}

// Run executes one validation.
func (e *Engine) Run(req Request) (result.Result, error) {
	if err := e.check(req); err != nil {
		return result.Result{}, fmt.Errorf("%s validation: %w", req.Type, err)
	}

	b := result.NewBuilder(req.Type, req.SourceName, req.TargetName)
	logger := e.log.WithFields(log.Fields{
		"run_id": b.RunID().String(),
		"type":   string(req.Type),
		"source": req.SourceName,
		"target": req.TargetName,
	})

	logger.WithFields(log.Fields{
		"source_rows": len(req.Source),
		"target_rows": len(req.Target),
		"columns":     len(req.Mapping),
	}).Info("Validation started")

	if err := b.Begin(len(req.Source), len(req.Target)); err != nil {
		return result.Result{}, err
	}

	var findings diagnostic.Diagnostics

	if len(req.Source) != len(req.Target) {
		findings.Add(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticError,
			Code:     diagnostic.CodeRowCountMismatch,
			Expected: fmt.Sprint(len(req.Source)),
			Actual:   fmt.Sprint(len(req.Target)),
			Message: fmt.Sprintf("Row count mismatch: %s has %d rows, %s has %d rows",
				req.SourceName, len(req.Source), req.TargetName, len(req.Target)),
		})
	}

	findings.Merge(columnPresence(req))
	findings.Merge(e.unknownRules(req, logger))

	matched, records := e.compareRecords(req, logger)
	findings.Merge(records)

	if err := b.Merge(findings); err != nil {
		return result.Result{}, err
	}

	if err := b.Matched(matched); err != nil {
		return result.Result{}, err
	}

	res, err := b.Complete()
	if err != nil {
		return result.Result{}, err
	}

	logger.WithFields(log.Fields{
		"success":  res.Success,
		"matched":  res.MatchedRecords,
		"compared": min(len(req.Source), len(req.Target)),
		"errors":   len(res.Errors),
		"warnings": len(res.Warnings),
		"elapsed":  res.Elapsed,
	}).Info("Validation completed")

	return res, nil
}

// check rejects requests no comparison can be run for.
func (e *Engine) check(req Request) error {
	if err := mapping.ValidateMapping(req.Mapping); err != nil {
		return err
	}

	if req.Rules == nil {
		if req.Type == result.TypeCurated {
			return mapping.ErrMissingRules
		}

		return nil
	}

	if err := mapping.ValidateRules(req.Rules); err != nil {
		return err
	}

	for _, id := range req.Mapping.Rules() {
		rule, ok := e.registry.Lookup(id)
		if !ok {
			continue
		}

		if missing := rule.Missing(req.Rules); len(missing) > 0 {
			return fmt.Errorf("%w: rule %s needs %v", ErrRuleSettings, id, missing)
		}
	}

	return nil
}

// columnPresence warns about mapped columns that no record of a side
// carries. Empty sides are skipped.
func columnPresence(req Request) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	check := func(set row.Set, side string, column func(mapping.Column) string) {
		if len(set) == 0 {
			return
		}

		observed := set.ColumnUnion()
		present := make(map[string]struct{}, len(observed))

		for _, c := range observed {
			present[c] = struct{}{}
		}

		for _, col := range req.Mapping {
			name := column(col)
			if _, ok := present[name]; ok {
				continue
			}

			diags.Add(diagnostic.Diagnostic{
				Severity:     diagnostic.DiagnosticWarning,
				Code:         diagnostic.CodeColumnNotFound,
				SourceColumn: col.Source,
				TargetColumn: col.Target,
				Message:      fmt.Sprintf("Column '%s' not found in %s", name, side),
				Suggestions:  match.Suggest(name, observed, maxSuggestions),
			})
		}
	}

	check(req.Source, req.SourceName, func(c mapping.Column) string { return c.Source })
	check(req.Target, req.TargetName, func(c mapping.Column) string { return c.Target })

	return diags
}

// unknownRules warns once per column naming an unregistered rule.
func (e *Engine) unknownRules(req Request, logger *log.Entry) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	if req.Rules == nil {
		return diags
	}

	for _, col := range req.Mapping {
		id := col.RuleOrDefault()
		if e.registry.Has(id) {
			continue
		}

		logger.WithFields(log.Fields{
			"rule":          id,
			"source_column": col.Source,
			"target_column": col.Target,
		}).Warn("Unknown transformation rule, values compared unchanged")

		diags.Add(diagnostic.Diagnostic{
			Severity:     diagnostic.DiagnosticWarning,
			Code:         diagnostic.CodeUnknownRule,
			SourceColumn: col.Source,
			TargetColumn: col.Target,
			Rule:         id,
			Message: fmt.Sprintf("Column '%s' -> '%s': %s, values compared unchanged",
				col.Source, col.Target, e.registry.Describe(id)),
			Suggestions: match.Suggest(id, e.registry.Names(), maxSuggestions),
		})
	}

	return diags
}

type chunkOutcome struct {
	matched    int
	mismatched []int
	diags      diagnostic.Diagnostics
}

// compareRecords compares the overlapping prefix of both sets in parallel
// chunks and folds the outcomes in record order.
func (e *Engine) compareRecords(req Request, logger *log.Entry) (int, diagnostic.Diagnostics) {
	spans := common.Spans(min(len(req.Source), len(req.Target)), e.chunkSize)
	outcomes := make([]chunkOutcome, len(spans))

	var g errgroup.Group
	g.SetLimit(e.workers)

	for i, span := range spans {
		g.Go(func() error {
			out := &outcomes[i]

			for idx := span.Start; idx < span.End; idx++ {
				ok, diags := e.comparator.Record(req.Source[idx], req.Target[idx], req.Mapping, req.Rules, idx)
				if ok {
					out.matched++
				} else {
					out.mismatched = append(out.mismatched, idx)
				}

				out.diags.Merge(diags)
			}

			return nil
		})
	}

	// Workers never fail; Wait is the barrier before the reduce.
	_ = g.Wait()

	var (
		matched int
		diags   diagnostic.Diagnostics
	)

	debug := logger.Logger.IsLevelEnabled(log.DebugLevel)

	for _, out := range outcomes {
		matched += out.matched
		diags.Merge(out.diags)

		if !debug {
			continue
		}

		for _, idx := range out.mismatched {
			logger.WithField("record", idx+1).Debugf("Record mismatch\nsource: %starget: %s",
				spew.Sdump(req.Source[idx]), spew.Sdump(req.Target[idx]))
		}
	}

	return matched, diags
}
