// Package result models the outcome of one validation run and the
// lifecycle that produces it.
//
// A Builder is created when a run starts (the clock starts with it), moves
// to running once row counts are known, collects findings and is completed
// exactly once. Completion hands back a Result value that shares no memory
// with the builder, so the caller owns it outright.
package result

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stage-reconciler/internal/common"
	"stage-reconciler/internal/diagnostic"
)

// Type tags which flow produced a result.
type Type string

const (
	// TypeStaging is the file → staging table comparison without transformation.
	TypeStaging Type = "CSV_TO_BRONZE"
	// TypeCurated is the staging → curated table comparison with transformation.
	TypeCurated Type = "BRONZE_TO_SILVER"
)

// State is the lifecycle position of a Builder.
type State int

const (
	StateCreated State = iota
	StateRunning
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "CREATED"
	case StateRunning:
		return "RUNNING"
	case StateCompleted:
		return "COMPLETED"
	default:
		return common.UnknownStr
	}
}

// ErrState reports a builder call made in the wrong lifecycle state.
var ErrState = errors.New("invalid result state")

// Result is a completed validation outcome.
type Result struct {
	// RunID correlates the result with log lines of the same run.
	RunID uuid.UUID

	Type       Type
	SourceName string
	TargetName string

	ExpectedRowCount int
	ActualRowCount   int
	MatchedRecords   int

	// Success is true iff Errors is empty.
	Success bool

	// Errors and Warnings are the rendered findings in report order.
	Errors   []string
	Warnings []string

	// Findings keeps the structured form of Errors and Warnings.
	Findings diagnostic.Diagnostics

	Elapsed time.Duration
}

// MatchPercentage is MatchedRecords / ExpectedRowCount × 100, or 0 when no
// rows were expected.
func (r Result) MatchPercentage() float64 {
	if r.ExpectedRowCount == 0 {
		return 0
	}

	return float64(r.MatchedRecords) / float64(r.ExpectedRowCount) * 100
}

// String renders a one-line summary.
func (r Result) String() string {
	return fmt.Sprintf("ValidationResult{type='%s', source='%s', target='%s', "+
		"expected=%d, actual=%d, matched=%d, success=%t, errors=%d, warnings=%d, "+
		"executionTime=%dms, matchPercentage=%.2f%%}",
		r.Type, r.SourceName, r.TargetName,
		r.ExpectedRowCount, r.ActualRowCount, r.MatchedRecords, r.Success,
		len(r.Errors), len(r.Warnings), r.Elapsed.Milliseconds(), r.MatchPercentage())
}

// Builder accumulates a Result during a run. It is used by one goroutine.
type Builder struct {
	state   State
	started time.Time
	now     func() time.Time
	res     Result
}

// NewBuilder starts the clock for a run.
func NewBuilder(typ Type, sourceName, targetName string) *Builder {
	return newBuilder(typ, sourceName, targetName, time.Now)
}

func newBuilder(typ Type, sourceName, targetName string, now func() time.Time) *Builder {
	return &Builder{
		state:   StateCreated,
		started: now(),
		now:     now,
		res: Result{
			RunID:      uuid.New(),
			Type:       typ,
			SourceName: sourceName,
			TargetName: targetName,
		},
	}
}

// RunID returns the identifier the completed result will carry.
func (b *Builder) RunID() uuid.UUID {
	return b.res.RunID
}

// State returns the current lifecycle state.
func (b *Builder) State() State {
	return b.state
}

// Begin records the row counts and moves the builder to running.
func (b *Builder) Begin(expectedRows, actualRows int) error {
	if b.state != StateCreated {
		return fmt.Errorf("%w: begin in state %s", ErrState, b.state)
	}

	b.res.ExpectedRowCount = expectedRows
	b.res.ActualRowCount = actualRows
	b.state = StateRunning

	return nil
}

// Add records a finding. Only errors and warnings reach the rendered lists.
func (b *Builder) Add(d diagnostic.Diagnostic) error {
	if b.state != StateRunning {
		return fmt.Errorf("%w: add in state %s", ErrState, b.state)
	}

	b.res.Findings.Add(d)

	return nil
}

// Merge records a batch of findings, keeping their order.
func (b *Builder) Merge(d diagnostic.Diagnostics) error {
	if b.state != StateRunning {
		return fmt.Errorf("%w: merge in state %s", ErrState, b.state)
	}

	b.res.Findings.Merge(d)

	return nil
}

// Matched adds n to the matched-record tally.
func (b *Builder) Matched(n int) error {
	if b.state != StateRunning {
		return fmt.Errorf("%w: matched in state %s", ErrState, b.state)
	}

	b.res.MatchedRecords += n

	return nil
}

// Complete stops the clock, computes success and returns the result.
func (b *Builder) Complete() (Result, error) {
	if b.state != StateRunning {
		return Result{}, fmt.Errorf("%w: complete in state %s", ErrState, b.state)
	}

	b.state = StateCompleted

	res := b.res
	res.Elapsed = b.now().Sub(b.started)
	res.Findings = diagnostic.Diagnostics{
		Errors:   append([]diagnostic.Diagnostic(nil), b.res.Findings.Errors...),
		Warnings: append([]diagnostic.Diagnostic(nil), b.res.Findings.Warnings...),
		Infos:    append([]diagnostic.Diagnostic(nil), b.res.Findings.Infos...),
	}
	res.Errors = diagnostic.Lines(res.Findings.Errors)
	res.Warnings = diagnostic.Lines(res.Findings.Warnings)
	res.Success = len(res.Errors) == 0

	return res, nil
}
