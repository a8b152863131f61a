// Package compare checks one source record against one target record
// column by column, following a column mapping.
package compare

import (
	"fmt"

	"stage-reconciler/internal/diagnostic"
	"stage-reconciler/internal/mapping"
	"stage-reconciler/internal/row"
	"stage-reconciler/internal/transform"
)

// Comparator compares record pairs. It holds no per-call state.
type Comparator struct {
	transformer *transform.Transformer
}

// New creates a comparator that delegates rule handling to t.
func New(t *transform.Transformer) *Comparator {
	if t == nil {
		t = transform.New(nil, nil)
	}

	return &Comparator{transformer: t}
}

// Record compares source against target over the columns named by m, in
// mapping order. Columns outside the mapping are ignored; mapped columns
// missing from a record read as null.
//
// With rules == nil values are compared by string form only (the simple
// mapping form). Otherwise each column's rule is applied to the source value
// and the result is compared with tolerance.
//
// Every mismatching column is reported; index is the 0-based record position
// and appears 1-based in messages.
func (c *Comparator) Record(
	source, target row.Record,
	m mapping.ColumnMapping,
	rules *mapping.ValidationRules,
	index int,
) (bool, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	matched := true
	number := index + 1

	for _, col := range m {
		expected := source.Get(col.Source)
		actual := target.Get(col.Target)

		if rules == nil {
			if !transform.Equal(expected, actual) {
				matched = false

				diags.Add(diagnostic.Diagnostic{
					Severity:     diagnostic.DiagnosticError,
					Code:         diagnostic.CodeValueMismatch,
					Record:       number,
					SourceColumn: col.Source,
					TargetColumn: col.Target,
					Expected:     expected.String(),
					Actual:       actual.String(),
					Message: fmt.Sprintf("Record %d: Column '%s' -> '%s' mismatch. Expected: '%s', Actual: '%s'",
						number, col.Source, col.Target, expected, actual),
				})
			}

			continue
		}

		rule := col.RuleOrDefault()
		res := c.transformer.Evaluate(expected, actual, rule, rules)

		if res.Err != nil {
			diags.Add(diagnostic.Diagnostic{
				Severity:     diagnostic.DiagnosticWarning,
				Code:         diagnostic.CodeTransformFailed,
				Record:       number,
				SourceColumn: col.Source,
				TargetColumn: col.Target,
				Rule:         rule,
				Expected:     expected.String(),
				Message: fmt.Sprintf("Record %d: Column '%s' -> '%s' transformation '%s' failed, original value kept: %v",
					number, col.Source, col.Target, rule, res.Err),
			})
		}

		if !res.Matched {
			matched = false

			diags.Add(diagnostic.Diagnostic{
				Severity:     diagnostic.DiagnosticError,
				Code:         diagnostic.CodeValueMismatch,
				Record:       number,
				SourceColumn: col.Source,
				TargetColumn: col.Target,
				Rule:         rule,
				Expected:     expected.String(),
				Transformed:  res.Transformed.String(),
				Actual:       actual.String(),
				Message: fmt.Sprintf("Record %d: Column '%s' -> '%s' mismatch after transformation '%s'. "+
					"Original: '%s', Transformed: '%s', Actual: '%s'",
					number, col.Source, col.Target, rule, expected, res.Transformed, actual),
			})
		}
	}

	return matched, diags
}
