// Package row holds the record and row-set types handed to the engine by
// CSV readers and query executors.
package row

import (
	"fmt"
	"sort"
	"strings"

	"stage-reconciler/internal/diagnostic"
	"stage-reconciler/internal/mapping"
	"stage-reconciler/internal/value"
)

// Record maps a column name to its cell. Column names are case-sensitive.
type Record map[string]value.Value

// Set is an ordered sequence of records from one pipeline stage.
// Order is significant: sets are compared position by position.
type Set []Record

// Get returns the cell stored under column, or Null when the column is absent.
func (r Record) Get(column string) value.Value {
	return r[column]
}

// Has reports whether the record carries the column at all.
func (r Record) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// Columns returns the record's column names in sorted order.
func (r Record) Columns() []string {
	cols := make([]string, 0, len(r))
	for c := range r {
		cols = append(cols, c)
	}

	sort.Strings(cols)

	return cols
}

// FromMap converts a provider row into a Record.
func FromMap(m map[string]any) (Record, error) {
	rec := make(Record, len(m))

	for col, raw := range m {
		v, err := value.FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}

		rec[col] = v
	}

	return rec, nil
}

// FromMaps converts provider rows into a Set, keeping their order.
func FromMaps(rows []map[string]any) (Set, error) {
	set := make(Set, 0, len(rows))

	for i, m := range rows {
		rec, err := FromMap(m)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		set = append(set, rec)
	}

	return set, nil
}

// FromStrings builds a Set from a header and raw CSV cells, converting each
// cell with value.ParseCell. Header names are trimmed. Extra cells beyond
// the header are dropped and short rows simply omit the trailing columns.
func FromStrings(header []string, rows [][]string) Set {
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}

	set := make(Set, 0, len(rows))

	for _, cells := range rows {
		rec := make(Record, len(header))

		for j := 0; j < len(header) && j < len(cells); j++ {
			rec[names[j]] = value.ParseCell(cells[j])
		}

		set = append(set, rec)
	}

	return set
}

// ColumnUnion returns every column name seen across the set, sorted.
func (s Set) ColumnUnion() []string {
	seen := make(map[string]struct{})

	for _, rec := range s {
		for c := range rec {
			seen[c] = struct{}{}
		}
	}

	cols := make([]string, 0, len(seen))
	for c := range seen {
		cols = append(cols, c)
	}

	sort.Strings(cols)

	return cols
}

// Project renames each record's mapped source columns to their target names
// and drops unmapped columns. A mapped column missing from a record becomes
// null and is reported once per column.
func (s Set) Project(m mapping.ColumnMapping) (Set, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	reported := make(map[string]struct{})
	out := make(Set, 0, len(s))

	for i, rec := range s {
		projected := make(Record, len(m))

		for _, col := range m {
			v, ok := rec[col.Source]
			if !ok {
				if _, seen := reported[col.Source]; !seen {
					reported[col.Source] = struct{}{}

					diags.Add(diagnostic.Diagnostic{
						Severity:     diagnostic.DiagnosticWarning,
						Code:         diagnostic.CodeColumnNotFound,
						Record:       i + 1,
						SourceColumn: col.Source,
						TargetColumn: col.Target,
						Message: fmt.Sprintf("Record %d: column '%s' not found, '%s' set to null",
							i+1, col.Source, col.Target),
					})
				}

				v = value.Null()
			}

			projected[col.Target] = v
		}

		out = append(out, projected)
	}

	return out, diags
}
