package mapping

import (
	"slices"
	"sort"
)

// DirectCompare is the identity rule applied when a column names no rule.
const DirectCompare = "DIRECT_COMPARE"

// Config is the root of a reconciliation document.
type Config struct {
	// ProcessName identifies the pipeline being reconciled.
	ProcessName string `yaml:"processName"`

	// TestDate is the business date the row sets were extracted for.
	TestDate string `yaml:"testDate,omitempty"`

	// Staging describes the file → staging table comparison (no transformation).
	Staging *StagingConfig `yaml:"csvToBronzeValidation,omitempty"`

	// Curated describes the staging → curated table comparison (with transformation).
	Curated *CuratedConfig `yaml:"bronzeToSilverValidation,omitempty"`

	// Rules holds tolerance, date and padding settings for transformations.
	Rules *ValidationRules `yaml:"validationRules,omitempty"`
}

// StagingConfig configures the stage-1 comparison.
type StagingConfig struct {
	SourceFile     string        `yaml:"csvFilePath"`
	TargetTable    string        `yaml:"bronzeTableName" validate:"required"`
	ColumnMappings ColumnMapping `yaml:"columnMappings" validate:"required,min=1,dive"`
	TargetQuery    string        `yaml:"bronzeQuery,omitempty"`
}

// CuratedConfig configures the stage-2 comparison.
type CuratedConfig struct {
	SourceTable    string        `yaml:"bronzeTableName" validate:"required"`
	TargetTable    string        `yaml:"silverTableName" validate:"required"`
	ColumnMappings ColumnMapping `yaml:"columnMappings" validate:"required,min=1,dive"`
	SourceQuery    string        `yaml:"bronzeQuery,omitempty"`
	TargetQuery    string        `yaml:"silverQuery,omitempty"`
}

// ValidationRules bundles the parameters that transformation rules and
// tolerant comparison read.
type ValidationRules struct {
	// NumericTolerance is the inclusive absolute-difference bound for
	// numeric comparisons.
	NumericTolerance float64 `yaml:"numericTolerance" validate:"gte=0"`

	DateFormats *DateFormats `yaml:"dateFormats,omitempty"`

	Padding *Padding `yaml:"paddingConfig,omitempty"`
}

// DateFormats holds the input and output patterns for date reformatting.
// Patterns use the familiar letter notation (dd, MMM, yy, HH:mm:ss).
type DateFormats struct {
	Input  string `yaml:"input" validate:"required"`
	Output string `yaml:"output" validate:"required"`
}

// PadDirection selects the side padding characters are added on.
type PadDirection string

const (
	PadLeft  PadDirection = "LEFT"
	PadRight PadDirection = "RIGHT"
)

// Padding configures pad-to-length transformations.
type Padding struct {
	PadChar      string       `yaml:"padChar" validate:"required"`
	PadDirection PadDirection `yaml:"padDirection" validate:"paddirection"`
	TargetLength int          `yaml:"targetLength" validate:"gte=0"`
}

// Column is one entry of a column mapping.
type Column struct {
	// Source is the column name in the source row set.
	Source string `yaml:"-" validate:"required"`

	// Target is the column name in the target row set.
	Target string `validate:"required"`

	// Rule is the transformation rule identifier. Empty means no rule was
	// given; rich comparisons treat it as DIRECT_COMPARE.
	Rule string
}

// RuleOrDefault returns the column's rule, or DIRECT_COMPARE when none is set.
func (c Column) RuleOrDefault() string {
	if c.Rule == "" {
		return DirectCompare
	}

	return c.Rule
}

// ColumnMapping is an ordered list of column correspondences. Order is the
// order in which columns are compared and reported.
type ColumnMapping []Column

// Target pairs a target column with a rule identifier in the rich mapping form.
type Target struct {
	Column string
	Rule   string
}

// Simple builds a mapping from source→target pairs. Go maps carry no order,
// so entries are sorted by source column for deterministic reporting.
func Simple(pairs map[string]string) ColumnMapping {
	if pairs == nil {
		return nil
	}

	m := make(ColumnMapping, 0, len(pairs))
	for src, tgt := range pairs {
		m = append(m, Column{Source: src, Target: tgt})
	}

	sortBySource(m)

	return m
}

// Rich builds a mapping from source→(target, rule) pairs, sorted by source
// column.
func Rich(pairs map[string]Target) ColumnMapping {
	if pairs == nil {
		return nil
	}

	m := make(ColumnMapping, 0, len(pairs))
	for src, tgt := range pairs {
		m = append(m, Column{Source: src, Target: tgt.Column, Rule: tgt.Rule})
	}

	sortBySource(m)

	return m
}

func sortBySource(m ColumnMapping) {
	sort.SliceStable(m, func(i, j int) bool {
		return m[i].Source < m[j].Source
	})
}

// Sources returns the source column names in mapping order.
func (m ColumnMapping) Sources() []string {
	out := make([]string, len(m))
	for i, c := range m {
		out[i] = c.Source
	}

	return out
}

// Targets returns the target column names in mapping order.
func (m ColumnMapping) Targets() []string {
	out := make([]string, len(m))
	for i, c := range m {
		out[i] = c.Target
	}

	return out
}

// Rules returns the distinct rule identifiers referenced by the mapping, in
// first-seen order, with empty rules reported as DIRECT_COMPARE.
func (m ColumnMapping) Rules() []string {
	var out []string

	for _, c := range m {
		r := c.RuleOrDefault()
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}

	return out
}

// Lookup returns the entry for a source column.
func (m ColumnMapping) Lookup(source string) (Column, bool) {
	for _, c := range m {
		if c.Source == source {
			return c, true
		}
	}

	return Column{}, false
}
