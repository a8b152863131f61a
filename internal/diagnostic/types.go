package diagnostic

import (
	"errors"
	"strings"

	"stage-reconciler/internal/common"
)

// Codes used by the engine and configuration validation.
const (
	CodeRowCountMismatch  = "row_count_mismatch"
	CodeValueMismatch     = "value_mismatch"
	CodeTransformFailed   = "transform_failed"
	CodeUnknownRule       = "unknown_rule"
	CodeColumnNotFound    = "column_not_found"
	CodeInvalidConfig     = "invalid_config"
	CodeMissingStage      = "missing_stage"
	CodeRuleNeedsSettings = "rule_needs_settings"
)

// Diagnostics holds findings grouped by severity, each group in the order
// findings were added.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single finding.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Record is the 1-based record number, or 0 when not record specific.
	Record int
	// SourceColumn and TargetColumn identify the mapped column pair (if any).
	SourceColumn string
	TargetColumn string
	// Rule is the transformation rule in effect (if any).
	Rule string
	// Expected, Transformed and Actual carry the compared values in their
	// string form. Transformed is empty when no rule was applied.
	Expected    string
	Transformed string
	Actual      string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add appends d to the group matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case DiagnosticError:
		d.Errors = append(d.Errors, diag)
	case DiagnosticWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message string) {
	d.Add(Diagnostic{Severity: DiagnosticError, Code: code, Message: message})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message string) {
	d.Add(Diagnostic{Severity: DiagnosticWarning, Code: code, Message: message})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message string) {
	d.Add(Diagnostic{Severity: DiagnosticInfo, Code: code, Message: message})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	return errors.New(strings.Join(Lines(d.Errors), "; "))
}

// Lines renders each diagnostic with String, keeping order.
func Lines(diags []Diagnostic) []string {
	if len(diags) == 0 {
		return []string{}
	}

	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.String()
	}

	return out
}

// String returns the message followed by any suggestions.
func (d Diagnostic) String() string {
	if len(d.Suggestions) == 0 {
		return d.Message
	}

	return d.Message + " (did you mean: " + strings.Join(d.Suggestions, ", ") + "?)"
}
