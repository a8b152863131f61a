package transform

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"stage-reconciler/internal/mapping"
	"stage-reconciler/internal/value"
)

// Error describes a recoverable transformation failure. The value it was
// raised for is passed through unchanged.
type Error struct {
	Rule  string
	Input value.Value
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transformation %q failed for value '%s': %v", e.Rule, e.Input, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Comparison is the outcome of evaluating one expected/actual pair.
type Comparison struct {
	// Matched reports whether the pair is considered equal.
	Matched bool
	// Transformed is the expected value after the rule was applied.
	Transformed value.Value
	// Known is false when the rule identifier is not registered.
	Known bool
	// Err is a recovered transformation failure, if any.
	Err error
}

// Transformer applies rules from a Registry. It keeps no per-call state and
// may be shared between goroutines.
type Transformer struct {
	registry *Registry
	log      *log.Entry
}

// New creates a transformer over registry. A nil registry means
// DefaultRegistry and a nil logger means the standard logrus logger.
func New(registry *Registry, logger *log.Entry) *Transformer {
	if registry == nil {
		registry = DefaultRegistry()
	}

	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}

	return &Transformer{
		registry: registry,
		log:      logger.WithField("component", "transformer"),
	}
}

// Registry returns the rule registry in use.
func (t *Transformer) Registry() *Registry {
	return t.registry
}

// Transform applies ruleID to v. Null stays null. Unknown rules are logged
// and leave v unchanged. When the rule fails, v is returned unchanged along
// with an *Error.
func (t *Transformer) Transform(v value.Value, ruleID string, rules *mapping.ValidationRules) (value.Value, error) {
	if v.IsNull() {
		return v, nil
	}

	rule, ok := t.registry.Lookup(ruleID)
	if !ok {
		t.log.WithField("rule", ruleID).Warn("Unknown transformation rule, value passed through")
		return v, nil
	}

	return t.apply(rule, ruleID, v, rules)
}

func (t *Transformer) apply(rule *Rule, ruleID string, v value.Value, rules *mapping.ValidationRules) (value.Value, error) {
	if rule.Apply == nil {
		return v, nil
	}

	out, err := rule.Apply(v, rules)
	if err != nil {
		t.log.WithFields(log.Fields{
			"rule":  ruleID,
			"value": v.String(),
		}).WithError(err).Warn("Transformation failed, original value kept")

		return v, &Error{Rule: ruleID, Input: v, Err: err}
	}

	return out, nil
}

// Evaluate transforms expected with ruleID and compares it to actual.
func (t *Transformer) Evaluate(expected, actual value.Value, ruleID string, rules *mapping.ValidationRules) Comparison {
	rule, known := t.registry.Lookup(ruleID)

	if expected.IsNull() || actual.IsNull() {
		return Comparison{
			Matched:     expected.IsNull() && actual.IsNull(),
			Transformed: t.transformQuiet(rule, expected, rules),
			Known:       known,
		}
	}

	if !known {
		// Per-cell; callers report unknown rules once per column.
		t.log.WithField("rule", ruleID).Debug("Unknown transformation rule, value passed through")

		return Comparison{
			Matched:     tolerantCompare(expected, actual, rules),
			Transformed: expected,
		}
	}

	transformed, err := t.apply(rule, ruleID, expected, rules)

	compare := rule.Compare
	if compare == nil || err != nil {
		compare = tolerantCompare
	}

	return Comparison{
		Matched:     compare(transformed, actual, rules),
		Transformed: transformed,
		Known:       true,
		Err:         err,
	}
}

// transformQuiet computes the transformed value for diagnostics only.
func (t *Transformer) transformQuiet(rule *Rule, v value.Value, rules *mapping.ValidationRules) value.Value {
	if rule == nil || rule.Apply == nil || v.IsNull() {
		return v
	}

	out, err := rule.Apply(v, rules)
	if err != nil {
		return v
	}

	return out
}

// Compare reports whether expected, after ruleID is applied, matches actual.
func (t *Transformer) Compare(expected, actual value.Value, ruleID string, rules *mapping.ValidationRules) bool {
	return t.Evaluate(expected, actual, ruleID, rules).Matched
}

// Describe returns the description of ruleID.
func (t *Transformer) Describe(ruleID string) string {
	return t.registry.Describe(ruleID)
}
