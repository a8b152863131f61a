package transform

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"stage-reconciler/internal/mapping"
	"stage-reconciler/internal/value"
)

// Built-in rule identifiers and family prefixes.
const (
	RuleDirectCompare = mapping.DirectCompare
	RulePadLeftZero8  = "PAD_LEFT_ZERO_8"
	RuleDateDdMonYy   = "DATE_FORMAT_DD_MON_YY_TO_DD_MM_YY"

	FamilyPad  = "PAD_"
	FamilyDate = "DATE_FORMAT_"
)

// ApplyFunc transforms one non-null value.
type ApplyFunc func(v value.Value, rules *mapping.ValidationRules) (value.Value, error)

// CompareFunc decides whether a transformed expected value matches the actual
// value. Both arguments are non-null.
type CompareFunc func(expected, actual value.Value, rules *mapping.ValidationRules) bool

// Needs lists the ValidationRules sections a rule reads.
type Needs uint8

const (
	NeedsPadding Needs = 1 << iota
	NeedsDateFormats
)

// Rule is a registered transformation.
type Rule struct {
	// ID is the exact identifier, or the prefix for a family.
	ID string
	// Description is a human-readable summary used in reports.
	Description string
	// Apply transforms a value. Nil means identity.
	Apply ApplyFunc
	// Compare overrides the default tolerant comparison. Nil means Tolerant.
	Compare CompareFunc
	// Needs names the settings Apply reads.
	Needs Needs
}

// Missing reports which of the settings the rule needs are absent from rules.
func (r *Rule) Missing(rules *mapping.ValidationRules) []string {
	var missing []string

	if r.Needs&NeedsPadding != 0 && (rules == nil || rules.Padding == nil) {
		missing = append(missing, "paddingConfig")
	}

	if r.Needs&NeedsDateFormats != 0 && (rules == nil || rules.DateFormats == nil) {
		missing = append(missing, "dateFormats")
	}

	return missing
}

// Registry holds rules by identifier and by prefix family. It is filled
// during setup and read-only afterwards, so lookups are safe from multiple
// goroutines.
type Registry struct {
	rules    map[string]*Rule
	families []*Rule
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[string]*Rule),
	}
}

// DefaultRegistry returns a registry with the built-in rules.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	identity := Rule{
		ID:          RuleDirectCompare,
		Description: "Direct comparison without transformation",
	}
	pad := Rule{
		Description: "Pad to paddingConfig.targetLength with paddingConfig.padChar",
		Apply:       applyPadding,
		Compare:     TextEqual,
		Needs:       NeedsPadding,
	}
	date := Rule{
		Description: "Convert date format from dateFormats.input to dateFormats.output",
		Apply:       applyDateFormat,
		Compare:     TextEqual,
		Needs:       NeedsDateFormats,
	}

	mustAdd(r.Add(identity))

	pad.ID = RulePadLeftZero8
	mustAdd(r.Add(pad))
	pad.ID = FamilyPad
	mustAdd(r.AddFamily(pad))

	date.ID = RuleDateDdMonYy
	mustAdd(r.Add(date))
	date.ID = FamilyDate
	mustAdd(r.AddFamily(date))

	return r
}

func mustAdd(err error) {
	if err != nil {
		panic(err)
	}
}

var errDuplicateRule = errors.New("duplicate rule")

// Add registers an exact identifier.
func (r *Registry) Add(rule Rule) error {
	if rule.ID == "" {
		return errors.New("rule identifier must not be empty")
	}

	if _, exists := r.rules[rule.ID]; exists {
		return fmt.Errorf("%w %q", errDuplicateRule, rule.ID)
	}

	r.rules[rule.ID] = &rule

	return nil
}

// AddFamily registers every identifier starting with rule.ID.
func (r *Registry) AddFamily(rule Rule) error {
	if rule.ID == "" {
		return errors.New("rule family prefix must not be empty")
	}

	for _, f := range r.families {
		if f.ID == rule.ID {
			return fmt.Errorf("%w family %q", errDuplicateRule, rule.ID)
		}
	}

	r.families = append(r.families, &rule)

	// Longest prefix wins on lookup.
	sort.SliceStable(r.families, func(i, j int) bool {
		return len(r.families[i].ID) > len(r.families[j].ID)
	})

	return nil
}

// Lookup returns the rule for an identifier: an exact match first, then the
// family with the longest matching prefix.
func (r *Registry) Lookup(id string) (*Rule, bool) {
	if rule, ok := r.rules[id]; ok {
		return rule, true
	}

	for _, f := range r.families {
		if strings.HasPrefix(id, f.ID) {
			return f, true
		}
	}

	return nil, false
}

// Has returns true if the identifier resolves to a rule.
func (r *Registry) Has(id string) bool {
	_, ok := r.Lookup(id)
	return ok
}

// Names returns all exact identifiers followed by family patterns ("PAD_*"),
// each group sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.rules))
	for id := range r.rules {
		names = append(names, id)
	}

	sort.Strings(names)

	families := make([]string, 0, len(r.families))
	for _, f := range r.families {
		families = append(families, f.ID+"*")
	}

	sort.Strings(families)

	return append(names, families...)
}

// Describe returns the rule's description.
func (r *Registry) Describe(id string) string {
	rule, ok := r.Lookup(id)
	if !ok {
		return "Unknown transformation: " + id
	}

	return rule.Description
}
