package mapping

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"stage-reconciler/internal/diagnostic"
)

var (
	// ErrMissingMapping reports a nil column mapping.
	ErrMissingMapping = errors.New("column mapping is missing")
	// ErrInvalidMapping reports a mapping with blank or duplicated columns.
	ErrInvalidMapping = errors.New("column mapping is invalid")
	// ErrMissingRules reports a transformation comparison without rules.
	ErrMissingRules = errors.New("validation rules are missing")
	// ErrInvalidRules reports rules whose values are out of range.
	ErrInvalidRules = errors.New("validation rules are invalid")
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	err := v.RegisterValidation("paddirection", func(fl validator.FieldLevel) bool {
		return PadDirection(fl.Field().String()).IsValid()
	})
	if err != nil {
		panic(err)
	}

	return v
}

// ValidateMapping checks that m is present, that every entry has both a
// source and a target column and that no source column repeats. An empty
// mapping is valid and checks no columns.
func ValidateMapping(m ColumnMapping) error {
	if m == nil {
		return ErrMissingMapping
	}

	var problems []string

	seen := make(map[string]struct{}, len(m))

	for i, c := range m {
		if err := structValidator.Struct(c); err != nil {
			for _, msg := range validatorMessages(err) {
				problems = append(problems, fmt.Sprintf("entry %d: %s", i+1, msg))
			}

			continue
		}

		if _, dup := seen[c.Source]; dup {
			problems = append(problems, fmt.Sprintf("entry %d: duplicate source column %q", i+1, c.Source))
		}

		seen[c.Source] = struct{}{}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidMapping, strings.Join(problems, "; "))
	}

	return nil
}

// ValidateRules checks tolerance, padding and date settings.
func ValidateRules(r *ValidationRules) error {
	if r == nil {
		return ErrMissingRules
	}

	if err := structValidator.Struct(r); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRules, strings.Join(validatorMessages(err), "; "))
	}

	return nil
}

// Validate checks a whole reconciliation document and reports every problem
// found, rather than stopping at the first.
func Validate(cfg *Config) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if cfg == nil {
		res.AddError(diagnostic.CodeInvalidConfig, "configuration is nil")
		return res
	}

	if cfg.Staging == nil && cfg.Curated == nil {
		res.AddError(diagnostic.CodeMissingStage, "configuration defines no validation stage")
	}

	if cfg.Staging != nil {
		validateStage(res, "csvToBronzeValidation", cfg.Staging)
	}

	if cfg.Curated != nil {
		validateStage(res, "bronzeToSilverValidation", cfg.Curated)

		if cfg.Rules == nil {
			res.AddError(diagnostic.CodeInvalidConfig,
				"bronzeToSilverValidation requires validationRules")
		}
	}

	if cfg.Rules != nil {
		if err := ValidateRules(cfg.Rules); err != nil {
			res.AddError(diagnostic.CodeInvalidConfig, "validationRules: "+err.Error())
		}
	}

	return res
}

func validateStage(res *diagnostic.Diagnostics, name string, stage any) {
	if err := structValidator.Struct(stage); err != nil {
		for _, msg := range validatorMessages(err) {
			res.AddError(diagnostic.CodeInvalidConfig, name+": "+msg)
		}

		return
	}

	var m ColumnMapping

	switch s := stage.(type) {
	case *StagingConfig:
		m = s.ColumnMappings
	case *CuratedConfig:
		m = s.ColumnMappings
	}

	if err := ValidateMapping(m); err != nil {
		res.AddError(diagnostic.CodeInvalidConfig, name+": "+err.Error())
	}
}

// validatorMessages converts validator.ValidationErrors into readable lines.
func validatorMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, fmt.Sprintf("%s: %s", e.Namespace(), formatValidatorMessage(e)))
	}

	return out
}

// formatValidatorMessage formats a validator error into a readable message.
func formatValidatorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", e.Param())
	case "gte":
		return fmt.Sprintf("value %v must be at least %s", e.Value(), e.Param())
	case "paddirection":
		return fmt.Sprintf("pad direction %q must be LEFT or RIGHT", e.Value())
	default:
		msg := fmt.Sprintf("validation failed on '%s' tag", e.Tag())
		if e.Param() != "" {
			msg += fmt.Sprintf(" (param: %s)", e.Param())
		}

		return msg
	}
}
