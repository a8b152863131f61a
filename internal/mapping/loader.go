package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse parses YAML data into a Config. File access belongs to the caller.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reconciliation YAML: %w", err)
	}

	// Apply defaults and normalize
	applyDefaults(&cfg)

	return &cfg, nil
}

// ParseRules parses a standalone validationRules document.
func ParseRules(data []byte) (*ValidationRules, error) {
	var r ValidationRules

	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse validation rules YAML: %w", err)
	}

	applyRuleDefaults(&r)

	return &r, nil
}

// ParseColumnMapping parses a standalone column mapping document.
func ParseColumnMapping(data []byte) (ColumnMapping, error) {
	var m ColumnMapping

	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse column mapping YAML: %w", err)
	}

	return m, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(cfg *Config) {
	if cfg.Rules != nil {
		applyRuleDefaults(cfg.Rules)
	}

	if cfg.Curated != nil {
		for i := range cfg.Curated.ColumnMappings {
			c := &cfg.Curated.ColumnMappings[i]
			if c.Rule == "" {
				c.Rule = DirectCompare
			}
		}
	}
}

func applyRuleDefaults(r *ValidationRules) {
	if r.Padding == nil {
		return
	}

	if r.Padding.PadChar == "" {
		r.Padding.PadChar = "0"
	}

	if r.Padding.PadDirection == "" {
		r.Padding.PadDirection = PadLeft
	}
}

// Marshal serializes a Config to YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
