package transform

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"stage-reconciler/internal/mapping"
	"stage-reconciler/internal/value"
)

var (
	// ErrMissingSettings reports a rule whose ValidationRules section is absent.
	ErrMissingSettings = errors.New("transformation settings missing")
	// ErrInvalidPadding reports an unusable padding configuration.
	ErrInvalidPadding = errors.New("invalid padding configuration")
)

func applyPadding(v value.Value, rules *mapping.ValidationRules) (value.Value, error) {
	if rules == nil || rules.Padding == nil {
		return v, fmt.Errorf("%w: paddingConfig", ErrMissingSettings)
	}

	s, err := Pad(v.String(), *rules.Padding)
	if err != nil {
		return v, err
	}

	return value.Text(s), nil
}

// Pad pads s to p.TargetLength characters with p.PadChar on the side given
// by p.PadDirection. Strings already at or beyond the target length are
// returned unchanged. A multi-character PadChar is repeated and cut to fit.
func Pad(s string, p mapping.Padding) (string, error) {
	n := utf8.RuneCountInString(s)
	if n >= p.TargetLength {
		return s, nil
	}

	if p.PadChar == "" {
		return s, fmt.Errorf("%w: empty pad character", ErrInvalidPadding)
	}

	fill := repeatRunes(p.PadChar, p.TargetLength-n)

	switch {
	case p.PadDirection.IsLeft():
		return fill + s, nil
	case strings.EqualFold(string(p.PadDirection), string(mapping.PadRight)):
		return s + fill, nil
	default:
		return s, fmt.Errorf("%w: direction %q", ErrInvalidPadding, p.PadDirection)
	}
}

// repeatRunes cycles through pattern until count runes have been written.
func repeatRunes(pattern string, count int) string {
	runes := []rune(pattern)

	var b strings.Builder

	b.Grow(count * utf8.UTFMax)

	for i := 0; i < count; i++ {
		b.WriteRune(runes[i%len(runes)])
	}

	return b.String()
}
