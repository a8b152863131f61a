package transform

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"stage-reconciler/internal/mapping"
	"stage-reconciler/internal/value"
)

var (
	// ErrUnsupportedPattern reports a date pattern letter with no layout equivalent.
	ErrUnsupportedPattern = errors.New("unsupported date pattern")
	// ErrUnparseableDate reports a value that does not match the input pattern.
	ErrUnparseableDate = errors.New("unparseable date")
)

func applyDateFormat(v value.Value, rules *mapping.ValidationRules) (value.Value, error) {
	if rules == nil || rules.DateFormats == nil {
		return v, fmt.Errorf("%w: dateFormats", ErrMissingSettings)
	}

	s, err := Reformat(v.String(), *rules.DateFormats)
	if err != nil {
		return v, err
	}

	return value.Text(s), nil
}

// Reformat parses s with f.Input and prints it with f.Output.
func Reformat(s string, f mapping.DateFormats) (string, error) {
	in, err := Layout(f.Input)
	if err != nil {
		return s, fmt.Errorf("input pattern: %w", err)
	}

	out, err := Layout(f.Output)
	if err != nil {
		return s, fmt.Errorf("output pattern: %w", err)
	}

	t, err := time.Parse(in, strings.TrimSpace(s))
	if err != nil {
		return s, fmt.Errorf("%w %q with pattern %q: %w", ErrUnparseableDate, s, f.Input, err)
	}

	return t.Format(out), nil
}

// Layout translates a letter-based date pattern ("dd-MMM-yy",
// "yyyy-MM-dd'T'HH:mm:ss.SSS") into a time package layout.
//
// Supported letters: y, M, d, D, E, H, h, m, s, S, a, z, Z, X. Text inside
// single quotes is literal and '' is a literal quote. The time package has no
// escape syntax, so literal digits and literal text that would read as a
// layout element ("Mon", "PM", "_" before a day) are rejected.
func Layout(pattern string) (string, error) {
	if pattern == "" {
		return "", fmt.Errorf("%w: empty pattern", ErrUnsupportedPattern)
	}

	var b strings.Builder

	runes := []rune(pattern)

	for i := 0; i < len(runes); {
		r := runes[i]

		if r == '\'' {
			lit, next, err := quoted(runes, i)
			if err != nil {
				return "", err
			}

			if err := writeLiteral(&b, lit); err != nil {
				return "", err
			}

			i = next

			continue
		}

		if !isPatternLetter(r) {
			if err := writeLiteral(&b, string(r)); err != nil {
				return "", err
			}

			i++

			continue
		}

		n := 1
		for i+n < len(runes) && runes[i+n] == r {
			n++
		}

		elem, err := layoutElement(r, n, &b)
		if err != nil {
			return "", err
		}

		if tok, ok := straddles(b.String(), elem); ok {
			return "", fmt.Errorf("%w: %q before %q reads as %q", ErrUnsupportedPattern, b.String(), elem, tok)
		}

		b.WriteString(elem)

		i += n
	}

	return b.String(), nil
}

// quoted reads a quoted literal starting at runes[start] == '\''.
func quoted(runes []rune, start int) (string, int, error) {
	// '' outside a quoted section is one literal quote.
	if start+1 < len(runes) && runes[start+1] == '\'' {
		return "'", start + 2, nil
	}

	var lit strings.Builder

	for i := start + 1; i < len(runes); i++ {
		if runes[i] != '\'' {
			lit.WriteRune(runes[i])
			continue
		}

		if i+1 < len(runes) && runes[i+1] == '\'' {
			lit.WriteRune('\'')
			i++

			continue
		}

		return lit.String(), i + 1, nil
	}

	return "", 0, fmt.Errorf("%w: unterminated quote in %q", ErrUnsupportedPattern, string(runes))
}

func writeLiteral(b *strings.Builder, lit string) error {
	for _, r := range lit {
		if r >= '0' && r <= '9' {
			return fmt.Errorf("%w: literal digit %q", ErrUnsupportedPattern, r)
		}
	}

	for _, tok := range layoutTokens {
		if strings.Contains(lit, tok) {
			return fmt.Errorf("%w: literal %q reads as a layout element", ErrUnsupportedPattern, lit)
		}
	}

	if tok, ok := straddles(b.String(), lit); ok {
		return fmt.Errorf("%w: literal %q joins the preceding element into %q", ErrUnsupportedPattern, lit, tok)
	}

	b.WriteString(lit)

	return nil
}

// layoutTokens are the letter and underscore elements of the time package.
// Numeric elements are covered by rejecting literal digits.
var layoutTokens = []string{"January", "Jan", "Monday", "Mon", "MST", "PM", "pm", "_2"}

// straddles reports a layout token formed across the end of prev and the
// start of next.
func straddles(prev, next string) (string, bool) {
	for _, tok := range layoutTokens {
		for k := 1; k < len(tok); k++ {
			if !strings.HasSuffix(prev, tok[:k]) || !strings.HasPrefix(next, tok[k:]) {
				continue
			}

			// "_2006" is a literal underscore before the year.
			if tok == "_2" && strings.HasPrefix(next, "2006") {
				continue
			}

			return tok, true
		}
	}

	return "", false
}

func isPatternLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// layoutElement maps a run of n identical pattern letters to a layout element.
func layoutElement(letter rune, n int, b *strings.Builder) (string, error) {
	switch letter {
	case 'y':
		if n == 2 {
			return "06", nil
		}

		return "2006", nil
	case 'M':
		switch n {
		case 1:
			return "1", nil
		case 2:
			return "01", nil
		case 3:
			return "Jan", nil
		default:
			return "January", nil
		}
	case 'd':
		if n == 1 {
			return "2", nil
		}

		return "02", nil
	case 'D':
		return "002", nil
	case 'E':
		if n <= 3 {
			return "Mon", nil
		}

		return "Monday", nil
	case 'H':
		return "15", nil
	case 'h':
		if n == 1 {
			return "3", nil
		}

		return "03", nil
	case 'm':
		if n == 1 {
			return "4", nil
		}

		return "04", nil
	case 's':
		if n == 1 {
			return "5", nil
		}

		return "05", nil
	case 'S':
		// Fractions must follow a '.' or ',' in the layout.
		s := b.String()
		if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, ",") {
			return "", fmt.Errorf("%w: fraction %q must follow '.' or ','", ErrUnsupportedPattern, strings.Repeat("S", n))
		}

		return strings.Repeat("0", n), nil
	case 'a':
		return "PM", nil
	case 'z':
		return "MST", nil
	case 'Z':
		return "-0700", nil
	case 'X':
		return "Z07:00", nil
	default:
		return "", fmt.Errorf("%w: letter %q", ErrUnsupportedPattern, letter)
	}
}
