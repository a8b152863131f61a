package common

// UnknownStr is printed for enum values outside their declared range.
const UnknownStr = "unknown"

// IsEmpty returns true if the slice is empty.
func IsEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}

// First returns the first element of the slice and true, or the zero value and false if empty.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// Take returns at most the first n elements of s.
func Take[S ~[]E, E any](s S, n int) S {
	if n < 0 {
		n = 0
	}

	if len(s) <= n {
		return s
	}

	return s[:n]
}

// Span is a half-open index range [Start, End).
type Span struct {
	Start int
	End   int
}

// Spans splits [0, total) into consecutive spans of at most size elements.
func Spans(total, size int) []Span {
	if total <= 0 {
		return nil
	}

	if size <= 0 {
		size = total
	}

	out := make([]Span, 0, (total+size-1)/size)
	for start := 0; start < total; start += size {
		out = append(out, Span{Start: start, End: min(start+size, total)})
	}

	return out
}
