// Package value defines the scalar cell model shared by row sets and the
// comparison engine.
//
// A Value is a closed tagged union over four kinds:
//
//   - Null    - absent or empty cell
//   - Integer - signed 64-bit integer
//   - Float   - 64-bit floating point
//   - Text    - any other string content
//
// Providers (CSV readers, query executors) build values through FromAny or
// ParseCell; the engine never inspects Go dynamic types at comparison time.
//
// # Coercion rules
//
// String forms are canonical: integers print in base 10, floats print with the
// shortest representation that round-trips ("100.1", "100"), null prints as
// "null" and text prints verbatim. Numeric views are available for Integer and
// Float directly and for Text through ParseNumber when the content is a finite
// decimal number.
package value
