// Package transform applies named transformation rules to single values and
// decides whether a (possibly transformed) expected value matches an actual
// one.
//
// Rules live in a Registry keyed by identifier. An identifier is either an
// exact name (DIRECT_COMPARE, PAD_LEFT_ZERO_8) or belongs to a family
// registered by prefix (every PAD_... and DATE_FORMAT_... identifier). The
// identifier only selects the rule; its parameters always come from
// mapping.ValidationRules.
//
// # Built-in rules
//
//   - DIRECT_COMPARE: identity, compared with numeric tolerance
//   - PAD_*: pad the string form to paddingConfig.targetLength
//   - DATE_FORMAT_*: parse with dateFormats.input, print with dateFormats.output
//
// # Comparison
//
// Null handling comes first: two nulls match, a single null never does.
// Identity-style rules then compare numerically when both sides are numbers,
// or when one side is a number and the other is text holding a decimal
// number, matching iff |expected - actual| <= numericTolerance. Everything
// else, including the formatted output of padding and date rules, is
// compared by string form.
//
// A rule that cannot transform a value (an unparseable date, for instance)
// hands back the original value together with an error; callers record the
// error as a warning and carry on comparing.
package transform
