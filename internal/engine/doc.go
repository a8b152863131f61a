// Package engine compares two row sets under a column mapping and produces
// a result.Result.
//
// Rows are paired strictly by position: record i of the source is compared
// with record i of the target and no key-based join is attempted. When an
// upstream stage reorders rows, every shifted pair is reported as a
// mismatch. Callers that need key matching must sort both sets first.
//
// The engine distinguishes two kinds of failure. Data that does not match
// is reported inside the result and never as an error. A mapping or rules
// object that cannot drive a comparison at all is returned as an error and
// no result is produced.
package engine
