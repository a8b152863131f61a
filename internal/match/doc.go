// Package match scores column-name similarity so that warnings about
// mapped columns missing from a row set can suggest the names that were
// probably meant.
//
// Key functions:
//   - NormalizeColumn: folds case and strips separators and quoting
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks candidate column names against a missing one
package match
