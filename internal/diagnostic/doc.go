// Package diagnostic provides structured findings produced while
// reconciling two row sets: value mismatches, row-count mismatches,
// recovered transformation failures and configuration warnings.
//
// Every finding renders to a single human-readable line; those lines are
// what a validation result exposes as its error and warning lists.
package diagnostic
