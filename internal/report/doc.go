// Package report aggregates match results into reconciliation summaries
// and writes per-run JSON report files.
//
// Aggregation is pure: a Summary is computed from a slice of match
// results and the thresholds in force, and confidence bands are always
// recomputed from scores rather than read from stored state.
package report
