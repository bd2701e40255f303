// Package textutil provides the string similarity primitives used by the
// matching engine.
//
// The primary use cases are:
//   - Levenshtein edit distance between two strings
//   - Whole-string similarity ratio in [0, 1]
//   - Partial ratio: the best ratio of the shorter string against any
//     equally sized window of the longer string
//
// All scores are fractions in [0, 1] so they can be compared directly
// against configured confidence thresholds.
package textutil
