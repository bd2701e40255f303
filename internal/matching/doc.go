// Package matching turns transactions into confidence-scored match
// decisions against the client registry.
//
// The Matcher runs a strict strategy cascade per transaction: exact
// platform identifier, exact email, paper-receipt name+suburb matching,
// fuzzy name against the description, then address search. The first
// strategy that yields a match wins; strategies are never combined or
// voted. Continuous scores are translated into discrete confidence bands
// in exactly one place (Thresholds) so scoring and reporting cannot
// disagree, and the review flag follows from the band.
//
// A secondary post-review pass re-resolves transactions a human has
// annotated with extracted PII, then propagates newly discovered
// email-to-client mappings across the batch.
package matching
