// Package importers turns platform-specific transaction sources into the
// normalized transactions the matcher consumes.
//
// Each importer owns one source shape: bank statement CSV exports, Stripe
// payment CSV exports, hand-keyed paper receipt spreadsheets, reviewed
// spreadsheets coming back from manual PII extraction, and the ShiftCare
// invoice API. Importers are strict about required columns but lenient
// about rows: a malformed row is logged and skipped so one bad entry never
// sinks a reconciliation run.
//
// Reconcile is the shared run workflow. It extracts, resolves the batch
// through the matcher, and returns the run summary with a fresh run id.
package importers
