// Package store persists reconciliation runs and their match results in
// SQLite.
//
// The Store manages database connections, schema initialization, and the
// queries behind run history, per-run result listings, and unmatched-result
// exports. Each run row carries the aggregate counts a summary table needs;
// the per-transaction evidence lives in match_results with the structured
// details serialized as JSON.
//
// The database is an archive of completed runs, not in-flight state. Schema
// changes bump the version in schema.go; users clear the database to adopt
// the new schema.
package store
