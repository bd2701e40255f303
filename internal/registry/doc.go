// Package registry loads the authoritative client registry snapshot and
// exposes the lookup surfaces the matching engine runs against.
//
// A Snapshot is built once from a JSON registry file (flat id-to-record map
// or a metadata envelope with a clients list), owns the derived email, name,
// and platform indices, and is immutable for its entire lifetime. The
// Registry handle publishes the active snapshot through an atomic pointer so
// reloads never expose a half-built index to in-flight resolutions.
//
// Address search lives here too: candidate addresses are canonicalized with
// NormalizeAddress and scored with partial-ratio similarity plus suburb and
// postcode containment heuristics.
package registry
