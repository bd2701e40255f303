// Package shiftcare provides a minimal client for the ShiftCare v3 API,
// covering the paid-invoice listing and client lookups the reconciliation
// importer needs. Requests authenticate with HTTP basic auth built from the
// account id and API key; list endpoints are paginated.
package shiftcare
