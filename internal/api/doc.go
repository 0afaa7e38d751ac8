// Package api defines wire-format types and converters for the HTTP API.
// It translates history records into transport-friendly DTOs so the server
// and CLI render the same shapes without coupling to storage types.
//
// # Key Types
//
// BatchSummary: one recorded batch with counts, status and timestamp.
//
// BatchDetail: a summary plus the ordered change records.
//
// HealthResponse: the payload of GET /.
//
// # Design Notes
//
// DTOs use snake_case JSON tags to match the change-record fields
// (file_name, original, corrected, logs) clients already consume. Timestamps
// use RFC3339 with milliseconds in UTC.
package api
