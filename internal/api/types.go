package api

import "captionfix/internal/caption"

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// HealthMessage is the fixed status reported by the root endpoint.
const HealthMessage = "API is working!"

// HealthResponse is returned by GET /.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BatchSummary describes a recorded batch without its change records.
type BatchSummary struct {
	ID           string `json:"id"`
	UploadName   string `json:"upload_name"`
	Trigger      string `json:"trigger"`
	TriggerFound bool   `json:"trigger_found"`
	EntryCount   int    `json:"entry_count"`
	ChangeCount  int    `json:"change_count"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// BatchDetail is a batch summary with its ordered change records.
type BatchDetail struct {
	BatchSummary
	Changes []caption.ChangeRecord `json:"changes"`
}

// BatchListResponse wraps a collection of batches for API responses.
type BatchListResponse struct {
	Batches []BatchSummary `json:"batches"`
}

// BatchResponse wraps a single batch for API responses.
type BatchResponse struct {
	Batch BatchDetail `json:"batch"`
}
