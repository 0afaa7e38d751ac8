package api

import (
	"captionfix/internal/caption"
	"captionfix/internal/history"
)

// FromHistoryBatch converts a history record to its summary representation.
func FromHistoryBatch(b history.Batch) BatchSummary {
	dto := BatchSummary{
		ID:           b.ID,
		UploadName:   b.UploadName,
		Trigger:      b.Trigger,
		TriggerFound: b.TriggerFound,
		EntryCount:   b.EntryCount,
		ChangeCount:  b.ChangeCount,
		Status:       string(b.Status),
		ErrorMessage: b.ErrorMessage,
	}
	if !b.CreatedAt.IsZero() {
		dto.CreatedAt = b.CreatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromHistoryBatches converts a slice of history records, never returning nil.
func FromHistoryBatches(batches []history.Batch) []BatchSummary {
	out := make([]BatchSummary, 0, len(batches))
	for _, b := range batches {
		out = append(out, FromHistoryBatch(b))
	}
	return out
}

// FromHistoryDetail converts a history record including its change records.
func FromHistoryDetail(b *history.Batch) BatchDetail {
	if b == nil {
		return BatchDetail{Changes: []caption.ChangeRecord{}}
	}
	changes := b.Changes
	if changes == nil {
		changes = []caption.ChangeRecord{}
	}
	return BatchDetail{BatchSummary: FromHistoryBatch(*b), Changes: changes}
}
