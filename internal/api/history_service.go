package api

import (
	"context"

	"captionfix/internal/history"
	"captionfix/internal/services"
)

// DefaultListLimit is used when a caller does not request a limit.
const DefaultListLimit = 50

// maxListLimit caps list queries.
const maxListLimit = 1000

// HistoryReader abstracts history persistence interactions needed for API queries.
type HistoryReader interface {
	List(ctx context.Context, limit int) ([]history.Batch, error)
	Get(ctx context.Context, id string) (*history.Batch, error)
}

// HistoryService exposes read-only history operations returning API DTOs.
type HistoryService struct {
	store HistoryReader
}

// NewHistoryService constructs a HistoryService around the provided reader.
// A nil reader yields a nil service, which reports every batch as not found.
func NewHistoryService(store HistoryReader) *HistoryService {
	if store == nil {
		return nil
	}
	return &HistoryService{store: store}
}

// List returns the most recent batches, newest first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]BatchSummary, error) {
	if s == nil || s.store == nil {
		return nil, services.Wrap(services.ErrNotFound, "history", "batch history is disabled", nil)
	}
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}
	batches, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	return FromHistoryBatches(batches), nil
}

// Describe fetches a single batch with its change records.
func (s *HistoryService) Describe(ctx context.Context, id string) (*BatchDetail, error) {
	if s == nil || s.store == nil {
		return nil, services.Wrap(services.ErrNotFound, "history", "batch history is disabled", nil)
	}
	batch, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromHistoryDetail(batch)
	return &dto, nil
}
