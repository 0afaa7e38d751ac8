package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"captionfix/internal/caption"
	"captionfix/internal/services"
)

const batchColumns = `id, upload_name, trigger_token, trigger_found, entry_count, change_count, status, error_message, created_at`

// RecordBatch stores a successfully processed batch with its change records.
func (s *Store) RecordBatch(ctx context.Context, id, uploadName string, batch *caption.Batch) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("batch id is required")
	}
	if batch == nil {
		return errors.New("batch is required")
	}
	createdAt := formatTime(s.now())

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO batches (`+batchColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, '', ?)`,
			id, uploadName, batch.Trigger, batch.TriggerFound, batch.Entries, len(batch.Changes), string(StatusCompleted), createdAt,
		); err != nil {
			return fmt.Errorf("insert batch: %w", err)
		}
		for i, change := range batch.Changes {
			logs, err := json.Marshal(nonNil(change.Logs))
			if err != nil {
				return fmt.Errorf("encode logs: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO changes (batch_id, position, file_name, original, corrected, logs_json) VALUES (?, ?, ?, ?, ?, ?)`,
				id, i, change.FileName, change.Original, change.Corrected, string(logs),
			); err != nil {
				return fmt.Errorf("insert change %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record batch %s: %w", id, err)
	}
	return nil
}

// RecordFailure stores a batch that was rejected or failed during processing.
func (s *Store) RecordFailure(ctx context.Context, id, uploadName string, cause error) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("batch id is required")
	}
	message := "unknown error"
	if cause != nil {
		message = cause.Error()
	}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO batches (`+batchColumns+`) VALUES (?, ?, '', 0, 0, 0, ?, ?, ?)`,
			id, uploadName, string(StatusFailed), message, formatTime(s.now()),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("record failed batch %s: %w", id, err)
	}
	return nil
}

// List returns up to limit batches, newest first, without change records.
func (s *Store) List(ctx context.Context, limit int) ([]Batch, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+batchColumns+` FROM batches ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// Get returns one batch with its change records. Unknown ids yield an error
// matching services.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Batch, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+batchColumns+` FROM batches WHERE id = ?`, id)
	b, err := scanBatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.Wrap(services.ErrNotFound, "history", fmt.Sprintf("batch %q", id), nil)
		}
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT file_name, original, corrected, logs_json FROM changes WHERE batch_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load changes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			change caption.ChangeRecord
			logs   string
		)
		if err := rows.Scan(&change.FileName, &change.Original, &change.Corrected, &logs); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		if err := json.Unmarshal([]byte(logs), &change.Logs); err != nil {
			return nil, fmt.Errorf("decode logs: %w", err)
		}
		b.Changes = append(b.Changes, change)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Prune deletes batches older than maxAge. A non-positive maxAge keeps
// everything.
func (s *Store) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	cutoff := formatTime(s.now().Add(-maxAge))
	var removed int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM batches WHERE created_at < ?`, cutoff)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	return removed, nil
}

// Stats returns aggregate counts across all recorded batches.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var stats Stats
	err := s.db.QueryRowContext(ctx, `SELECT
		COUNT(1),
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(change_count), 0)
		FROM batches`, string(StatusCompleted), string(StatusFailed),
	).Scan(&stats.Total, &stats.Completed, &stats.Failed, &stats.Changes)
	if err != nil {
		return Stats{}, fmt.Errorf("history stats: %w", err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (Batch, error) {
	var (
		b         Batch
		status    string
		createdAt string
	)
	if err := row.Scan(&b.ID, &b.UploadName, &b.Trigger, &b.TriggerFound, &b.EntryCount,
		&b.ChangeCount, &status, &b.ErrorMessage, &createdAt); err != nil {
		return Batch{}, err
	}
	b.Status = Status(status)
	b.CreatedAt = parseTime(createdAt)
	return b, nil
}

func nonNil(logs []string) []string {
	if logs == nil {
		return []string{}
	}
	return logs
}
