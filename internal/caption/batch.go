package caption

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"captionfix/internal/logging"
)

// TriggerPolicy selects what happens when no trigger token can be detected.
type TriggerPolicy string

const (
	// TriggerPolicySkip disables trigger enforcement for the batch.
	TriggerPolicySkip TriggerPolicy = "skip"
	// TriggerPolicyError aborts the batch with NoTriggerCandidateError.
	TriggerPolicyError TriggerPolicy = "error"
)

// ParseTriggerPolicy validates a configured policy name.
func ParseTriggerPolicy(value string) (TriggerPolicy, error) {
	switch TriggerPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", TriggerPolicySkip:
		return TriggerPolicySkip, nil
	case TriggerPolicyError:
		return TriggerPolicyError, nil
	default:
		return "", fmt.Errorf("unknown missing-trigger policy %q (want %q or %q)", value, TriggerPolicySkip, TriggerPolicyError)
	}
}

// ChangeRecord describes one caption whose description was rewritten.
type ChangeRecord struct {
	FileName  string   `json:"file_name"`
	Original  string   `json:"original"`
	Corrected string   `json:"corrected"`
	Logs      []string `json:"logs"`
}

// Batch is the result of processing one caption file.
type Batch struct {
	Trigger      string
	TriggerFound bool
	Entries      int
	Changes      []ChangeRecord
}

// Options configures a Processor.
type Options struct {
	MissingTrigger TriggerPolicy
	Replacements   []Replacement
}

// Processor runs whole batches through the parser, trigger analyzer and
// rule engine.
type Processor struct {
	opts   Options
	logger *slog.Logger
}

// NewProcessor constructs a processor. A nil logger discards output.
func NewProcessor(opts Options, logger *slog.Logger) *Processor {
	if opts.MissingTrigger == "" {
		opts.MissingTrigger = TriggerPolicySkip
	}
	return &Processor{
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "caption"),
	}
}

// Process parses lines, detects the trigger and corrects every entry. Any
// parse failure aborts the batch before a single entry is corrected.
func (p *Processor) Process(ctx context.Context, lines []string) (*Batch, error) {
	logger := logging.WithContext(ctx, p.logger)

	entries, err := ParseLines(lines)
	if err != nil {
		return nil, err
	}

	batch := &Batch{Entries: len(entries)}
	engineOpts := []EngineOption{WithReplacements(p.opts.Replacements)}

	trigger, err := DetectTrigger(entries)
	var noTrigger *NoTriggerCandidateError
	switch {
	case err == nil:
		batch.Trigger = trigger
		batch.TriggerFound = true
		engineOpts = append(engineOpts, WithTrigger(trigger))
		logger.Debug("trigger token detected",
			logging.String(logging.FieldEventType, "trigger_detected"),
			logging.String("trigger", trigger),
		)
	case errors.As(err, &noTrigger) && p.opts.MissingTrigger == TriggerPolicySkip:
		logging.WarnWithContext(logger, "no trigger token detected", "trigger_missing",
			logging.Int("entries", len(entries)),
			logging.String(logging.FieldErrorHint, "prefix descriptions with '<trigger>, '"),
			logging.String(logging.FieldImpact, "trigger enforcement skipped for this batch"),
		)
	default:
		return nil, err
	}

	engine := NewEngine(engineOpts...)
	for _, entry := range entries {
		record, changed := correctEntry(engine, entry)
		if !changed {
			logger.Debug("caption unchanged",
				logging.String("file", strings.TrimSpace(entry.FileName)),
				logging.String("note", NoteUnchanged),
			)
			continue
		}
		batch.Changes = append(batch.Changes, record)
	}

	logger.Info("caption batch processed",
		logging.String(logging.FieldEventType, "batch_processed"),
		logging.Int("entries", batch.Entries),
		logging.Int("changed", len(batch.Changes)),
		logging.Bool("trigger_found", batch.TriggerFound),
	)
	return batch, nil
}

func correctEntry(engine *Engine, entry Entry) (ChangeRecord, bool) {
	original := strings.TrimSpace(entry.Description)
	correction := engine.Correct(entry.Description)
	corrected := strings.TrimSpace(correction.Text)
	if corrected == original {
		return ChangeRecord{}, false
	}
	return ChangeRecord{
		FileName:  strings.TrimSpace(entry.FileName),
		Original:  original,
		Corrected: corrected,
		Logs:      correction.Notes,
	}, true
}

// Process runs lines through a processor with default options.
func Process(lines []string) (*Batch, error) {
	return NewProcessor(Options{}, nil).Process(context.Background(), lines)
}
