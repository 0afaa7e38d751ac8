package history

import (
	"time"

	"captionfix/internal/caption"
)

// Status records how a batch finished.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Batch is one recorded processing run.
type Batch struct {
	ID           string
	UploadName   string
	Trigger      string
	TriggerFound bool
	EntryCount   int
	ChangeCount  int
	Status       Status
	ErrorMessage string
	CreatedAt    time.Time

	// Changes is populated by Get only.
	Changes []caption.ChangeRecord
}

// Stats summarizes the history database.
type Stats struct {
	Total     int
	Completed int
	Failed    int
	Changes   int
}
