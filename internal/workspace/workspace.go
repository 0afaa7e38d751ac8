package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"captionfix/internal/logging"
)

const dirPrefix = "batch-"

// Manager creates and releases batch workspaces under a single root.
type Manager struct {
	root   string
	keep   bool
	logger *slog.Logger
}

// NewManager returns a Manager rooted at root. When keep is true, released
// workspaces are left on disk for inspection.
func NewManager(root string, keep bool, logger *slog.Logger) *Manager {
	return &Manager{
		root:   strings.TrimSpace(root),
		keep:   keep,
		logger: logging.NewComponentLogger(logger, "workspace"),
	}
}

// Root returns the directory that holds all batch workspaces.
func (m *Manager) Root() string {
	return m.root
}

// Workspace is an isolated directory owned by one batch.
type Workspace struct {
	ID  string
	Dir string

	manager *Manager
}

// Create allocates a new workspace. An empty id is replaced with a random UUID.
func (m *Manager) Create(id string) (*Workspace, error) {
	if m.root == "" {
		return nil, errors.New("workspace root not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.NewString()
	}
	if err := uuid.Validate(id); err != nil {
		return nil, fmt.Errorf("workspace id %q: %w", id, err)
	}
	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	dir := filepath.Join(m.root, dirPrefix+id)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace %s: %w", id, err)
	}
	m.logger.Debug("workspace created",
		logging.String(logging.FieldBatchID, id),
		logging.String("path", dir),
		logging.String(logging.FieldEventType, "workspace_created"),
	)
	return &Workspace{ID: id, Dir: dir, manager: m}, nil
}

// Path joins name onto the workspace directory.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// Release removes the workspace directory unless the manager keeps workspaces.
// It is safe to call more than once.
func (w *Workspace) Release() error {
	if w == nil || w.manager == nil {
		return nil
	}
	if w.manager.keep {
		w.manager.logger.Info("workspace kept",
			logging.String(logging.FieldBatchID, w.ID),
			logging.String("path", w.Dir),
			logging.String(logging.FieldEventType, "workspace_kept"),
		)
		return nil
	}
	if err := os.RemoveAll(w.Dir); err != nil {
		logging.WarnWithContext(w.manager.logger, "failed to remove workspace", "workspace_cleanup_failed",
			logging.String(logging.FieldBatchID, w.ID),
			logging.String("path", w.Dir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check work_dir permissions"),
			logging.String(logging.FieldImpact, "disk space not reclaimed until the janitor runs"),
		)
		return fmt.Errorf("remove workspace %s: %w", w.ID, err)
	}
	return nil
}
