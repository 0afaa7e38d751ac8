package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"captionfix/internal/caption"
	"captionfix/internal/logging"
	"captionfix/internal/textutil"
	"captionfix/internal/workspace"
)

// FileName is the download name of the packaged archive.
const FileName = "processed_captions.zip"

const stagingDir = "captions"

// Entry is one staged file destined for the archive.
type Entry struct {
	Name string
	Path string
}

// Result describes a built archive.
type Result struct {
	Path    string
	Entries []string
	Size    int64
}

// EntryNames returns one archive entry name per change record, in record
// order. Unusable names fall back to caption-<n>.txt and a caption named like
// the change log is prefixed. Repeated names get a numeric suffix
// (img.txt, img-2.txt) and a name that would need an existing file as its
// directory, or is already a directory, is flattened with "-".
func EntryNames(changes []caption.ChangeRecord) []string {
	namer := newEntryNamer()
	namer.reserve(ChangeLogName)

	names := make([]string, 0, len(changes))
	for i, change := range changes {
		name := textutil.SafeEntryName(change.FileName)
		if name == "" {
			name = fmt.Sprintf("caption-%d.txt", i+1)
		}
		if name == ChangeLogName {
			name = "caption_" + name
		}
		names = append(names, namer.assign(name))
	}
	return names
}

type entryNamer struct {
	files map[string]bool
	dirs  map[string]bool
}

func newEntryNamer() *entryNamer {
	return &entryNamer{files: map[string]bool{}, dirs: map[string]bool{}}
}

func (n *entryNamer) reserve(name string) {
	n.files[name] = true
	for dir := path.Dir(name); dir != "."; dir = path.Dir(dir) {
		n.dirs[dir] = true
	}
}

func (n *entryNamer) parentIsFile(name string) bool {
	for dir := path.Dir(name); dir != "."; dir = path.Dir(dir) {
		if n.files[dir] {
			return true
		}
	}
	return false
}

func (n *entryNamer) taken(name string) bool {
	return n.files[name] || n.dirs[name] || n.parentIsFile(name)
}

func (n *entryNamer) assign(name string) string {
	if n.dirs[name] || n.parentIsFile(name) {
		name = strings.ReplaceAll(name, "/", "-")
	}
	candidate := name
	for i := 2; n.taken(candidate); i++ {
		candidate = withSuffix(name, i)
	}
	n.reserve(candidate)
	return candidate
}

func withSuffix(name string, n int) string {
	dir, base := path.Split(name)
	ext := path.Ext(base)
	return fmt.Sprintf("%s%s-%d%s", dir, strings.TrimSuffix(base, ext), n, ext)
}

// Stage writes the corrected captions and the change log into the workspace.
// Staged files use flat index names; entry names only appear in the archive.
func Stage(ctx context.Context, ws *workspace.Workspace, changes []caption.ChangeRecord) ([]Entry, error) {
	names := EntryNames(changes)
	root := ws.Path(stagingDir)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}

	entries := make([]Entry, 0, len(names)+1)
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		target := filepath.Join(root, fmt.Sprintf("entry-%04d.txt", i+1))
		if err := os.WriteFile(target, []byte(changes[i].Corrected), 0o644); err != nil {
			return nil, fmt.Errorf("stage %s: %w", name, err)
		}
		entries = append(entries, Entry{Name: name, Path: target})
	}

	logPath := ws.Path(ChangeLogName)
	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("create change log: %w", err)
	}
	if err := WriteChangeLog(file, changes); err != nil {
		file.Close()
		return nil, fmt.Errorf("write change log: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("close change log: %w", err)
	}
	entries = append(entries, Entry{Name: ChangeLogName, Path: logPath})
	return entries, nil
}

// Build stages changes inside ws and zips them into ws/processed_captions.zip.
func Build(ctx context.Context, ws *workspace.Workspace, changes []caption.ChangeRecord, logger *slog.Logger) (*Result, error) {
	logger = logging.NewComponentLogger(logger, "archive")

	entries, err := Stage(ctx, ws, changes)
	if err != nil {
		return nil, err
	}

	archivePath := ws.Path(FileName)
	out, err := os.Create(archivePath)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	if err := writeZip(ctx, out, entries); err != nil {
		out.Close()
		return nil, err
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}

	info, err := os.Stat(archivePath)
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	logger.Info("archive built",
		logging.String(logging.FieldBatchID, ws.ID),
		logging.Int("entries", len(names)),
		logging.Int64("bytes", info.Size()),
		logging.String(logging.FieldEventType, "archive_built"),
	)
	return &Result{Path: archivePath, Entries: names, Size: info.Size()}, nil
}

func writeZip(ctx context.Context, w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			zw.Close()
			return err
		}
		if err := addFile(zw, entry); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, entry Entry) error {
	src, err := os.Open(entry.Path)
	if err != nil {
		return fmt.Errorf("open staged %s: %w", entry.Name, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat staged %s: %w", entry.Name, err)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("zip header %s: %w", entry.Name, err)
	}
	header.Name = entry.Name
	header.Method = zip.Deflate

	dst, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("add %s: %w", entry.Name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy %s: %w", entry.Name, err)
	}
	return nil
}
