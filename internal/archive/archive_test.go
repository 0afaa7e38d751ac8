package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"captionfix/internal/caption"
	"captionfix/internal/logging"
	"captionfix/internal/workspace"
)

func sampleChanges() []caption.ChangeRecord {
	return []caption.ChangeRecord{
		{
			FileName:  "img1.txt",
			Original:  "a cat, that is sitting on left",
			Corrected: "cat, a cat, sitting on the left",
			Logs: []string{
				"Added missing trigger token: 'cat'",
				"Added article in fixed expression: 'on left' → 'on the left'.",
				caption.NoteClauses,
				caption.NoteClarity,
			},
		},
		{
			FileName:  "img2.txt",
			Original:  "dog running running in middle",
			Corrected: "cat, dog running in the middle",
			Logs:      []string{"Added missing trigger token: 'cat'", caption.NoteClarity},
		},
	}
}

func readZip(t *testing.T, path string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer zr.Close()
	files := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", f.Name, err)
		}
		if _, dup := files[f.Name]; dup {
			t.Fatalf("duplicate entry %s", f.Name)
		}
		files[f.Name] = string(data)
	}
	return files
}

func newWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.NewManager(t.TempDir(), false, logging.NewNop()).Create("")
	if err != nil {
		t.Fatalf("create workspace: %v", err)
	}
	t.Cleanup(func() { _ = ws.Release() })
	return ws
}

func TestBuildContainsOneFilePerChangePlusLog(t *testing.T) {
	ws := newWorkspace(t)
	changes := sampleChanges()

	result, err := Build(context.Background(), ws, changes, logging.NewNop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if diff := cmp.Diff([]string{"img1.txt", "img2.txt", ChangeLogName}, result.Entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if result.Size <= 0 {
		t.Fatalf("expected non-empty archive, got %d bytes", result.Size)
	}

	files := readZip(t, result.Path)
	want := map[string]string{
		"img1.txt": "cat, a cat, sitting on the left",
		"img2.txt": "cat, dog running in the middle",
		ChangeLogName: "File: img1.txt\n" +
			"Original: a cat, that is sitting on left\n" +
			"Edited: cat, a cat, sitting on the left\n" +
			"Log: Added missing trigger token: 'cat'; Added article in fixed expression: 'on left' → 'on the left'.; Condensed subordinate clauses.; Ensured clarity and grammatical correctness.\n" +
			"\n" +
			"File: img2.txt\n" +
			"Original: dog running running in middle\n" +
			"Edited: cat, dog running in the middle\n" +
			"Log: Added missing trigger token: 'cat'; Ensured clarity and grammatical correctness.\n" +
			"\n",
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Fatalf("archive contents mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildWithNoChangesHasOnlyEmptyLog(t *testing.T) {
	ws := newWorkspace(t)
	result, err := Build(context.Background(), ws, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	files := readZip(t, result.Path)
	if diff := cmp.Diff(map[string]string{ChangeLogName: ""}, files); diff != "" {
		t.Fatalf("archive contents mismatch (-want +got):\n%s", diff)
	}
}

func TestEntryNames(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  []string
	}{
		{
			name:  "sanitized and suffixed",
			files: []string{"../../etc/evil.txt", "set/img.txt", "evil.txt", "..", ChangeLogName},
			want:  []string{"evil.txt", "set/img.txt", "evil-2.txt", "caption-4.txt", "caption_" + ChangeLogName},
		},
		{
			name:  "repeated names",
			files: []string{"img.txt", "img.txt", "img.txt", "img-2.txt"},
			want:  []string{"img.txt", "img-2.txt", "img-3.txt", "img-2-2.txt"},
		},
		{
			name:  "nested suffix keeps directory",
			files: []string{"set/img.txt", "set/img.txt"},
			want:  []string{"set/img.txt", "set/img-2.txt"},
		},
		{
			name:  "file then directory of same name",
			files: []string{"set.txt", "set.txt/img.txt"},
			want:  []string{"set.txt", "set.txt-img.txt"},
		},
		{
			name:  "directory then file of same name",
			files: []string{"set.txt/img.txt", "set.txt"},
			want:  []string{"set.txt/img.txt", "set-2.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := make([]caption.ChangeRecord, 0, len(tt.files))
			for _, f := range tt.files {
				changes = append(changes, caption.ChangeRecord{FileName: f})
			}
			if diff := cmp.Diff(tt.want, EntryNames(changes)); diff != "" {
				t.Fatalf("EntryNames mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildKeepsEveryRecord(t *testing.T) {
	ws := newWorkspace(t)
	changes := []caption.ChangeRecord{
		{FileName: "img.txt", Corrected: "cat, first"},
		{FileName: "img.txt", Corrected: "cat, second"},
		{FileName: "set.txt", Corrected: "cat, outer"},
		{FileName: "set.txt/img.txt", Corrected: "cat, inner"},
	}

	result, err := Build(context.Background(), ws, changes, logging.NewNop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	files := readZip(t, result.Path)
	delete(files, ChangeLogName)
	want := map[string]string{
		"img.txt":         "cat, first",
		"img-2.txt":       "cat, second",
		"set.txt":         "cat, outer",
		"set.txt-img.txt": "cat, inner",
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Fatalf("archive contents mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildHonoursCancelledContext(t *testing.T) {
	ws := newWorkspace(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Build(ctx, ws, sampleChanges(), logging.NewNop()); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestWriteChangeLogFormat(t *testing.T) {
	var buf bytes.Buffer
	err := WriteChangeLog(&buf, []caption.ChangeRecord{{
		FileName:  "a.txt",
		Original:  "x",
		Corrected: "cat, x",
		Logs:      []string{"one", "two"},
	}})
	if err != nil {
		t.Fatalf("WriteChangeLog: %v", err)
	}
	want := "File: a.txt\nOriginal: x\nEdited: cat, x\nLog: one; two\n\n"
	if buf.String() != want {
		t.Fatalf("unexpected change log:\n%q\nwant\n%q", buf.String(), want)
	}
}
