package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SampleCaptions is a small batch with trigger "cat" where two of four
// captions need corrections.
var SampleCaptions = []string{
	"img1.txt: a cat, that is sitting on left",
	"img2.txt: dog running running in middle",
	"img3.txt: cat, sleeping on the right",
	"img4.txt: cat, curled up",
}

// CaptionText joins lines into upload content.
func CaptionText(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

// WriteCaptions writes caption lines to path and returns path.
func WriteCaptions(t testing.TB, path string, lines ...string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(CaptionText(lines...)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
