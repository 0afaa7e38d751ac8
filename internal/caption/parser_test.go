package caption

import (
	"errors"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantFile string
		wantDesc string
		wantErr  bool
	}{
		{"simple", "img1.txt: a cat, that is sitting on left", "img1.txt", "a cat, that is sitting on left", false},
		{"no space after colon", "img2.txt:dog", "img2.txt", "dog", false},
		{"greedy file name", "dir/a.txt: b.txt: c", "dir/a.txt: b.txt", "c", false},
		{"keeps trailing space", "img3.txt: bird  ", "img3.txt", "bird  ", false},
		{"no colon", "no_colon_here", "", "", true},
		{"wrong extension", "notes.txt.bak: x", "", "", true},
		{"missing description", "img4.txt:", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, desc, err := ParseLine(tt.line)
			if tt.wantErr {
				var malformed *MalformedLineError
				if !errors.As(err, &malformed) {
					t.Fatalf("expected MalformedLineError, got %v", err)
				}
				if malformed.Text != tt.line {
					t.Fatalf("error text = %q, want %q", malformed.Text, tt.line)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLine returned error: %v", err)
			}
			if file != tt.wantFile || desc != tt.wantDesc {
				t.Fatalf("ParseLine() = (%q, %q), want (%q, %q)", file, desc, tt.wantFile, tt.wantDesc)
			}
		})
	}
}

func TestParseLinesSkipsBlankLines(t *testing.T) {
	entries, err := ParseLines([]string{"", "a.txt: one", "   ", "\t", "b.txt: two"})
	if err != nil {
		t.Fatalf("ParseLines returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Line != 2 || entries[1].Line != 5 {
		t.Fatalf("unexpected line numbers: %d, %d", entries[0].Line, entries[1].Line)
	}
}

func TestParseLinesAbortsOnMalformedLine(t *testing.T) {
	entries, err := ParseLines([]string{"a.txt: one", "no_colon_here", "b.txt: two"})
	if entries != nil {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
	var malformed *MalformedLineError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedLineError, got %v", err)
	}
	if malformed.Line != 2 {
		t.Fatalf("expected line 2, got %d", malformed.Line)
	}
	if malformed.ErrorKind() != "validation" {
		t.Fatalf("unexpected error kind %q", malformed.ErrorKind())
	}
}
