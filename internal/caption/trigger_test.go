package caption

import (
	"errors"
	"testing"
)

func entriesFor(descriptions ...string) []Entry {
	entries := make([]Entry, len(descriptions))
	for i, desc := range descriptions {
		entries[i] = Entry{Line: i + 1, FileName: "img.txt", Description: desc}
	}
	return entries
}

func TestDetectTrigger(t *testing.T) {
	tests := []struct {
		name  string
		descs []string
		want  string
	}{
		{"majority", []string{"cat, a", "dog, b", "cat, c", "bird, d", "cat, e"}, "cat"},
		{"tie goes to first seen", []string{"dog, x", "cat, y", "cat, z", "dog, w"}, "dog"},
		{"ignores descriptions without comma", []string{"cat", "cat", "owl, perched"}, "owl"},
		{"trims segment", []string{"  cat  , x", "cat,y"}, "cat"},
		{"first comma only", []string{"cat, dog, bird"}, "cat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectTrigger(entriesFor(tt.descs...))
			if err != nil {
				t.Fatalf("DetectTrigger returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("DetectTrigger() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectTriggerWithoutCandidates(t *testing.T) {
	_, err := DetectTrigger(entriesFor("a cat", "a dog"))
	var noTrigger *NoTriggerCandidateError
	if !errors.As(err, &noTrigger) {
		t.Fatalf("expected NoTriggerCandidateError, got %v", err)
	}
	if noTrigger.Entries != 2 {
		t.Fatalf("expected 2 entries reported, got %d", noTrigger.Entries)
	}
}
