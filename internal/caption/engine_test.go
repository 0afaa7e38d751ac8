package caption

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEngineCorrect(t *testing.T) {
	tests := []struct {
		name      string
		engine    *Engine
		input     string
		wantText  string
		wantNotes []string
	}{
		{
			name:     "clause and article",
			engine:   NewEngine(WithTrigger("cat")),
			input:    "a cat, that is sitting on left",
			wantText: "cat, a cat, sitting on the left",
			wantNotes: []string{
				"Added missing trigger token: 'cat'",
				"Added article in fixed expression: 'on left' → 'on the left'.",
				NoteClauses,
				NoteClarity,
			},
		},
		{
			name:      "non-ascii words keep their letters",
			engine:    NewEngine(WithTrigger("cat")),
			input:     "cat, statue of doña maria, wasé",
			wantText:  "cat, statue of doña maria, wasé",
			wantNotes: nil,
		},
		{
			name:     "repeat and article",
			engine:   NewEngine(WithTrigger("cat")),
			input:    "dog running running in middle",
			wantText: "cat, dog running in the middle",
			wantNotes: []string{
				"Added missing trigger token: 'cat'",
				"Added article in fixed expression: 'in middle' → 'in the middle'.",
				NoteRepeats,
				NoteClarity,
			},
		},
		{
			name:     "several phrases fire in canonical order",
			engine:   NewEngine(),
			input:    "bird at top on left",
			wantText: "bird at the top on the left",
			wantNotes: []string{
				"Added article in fixed expression: 'on left' → 'on the left'.",
				"Added article in fixed expression: 'at top' → 'at the top'.",
				NoteClarity,
			},
		},
		{
			name:      "clean text untouched",
			engine:    NewEngine(WithTrigger("cat")),
			input:     "cat, a cat sitting on the left",
			wantText:  "cat, a cat sitting on the left",
			wantNotes: nil,
		},
		{
			name:      "whitespace only",
			engine:    NewEngine(WithTrigger("cat")),
			input:     "cat,  sleeping ",
			wantText:  "cat, sleeping",
			wantNotes: []string{NoteClarity},
		},
		{
			name: "replacement runs before clause condensation",
			engine: NewEngine(WithTrigger("cat"), WithReplacements([]Replacement{
				{From: "branches that are growing upwards", To: "upward growing branches"},
			})),
			input:    "cat, branches that are growing upwards",
			wantText: "cat, upward growing branches",
			wantNotes: []string{
				"Replaced phrase: 'branches that are growing upwards' → 'upward growing branches'.",
				NoteClarity,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.engine.Correct(tt.input)
			if got.Text != tt.wantText {
				t.Fatalf("Correct().Text = %q, want %q", got.Text, tt.wantText)
			}
			if diff := cmp.Diff(tt.wantNotes, got.Notes); diff != "" {
				t.Fatalf("notes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngineSecondPassAddsNoNotes(t *testing.T) {
	engine := NewEngine(WithTrigger("cat"))
	inputs := []string{
		"a cat, that is sitting on left",
		"dog running running in middle",
		"owl which is perched at tip of branch in shadow",
	}
	for _, input := range inputs {
		first := engine.Correct(input)
		second := engine.Correct(first.Text)
		if second.Text != first.Text {
			t.Fatalf("second pass changed %q to %q", first.Text, second.Text)
		}
		if len(second.Notes) != 0 {
			t.Fatalf("second pass over %q logged %v", first.Text, second.Notes)
		}
	}
}

func TestEngineStepOrder(t *testing.T) {
	engine := NewEngine(WithTrigger("cat"), WithReplacements([]Replacement{{From: "a", To: "b"}}))
	var names []string
	for _, step := range engine.Steps() {
		if len(names) > 0 && names[len(names)-1] == step.Name {
			continue
		}
		names = append(names, step.Name)
	}
	want := []string{"trigger", "article", "replacement", "clauses", "auxiliary", "repeats"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("step order mismatch (-want +got):\n%s", diff)
	}

	if got := len(NewEngine().Steps()); got != len(CanonicalPhrases)+3 {
		t.Fatalf("expected trigger step to be omitted, got %d steps", got)
	}
}
