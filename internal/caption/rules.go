package caption

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Change notes recorded by the built-in steps.
const (
	NoteClauses   = "Condensed subordinate clauses."
	NoteAuxiliary = "Removed auxiliary verbs."
	NoteRepeats   = "Simplified repetitive phrases."
	NoteClarity   = "Ensured clarity and grammatical correctness."
	NoteUnchanged = "No changes made."
)

// CanonicalPhrases are the fixed expressions that must keep their article.
var CanonicalPhrases = []string{
	"on the left",
	"on the right",
	"at the top",
	"at the bottom",
	"in the center",
	"on the horizon",
	"from the ground",
	"at the base",
	"in the middle",
	"on the surface",
	"in the shadow",
	"at the tip",
}

var (
	clauseWords    = wordSet{"that are", "that is", "that has", "which are", "which is", "which has"}
	auxiliaryWords = wordSet{"is", "are", "was", "were", "has", "have", "had", "does", "do", "did"}
)

// Step is one conditional rewrite. Rewrite runs, and Note is logged, only
// when Matches reports true for the current text.
type Step struct {
	Name    string
	Matches func(text string) bool
	Rewrite func(text string) string
	Note    string
}

// Apply runs the step against text and reports whether it fired.
func (s Step) Apply(text string) (string, bool) {
	if s.Matches == nil || s.Rewrite == nil || !s.Matches(text) {
		return text, false
	}
	return s.Rewrite(text), true
}

// Replacement is a literal phrase substitution supplied by configuration.
type Replacement struct {
	From string
	To   string
}

// TriggerStep prefixes descriptions that do not already start with trigger.
func TriggerStep(trigger string) Step {
	return Step{
		Name: "trigger",
		Matches: func(text string) bool {
			return !strings.HasPrefix(text, trigger)
		},
		Rewrite: func(text string) string {
			return trigger + ", " + text
		},
		Note: fmt.Sprintf("Added missing trigger token: '%s'", trigger),
	}
}

// ShortVariant returns phrase with its first "the " removed.
func ShortVariant(phrase string) string {
	return strings.Replace(phrase, "the ", "", 1)
}

// ArticleSteps returns one step per canonical phrase, restoring the article
// wherever the short variant appears.
func ArticleSteps() []Step {
	steps := make([]Step, 0, len(CanonicalPhrases))
	for _, phrase := range CanonicalPhrases {
		steps = append(steps, literalStep("article", ShortVariant(phrase), phrase,
			fmt.Sprintf("Added article in fixed expression: '%s' → '%s'.", ShortVariant(phrase), phrase)))
	}
	return steps
}

// ReplacementStep substitutes every occurrence of r.From with r.To.
func ReplacementStep(r Replacement) Step {
	return literalStep("replacement", r.From, r.To,
		fmt.Sprintf("Replaced phrase: '%s' → '%s'.", r.From, r.To))
}

func literalStep(name, from, to, note string) Step {
	return Step{
		Name: name,
		Matches: func(text string) bool {
			return from != "" && strings.Contains(text, from)
		},
		Rewrite: func(text string) string {
			return strings.ReplaceAll(text, from, to)
		},
		Note: note,
	}
}

// ClauseStep deletes relative-clause openers such as "that is".
func ClauseStep() Step {
	return wordDeleteStep("clauses", clauseWords, NoteClauses)
}

// AuxiliaryStep deletes standalone auxiliary verbs.
func AuxiliaryStep() Step {
	return wordDeleteStep("auxiliary", auxiliaryWords, NoteAuxiliary)
}

func wordDeleteStep(name string, words wordSet, note string) Step {
	return Step{
		Name: name,
		Matches: func(text string) bool {
			return len(words.find(text)) > 0
		},
		Rewrite: func(text string) string {
			return words.delete(text)
		},
		Note: note,
	}
}

// wordSet matches whole-word occurrences of its entries. A match must not be
// preceded or followed by a letter, digit or underscore in any script.
// Entries are tried in order at each position.
type wordSet []string

func (ws wordSet) find(text string) []span {
	var spans []span
	i := 0
	for i < len(text) {
		if end, ok := ws.matchAt(text, i); ok {
			spans = append(spans, span{start: i, end: end})
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return spans
}

func (ws wordSet) matchAt(text string, i int) (int, bool) {
	if i > 0 {
		if prev, _ := utf8.DecodeLastRuneInString(text[:i]); isWordRune(prev) {
			return 0, false
		}
	}
	for _, word := range ws {
		if !strings.HasPrefix(text[i:], word) {
			continue
		}
		end := i + len(word)
		if end < len(text) {
			if next, _ := utf8.DecodeRuneInString(text[end:]); isWordRune(next) {
				continue
			}
		}
		return end, true
	}
	return 0, false
}

func (ws wordSet) delete(text string) string {
	spans := ws.find(text)
	if len(spans) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, sp := range spans {
		b.WriteString(text[last:sp.start])
		last = sp.end
	}
	b.WriteString(text[last:])
	return b.String()
}

// RepeatStep collapses a word immediately repeated after a single whitespace
// character. It makes one left-to-right pass; "big big big" becomes
// "big big".
func RepeatStep() Step {
	return Step{
		Name: "repeats",
		Matches: func(text string) bool {
			_, changed := collapseRepeats(text)
			return changed
		},
		Rewrite: func(text string) string {
			out, _ := collapseRepeats(text)
			return out
		},
		Note: NoteRepeats,
	}
}

type span struct {
	start int
	end   int
}

func collapseRepeats(text string) (string, bool) {
	words := wordSpans(text)
	var b strings.Builder
	last := 0
	changed := false
	for i := 0; i+1 < len(words); i++ {
		cur, next := words[i], words[i+1]
		if text[cur.start:cur.end] != text[next.start:next.end] {
			continue
		}
		if !isSingleSpace(text[cur.end:next.start]) {
			continue
		}
		b.WriteString(text[last:cur.end])
		last = next.end
		changed = true
		i++
	}
	if !changed {
		return text, false
	}
	b.WriteString(text[last:])
	return b.String(), true
}

// wordSpans returns the byte ranges of maximal runs of word characters.
func wordSpans(text string) []span {
	var spans []span
	start := -1
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			spans = append(spans, span{start: start, end: i})
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, span{start: start, end: len(text)})
	}
	return spans
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func isSingleSpace(gap string) bool {
	r, size := utf8.DecodeRuneInString(gap)
	return size > 0 && size == len(gap) && unicode.IsSpace(r)
}

// NormalizeWhitespace collapses whitespace runs to single spaces and trims
// both ends.
func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
