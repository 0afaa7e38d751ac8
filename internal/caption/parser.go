package caption

import (
	"regexp"
	"strings"
)

var linePattern = regexp.MustCompile(`^(.*\.txt):\s*(.+)`)

// Entry is one parsed caption line.
type Entry struct {
	Line        int
	FileName    string
	Description string
}

// ParseLine splits a caption line into its file name and description. Both
// captures are returned verbatim.
func ParseLine(line string) (fileName, description string, err error) {
	match := linePattern.FindStringSubmatch(line)
	if match == nil {
		return "", "", &MalformedLineError{Text: line}
	}
	return match[1], match[2], nil
}

// ParseLines parses every non-blank line. The first malformed line aborts
// parsing and no entries are returned.
func ParseLines(lines []string) ([]Entry, error) {
	entries := make([]Entry, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fileName, description, err := ParseLine(line)
		if err != nil {
			return nil, &MalformedLineError{Line: i + 1, Text: line}
		}
		entries = append(entries, Entry{
			Line:        i + 1,
			FileName:    fileName,
			Description: description,
		})
	}
	return entries, nil
}
