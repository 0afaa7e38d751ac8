package caption

import "strings"

// DetectTrigger returns the most frequent leading comma segment among the
// entries whose description contains a comma. Ties go to the segment seen
// first.
func DetectTrigger(entries []Entry) (string, error) {
	counts := make(map[string]int)
	var order []string
	for _, entry := range entries {
		head, _, found := strings.Cut(entry.Description, ",")
		if !found {
			continue
		}
		token := strings.TrimSpace(head)
		if _, seen := counts[token]; !seen {
			order = append(order, token)
		}
		counts[token]++
	}
	if len(order) == 0 {
		return "", &NoTriggerCandidateError{Entries: len(entries)}
	}

	best := order[0]
	for _, token := range order[1:] {
		if counts[token] > counts[best] {
			best = token
		}
	}
	return best, nil
}
