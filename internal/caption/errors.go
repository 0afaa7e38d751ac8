package caption

import "fmt"

const errorKindValidation = "validation"

// MalformedLineError reports a non-blank input line that does not match
// `<name>.txt: <description>`.
type MalformedLineError struct {
	Line int
	Text string
}

func (e *MalformedLineError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid line format (line %d): %s", e.Line, e.Text)
	}
	return fmt.Sprintf("invalid line format: %s", e.Text)
}

// ErrorKind classifies the error for the HTTP boundary.
func (e *MalformedLineError) ErrorKind() string { return errorKindValidation }

// NoTriggerCandidateError reports a batch in which no description contains a
// comma, so no trigger token can be detected.
type NoTriggerCandidateError struct {
	Entries int
}

func (e *NoTriggerCandidateError) Error() string {
	return fmt.Sprintf("cannot detect trigger token: none of the %d descriptions contain a comma", e.Entries)
}

// ErrorKind classifies the error for the HTTP boundary.
func (e *NoTriggerCandidateError) ErrorKind() string { return errorKindValidation }

// InvalidEncodingError reports caption input that is not valid UTF-8.
type InvalidEncodingError struct{}

func (e *InvalidEncodingError) Error() string {
	return "captions must be UTF-8 encoded text"
}

// ErrorKind classifies the error for the HTTP boundary.
func (e *InvalidEncodingError) ErrorKind() string { return errorKindValidation }
