package archive

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"captionfix/internal/caption"
)

// ChangeLogName is the name of the change log entry inside the archive.
const ChangeLogName = "updated_captions.txt"

// WriteChangeLog renders the human-readable change log: four lines per change
// record followed by a blank line.
func WriteChangeLog(w io.Writer, changes []caption.ChangeRecord) error {
	bw := bufio.NewWriter(w)
	for _, change := range changes {
		fmt.Fprintf(bw, "File: %s\n", change.FileName)
		fmt.Fprintf(bw, "Original: %s\n", change.Original)
		fmt.Fprintf(bw, "Edited: %s\n", change.Corrected)
		fmt.Fprintf(bw, "Log: %s\n\n", strings.Join(change.Logs, "; "))
	}
	return bw.Flush()
}
