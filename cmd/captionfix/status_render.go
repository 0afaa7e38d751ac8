package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"captionfix/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 18
	statusIndent     = "  "
)

// statusLine is one labelled row of `captionfix status` output.
type statusLine struct {
	Label   string
	Kind    statusKind
	Message string
}

func renderStatusLine(line statusLine, colorize bool) string {
	badge := "[" + statusKindLabel(line.Kind) + "]"
	if line.Message != "" {
		badge += " " + line.Message
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, line.Label+":", badge)
	if color := statusKindColor(line.Kind); colorize && color != "" {
		return color + base + ansiReset
	}
	return base
}

func renderSection(title string, lines []statusLine, colorize bool) string {
	heading := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(heading))
	if colorize {
		heading = ansiBlue + heading + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	var b strings.Builder
	b.WriteString(heading + "\n" + rule + "\n")
	for _, line := range lines {
		b.WriteString(renderStatusLine(line, colorize))
		b.WriteByte('\n')
	}
	return b.String()
}

// preflightLine maps a check result to a status row. Failed advisory checks
// render as warnings.
func preflightLine(result preflight.Result, advisory bool) statusLine {
	kind := statusOK
	if !result.Passed {
		kind = statusError
		if advisory {
			kind = statusWarn
		}
	}
	return statusLine{Label: result.Name, Kind: kind, Message: result.Detail}
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
