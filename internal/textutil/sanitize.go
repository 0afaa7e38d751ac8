package textutil

import (
	"path"
	"path/filepath"
	"strings"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	"\x00", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// SafeEntryName turns a caption file name into a relative, slash-separated
// path that stays inside an archive or staging directory. Names that are
// already local keep their directory structure; anything absolute or
// escaping via ".." is flattened to its sanitized base name. An empty result
// means no usable name could be derived.
func SafeEntryName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return ""
	}
	cleaned := path.Clean(name)
	if cleaned == "." {
		return ""
	}
	if filepath.IsLocal(filepath.FromSlash(cleaned)) && !strings.ContainsAny(cleaned, ":*?\"<>|\x00") {
		return cleaned
	}
	base := SanitizeFileName(path.Base(cleaned))
	switch base {
	case "", ".", "..", "-":
		return ""
	}
	return base
}
