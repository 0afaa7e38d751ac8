// Package textutil provides filename sanitization helpers shared by archive
// packaging and the CLI.
package textutil
