// Package archive packages corrected captions into the downloadable ZIP.
//
// Build stages one file per change record plus the updated_captions.txt change
// log inside a batch workspace, then zips the staged files. Entry names are
// sanitized so a caption file name can never escape the workspace or the
// extracted archive.
package archive
