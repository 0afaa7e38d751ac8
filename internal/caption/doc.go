// Package caption implements the caption normalization pipeline.
//
// A batch of `<name>.txt: <description>` lines is parsed into entries, the
// batch trigger token is detected from the leading comma segments, and every
// description is folded through an ordered list of rewrite steps: trigger
// enforcement, article restoration in fixed prepositional phrases, optional
// literal replacements, clause condensation, auxiliary removal, repeated-word
// collapse, and whitespace normalization. Only descriptions that change are
// returned as ChangeRecords.
//
// The rules are plain pattern substitution. Nothing here attempts to parse
// grammar, and the package performs no I/O beyond decoding the caller's reader.
package caption
