// Package preflight provides readiness checks for the filesystem paths and
// services captionfix depends on.
//
// These checks run in two contexts:
//   - The server calls RunAll at startup and refuses to start when a required
//     directory is unusable.
//   - The CLI "captionfix status" command renders every result, including the
//     liveness of a running server.
//
// Each check is gated by its config toggle; disabled features are reported
// as passed with a "Disabled" detail.
package preflight
