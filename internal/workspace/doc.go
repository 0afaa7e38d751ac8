// Package workspace manages the per-batch working directories used to stage
// archive contents.
//
// Each batch receives its own directory named by a UUID beneath the configured
// work root, so concurrent requests never share files. CleanStale and the
// janitor loop reclaim directories left behind by crashed or interrupted
// requests.
package workspace
