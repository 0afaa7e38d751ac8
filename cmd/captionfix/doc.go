// Package main hosts the captionfix CLI entrypoint and command graph.
//
// The Cobra-based command tree runs the HTTP server, processes caption files
// locally, inspects batch history, reports preflight status, and scaffolds
// configuration. It centralizes configuration resolution and logging setup so
// subcommands can focus on output instead of wiring.
//
// Keep this package lean: add new functionality to the internal packages
// first, then surface it through dedicated commands or flags here.
package main
