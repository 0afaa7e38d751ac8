// Package services defines shared utilities consumed by the caption pipeline,
// the HTTP server and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp batch IDs and correlation identifiers for
//     logging.
//   - Error markers plus the Wrap helper, and the Kind/HTTPStatus mapping that
//     turns classified failures into client or server errors at the boundary.
package services
