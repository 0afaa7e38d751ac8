// Package server exposes the caption pipeline over HTTP.
//
// Routes:
//
//	POST /process_captions     multipart upload (field "file"), returns processed_captions.zip
//	GET  /                     health check
//	GET  /openapi.json         static OpenAPI document
//	GET  /api/batches          recent batches from the history database
//	GET  /api/batches/{id}     one batch with its change records
//
// When server.api_token is set every route except GET / requires
// "Authorization: Bearer <token>". Run wires the HTTP listener, the workspace
// janitor and history pruning into one errgroup guarded by an exclusive lock
// on the data directory.
package server
