// Package history persists processed caption batches in SQLite.
//
// Every batch the server or CLI processes is recorded with its trigger, entry
// and change counts, and the change records themselves, so operators can
// audit what was rewritten after the archive has been downloaded. Failed
// batches are stored with their error message. Records older than the
// configured retention are pruned on startup and by the janitor.
package history
