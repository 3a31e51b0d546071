// Package tasks runs the long catalog operations with progress reporting.
//
// # Operations
//
// The [Engine] interface defines three operations:
//
//  1. [Engine.Sync] : refresh the local course cache
//     - Fetches the catalog from the API
//     - Replaces the cached snapshot in upstream order
//     - Records the run in sync history when a [SyncRecorder] is set
//
//  2. [Engine.Dump] : fetch the raw JSON of /courses, /favourites and /admin/courses
//     - Endpoint failures (401 on favourites, 403 on admin) are collected, not fatal
//
//  3. [Engine.BulkExport] : write course lists to files
//     - Collections are fetched under a rate limiter
//     - A worker pool renders each list with the formatter package
//     - export_manifest.json summarizes the run
//
// # Progress Reporting
//
// [ProgressUpdate] carries a phase, step counters and a message. Sends never block; an update
// is dropped when the channel is full or nil.
package tasks
