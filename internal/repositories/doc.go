// Package repositories implements SQLite persistence for client-side state.
//
// Key Implementations:
//   - [PreferenceRepository] : key/value store backing the session token and theme, a drop-in
//     [session.Storage]
//   - [CourseCacheRepository] : the last synced catalog, kept in upstream order so an offline
//     listing sorts by relevance exactly like a live one
//   - [SyncRunRepository] : history of catalog syncs with status and course counts
//
// Schemas live in the shared package migrations; every repository expects [shared.RunMigrations]
// to have been applied.
package repositories
