// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// Users support soft deletes via deleted_at timestamps; preference rows are hard-deleted with their owner scope.
//
// Key Implementations:
//   - [UserRepository] : Google-backed account persistence with google_id lookups
//   - [SessionRepository] : login sessions with expiry-aware joined user lookup
//   - [ArtistRepository] : per-user artist lists with case-insensitive uniqueness
//   - [GenreRepository] : per-user genre preferences
//   - [FavoriteRepository] : per-user favorite festivals
//   - [TourCacheRepository] : persistent tier of the tour-date cache
//   - [SuggestionRepository] : festival suggestions moving through the review workflow
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
