// Package sqlite persists the CLI session in ~/.docqa/data/session.db using
// modernc.org/sqlite, so no cgo toolchain is needed.
//
// Only the extracted texts and their diagnostics are stored. Vectors are not:
// every `docqa ask` rebuilds the index from the stored text with the
// embedding settings in effect at that moment, so changing provider never
// leaves a stale index behind.
//
// Migrations in migrations/ are embedded and applied on open; applied
// versions are recorded in schema_migrations. The .down.sql files are for
// manual rollback. The database runs in WAL mode with a busy timeout, which
// lets two docqa processes share it.
package sqlite
