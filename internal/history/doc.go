// Package history persists a record of every cleaning run in SQLite.
//
// Each run stores its parameters, page counts, the accepted header/footer
// patterns, and the per-page cleaning plans with output checksums, so an
// operator can audit what was stripped long after the output directory was
// overwritten. The store is optional; callers treat its failures as warnings.
package history
