// Package cleaner runs the full boilerplate pipeline over one input
// directory: load pages, index header/footer candidates, vote on patterns,
// then resolve and write each cleaned page.
//
// Phases hand explicit values to each other. Patterns are final before the
// first page is written, and the OnPatterns hook sees them before any file
// changes so operators can audit what will be stripped. Per-page failures are
// collected in the Result; only corpus-level problems, cancellation, and a
// held output lock abort a run.
package cleaner
