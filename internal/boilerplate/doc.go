// Package boilerplate finds and strips recurring header and footer lines from
// a corpus of per-page text.
//
// Work happens in three phases that each return a plain value. Index turns
// pages into positional line candidates, Vote promotes (position, text) pairs
// that recur on enough pages into PatternTables, and Resolve/Clean decide per
// page how many leading and trailing lines to drop. Matching during resolution
// is substring containment in either direction so running titles with an
// embedded page number still match the accepted text.
//
// Nothing here touches the filesystem; see package cleaner for the pipeline
// that loads pages and writes results.
package boilerplate
