// Package corpus loads a directory of per-page text files into an ordered set
// of pages.
//
// Files are selected by a glob and numbered by a regular expression applied to
// the filename stem (page12.txt, page_12.txt). Content is decoded as strict
// UTF-8 first and falls back to a single-byte charmap so a page is not lost
// just because an upstream extractor emitted Latin-1. Problems with individual
// files are returned as Skips; only an empty result is an error.
package corpus
