// Package report renders what a cleaning run detected and did.
//
// Terminal output uses rounded go-pretty tables with optional ANSI colour.
// The persisted report is Markdown, optionally converted to a standalone
// HTML page with goldmark.
package report
