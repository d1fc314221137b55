// Package preflight provides readiness checks for the directories a cleaning
// run reads from and writes to.
//
// These checks run in two contexts:
//   - "boilerstrip clean" runs them before loading pages and aborts when the
//     input directory cannot be read.
//   - "boilerstrip check" prints every result without touching any file.
package preflight
