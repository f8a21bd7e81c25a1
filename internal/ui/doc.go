// Package ui renders diagnostic output for operators.
//
// ConsoleCommandEventLogger turns command lifecycle events into readable log
// lines, and DiagnosticPrinter writes the echo and dry-run announcements that
// mirror what treesync runs.
package ui
