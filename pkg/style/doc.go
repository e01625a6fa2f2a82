// Package style renders command output: the category listing, run reports
// and top-level errors. Colour is applied only when the target writer is a
// terminal.
package style
