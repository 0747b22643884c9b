// Package diag carries structured diagnostics between compiler phases.
//
// Phases never format user-facing messages themselves; they report a
// code, a severity, a primary span and a message through a Reporter,
// and the driver decides how (and whether) to render the result.
package diag
