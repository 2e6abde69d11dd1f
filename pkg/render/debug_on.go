//go:build sectordebug

package render

// debugChecks enables drawer precondition assertions.
const debugChecks = true
