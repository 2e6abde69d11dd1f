//go:build !sectordebug

package render

const debugChecks = false
