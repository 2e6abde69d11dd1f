package render

import "fmt"

// assertf panics when cond is false. Call sites guard it with debugChecks so
// release builds pay nothing.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("render: "+format, args...))
	}
}
