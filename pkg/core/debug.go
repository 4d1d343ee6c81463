package core

// DebugMode controls whether consistency violations, render errors and
// misuse of expired handles capture a stack trace. The checks themselves
// always run; only the stack capture is optional.
var DebugMode = true

// SetDebugMode enables or disables stack capture for runtime errors.
func SetDebugMode(debug bool) {
	DebugMode = debug
}
