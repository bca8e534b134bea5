// Package monitoring routes diagnostic output from the sensor packages.
//
// Library code logs through Logf and Debugf. Commands decide where the
// output goes: the standard logger by default, or a zap logger installed
// with Install.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf.
var Logf func(format string, v ...interface{}) = log.Printf

// Debugf receives per-query detail. It is muted unless a debug sink is set.
var Debugf func(format string, v ...interface{}) = noop

func noop(string, ...interface{}) {}

// SetLogger replaces Logf. Passing nil mutes it.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = noop
		return
	}
	Logf = f
}

// SetDebugLogger replaces Debugf. Passing nil mutes it.
func SetDebugLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Debugf = noop
		return
	}
	Debugf = f
}
