package pjc

import "github.com/golang/glog"

// Verbose tracing uses glog the way google-kati's dep.go/eval.go do
// (glog.V(1).Infof(...)): it is the pass-by-pass "what is the driver doing"
// trace, never the user-facing diagnostic channel. Fatal, single-line
// output a user is meant to read goes through diag.go/fatalf onto stdout
// instead, per spec §6.

// logPass traces driver-level progress: which class, which parse mode.
func logPass(format string, args ...interface{}) {
	if glog.V(1) {
		glog.Infof(format, args...)
	}
}

// logSkip traces an ignored-but-accepted attribute (SourceFile,
// InnerClasses) so a verbose run shows what was parsed and thrown away
// without it rising to the level of a warning.
func logSkip(format string, args ...interface{}) {
	if glog.V(2) {
		glog.Infof(format, args...)
	}
}

// warnf reports a recoverable oddity that is not fatal: surprising but
// accepted input. Grounded on google-kati's depgraph.go glog.Warningf use.
func warnf(format string, args ...interface{}) {
	glog.Warningf(format, args...)
}
