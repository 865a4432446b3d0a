package pjc

import "fmt"

// Diagnostic is the single-line fatal error the driver surfaces to standard
// output (spec §6/§7): malformed input, an unsupported program shape, a
// toolchain failure, or a missing environment variable. Every such category
// aborts the whole project compilation; there is no partial output and no
// retry, so a Diagnostic is raised and unwinds to the single recover point
// in cmd/pjc rather than being threaded as an error return through every
// opcode case of the symbolic interpreter.
type Diagnostic struct {
	msg string
}

func (d *Diagnostic) Error() string { return d.msg }

// fatalf raises a Diagnostic. Grounded on the teacher's own
// frontend.go ResolveModule pattern (print one line, stop), redirected to
// stdout and a panic/recover unwind instead of a direct os.Exit so it can be
// called from arbitrarily deep inside ClassfileParser/SymbolicInterpreter.
func fatalf(format string, args ...interface{}) {
	panic(&Diagnostic{msg: fmt.Sprintf(format, args...)})
}

// ice panics with an "internal compiler error" — reserved for internal
// inconsistencies the decompiler detects in its own state (operand stack
// underflow, a local-slot scope popped below the method level, an
// operation or stack value kind with no lowering). Unlike a Diagnostic this
// never indicates bad input. Pending closing_brackets/else_stmts at method
// exit are reported through fatalf instead (see ControlFlowAnalyzer.Run);
// brace balance and a leftover operand stack are not checked. Grounded verbatim on std/compiler/ir.go's
// panic("ICE: unhandled ... in ...") convention.
func ice(format string, args ...interface{}) {
	panic("ICE: " + fmt.Sprintf(format, args...))
}

// ClassifyRecover turns an already-recovered panic value into (message,
// true) for a Diagnostic; any other value (an ICE, or a genuine bug) is
// re-raised so it surfaces as a stack trace rather than being swallowed as
// if it were user-facing input error.
//
// This does not call recover() itself: the Go spec's "Handling panics"
// section only gives recover() effect when it is called directly by the
// deferred function — one frame of indirection through a helper like this
// would make it a permanent no-op. Every call site must do
// `r := recover()` in its own deferred closure and pass r in:
//
//	defer func() {
//		r := recover()
//		msg, isDiagnostic := pjc.ClassifyRecover(r)
//		...
//	}()
func ClassifyRecover(r interface{}) (msg string, isDiagnostic bool) {
	if r == nil {
		return "", false
	}
	if d, ok := r.(*Diagnostic); ok {
		return d.Error(), true
	}
	panic(r)
}
