package pjc

import "fmt"

// synthesizer is the StatementSynthesizer for exactly one source line: it
// takes the []Operation SymbolicInterpreter produced for that line and
// emits Instructions via the owning ControlFlowAnalyzer, per the fixed
// pattern table in spec §4.6 (most specific pattern first).
type synthesizer struct {
	cfa  *ControlFlowAnalyzer
	line uint16
}

func newSynthesizer(cfa *ControlFlowAnalyzer, line uint16) *synthesizer {
	return &synthesizer{cfa: cfa, line: line}
}

func (s *synthesizer) emit(ops []Operation) {
	switch {
	case len(ops) == 0:
		// "<init>"/"<clinit>" legitimately produce no operations on a
		// line (an elided super-constructor call, or a dropped clinit
		// side effect); any other method producing zero ops for a
		// nonempty chunk indicates the chunk's opcodes were all no-ops
		// for this pass, which is not itself an error.
		return

	case len(ops) == 4 && ops[0].Kind == OpStore && ops[1].Kind == OpCond && ops[2].Kind == OpInc && ops[3].Kind == OpJump:
		s.forHeader(ops[0], ops[1], ops[2], ops[3])

	case len(ops) == 2 && ops[0].Kind == OpCond && ops[1].Kind == OpCond:
		s.shortCircuit(ops[0], ops[1])

	case len(ops) == 2 && ops[1].Kind == OpJump:
		s.singleThenJump(ops[0], ops[1])

	case len(ops) == 4:
		fatalf("%s.%s line %d: four-operation line does not match Store/Cond/Inc/Jump", s.cfa.class.Name, s.cfa.method.Name, s.line)

	default:
		s.sequential(ops)
	}
}

// forHeader lowers pattern 2: a canonical for-loop header split across
// init+condition and increment+back-edge segments that the line table
// tags with the same source line.
func (s *synthesizer) forHeader(store, cond, inc, jump Operation) {
	typ := store.DeclType
	if typ == "" {
		typ = "auto"
	}
	step := fmt.Sprintf("local_%d++", inc.Slot)
	if inc.Constant != 1 {
		step = fmt.Sprintf("local_%d += %d", inc.Slot, inc.Constant)
	}
	text := fmt.Sprintf("for (%s local_%d = %s; %s %s %s; %s)",
		typ, store.Slot, store.Value, cond.Left, cond.CondOp, cond.Right, step)
	s.cfa.emit(text)
	s.cfa.emit("{")
	s.cfa.pushScope()
	s.cfa.registerClosingBracket(s.cfa.lineOf(cond.Target))
	_ = jump
}

// shortCircuit lowers pattern 3: two consecutive Cond operations folding
// into a short-circuit && or ||.
func (s *synthesizer) shortCircuit(a, b Operation) {
	var text string
	if a.Target == b.Target {
		text = fmt.Sprintf("if (%s %s %s && %s %s %s)", a.Left, a.CondOp, a.Right, b.Left, b.CondOp, b.Right)
	} else {
		text = fmt.Sprintf("if (%s %s %s || %s %s %s)", a.Left, invertOp(a.CondOp), a.Right, b.Left, b.CondOp, b.Right)
	}
	s.cfa.emit(text)
	s.cfa.emit("{")
	s.cfa.pushScope()
	s.cfa.registerClosingBracket(s.cfa.lineOf(b.Target))
}

// singleThenJump lowers pattern 4: a single non-control op followed by a
// Jump, where the Jump may be a forward branch (commonly producing an
// "else {") or a backward one closing a while(true) loop.
func (s *synthesizer) singleThenJump(x, jump Operation) {
	s.emitOp(x)
	if jump.JumpTarget > jump.JumpAtPC {
		s.lowerForwardJump(jump)
		return
	}
	targetLine := s.cfa.lineOf(jump.JumpTarget)
	s.cfa.injectWhileTrue(targetLine)
	s.cfa.emit("}")
}

// lowerForwardJump implements spec §4.6's "Lowering Jump (forward)".
func (s *synthesizer) lowerForwardJump(jump Operation) {
	targetLine := s.cfa.lineOf(jump.JumpTarget)
	if targetLine <= s.line {
		targetLine = s.cfa.nextGreaterLine(s.line)
	}
	s.cfa.registerElse(s.line + 1)
	s.cfa.registerClosingBracket(targetLine)
}

// sequential lowers pattern 5: emit every op on the line in order; if the
// first is a Cond, its lowering opens a fresh brace-delimited scope for
// the rest of the line's ops (used for single-statement if/while bodies
// appearing on the same source line as their header, and for simple
// non-control lines with no Cond at all).
func (s *synthesizer) sequential(ops []Operation) {
	for i, op := range ops {
		if i == 0 && op.Kind == OpCond {
			s.lowerCond(op)
			s.cfa.emit("{")
			s.cfa.pushScope()
			continue
		}
		s.emitOp(op)
	}
}

// lowerCond implements spec §4.6's "Lowering individual Cond": it peeks
// the three bytes before the branch target to tell a while-loop test from
// a plain if, per the backward-goto heuristic.
func (s *synthesizer) lowerCond(cond Operation) {
	code := s.cfa.method.Code
	keyword := "if"
	if peekIsGoto(code, cond.Target) {
		offset := gotoOffsetBefore(code, cond.Target)
		loopTarget := uint32(int64(cond.Target) - 3 + int64(offset))
		switch {
		case loopTarget == cond.AtPC:
			keyword = "while"
		case loopTarget > cond.AtPC:
			keyword = "if"
		default:
			fatalf("%s.%s line %d: backwards jump out of a conditional", s.cfa.class.Name, s.cfa.method.Name, s.line)
		}
	}
	s.cfa.emit(fmt.Sprintf("%s (%s %s %s)", keyword, cond.Left, cond.CondOp, cond.Right))
	s.cfa.registerClosingBracket(s.cfa.lineOf(cond.Target))
}

// emitOp renders one non-control Operation as a single Instruction.
func (s *synthesizer) emitOp(op Operation) {
	switch op.Kind {
	case OpStore:
		s.cfa.emit(renderStore(op))
	case OpInc:
		if op.Constant == 1 {
			s.cfa.emit(fmt.Sprintf("local_%d++;", op.Slot))
		} else {
			s.cfa.emit(fmt.Sprintf("local_%d += %d;", op.Slot, op.Constant))
		}
	case OpIndexedStore:
		s.cfa.emit(fmt.Sprintf("%s[%s] = %s;", op.ArrayExpr, op.IndexExpr, op.ValueExpr))
	case OpReturn:
		if op.HasValue {
			s.cfa.emit(fmt.Sprintf("return %s;", op.RetValue))
		} else {
			s.cfa.emit("return;")
		}
	case OpCall:
		s.cfa.emit(op.Text)
	case OpCond:
		s.lowerCond(op)
		s.cfa.emit("{")
		s.cfa.pushScope()
	case OpJump:
		if op.JumpTarget > op.JumpAtPC {
			s.lowerForwardJump(op)
		} else {
			targetLine := s.cfa.lineOf(op.JumpTarget)
			s.cfa.injectWhileTrue(targetLine)
			s.cfa.emit("}")
		}
	default:
		ice("emitOp: unhandled operation kind %d", op.Kind)
	}
}

func renderStore(op Operation) string {
	if len(op.ArrayValues) > 0 || op.ArraySize != "" && op.ArrayType != "" && op.Value == "" {
		decl := op.DeclType
		if decl == "" {
			decl = op.ArrayType + "[]"
		}
		if len(op.ArrayValues) > 0 {
			return fmt.Sprintf("%s local_%d[%s] = {%s};", decl, op.Slot, op.ArraySize, joinComma(op.ArrayValues))
		}
		return fmt.Sprintf("%s local_%d[%s];", decl, op.Slot, op.ArraySize)
	}
	if op.DeclType != "" {
		return fmt.Sprintf("%s local_%d = %s;", op.DeclType, op.Slot, op.Value)
	}
	return fmt.Sprintf("local_%d = %s;", op.Slot, op.Value)
}
