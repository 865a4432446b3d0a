package pjc

import "sort"

// ControlFlowAnalyzer partitions one method's bytecode into per-source-line
// chunks using the LineNumberTable, and owns every piece of state that
// persists across those chunks (spec §4.4): pending closing-brace and
// else-insertion points keyed by line number, the goto pcs already
// consumed as loop back-edges, and the local-slot type scope stack.
type ControlFlowAnalyzer struct {
	class   *Class
	method  *Method
	project *Project

	closingBrackets map[uint16]int // line -> count of "}" owed before it
	elseStmts       map[uint16]int // line -> count of "else {" owed before it
	skippedGotos    map[uint32]bool

	scopes []map[int]TypeTag // local-slot type scope stack

	instructions []Instruction
	currentLine  uint16
}

// NewControlFlowAnalyzer constructs an analyzer for one method of class.
func NewControlFlowAnalyzer(class *Class, method *Method, project *Project) *ControlFlowAnalyzer {
	return &ControlFlowAnalyzer{
		class:           class,
		method:          method,
		project:         project,
		closingBrackets: make(map[uint16]int),
		elseStmts:       make(map[uint16]int),
		skippedGotos:    make(map[uint32]bool),
		scopes:          []map[int]TypeTag{make(map[int]TypeTag)},
	}
}

func (c *ControlFlowAnalyzer) localType(slot int) TypeTag {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if t, ok := c.scopes[i][slot]; ok {
			return t
		}
	}
	return TypeNone
}

func (c *ControlFlowAnalyzer) setLocalType(slot int, tag TypeTag) {
	c.scopes[len(c.scopes)-1][slot] = tag
}

func (c *ControlFlowAnalyzer) pushScope() { c.scopes = append(c.scopes, make(map[int]TypeTag)) }

func (c *ControlFlowAnalyzer) popScope() {
	if len(c.scopes) <= 1 {
		ice("%s.%s: local-slot type scope popped below the method-level scope", c.class.Name, c.method.Name)
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// recordStaticInit routes a <clinit> putstatic onto the corresponding
// Field's Init text (spec §4.6/§4.7), rather than emitting a statement.
func (c *ControlFlowAnalyzer) recordStaticInit(fieldName, rendered string) {
	for _, f := range c.class.Fields {
		if f.Name == fieldName {
			v := rendered
			f.Init = &v
			return
		}
	}
	fatalf("<clinit> assigns unknown field %q on %s", fieldName, c.class.Name)
}

func (c *ControlFlowAnalyzer) lineOf(pc uint32) uint16 {
	line := uint16(0)
	for _, e := range c.method.LineNumberTable {
		if uint32(e.StartPC) <= pc {
			line = e.Line
		} else {
			break
		}
	}
	return line
}

// buildSegments groups the method's bytecode into per-line segment lists,
// in ascending pc order within each line, per spec §4.4: "Multiple chunks
// with the same line are merged in pc order."
func (c *ControlFlowAnalyzer) buildSegments() (map[uint16][]codeSegment, []uint16) {
	table := append([]LineEntry(nil), c.method.LineNumberTable...)
	sort.Slice(table, func(i, j int) bool { return table[i].StartPC < table[j].StartPC })

	byLine := make(map[uint16][]codeSegment)
	for i, e := range table {
		end := uint32(len(c.method.Code))
		if i+1 < len(table) {
			end = uint32(table[i+1].StartPC)
		}
		start := uint32(e.StartPC)
		if start >= end {
			continue
		}
		byLine[e.Line] = append(byLine[e.Line], codeSegment{start: start, bytes: c.method.Code[start:end]})
	}

	lines := make([]uint16, 0, len(byLine))
	for l := range byLine {
		lines = append(lines, l)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i] < lines[j] })
	return byLine, lines
}

// Run decompiles the whole method: per spec §4.4, chunks are processed in
// ascending source-line order, and the brace-insertion protocol (§4.6)
// runs before each line's own Operations are synthesized. It returns the
// ordered Instructions and panics/fatals if the method's control flow was
// not fully recognised (§4.4's end-of-method invariant).
func (c *ControlFlowAnalyzer) Run() []Instruction {
	byLine, lines := c.buildSegments()

	for _, line := range lines {
		c.currentLine = line
		c.applyBraceProtocol(line)

		ops := newInterpreter(c.class, c.method, c, c.project).run(byLine[line])
		synth := newSynthesizer(c, line)
		synth.emit(ops)
	}

	if len(c.closingBrackets) != 0 || len(c.elseStmts) != 0 {
		fatalf("%s.%s: control flow not fully recognised (%d pending '}', %d pending 'else')",
			c.class.Name, c.method.Name, totalCount(c.closingBrackets), totalCount(c.elseStmts))
	}

	return c.instructions
}

func totalCount(m map[uint16]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

// applyBraceProtocol performs the two insertion passes spec §4.6
// specifies before a line's own instructions: first every pending "else {"
// whose line is <= L, then every pending "}" whose line is <= L.
func (c *ControlFlowAnalyzer) applyBraceProtocol(line uint16) {
	for l, count := range c.elseStmts {
		if l > line {
			continue
		}
		for i := 0; i < count; i++ {
			c.emit("else")
			c.emit("{")
			c.popScope()
			c.pushScope()
		}
		delete(c.elseStmts, l)
	}
	for l, count := range c.closingBrackets {
		if l > line {
			continue
		}
		for i := 0; i < count; i++ {
			c.emit("}")
			c.popScope()
		}
		delete(c.closingBrackets, l)
	}
}

// emit appends one rendered line, tagged with the line currently being
// processed (spec §5: instructions are emitted in ascending source-line
// order, then by append order within a line).
func (c *ControlFlowAnalyzer) emit(text string) {
	c.instructions = append(c.instructions, Instruction{SourcePosition: uint32(c.currentLine), Text: text})
}

func (c *ControlFlowAnalyzer) registerClosingBracket(line uint16) {
	c.closingBrackets[line]++
}

func (c *ControlFlowAnalyzer) registerElse(line uint16) {
	c.elseStmts[line]++
}

// nextGreaterLine scans the LineNumberTable forward from after==line for
// the next strictly greater line number, used by the forward-Jump
// lowering when the line table assigns a fallthrough target to a
// lower-numbered line than the branch itself (spec §4.6).
func (c *ControlFlowAnalyzer) nextGreaterLine(after uint16) uint16 {
	best := after
	for _, e := range c.method.LineNumberTable {
		if e.Line > after && (best == after || e.Line < best) {
			best = e.Line
		}
	}
	if best == after {
		fatalf("%s.%s: no source line greater than %d found while lowering a forward jump", c.class.Name, c.method.Name, after)
	}
	return best
}

// injectWhileTrue implements the back-edge lowering of spec §4.6 pattern
// 4: "Inject while (true) { at the instruction list position
// corresponding to target's line ... and emit } to close it." It searches
// already-emitted instructions for the first one tagged with targetLine
// and splices the loop header immediately before it.
func (c *ControlFlowAnalyzer) injectWhileTrue(targetLine uint16) {
	idx := -1
	for i, inst := range c.instructions {
		if inst.SourcePosition == uint32(targetLine) {
			idx = i
			break
		}
	}
	header := Instruction{SourcePosition: uint32(targetLine), Text: "while (true)"}
	brace := Instruction{SourcePosition: uint32(targetLine), Text: "{"}
	if idx < 0 {
		// No instruction tagged with that line is in the buffer (the
		// current line's instructions are already in it, since emit
		// appends immediately): prepend at the front of the method.
		c.instructions = append([]Instruction{header, brace}, c.instructions...)
		return
	}
	tail := append([]Instruction{header, brace}, c.instructions[idx:]...)
	c.instructions = append(c.instructions[:idx], tail...)
}
