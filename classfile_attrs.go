package pjc

import "math"

func float32FromBits(bits uint32) float32 { return math.Float32frombits(bits) }
func float64FromBits(bits uint64) float64 { return math.Float64frombits(bits) }

// parseMethods reads the method_info table. Both parse modes read each
// Code attribute (code bytes and LineNumberTable) the same way; no
// instruction is interpreted here. The cost difference between the two
// passes §4.8 describes is that only ParseFull runs ControlFlowAnalyzer
// over the bodies afterwards (see Parse).
func (p *ClassfileParser) parseMethods(cp *ConstantPool) []*Method {
	r := p.r
	count := int(r.U2())
	methods := make([]*Method, 0, count)
	for i := 0; i < count; i++ {
		accessFlags := r.U2()
		nameIdx := r.U2()
		descIdx := r.U2()
		name := cp.Utf8At(int(nameIdx))
		descriptor := cp.Utf8At(int(descIdx))

		m := &Method{
			Name:        name,
			Descriptor:  descriptor,
			AccessFlags: accessFlags,
			ArgCount:    CountArgs(descriptor),
		}

		attrCount := int(r.U2())
		for a := 0; a < attrCount; a++ {
			attrNameIdx := r.U2()
			attrLen := r.U4()
			attrName := cp.Utf8At(int(attrNameIdx))
			switch attrName {
			case "Code":
				p.parseCodeAttribute(m)
			default:
				fatalf("method %s%s: unsupported attribute %q", name, descriptor, attrName)
			}
			_ = attrLen
		}

		methods = append(methods, m)
	}
	return methods
}

// parseCodeAttribute reads the Code attribute body: max_stack/max_locals
// (unused by this tool — the symbolic interpreter never needs a frame
// size), the code array, the exception table (read and discarded per
// spec §1's exception-handling non-goal), and nested attributes limited
// to LineNumberTable.
func (p *ClassfileParser) parseCodeAttribute(m *Method) {
	r := p.r
	r.U2() // max_stack
	r.U2() // max_locals
	codeLength := int(r.U4())
	m.Code = r.Bytes(codeLength)

	exceptionTableLength := int(r.U2())
	for i := 0; i < exceptionTableLength; i++ {
		r.Skip(8) // start_pc, end_pc, handler_pc, catch_type
	}

	attrCount := int(r.U2())
	for a := 0; a < attrCount; a++ {
		attrNameIdx := r.U2()
		attrLen := r.U4()
		// attrName is resolved lazily below because code attributes
		// carry their own constant pool reference via the enclosing
		// ClassfileParser's pool, not passed explicitly here.
		attrName := p.poolUtf8(attrNameIdx)
		switch attrName {
		case "LineNumberTable":
			tableLen := int(r.U2())
			m.LineNumberTable = make([]LineEntry, tableLen)
			for t := 0; t < tableLen; t++ {
				startPC := r.U2()
				line := r.U2()
				m.LineNumberTable[t] = LineEntry{StartPC: startPC, Line: line}
			}
		default:
			fatalf("method %s: unsupported Code sub-attribute %q", m.Name, attrName)
		}
		_ = attrLen
	}
}

// poolUtf8 is a convenience for resolving a Utf8 index against the pool
// currently being parsed (classfile attribute parsing is single-pass, so
// the parser keeps a reference to it for nested-attribute lookups).
func (p *ClassfileParser) poolUtf8(idx uint16) string {
	if p.pool == nil {
		fatalf("internal: poolUtf8 called before constant pool was set")
	}
	return p.pool.Utf8At(int(idx))
}

// parseClassAttributes reads the class_info attribute table: board
// annotation discovery, bootstrap methods, and the pass-through
// SourceFile/InnerClasses attributes spec §4.2 requires this tool to
// accept without acting on.
func (p *ClassfileParser) parseClassAttributes(class *Class, cp *ConstantPool) {
	r := p.r
	attrCount := int(r.U2())
	for a := 0; a < attrCount; a++ {
		attrNameIdx := r.U2()
		attrLen := r.U4()
		attrName := cp.Utf8At(int(attrNameIdx))
		switch attrName {
		case "RuntimeInvisibleAnnotations":
			p.parseClassAnnotations(class, cp)
		case "SourceFile":
			r.Skip(2)
			logSkip("class %s: ignoring SourceFile attribute", class.Name)
		case "BootstrapMethods":
			p.parseBootstrapMethods(class, cp)
		case "InnerClasses":
			n := int(r.U2())
			r.Skip(n * 8)
			logSkip("class %s: ignoring InnerClasses attribute (%d entries)", class.Name, n)
		default:
			fatalf("class %s: unsupported attribute %q", class.Name, attrName)
		}
		_ = attrLen
	}
}

// parseClassAnnotations extracts @Board(Type.X) from
// RuntimeInvisibleAnnotations at the class level.
func (p *ClassfileParser) parseClassAnnotations(class *Class, cp *ConstantPool) {
	r := p.r
	numAnnotations := int(r.U2())
	for i := 0; i < numAnnotations; i++ {
		typeIdx := r.U2()
		typeName := cp.Utf8At(int(typeIdx))
		numPairs := int(r.U2())
		var boardConst string
		for e := 0; e < numPairs; e++ {
			elemNameIdx := r.U2()
			elemName := cp.Utf8At(int(elemNameIdx))
			tag := r.U1()
			switch tag {
			case 'e':
				typeNameIdx := r.U2()
				constNameIdx := r.U2()
				_ = typeNameIdx
				if elemName == "value" {
					boardConst = cp.Utf8At(int(constNameIdx))
				}
			default:
				r.Seek(r.Pos() - 1)
				skipAnnotationElementValue(r, cp)
			}
		}
		if typeName == "Lannotations/Board;" && boardConst != "" {
			class.HasBoard = true
			class.BoardName = boardConst
		}
	}
}

// parseBootstrapMethods resolves every BootstrapMethods table entry per
// spec §4.2: a makeConcatWithConstants handle records its first
// static-string argument as a concatenation template; a metafactory
// handle records its second argument, already rendered as a
// target-language method reference. Only REF_invokeStatic handles are
// accepted as bootstrap arguments; any other bootstrap method name is
// fatal.
func (p *ClassfileParser) parseBootstrapMethods(class *Class, cp *ConstantPool) {
	r := p.r
	numBootstrap := int(r.U2())
	for i := 0; i < numBootstrap; i++ {
		handleIdx := r.U2()
		numArgs := int(r.U2())
		args := make([]int, numArgs)
		for a := 0; a < numArgs; a++ {
			args[a] = int(r.U2())
		}

		handle := cp.get(int(handleIdx), CPMethodHandle)
		methodClass, methodName, _ := cp.methodRefTag(handle.HandleRefIdx, CPMethodRef)

		switch methodName {
		case "makeConcatWithConstants":
			if len(args) == 0 {
				fatalf("bootstrap method %d: makeConcatWithConstants with no arguments", i)
			}
			tmplEntry := cp.get(args[0], CPString)
			template := []byte(cp.Utf8At(tmplEntry.Utf8Index))
			class.Bootstrap[i] = BootstrapEntry{IsConcat: true, Template: template}
		case "metafactory":
			if len(args) < 2 {
				fatalf("bootstrap method %d: metafactory with fewer than 2 arguments", i)
			}
			mhEntry := cp.get(args[1], CPMethodHandle)
			refClass, refName, _ := cp.methodRefTag(mhEntry.HandleRefIdx, CPMethodRef)
			if mhEntry.HandleKind != 6 { // REF_invokeStatic
				fatalf("bootstrap method %d: metafactory target is not REF_invokeStatic", i)
			}
			class.Bootstrap[i] = BootstrapEntry{IsConcat: false, MethodRef: refClass + "::" + refName}
		default:
			fatalf("bootstrap method %d: unsupported bootstrap method %q on %s", i, methodName, methodClass)
		}
	}
}
