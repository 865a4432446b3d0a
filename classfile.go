package pjc

import "strings"

// Access flag bits, as laid out in the classfile container (only the
// subset this tool interprets is named; the rest pass through unused).
const (
	AccPublic  uint16 = 0x0001
	AccPrivate uint16 = 0x0002
	AccStatic  uint16 = 0x0008
	AccFinal   uint16 = 0x0010
)

// Synthetic flags derived from field RuntimeInvisibleAnnotations (spec
// §4.2): types/unsigned sets Unsigned, ACC_FINAL sets Const. They live
// alongside the real access flags because DescriptorDecoder's "spell
// type" prefixes a type spelling with them before anything else looks at
// access flags.
const (
	FlagUnsigned uint16 = 1 << 8
	FlagConst    uint16 = 1 << 9
)

// ParseMode selects how much of a method body ClassfileParser decompiles.
type ParseMode int

const (
	// ParsePartial stops after metadata (constant pool, fields, method
	// headers, class-level annotations) without decompiling bodies. Used
	// during project discovery to find the @Board-annotated class
	// without paying for full decompilation of every class.
	ParsePartial ParseMode = iota
	// ParseFull decompiles every method body via ControlFlowAnalyzer.
	ParseFull
)

// LineEntry is one (start_pc, line_number) pair from a LineNumberTable.
type LineEntry struct {
	StartPC uint16
	Line    uint16
}

// Field is one class or instance field, ordered by classfile declaration
// order. Init is populated only by the <clinit> pass (§4.6) and only when
// the class has a static initialiser that assigns this field.
type Field struct {
	Name         string
	TypeSpelling string
	IsArray      bool
	AccessFlags  uint16
	Init         *string
}

// Method is one method's header plus, after a ParseFull pass, its
// decompiled body as an ordered sequence of emitted Instructions.
type Method struct {
	Name        string
	Descriptor  string
	AccessFlags uint16
	ArgCount    int

	Code            []byte
	LineNumberTable []LineEntry

	Instructions []Instruction
}

// Instruction is one logical emitted target-language line: an opening
// brace, a closing brace, or a synthesized statement. source_position is
// the originating source-VM line number, used only for emission ordering
// (spec §5: instructions are emitted in ascending source-line order, then
// by append order within a line) — it is not reproduced in the output.
type Instruction struct {
	SourcePosition uint32
	Text           string
}

// BootstrapEntry is a resolved BootstrapMethods table entry: either a
// makeConcatWithConstants string-concatenation template (with 0x01 byte
// placeholders per spliced argument) or a metafactory method reference
// already rendered in target-language call syntax.
type BootstrapEntry struct {
	IsConcat bool
	Template []byte // IsConcat: raw template bytes, 0x01 = placeholder
	MethodRef string // !IsConcat (metafactory): rendered target-language reference
}

// Class is one parsed classfile: constant pool, fields, methods,
// bootstrap templates, and the board annotation if present. It owns
// everything that lives for the duration of one class's compilation
// (spec §3 "Lifecycle").
type Class struct {
	Name       string
	SuperName  string
	Pool       *ConstantPool
	Fields     []*Field
	Methods    []*Method
	Bootstrap  map[int]BootstrapEntry

	HasBoard  bool
	BoardName string // enumeration constant name, e.g. "Pico"

	Mode ParseMode
}

// simpleName strips the namespace prefix a class name carries internally
// (source VM "/"-separated) down to the bare identifier, used wherever the
// emitter needs just the type name rather than the fully qualified one.
func (c *Class) simpleName() string {
	if i := strings.LastIndexByte(c.Name, '/'); i >= 0 {
		return c.Name[i+1:]
	}
	return c.Name
}

// ClassfileParser decodes one classfile byte buffer per spec §4.2.
type ClassfileParser struct {
	r       *ByteReader
	mode    ParseMode
	pool    *ConstantPool
	Project *Project // accumulates resources discovered during a ParseFull pass
}

// NewClassfileParser constructs a parser over buf for the given mode.
func NewClassfileParser(buf []byte, mode ParseMode) *ClassfileParser {
	return &ClassfileParser{r: NewByteReader(buf), mode: mode}
}

const classMagic = 0xCAFEBABE

// Parse decodes the wrapped buffer into a Class. Any structural violation
// (bad magic, unknown tag, disallowed attribute, interfaces_count != 0) is
// fatal, per spec §4.2/§7.
func (p *ClassfileParser) Parse() *Class {
	r := p.r

	magic := r.U4()
	if magic != classMagic {
		fatalf("bad classfile magic %#08x, expected %#08x", magic, classMagic)
	}
	r.U2() // minor version, not validated
	r.U2() // major version, not validated

	cp := p.parseConstantPool()
	p.pool = cp

	r.U2() // access_flags: not used by this tool beyond what's on fields/methods
	thisClassIdx := r.U2()
	superClassIdx := r.U2()

	class := &Class{
		Name:      cp.ClassName(int(thisClassIdx)),
		SuperName: cp.ClassName(int(superClassIdx)),
		Pool:      cp,
		Bootstrap: make(map[int]BootstrapEntry),
		Mode:      p.mode,
	}

	interfacesCount := r.U2()
	if interfacesCount != 0 {
		fatalf("class %s: interfaces_count = %d, only 0 is accepted", class.Name, interfacesCount)
	}

	class.Fields = p.parseFields(cp)
	class.Methods = p.parseMethods(cp)
	p.parseClassAttributes(class, cp)

	if p.mode == ParseFull {
		if p.Project == nil {
			p.Project = NewProject()
		}
		for _, m := range class.Methods {
			if len(m.Code) == 0 {
				continue
			}
			m.Instructions = NewControlFlowAnalyzer(class, m, p.Project).Run()
		}
	}

	logPass("parsed class %s (mode=%d, board=%v/%s)", class.Name, p.mode, class.HasBoard, class.BoardName)
	return class
}

func (p *ClassfileParser) parseConstantPool() *ConstantPool {
	r := p.r
	count := int(r.U2())
	cp := newConstantPool(count)

	for i := 1; i < count; i++ {
		tag := r.U1()
		switch tag {
		case 1: // Utf8
			length := int(r.U2())
			cp.set(i, ConstantPoolEntry{Tag: CPUtf8, Utf8: string(r.Bytes(length))})
		case 3: // Integer
			cp.set(i, ConstantPoolEntry{Tag: CPInteger, Int: r.S4()})
		case 4: // Float
			cp.set(i, ConstantPoolEntry{Tag: CPFloat, Float: float32FromBits(r.U4())})
		case 5: // Long (occupies two slots)
			cp.set(i, ConstantPoolEntry{Tag: CPLong, Long: int64(r.U8())})
			i++
			cp.set(i, ConstantPoolEntry{Tag: CPSentinel})
		case 6: // Double (occupies two slots)
			cp.set(i, ConstantPoolEntry{Tag: CPDouble, Double: float64FromBits(r.U8())})
			i++
			cp.set(i, ConstantPoolEntry{Tag: CPSentinel})
		case 7: // Class
			cp.set(i, ConstantPoolEntry{Tag: CPClass, NameIndex: int(r.U2())})
		case 8: // String
			cp.set(i, ConstantPoolEntry{Tag: CPString, Utf8Index: int(r.U2())})
		case 9: // FieldRef
			cp.set(i, ConstantPoolEntry{Tag: CPFieldRef, ClassIndex: int(r.U2()), NatIndex: int(r.U2())})
		case 10: // MethodRef
			cp.set(i, ConstantPoolEntry{Tag: CPMethodRef, ClassIndex: int(r.U2()), NatIndex: int(r.U2())})
		case 11: // InterfaceMethodRef
			cp.set(i, ConstantPoolEntry{Tag: CPInterfaceMethodRef, ClassIndex: int(r.U2()), NatIndex: int(r.U2())})
		case 12: // NameAndType
			cp.set(i, ConstantPoolEntry{Tag: CPNameAndType, NameIndex: int(r.U2()), DescIndex: int(r.U2())})
		case 15: // MethodHandle
			kind := r.U1()
			refIdx := int(r.U2())
			cp.set(i, ConstantPoolEntry{Tag: CPMethodHandle, HandleKind: kind, HandleRefIdx: refIdx})
		case 16: // MethodType
			cp.set(i, ConstantPoolEntry{Tag: CPMethodType, DescIndex: int(r.U2())})
		case 18: // InvokeDynamic
			bootstrapIdx := int(r.U2())
			natIdx := int(r.U2())
			cp.set(i, ConstantPoolEntry{Tag: CPInvokeDynamic, BootstrapIdx: bootstrapIdx, NatIndex: natIdx})
		default:
			fatalf("constant pool entry %d: unknown tag %d", i, tag)
		}
	}

	return cp
}

func (p *ClassfileParser) parseFields(cp *ConstantPool) []*Field {
	r := p.r
	count := int(r.U2())
	fields := make([]*Field, 0, count)
	for i := 0; i < count; i++ {
		accessFlags := r.U2()
		nameIdx := r.U2()
		descIdx := r.U2()
		name := cp.Utf8At(int(nameIdx))
		descriptor := cp.Utf8At(int(descIdx))

		f := &Field{Name: name, AccessFlags: accessFlags}
		if accessFlags&AccFinal != 0 {
			f.AccessFlags |= FlagConst
		}

		attrCount := int(r.U2())
		for a := 0; a < attrCount; a++ {
			attrNameIdx := r.U2()
			attrLen := r.U4()
			attrName := cp.Utf8At(int(attrNameIdx))
			switch attrName {
			case "RuntimeInvisibleAnnotations":
				p.parseFieldAnnotations(cp, f)
			default:
				fatalf("field %s: unsupported attribute %q", name, attrName)
			}
			_ = attrLen
		}

		f.TypeSpelling, f.IsArray = SpellType(descriptor, f.AccessFlags)
		fields = append(fields, f)
	}
	return fields
}

// parseFieldAnnotations reads RuntimeInvisibleAnnotations for a field and
// applies the fixed set spec §4.2 allows: types/unsigned sets the
// Unsigned flag.
func (p *ClassfileParser) parseFieldAnnotations(cp *ConstantPool, f *Field) {
	r := p.r
	numAnnotations := int(r.U2())
	for i := 0; i < numAnnotations; i++ {
		typeIdx := r.U2()
		typeName := cp.Utf8At(int(typeIdx))
		numPairs := int(r.U2())
		for e := 0; e < numPairs; e++ {
			r.U2() // element name index
			skipAnnotationElementValue(r, cp)
		}
		switch typeName {
		case "Ltypes/unsigned;":
			f.AccessFlags |= FlagUnsigned
		default:
			fatalf("field annotation %q not in the accepted set", typeName)
		}
	}
}

// skipAnnotationElementValue consumes one annotation element_value,
// recursing for array/annotation/enum shapes. Only scalar and enum forms
// appear in the accepted input (@Board(Type.X) and field markers), but the
// full element_value grammar is consumed so unrelated bytes stay aligned.
func skipAnnotationElementValue(r *ByteReader, cp *ConstantPool) {
	tag := r.U1()
	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's':
		r.U2()
	case 'e':
		r.U2() // type name index
		r.U2() // const name index
	case 'c':
		r.U2()
	case '@':
		r.U2() // nested annotation type index
		numPairs := int(r.U2())
		for i := 0; i < numPairs; i++ {
			r.U2()
			skipAnnotationElementValue(r, cp)
		}
	case '[':
		count := int(r.U2())
		for i := 0; i < count; i++ {
			skipAnnotationElementValue(r, cp)
		}
	default:
		fatalf("unknown annotation element_value tag %q", rune(tag))
	}
}
