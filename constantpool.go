package pjc

// CPTag identifies the variant held by one ConstantPoolEntry. Grounded on
// the teacher's flat tagged-struct idiom (std/compiler/ir.go's Inst: one
// Kind/Op field plus the union of every variant's payload fields) rather
// than a Go interface hierarchy — the constant pool is small, fixed-shape,
// and resolved purely by index, so a flat struct keeps ClassfileParser's
// resolve-by-index code free of type switches on every read.
type CPTag int

const (
	CPSentinel CPTag = iota // slot 0, and the second slot of every Long/Double
	CPUtf8
	CPInteger
	CPFloat
	CPLong
	CPDouble
	CPClass
	CPString
	CPFieldRef
	CPMethodRef
	CPInterfaceMethodRef
	CPNameAndType
	CPMethodHandle
	CPMethodType
	CPInvokeDynamic
)

// ConstantPoolEntry is one 1-based-indexed slot. Only the fields relevant
// to Tag are populated; the rest are zero.
type ConstantPoolEntry struct {
	Tag CPTag

	Utf8 string // CPUtf8

	Int    int32   // CPInteger
	Float  float32 // CPFloat
	Long   int64   // CPLong
	Double float64 // CPDouble

	NameIndex int // CPClass: name; CPNameAndType: name
	Utf8Index int // CPString: string contents

	ClassIndex int // CPFieldRef/CPMethodRef/CPInterfaceMethodRef
	NatIndex   int // CPFieldRef/CPMethodRef/CPInterfaceMethodRef/CPMethodHandle(unused)/CPInvokeDynamic

	DescIndex int // CPNameAndType: descriptor; CPMethodType: descriptor

	HandleKind    uint8 // CPMethodHandle
	HandleRefIdx  int   // CPMethodHandle
	BootstrapIdx  int   // CPInvokeDynamic
}

// ConstantPool is a flat, 1-based-indexed container. Index 0 and the
// second slot of every Long/Double are CPSentinel; resolving an index to a
// sentinel, or one outside [1,len), is always fatal (spec §3 invariant) —
// there is deliberately no pointer-graph representation: every reference
// (FieldRef -> Class + NameAndType -> Utf8) is resolved by re-indexing,
// which also makes cycle/forward-reference rejection just a bounds+tag
// check instead of a graph walk.
type ConstantPool struct {
	entries []ConstantPoolEntry // entries[0] is the sentinel
}

func newConstantPool(count int) *ConstantPool {
	return &ConstantPool{entries: make([]ConstantPoolEntry, count)}
}

func (cp *ConstantPool) set(idx int, e ConstantPoolEntry) {
	cp.entries[idx] = e
}

// get resolves idx to a live entry of tag want, fatal otherwise.
func (cp *ConstantPool) get(idx int, want CPTag) ConstantPoolEntry {
	if idx <= 0 || idx >= len(cp.entries) {
		fatalf("constant pool index %d out of range [1,%d)", idx, len(cp.entries))
	}
	e := cp.entries[idx]
	if e.Tag != want {
		fatalf("constant pool index %d: expected tag %d, got %d", idx, want, e.Tag)
	}
	return e
}

// Utf8At resolves idx to its UTF-8 text, fatal if not a CPUtf8 entry.
func (cp *ConstantPool) Utf8At(idx int) string {
	return cp.get(idx, CPUtf8).Utf8
}

// ClassName resolves a CPClass entry to its name text (e.g. "types/Image").
func (cp *ConstantPool) ClassName(idx int) string {
	e := cp.get(idx, CPClass)
	return cp.Utf8At(e.NameIndex)
}

// NameAndType resolves a CPNameAndType entry to (name, descriptor).
func (cp *ConstantPool) NameAndType(idx int) (string, string) {
	e := cp.get(idx, CPNameAndType)
	return cp.Utf8At(e.NameIndex), cp.Utf8At(e.DescIndex)
}

// FieldRef resolves a CPFieldRef entry to (className, fieldName, descriptor).
func (cp *ConstantPool) FieldRef(idx int) (string, string, string) {
	e := cp.get(idx, CPFieldRef)
	class := cp.ClassName(e.ClassIndex)
	name, desc := cp.NameAndType(e.NatIndex)
	return class, name, desc
}

// methodRefTag resolves a method or interface-method ref of the given tag.
// Every caller in this package passes CPMethodRef (MethodRef, used by
// invokestatic/invokevirtual/invokespecial, and the BootstrapMethods
// handles); CPInterfaceMethodRef entries are parsed into the pool, but
// invokeinterface is not interpreted, so nothing resolves them.
func (cp *ConstantPool) methodRefTag(idx int, tag CPTag) (string, string, string) {
	e := cp.get(idx, tag)
	class := cp.ClassName(e.ClassIndex)
	name, desc := cp.NameAndType(e.NatIndex)
	return class, name, desc
}

// MethodRef resolves a CPMethodRef entry to (className, methodName, descriptor).
func (cp *ConstantPool) MethodRef(idx int) (string, string, string) {
	return cp.methodRefTag(idx, CPMethodRef)
}

// StringAt resolves a CPString entry to its underlying UTF-8 text.
func (cp *ConstantPool) StringAt(idx int) string {
	e := cp.get(idx, CPString)
	return cp.Utf8At(e.Utf8Index)
}
