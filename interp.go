package pjc

import "fmt"

// Opcode byte values from the source VM's instruction set, named only for
// the restricted subset spec §4.5 interprets; anything else encountered
// is fatal (malformed/unsupported program shape, §7).
const (
	opIconstM1 = 0x02
	opIconst0  = 0x03
	opIconst5  = 0x08
	opLconst0  = 0x09
	opLconst1  = 0x0a
	opFconst0  = 0x0b
	opFconst2  = 0x0d
	opDconst0  = 0x0e
	opDconst1  = 0x0f
	opBipush   = 0x10
	opSipush   = 0x11
	opLdc      = 0x12
	opLdcW     = 0x13
	opLdc2W    = 0x14
	opIload    = 0x15
	opLload    = 0x16
	opFload    = 0x17
	opDload    = 0x18
	opAload    = 0x19
	opIload0   = 0x1a
	opIload3   = 0x1d
	opLload0   = 0x1e
	opLload3   = 0x21
	opFload0   = 0x22
	opFload3   = 0x25
	opDload0   = 0x26
	opDload3   = 0x29
	opAload0   = 0x2a
	opAload3   = 0x2d
	opIaload   = 0x2e
	opAaload   = 0x32
	opIstore   = 0x36
	opLstore   = 0x37
	opFstore   = 0x38
	opDstore   = 0x39
	opAstore   = 0x3a
	opIstore0  = 0x3b
	opIstore3  = 0x3e
	opLstore0  = 0x3f
	opLstore3  = 0x42
	opFstore0  = 0x43
	opFstore3  = 0x46
	opDstore0  = 0x47
	opDstore3  = 0x4a
	opAstore0  = 0x4b
	opAstore3  = 0x4e
	opIastore  = 0x4f
	opAastore  = 0x53
	opBastore  = 0x54
	opCastore  = 0x55
	opSastore  = 0x56
	opDup      = 0x59
	opIadd     = 0x60
	opFadd     = 0x62
	opDadd     = 0x63
	opIsub     = 0x64
	opFsub     = 0x66
	opDsub     = 0x67
	opImul     = 0x68
	opLmul     = 0x69
	opFmul     = 0x6a
	opDmul     = 0x6b
	opIdiv     = 0x6c
	opIrem     = 0x70
	opIneg     = 0x74
	opIshl     = 0x78
	opIand     = 0x7e
	opIinc     = 0x84
	opI2f      = 0x86
	opI2d      = 0x87
	opL2f      = 0x89
	opF2d      = 0x8d
	opIfeq     = 0x99
	opIfne     = 0x9a
	opIflt     = 0x9b
	opIfge     = 0x9c
	opIfgt     = 0x9d
	opIfle     = 0x9e
	opIfIcmpeq = 0x9f
	opIfIcmpne = 0xa0
	opIfIcmplt = 0xa1
	opIfIcmpge = 0xa2
	opIfIcmpgt = 0xa3
	opIfIcmple = 0xa4
	opIfAcmpeq = 0xa5
	opIfAcmpne = 0xa6
	opGoto     = 0xa7
	opIreturn  = 0xac
	opLreturn  = 0xad
	opFreturn  = 0xae
	opDreturn  = 0xaf
	opAreturn  = 0xb0
	opReturn   = 0xb1
	opGetstatic = 0xb2
	opPutstatic = 0xb3
	opGetfield  = 0xb4
	opPutfield  = 0xb5
	opInvokevirtual = 0xb6
	opInvokespecial = 0xb7
	opInvokestatic  = 0xb8
	opInvokedynamic = 0xba
	opNew       = 0xbb
	opNewarray  = 0xbc
	opAnewarray = 0xbd
	opArraylength = 0xbe
	opIfnull    = 0xc6
	opIfnonnull = 0xc7
)

// newarray primitive type codes (atype operand).
const (
	atBoolean = 4
	atChar    = 5
	atFloat   = 6
	atDouble  = 7
	atByte    = 8
	atShort   = 9
	atInt     = 10
	atLong    = 11
)

func newarrayTypeName(atype uint8) string {
	switch atype {
	case atBoolean:
		return "bool"
	case atChar:
		return "char"
	case atFloat:
		return "f32"
	case atDouble:
		return "f64"
	case atByte:
		return "i8"
	case atShort:
		return "i16"
	case atInt:
		return "i32"
	case atLong:
		return "i64"
	default:
		fatalf("newarray: unknown primitive type code %d", atype)
	}
	return ""
}

// invertedCmp maps a comparison opcode's high-level sense to the inverted
// operator emitted in the rendered condition (spec §4.5: "the branch is
// taken when the condition is false in the high-level sense").
var invertedCmp = map[int]string{
	opIfeq: "!=", opIfne: "==", opIflt: ">=", opIfge: "<", opIfgt: "<=", opIfle: ">",
	opIfIcmpeq: "!=", opIfIcmpne: "==", opIfIcmplt: ">=", opIfIcmpge: "<", opIfIcmpgt: "<=", opIfIcmple: ">",
	opIfAcmpeq: "!=", opIfAcmpne: "==",
	opIfnull: "!=", opIfnonnull: "==",
}

// invertOp inverts an already-rendered comparison operator, used when two
// consecutive Cond operations with distinct targets fold into `inv(op1) ||
// op2` (spec §4.6 pattern 3).
func invertOp(op string) string {
	switch op {
	case "==":
		return "!="
	case "!=":
		return "=="
	case "<":
		return ">="
	case ">=":
		return "<"
	case ">":
		return "<="
	case "<=":
		return ">"
	}
	ice("invertOp: unrecognised operator %q", op)
	return ""
}

// codeSegment is one contiguous pc range of a method's Code array that the
// LineNumberTable maps to a single source line. A line may be fed by
// several non-adjacent segments (e.g. a for loop's init+condition near the
// top of the method and its increment+back-edge near the bottom, both
// tagged with the for-header's source line); they are interpreted in pc
// order as one continuous operand-stack session.
type codeSegment struct {
	start uint32
	bytes []byte
}

// Interpreter walks the bytecode of one source-line's segments,
// maintaining a symbolic operand stack, and lowers each opcode into zero
// or more Operations (spec §4.5).
type Interpreter struct {
	class   *Class
	method  *Method
	cfa     *ControlFlowAnalyzer
	project *Project

	stack []StackValue
	ops   []Operation
}

func newInterpreter(class *Class, method *Method, cfa *ControlFlowAnalyzer, project *Project) *Interpreter {
	return &Interpreter{class: class, method: method, cfa: cfa, project: project}
}

func (ip *Interpreter) push(v StackValue) { ip.stack = append(ip.stack, v) }

func (ip *Interpreter) pop() StackValue {
	if len(ip.stack) == 0 {
		ice("operand stack underflow in %s.%s", ip.class.Name, ip.method.Name)
	}
	v := ip.stack[len(ip.stack)-1]
	ip.stack = ip.stack[:len(ip.stack)-1]
	return v
}

// render turns a symbolic stack value into target-language expression
// text, quoting string literals. This is the single place values cross
// from "typed symbolic value" to "source text" (spec §9's design note
// against a stringly-typed stack).
func (ip *Interpreter) render(v StackValue) string {
	switch v.Kind {
	case ValInt:
		return fmt.Sprintf("%d", v.IntVal)
	case ValLong:
		return fmt.Sprintf("%dLL", v.LongVal)
	case ValFloat:
		return fmt.Sprintf("%gf", v.FloatVal)
	case ValDouble:
		return fmt.Sprintf("%g", v.DoubleVal)
	case ValExpr:
		return v.Expr
	case ValObject:
		return v.ConstructorCall
	case ValArrayLiteral:
		return fmt.Sprintf("{%s}", joinComma(v.Populated))
	}
	ice("render: unhandled stack value kind %d", v.Kind)
	return ""
}

func joinComma(items []string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

// qualify renders a class-namespaced reference, "/" becoming "::".
func qualify(className string) string {
	return classNameToCpp(className)
}

// run interprets every segment of one line in pc order and returns the
// Operations produced.
func (ip *Interpreter) run(segments []codeSegment) []Operation {
	for _, seg := range segments {
		ip.runSegment(seg)
	}
	return ip.ops
}

func (ip *Interpreter) runSegment(seg codeSegment) {
	r := NewByteReader(seg.bytes)
	for r.Remaining() > 0 {
		pc := seg.start + uint32(r.Pos())
		opcode := int(r.U1())
		ip.step(opcode, pc, r)
	}
}

func (ip *Interpreter) step(opcode int, pc uint32, r *ByteReader) {
	switch {
	case opcode >= opIconstM1 && opcode <= opIconst5:
		ip.push(StackValue{Kind: ValInt, IntVal: int32(opcode - opIconst0)})
	case opcode == opLconst0 || opcode == opLconst1:
		ip.push(StackValue{Kind: ValLong, LongVal: int64(opcode - opLconst0)})
	case opcode >= opFconst0 && opcode <= opFconst2:
		ip.push(StackValue{Kind: ValFloat, FloatVal: float32(opcode - opFconst0)})
	case opcode == opDconst0 || opcode == opDconst1:
		ip.push(StackValue{Kind: ValDouble, DoubleVal: float64(opcode - opDconst0)})
	case opcode == opBipush:
		ip.push(StackValue{Kind: ValInt, IntVal: int32(r.S1())})
	case opcode == opSipush:
		ip.push(StackValue{Kind: ValInt, IntVal: int32(r.S2())})
	case opcode == opLdc:
		ip.ldc(int(r.U1()))
	case opcode == opLdcW || opcode == opLdc2W:
		ip.ldc(int(r.U2()))

	case opcode == opIload || opcode == opAload || opcode == opLload || opcode == opFload || opcode == opDload:
		ip.loadLocal(int(r.U1()))
	case opcode >= opIload0 && opcode <= opIload3:
		ip.loadLocal(opcode - opIload0)
	case opcode >= opLload0 && opcode <= opLload3:
		ip.loadLocal(opcode - opLload0)
	case opcode >= opFload0 && opcode <= opFload3:
		ip.loadLocal(opcode - opFload0)
	case opcode >= opDload0 && opcode <= opDload3:
		ip.loadLocal(opcode - opDload0)
	case opcode >= opAload0 && opcode <= opAload3:
		ip.loadLocal(opcode - opAload0)

	case opcode == opIstore || opcode == opAstore || opcode == opLstore || opcode == opFstore || opcode == opDstore:
		ip.storeLocal(int(r.U1()), declTagFor(opcode))
	case opcode >= opIstore0 && opcode <= opIstore3:
		ip.storeLocal(opcode-opIstore0, TypeInt)
	case opcode >= opLstore0 && opcode <= opLstore3:
		ip.storeLocal(opcode-opLstore0, TypeLong)
	case opcode >= opFstore0 && opcode <= opFstore3:
		ip.storeLocal(opcode-opFstore0, TypeFloat)
	case opcode >= opDstore0 && opcode <= opDstore3:
		ip.storeLocal(opcode-opDstore0, TypeDouble)
	case opcode >= opAstore0 && opcode <= opAstore3:
		ip.storeLocal(opcode-opAstore0, TypeObject)

	case opcode == opNewarray:
		atype := r.U1()
		size := ip.pop()
		ip.push(StackValue{Kind: ValArrayLiteral, ElemType: newarrayTypeName(atype), Size: ip.render(size), Position: pc})
	case opcode == opAnewarray:
		classIdx := r.U2()
		size := ip.pop()
		elem := qualify(ip.class.Pool.ClassName(int(classIdx)))
		ip.push(StackValue{Kind: ValArrayLiteral, ElemType: elem, Size: ip.render(size), Position: pc})

	case opcode == opIastore || opcode == opAastore || opcode == opBastore || opcode == opCastore || opcode == opSastore:
		ip.arrayStore()

	case opcode == opIadd, opcode == opFadd, opcode == opDadd:
		ip.binInfix("+")
	case opcode == opIsub, opcode == opFsub, opcode == opDsub:
		ip.binInfix("-")
	case opcode == opImul, opcode == opLmul, opcode == opFmul, opcode == opDmul:
		ip.binInfix("*")
	case opcode == opIdiv:
		ip.binInfix("/")
	case opcode == opIrem:
		ip.binInfix("%")
	case opcode == opIand:
		ip.binInfix("&")
	case opcode == opIshl:
		ip.binInfix("<<")
	case opcode == opIneg:
		v := ip.pop()
		ip.push(StackValue{Kind: ValExpr, Expr: fmt.Sprintf("(-%s)", ip.render(v))})

	case opcode == opL2f || opcode == opF2d:
		v := ip.pop()
		cast := "f32"
		if opcode == opF2d {
			cast = "f64"
		}
		ip.push(StackValue{Kind: ValExpr, Expr: fmt.Sprintf("(%s)(%s)", cast, ip.render(v))})
	case opcode == opI2f || opcode == opI2d:
		v := ip.pop()
		cast := "f32"
		if opcode == opI2d {
			cast = "f64"
		}
		ip.push(StackValue{Kind: ValExpr, Expr: fmt.Sprintf("(%s)(%s)", cast, ip.render(v))})

	case opcode == opGetstatic:
		idx := r.U2()
		class, name, _ := ip.class.Pool.FieldRef(int(idx))
		ip.push(StackValue{Kind: ValExpr, Expr: qualify(class) + "::" + name})
	case opcode == opPutstatic:
		idx := r.U2()
		class, name, _ := ip.class.Pool.FieldRef(int(idx))
		ip.fieldAssign(qualify(class)+"::"+name, name, class == ip.class.Name)
	case opcode == opGetfield:
		idx := r.U2()
		_, name, _ := ip.class.Pool.FieldRef(int(idx))
		recv := ip.pop()
		ip.push(StackValue{Kind: ValExpr, Expr: receiverPrefix(ip.render(recv)) + name})
	case opcode == opPutfield:
		idx := r.U2()
		_, name, _ := ip.class.Pool.FieldRef(int(idx))
		val := ip.pop()
		recv := ip.pop()
		lhs := receiverPrefix(ip.render(recv)) + name
		ip.emitCall(fmt.Sprintf("%s = %s;", lhs, ip.render(val)))

	case opcode == opInvokestatic, opcode == opInvokevirtual, opcode == opInvokespecial:
		idx := r.U2()
		ip.invoke(opcode, int(idx))
	case opcode == opInvokedynamic:
		idx := r.U2()
		r.U2() // trailing zero bytes
		ip.invokeDynamic(int(idx))

	case opcode == opDup:
		top := ip.stack[len(ip.stack)-1]
		ip.push(top)

	case opcode == opNew:
		classIdx := r.U2()
		name := qualify(ip.class.Pool.ClassName(int(classIdx)))
		ip.push(StackValue{Kind: ValObject, ObjType: name})

	case opcode == opArraylength:
		v := ip.pop()
		ip.push(StackValue{Kind: ValExpr, Expr: ip.render(v) + ".size()"})

	case opcode == opIinc:
		slot := int(r.U1())
		k := int32(r.S1())
		ip.ops = append(ip.ops, Operation{Kind: OpInc, Slot: slot, Constant: k})

	case isCondOpcode(opcode):
		off := r.S2()
		target := uint32(int64(pc) + int64(off))
		ip.emitCond(opcode, pc, target)

	case opcode == opGoto:
		off := r.S2()
		target := uint32(int64(pc) + int64(off))
		if ip.cfa.skippedGotos[pc] {
			return
		}
		ip.ops = append(ip.ops, Operation{Kind: OpJump, JumpTarget: target, JumpAtPC: pc})

	case opcode == opReturn:
		if ip.method.Name == "main" {
			ip.ops = append(ip.ops, Operation{Kind: OpReturn, HasValue: true, RetValue: "0"})
		} else {
			ip.ops = append(ip.ops, Operation{Kind: OpReturn})
		}
	case opcode == opIreturn, opcode == opLreturn, opcode == opFreturn, opcode == opDreturn, opcode == opAreturn:
		v := ip.pop()
		ip.ops = append(ip.ops, Operation{Kind: OpReturn, HasValue: true, RetValue: ip.render(v)})

	default:
		fatalf("unsupported opcode %#02x at pc %d in %s.%s", opcode, pc, ip.class.Name, ip.method.Name)
	}
}

func isCondOpcode(opcode int) bool {
	switch opcode {
	case opIfeq, opIfne, opIflt, opIfge, opIfgt, opIfle,
		opIfIcmpeq, opIfIcmpne, opIfIcmplt, opIfIcmpge, opIfIcmpgt, opIfIcmple,
		opIfAcmpeq, opIfAcmpne, opIfnull, opIfnonnull:
		return true
	}
	return false
}

func declTagFor(opcode int) TypeTag {
	switch opcode {
	case opIstore:
		return TypeInt
	case opLstore:
		return TypeLong
	case opFstore:
		return TypeFloat
	case opDstore:
		return TypeDouble
	case opAstore:
		return TypeObject
	}
	return TypeNone
}

func (ip *Interpreter) ldc(idx int) {
	e := ip.class.Pool.entries[idx]
	switch e.Tag {
	case CPInteger:
		ip.push(StackValue{Kind: ValInt, IntVal: e.Int})
	case CPFloat:
		ip.push(StackValue{Kind: ValFloat, FloatVal: e.Float})
	case CPLong:
		ip.push(StackValue{Kind: ValLong, LongVal: e.Long})
	case CPDouble:
		ip.push(StackValue{Kind: ValDouble, DoubleVal: e.Double})
	case CPString:
		ip.push(StackValue{Kind: ValExpr, Expr: fmt.Sprintf("%q", ip.class.Pool.Utf8At(e.Utf8Index))})
	default:
		fatalf("ldc: constant pool index %d is not a loadable constant", idx)
	}
}

// loadLocal pushes an opaque reference to local slot n (spec §4.5: loads
// push "local_N" rather than resolving the stored value eagerly — the
// value is only realised when a consumer renders it).
func (ip *Interpreter) loadLocal(n int) {
	ip.push(StackValue{Kind: ValExpr, Expr: fmt.Sprintf("local_%d", n)})
}

// storeLocal pops one value and emits a Store operation, declaring a
// fresh type only when the slot's recorded type tag changes (spec §3's
// local-slot type map semantics).
func (ip *Interpreter) storeLocal(slot int, tag TypeTag) {
	v := ip.pop()

	if v.Kind == ValArrayLiteral {
		ip.ops = append(ip.ops, Operation{
			Kind: OpStore, Slot: slot,
			DeclType: ip.declTypeIfChanged(slot, TypeArray, fmt.Sprintf("%s[]", v.ElemType)),
			ArrayType: v.ElemType, ArraySize: v.Size, ArrayValues: v.Populated,
		})
		ip.cfa.setLocalType(slot, TypeArray)
		return
	}

	decl := ip.declTypeIfChanged(slot, tag, spellTagDecl(tag))
	ip.ops = append(ip.ops, Operation{Kind: OpStore, Slot: slot, DeclType: decl, Value: ip.render(v)})
	ip.cfa.setLocalType(slot, tag)
}

func (ip *Interpreter) declTypeIfChanged(slot int, tag TypeTag, spelling string) string {
	if ip.cfa.localType(slot) == tag {
		return ""
	}
	return spelling
}

func spellTagDecl(tag TypeTag) string {
	switch tag {
	case TypeInt:
		return "i32"
	case TypeLong:
		return "i64"
	case TypeFloat:
		return "f32"
	case TypeDouble:
		return "f64"
	case TypeBoolean:
		return "bool"
	case TypeChar:
		return "char"
	case TypeByte:
		return "i8"
	case TypeShort:
		return "i16"
	case TypeString:
		return "String"
	case TypeObject:
		return "auto"
	}
	return "auto"
}

// arrayStore handles i/a/b/c/s-astore: if the array operand is still an
// unfinished ArrayLiteral on the stack, the value is appended to its
// initializer list (dup;const;const;xastore idiom); if it is an
// already-declared variable expression, an IndexedStore operation is
// emitted instead (spec §4.5).
func (ip *Interpreter) arrayStore() {
	value := ip.pop()
	index := ip.pop()
	arr := ip.pop()

	if arr.Kind == ValArrayLiteral {
		arr.Populated = append(arr.Populated, ip.render(value))
		ip.push(arr)
		return
	}

	ip.ops = append(ip.ops, Operation{
		Kind: OpIndexedStore,
		ArrayExpr: ip.render(arr), IndexExpr: ip.render(index), ValueExpr: ip.render(value),
	})
}

func (ip *Interpreter) binInfix(op string) {
	right := ip.pop()
	left := ip.pop()
	ip.push(StackValue{Kind: ValExpr, Expr: fmt.Sprintf("(%s %s %s)", ip.render(left), op, ip.render(right))})
}

// fieldAssign lowers putstatic. Within <clinit>, spec §4.6/Emitter §4.7
// route the assignment into the Field's Init text instead of emitting a
// Call operation; everywhere else it becomes a fully rendered statement.
func (ip *Interpreter) fieldAssign(qualifiedLHS, fieldName string, sameClass bool) {
	val := ip.pop()
	rendered := ip.render(val)
	if ip.method.Name == "<clinit>" && sameClass {
		ip.cfa.recordStaticInit(fieldName, rendered)
		return
	}
	ip.emitCall(fmt.Sprintf("%s = %s;", qualifiedLHS, rendered))
}

// emitCall appends a Call operation, unless the enclosing method is
// <clinit> (static initialisers never produce a function body; their
// call-style side effects are dropped per spec §4.7).
func (ip *Interpreter) emitCall(text string) {
	if ip.method.Name == "<clinit>" {
		return
	}
	ip.ops = append(ip.ops, Operation{Kind: OpCall, Text: text})
}

func receiverPrefix(recv string) string {
	if recv == "local_0" {
		return "" // drop "this" when emitting inside a method of the same class
	}
	return recv + "."
}

// isUnaryCondOpcode reports whether opcode compares a single value
// against the implicit constant zero/null (ifOP, ifnull, ifnonnull), as
// opposed to the two-operand if_icmpOP/if_acmpOP family.
func isUnaryCondOpcode(opcode int) bool {
	switch opcode {
	case opIfeq, opIfne, opIflt, opIfge, opIfgt, opIfle, opIfnull, opIfnonnull:
		return true
	}
	return false
}

func (ip *Interpreter) emitCond(opcode int, pc, target uint32) {
	op, ok := invertedCmp[opcode]
	if !ok {
		ice("emitCond: opcode %#02x has no inverted comparison entry", opcode)
	}

	var leftText, rightText string
	if isUnaryCondOpcode(opcode) {
		left := ip.pop()
		leftText = ip.render(left)
		rightText = "0"
		if opcode == opIfnull || opcode == opIfnonnull {
			rightText = "nullptr"
		}
	} else {
		right := ip.pop()
		left := ip.pop()
		leftText = ip.render(left)
		rightText = ip.render(right)
	}

	ip.ops = append(ip.ops, Operation{Kind: OpCond, Left: leftText, Right: rightText, CondOp: op, Target: target, AtPC: pc})

	if peekIsGoto(ip.method.Code, target) {
		ip.cfa.skippedGotos[target-3] = true
	}
}
