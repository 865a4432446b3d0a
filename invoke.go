package pjc

import (
	"fmt"
	"strings"
)

// classNameToCpp renders a source-VM internal class name ("a/b/C") as a
// target-language namespaced reference ("a::b::C"), per spec §4.5's field
// access rule; types/-namespaced names additionally drop the "types"
// segment and gain a "_t" suffix so they read the same as DescriptorDecoder
// would spell them as a field type.
func classNameToCpp(name string) string {
	if strings.HasPrefix(name, "types/") {
		return strings.TrimPrefix(name, "types/") + "_t"
	}
	return strings.ReplaceAll(name, "/", "::")
}

// invoke lowers invokestatic/invokevirtual/invokespecial (spec §4.5): pop
// N arguments per the descriptor's argument count, pop the receiver for
// virtual/special dispatch, and either push the call expression (non-void
// return) or emit a Call operation (void). invokespecial to <init> with a
// freshly `new`-constructed receiver instead produces an Object value; an
// invokespecial to <init> on `this` (local_0) is the implicit
// no-arg super-constructor call and is dropped entirely. invokespecial to
// <init> on the image resource class additionally records a ResourceEntry
// on the Project and collapses its arguments to an encoded-filename
// identifier (spec §8 scenario 5).
func (ip *Interpreter) invoke(opcode int, idx int) {
	class, name, descriptor := ip.class.Pool.MethodRef(idx)
	argc := CountArgs(descriptor)

	rawArgs := make([]StackValue, argc)
	for i := argc - 1; i >= 0; i-- {
		rawArgs[i] = ip.pop()
	}

	if opcode == opInvokestatic {
		args := make([]string, argc)
		for i, v := range rawArgs {
			args[i] = ip.render(v)
		}
		ip.completeCall(classNameToCpp(class)+"::"+name, args, ReturnDescriptor(descriptor))
		return
	}

	recv := ip.pop()

	if name == "<init>" {
		if opcode == opInvokespecial && recv.Kind == ValExpr && recv.Expr == "local_0" {
			// Implicit super-constructor call of the default no-arg
			// constructor; the source VM always emits this, and it has
			// no target-language equivalent here.
			return
		}
		if recv.Kind == ValObject {
			if class == imageResourceClass && argc >= 2 && argc <= 5 {
				recv.ConstructorCall = fmt.Sprintf("%s(%s)", recv.ObjType, ip.recordImageResource(rawArgs))
				ip.push(recv)
				return
			}
			args := make([]string, argc)
			for i, v := range rawArgs {
				args[i] = ip.render(v)
			}
			recv.ConstructorCall = fmt.Sprintf("%s(%s)", recv.ObjType, joinComma(args))
			ip.push(recv)
			return
		}
	}

	args := make([]string, argc)
	for i, v := range rawArgs {
		args[i] = ip.render(v)
	}

	receiverText := receiverPrefix(ip.render(recv))
	qualifiedName := receiverText + name
	if receiverText == "" {
		// Static-looking dispatch on an elided `this`: still call through
		// the (dropped) receiver's own method, i.e. just the bare name.
		qualifiedName = name
	}
	ip.completeCall(qualifiedName, args, ReturnDescriptor(descriptor))
}

// recordImageResource extracts (filename, format, yframes, xframes, loop)
// from an image constructor's raw arguments, appends a ResourceEntry to
// the owning Project, and returns the encoded-filename identifier that
// replaces them all in the emitted call, per original_source/classfile.cpp's
// invokespecial case for "gamebuino/Image" (argsCount in [2,5], with a
// fallthrough switch filling yframes/xframes/loop from the trailing
// arguments present).
func (ip *Interpreter) recordImageResource(rawArgs []StackValue) string {
	filename := strings.Trim(ip.render(rawArgs[0]), `"`)
	formatText := ip.render(rawArgs[1])
	format := "Indexed"
	if strings.HasSuffix(formatText, "Rgb565") {
		format = "Rgb565"
	}

	yframes, xframes, loop := 1, 1, 0
	switch len(rawArgs) {
	case 5:
		loop = int(rawArgs[4].IntVal)
		xframes = int(rawArgs[3].IntVal)
		yframes = int(rawArgs[2].IntVal)
	case 4:
		xframes = int(rawArgs[3].IntVal)
		yframes = int(rawArgs[2].IntVal)
	case 3:
		yframes = int(rawArgs[2].IntVal)
	}

	return ip.project.AddResource(filename, format, yframes, xframes, loop)
}

func (ip *Interpreter) completeCall(callee string, args []string, returnDescriptor string) {
	text := fmt.Sprintf("%s(%s)", callee, joinComma(args))
	if returnDescriptor == "V" {
		ip.emitCall(text + ";")
		return
	}
	ip.push(StackValue{Kind: ValExpr, Expr: text})
}

// invokeDynamic resolves the bootstrap template recorded by
// ClassfileParser and splices operands into its 0x01 placeholders (spec
// §4.5). Byte 0x02 templates are unsupported input, per spec.
func (ip *Interpreter) invokeDynamic(idx int) {
	e := ip.class.Pool.get(idx, CPInvokeDynamic)
	entry, ok := ip.class.Bootstrap[e.BootstrapIdx]
	if !ok {
		fatalf("invokedynamic: no bootstrap method table entry %d", e.BootstrapIdx)
	}
	if !entry.IsConcat {
		// metafactory-backed invokedynamic (method reference): push the
		// already-rendered target reference directly.
		ip.push(StackValue{Kind: ValExpr, Expr: entry.MethodRef})
		return
	}

	placeholders := 0
	for _, b := range entry.Template {
		switch b {
		case 0x01:
			placeholders++
		case 0x02:
			fatalf("invokedynamic: constant template byte 0x02 is not supported")
		}
	}

	args := make([]string, placeholders)
	for i := placeholders - 1; i >= 0; i-- {
		args[i] = ip.render(ip.pop())
	}

	var b strings.Builder
	argIdx := 0
	open := false
	flush := func(lit string) {
		if lit == "" {
			return
		}
		if open {
			b.WriteString(" + ")
		}
		b.WriteString(fmt.Sprintf("%q", lit))
		open = true
	}
	var lit strings.Builder
	for _, c := range entry.Template {
		if c == 0x01 {
			flush(lit.String())
			lit.Reset()
			if open {
				b.WriteString(" + ")
			}
			b.WriteString(args[argIdx])
			open = true
			argIdx++
			continue
		}
		lit.WriteByte(c)
	}
	flush(lit.String())

	ip.push(StackValue{Kind: ValExpr, Expr: b.String()})
}

// peekIsGoto reports whether the three bytes immediately preceding target
// in code form a goto instruction (spec §4.5's skipped_gotos detection,
// and §4.6's while-vs-if lowering). It returns false rather than faulting
// when target is too close to the start of the method, since that simply
// means there is no such preceding instruction.
func peekIsGoto(code []byte, target uint32) bool {
	if target < 3 || int(target) > len(code) {
		return false
	}
	return code[target-3] == opGoto
}

// gotoOffsetBefore reads the signed 16-bit branch offset of the goto
// immediately preceding target (used by StatementSynthesizer to compute
// loop_target = target - 3 + offset).
func gotoOffsetBefore(code []byte, target uint32) int16 {
	b := code[target-2 : target]
	return int16(uint16(b[0])<<8 | uint16(b[1]))
}
