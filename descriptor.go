package pjc

import "strings"

// DescriptorDecoder: parses source-VM type descriptors into target-language
// type spellings, and counts method argument slots. Grounded on the
// teacher's TypeInfo/TypeKind table (std/compiler/ir.go) for the idea of a
// small fixed primitive-kind table, adapted to the source VM's descriptor
// grammar instead of resolved Go types.

// CountArgs returns the number of parameter slots encoded in a method
// descriptor "(...)R": each "L...;" or array type counts as one slot,
// primitives count as one each.
func CountArgs(descriptor string) int {
	i := 1 // skip '('
	count := 0
	for i < len(descriptor) && descriptor[i] != ')' {
		for descriptor[i] == '[' {
			i++
		}
		switch descriptor[i] {
		case 'L':
			j := strings.IndexByte(descriptor[i:], ';')
			if j < 0 {
				fatalf("descriptor %q: unterminated object type", descriptor)
			}
			i += j + 1
		default:
			i++
		}
		count++
	}
	return count
}

// ArgDescriptors splits "(...)R" into its individual parameter descriptors,
// in order, without the array/object grammar collapsed — used wherever the
// interpreter needs per-argument type spellings rather than just a count.
func ArgDescriptors(descriptor string) []string {
	i := 1
	var out []string
	for i < len(descriptor) && descriptor[i] != ')' {
		start := i
		for descriptor[i] == '[' {
			i++
		}
		if descriptor[i] == 'L' {
			j := strings.IndexByte(descriptor[i:], ';')
			if j < 0 {
				fatalf("descriptor %q: unterminated object type", descriptor)
			}
			i += j + 1
		} else {
			i++
		}
		out = append(out, descriptor[start:i])
	}
	return out
}

// ReturnDescriptor returns the "R" half of "(...)R".
func ReturnDescriptor(descriptor string) string {
	idx := strings.IndexByte(descriptor, ')')
	if idx < 0 {
		fatalf("descriptor %q: missing ')'", descriptor)
	}
	return descriptor[idx+1:]
}

// SpellType renders one field/return/parameter descriptor as target-language
// source text, honouring the FlagUnsigned/FlagConst synthetic flags (spec
// §4.3). isArray reports whether the descriptor carried a leading "[".
func SpellType(descriptor string, flags uint16) (spelling string, isArray bool) {
	i := 0
	arrayDepth := 0
	for i < len(descriptor) && descriptor[i] == '[' {
		arrayDepth++
		i++
	}
	isArray = arrayDepth > 0

	base := spellScalar(descriptor[i:])

	var b strings.Builder
	if flags&FlagConst != 0 {
		b.WriteString("const ")
	}
	if flags&FlagUnsigned != 0 {
		b.WriteString("u")
	}
	b.WriteString(base)
	for d := 0; d < arrayDepth; d++ {
		b.WriteString("[]")
	}
	return b.String(), isArray
}

// spellScalar handles exactly one non-array descriptor character/object
// reference, per spec §4.3's fixed table.
func spellScalar(descriptor string) string {
	switch {
	case descriptor == "":
		fatalf("empty type descriptor")
	case descriptor[0] == 'I':
		return "i32"
	case descriptor[0] == 'B':
		return "i8"
	case descriptor[0] == 'S':
		return "i16"
	case descriptor[0] == 'Z':
		return "bool"
	case descriptor[0] == 'F':
		return "f32"
	case descriptor[0] == 'D':
		return "f64"
	case descriptor[0] == 'J':
		return "i64"
	case descriptor[0] == 'V':
		return "void"
	case descriptor[0] == 'L':
		name := descriptor[1 : len(descriptor)-1]
		switch {
		case name == "java/lang/String":
			return "String"
		case strings.HasPrefix(name, "types/"):
			return strings.TrimPrefix(name, "types/") + "_t"
		default:
			return strings.ReplaceAll(name, "/", "::")
		}
	default:
		fatalf("type descriptor %q: unrecognized type char %q", descriptor, rune(descriptor[0]))
	}
	return ""
}
