package pjc

import (
	"fmt"
	"sort"
	"strings"
)

// Emitter renders the two files (header, implementation) of one class,
// per spec §4.7. Grounded on the teacher's per-target backend.go files
// (std/compiler/backend_linux_x64.go etc.), which each build one output
// artifact from an IRModule by straight string/byte assembly rather than a
// templating library — none appears anywhere in the pack for source-file
// rendering (text/template is reserved here for the board manifests, §3.1,
// which are fixed boilerplate rather than per-class generated bodies).
type Emitter struct {
	project *Project
	class   *Class
}

// NewEmitter constructs an Emitter for one class within project (project
// supplies the sibling-class include list and the board-shim filename).
func NewEmitter(project *Project, class *Class) *Emitter {
	return &Emitter{project: project, class: class}
}

const indentUnit = "    "

// Header renders the class's interface file: includes, forward surface,
// either free `extern` declarations (board-carrying class, spec §4.7) or a
// named scope matching the class name.
func (e *Emitter) Header() []byte {
	var b strings.Builder
	guard := strings.ToUpper(e.class.simpleName()) + "_H"
	fmt.Fprintf(&b, "#ifndef %s\n#define %s\n\n", guard, guard)
	e.writeIncludes(&b)

	if e.class.HasBoard {
		for _, f := range e.class.Fields {
			fmt.Fprintf(&b, "extern %s;\n", e.fieldDecl(f))
		}
		b.WriteByte('\n')
		for _, m := range e.class.Methods {
			if m.Name == "<clinit>" {
				continue
			}
			fmt.Fprintf(&b, "%s;\n", e.methodSignature(m, ""))
		}
	} else {
		name := e.class.simpleName()
		fmt.Fprintf(&b, "class %s {\n", name)

		var publicMethods, privateMethods []*Method
		for _, m := range e.class.Methods {
			if m.Name == "<clinit>" {
				continue
			}
			if m.AccessFlags&AccPrivate != 0 {
				privateMethods = append(privateMethods, m)
			} else {
				publicMethods = append(publicMethods, m)
			}
		}
		var publicFields, privateFields []*Field
		for _, f := range e.class.Fields {
			if f.AccessFlags&AccPrivate != 0 {
				privateFields = append(privateFields, f)
			} else {
				publicFields = append(publicFields, f)
			}
		}

		e.writeMembers(&b, "public", name, publicMethods, publicFields)
		if len(privateMethods) > 0 || len(privateFields) > 0 {
			b.WriteByte('\n')
			e.writeMembers(&b, "private", name, privateMethods, privateFields)
		}

		fmt.Fprintf(&b, "};\n")
	}

	fmt.Fprintf(&b, "\n#endif // %s\n", guard)
	return []byte(b.String())
}

// Implementation renders the class's definitions: static field
// initializers (from Field.Init, populated by the <clinit> pass) and
// every method body, indented per its brace nesting depth.
func (e *Emitter) Implementation() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "#include \"%s.h\"\n\n", e.class.simpleName())

	scope := ""
	if !e.class.HasBoard {
		scope = e.class.simpleName() + "::"
	}

	for _, f := range e.class.Fields {
		if f.Init == nil {
			continue
		}
		fmt.Fprintf(&b, "%s %s%s = %s;\n", f.TypeSpelling, scope, f.Name, *f.Init)
	}
	b.WriteByte('\n')

	for _, m := range e.class.Methods {
		if m.Name == "<clinit>" {
			continue
		}
		e.writeMethodBody(&b, m, scope)
	}

	return []byte(b.String())
}

// writeMembers renders one access-specifier block (spec §4.7's public/
// private partition by ACC_PRIVATE) of a non-board class body: methods
// first, then a blank line and the fields, each only if that group is
// non-empty.
func (e *Emitter) writeMembers(b *strings.Builder, label, className string, methods []*Method, fields []*Field) {
	fmt.Fprintf(b, "%s:\n", label)
	for _, m := range methods {
		fmt.Fprintf(b, "%s%s;\n", indentUnit, e.methodSignature(m, className))
	}
	if len(fields) > 0 {
		if len(methods) > 0 {
			b.WriteByte('\n')
		}
		for _, f := range fields {
			fmt.Fprintf(b, "%s%s;\n", indentUnit, e.fieldDecl(f))
		}
	}
}

func (e *Emitter) writeIncludes(b *strings.Builder) {
	fmt.Fprintf(b, "#include \"board_shim.h\"\n")
	fmt.Fprintf(b, "#ifdef HAS_RESOURCES\n#include \"resources.h\"\n#endif\n")
	fmt.Fprintf(b, "#ifdef HAS_USER_FILE\n#include \"user.h\"\n#endif\n")
	if e.project != nil {
		for _, c := range e.project.Classes {
			if c == e.class {
				continue
			}
			fmt.Fprintf(b, "#include \"%s.h\"\n", c.simpleName())
		}
	}
	b.WriteByte('\n')
}

func (e *Emitter) fieldDecl(f *Field) string {
	var prefix string
	if f.AccessFlags&AccStatic != 0 {
		prefix = "static "
	}
	return fmt.Sprintf("%s%s %s", prefix, f.TypeSpelling, f.Name)
}

// methodSignature renders a method header; constructors (<init>) use the
// owning class name as their method name (spec §4.7).
func (e *Emitter) methodSignature(m *Method, className string) string {
	name := m.Name
	returnType := ReturnDescriptor(m.Descriptor)
	spelling, _ := SpellType(returnType, 0)
	if m.Name == "<init>" {
		name = className
		if className == "" {
			name = e.class.simpleName()
		}
		return fmt.Sprintf("%s(%s)", name, e.paramList(m))
	}
	prefix := ""
	if m.AccessFlags&AccStatic != 0 {
		prefix = "static "
	}
	return fmt.Sprintf("%s%s %s(%s)", prefix, spelling, name, e.paramList(m))
}

func (e *Emitter) paramList(m *Method) string {
	descs := ArgDescriptors(m.Descriptor)
	parts := make([]string, len(descs))
	for i, d := range descs {
		spelling, _ := SpellType(d, 0)
		parts[i] = fmt.Sprintf("%s local_%d", spelling, i+1)
	}
	return joinComma(parts)
}

func (e *Emitter) writeMethodBody(b *strings.Builder, m *Method, scope string) {
	var sig string
	if m.Name == "<init>" {
		sig = fmt.Sprintf("%s%s(%s)", scope, e.class.simpleName(), e.paramList(m))
	} else {
		sig = e.rescopeSignature(m, scope)
	}
	fmt.Fprintf(b, "%s\n{\n", sig)
	depth := 1
	for _, inst := range m.Instructions {
		if inst.Text == "}" {
			depth--
		}
		fmt.Fprintf(b, "%s%s\n", strings.Repeat(indentUnit, depth), inst.Text)
		if inst.Text == "{" {
			depth++
		}
	}
	fmt.Fprintf(b, "}\n\n")
}

// rescopeSignature rebuilds a non-constructor method's signature with the
// "ClassName::" qualifier in place of the header's "static " storage-class
// prefix, which has no meaning on an out-of-line definition.
func (e *Emitter) rescopeSignature(m *Method, scope string) string {
	returnType := ReturnDescriptor(m.Descriptor)
	spelling, _ := SpellType(returnType, 0)
	return fmt.Sprintf("%s %s%s(%s)", spelling, scope, m.Name, e.paramList(m))
}

// sortClassesByName orders classes deterministically for manifest/include
// generation (spec §5: "every pass is deterministic in class discovery
// order (sorted by file system enumeration)" — sibling include order
// mirrors that same determinism requirement).
func sortClassesByName(classes []*Class) []*Class {
	out := append([]*Class(nil), classes...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
