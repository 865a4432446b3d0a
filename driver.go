package pjc

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Driver runs one end-to-end compilation: enumerate source files, invoke
// the external frontend, discover the @Board-annotated class, decompile
// every class, dispatch to its backend, and invoke the vendor toolchain.
// Grounded on std/compiler/main.go's top-level sequencing (parse ->
// compile-to-IR -> DCE -> codegen -> optional run), restructured around
// this spec's two-pass-parse + board-dispatch shape instead of a single
// linear pipeline.
type Driver struct {
	OutDir    string
	Toolchain *Toolchain
}

// NewDriver constructs a Driver writing generated output under outDir.
func NewDriver(outDir string, tc *Toolchain) *Driver {
	return &Driver{OutDir: outDir, Toolchain: tc}
}

// Run compiles every .java file under srcDir into board-native firmware
// source, then invokes the board's vendor build. Any failure becomes a
// Diagnostic (fatalf) or an ICE panic; both unwind to the caller's own
// deferred recover(), classified via ClassifyRecover.
func (d *Driver) Run(srcDir string) {
	sources := d.discoverSources(srcDir)
	if len(sources) == 0 {
		fatalf("no .java source files found under %s", srcDir)
	}

	classDir := filepath.Join(d.OutDir, "classes")
	if err := os.MkdirAll(classDir, 0755); err != nil {
		fatalf("creating class output dir: %v", err)
	}
	d.Toolchain.RunFrontend(sources, classDir)

	classfiles := d.discoverClassfiles(classDir)
	if len(classfiles) == 0 {
		fatalf("frontend produced no classfiles in %s", classDir)
	}

	backend, boardName := d.findBoard(classfiles)
	logPass("discovered board %s, dispatching to backend %s", boardName, backend.Name())

	project := NewProject()
	classes := d.parseAll(classfiles, project)
	project.Classes = classes
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })

	genDir := filepath.Join(d.OutDir, "generated")
	if err := os.MkdirAll(genDir, 0755); err != nil {
		fatalf("creating generated output dir: %v", err)
	}
	if err := backend.CopyExtras(genDir); err != nil {
		fatalf("copying board extras for %s: %v", backend.Name(), err)
	}
	hasUserFile := d.copyUserFiles(srcDir, genDir)

	d.emitAll(genDir, project, classes)
	d.writeBoardShim(genDir, backend, hasUserFile)
	d.writeManifest(genDir, backend, classes)
	d.writeResources(genDir, project)

	d.Toolchain.RunVendorBuild(backend, genDir)
	d.Toolchain.cleanupTempDir(classDir)
}

// discoverSources enumerates .java files under srcDir in sorted order, per
// spec §5's "class discovery order (sorted by file system enumeration)"
// determinism requirement.
func (d *Driver) discoverSources(srcDir string) []string {
	var out []string
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		fatalf("reading source directory %s: %v", srcDir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".java") {
			continue
		}
		out = append(out, filepath.Join(srcDir, e.Name()))
	}
	sort.Strings(out)
	return out
}

// discoverClassfiles enumerates .class files produced by the frontend, in
// sorted order.
func (d *Driver) discoverClassfiles(classDir string) []string {
	var out []string
	entries, err := os.ReadDir(classDir)
	if err != nil {
		fatalf("reading classfile directory %s: %v", classDir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".class") {
			continue
		}
		out = append(out, filepath.Join(classDir, e.Name()))
	}
	sort.Strings(out)
	return out
}

// findBoard runs a ParsePartial pass over every classfile to locate the
// single @Board-annotated class, without paying for full decompilation of
// classes that turn out not to matter for board dispatch (spec §4.8's
// two-pass rationale).
func (d *Driver) findBoard(classfiles []string) (Backend, string) {
	for _, path := range classfiles {
		buf, err := os.ReadFile(path)
		if err != nil {
			fatalf("reading classfile %s: %v", path, err)
		}
		class := NewClassfileParser(buf, ParsePartial).Parse()
		if class.HasBoard {
			backend, ok := LookupBackend(class.BoardName)
			if !ok {
				fatalf("class %s: unrecognized board %q", class.Name, class.BoardName)
			}
			return backend, class.BoardName
		}
	}
	fatalf("no class carries a @Board annotation")
	return nil, ""
}

// parseAll runs a ParseFull pass over every classfile, threading project so
// resource captures (invokespecial on the image constructor) accumulate
// across the whole class set.
func (d *Driver) parseAll(classfiles []string, project *Project) []*Class {
	classes := make([]*Class, 0, len(classfiles))
	for _, path := range classfiles {
		buf, err := os.ReadFile(path)
		if err != nil {
			fatalf("reading classfile %s: %v", path, err)
		}
		p := NewClassfileParser(buf, ParseFull)
		p.Project = project
		classes = append(classes, p.Parse())
	}
	return classes
}

func (d *Driver) emitAll(genDir string, project *Project, classes []*Class) {
	for _, class := range classes {
		e := NewEmitter(project, class)
		name := class.simpleName()
		if err := os.WriteFile(filepath.Join(genDir, name+".h"), e.Header(), 0644); err != nil {
			fatalf("writing %s.h: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(genDir, name+".cpp"), e.Implementation(), 0644); err != nil {
			fatalf("writing %s.cpp: %v", name, err)
		}
	}
}

// copyUserFiles copies every top-level non-.java file in srcDir into genDir
// verbatim (SPEC_FULL.md's "user files + resources" alongside generated
// sources), mirroring discoverSources's flat, non-recursive enumeration. It
// reports whether anything was copied so writeBoardShim can gate
// HAS_USER_FILE.
func (d *Driver) copyUserFiles(srcDir, genDir string) bool {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		fatalf("reading source directory %s: %v", srcDir, err)
	}
	copied := false
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".java") {
			continue
		}
		buf, err := os.ReadFile(filepath.Join(srcDir, e.Name()))
		if err != nil {
			fatalf("reading user file %s: %v", e.Name(), err)
		}
		if err := os.WriteFile(filepath.Join(genDir, e.Name()), buf, 0644); err != nil {
			fatalf("copying user file %s: %v", e.Name(), err)
		}
		copied = true
	}
	return copied
}

// writeBoardShim writes board_shim.h, prefixed with "#define HAS_USER_FILE"
// when copyUserFiles found anything to copy — the generated sources'
// `#ifdef HAS_USER_FILE` guard (emit.go) reads this define from here.
func (d *Driver) writeBoardShim(genDir string, backend Backend, hasUserFile bool) {
	var contents []byte
	if hasUserFile {
		contents = append(contents, "#define HAS_USER_FILE\n"...)
	}
	contents = append(contents, backend.Shim()...)
	if err := os.WriteFile(filepath.Join(genDir, "board_shim.h"), contents, 0644); err != nil {
		fatalf("writing board_shim.h: %v", err)
	}
}

func (d *Driver) writeManifest(genDir string, backend Backend, classes []*Class) {
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.simpleName()
	}
	manifestName := "CMakeLists.txt"
	if backend.Name() == "Gamebuino" {
		manifestName = "gamebuino_firmware.ino"
	}
	if err := os.WriteFile(filepath.Join(genDir, manifestName), backend.Manifest(names), 0644); err != nil {
		fatalf("writing %s: %v", manifestName, err)
	}
}

// writeResources transcodes every captured image resource to the §6 header
// layout, skipping the whole file when no resources were captured (the
// generated sources only #include "resources.h" under HAS_RESOURCES).
func (d *Driver) writeResources(genDir string, project *Project) {
	if len(project.Resources) == 0 {
		return
	}
	var b strings.Builder
	b.WriteString("#ifndef RESOURCES_H\n#define RESOURCES_H\n\n")
	for _, r := range project.Resources {
		pngPath := r.Filename
		buf, err := os.ReadFile(pngPath)
		if err != nil {
			fatalf("reading resource %s: %v", pngPath, err)
		}
		encoded, err := EncodeResource(buf, r)
		if err != nil {
			fatalf("%v", err)
		}
		ident := encodeFilename(r.Filename)
		b.WriteString("static const unsigned char " + ident + "[] = {")
		for i, by := range encoded {
			if i%16 == 0 {
				b.WriteString("\n    ")
			}
			b.WriteString(byteHex(by))
			b.WriteString(",")
		}
		b.WriteString("\n};\n\n")
	}
	b.WriteString("#endif // RESOURCES_H\n")
	if err := os.WriteFile(filepath.Join(genDir, "resources.h"), []byte(b.String()), 0644); err != nil {
		fatalf("writing resources.h: %v", err)
	}
}

func byteHex(b byte) string {
	const hexDigits = "0123456789abcdef"
	return "0x" + string(hexDigits[b>>4]) + string(hexDigits[b&0xF])
}
