package pjc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mustWriteFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestDriverCopyUserFilesSkipsJavaAndDirs(t *testing.T) {
	srcDir := t.TempDir()
	genDir := t.TempDir()

	mustWriteFile(t, filepath.Join(srcDir, "Main.java"), "class Main {}")
	mustWriteFile(t, filepath.Join(srcDir, "extra.h"), "// hand-written header")
	if err := os.Mkdir(filepath.Join(srcDir, "sub"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	d := &Driver{}
	if got := d.copyUserFiles(srcDir, genDir); !got {
		t.Fatalf("copyUserFiles()=false, want true (extra.h should count)")
	}
	if _, err := os.Stat(filepath.Join(genDir, "extra.h")); err != nil {
		t.Errorf("extra.h not copied: %v", err)
	}
	if _, err := os.Stat(filepath.Join(genDir, "Main.java")); err == nil {
		t.Errorf("Main.java should not have been copied")
	}
	if _, err := os.Stat(filepath.Join(genDir, "sub")); err == nil {
		t.Errorf("sub directory should not have been copied")
	}
}

func TestDriverCopyUserFilesNoneFound(t *testing.T) {
	srcDir := t.TempDir()
	genDir := t.TempDir()
	mustWriteFile(t, filepath.Join(srcDir, "Main.java"), "class Main {}")

	d := &Driver{}
	if got := d.copyUserFiles(srcDir, genDir); got {
		t.Errorf("copyUserFiles()=true, want false when only .java files are present")
	}
}

func TestDriverWriteBoardShimDefinesHasUserFile(t *testing.T) {
	genDir := t.TempDir()
	backend, ok := LookupBackend("Pico")
	if !ok {
		t.Fatal("Pico backend not registered")
	}
	d := &Driver{}

	d.writeBoardShim(genDir, backend, true)
	withFlag, err := os.ReadFile(filepath.Join(genDir, "board_shim.h"))
	if err != nil {
		t.Fatalf("reading board_shim.h: %v", err)
	}
	if !strings.HasPrefix(string(withFlag), "#define HAS_USER_FILE\n") {
		t.Errorf("board_shim.h missing HAS_USER_FILE define: %s", withFlag)
	}

	d.writeBoardShim(genDir, backend, false)
	without, err := os.ReadFile(filepath.Join(genDir, "board_shim.h"))
	if err != nil {
		t.Fatalf("reading board_shim.h: %v", err)
	}
	if strings.Contains(string(without), "HAS_USER_FILE") {
		t.Errorf("board_shim.h unexpectedly defines HAS_USER_FILE: %s", without)
	}
}
