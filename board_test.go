package pjc

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestLookupBackendCaseInsensitive(t *testing.T) {
	for _, name := range []string{"Pico", "pico", "PICO", "PiCo"} {
		if _, ok := LookupBackend(name); !ok {
			t.Errorf("LookupBackend(%q) not found", name)
		}
	}
}

func TestLookupBackendUnknown(t *testing.T) {
	if _, ok := LookupBackend("Commodore64"); ok {
		t.Errorf("LookupBackend(%q) unexpectedly found", "Commodore64")
	}
}

func TestAllBoardsRegistered(t *testing.T) {
	want := []string{"Pico", "PicoW", "Tiny2040", "Tiny2040_2mb", "Badger2040", "Picosystem", "Gamebuino"}
	for _, name := range want {
		backend, ok := LookupBackend(name)
		if !ok {
			t.Errorf("board %q not registered", name)
			continue
		}
		if backend.Name() != name {
			t.Errorf("registry[%q].Name()=%q, want %q", name, backend.Name(), name)
		}
	}
}

func TestPicoManifestListsSources(t *testing.T) {
	backend, ok := LookupBackend("Pico")
	if !ok {
		t.Fatal("Pico backend not registered")
	}
	manifest := backend.Manifest([]string{"Main", "Sprite"})
	if !bytes.Contains(manifest, []byte("Main.cpp")) || !bytes.Contains(manifest, []byte("Sprite.cpp")) {
		t.Errorf("manifest missing source entries: %s", manifest)
	}
}

func TestGamebuinoManifestIsInoBundle(t *testing.T) {
	backend, ok := LookupBackend("Gamebuino")
	if !ok {
		t.Fatal("Gamebuino backend not registered")
	}
	manifest := backend.Manifest([]string{"Game"})
	if !bytes.Contains(manifest, []byte("Game.h")) {
		t.Errorf("gamebuino manifest missing sibling include: %s", manifest)
	}
	if !bytes.Contains(manifest, []byte("gamebuino::gb::begin")) {
		t.Errorf("gamebuino manifest missing setup() call: %s", manifest)
	}
}

func TestPicoFamilyCopyExtrasWritesSDKImport(t *testing.T) {
	for _, name := range []string{"Pico", "PicoW", "Tiny2040", "Tiny2040_2mb", "Badger2040", "Picosystem"} {
		backend, ok := LookupBackend(name)
		if !ok {
			t.Fatalf("board %q not registered", name)
		}
		dir := t.TempDir()
		if err := backend.CopyExtras(dir); err != nil {
			t.Fatalf("%s.CopyExtras: %v", name, err)
		}
		path := filepath.Join(dir, "pico_sdk_import.cmake")
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s.CopyExtras did not write pico_sdk_import.cmake: %v", name, err)
		}
	}
}

func TestGamebuinoCopyExtrasIsNoop(t *testing.T) {
	backend, ok := LookupBackend("Gamebuino")
	if !ok {
		t.Fatal("Gamebuino backend not registered")
	}
	dir := t.TempDir()
	if err := backend.CopyExtras(dir); err != nil {
		t.Fatalf("Gamebuino.CopyExtras: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Gamebuino.CopyExtras wrote files, want none: %v", entries)
	}
}

func TestSDKPathEnvConventions(t *testing.T) {
	gamebuino, _ := LookupBackend("Gamebuino")
	if got := gamebuino.SDKPathEnv(); got != "" {
		t.Errorf("Gamebuino.SDKPathEnv()=%q, want empty (arduino-cli needs no SDK root)", got)
	}
	pico, _ := LookupBackend("Pico")
	if got := pico.SDKPathEnv(); got != "PICO_SDK_PATH" {
		t.Errorf("Pico.SDKPathEnv()=%q, want %q", got, "PICO_SDK_PATH")
	}
}
