package pjc

import "strings"

// Backend is the per-board build target, mirroring the teacher's
// std/compiler/backend_*.go family: one interface, one file per concrete
// target, dispatched by name from a registry instead of a type switch
// (std/compiler/main.go picks a backend from targetGOOS/targetGOARCH the
// same way Driver picks one from the @Board annotation's enumeration
// constant).
type Backend interface {
	// Name is the board's canonical identifier, matching one of the
	// enumeration constants accepted in @Board(Type.X) (spec §6).
	Name() string
	// Shim returns the board header text that re-exposes vendor SDK
	// symbols under the namespace the decompiled code expects.
	Shim() []byte
	// Manifest returns the build-system file text (a CMakeLists.txt-shaped
	// file, or an Arduino .ino bundle for Gamebuino) for the given set of
	// generated class base names.
	Manifest(classNames []string) []byte
	// SDKPathEnv names the environment variable carrying this board's
	// vendor SDK root (supplemented from original_source/globals.h).
	SDKPathEnv() string
	// CopyExtras writes any board-specific bootstrap files the vendor
	// build needs alongside the generated sources (e.g. pico-sdk's
	// pico_sdk_import.cmake) into dir. User hand-written files are copied
	// separately by Driver.copyUserFiles, not through this method.
	CopyExtras(dir string) error
}

// registry maps @Board(Type.X) enumeration constant names (case-folded) to
// their Backend, populated by each board_*.go file's init().
var registry = map[string]Backend{}

func registerBackend(b Backend) {
	registry[strings.ToLower(b.Name())] = b
}

// LookupBackend resolves a board annotation constant name to its Backend.
// Matching is case-insensitive per spec §6 ("X ∈ {Pico, PicoW, ...}
// (case-insensitive)").
func LookupBackend(boardName string) (Backend, bool) {
	b, ok := registry[strings.ToLower(boardName)]
	return b, ok
}
