package pjc

// tiny2040Backend targets the Pimoroni Tiny 2040 (2MB flash variant has its
// own backend, board_tiny2040_2mb.go, since the two differ only in their
// linker flash-size define).
type tiny2040Backend struct{}

func init() { registerBackend(tiny2040Backend{}) }

func (tiny2040Backend) Name() string       { return "Tiny2040" }
func (tiny2040Backend) SDKPathEnv() string { return "PICO_SDK_PATH" }

func (tiny2040Backend) Shim() []byte {
	return []byte(`#ifndef BOARD_SHIM_H
#define BOARD_SHIM_H

#include "pico/stdlib.h"
#include "pico/binary_info.h"

namespace board {
    inline void begin() { stdio_init_all(); }
}

#endif // BOARD_SHIM_H
`)
}

func (tiny2040Backend) Manifest(classNames []string) []byte {
	return renderCMakeManifest("tiny2040_firmware", classNames)
}

func (tiny2040Backend) CopyExtras(dir string) error {
	return writePicoSDKImport(dir)
}
