package pjc

// tiny2040_2mbBackend targets the 2MB-flash revision of the Tiny 2040,
// named in original_source/globals.h's Board enumeration as a distinct
// value from the plain Tiny2040 (different PICO_FLASH_SIZE_BYTES define).
type tiny2040_2mbBackend struct{}

func init() { registerBackend(tiny2040_2mbBackend{}) }

func (tiny2040_2mbBackend) Name() string       { return "Tiny2040_2mb" }
func (tiny2040_2mbBackend) SDKPathEnv() string { return "PICO_SDK_PATH" }

func (tiny2040_2mbBackend) Shim() []byte {
	return []byte(`#ifndef BOARD_SHIM_H
#define BOARD_SHIM_H

#include "pico/stdlib.h"
#include "pico/binary_info.h"

#define PICO_FLASH_SIZE_BYTES (2 * 1024 * 1024)

namespace board {
    inline void begin() { stdio_init_all(); }
}

#endif // BOARD_SHIM_H
`)
}

func (tiny2040_2mbBackend) Manifest(classNames []string) []byte {
	return renderCMakeManifest("tiny2040_2mb_firmware", classNames)
}

func (tiny2040_2mbBackend) CopyExtras(dir string) error {
	return writePicoSDKImport(dir)
}
