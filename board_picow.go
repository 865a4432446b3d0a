package pjc

// picowBackend targets the Raspberry Pi Pico W (RP2040 + wireless radio).
type picowBackend struct{}

func init() { registerBackend(picowBackend{}) }

func (picowBackend) Name() string       { return "PicoW" }
func (picowBackend) SDKPathEnv() string { return "PICO_SDK_PATH" }

func (picowBackend) Shim() []byte {
	return []byte(`#ifndef BOARD_SHIM_H
#define BOARD_SHIM_H

#include "pico/stdlib.h"
#include "pico/cyw43_arch.h"

namespace board {
    inline void begin() {
        stdio_init_all();
        cyw43_arch_init();
    }
}

#endif // BOARD_SHIM_H
`)
}

func (picowBackend) Manifest(classNames []string) []byte {
	return renderCMakeManifest("picow_firmware", classNames)
}

func (picowBackend) CopyExtras(dir string) error {
	return writePicoSDKImport(dir)
}
