package pjc

// picosystemBackend targets the Pimoroni PicoSystem handheld (RP2040 + TFT
// display + 32kB-ish button set, its own SDK distinct from bare pico-sdk).
type picosystemBackend struct{}

func init() { registerBackend(picosystemBackend{}) }

func (picosystemBackend) Name() string       { return "Picosystem" }
func (picosystemBackend) SDKPathEnv() string { return "PICO_SDK_PATH" }

func (picosystemBackend) Shim() []byte {
	return []byte(`#ifndef BOARD_SHIM_H
#define BOARD_SHIM_H

#include "picosystem.hpp"

namespace board {
    using namespace picosystem;
    inline void begin() { init(); }
}

#endif // BOARD_SHIM_H
`)
}

func (picosystemBackend) Manifest(classNames []string) []byte {
	return renderCMakeManifest("picosystem_firmware", classNames)
}

func (picosystemBackend) CopyExtras(dir string) error {
	return writePicoSDKImport(dir)
}
