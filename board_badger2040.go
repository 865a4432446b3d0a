package pjc

// badger2040Backend targets the Pimoroni Badger 2040 (RP2040 + e-ink panel).
type badger2040Backend struct{}

func init() { registerBackend(badger2040Backend{}) }

func (badger2040Backend) Name() string       { return "Badger2040" }
func (badger2040Backend) SDKPathEnv() string { return "PICO_SDK_PATH" }

func (badger2040Backend) Shim() []byte {
	return []byte(`#ifndef BOARD_SHIM_H
#define BOARD_SHIM_H

#include "pico/stdlib.h"
#include "badger2040.hpp"

namespace board {
    inline pimoroni::Badger2040 badger;
    inline void begin() { badger.init(); }
}

#endif // BOARD_SHIM_H
`)
}

func (badger2040Backend) Manifest(classNames []string) []byte {
	return renderCMakeManifest("badger2040_firmware", classNames)
}

func (badger2040Backend) CopyExtras(dir string) error {
	return writePicoSDKImport(dir)
}
