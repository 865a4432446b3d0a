package pjc

import (
	"bytes"
	"text/template"
)

// gamebuinoBackend targets the Gamebuino META (SAMD21 + Arduino-style
// toolchain), the one board built with arduino-cli rather than pico-sdk's
// CMake flow — grounded on original_source/boards/gamebuino.cpp's
// build_gamebuino, which shells out to "arduino-cli compile" instead of
// invoking a CMake-generated Makefile. Its shim additionally re-exposes the
// Image-class convenience constructors original_source/boards/gamebuino.h
// shows (a using-alias onto Gamebuino_Meta::Image), which no other board's
// shim needs since only Gamebuino's `gamebuino/Image` class triggers
// resource capture (spec §8 scenario 5).
type gamebuinoBackend struct{}

func init() { registerBackend(gamebuinoBackend{}) }

func (gamebuinoBackend) Name() string       { return "Gamebuino" }
func (gamebuinoBackend) SDKPathEnv() string { return "" } // arduino-cli, no SDK root needed

func (gamebuinoBackend) Shim() []byte {
	return []byte(`#include <Gamebuino-Meta.h>

namespace gamebuino {
    namespace gb {
        inline void begin() { ::gb.begin(); }
        inline void waitForUpdate() { ::gb.waitForUpdate(); }
        inline void setFrameRate(int fps) { ::gb.setFrameRate(fps); }

        inline auto & display = ::gb.display;
        inline auto & buttons = ::gb.buttons;
        inline auto & frameCount = ::gb.frameCount;
    }

    namespace Button {
        inline auto A = BUTTON_A;
        inline auto B = BUTTON_B;
        inline auto LEFT = BUTTON_LEFT;
        inline auto RIGHT = BUTTON_RIGHT;
        inline auto UP = BUTTON_UP;
        inline auto DOWN = BUTTON_DOWN;
    }

    using Image = ::Gamebuino_Meta::Image;
}
`)
}

var gamebuinoManifestTemplate = template.Must(template.New("gamebuino-ino").Parse(`// {{.Project}}.ino — generated, do not edit by hand
#include "gamebuino-java.h"
{{- range .Sources}}
#include "{{.}}.h"
{{- end}}

void setup() {
    gamebuino::gb::begin();
}

void loop() {
    gamebuino::gb::waitForUpdate();
}
`))

type inoManifestData struct {
	Project string
	Sources []string
}

// CopyExtras is a no-op: arduino-cli needs no extra bootstrap file beside
// the sketch, mirroring SDKPathEnv's own empty return.
func (gamebuinoBackend) CopyExtras(dir string) error { return nil }

func (gamebuinoBackend) Manifest(classNames []string) []byte {
	var b bytes.Buffer
	if err := gamebuinoManifestTemplate.Execute(&b, inoManifestData{Project: "gamebuino_firmware", Sources: classNames}); err != nil {
		ice("gamebuinoBackend.Manifest: template execution failed: %v", err)
	}
	return b.Bytes()
}
