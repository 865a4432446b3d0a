package pjc

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"
)

// picoBackend targets the Raspberry Pi Pico (RP2040, no wireless). Grounded
// on original_source/globals.h's Board enumeration and the CMake-based
// pico-sdk build convention (PICO_SDK_PATH is the real pico-sdk environment
// variable name; this tool's own manifest just wires a project into it).
type picoBackend struct{}

func init() { registerBackend(picoBackend{}) }

func (picoBackend) Name() string       { return "Pico" }
func (picoBackend) SDKPathEnv() string { return "PICO_SDK_PATH" }

func (picoBackend) Shim() []byte {
	return []byte(`#ifndef BOARD_SHIM_H
#define BOARD_SHIM_H

#include "pico/stdlib.h"
#include "hardware/gpio.h"

namespace board {
    inline void begin() { stdio_init_all(); }
    constexpr auto LED_PIN = PICO_DEFAULT_LED_PIN;
}

#endif // BOARD_SHIM_H
`)
}

var picoManifestTemplate = template.Must(template.New("pico-cmake").Parse(`cmake_minimum_required(VERSION 3.13)
include(pico_sdk_import.cmake)
project({{.Project}} C CXX ASM)
pico_sdk_init()

add_executable({{.Project}}
{{- range .Sources}}
    {{.}}
{{- end}}
)

target_link_libraries({{.Project}} pico_stdlib hardware_gpio)
pico_add_extra_outputs({{.Project}})
`))

type cmakeManifestData struct {
	Project string
	Sources []string
}

func (picoBackend) Manifest(classNames []string) []byte {
	return renderCMakeManifest("pico_firmware", classNames)
}

func (picoBackend) CopyExtras(dir string) error {
	return writePicoSDKImport(dir)
}

// picoSDKImportCMake is the real pico-sdk bootstrap file every pico-sdk
// project's CMakeLists.txt expects to sit alongside it (the upstream
// raspberrypi/pico-sdk repo ships the same file verbatim for projects to
// vendor); it resolves PICO_SDK_PATH and pulls in the SDK's own
// pico_sdk_init.cmake.
const picoSDKImportCMake = `# This is a copy of <PICO_SDK_PATH>/external/pico_sdk_import.cmake

if(DEFINED ENV{PICO_SDK_PATH} AND (NOT PICO_SDK_PATH))
    set(PICO_SDK_PATH $ENV{PICO_SDK_PATH})
    message("Using PICO_SDK_PATH from environment '${PICO_SDK_PATH}'")
endif()

if(NOT PICO_SDK_PATH)
    message(FATAL_ERROR "SDK location was not specified. Please set PICO_SDK_PATH.")
endif()

set(PICO_SDK_PATH "${PICO_SDK_PATH}" CACHE PATH "Path to the Raspberry Pi Pico SDK")

include(${PICO_SDK_PATH}/pico_sdk_init.cmake)
`

// writePicoSDKImport writes pico_sdk_import.cmake into dir, shared by every
// CMake-based board (board_pico.go, board_picow.go, board_tiny2040.go,
// board_tiny2040_2mb.go, board_badger2040.go, board_picosystem.go) since
// each one's CMakeLists.txt does `include(pico_sdk_import.cmake)`.
func writePicoSDKImport(dir string) error {
	return os.WriteFile(filepath.Join(dir, "pico_sdk_import.cmake"), []byte(picoSDKImportCMake), 0644)
}

// renderCMakeManifest builds the shared CMakeLists.txt body used by every
// pico-sdk-based board (Pico, PicoW, Tiny2040, Tiny2040_2mb, Badger2040,
// PicoSystem); the boards differ only in the project name they pass. Every
// board gets the same target_link_libraries line (pico_stdlib and
// hardware_gpio); no board adds libraries of its own.
func renderCMakeManifest(project string, classNames []string) []byte {
	sources := make([]string, len(classNames))
	for i, n := range classNames {
		sources[i] = n + ".cpp"
	}
	var b bytes.Buffer
	if err := picoManifestTemplate.Execute(&b, cmakeManifestData{Project: project, Sources: sources}); err != nil {
		ice("renderCMakeManifest: template execution failed: %v", err)
	}
	return b.Bytes()
}
