// Command pjc cross-compiles classfiles produced from a board-annotated
// source tree into C++ firmware source for the discovered board, then
// drives that board's native build.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/minirop/pico-java"
)

// usage mirrors std/compiler/main.go's single-line stderr usage message.
func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-v N] [-o dir] [-frontend path] [-sdk path] [-keep-temp] <source-dir>\n", os.Args[0])
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	outDir := "build"
	frontendPath := os.Getenv("PJC_FRONTEND")
	if frontendPath == "" {
		frontendPath = "pjc-frontend"
	}
	sdkPath := os.Getenv("PICO_SDK_PATH")
	keepTemp := false
	var srcDir string

	i := 1
	for i < len(os.Args) {
		switch os.Args[i] {
		case "-v":
			if i+1 >= len(os.Args) {
				usage()
				os.Exit(1)
			}
			flag.Set("v", os.Args[i+1]) // glog registers "v" on the standard flag package at import time
			i += 2
		case "-o":
			if i+1 >= len(os.Args) {
				usage()
				os.Exit(1)
			}
			outDir = os.Args[i+1]
			i += 2
		case "-frontend":
			if i+1 >= len(os.Args) {
				usage()
				os.Exit(1)
			}
			frontendPath = os.Args[i+1]
			i += 2
		case "-sdk":
			if i+1 >= len(os.Args) {
				usage()
				os.Exit(1)
			}
			sdkPath = os.Args[i+1]
			i += 2
		case "-keep-temp":
			keepTemp = true
			i++
		default:
			srcDir = os.Args[i]
			i++
		}
	}

	if srcDir == "" {
		usage()
		os.Exit(1)
	}

	defer glog.Flush()

	tc := &pjc.Toolchain{FrontendPath: frontendPath, SDKPath: sdkPath, KeepTemp: keepTemp}
	driver := pjc.NewDriver(outDir, tc)

	runAndReport(driver, srcDir)
}

// runAndReport wraps Driver.Run with the single top-level recover point
// (spec §6/§7, SPEC_FULL.md §2.2): a Diagnostic prints one line to stdout
// and exits 1; anything else (an ICE, or a genuine bug) re-panics so it
// surfaces as a stack trace rather than being swallowed.
func runAndReport(driver *pjc.Driver, srcDir string) {
	defer func() {
		r := recover()
		msg, isDiagnostic := pjc.ClassifyRecover(r)
		if isDiagnostic {
			fmt.Println(msg)
			glog.Flush()
			os.Exit(1)
		}
	}()
	driver.Run(srcDir)
}
