// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

//go:build linux || darwin

package sciter

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/ebitengine/purego"
)

func doInitEngine(libPath string) error {
	absPath, err := filepath.Abs(libPath)
	if err != nil {
		absPath = libPath
	}
	handle, err := purego.Dlopen(absPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		// Not found next to the executable; let the dynamic linker search.
		handle, err = purego.Dlopen(engineLibName(), purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", engineLibName(), err)
		}
	}
	return resolveAllSymbols(handle)
}

func getSymbolAddr(handle uintptr, name string) (uintptr, error) {
	sym, err := purego.Dlsym(handle, name)
	if err != nil {
		return 0, err
	}
	return sym, nil
}

func engineLibName() string {
	if runtime.GOOS == "darwin" {
		return "sciter-osx-64.dylib"
	}
	return "libsciter-gtk.so"
}
