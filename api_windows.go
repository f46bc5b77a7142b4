// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

//go:build windows

package sciter

import (
	"fmt"
	"path/filepath"
	"syscall"
)

func doInitEngine(libPath string) error {
	absPath, err := filepath.Abs(libPath)
	if err != nil {
		absPath = libPath
	}
	lib, err := syscall.LoadLibrary(absPath)
	if err != nil {
		// Not found next to the executable; let the loader search PATH.
		lib, err = syscall.LoadLibrary(engineLibName())
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", engineLibName(), err)
		}
	}
	return resolveAllSymbols(uintptr(lib))
}

func getSymbolAddr(handle uintptr, name string) (uintptr, error) {
	sym, err := syscall.GetProcAddress(syscall.Handle(handle), name)
	if err != nil {
		return 0, err
	}
	return sym, nil
}

func engineLibName() string {
	return "sciter.dll"
}
