// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package sciter

import (
	"fmt"
	"strings"
)

// Archive reads resources from a packed resource blob produced by the
// engine's packfolder tool. Items are addressed by their path inside the
// packed folder; the this://app/ URI scheme maps onto it.
type Archive struct {
	har uintptr
	// The engine reads items out of the blob in place.
	data []byte
}

// OpenArchive mounts a packed resource blob.
func OpenArchive(data []byte, opts *Options) (*Archive, error) {
	if err := initEngine(opts); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("sciter: empty archive")
	}
	har := sciterOpenArchive(bptr(data), uint32(len(data)))
	if har == 0 {
		return nil, fmt.Errorf("sciter: failed to open archive")
	}
	return &Archive{har: har, data: data}, nil
}

// Get returns the item at path. Accepts plain paths, this://app/ URIs and
// //-prefixed paths interchangeably.
func (a *Archive) Get(path string) ([]byte, bool) {
	if a.har == 0 {
		return nil, false
	}
	path = strings.TrimPrefix(path, "this://app/")
	path = strings.TrimPrefix(path, "//")
	buf, _ := wstr(path)
	var ptr uintptr
	var size uint32
	if sciterGetArchiveItem(a.har, wptr(buf), &ptr, &size) == 0 || ptr == 0 {
		return nil, false
	}
	return copyBytes(ptr, int(size)), true
}

// Close unmounts the archive. The Archive must not be used afterwards.
func (a *Archive) Close() error {
	if a.har == 0 {
		return nil
	}
	rc := sciterCloseArchive(a.har)
	a.har = 0
	a.data = nil
	if rc == 0 {
		return fmt.Errorf("sciter: failed to close archive")
	}
	return nil
}
