// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package sciter

import (
	"unicode/utf16"
	"unsafe"
)

// The engine speaks two string encodings across the ABI: UTF-16 code units for
// document text and URIs, and NUL-terminated UTF-8 for names (tags, attribute
// and behavior names, CSS selectors). These helpers keep the unsafe pointer
// arithmetic in one place.

// wstr encodes s as a NUL-terminated UTF-16 buffer and returns the buffer and
// its length in code units excluding the terminator. The buffer must be kept
// alive for the duration of the foreign call.
func wstr(s string) ([]uint16, uint32) {
	u := utf16.Encode([]rune(s))
	u = append(u, 0)
	return u, uint32(len(u) - 1)
}

// wptr is a convenience for passing the buffer as a raw argument.
func wptr(buf []uint16) uintptr {
	return uintptr(unsafe.Pointer(&buf[0]))
}

// ustr encodes s as a NUL-terminated UTF-8 buffer.
func ustr(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

func uptr(buf []byte) uintptr {
	return uintptr(unsafe.Pointer(&buf[0]))
}

// bptr returns a raw pointer to the first byte of b, or 0 for empty slices.
func bptr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

// decodeW reads n UTF-16 code units at ptr.
func decodeW(ptr uintptr, n int) string {
	if ptr == 0 || n <= 0 {
		return ""
	}
	src := unsafe.Slice((*uint16)(unsafe.Pointer(ptr)), n)
	return string(utf16.Decode(src))
}

// decodeWZ reads a NUL-terminated UTF-16 string at ptr.
func decodeWZ(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	n := 0
	for *(*uint16)(unsafe.Pointer(ptr + uintptr(n)*2)) != 0 {
		n++
	}
	return decodeW(ptr, n)
}

// decodeU reads n UTF-8 bytes at ptr.
func decodeU(ptr uintptr, n int) string {
	if ptr == 0 || n <= 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
}

// decodeUZ reads a NUL-terminated UTF-8 string at ptr.
func decodeUZ(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Pointer(ptr + uintptr(n))) != 0 {
		n++
	}
	return decodeU(ptr, n)
}

// copyBytes copies n foreign bytes at ptr into a fresh slice.
func copyBytes(ptr uintptr, n int) []byte {
	if ptr == 0 || n <= 0 {
		return nil
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n)
	out := make([]byte, n)
	copy(out, src)
	return out
}
