// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package sciter

import "fmt"

// Opaque engine handles. The engine owns the objects behind these; wrapper
// types (Element, Image, Path, Graphics, Asset) own references to them.
type (
	// HELEMENT identifies a DOM element.
	HELEMENT uintptr
	// HIMG identifies a graphics image.
	HIMG uintptr
	// HPATH identifies a graphics path.
	HPATH uintptr
	// HGFX identifies a graphics drawing surface.
	HGFX uintptr
	// HTEXT identifies a graphics text layout.
	HTEXT uintptr
)

// DOMResult is the engine's result code for DOM operations.
type DOMResult int32

const (
	DOMOK               DOMResult = 0
	DOMInvalidHwnd      DOMResult = 1
	DOMInvalidHandle    DOMResult = 2
	DOMPassiveHandle    DOMResult = 3
	DOMInvalidParameter DOMResult = 4
	DOMOperationFailed  DOMResult = 5
	DOMOKNotHandled     DOMResult = -1
)

func (r DOMResult) String() string {
	switch r {
	case DOMOK:
		return "OK"
	case DOMInvalidHwnd:
		return "INVALID_HWND"
	case DOMInvalidHandle:
		return "INVALID_HANDLE"
	case DOMPassiveHandle:
		return "PASSIVE_HANDLE"
	case DOMInvalidParameter:
		return "INVALID_PARAMETER"
	case DOMOperationFailed:
		return "OPERATION_FAILED"
	case DOMOKNotHandled:
		return "OK_NOT_HANDLED"
	}
	return fmt.Sprintf("DOMResult(%d)", int32(r))
}

// DOMError carries the engine result code of a failed DOM call.
type DOMError struct {
	Op     string
	Result DOMResult
}

func (e *DOMError) Error() string {
	return fmt.Sprintf("sciter: %s: %s", e.Op, e.Result)
}

// domOK maps a raw result to nil or a *DOMError.
func domOK(op string, rc int32) error {
	if DOMResult(rc) == DOMOK {
		return nil
	}
	return &DOMError{Op: op, Result: DOMResult(rc)}
}

// domOKIgnoring treats the listed codes as success. DOM lookups report
// OK_NOT_HANDLED for optional data, and scripting calls report
// OPERATION_FAILED for script-side errors the caller may want to inspect.
func domOKIgnoring(op string, rc int32, ok ...DOMResult) error {
	r := DOMResult(rc)
	if r == DOMOK {
		return nil
	}
	for _, v := range ok {
		if r == v {
			return nil
		}
	}
	return &DOMError{Op: op, Result: r}
}

// GraphicsResult is the engine's result code for graphics operations.
type GraphicsResult int32

const (
	GraphicsPanic        GraphicsResult = -1
	GraphicsOK           GraphicsResult = 0
	GraphicsBadParam     GraphicsResult = 1
	GraphicsFailure      GraphicsResult = 2
	GraphicsNotSupported GraphicsResult = 3
)

func (r GraphicsResult) String() string {
	switch r {
	case GraphicsPanic:
		return "PANIC"
	case GraphicsOK:
		return "OK"
	case GraphicsBadParam:
		return "BAD_PARAM"
	case GraphicsFailure:
		return "FAILURE"
	case GraphicsNotSupported:
		return "NOTSUPPORTED"
	}
	return fmt.Sprintf("GraphicsResult(%d)", int32(r))
}

// GraphicsError carries the engine result code of a failed graphics call.
type GraphicsError struct {
	Op     string
	Result GraphicsResult
}

func (e *GraphicsError) Error() string {
	return fmt.Sprintf("sciter: graphics %s: %s", e.Op, e.Result)
}

func gfxOK(op string, rc int32) error {
	if GraphicsResult(rc) == GraphicsOK {
		return nil
	}
	return &GraphicsError{Op: op, Result: GraphicsResult(rc)}
}

// Engine runtime option codes for SciterSetOption.
const (
	optionSmoothScroll = 1
	optionDebugMode    = 10
)

// Point is a position in window coordinates, used by ElementFromPoint.
type Point struct {
	X int32
	Y int32
}
