// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package sciter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

func init() {
	// The engine requires all API calls to be made from the same OS thread.
	runtime.LockOSThread()
}

// Options for loading the engine. All fields are optional.
type Options struct {
	LibraryPath string // Full path to the engine shared library. Defaults to the executable directory, then the system search path.
	Debug       bool   // Enable the engine's debug mode (inspector support, verbose output). Default false.
}

// Engine API entry points, resolved by name from the shared library.
var (
	sciterVersion func(major int32) uint32

	// Window-level
	sciterLoadFile               func(hwnd uintptr, uri uintptr) int32
	sciterLoadHtml               func(hwnd uintptr, html uintptr, htmlSize uint32, baseURL uintptr) int32
	sciterSetCallback            func(hwnd uintptr, proc uintptr, param uintptr)
	sciterSetupDebugOutput       func(hwnd uintptr, param uintptr, proc uintptr)
	sciterSetOption              func(hwnd uintptr, option uint32, value uintptr) int32
	sciterSetHomeURL             func(hwnd uintptr, baseURL uintptr) int32
	sciterSetMediaType           func(hwnd uintptr, mediaType uintptr) int32
	sciterSetMediaVars           func(hwnd uintptr, mediaVars uintptr) int32
	sciterSetMasterCSS           func(css uintptr, numBytes uint32) int32
	sciterAppendMasterCSS        func(css uintptr, numBytes uint32) int32
	sciterSetCSS                 func(hwnd uintptr, css uintptr, numBytes uint32, baseURL uintptr, mediaType uintptr) int32
	sciterDataReady              func(hwnd uintptr, uri uintptr, data uintptr, dataSize uint32) int32
	sciterDataReadyAsync         func(hwnd uintptr, uri uintptr, data uintptr, dataSize uint32, requestID uintptr) int32
	sciterEval                   func(hwnd uintptr, script uintptr, scriptLength uint32, pval *rawValue) int32
	sciterCall                   func(hwnd uintptr, name uintptr, argc uint32, argv *rawValue, retval *rawValue) int32
	sciterGetRootElement         func(hwnd uintptr, out *HELEMENT) int32
	sciterGetFocusElement        func(hwnd uintptr, out *HELEMENT) int32
	sciterFindElement            func(hwnd uintptr, pt Point, out *HELEMENT) int32
	sciterGetElementByUID        func(hwnd uintptr, uid uint32, out *HELEMENT) int32
	sciterWindowAttachHandler    func(hwnd uintptr, proc uintptr, tag uintptr, subscription uint32) int32

	// Archive
	sciterOpenArchive    func(data uintptr, dataSize uint32) uintptr
	sciterGetArchiveItem func(har uintptr, path uintptr, data *uintptr, dataSize *uint32) int32
	sciterCloseArchive   func(har uintptr) int32

	// Element reference counting
	sciterUseElement   func(he HELEMENT) int32
	sciterUnuseElement func(he HELEMENT) int32

	// Element access and manipulation
	sciterCreateElement          func(tag uintptr, text uintptr, out *HELEMENT) int32
	sciterCloneElement           func(he HELEMENT, out *HELEMENT) int32
	sciterGetElementUID          func(he HELEMENT, out *uint32) int32
	sciterGetElementTypeCB       func(he HELEMENT, proc uintptr, param uintptr) int32
	sciterGetElementTextCB       func(he HELEMENT, proc uintptr, param uintptr) int32
	sciterSetElementText         func(he HELEMENT, text uintptr, length uint32) int32
	sciterGetElementHtmlCB       func(he HELEMENT, outer int32, proc uintptr, param uintptr) int32
	sciterSetElementHtml         func(he HELEMENT, html uintptr, htmlSize uint32, how uint32) int32
	sciterGetAttributeCount      func(he HELEMENT, out *uint32) int32
	sciterGetNthAttributeNameCB  func(he HELEMENT, n uint32, proc uintptr, param uintptr) int32
	sciterGetNthAttributeValueCB func(he HELEMENT, n uint32, proc uintptr, param uintptr) int32
	sciterGetAttributeByNameCB   func(he HELEMENT, name uintptr, proc uintptr, param uintptr) int32
	sciterSetAttributeByName     func(he HELEMENT, name uintptr, value uintptr) int32
	sciterClearAttributes        func(he HELEMENT) int32
	sciterGetStyleAttributeCB    func(he HELEMENT, name uintptr, proc uintptr, param uintptr) int32
	sciterSetStyleAttribute      func(he HELEMENT, name uintptr, value uintptr) int32
	sciterGetElementIndex        func(he HELEMENT, out *uint32) int32
	sciterGetParentElement       func(he HELEMENT, out *HELEMENT) int32
	sciterGetNthChild            func(he HELEMENT, n uint32, out *HELEMENT) int32
	sciterGetChildrenCount       func(he HELEMENT, out *uint32) int32
	sciterInsertElement          func(he HELEMENT, parent HELEMENT, index uint32) int32
	sciterDetachElement          func(he HELEMENT) int32
	sciterDeleteElement          func(he HELEMENT) int32
	sciterSwapElements           func(a, b HELEMENT) int32
	sciterSelectElements         func(he HELEMENT, selector uintptr, proc uintptr, param uintptr) int32
	sciterSelectParent           func(he HELEMENT, selector uintptr, depth uint32, out *HELEMENT) int32
	sciterUpdateElement          func(he HELEMENT, renderNow int32) int32
	sciterGetElementHwnd         func(he HELEMENT, out *uintptr, forRoot int32) int32
	sciterSetTimer               func(he HELEMENT, periodMs uint32, timerID uintptr) int32
	sciterAttachEventHandler     func(he HELEMENT, proc uintptr, tag uintptr) int32
	sciterDetachEventHandler     func(he HELEMENT, proc uintptr, tag uintptr) int32
	sciterFireEvent              func(params *behaviorEventParams, post int32, handled *int32) int32
	sciterGetValue               func(he HELEMENT, pval *rawValue) int32
	sciterSetValue               func(he HELEMENT, pval *rawValue) int32
	sciterEvalElementScript      func(he HELEMENT, script uintptr, scriptLength uint32, retval *rawValue) int32
	sciterCallScriptingMethod    func(he HELEMENT, name uintptr, argv *rawValue, argc uint32, retval *rawValue) int32
	sciterCallScriptingFunction  func(he HELEMENT, name uintptr, argv *rawValue, argc uint32, retval *rawValue) int32

	// Dynamic value primitives
	valueInit          func(pv *rawValue) int32
	valueClear         func(pv *rawValue) int32
	valueCopy          func(dst, src *rawValue) int32
	valueType          func(pv *rawValue, t, u *uint32) int32
	valueIntData       func(pv *rawValue, out *int32) int32
	valueIntDataSet    func(pv *rawValue, data int32, t, u uint32) int32
	valueInt64Data     func(pv *rawValue, out *int64) int32
	valueInt64DataSet  func(pv *rawValue, data int64, t, u uint32) int32
	valueFloatData     func(pv *rawValue, out *float64) int32
	valueFloatDataSet  func(pv *rawValue, data float64, t, u uint32) int32
	valueStringData    func(pv *rawValue, chars *uintptr, numChars *uint32) int32
	valueStringDataSet func(pv *rawValue, chars uintptr, numChars uint32, u uint32) int32
	valueBinaryData    func(pv *rawValue, bytes *uintptr, numBytes *uint32) int32
	valueBinaryDataSet func(pv *rawValue, bytes uintptr, numBytes uint32, t, u uint32) int32
	valueElementsCount func(pv *rawValue, out *int32) int32
	valueNthElement    func(pv *rawValue, n int32, out *rawValue) int32

	// Graphics API, bound from the engine's function-pointer table.
	getGraphicsAPI func() uintptr
)

// ffiCall invokes a raw foreign function pointer, used for per-object vtable
// dispatch (video asset interfaces) where the target address is only known at
// runtime. Tests interpose here.
var ffiCall = func(fn uintptr, args ...uintptr) uintptr {
	r1, _, _ := purego.SyscallN(fn, args...)
	return r1
}

var (
	engineOnce  sync.Once
	engineErr   error
	engineReady bool
)

// initEngine loads the shared library and resolves every entry point, once.
func initEngine(opts *Options) error {
	if engineReady {
		return nil
	}
	engineOnce.Do(func() {
		engineErr = doInitEngine(resolveLibraryPath(opts))
		if engineErr == nil {
			bindGraphics()
			if opts != nil && opts.Debug {
				sciterSetOption(0, optionDebugMode, 1)
			}
			engineReady = true
		}
	})
	return engineErr
}

func resolveLibraryPath(opts *Options) string {
	if opts != nil && opts.LibraryPath != "" {
		return opts.LibraryPath
	}
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), engineLibName())
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	// Fall back to the system library search path.
	return engineLibName()
}

// resolveAllSymbols registers every engine export into its function variable.
// The platform-specific loaders call this after opening the library.
func resolveAllSymbols(handle uintptr) error {
	for _, reg := range []struct {
		fptr interface{}
		name string
	}{
		{&sciterVersion, "SciterVersion"},

		{&sciterLoadFile, "SciterLoadFile"},
		{&sciterLoadHtml, "SciterLoadHtml"},
		{&sciterSetCallback, "SciterSetCallback"},
		{&sciterSetupDebugOutput, "SciterSetupDebugOutput"},
		{&sciterSetOption, "SciterSetOption"},
		{&sciterSetHomeURL, "SciterSetHomeURL"},
		{&sciterSetMediaType, "SciterSetMediaType"},
		{&sciterSetMediaVars, "SciterSetMediaVars"},
		{&sciterSetMasterCSS, "SciterSetMasterCSS"},
		{&sciterAppendMasterCSS, "SciterAppendMasterCSS"},
		{&sciterSetCSS, "SciterSetCSS"},
		{&sciterDataReady, "SciterDataReady"},
		{&sciterDataReadyAsync, "SciterDataReadyAsync"},
		{&sciterEval, "SciterEval"},
		{&sciterCall, "SciterCall"},
		{&sciterGetRootElement, "SciterGetRootElement"},
		{&sciterGetFocusElement, "SciterGetFocusElement"},
		{&sciterFindElement, "SciterFindElement"},
		{&sciterGetElementByUID, "SciterGetElementByUID"},
		{&sciterWindowAttachHandler, "SciterWindowAttachEventHandler"},

		{&sciterOpenArchive, "SciterOpenArchive"},
		{&sciterGetArchiveItem, "SciterGetArchiveItem"},
		{&sciterCloseArchive, "SciterCloseArchive"},

		{&sciterUseElement, "Sciter_UseElement"},
		{&sciterUnuseElement, "Sciter_UnuseElement"},

		{&sciterCreateElement, "SciterCreateElement"},
		{&sciterCloneElement, "SciterCloneElement"},
		{&sciterGetElementUID, "SciterGetElementUID"},
		{&sciterGetElementTypeCB, "SciterGetElementTypeCB"},
		{&sciterGetElementTextCB, "SciterGetElementTextCB"},
		{&sciterSetElementText, "SciterSetElementText"},
		{&sciterGetElementHtmlCB, "SciterGetElementHtmlCB"},
		{&sciterSetElementHtml, "SciterSetElementHtml"},
		{&sciterGetAttributeCount, "SciterGetAttributeCount"},
		{&sciterGetNthAttributeNameCB, "SciterGetNthAttributeNameCB"},
		{&sciterGetNthAttributeValueCB, "SciterGetNthAttributeValueCB"},
		{&sciterGetAttributeByNameCB, "SciterGetAttributeByNameCB"},
		{&sciterSetAttributeByName, "SciterSetAttributeByName"},
		{&sciterClearAttributes, "SciterClearAttributes"},
		{&sciterGetStyleAttributeCB, "SciterGetStyleAttributeCB"},
		{&sciterSetStyleAttribute, "SciterSetStyleAttribute"},
		{&sciterGetElementIndex, "SciterGetElementIndex"},
		{&sciterGetParentElement, "SciterGetParentElement"},
		{&sciterGetNthChild, "SciterGetNthChild"},
		{&sciterGetChildrenCount, "SciterGetChildrenCount"},
		{&sciterInsertElement, "SciterInsertElement"},
		{&sciterDetachElement, "SciterDetachElement"},
		{&sciterDeleteElement, "SciterDeleteElement"},
		{&sciterSwapElements, "SciterSwapElements"},
		{&sciterSelectElements, "SciterSelectElements"},
		{&sciterSelectParent, "SciterSelectParent"},
		{&sciterUpdateElement, "SciterUpdateElement"},
		{&sciterGetElementHwnd, "SciterGetElementHwnd"},
		{&sciterSetTimer, "SciterSetTimer"},
		{&sciterAttachEventHandler, "SciterAttachEventHandler"},
		{&sciterDetachEventHandler, "SciterDetachEventHandler"},
		{&sciterFireEvent, "SciterFireEvent"},
		{&sciterGetValue, "SciterGetValue"},
		{&sciterSetValue, "SciterSetValue"},
		{&sciterEvalElementScript, "SciterEvalElementScript"},
		{&sciterCallScriptingMethod, "SciterCallScriptingMethod"},
		{&sciterCallScriptingFunction, "SciterCallScriptingFunction"},

		{&valueInit, "ValueInit"},
		{&valueClear, "ValueClear"},
		{&valueCopy, "ValueCopy"},
		{&valueType, "ValueType"},
		{&valueIntData, "ValueIntData"},
		{&valueIntDataSet, "ValueIntDataSet"},
		{&valueInt64Data, "ValueInt64Data"},
		{&valueInt64DataSet, "ValueInt64DataSet"},
		{&valueFloatData, "ValueFloatData"},
		{&valueFloatDataSet, "ValueFloatDataSet"},
		{&valueStringData, "ValueStringData"},
		{&valueStringDataSet, "ValueStringDataSet"},
		{&valueBinaryData, "ValueBinaryData"},
		{&valueBinaryDataSet, "ValueBinaryDataSet"},
		{&valueElementsCount, "ValueElementsCount"},
		{&valueNthElement, "ValueNthElementValue"},

		{&getGraphicsAPI, "GetSciterGraphicsAPI"},
	} {
		if err := registerSymbol(reg.fptr, handle, reg.name); err != nil {
			return fmt.Errorf("%s: %w (engine library too old?)", reg.name, err)
		}
	}
	return nil
}

func registerSymbol(fptr interface{}, handle uintptr, name string) error {
	sym, err := getSymbolAddr(handle, name)
	if err != nil {
		return err
	}
	if sym == 0 {
		return fmt.Errorf("symbol %q not found in engine library", name)
	}
	purego.RegisterFunc(fptr, sym)
	return nil
}

// Graphics entry points. The engine hands these out as a single struct of
// function pointers rather than named exports; bindGraphics reads the table
// and registers each slot in declaration order.
var (
	gfxImageCreate           func(out *HIMG, width, height uint32, withAlpha int32) int32
	gfxImageCreateFromPixmap func(out *HIMG, width, height uint32, withAlpha int32, pixmap uintptr) int32
	gfxImageAddRef           func(img HIMG) int32
	gfxImageRelease          func(img HIMG) int32
	gfxImageGetInfo          func(img HIMG, width, height *uint32, usesAlpha *int32) int32
	gfxImageClear            func(img HIMG, byColor uint32) int32
	gfxImageLoad             func(bytes uintptr, numBytes uint32, out *HIMG) int32
	gfxImageSave             func(img HIMG, proc uintptr, param uintptr, encoding uint32, quality uint32) int32
	gfxRGBA                  func(red, green, blue, alpha uint32) uint32
	gfxCreate                func(img HIMG, out *HGFX) int32
	gfxAddRef                func(gfx HGFX) int32
	gfxRelease               func(gfx HGFX) int32
	gfxLine                  func(gfx HGFX, x1, y1, x2, y2 float32) int32
	gfxRectangle             func(gfx HGFX, x1, y1, x2, y2 float32) int32
	gfxRoundedRectangle      func(gfx HGFX, x1, y1, x2, y2 float32, radii8 *float32) int32
	gfxEllipse               func(gfx HGFX, x, y, rx, ry float32) int32
	gfxArc                   func(gfx HGFX, x, y, rx, ry, start, sweep float32) int32
	gfxStar                  func(gfx HGFX, x, y, r1, r2, start float32, rays uint32) int32
	gfxPolygon               func(gfx HGFX, xy *float32, numPoints uint32) int32
	gfxPolyline              func(gfx HGFX, xy *float32, numPoints uint32) int32
	gfxPathCreate            func(out *HPATH) int32
	gfxPathAddRef            func(path HPATH) int32
	gfxPathRelease           func(path HPATH) int32
	gfxPathMoveTo            func(path HPATH, x, y float32, relative int32) int32
	gfxPathLineTo            func(path HPATH, x, y float32, relative int32) int32
	gfxPathArcTo             func(path HPATH, x, y, angle, rx, ry float32, isLargeArc, clockwise, relative int32) int32
	gfxPathQuadraticCurveTo  func(path HPATH, xc, yc, x, y float32, relative int32) int32
	gfxPathBezierCurveTo     func(path HPATH, xc1, yc1, xc2, yc2, x, y float32, relative int32) int32
	gfxPathClosePath         func(path HPATH) int32
	gfxDrawPath              func(gfx HGFX, path HPATH, mode uint32) int32
	gfxRotate                func(gfx HGFX, radians float32, cx, cy *float32) int32
	gfxTranslate             func(gfx HGFX, cx, cy float32) int32
	gfxScale                 func(gfx HGFX, x, y float32) int32
	gfxSkew                  func(gfx HGFX, dx, dy float32) int32
	gfxTransform             func(gfx HGFX, m11, m12, m21, m22, dx, dy float32) int32
	gfxStateSave             func(gfx HGFX) int32
	gfxStateRestore          func(gfx HGFX) int32
	gfxLineWidth             func(gfx HGFX, width float32) int32
	gfxLineJoin              func(gfx HGFX, joinType uint32) int32
	gfxLineCap               func(gfx HGFX, capType uint32) int32
	gfxLineColor             func(gfx HGFX, color uint32) int32
	gfxFillColor             func(gfx HGFX, color uint32) int32
	gfxLineGradientLinear    func(gfx HGFX, x1, y1, x2, y2 float32, stops uintptr, nstops uint32) int32
	gfxFillGradientLinear    func(gfx HGFX, x1, y1, x2, y2 float32, stops uintptr, nstops uint32) int32
	gfxLineGradientRadial    func(gfx HGFX, x, y, rx, ry float32, stops uintptr, nstops uint32) int32
	gfxFillGradientRadial    func(gfx HGFX, x, y, rx, ry float32, stops uintptr, nstops uint32) int32
	gfxFillMode              func(gfx HGFX, evenOdd int32) int32
	gfxTextCreateForElement  func(out *HTEXT, text uintptr, textLength uint32, he HELEMENT) int32
	gfxTextCreate            func(out *HTEXT, text uintptr, textLength uint32, format uintptr) int32
	gfxTextGetMetrics        func(text HTEXT, minWidth, maxWidth, height, ascent, descent *float32, numLines *uint32) int32
	gfxTextSetBox            func(text HTEXT, width, height float32) int32
	gfxDrawText              func(gfx HGFX, text HTEXT, px, py float32, position uint32) int32
	gfxDrawImage             func(gfx HGFX, img HIMG, x, y float32, w, h *float32, ix, iy, iw, ih *uint32, opacity *float32) int32
	gfxWorldToScreen         func(gfx HGFX, inoutX, inoutY *float32) int32
	gfxScreenToWorld         func(gfx HGFX, inoutX, inoutY *float32) int32
	gfxPushClipBox           func(gfx HGFX, x1, y1, x2, y2 float32, opacity float32) int32
	gfxPushClipPath          func(gfx HGFX, path HPATH, opacity float32) int32
	gfxPopClip               func(gfx HGFX) int32
	gfxImagePaint            func(img HIMG, proc uintptr, param uintptr) int32
	gfxValueWrapGfx          func(gfx HGFX, toValue *rawValue) int32
	gfxValueWrapImage        func(img HIMG, toValue *rawValue) int32
	gfxValueWrapPath         func(path HPATH, toValue *rawValue) int32
	gfxValueWrapText         func(text HTEXT, toValue *rawValue) int32
	gfxValueUnWrapGfx        func(fromValue *rawValue, out *HGFX) int32
	gfxValueUnWrapImage      func(fromValue *rawValue, out *HIMG) int32
	gfxValueUnWrapPath       func(fromValue *rawValue, out *HPATH) int32
	gfxValueUnWrapText       func(fromValue *rawValue, out *HTEXT) int32
)

func bindGraphics() {
	slots := []interface{}{
		&gfxImageCreate, &gfxImageCreateFromPixmap, &gfxImageAddRef, &gfxImageRelease,
		&gfxImageGetInfo, &gfxImageClear, &gfxImageLoad, &gfxImageSave,
		&gfxRGBA,
		&gfxCreate, &gfxAddRef, &gfxRelease,
		&gfxLine, &gfxRectangle, &gfxRoundedRectangle, &gfxEllipse, &gfxArc,
		&gfxStar, &gfxPolygon, &gfxPolyline,
		&gfxPathCreate, &gfxPathAddRef, &gfxPathRelease,
		&gfxPathMoveTo, &gfxPathLineTo, &gfxPathArcTo,
		&gfxPathQuadraticCurveTo, &gfxPathBezierCurveTo, &gfxPathClosePath,
		&gfxDrawPath,
		&gfxRotate, &gfxTranslate, &gfxScale, &gfxSkew, &gfxTransform,
		&gfxStateSave, &gfxStateRestore,
		&gfxLineWidth, &gfxLineJoin, &gfxLineCap, &gfxLineColor, &gfxFillColor,
		&gfxLineGradientLinear, &gfxFillGradientLinear,
		&gfxLineGradientRadial, &gfxFillGradientRadial,
		&gfxFillMode,
		&gfxTextCreateForElement, &gfxTextCreate, &gfxTextGetMetrics, &gfxTextSetBox,
		&gfxDrawText, &gfxDrawImage,
		&gfxWorldToScreen, &gfxScreenToWorld,
		&gfxPushClipBox, &gfxPushClipPath, &gfxPopClip,
		&gfxImagePaint,
		&gfxValueWrapGfx, &gfxValueWrapImage, &gfxValueWrapPath, &gfxValueWrapText,
		&gfxValueUnWrapGfx, &gfxValueUnWrapImage, &gfxValueUnWrapPath, &gfxValueUnWrapText,
	}
	table := getGraphicsAPI()
	vt := unsafe.Slice((*uintptr)(unsafe.Pointer(table)), len(slots))
	for i, fptr := range slots {
		purego.RegisterFunc(fptr, vt[i])
	}
}

// Version returns the engine version string, e.g. "4.4.8.23".
func Version(opts *Options) (string, error) {
	if err := initEngine(opts); err != nil {
		return "", err
	}
	v1 := sciterVersion(1)
	v2 := sciterVersion(0)
	return fmt.Sprintf("%d.%d.%d.%d", v1>>16, v1&0xFFFF, v2>>16, v2&0xFFFF), nil
}
