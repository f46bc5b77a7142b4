// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package sciter

import (
	"runtime/cgo"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Event payload layouts, mirroring the engine structs bit for bit.

type initializationParams struct {
	cmd uint32
}

type behaviorEventParams struct {
	Cmd      uint32
	HeTarget HELEMENT
	He       HELEMENT
	Reason   uintptr
	Data     rawValue
}

type scriptingMethodParams struct {
	name   uintptr
	argv   uintptr
	argc   uint32
	result rawValue
}

type timerParams struct {
	timerID uintptr
}

// windowHandler pairs a window-level handler with the window it serves, so
// host notifications and events can be routed from one context pointer.
type windowHandler struct {
	hwnd    uintptr
	handler EventHandler
}

// boxedHandler owns a behavior instance produced by a registered factory.
// It exists so the detach notification has exactly one box to reclaim.
type boxedHandler struct {
	handler EventHandler
}

// The engine calls back through C function pointers; each handler shape gets
// one process-wide trampoline, with the per-handler state carried in the tag
// argument as a cgo.Handle. The handle is deleted exactly once, when the
// detach notification arrives; a second delivery would panic, which is the
// correct response to an engine double-detach.
var (
	windowEventProc   = purego.NewCallback(windowProcTrampoline)
	elementEventProc  = purego.NewCallback(elementProcTrampoline)
	behaviorEventProc = purego.NewCallback(behaviorProcTrampoline)
)

func windowProcTrampoline(tag, he, evtg, params uintptr) uintptr {
	if tag == 0 {
		return 0
	}
	h := cgo.Handle(tag)
	wh := h.Value().(*windowHandler)
	// Window deliveries carry no useful element; the handler's root is the
	// document root, resolved from the window on every delivery since the
	// document can be replaced between deliveries.
	root := HELEMENT(he)
	var resolved HELEMENT
	if sciterGetRootElement(wh.hwnd, &resolved) == 0 && resolved != 0 {
		root = resolved
	}
	rc := processEvents(wh.handler, root, uint32(evtg), params)
	if isDetachEvent(uint32(evtg), params) {
		h.Delete()
	}
	return rc
}

func elementProcTrampoline(tag, he, evtg, params uintptr) uintptr {
	if tag == 0 {
		return 0
	}
	h := cgo.Handle(tag)
	eh := h.Value().(EventHandler)
	rc := processEvents(eh, HELEMENT(he), uint32(evtg), params)
	if isDetachEvent(uint32(evtg), params) {
		h.Delete()
	}
	return rc
}

func behaviorProcTrampoline(tag, he, evtg, params uintptr) uintptr {
	if tag == 0 {
		return 0
	}
	h := cgo.Handle(tag)
	box := h.Value().(*boxedHandler)
	rc := processEvents(box.handler, HELEMENT(he), uint32(evtg), params)
	if isDetachEvent(uint32(evtg), params) {
		h.Delete()
	}
	return rc
}

// isDetachEvent reports whether this delivery is the final one for the
// handler. Must be checked after dispatch, so Detached still runs.
func isDetachEvent(evtg uint32, params uintptr) bool {
	if EventGroups(evtg) != HandleInitialization || params == 0 {
		return false
	}
	p := (*initializationParams)(unsafe.Pointer(params))
	return p.cmd == behaviorDetach
}

// processEvents decodes one engine delivery and routes it to the handler.
// The return value is the handler's "consumed" flag as the engine expects it.
func processEvents(h EventHandler, he HELEMENT, evtg uint32, params uintptr) uintptr {
	if evtg == subscriptionsRequest {
		if params == 0 {
			panic("sciter: subscription request with null payload")
		}
		mask, ok := h.Subscription()
		if !ok {
			// Leave the slot untouched; the engine applies its default.
			return 0
		}
		*(*uint32)(unsafe.Pointer(params)) = uint32(mask)
		return 1
	}

	if he == 0 {
		logger.WithField("event_group", evtg).Warn("event delivery with null element")
	}

	switch EventGroups(evtg) {
	case HandleInitialization:
		if params == 0 {
			panic("sciter: initialization event with null payload")
		}
		p := (*initializationParams)(unsafe.Pointer(params))
		switch p.cmd {
		case behaviorAttach:
			h.Attached(he)
		case behaviorDetach:
			h.Detached(he)
		}
		return 1

	case HandleBehaviorEvent:
		if params == 0 {
			panic("sciter: behavior event with null payload")
		}
		p := (*behaviorEventParams)(unsafe.Pointer(params))
		code := BehaviorEvent(p.Cmd & eventCodeMask)
		phase := Phase(p.Cmd & eventPhaseMask)

		var reason EventReason
		switch code {
		case EditValueChanging, EditValueChanged:
			reason = EditChangedEvent{Reason: EditChangedReason(p.Reason)}
		case VideoBindRequest:
			reason = VideoBindEvent{Target: unsafe.Pointer(p.Reason)}
		default:
			reason = GeneralEvent{Reason: ClickReason(p.Reason)}
		}

		// Document lifecycle hooks fire on the sinking pass, ahead of the
		// generic dispatch for the same notification.
		if phase == Sinking {
			switch code {
			case DocumentComplete:
				h.DocumentComplete(he, p.HeTarget)
			case DocumentClose:
				h.DocumentClose(he, p.HeTarget)
			}
		}

		return boolToFlag(h.OnEvent(he, p.He, p.HeTarget, code, phase, reason))

	case HandleScriptingCall:
		if params == 0 {
			panic("sciter: scripting call with null payload")
		}
		p := (*scriptingMethodParams)(unsafe.Pointer(params))
		name := decodeUZ(p.name)
		args := unpackArgs(p.argv, p.argc)
		ret, handled := h.OnScriptCall(he, name, args)
		if handled {
			// Ownership of the return value moves into the result slot.
			p.result = ret.raw
		} else {
			ret.Release()
		}
		return boolToFlag(handled)

	case HandleTimer:
		if params == 0 {
			panic("sciter: timer event with null payload")
		}
		p := (*timerParams)(unsafe.Pointer(params))
		return boolToFlag(h.OnTimer(he, uint64(p.timerID)))
	}

	return 0
}

func boolToFlag(b bool) uintptr {
	if b {
		return 1
	}
	return 0
}
