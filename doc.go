// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

// Package sciter binds Go applications to the Sciter embeddable HTML/CSS/script
// engine through its C ABI, without cgo.
//
// The engine ships as a closed-source shared library. This package resolves its
// exported entry points at runtime with purego and exposes the engine's DOM,
// event, graphics and video-streaming surfaces behind Go types that own their
// foreign reference counts.
//
// Basic usage with an existing native window:
//
//	host, err := sciter.Attach(hwnd, nil)
//	if err != nil { ... }
//	host.RegisterBehavior("custom-button", func() sciter.EventHandler {
//	    return &Button{}
//	})
//	host.LoadFile("ui/index.htm")
//
// Event handlers embed [BaseHandler] and override what they need:
//
//	type Button struct{ sciter.BaseHandler }
//
//	func (b *Button) OnEvent(root, source, target sciter.HELEMENT,
//	    code sciter.BehaviorEvent, phase sciter.Phase, reason sciter.EventReason) bool {
//	    return code == sciter.ButtonClick && phase == sciter.Bubbling
//	}
//
// Handlers attach three ways: to the window (host.AttachHandler), to a single
// element (Element.AttachHandler), or declaratively by behavior name from CSS
// (`div { behavior: custom-button }`) via host.RegisterBehavior. In every case
// the handler lives until the engine delivers the detach notification for its
// element; the binding then reclaims it exactly once.
//
// All engine callbacks arrive on the engine's own UI thread, synchronously and
// possibly re-entrantly. Handler state needs no locking as long as it is only
// touched from callbacks. The one exception is [Asset] handles for video
// streaming, which are safe to hand to a worker goroutine; see [VideoDestination].
//
// DOM elements, graphics objects and video assets are reference-counted by the
// engine. Wrappers take one reference on construction and give it back in
// Release; call Release (usually deferred) when done:
//
//	root, err := host.Root()
//	if err != nil { ... }
//	defer root.Release()
//
// Requirements: the Sciter shared library (sciter.dll on Windows,
// libsciter-gtk.so on Linux, sciter-osx-64.dylib on macOS) next to the
// executable or at the path given in [Options.LibraryPath].
package sciter
