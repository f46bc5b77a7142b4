// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package sciter

import (
	"fmt"
	"runtime"
	"time"
	"unsafe"
)

// ColorSpace identifies the pixel layout of pushed video frames.
type ColorSpace int32

const (
	ColorSpaceUnknown ColorSpace = 0
	ColorSpaceYV12    ColorSpace = 1
	ColorSpaceIYUV    ColorSpace = 2
	ColorSpaceNV12    ColorSpace = 3
	ColorSpaceYUY2    ColorSpace = 4
	ColorSpaceRGB24   ColorSpace = 5
	ColorSpaceRGB555  ColorSpace = 6
	ColorSpaceRGB565  ColorSpace = 7
	ColorSpaceRGB32   ColorSpace = 8 // BGRA byte order
)

// Asset interface names understood by Asset.GetInterface.
const (
	VideoDestinationName           = "video_destination.video.sciter.com"
	FragmentedVideoDestinationName = "fragmented_video_destination.video.sciter.com"
)

// Engine asset vtable slots. Every asset starts with the refcounting triple;
// concrete interfaces add their methods after it.
const (
	assetSlotAddRef       = 0
	assetSlotRelease      = 1
	assetSlotGetInterface = 2

	videoSlotIsAlive         = 3
	videoSlotStartStreaming  = 4
	videoSlotStopStreaming   = 5
	videoSlotRenderFrame     = 6
	videoSlotRenderFramePart = 7
)

// Asset is an owned reference to an engine-refcounted COM-style object. The
// first machine word of the object is its vtable; calls are dispatched by
// slot index.
//
// Unlike the rest of the package, Asset methods may be called from any
// goroutine: the engine side of these objects is thread safe, which is what
// makes background streaming possible.
type Asset struct {
	ptr unsafe.Pointer
}

// AttachAsset wraps an asset pointer whose reference is being transferred to
// us; no reference is added.
func AttachAsset(p unsafe.Pointer) *Asset {
	if p == nil {
		return nil
	}
	return &Asset{ptr: p}
}

// AdoptAsset wraps an asset pointer we are borrowing, adding a reference.
func AdoptAsset(p unsafe.Pointer) *Asset {
	if p == nil {
		return nil
	}
	a := &Asset{ptr: p}
	a.vcall(assetSlotAddRef)
	return a
}

// vcall dispatches a vtable slot on the asset.
func (a *Asset) vcall(slot int, args ...uintptr) uintptr {
	vt := *(*uintptr)(a.ptr)
	fn := *(*uintptr)(unsafe.Pointer(vt + uintptr(slot)*unsafe.Sizeof(uintptr(0))))
	full := append([]uintptr{uintptr(a.ptr)}, args...)
	return ffiCall(fn, full...)
}

// AddRef adds a reference and returns the new count.
func (a *Asset) AddRef() int {
	return int(a.vcall(assetSlotAddRef))
}

// Release drops this reference. Safe to call more than once on the wrapper.
func (a *Asset) Release() {
	if a.ptr != nil {
		a.vcall(assetSlotRelease)
		a.ptr = nil
	}
}

// Clone returns a second owned reference to the same asset.
func (a *Asset) Clone() *Asset {
	return AdoptAsset(a.ptr)
}

// GetInterface asks the asset for a named interface. On success the result
// is an owned reference.
func (a *Asset) GetInterface(name string) (*Asset, bool) {
	// The out cell must live on the heap: its address crosses the vtable
	// call as a bare uintptr, and a stack-allocated cell could move under
	// it when the stack grows.
	nameBuf := ustr(name)
	out := new(unsafe.Pointer)
	ok := a.vcall(assetSlotGetInterface, uptr(nameBuf), uintptr(unsafe.Pointer(out)))
	runtime.KeepAlive(nameBuf)
	runtime.KeepAlive(out)
	if ok == 0 || *out == nil {
		return nil, false
	}
	// The callee added the reference for us.
	return AttachAsset(*out), true
}

// VideoDestination is the engine's sink for externally produced video
// frames, received through a VideoBindRequest event on a <video> element.
type VideoDestination struct {
	Asset
}

// VideoDestinationFrom adopts the video site carried by a VideoBindRequest
// event. Only valid during the second (bubbling) delivery of the event.
func VideoDestinationFrom(bind VideoBindEvent) (*VideoDestination, bool) {
	if bind.Target == nil {
		return nil, false
	}
	a := AdoptAsset(bind.Target)
	return &VideoDestination{Asset: *a}, true
}

// IsAlive reports whether the engine still wants frames. Once false the
// destination is dead for good; stop streaming and release it.
func (v *VideoDestination) IsAlive() bool {
	if v.ptr == nil {
		return false
	}
	return v.vcall(videoSlotIsAlive) != 0
}

// Start announces the frame format ahead of the first frame.
func (v *VideoDestination) Start(frameWidth, frameHeight int, space ColorSpace) error {
	if v.vcall(videoSlotStartStreaming, uintptr(int32(frameWidth)), uintptr(int32(frameHeight)), uintptr(int32(space)), 0) == 0 {
		return fmt.Errorf("sciter: video start streaming refused")
	}
	return nil
}

// Stop ends the stream. The destination may be started again.
func (v *VideoDestination) Stop() error {
	if v.vcall(videoSlotStopStreaming) == 0 {
		return fmt.Errorf("sciter: video stop streaming refused")
	}
	return nil
}

// RenderFrame pushes one full frame in the format announced by Start.
func (v *VideoDestination) RenderFrame(frame []byte) error {
	rc := v.vcall(videoSlotRenderFrame, bptr(frame), uintptr(uint32(len(frame))))
	runtime.KeepAlive(frame)
	if rc == 0 {
		return fmt.Errorf("sciter: video render frame refused")
	}
	return nil
}

// Pump drives a frame producer against the destination from the calling
// goroutine: Start, then one produced frame per interval until stop is
// closed, the engine reports the site dead, or a push fails. Pump owns the
// reference it is given and releases it on return; run it on a dedicated
// goroutine and close stop to join it.
func (v *VideoDestination) Pump(frameWidth, frameHeight int, space ColorSpace, interval time.Duration, produce func(frame int) []byte, stop <-chan struct{}) error {
	defer v.Release()
	if err := v.Start(frameWidth, frameHeight, space); err != nil {
		return err
	}
	defer v.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := 0; ; n++ {
		select {
		case <-stop:
			return nil
		case <-ticker.C:
		}
		if !v.IsAlive() {
			return nil
		}
		if err := v.RenderFrame(produce(n)); err != nil {
			return err
		}
	}
}

// Fragmented upgrades the destination to partial-frame updates, if the
// engine supports it. The result is independently owned.
func (v *VideoDestination) Fragmented() (*FragmentedVideoDestination, bool) {
	a, ok := v.GetInterface(FragmentedVideoDestinationName)
	if !ok {
		return nil, false
	}
	return &FragmentedVideoDestination{VideoDestination: VideoDestination{Asset: *a}}, true
}

// FragmentedVideoDestination is a VideoDestination that can update
// sub-rectangles of the frame.
type FragmentedVideoDestination struct {
	VideoDestination
}

// RenderFramePart pushes pixels for a sub-rectangle of the frame.
func (f *FragmentedVideoDestination) RenderFramePart(data []byte, x, y, width, height int) error {
	rc := f.vcall(videoSlotRenderFramePart,
		bptr(data), uintptr(uint32(len(data))),
		uintptr(int32(x)), uintptr(int32(y)),
		uintptr(int32(width)), uintptr(int32(height)))
	runtime.KeepAlive(data)
	if rc == 0 {
		return fmt.Errorf("sciter: video render frame part refused")
	}
	return nil
}
