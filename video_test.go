// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package sciter

import (
	"sync/atomic"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAsset lays out an object the way the engine does: the first word
// points at a vtable of function pointers. The addresses are markers; calls
// are intercepted at the ffiCall hook. The fake is reachable from streaming
// goroutines, so the fields they touch during a run are atomics.
type fakeAsset struct {
	vtable uintptr
	slots  [8]uintptr

	refs       int
	alive      atomic.Bool
	frameCount atomic.Int32
	started    bool
	frames     [][]byte
	lastCall   []uintptr
}

// growStack recurses deep enough to force the goroutine stack to be copied.
var stackSink byte

func growStack(n int) {
	if n == 0 {
		return
	}
	var pad [512]byte
	pad[0] = byte(n)
	growStack(n - 1)
	stackSink += pad[0]
}

func newFakeAsset(t *testing.T) *fakeAsset {
	t.Helper()
	f := &fakeAsset{refs: 1}
	f.alive.Store(true)
	for i := range f.slots {
		// Distinct non-zero markers, one per slot.
		f.slots[i] = uintptr(0x1000 + i)
	}
	f.vtable = uintptr(unsafe.Pointer(&f.slots[0]))

	// The hook runs on whatever goroutine streams frames, so it reports
	// failures with Errorf rather than stopping the test.
	swap(t, &ffiCall, func(fn uintptr, args ...uintptr) uintptr {
		if len(args) == 0 || args[0] != uintptr(unsafe.Pointer(f)) {
			t.Errorf("vtable call %#x without this pointer: %v", fn, args)
			return 0
		}
		f.lastCall = args
		switch int(fn - 0x1000) {
		case assetSlotAddRef:
			f.refs++
			return uintptr(f.refs)
		case assetSlotRelease:
			f.refs--
			return uintptr(f.refs)
		case assetSlotGetInterface:
			name := decodeUZ(args[1])
			if name == VideoDestinationName || name == FragmentedVideoDestinationName {
				// Move the stack before writing back; a stack-allocated
				// out cell would be left behind by the copy.
				growStack(128)
				f.refs++
				*(*unsafe.Pointer)(unsafe.Pointer(args[2])) = unsafe.Pointer(f)
				return 1
			}
			return 0
		case videoSlotIsAlive:
			if f.alive.Load() {
				return 1
			}
			return 0
		case videoSlotStartStreaming:
			f.started = true
			return 1
		case videoSlotStopStreaming:
			f.started = false
			return 1
		case videoSlotRenderFrame:
			f.frames = append(f.frames, copyBytes(args[1], int(args[2])))
			f.frameCount.Add(1)
			return 1
		case videoSlotRenderFramePart:
			f.frames = append(f.frames, copyBytes(args[1], int(args[2])))
			f.frameCount.Add(1)
			return 1
		}
		t.Errorf("unexpected vtable call %#x", fn)
		return 0
	})
	return f
}

func (f *fakeAsset) pointer() unsafe.Pointer {
	return unsafe.Pointer(f)
}

func TestAdoptAssetAddsReference(t *testing.T) {
	f := newFakeAsset(t)

	a := AdoptAsset(f.pointer())
	assert.Equal(t, 2, f.refs)
	a.Release()
	assert.Equal(t, 1, f.refs)
}

func TestAttachAssetTransfersReference(t *testing.T) {
	f := newFakeAsset(t)

	a := AttachAsset(f.pointer())
	assert.Equal(t, 1, f.refs, "attach adds no reference")
	a.Release()
	assert.Equal(t, 0, f.refs)
	a.Release()
	assert.Equal(t, 0, f.refs, "wrapper release is idempotent")
}

func TestAssetCloneIsIndependentlyOwned(t *testing.T) {
	f := newFakeAsset(t)

	a := AttachAsset(f.pointer())
	c := a.Clone()
	assert.Equal(t, 2, f.refs)
	a.Release()
	c.Release()
	assert.Equal(t, 0, f.refs)
}

func TestGetInterfaceAdoptsResult(t *testing.T) {
	f := newFakeAsset(t)

	a := AttachAsset(f.pointer())
	sub, ok := a.GetInterface(VideoDestinationName)
	require.True(t, ok)
	assert.Equal(t, 2, f.refs, "callee-supplied reference kept, none added")

	_, ok = a.GetInterface("nonsense.sciter.com")
	assert.False(t, ok)
	assert.Equal(t, 2, f.refs)

	sub.Release()
	a.Release()
	assert.Equal(t, 0, f.refs)
}

func TestNilAssetPointers(t *testing.T) {
	assert.Nil(t, AttachAsset(nil))
	assert.Nil(t, AdoptAsset(nil))
}

func TestVideoDestinationLifecycle(t *testing.T) {
	f := newFakeAsset(t)

	dst, ok := VideoDestinationFrom(VideoBindEvent{Target: f.pointer()})
	require.True(t, ok)
	assert.Equal(t, 2, f.refs, "bind site adopted")

	assert.True(t, dst.IsAlive())
	require.NoError(t, dst.Start(320, 240, ColorSpaceRGB32))
	assert.True(t, f.started)
	assert.Equal(t, []uintptr{uintptr(f.pointer()), 320, 240, uintptr(ColorSpaceRGB32), 0}, f.lastCall)

	frame := []byte{1, 2, 3, 4}
	require.NoError(t, dst.RenderFrame(frame))
	require.Len(t, f.frames, 1)
	assert.Equal(t, frame, f.frames[0])

	require.NoError(t, dst.Stop())
	assert.False(t, f.started)

	f.alive.Store(false)
	assert.False(t, dst.IsAlive())

	dst.Release()
	assert.Equal(t, 1, f.refs)
}

func TestVideoDestinationFromNilSite(t *testing.T) {
	_, ok := VideoDestinationFrom(VideoBindEvent{})
	assert.False(t, ok)
}

func TestReleasedDestinationIsDead(t *testing.T) {
	f := newFakeAsset(t)

	dst, ok := VideoDestinationFrom(VideoBindEvent{Target: f.pointer()})
	require.True(t, ok)
	dst.Release()
	assert.False(t, dst.IsAlive(), "released wrapper reports dead without touching the engine")
}

func TestFragmentedUpgrade(t *testing.T) {
	f := newFakeAsset(t)

	dst, ok := VideoDestinationFrom(VideoBindEvent{Target: f.pointer()})
	require.True(t, ok)

	frag, ok := dst.Fragmented()
	require.True(t, ok)
	assert.Equal(t, 3, f.refs, "fragmented interface independently owned")

	part := []byte{9, 9}
	require.NoError(t, frag.RenderFramePart(part, 4, 8, 2, 1))
	require.Len(t, f.frames, 1)
	assert.Equal(t, part, f.frames[0])
	assert.Equal(t, []uintptr{uintptr(f.pointer()), bptr(part), 2, 4, 8, 2, 1}, f.lastCall)

	frag.Release()
	dst.Release()
	assert.Equal(t, 1, f.refs)
}

func TestPumpStopsWhenSiteDies(t *testing.T) {
	f := newFakeAsset(t)

	dst, ok := VideoDestinationFrom(VideoBindEvent{Target: f.pointer()})
	require.True(t, ok)

	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- dst.Pump(4, 2, ColorSpaceRGB32, time.Millisecond, func(n int) []byte {
			return []byte{byte(n), 0, 0, 0}
		}, stop)
	}()

	require.Eventually(t, func() bool { return f.frameCount.Load() > 0 },
		5*time.Second, time.Millisecond, "worker never produced a frame")
	f.alive.Store(false)

	var err error
	select {
	case err = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not notice the dead site")
	}
	require.NoError(t, err)

	rendered := f.frameCount.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, rendered, f.frameCount.Load(), "no frames after shutdown")
	assert.False(t, f.started, "streaming stopped")
	assert.Equal(t, 1, f.refs, "worker released its reference")
}

func TestPumpJoinsOnStop(t *testing.T) {
	f := newFakeAsset(t)

	dst, ok := VideoDestinationFrom(VideoBindEvent{Target: f.pointer()})
	require.True(t, ok)

	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- dst.Pump(4, 2, ColorSpaceRGB32, time.Millisecond, func(int) []byte {
			return []byte{0, 0, 0, 0}
		}, stop)
	}()

	require.Eventually(t, func() bool { return f.frameCount.Load() > 0 },
		5*time.Second, time.Millisecond, "worker never produced a frame")
	close(stop)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("closing stop did not join the worker")
	}
	assert.False(t, f.started)
	assert.Equal(t, 1, f.refs)
}
