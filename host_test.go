// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package sciter

import (
	"runtime/cgo"
	"testing"
	"testing/fstest"
	"unsafe"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attachParams(name []byte) *attachBehaviorParams {
	return &attachBehaviorParams{code: scAttachBehavior, behaviorName: uptr(name)}
}

func TestBehaviorRegistryFirstRegistrationWins(t *testing.T) {
	h := &Host{hwnd: 1}
	first := &recorder{}
	second := &recorder{}
	h.RegisterBehavior("gauge", func() EventHandler { return first })
	h.RegisterBehavior("gauge", func() EventHandler { return second })

	name := ustr("gauge")
	p := attachParams(name)
	rc := h.handleAttachBehavior(p)
	require.Equal(t, uintptr(1), rc)
	require.NotZero(t, p.elementTag)
	assert.Equal(t, behaviorEventProc, p.elementProc)

	box := cgo.Handle(p.elementTag).Value().(*boxedHandler)
	assert.Same(t, EventHandler(first), box.handler)
	cgo.Handle(p.elementTag).Delete()
}

func TestBehaviorRegistryMissIsNotAnError(t *testing.T) {
	h := &Host{hwnd: 1}
	h.RegisterBehavior("gauge", func() EventHandler { return &recorder{} })

	name := ustr("unknown")
	p := attachParams(name)
	assert.Equal(t, uintptr(0), h.handleAttachBehavior(p))
	assert.Zero(t, p.elementTag)
	assert.Zero(t, p.elementProc)
}

type fallbackHost struct {
	BaseHost
	asked   []string
	handler EventHandler
}

func (f *fallbackHost) OnAttachBehavior(name string, el HELEMENT) (EventHandler, bool) {
	f.asked = append(f.asked, name)
	if f.handler != nil {
		return f.handler, true
	}
	return nil, false
}

func TestBehaviorFallbackToHostHandler(t *testing.T) {
	fb := &fallbackHost{handler: &recorder{}}
	h := &Host{hwnd: 1, handler: fb}
	h.RegisterBehavior("gauge", func() EventHandler { return &recorder{} })

	name := ustr("dial")
	p := attachParams(name)
	rc := h.handleAttachBehavior(p)
	require.Equal(t, uintptr(1), rc)
	assert.Equal(t, []string{"dial"}, fb.asked)
	cgo.Handle(p.elementTag).Delete()
}

func TestBehaviorDetachReclaimsBoxOnce(t *testing.T) {
	h := &Host{hwnd: 1}
	r := &recorder{}
	h.RegisterBehavior("gauge", func() EventHandler { return r })

	name := ustr("gauge")
	p := attachParams(name)
	require.Equal(t, uintptr(1), h.handleAttachBehavior(p))
	tag := p.elementTag

	attach := initializationParams{cmd: behaviorAttach}
	behaviorProcTrampoline(tag, 5, uintptr(uint32(HandleInitialization)), uintptr(unsafe.Pointer(&attach)))
	detach := initializationParams{cmd: behaviorDetach}
	behaviorProcTrampoline(tag, 5, uintptr(uint32(HandleInitialization)), uintptr(unsafe.Pointer(&detach)))

	assert.Equal(t, 1, r.attached)
	assert.Equal(t, 1, r.detached)
	assert.Panics(t, func() { cgo.Handle(tag).Value() })
}

func TestHostNotifyRoutesByCode(t *testing.T) {
	fb := &fallbackHost{}
	h := &Host{hwnd: 1, handler: fb}
	h.self = cgo.NewHandle(h)
	t.Cleanup(func() {
		if !h.destroyed {
			h.self.Delete()
		}
	})

	name := ustr("x")
	p := attachParams(name)
	hostNotifyTrampoline(uintptr(unsafe.Pointer(p)), uintptr(h.self))
	assert.Equal(t, []string{"x"}, fb.asked)
}

func TestEngineDestroyedReclaimsHostHandleOnce(t *testing.T) {
	h := &Host{hwnd: 1}
	h.self = cgo.NewHandle(h)
	self := h.self

	destroyed := struct{ code uint32 }{code: scEngineDestroyed}
	hostNotifyTrampoline(uintptr(unsafe.Pointer(&destroyed)), uintptr(self))
	assert.True(t, h.destroyed)
	assert.Panics(t, func() { self.Value() })
}

func TestLoadDataServedFromResources(t *testing.T) {
	var readyURI string
	var readyData []byte
	swap(t, &sciterDataReady, func(hwnd, uri, data uintptr, size uint32) int32 {
		readyURI = decodeWZ(uri)
		readyData = copyBytes(data, int(size))
		return 1
	})

	h := &Host{hwnd: 1}
	h.SetResourceFS(fstest.MapFS{
		"index.html": {Data: []byte("<html/>")},
	})

	uri, _ := wstr("this://app/index.html")
	p := &loadDataParams{code: scLoadData, uri: wptr(uri)}
	r := h.handleLoadData(p)
	assert.Equal(t, LoadOK, r)
	assert.Equal(t, "this://app/index.html", readyURI)
	assert.Equal(t, []byte("<html/>"), readyData)
}

func TestLoadDataMissFallsThrough(t *testing.T) {
	called := false
	swap(t, &sciterDataReady, func(hwnd, uri, data uintptr, size uint32) int32 {
		called = true
		return 1
	})

	h := &Host{hwnd: 1}
	h.SetResourceFS(fstest.MapFS{})

	uri, _ := wstr("this://app/missing.css")
	p := &loadDataParams{code: scLoadData, uri: wptr(uri)}
	assert.Equal(t, LoadOK, h.handleLoadData(p))
	assert.False(t, called, "unresolved resources are left to the engine")
}

type discardingHost struct {
	BaseHost
	seen []string
}

func (d *discardingHost) OnDataLoad(ld *LoadData) LoadResult {
	d.seen = append(d.seen, ld.URI)
	return LoadDiscard
}

func TestLoadDataHandlerDecisionShortCircuits(t *testing.T) {
	called := false
	swap(t, &sciterDataReady, func(hwnd, uri, data uintptr, size uint32) int32 {
		called = true
		return 1
	})

	dh := &discardingHost{}
	h := &Host{hwnd: 1, handler: dh}
	h.SetResourceFS(fstest.MapFS{"a.css": {Data: []byte("x")}})

	uri, _ := wstr("this://app/a.css")
	p := &loadDataParams{code: scLoadData, uri: wptr(uri)}
	assert.Equal(t, LoadDiscard, h.handleLoadData(p))
	assert.Equal(t, []string{"this://app/a.css"}, dh.seen)
	assert.False(t, called, "discarded loads bypass the resource lookup")
}

func TestAttachHandlerSubscribesWindowShape(t *testing.T) {
	var gotProc, gotTag uintptr
	var gotSub uint32
	swap(t, &sciterWindowAttachHandler, func(hwnd, proc, tag uintptr, sub uint32) int32 {
		gotProc, gotTag, gotSub = proc, tag, sub
		return 0
	})

	h := &Host{hwnd: 0xBEEF}
	r := &recorder{}
	require.NoError(t, h.AttachHandler(r))
	assert.Equal(t, windowEventProc, gotProc)
	assert.Equal(t, uint32(HandleAll), gotSub)

	wh := cgo.Handle(gotTag).Value().(*windowHandler)
	assert.Equal(t, uintptr(0xBEEF), wh.hwnd)
	assert.Same(t, EventHandler(r), wh.handler)
	cgo.Handle(gotTag).Delete()
}

func TestDebugOutputDefaultGoesToLogger(t *testing.T) {
	testLogger, hook := logtest.NewNullLogger()
	testLogger.SetLevel(logrus.DebugLevel)
	swap(t, &logger, testLogger)

	msg, n := wstr("late binding")
	debugOutputTrampoline(0, uintptr(OutputTIS), uintptr(OutputError), wptr(msg), uintptr(n))

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.ErrorLevel, hook.Entries[0].Level)
	assert.Equal(t, "late binding", hook.Entries[0].Message)
}

type capturingHost struct {
	BaseHost
	messages []string
}

func (c *capturingHost) OnDebugOutput(subsystem OutputSubsystem, severity OutputSeverity, message string) {
	c.messages = append(c.messages, message)
}

func TestDebugOutputRoutedToHostHandler(t *testing.T) {
	ch := &capturingHost{}
	h := &Host{hwnd: 1, handler: ch}
	h.self = cgo.NewHandle(h)
	defer h.self.Delete()

	msg, n := wstr("script error")
	debugOutputTrampoline(uintptr(h.self), uintptr(OutputTIS), uintptr(OutputError), wptr(msg), uintptr(n))
	assert.Equal(t, []string{"script error"}, ch.messages)
}
