// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package sciter

import (
	"fmt"
	"io/fs"
	"path"
	"runtime/cgo"
	"strings"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/sirupsen/logrus"
)

var logger = logrus.StandardLogger()

// SetLogger replaces the package logger. The default is the logrus standard
// logger.
func SetLogger(l *logrus.Logger) {
	logger = l
}

// LoadResult is the host's answer to a resource load request.
type LoadResult int32

const (
	// LoadOK lets the engine proceed with its own loading.
	LoadOK LoadResult = 0
	// LoadDiscard cancels the request.
	LoadDiscard LoadResult = 1
	// LoadDelayed promises data later via DataReadyAsync.
	LoadDelayed LoadResult = 2
	// LoadMyself means the host takes over the request entirely.
	LoadMyself LoadResult = 3
)

// Host notification codes.
const (
	scLoadData                = 0x01
	scDataLoaded              = 0x02
	scAttachBehavior          = 0x04
	scEngineDestroyed         = 0x05
	scGraphicsCriticalFailure = 0x07
)

// OutputSubsystem tells which engine subsystem produced a debug message.
type OutputSubsystem uint32

const (
	OutputDOM  OutputSubsystem = 0
	OutputCSSS OutputSubsystem = 1
	OutputCSS  OutputSubsystem = 2
	OutputTIS  OutputSubsystem = 3
)

// OutputSeverity is the level of an engine debug message.
type OutputSeverity uint32

const (
	OutputInfo    OutputSeverity = 0
	OutputWarning OutputSeverity = 1
	OutputError   OutputSeverity = 2
)

// Notification payload layouts.

type loadDataParams struct {
	code        uint32
	hwnd        uintptr
	uri         uintptr
	outData     uintptr
	outDataSize uint32
	dataType    uint32
	requestID   uintptr
	principal   HELEMENT
	initiator   HELEMENT
}

type dataLoadedParams struct {
	code     uint32
	hwnd     uintptr
	uri      uintptr
	data     uintptr
	dataSize uint32
	dataType uint32
	status   uint32
}

type attachBehaviorParams struct {
	code         uint32
	hwnd         uintptr
	element      HELEMENT
	behaviorName uintptr
	elementProc  uintptr
	elementTag   uintptr
}

// LoadData describes a resource the engine wants to load.
type LoadData struct {
	URI       string
	DataType  uint32
	RequestID uintptr
	Principal HELEMENT
	Initiator HELEMENT
}

// DataLoaded describes a finished resource download.
type DataLoaded struct {
	URI      string
	Data     []byte
	DataType uint32
	Status   uint32
}

// HostHandler receives window-level engine notifications. Embed BaseHost and
// override what you need.
type HostHandler interface {
	// OnDataLoad is called when the engine requests a resource. Return
	// LoadOK to let the engine load it, or serve it yourself with
	// Host.DataReady and return LoadOK/LoadMyself.
	OnDataLoad(ld *LoadData) LoadResult
	// OnDataLoaded is called when a resource download completes.
	OnDataLoaded(dl *DataLoaded)
	// OnAttachBehavior resolves behaviors not found in the host registry.
	OnAttachBehavior(name string, el HELEMENT) (EventHandler, bool)
	// OnEngineDestroyed is called when the engine instance of this window
	// goes away. No engine calls may be made for the window afterwards.
	OnEngineDestroyed()
	// OnGraphicsCriticalFailure signals a lost graphics backend.
	OnGraphicsCriticalFailure()
	// OnDebugOutput receives engine console output.
	OnDebugOutput(subsystem OutputSubsystem, severity OutputSeverity, message string)
}

// BaseHost is a HostHandler with sane defaults: loads proceed untouched and
// debug output goes to the package logger.
type BaseHost struct{}

func (BaseHost) OnDataLoad(*LoadData) LoadResult { return LoadOK }
func (BaseHost) OnDataLoaded(*DataLoaded)        {}
func (BaseHost) OnAttachBehavior(string, HELEMENT) (EventHandler, bool) {
	return nil, false
}
func (BaseHost) OnEngineDestroyed()         {}
func (BaseHost) OnGraphicsCriticalFailure() {}
func (BaseHost) OnDebugOutput(subsystem OutputSubsystem, severity OutputSeverity, message string) {
	logDebugOutput(subsystem, severity, message)
}

func logDebugOutput(subsystem OutputSubsystem, severity OutputSeverity, message string) {
	entry := logger.WithField("subsystem", uint32(subsystem))
	switch severity {
	case OutputError:
		entry.Error(message)
	case OutputWarning:
		entry.Warn(message)
	default:
		entry.Debug(message)
	}
}

type behaviorEntry struct {
	name    string
	factory func() EventHandler
}

// Host binds one engine window: it owns the notification callback, the debug
// output sink and the behavior factory registry.
//
// All methods must be called on the engine thread unless noted otherwise.
type Host struct {
	hwnd      uintptr
	handler   HostHandler
	behaviors []behaviorEntry
	resources func(uri string) ([]byte, bool)
	self      cgo.Handle
	destroyed bool
}

var (
	hostNotifyProc = purego.NewCallback(hostNotifyTrampoline)
	debugProc      = purego.NewCallback(debugOutputTrampoline)
)

// Attach binds a Host to a native window that the engine renders into, loading
// the engine library first if needed.
func Attach(hwnd uintptr, opts *Options) (*Host, error) {
	if err := initEngine(opts); err != nil {
		return nil, err
	}
	if hwnd == 0 {
		return nil, fmt.Errorf("sciter: attach to null window")
	}
	host := &Host{hwnd: hwnd}
	host.self = cgo.NewHandle(host)
	sciterSetCallback(hwnd, hostNotifyProc, uintptr(host.self))
	sciterSetupDebugOutput(hwnd, uintptr(host.self), debugProc)
	return host, nil
}

// SetHandler installs the notification handler. Pass nil to fall back to the
// defaults (equivalent to BaseHost).
func (h *Host) SetHandler(handler HostHandler) {
	h.handler = handler
}

// SetArchive serves this://app/ resource requests from a packed archive.
func (h *Host) SetArchive(ar *Archive) {
	h.resources = ar.Get
}

// SetResourceFS serves this://app/ resource requests from a file system,
// typically an embed.FS with the UI assets.
func (h *Host) SetResourceFS(fsys fs.FS) {
	h.resources = func(uri string) ([]byte, bool) {
		p := strings.TrimPrefix(uri, "this://app/")
		p = strings.TrimPrefix(p, "//")
		p = path.Clean(strings.TrimLeft(strings.ReplaceAll(p, "\\", "/"), "/"))
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, false
		}
		return data, true
	}
}

// RegisterBehavior adds a factory for behavior instances requested by CSS
// prototype declarations. Registration order is precedence order: the first
// matching name wins. A request for an unregistered name is not an error.
func (h *Host) RegisterBehavior(name string, factory func() EventHandler) {
	h.behaviors = append(h.behaviors, behaviorEntry{name: name, factory: factory})
}

func (h *Host) lookupBehavior(name string) func() EventHandler {
	entries := h.behaviors
	for i := range entries {
		if entries[i].name == name {
			return entries[i].factory
		}
	}
	return nil
}

// AttachHandler subscribes a window-level event handler. The handler stays
// attached until the window is destroyed.
func (h *Host) AttachHandler(handler EventHandler) error {
	wh := &windowHandler{hwnd: h.hwnd, handler: handler}
	tag := cgo.NewHandle(wh)
	rc := sciterWindowAttachHandler(h.hwnd, windowEventProc, uintptr(tag), uint32(HandleAll))
	if err := domOK("attach window handler", rc); err != nil {
		tag.Delete()
		return err
	}
	return nil
}

func hostNotifyTrampoline(params, param uintptr) uintptr {
	if params == 0 || param == 0 {
		return 0
	}
	host := cgo.Handle(param).Value().(*Host)
	code := *(*uint32)(unsafe.Pointer(params))
	switch code {
	case scLoadData:
		return uintptr(host.handleLoadData((*loadDataParams)(unsafe.Pointer(params))))
	case scDataLoaded:
		host.handleDataLoaded((*dataLoadedParams)(unsafe.Pointer(params)))
	case scAttachBehavior:
		return host.handleAttachBehavior((*attachBehaviorParams)(unsafe.Pointer(params)))
	case scEngineDestroyed:
		if host.handler != nil {
			host.handler.OnEngineDestroyed()
		}
		if !host.destroyed {
			host.destroyed = true
			host.self.Delete()
		}
	case scGraphicsCriticalFailure:
		logger.Error("engine graphics backend failure")
		if host.handler != nil {
			host.handler.OnGraphicsCriticalFailure()
		}
	}
	return 0
}

func (h *Host) handleLoadData(p *loadDataParams) LoadResult {
	ld := &LoadData{
		URI:       decodeWZ(p.uri),
		DataType:  p.dataType,
		RequestID: p.requestID,
		Principal: p.principal,
		Initiator: p.initiator,
	}
	if h.handler != nil {
		if r := h.handler.OnDataLoad(ld); r != LoadOK {
			return r
		}
	}
	if h.resources != nil {
		if data, found := h.resources(ld.URI); found {
			h.DataReady(ld.URI, data)
		}
	}
	return LoadOK
}

func (h *Host) handleDataLoaded(p *dataLoadedParams) {
	if h.handler == nil {
		return
	}
	h.handler.OnDataLoaded(&DataLoaded{
		URI:      decodeWZ(p.uri),
		Data:     copyBytes(p.data, int(p.dataSize)),
		DataType: p.dataType,
		Status:   p.status,
	})
}

func (h *Host) handleAttachBehavior(p *attachBehaviorParams) uintptr {
	name := decodeUZ(p.behaviorName)
	var handler EventHandler
	if factory := h.lookupBehavior(name); factory != nil {
		handler = factory()
	} else if h.handler != nil {
		if hh, ok := h.handler.OnAttachBehavior(name, p.element); ok {
			handler = hh
		}
	}
	if handler == nil {
		return 0
	}
	box := &boxedHandler{handler: handler}
	p.elementProc = behaviorEventProc
	p.elementTag = uintptr(cgo.NewHandle(box))
	return 1
}

func debugOutputTrampoline(param, subsystem, severity, text, textLength uintptr) uintptr {
	msg := decodeW(text, int(textLength))
	if param != 0 {
		host := cgo.Handle(param).Value().(*Host)
		if host.handler != nil {
			host.handler.OnDebugOutput(OutputSubsystem(subsystem), OutputSeverity(severity), msg)
			return 0
		}
	}
	logDebugOutput(OutputSubsystem(subsystem), OutputSeverity(severity), msg)
	return 0
}

// Hwnd returns the native window the host is bound to.
func (h *Host) Hwnd() uintptr {
	return h.hwnd
}

// LoadFile loads a document from a URI (file://, http://, this://app/, ...).
func (h *Host) LoadFile(uri string) error {
	buf, _ := wstr(uri)
	if sciterLoadFile(h.hwnd, wptr(buf)) == 0 {
		return fmt.Errorf("sciter: failed to load %q", uri)
	}
	return nil
}

// LoadHtml loads a document from memory. baseURL resolves relative
// references inside the document and may be empty.
func (h *Host) LoadHtml(html, baseURL string) error {
	data := []byte(html)
	var base uintptr
	if baseURL != "" {
		buf, _ := wstr(baseURL)
		base = wptr(buf)
	}
	if sciterLoadHtml(h.hwnd, bptr(data), uint32(len(data)), base) == 0 {
		return fmt.Errorf("sciter: failed to load html document")
	}
	return nil
}

// DataReady hands requested resource data to the engine.
func (h *Host) DataReady(uri string, data []byte) bool {
	buf, _ := wstr(uri)
	return sciterDataReady(h.hwnd, wptr(buf), bptr(data), uint32(len(data))) != 0
}

// DataReadyAsync completes a delayed load request. requestID must be the one
// received in the corresponding LoadData.
func (h *Host) DataReadyAsync(uri string, data []byte, requestID uintptr) bool {
	buf, _ := wstr(uri)
	return sciterDataReadyAsync(h.hwnd, wptr(buf), bptr(data), uint32(len(data)), requestID) != 0
}

// Eval executes script source in the context of the current document.
func (h *Host) Eval(script string) (Value, error) {
	buf, n := wstr(script)
	var ret Value
	if sciterEval(h.hwnd, wptr(buf), n, &ret.raw) == 0 {
		return ret, fmt.Errorf("sciter: eval failed")
	}
	return ret, nil
}

// CallFunction invokes a global script function by name.
func (h *Host) CallFunction(name string, args ...Value) (Value, error) {
	nameBuf := ustr(name)
	packed := packArgs(args)
	var ret Value
	if sciterCall(h.hwnd, uptr(nameBuf), uint32(len(packed)), argvPtr(packed), &ret.raw) == 0 {
		return ret, fmt.Errorf("sciter: no script function %q", name)
	}
	return ret, nil
}

// Root returns the document root element.
func (h *Host) Root() (*Element, error) {
	var he HELEMENT
	if err := domOK("get root element", sciterGetRootElement(h.hwnd, &he)); err != nil {
		return nil, err
	}
	return elementAdopt(he), nil
}

// SetCSS replaces the document styles of this window.
func (h *Host) SetCSS(css, baseURL, mediaType string) error {
	data := []byte(css)
	var base, media uintptr
	if baseURL != "" {
		buf, _ := wstr(baseURL)
		base = wptr(buf)
	}
	if mediaType != "" {
		buf, _ := wstr(mediaType)
		media = wptr(buf)
	}
	if sciterSetCSS(h.hwnd, bptr(data), uint32(len(data)), base, media) == 0 {
		return fmt.Errorf("sciter: failed to set css")
	}
	return nil
}

// SetMediaType sets the media type used for CSS @media matching.
func (h *Host) SetMediaType(mediaType string) error {
	buf, _ := wstr(mediaType)
	if sciterSetMediaType(h.hwnd, wptr(buf)) == 0 {
		return fmt.Errorf("sciter: failed to set media type")
	}
	return nil
}

// SetMediaVars sets custom media variables, a map value of name to value.
func (h *Host) SetMediaVars(vars Value) error {
	if sciterSetMediaVars(h.hwnd, uintptr(unsafe.Pointer(&vars.raw))) == 0 {
		return fmt.Errorf("sciter: failed to set media vars")
	}
	return nil
}

// SetHomeURL sets the base URL for engine-relative references.
func (h *Host) SetHomeURL(baseURL string) error {
	buf, _ := wstr(baseURL)
	if sciterSetHomeURL(h.hwnd, wptr(buf)) == 0 {
		return fmt.Errorf("sciter: failed to set home url")
	}
	return nil
}

// EnableDebug switches the window into debug mode (inspector support).
// Must be called before documents are loaded.
func (h *Host) EnableDebug(enabled bool) {
	var v uintptr
	if enabled {
		v = 1
	}
	sciterSetOption(h.hwnd, optionDebugMode, v)
}

// SetMasterCSS replaces the engine-wide master stylesheet.
func SetMasterCSS(css string, opts *Options) error {
	if err := initEngine(opts); err != nil {
		return err
	}
	data := []byte(css)
	if sciterSetMasterCSS(bptr(data), uint32(len(data))) == 0 {
		return fmt.Errorf("sciter: failed to set master css")
	}
	return nil
}

// AppendMasterCSS appends to the engine-wide master stylesheet.
func AppendMasterCSS(css string, opts *Options) error {
	if err := initEngine(opts); err != nil {
		return err
	}
	data := []byte(css)
	if sciterAppendMasterCSS(bptr(data), uint32(len(data))) == 0 {
		return fmt.Errorf("sciter: failed to append master css")
	}
	return nil
}
