// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package sciter

import (
	"fmt"
	"runtime/cgo"
	"strings"

	"github.com/ebitengine/purego"
)

// Element is an owned reference to a DOM element. The engine refcounts
// element handles; every Element holds one reference and must be released
// with Release when no longer needed. A released Element is inert.
type Element struct {
	he HELEMENT
}

// ElementFrom wraps a foreign element handle, taking a new reference on it.
// Use this for handles received in event callbacks.
func ElementFrom(he HELEMENT) *Element {
	return elementAdopt(he)
}

// elementAdopt wraps a handle the caller does not own a reference to.
func elementAdopt(he HELEMENT) *Element {
	if he == 0 {
		return nil
	}
	sciterUseElement(he)
	return &Element{he: he}
}

// elementFromRaw wraps a handle whose reference already belongs to us
// (factory results).
func elementFromRaw(he HELEMENT) *Element {
	if he == 0 {
		return nil
	}
	return &Element{he: he}
}

// CreateElement makes a detached element with the given tag and optional text.
// It belongs to the caller until inserted into a document.
func CreateElement(tag, text string) (*Element, error) {
	tagBuf := ustr(tag)
	var textPtr uintptr
	if text != "" {
		buf, _ := wstr(text)
		textPtr = wptr(buf)
	}
	var he HELEMENT
	if err := domOK("create element", sciterCreateElement(uptr(tagBuf), textPtr, &he)); err != nil {
		return nil, err
	}
	return elementFromRaw(he), nil
}

// ElementFromWindow returns the root element of the window's document.
func ElementFromWindow(hwnd uintptr) (*Element, error) {
	var he HELEMENT
	if err := domOK("get root element", sciterGetRootElement(hwnd, &he)); err != nil {
		return nil, err
	}
	return elementAdopt(he), nil
}

// ElementFromFocus returns the element owning the keyboard focus, or nil.
func ElementFromFocus(hwnd uintptr) (*Element, error) {
	var he HELEMENT
	if err := domOK("get focus element", sciterGetFocusElement(hwnd, &he)); err != nil {
		return nil, err
	}
	return elementAdopt(he), nil
}

// ElementFromPoint returns the topmost element at a window point, or nil.
func ElementFromPoint(hwnd uintptr, pt Point) (*Element, error) {
	var he HELEMENT
	if err := domOK("find element", sciterFindElement(hwnd, pt, &he)); err != nil {
		return nil, err
	}
	return elementAdopt(he), nil
}

// ElementFromUID resolves a previously captured element UID, or nil if the
// element is gone.
func ElementFromUID(hwnd uintptr, uid uint32) (*Element, error) {
	var he HELEMENT
	if err := domOK("get element by uid", sciterGetElementByUID(hwnd, uid, &he)); err != nil {
		return nil, err
	}
	return elementAdopt(he), nil
}

// Handle returns the raw element handle without transferring ownership.
func (e *Element) Handle() HELEMENT {
	return e.he
}

// Release drops this reference. Safe to call more than once.
func (e *Element) Release() {
	if e.he != 0 {
		sciterUnuseElement(e.he)
		e.he = 0
	}
}

// Clone returns a second owned reference to the same element.
func (e *Element) Clone() *Element {
	return elementAdopt(e.he)
}

// CloneElement makes a deep copy of the element subtree. The copy is
// detached and belongs to the caller.
func (e *Element) CloneElement() (*Element, error) {
	var he HELEMENT
	if err := domOK("clone element", sciterCloneElement(e.he, &he)); err != nil {
		return nil, err
	}
	return elementFromRaw(he), nil
}

// UID returns a stable identifier for the element, resolvable later via
// ElementFromUID even across wrapper lifetimes.
func (e *Element) UID() (uint32, error) {
	var uid uint32
	return uid, domOK("get element uid", sciterGetElementUID(e.he, &uid))
}

// String receivers: the engine hands strings out through callbacks; one
// process-wide trampoline per encoding, with the destination carried as a
// cgo.Handle.
var (
	storeWideProc = purego.NewCallback(func(str, n, param uintptr) uintptr {
		if param != 0 {
			*(cgo.Handle(param).Value().(*string)) = decodeW(str, int(n))
		}
		return 0
	})
	storeAnsiProc = purego.NewCallback(func(str, n, param uintptr) uintptr {
		if param != 0 {
			*(cgo.Handle(param).Value().(*string)) = decodeU(str, int(n))
		}
		return 0
	})
	storeBytesProc = purego.NewCallback(func(str, n, param uintptr) uintptr {
		if param != 0 {
			*(cgo.Handle(param).Value().(*[]byte)) = copyBytes(str, int(n))
		}
		return 0
	})
)

// Tag returns the element's tag name, lowercase.
func (e *Element) Tag() (string, error) {
	var out string
	h := cgo.NewHandle(&out)
	defer h.Delete()
	return out, domOK("get tag", sciterGetElementTypeCB(e.he, storeAnsiProc, uintptr(h)))
}

// Text returns the element's text content.
func (e *Element) Text() (string, error) {
	var out string
	h := cgo.NewHandle(&out)
	defer h.Delete()
	rc := sciterGetElementTextCB(e.he, storeWideProc, uintptr(h))
	return out, domOKIgnoring("get text", rc, DOMOKNotHandled)
}

// SetText replaces the element's text content.
func (e *Element) SetText(text string) error {
	buf, n := wstr(text)
	return domOK("set text", sciterSetElementText(e.he, wptr(buf), n))
}

// Html returns the element markup, with or without the element itself.
func (e *Element) Html(outer bool) ([]byte, error) {
	var out []byte
	h := cgo.NewHandle(&out)
	defer h.Delete()
	flag := int32(0)
	if outer {
		flag = 1
	}
	rc := sciterGetElementHtmlCB(e.he, flag, storeBytesProc, uintptr(h))
	return out, domOKIgnoring("get html", rc, DOMOKNotHandled)
}

// How markup is placed by SetHtml.
type SetHtmlHow uint32

const (
	ReplaceContent      SetHtmlHow = 0
	InsertAtStart       SetHtmlHow = 1
	AppendAfterLast     SetHtmlHow = 2
	ReplaceElement      SetHtmlHow = 3
	InsertBeforeElement SetHtmlHow = 4
	InsertAfterElement  SetHtmlHow = 5
)

// SetHtml places UTF-8 markup relative to the element.
func (e *Element) SetHtml(html string, how SetHtmlHow) error {
	data := []byte(html)
	return domOK("set html", sciterSetElementHtml(e.he, bptr(data), uint32(len(data)), uint32(how)))
}

// AttributeCount returns the number of attributes.
func (e *Element) AttributeCount() (int, error) {
	var n uint32
	err := domOK("get attribute count", sciterGetAttributeCount(e.he, &n))
	return int(n), err
}

// NthAttribute returns the name and value of the n-th attribute.
func (e *Element) NthAttribute(n int) (name, value string, err error) {
	hName := cgo.NewHandle(&name)
	defer hName.Delete()
	if err = domOK("get attribute name", sciterGetNthAttributeNameCB(e.he, uint32(n), storeAnsiProc, uintptr(hName))); err != nil {
		return
	}
	hValue := cgo.NewHandle(&value)
	defer hValue.Delete()
	err = domOK("get attribute value", sciterGetNthAttributeValueCB(e.he, uint32(n), storeWideProc, uintptr(hValue)))
	return
}

// Attribute returns the attribute value by name; ok is false if absent.
func (e *Element) Attribute(name string) (value string, ok bool, err error) {
	nameBuf := ustr(name)
	h := cgo.NewHandle(&value)
	defer h.Delete()
	rc := sciterGetAttributeByNameCB(e.he, uptr(nameBuf), storeWideProc, uintptr(h))
	if DOMResult(rc) == DOMOKNotHandled {
		return "", false, nil
	}
	if err = domOK("get attribute", rc); err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetAttribute sets an attribute value.
func (e *Element) SetAttribute(name, value string) error {
	nameBuf := ustr(name)
	buf, _ := wstr(value)
	return domOK("set attribute", sciterSetAttributeByName(e.he, uptr(nameBuf), wptr(buf)))
}

// RemoveAttribute deletes an attribute.
func (e *Element) RemoveAttribute(name string) error {
	nameBuf := ustr(name)
	return domOK("remove attribute", sciterSetAttributeByName(e.he, uptr(nameBuf), 0))
}

// ClearAttributes deletes all attributes.
func (e *Element) ClearAttributes() error {
	return domOK("clear attributes", sciterClearAttributes(e.he))
}

// StyleAttribute returns a resolved style property by CSS name.
func (e *Element) StyleAttribute(name string) (string, error) {
	nameBuf := ustr(name)
	var out string
	h := cgo.NewHandle(&out)
	defer h.Delete()
	rc := sciterGetStyleAttributeCB(e.he, uptr(nameBuf), storeWideProc, uintptr(h))
	return out, domOKIgnoring("get style attribute", rc, DOMOKNotHandled)
}

// SetStyleAttribute sets an inline style property by CSS name.
func (e *Element) SetStyleAttribute(name, value string) error {
	nameBuf := ustr(name)
	buf, _ := wstr(value)
	return domOK("set style attribute", sciterSetStyleAttribute(e.he, uptr(nameBuf), wptr(buf)))
}

// Index returns the element's position among its siblings.
func (e *Element) Index() (int, error) {
	var n uint32
	err := domOK("get element index", sciterGetElementIndex(e.he, &n))
	return int(n), err
}

// Parent returns the parent element, or nil at the root.
func (e *Element) Parent() (*Element, error) {
	var he HELEMENT
	if err := domOK("get parent", sciterGetParentElement(e.he, &he)); err != nil {
		return nil, err
	}
	return elementAdopt(he), nil
}

// ChildCount returns the number of child elements.
func (e *Element) ChildCount() (int, error) {
	var n uint32
	err := domOK("get children count", sciterGetChildrenCount(e.he, &n))
	return int(n), err
}

// Child returns the n-th child element.
func (e *Element) Child(n int) (*Element, error) {
	var he HELEMENT
	if err := domOK("get child", sciterGetNthChild(e.he, uint32(n), &he)); err != nil {
		return nil, err
	}
	return elementAdopt(he), nil
}

// NextSibling returns the element after this one in its parent, or nil.
func (e *Element) NextSibling() (*Element, error) {
	return e.sibling(1)
}

// PrevSibling returns the element before this one in its parent, or nil.
func (e *Element) PrevSibling() (*Element, error) {
	return e.sibling(-1)
}

func (e *Element) sibling(offset int) (*Element, error) {
	idx, err := e.Index()
	if err != nil {
		return nil, err
	}
	parent, err := e.Parent()
	if err != nil || parent == nil {
		return nil, err
	}
	defer parent.Release()
	n, err := parent.ChildCount()
	if err != nil {
		return nil, err
	}
	at := idx + offset
	if at < 0 || at >= n {
		return nil, nil
	}
	return parent.Child(at)
}

// FirstChild returns the first child element, or nil.
func (e *Element) FirstChild() (*Element, error) {
	n, err := e.ChildCount()
	if err != nil || n == 0 {
		return nil, err
	}
	return e.Child(0)
}

// LastChild returns the last child element, or nil.
func (e *Element) LastChild() (*Element, error) {
	n, err := e.ChildCount()
	if err != nil || n == 0 {
		return nil, err
	}
	return e.Child(n - 1)
}

// Insert places child at the given index among this element's children.
func (e *Element) Insert(child *Element, index int) error {
	return domOK("insert element", sciterInsertElement(child.he, e.he, uint32(index)))
}

// Append places child after the last existing child.
func (e *Element) Append(child *Element) error {
	n, err := e.ChildCount()
	if err != nil {
		return err
	}
	return e.Insert(child, n)
}

// Detach removes the element from its parent, keeping it alive for reuse.
func (e *Element) Detach() error {
	return domOK("detach element", sciterDetachElement(e.he))
}

// Destroy removes the element from the document and deletes it. The wrapper
// reference is dropped as well.
func (e *Element) Destroy() error {
	err := domOK("delete element", sciterDeleteElement(e.he))
	e.Release()
	return err
}

// Swap exchanges the document positions of two elements.
func (e *Element) Swap(other *Element) error {
	return domOK("swap elements", sciterSwapElements(e.he, other.he))
}

// selection receives select-callback hits.
type selection struct {
	hits      []HELEMENT
	firstOnly bool
}

var selectProc = purego.NewCallback(func(he, param uintptr) uintptr {
	sel := cgo.Handle(param).Value().(*selection)
	sel.hits = append(sel.hits, HELEMENT(he))
	if sel.firstOnly {
		return 1 // stop enumeration
	}
	return 0
})

func (e *Element) selectElements(selector string, firstOnly bool) ([]*Element, error) {
	sel := &selection{firstOnly: firstOnly}
	h := cgo.NewHandle(sel)
	defer h.Delete()
	buf, _ := wstr(selector)
	if err := domOK("select elements", sciterSelectElements(e.he, wptr(buf), selectProc, uintptr(h))); err != nil {
		return nil, err
	}
	out := make([]*Element, 0, len(sel.hits))
	for _, he := range sel.hits {
		out = append(out, elementAdopt(he))
	}
	return out, nil
}

// FindFirst returns the first descendant matching a CSS selector, or nil.
func (e *Element) FindFirst(selector string) (*Element, error) {
	hits, err := e.selectElements(selector, true)
	if err != nil || len(hits) == 0 {
		return nil, err
	}
	return hits[0], nil
}

// FindAll returns every descendant matching a CSS selector.
func (e *Element) FindAll(selector string) ([]*Element, error) {
	return e.selectElements(selector, false)
}

// FindNearestParent returns the closest ancestor (the element itself
// included) matching a CSS selector, or nil.
func (e *Element) FindNearestParent(selector string) (*Element, error) {
	buf, _ := wstr(selector)
	var he HELEMENT
	if err := domOK("select parent", sciterSelectParent(e.he, wptr(buf), 0, &he)); err != nil {
		return nil, err
	}
	return elementAdopt(he), nil
}

// Test reports whether the element itself matches a CSS selector.
func (e *Element) Test(selector string) (bool, error) {
	buf, _ := wstr(selector)
	var he HELEMENT
	if err := domOK("test selector", sciterSelectParent(e.he, wptr(buf), 1, &he)); err != nil {
		return false, err
	}
	return he != 0, nil
}

// Update marks the element for re-layout and repaint. With renderNow the
// repaint happens before the call returns.
func (e *Element) Update(renderNow bool) error {
	flag := int32(0)
	if renderNow {
		flag = 1
	}
	return domOK("update element", sciterUpdateElement(e.he, flag))
}

// Hwnd returns the native window hosting the element. With forRoot the
// window of the whole document is returned rather than a nested one.
func (e *Element) Hwnd(forRoot bool) (uintptr, error) {
	flag := int32(0)
	if forRoot {
		flag = 1
	}
	var hwnd uintptr
	err := domOK("get element hwnd", sciterGetElementHwnd(e.he, &hwnd, flag))
	return hwnd, err
}

// StartTimer starts or restarts a periodic timer delivered to the element's
// handlers as OnTimer with the given id.
func (e *Element) StartTimer(periodMs uint32, timerID uint64) error {
	return domOK("set timer", sciterSetTimer(e.he, periodMs, uintptr(timerID)))
}

// StopTimer cancels the timer with the given id.
func (e *Element) StopTimer(timerID uint64) error {
	return domOK("stop timer", sciterSetTimer(e.he, 0, uintptr(timerID)))
}

// HandlerToken identifies one handler attachment, for DetachHandler.
type HandlerToken uintptr

// AttachHandler subscribes an event handler to this element. The handler
// stays attached until DetachHandler is called or the element is destroyed;
// either way Detached fires exactly once.
func (e *Element) AttachHandler(handler EventHandler) (HandlerToken, error) {
	tag := cgo.NewHandle(handler)
	if err := domOK("attach handler", sciterAttachEventHandler(e.he, elementEventProc, uintptr(tag))); err != nil {
		tag.Delete()
		return 0, err
	}
	return HandlerToken(tag), nil
}

// DetachHandler unsubscribes a handler attached with AttachHandler.
func (e *Element) DetachHandler(token HandlerToken) error {
	// The detach notification delivered during this call reclaims the
	// handler box.
	return domOK("detach handler", sciterDetachEventHandler(e.he, elementEventProc, uintptr(token)))
}

func (e *Element) fireEvent(code BehaviorEvent, reason ClickReason, source *Element, post bool, data Value) (bool, error) {
	src := e.he
	if source != nil {
		src = source.he
	}
	params := behaviorEventParams{
		Cmd:      uint32(code),
		HeTarget: e.he,
		He:       src,
		Reason:   uintptr(reason),
		Data:     data.raw,
	}
	postFlag := int32(0)
	if post {
		postFlag = 1
	}
	var handled int32
	if err := domOK("fire event", sciterFireEvent(&params, postFlag, &handled)); err != nil {
		return false, err
	}
	return handled != 0, nil
}

// SendEvent delivers an event to this element synchronously and reports
// whether some handler consumed it.
func (e *Element) SendEvent(code BehaviorEvent, reason ClickReason, source *Element) (bool, error) {
	return e.fireEvent(code, reason, source, false, Value{})
}

// PostEvent queues an event for asynchronous delivery to this element.
func (e *Element) PostEvent(code BehaviorEvent, reason ClickReason, source *Element) error {
	_, err := e.fireEvent(code, reason, source, true, Value{})
	return err
}

// SendEventWithData is SendEvent with an attached data value.
func (e *Element) SendEventWithData(code BehaviorEvent, reason ClickReason, source *Element, data Value) (bool, error) {
	return e.fireEvent(code, reason, source, false, data)
}

// Value returns the element's current value (its text, checked state,
// selection, ... depending on the element kind).
func (e *Element) Value() (Value, error) {
	var v Value
	err := domOK("get value", sciterGetValue(e.he, &v.raw))
	return v, err
}

// SetValue assigns the element's value.
func (e *Element) SetValue(v Value) error {
	return domOK("set value", sciterSetValue(e.he, &v.raw))
}

// EvalScript executes script source with `this` bound to the element's
// behavior namespace.
func (e *Element) EvalScript(script string) (Value, error) {
	buf, n := wstr(script)
	var ret Value
	err := domOKIgnoring("eval script", sciterEvalElementScript(e.he, wptr(buf), n, &ret.raw), DOMOperationFailed)
	return ret, err
}

// CallMethod invokes a method defined by the element's behavior script.
func (e *Element) CallMethod(name string, args ...Value) (Value, error) {
	nameBuf := ustr(name)
	packed := packArgs(args)
	var ret Value
	err := domOK("call method", sciterCallScriptingMethod(e.he, uptr(nameBuf), argvPtr(packed), uint32(len(packed)), &ret.raw))
	return ret, err
}

// CallFunction invokes a global script function in the element's document.
func (e *Element) CallFunction(name string, args ...Value) (Value, error) {
	nameBuf := ustr(name)
	packed := packArgs(args)
	var ret Value
	err := domOK("call function", sciterCallScriptingFunction(e.he, uptr(nameBuf), argvPtr(packed), uint32(len(packed)), &ret.raw))
	return ret, err
}

// String renders the element as tag#id.class|type(name), for logs.
func (e *Element) String() string {
	if e == nil || e.he == 0 {
		return "<nil>"
	}
	var sb strings.Builder
	tag, _ := e.Tag()
	sb.WriteString(tag)
	if id, ok, _ := e.Attribute("id"); ok {
		fmt.Fprintf(&sb, "#%s", id)
	}
	if class, ok, _ := e.Attribute("class"); ok {
		for _, c := range strings.Fields(class) {
			fmt.Fprintf(&sb, ".%s", c)
		}
	}
	if typ, ok, _ := e.Attribute("type"); ok {
		fmt.Fprintf(&sb, "|%s", typ)
	}
	if name, ok, _ := e.Attribute("name"); ok {
		fmt.Fprintf(&sb, "(%s)", name)
	}
	return sb.String()
}
