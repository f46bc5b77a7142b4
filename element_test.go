// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package sciter

import (
	"runtime/cgo"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// refCounter tracks engine use/unuse calls per handle.
type refCounter struct {
	counts map[HELEMENT]int
}

func stubElementRefs(t *testing.T) *refCounter {
	t.Helper()
	rc := &refCounter{counts: map[HELEMENT]int{}}
	swap(t, &sciterUseElement, func(he HELEMENT) int32 {
		rc.counts[he]++
		return 0
	})
	swap(t, &sciterUnuseElement, func(he HELEMENT) int32 {
		rc.counts[he]--
		return 0
	})
	return rc
}

func TestElementFromTakesReference(t *testing.T) {
	rc := stubElementRefs(t)

	e := ElementFrom(7)
	require.NotNil(t, e)
	assert.Equal(t, 1, rc.counts[7])

	e.Release()
	assert.Equal(t, 0, rc.counts[7])
	assert.Equal(t, HELEMENT(0), e.Handle())
}

func TestElementReleaseIsIdempotent(t *testing.T) {
	rc := stubElementRefs(t)

	e := ElementFrom(7)
	e.Release()
	e.Release()
	e.Release()
	assert.Equal(t, 0, rc.counts[7], "exactly one unuse per use")
}

func TestElementFromNullIsNil(t *testing.T) {
	stubElementRefs(t)
	assert.Nil(t, ElementFrom(0))
}

func TestElementCloneAddsReference(t *testing.T) {
	rc := stubElementRefs(t)

	e := ElementFrom(7)
	c := e.Clone()
	assert.Equal(t, 2, rc.counts[7])

	e.Release()
	assert.Equal(t, 1, rc.counts[7])
	assert.Equal(t, HELEMENT(7), c.Handle(), "clone survives original release")

	c.Release()
	assert.Equal(t, 0, rc.counts[7])
}

func TestFactoryResultOwnsExistingReference(t *testing.T) {
	rc := stubElementRefs(t)
	swap(t, &sciterCreateElement, func(tag, text uintptr, out *HELEMENT) int32 {
		assert.Equal(t, "div", decodeUZ(tag))
		*out = 11
		return 0
	})

	e, err := CreateElement("div", "")
	require.NoError(t, err)
	assert.Equal(t, 0, rc.counts[11], "no extra use on factory result")

	e.Release()
	assert.Equal(t, -1, rc.counts[11], "factory reference returned to the engine")
}

func TestLookupResultsAdopt(t *testing.T) {
	rc := stubElementRefs(t)
	swap(t, &sciterGetRootElement, func(hwnd uintptr, out *HELEMENT) int32 {
		*out = 21
		return 0
	})

	root, err := ElementFromWindow(0xFEED)
	require.NoError(t, err)
	assert.Equal(t, 1, rc.counts[21])
	root.Release()
	assert.Equal(t, 0, rc.counts[21])
}

func TestElementTextViaCallback(t *testing.T) {
	stubElementRefs(t)
	swap(t, &sciterGetElementTextCB, func(he HELEMENT, proc, param uintptr) int32 {
		*(cgo.Handle(param).Value().(*string)) = "hello"
		return 0
	})

	e := ElementFrom(3)
	text, err := e.Text()
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestElementTextMissingIsEmpty(t *testing.T) {
	stubElementRefs(t)
	swap(t, &sciterGetElementTextCB, func(he HELEMENT, proc, param uintptr) int32 {
		return int32(DOMOKNotHandled)
	})

	e := ElementFrom(3)
	text, err := e.Text()
	require.NoError(t, err, "OK_NOT_HANDLED is not an error for optional data")
	assert.Equal(t, "", text)
}

func TestElementAttributeAbsent(t *testing.T) {
	stubElementRefs(t)
	swap(t, &sciterGetAttributeByNameCB, func(he HELEMENT, name, proc, param uintptr) int32 {
		return int32(DOMOKNotHandled)
	})

	e := ElementFrom(3)
	_, ok, err := e.Attribute("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestElementErrorCarriesResult(t *testing.T) {
	stubElementRefs(t)
	swap(t, &sciterSetElementText, func(he HELEMENT, text uintptr, n uint32) int32 {
		return int32(DOMPassiveHandle)
	})

	e := ElementFrom(3)
	err := e.SetText("x")
	var domErr *DOMError
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, DOMPassiveHandle, domErr.Result)
	assert.Contains(t, err.Error(), "PASSIVE_HANDLE")
}

func TestFindFirstAdoptsHit(t *testing.T) {
	rc := stubElementRefs(t)
	swap(t, &sciterSelectElements, func(he HELEMENT, selector, proc, param uintptr) int32 {
		sel := cgo.Handle(param).Value().(*selection)
		sel.hits = append(sel.hits, 31)
		return 0
	})

	e := ElementFrom(3)
	hit, err := e.FindFirst("div.item")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, HELEMENT(31), hit.Handle())
	assert.Equal(t, 1, rc.counts[31])
}

func TestFindFirstNoMatch(t *testing.T) {
	stubElementRefs(t)
	swap(t, &sciterSelectElements, func(he HELEMENT, selector, proc, param uintptr) int32 {
		return 0
	})

	e := ElementFrom(3)
	hit, err := e.FindFirst("div.item")
	require.NoError(t, err)
	assert.Nil(t, hit, "no match is not an error")
}

func TestAttachHandlerReleasesTagOnFailure(t *testing.T) {
	stubElementRefs(t)
	swap(t, &sciterAttachEventHandler, func(he HELEMENT, proc, tag uintptr) int32 {
		return int32(DOMInvalidHandle)
	})

	e := ElementFrom(3)
	token, err := e.AttachHandler(&recorder{})
	require.Error(t, err)
	assert.Equal(t, HandlerToken(0), token)
}

func TestAttachHandlerToken(t *testing.T) {
	stubElementRefs(t)
	var gotProc, gotTag uintptr
	swap(t, &sciterAttachEventHandler, func(he HELEMENT, proc, tag uintptr) int32 {
		gotProc, gotTag = proc, tag
		return 0
	})

	e := ElementFrom(3)
	r := &recorder{}
	token, err := e.AttachHandler(r)
	require.NoError(t, err)
	assert.Equal(t, elementEventProc, gotProc)
	assert.Equal(t, uintptr(token), gotTag)

	// The tag resolves back to the handler until detach reclaims it.
	assert.Same(t, EventHandler(r), cgo.Handle(token).Value().(EventHandler))
	cgo.Handle(token).Delete()
}
