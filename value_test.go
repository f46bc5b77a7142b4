// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package sciter

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueScalars(t *testing.T) {
	stubValueOps(t)

	v := IntValue(-42)
	n, ok := v.Int()
	require.True(t, ok)
	assert.Equal(t, -42, n)
	_, ok = v.Float()
	assert.False(t, ok, "int must not read as float")

	f := FloatValue(3.25)
	x, ok := f.Float()
	require.True(t, ok)
	assert.Equal(t, 3.25, x)

	b := BoolValue(true)
	bv, ok := b.Bool()
	require.True(t, ok)
	assert.True(t, bv)

	assert.True(t, NewValue().IsUndefined())
	assert.True(t, NullValue().IsNull())
	assert.False(t, NullValue().IsUndefined())
}

func TestValueReleaseResets(t *testing.T) {
	stubValueOps(t)

	v := IntValue(7)
	require.False(t, v.IsUndefined())
	v.Release()
	assert.True(t, v.IsUndefined())
	v.Release() // second release is a no-op
	assert.True(t, v.IsUndefined())
}

func TestValueCloneIsIndependent(t *testing.T) {
	stubValueOps(t)

	v := IntValue(9)
	c := v.Clone()
	v.Release()
	n, ok := c.Int()
	require.True(t, ok)
	assert.Equal(t, 9, n)
}

func TestUnpackArgsCopies(t *testing.T) {
	stubValueOps(t)

	src := []rawValue{
		{t: valueInt, d: 1},
		{t: valueInt, d: 2},
		{t: valueInt, d: 3},
	}
	args := unpackArgs(uintptr(unsafe.Pointer(&src[0])), uint32(len(src)))
	require.Len(t, args, 3)

	// Mutating the foreign array must not affect the unpacked copies.
	src[1].d = 99
	n, ok := args[1].Int()
	require.True(t, ok)
	assert.Equal(t, 2, n)

	assert.Nil(t, unpackArgs(0, 3))
	assert.Nil(t, unpackArgs(uintptr(unsafe.Pointer(&src[0])), 0))
}

func TestPackArgsLayout(t *testing.T) {
	stubValueOps(t)

	args := []Value{IntValue(1), IntValue(2)}
	packed := packArgs(args)
	require.Len(t, packed, 2)
	assert.Equal(t, uint64(1), packed[0].d)
	assert.Equal(t, uint64(2), packed[1].d)
	assert.NotNil(t, argvPtr(packed))
	assert.Nil(t, argvPtr(nil))
}

func TestWideStringRoundTrip(t *testing.T) {
	buf, n := wstr("héllo ✓")
	assert.Equal(t, uint32(7), n)
	assert.Equal(t, uint16(0), buf[len(buf)-1], "terminator")
	assert.Equal(t, "héllo ✓", decodeW(wptr(buf), int(n)))
	assert.Equal(t, "héllo ✓", decodeWZ(wptr(buf)))
}

func TestUTF8StringRoundTrip(t *testing.T) {
	buf := ustr("behavior-name")
	assert.Equal(t, byte(0), buf[len(buf)-1])
	assert.Equal(t, "behavior-name", decodeUZ(uptr(buf)))
	assert.Equal(t, "beh", decodeU(uptr(buf), 3))
}
