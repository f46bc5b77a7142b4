// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package sciter

import "unsafe"

// rawValue mirrors the engine's 16-byte VALUE cell exactly.
type rawValue struct {
	t uint32
	u uint32
	d uint64
}

// Value type discriminants used by the engine.
const (
	valueUndefined uint32 = 0
	valueNull      uint32 = 1
	valueBool      uint32 = 2
	valueInt       uint32 = 3
	valueFloat     uint32 = 4
	valueString    uint32 = 5
	valueArray     uint32 = 9
	valueMap       uint32 = 10
	valueBytes     uint32 = 12
)

// Value is the engine's dynamic value: the currency of script arguments,
// element values and fired-event payloads. The zero Value is undefined.
//
// A Value owns whatever the engine allocated for it (string/array/map data);
// call Release when done with values produced by this package. Values handed
// to the engine are copied on the way in, so the caller keeps ownership.
type Value struct {
	raw rawValue
}

// NewValue returns an undefined value.
func NewValue() Value {
	return Value{}
}

// NullValue returns the engine's null.
func NullValue() Value {
	return Value{raw: rawValue{t: valueNull}}
}

// BoolValue wraps a bool.
func BoolValue(v bool) Value {
	var val Value
	d := int32(0)
	if v {
		d = 1
	}
	valueIntDataSet(&val.raw, d, valueBool, 0)
	return val
}

// IntValue wraps an int.
func IntValue(v int) Value {
	var val Value
	valueIntDataSet(&val.raw, int32(v), valueInt, 0)
	return val
}

// FloatValue wraps a float64.
func FloatValue(v float64) Value {
	var val Value
	valueFloatDataSet(&val.raw, v, valueFloat, 0)
	return val
}

// StringValue wraps a string.
func StringValue(s string) Value {
	var val Value
	buf, n := wstr(s)
	valueStringDataSet(&val.raw, wptr(buf), n, 0)
	return val
}

// BytesValue wraps a byte slice.
func BytesValue(b []byte) Value {
	var val Value
	valueBinaryDataSet(&val.raw, bptr(b), uint32(len(b)), valueBytes, 0)
	return val
}

// Release frees engine-side data held by the value and resets it to undefined.
func (v *Value) Release() {
	valueClear(&v.raw)
	v.raw = rawValue{}
}

// Clone returns an independent copy of the value.
func (v Value) Clone() Value {
	var dst Value
	valueCopy(&dst.raw, &v.raw)
	return dst
}

// IsUndefined reports whether the value carries nothing.
func (v Value) IsUndefined() bool { return v.raw.t == valueUndefined }

// IsNull reports whether the value is the engine's null.
func (v Value) IsNull() bool { return v.raw.t == valueNull }

// IsString reports whether the value holds a string.
func (v Value) IsString() bool { return v.raw.t == valueString }

// Bool returns the boolean payload.
func (v Value) Bool() (bool, bool) {
	if v.raw.t != valueBool {
		return false, false
	}
	var d int32
	if valueIntData(&v.raw, &d) != 0 {
		return false, false
	}
	return d != 0, true
}

// Int returns the integer payload.
func (v Value) Int() (int, bool) {
	if v.raw.t != valueInt {
		return 0, false
	}
	var d int32
	if valueIntData(&v.raw, &d) != 0 {
		return 0, false
	}
	return int(d), true
}

// Float returns the float payload.
func (v Value) Float() (float64, bool) {
	if v.raw.t != valueFloat {
		return 0, false
	}
	var d float64
	if valueFloatData(&v.raw, &d) != 0 {
		return 0, false
	}
	return d, true
}

// String returns the string payload, or "" for non-strings.
func (v Value) String() string {
	if v.raw.t != valueString {
		return ""
	}
	var chars uintptr
	var n uint32
	if valueStringData(&v.raw, &chars, &n) != 0 {
		return ""
	}
	return decodeW(chars, int(n))
}

// Bytes returns a copy of the binary payload.
func (v Value) Bytes() ([]byte, bool) {
	if v.raw.t != valueBytes {
		return nil, false
	}
	var ptr uintptr
	var n uint32
	if valueBinaryData(&v.raw, &ptr, &n) != 0 {
		return nil, false
	}
	return copyBytes(ptr, int(n)), true
}

// Length returns the element count for arrays and maps, zero otherwise.
func (v Value) Length() int {
	var n int32
	valueElementsCount(&v.raw, &n)
	return int(n)
}

// Index returns the n-th element of an array value.
func (v Value) Index(n int) Value {
	var out Value
	valueNthElement(&v.raw, int32(n), &out.raw)
	return out
}

// unpackArgs copies a foreign counted VALUE array into caller-owned values.
// The engine keeps ownership of the originals.
func unpackArgs(argv uintptr, argc uint32) []Value {
	if argv == 0 || argc == 0 {
		return nil
	}
	src := unsafe.Slice((*rawValue)(unsafe.Pointer(argv)), argc)
	out := make([]Value, argc)
	for i := range src {
		valueCopy(&out[i].raw, &src[i])
	}
	return out
}

// packArgs lays values out as a contiguous VALUE array for a foreign call.
// The cells alias the inputs, so the inputs must outlive the call.
func packArgs(args []Value) []rawValue {
	if len(args) == 0 {
		return nil
	}
	out := make([]rawValue, len(args))
	for i := range args {
		out[i] = args[i].raw
	}
	return out
}

// argvPtr returns the base pointer of a packed argument array, or nil.
func argvPtr(packed []rawValue) *rawValue {
	if len(packed) == 0 {
		return nil
	}
	return &packed[0]
}
