// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package sciter

import (
	"math"
	"testing"
)

// swap replaces a package variable for the duration of one test.
func swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	old := *target
	*target = replacement
	t.Cleanup(func() { *target = old })
}

// swapEngineLoaded makes initEngine a no-op for the duration of one test.
func swapEngineLoaded(t *testing.T) {
	t.Helper()
	swap(t, &engineReady, true)
}

// stubValueOps installs in-process implementations of the engine value
// primitives, enough for scalar values to round-trip without the library.
func stubValueOps(t *testing.T) {
	t.Helper()
	swap(t, &valueInit, func(pv *rawValue) int32 {
		*pv = rawValue{}
		return 0
	})
	swap(t, &valueClear, func(pv *rawValue) int32 {
		*pv = rawValue{}
		return 0
	})
	swap(t, &valueCopy, func(dst, src *rawValue) int32 {
		*dst = *src
		return 0
	})
	swap(t, &valueIntDataSet, func(pv *rawValue, data int32, ty, u uint32) int32 {
		pv.t = ty
		pv.u = u
		pv.d = uint64(uint32(data))
		return 0
	})
	swap(t, &valueIntData, func(pv *rawValue, out *int32) int32 {
		*out = int32(uint32(pv.d))
		return 0
	})
	swap(t, &valueFloatDataSet, func(pv *rawValue, data float64, ty, u uint32) int32 {
		pv.t = ty
		pv.u = u
		pv.d = math.Float64bits(data)
		return 0
	})
	swap(t, &valueFloatData, func(pv *rawValue, out *float64) int32 {
		*out = math.Float64frombits(pv.d)
		return 0
	})
	swap(t, &valueElementsCount, func(pv *rawValue, out *int32) int32 {
		*out = 0
		return 0
	})
}
