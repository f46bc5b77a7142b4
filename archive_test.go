// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package sciter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubArchive(t *testing.T, items map[string][]byte) {
	t.Helper()
	swap(t, &sciterOpenArchive, func(data uintptr, size uint32) uintptr {
		return 0xA0
	})
	swap(t, &sciterGetArchiveItem, func(har, path uintptr, data *uintptr, size *uint32) int32 {
		item, ok := items[decodeWZ(path)]
		if !ok {
			return 0
		}
		*data = bptr(item)
		*size = uint32(len(item))
		return 1
	})
	swap(t, &sciterCloseArchive, func(har uintptr) int32 {
		return 1
	})
}

func TestArchiveGetNormalizesURIs(t *testing.T) {
	stubArchive(t, map[string][]byte{
		"index.html": []byte("<html/>"),
	})

	// Already loaded; pass through the opener directly.
	swapEngineLoaded(t)
	ar, err := OpenArchive([]byte{1, 2, 3}, nil)
	require.NoError(t, err)

	for _, uri := range []string{"index.html", "this://app/index.html", "//index.html"} {
		data, ok := ar.Get(uri)
		require.True(t, ok, uri)
		assert.Equal(t, []byte("<html/>"), data)
	}

	_, ok := ar.Get("missing.css")
	assert.False(t, ok)
}

func TestArchiveCloseMakesItInert(t *testing.T) {
	stubArchive(t, map[string][]byte{"a": []byte("x")})
	swapEngineLoaded(t)

	ar, err := OpenArchive([]byte{1}, nil)
	require.NoError(t, err)
	require.NoError(t, ar.Close())

	_, ok := ar.Get("a")
	assert.False(t, ok)
	assert.NoError(t, ar.Close(), "second close is a no-op")
}

func TestOpenArchiveRejectsEmptyBlob(t *testing.T) {
	swapEngineLoaded(t)
	_, err := OpenArchive(nil, nil)
	assert.Error(t, err)
}
