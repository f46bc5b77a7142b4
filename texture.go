// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package sciter

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Texture renders the image into a new Ebiten texture, for compositing
// engine-drawn content inside a game frame.
func (i *Image) Texture() (*ebiten.Image, error) {
	w, h, _, err := i.Info()
	if err != nil {
		return nil, err
	}
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("sciter: empty image")
	}
	tex := ebiten.NewImage(int(w), int(h))
	if err := i.WriteTexture(tex); err != nil {
		return nil, err
	}
	return tex, nil
}

// WriteTexture copies the image pixels into an existing texture of matching
// size, avoiding a texture allocation per frame.
func (i *Image) WriteTexture(tex *ebiten.Image) error {
	w, h, _, err := i.Info()
	if err != nil {
		return err
	}
	raw, err := i.Save(SaveRaw, 0)
	if err != nil {
		return err
	}
	need := int(w) * int(h) * 4
	if len(raw) < need {
		return fmt.Errorf("sciter: raw image data truncated: %d of %d bytes", len(raw), need)
	}
	pixels := make([]byte, need)
	for off := 0; off < need; off += 4 {
		pixels[off+0] = raw[off+2] // BGRA -> RGBA
		pixels[off+1] = raw[off+1]
		pixels[off+2] = raw[off+0]
		pixels[off+3] = raw[off+3]
	}
	tex.WritePixels(pixels)
	return nil
}
