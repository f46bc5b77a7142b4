// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package sciter

import (
	"runtime/cgo"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Color is an engine color in its packed native layout. Build one with RGBA
// so the byte order stays the engine's business.
type Color uint32

// RGBA packs color components into an engine color.
func RGBA(red, green, blue, alpha uint8) Color {
	return Color(gfxRGBA(uint32(red), uint32(green), uint32(blue), uint32(alpha)))
}

// RGB packs opaque color components into an engine color.
func RGB(red, green, blue uint8) Color {
	return RGBA(red, green, blue, 255)
}

// SaveEncoding selects the output format of Image.Save.
type SaveEncoding uint32

const (
	SaveRaw  SaveEncoding = 0 // BGRA pixels, bottom of Image.Info dimensions
	SavePng  SaveEncoding = 1
	SaveJpeg SaveEncoding = 2
	SaveWebp SaveEncoding = 3
)

// DrawMode selects fill, stroke or both for DrawPath.
type DrawMode uint32

const (
	FillOnly      DrawMode = 1
	StrokeOnly    DrawMode = 2
	FillAndStroke DrawMode = 3
)

// Image is an owned reference to an engine bitmap. Release when done.
type Image struct {
	h HIMG
}

// NewImage makes a blank image.
func NewImage(width, height uint32, withAlpha bool) (*Image, error) {
	alpha := int32(0)
	if withAlpha {
		alpha = 1
	}
	var h HIMG
	if err := gfxOK("image create", gfxImageCreate(&h, width, height, alpha)); err != nil {
		return nil, err
	}
	return &Image{h: h}, nil
}

// NewImageFromPixmap makes an image from BGRA pixel data, width*height*4
// bytes.
func NewImageFromPixmap(width, height uint32, withAlpha bool, pixmap []byte) (*Image, error) {
	alpha := int32(0)
	if withAlpha {
		alpha = 1
	}
	var h HIMG
	if err := gfxOK("image create from pixmap", gfxImageCreateFromPixmap(&h, width, height, alpha, bptr(pixmap))); err != nil {
		return nil, err
	}
	return &Image{h: h}, nil
}

// LoadImage decodes a PNG, JPEG or WebP byte stream.
func LoadImage(data []byte) (*Image, error) {
	var h HIMG
	if err := gfxOK("image load", gfxImageLoad(bptr(data), uint32(len(data)), &h)); err != nil {
		return nil, err
	}
	return &Image{h: h}, nil
}

// ImageFromValue unwraps an image passed through a script value, taking a
// new reference on it.
func ImageFromValue(v Value) (*Image, error) {
	var h HIMG
	if err := gfxOK("image unwrap", gfxValueUnWrapImage(&v.raw, &h)); err != nil {
		return nil, err
	}
	gfxImageAddRef(h)
	return &Image{h: h}, nil
}

// Handle returns the raw image handle without transferring ownership.
func (i *Image) Handle() HIMG {
	return i.h
}

// Release drops this reference. Safe to call more than once.
func (i *Image) Release() {
	if i.h != 0 {
		gfxImageRelease(i.h)
		i.h = 0
	}
}

// Clone returns a second owned reference to the same image.
func (i *Image) Clone() *Image {
	gfxImageAddRef(i.h)
	return &Image{h: i.h}
}

// Info returns the image dimensions and whether it carries an alpha channel.
func (i *Image) Info() (width, height uint32, usesAlpha bool, err error) {
	var alpha int32
	err = gfxOK("image info", gfxImageGetInfo(i.h, &width, &height, &alpha))
	return width, height, alpha != 0, err
}

// Clear fills the whole image with a color.
func (i *Image) Clear(c Color) error {
	return gfxOK("image clear", gfxImageClear(i.h, uint32(c)))
}

// imageWriteProc collects Save output. The engine calls it with
// (param, data, dataLength).
var imageWriteProc = purego.NewCallback(func(param, data, n uintptr) uintptr {
	if param != 0 {
		out := cgo.Handle(param).Value().(*[]byte)
		*out = append(*out, copyBytes(data, int(n))...)
	}
	return 1
})

// Save encodes the image. quality is 10..100 for JPEG and WebP, ignored
// otherwise.
func (i *Image) Save(encoding SaveEncoding, quality uint32) ([]byte, error) {
	var out []byte
	h := cgo.NewHandle(&out)
	defer h.Delete()
	if err := gfxOK("image save", gfxImageSave(i.h, imageWriteProc, uintptr(h), uint32(encoding), quality)); err != nil {
		return nil, err
	}
	return out, nil
}

// imagePaintProc bridges Image.Paint. The engine calls it with
// (param, hgfx, width, height).
var imagePaintProc = purego.NewCallback(func(param, hgfx, width, height uintptr) uintptr {
	if param != 0 {
		paint := cgo.Handle(param).Value().(*func(*Graphics, uint32, uint32))
		g := &Graphics{h: HGFX(hgfx)}
		(*paint)(g, uint32(width), uint32(height))
	}
	return 0
})

// Paint runs drawing commands against the image surface. The Graphics passed
// to the painter is only valid during the call.
func (i *Image) Paint(painter func(g *Graphics, width, height uint32)) error {
	h := cgo.NewHandle(&painter)
	defer h.Delete()
	return gfxOK("image paint", gfxImagePaint(i.h, imagePaintProc, uintptr(h)))
}

// ToValue wraps the image into a script value, for handing to script code.
func (i *Image) ToValue() (Value, error) {
	var v Value
	err := gfxOK("image wrap", gfxValueWrapImage(i.h, &v.raw))
	return v, err
}

// Path is an owned reference to a geometric path. Release when done.
type Path struct {
	h HPATH
}

// NewPath makes an empty path.
func NewPath() (*Path, error) {
	var h HPATH
	if err := gfxOK("path create", gfxPathCreate(&h)); err != nil {
		return nil, err
	}
	return &Path{h: h}, nil
}

// PathFromValue unwraps a path passed through a script value, taking a new
// reference on it.
func PathFromValue(v Value) (*Path, error) {
	var h HPATH
	if err := gfxOK("path unwrap", gfxValueUnWrapPath(&v.raw, &h)); err != nil {
		return nil, err
	}
	gfxPathAddRef(h)
	return &Path{h: h}, nil
}

// Release drops this reference. Safe to call more than once.
func (p *Path) Release() {
	if p.h != 0 {
		gfxPathRelease(p.h)
		p.h = 0
	}
}

// Clone returns a second owned reference to the same path.
func (p *Path) Clone() *Path {
	gfxPathAddRef(p.h)
	return &Path{h: p.h}
}

func relFlag(relative bool) int32 {
	if relative {
		return 1
	}
	return 0
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float32, relative bool) error {
	return gfxOK("path move to", gfxPathMoveTo(p.h, x, y, relFlag(relative)))
}

// LineTo adds a straight segment to (x, y).
func (p *Path) LineTo(x, y float32, relative bool) error {
	return gfxOK("path line to", gfxPathLineTo(p.h, x, y, relFlag(relative)))
}

// ArcTo adds an elliptical arc to (x, y).
func (p *Path) ArcTo(x, y, angle, rx, ry float32, isLargeArc, clockwise, relative bool) error {
	large := int32(0)
	if isLargeArc {
		large = 1
	}
	cw := int32(0)
	if clockwise {
		cw = 1
	}
	return gfxOK("path arc to", gfxPathArcTo(p.h, x, y, angle, rx, ry, large, cw, relFlag(relative)))
}

// QuadraticCurveTo adds a quadratic Bezier segment to (x, y).
func (p *Path) QuadraticCurveTo(xc, yc, x, y float32, relative bool) error {
	return gfxOK("path quadratic curve to", gfxPathQuadraticCurveTo(p.h, xc, yc, x, y, relFlag(relative)))
}

// BezierCurveTo adds a cubic Bezier segment to (x, y).
func (p *Path) BezierCurveTo(xc1, yc1, xc2, yc2, x, y float32, relative bool) error {
	return gfxOK("path bezier curve to", gfxPathBezierCurveTo(p.h, xc1, yc1, xc2, yc2, x, y, relFlag(relative)))
}

// Close closes the current subpath.
func (p *Path) Close() error {
	return gfxOK("path close", gfxPathClosePath(p.h))
}

// ToValue wraps the path into a script value.
func (p *Path) ToValue() (Value, error) {
	var v Value
	err := gfxOK("path wrap", gfxValueWrapPath(p.h, &v.raw))
	return v, err
}

// Graphics is a drawing surface, obtained inside Image.Paint, from a DRAW
// event, or unwrapped from a script value. It holds a reference released by
// Release; surfaces received inside a callback must not outlive it.
type Graphics struct {
	h HGFX
}

// GraphicsFromValue unwraps a drawing surface passed through a script value,
// taking a new reference on it.
func GraphicsFromValue(v Value) (*Graphics, error) {
	var h HGFX
	if err := gfxOK("graphics unwrap", gfxValueUnWrapGfx(&v.raw, &h)); err != nil {
		return nil, err
	}
	gfxAddRef(h)
	return &Graphics{h: h}, nil
}

// NewGraphics makes a surface drawing onto an image.
func NewGraphics(img *Image) (*Graphics, error) {
	var h HGFX
	if err := gfxOK("graphics create", gfxCreate(img.h, &h)); err != nil {
		return nil, err
	}
	return &Graphics{h: h}, nil
}

// Release drops this reference. Safe to call more than once.
func (g *Graphics) Release() {
	if g.h != 0 {
		gfxRelease(g.h)
		g.h = 0
	}
}

// Clone returns a second owned reference to the same surface.
func (g *Graphics) Clone() *Graphics {
	gfxAddRef(g.h)
	return &Graphics{h: g.h}
}

// SaveState pushes the current transform, clip and style state.
func (g *Graphics) SaveState() error {
	return gfxOK("state save", gfxStateSave(g.h))
}

// RestoreState pops the state pushed by SaveState.
func (g *Graphics) RestoreState() error {
	return gfxOK("state restore", gfxStateRestore(g.h))
}

// Line draws a line segment with the current line style.
func (g *Graphics) Line(x1, y1, x2, y2 float32) error {
	return gfxOK("line", gfxLine(g.h, x1, y1, x2, y2))
}

// Rectangle draws a rectangle with the current styles.
func (g *Graphics) Rectangle(x1, y1, x2, y2 float32) error {
	return gfxOK("rectangle", gfxRectangle(g.h, x1, y1, x2, y2))
}

// RoundedRectangle draws a rectangle with one corner radius for all corners.
func (g *Graphics) RoundedRectangle(x1, y1, x2, y2, radius float32) error {
	radii := [8]float32{radius, radius, radius, radius, radius, radius, radius, radius}
	return gfxOK("rounded rectangle", gfxRoundedRectangle(g.h, x1, y1, x2, y2, &radii[0]))
}

// Ellipse draws an ellipse centered at (x, y).
func (g *Graphics) Ellipse(x, y, rx, ry float32) error {
	return gfxOK("ellipse", gfxEllipse(g.h, x, y, rx, ry))
}

// Circle draws a circle centered at (x, y).
func (g *Graphics) Circle(x, y, r float32) error {
	return g.Ellipse(x, y, r, r)
}

// Arc draws an elliptic arc centered at (x, y).
func (g *Graphics) Arc(x, y, rx, ry, start, sweep float32) error {
	return gfxOK("arc", gfxArc(g.h, x, y, rx, ry, start, sweep))
}

// Star draws a star with the given ray count.
func (g *Graphics) Star(x, y, r1, r2, start float32, rays uint32) error {
	return gfxOK("star", gfxStar(g.h, x, y, r1, r2, start, rays))
}

// Polygon draws a closed polygon from interleaved x,y coordinates.
func (g *Graphics) Polygon(xy []float32) error {
	if len(xy) < 4 {
		return &GraphicsError{Op: "polygon", Result: GraphicsBadParam}
	}
	return gfxOK("polygon", gfxPolygon(g.h, &xy[0], uint32(len(xy)/2)))
}

// Polyline draws an open polyline from interleaved x,y coordinates.
func (g *Graphics) Polyline(xy []float32) error {
	if len(xy) < 4 {
		return &GraphicsError{Op: "polyline", Result: GraphicsBadParam}
	}
	return gfxOK("polyline", gfxPolyline(g.h, &xy[0], uint32(len(xy)/2)))
}

// DrawPath renders a path with the current styles.
func (g *Graphics) DrawPath(p *Path, mode DrawMode) error {
	return gfxOK("draw path", gfxDrawPath(g.h, p.h, uint32(mode)))
}

// Translate shifts the coordinate system.
func (g *Graphics) Translate(dx, dy float32) error {
	return gfxOK("translate", gfxTranslate(g.h, dx, dy))
}

// Rotate turns the coordinate system around the origin.
func (g *Graphics) Rotate(radians float32) error {
	return gfxOK("rotate", gfxRotate(g.h, radians, nil, nil))
}

// RotateAround turns the coordinate system around (cx, cy).
func (g *Graphics) RotateAround(radians, cx, cy float32) error {
	return gfxOK("rotate", gfxRotate(g.h, radians, &cx, &cy))
}

// Scale stretches the coordinate system.
func (g *Graphics) Scale(sx, sy float32) error {
	return gfxOK("scale", gfxScale(g.h, sx, sy))
}

// Skew shears the coordinate system.
func (g *Graphics) Skew(dx, dy float32) error {
	return gfxOK("skew", gfxSkew(g.h, dx, dy))
}

// Transform applies an affine transform matrix to the coordinate system.
func (g *Graphics) Transform(m11, m12, m21, m22, dx, dy float32) error {
	return gfxOK("transform", gfxTransform(g.h, m11, m12, m21, m22, dx, dy))
}

// LineJoin selects how stroked segments connect.
type LineJoin uint32

const (
	JoinMiter        LineJoin = 0
	JoinRound        LineJoin = 1
	JoinBevel        LineJoin = 2
	JoinMiterOrBevel LineJoin = 3
)

// LineCap selects how stroked segments end.
type LineCap uint32

const (
	CapButt   LineCap = 0
	CapSquare LineCap = 1
	CapRound  LineCap = 2
)

// SetLineJoin sets the stroke join style.
func (g *Graphics) SetLineJoin(join LineJoin) error {
	return gfxOK("line join", gfxLineJoin(g.h, uint32(join)))
}

// SetLineCap sets the stroke cap style.
func (g *Graphics) SetLineCap(capStyle LineCap) error {
	return gfxOK("line cap", gfxLineCap(g.h, uint32(capStyle)))
}

// FillEvenOdd selects the even-odd fill rule instead of non-zero winding.
func (g *Graphics) FillEvenOdd(evenOdd bool) error {
	flag := int32(0)
	if evenOdd {
		flag = 1
	}
	return gfxOK("fill mode", gfxFillMode(g.h, flag))
}

// LineWidth sets the stroke width; zero disables stroking.
func (g *Graphics) LineWidth(width float32) error {
	return gfxOK("line width", gfxLineWidth(g.h, width))
}

// LineColor sets the stroke color; a zero-alpha color disables stroking.
func (g *Graphics) LineColor(c Color) error {
	return gfxOK("line color", gfxLineColor(g.h, uint32(c)))
}

// FillColor sets the fill color; a zero-alpha color disables filling.
func (g *Graphics) FillColor(c Color) error {
	return gfxOK("fill color", gfxFillColor(g.h, uint32(c)))
}

// ColorStop pairs a color with its 0..1 offset along a gradient.
type ColorStop struct {
	Color  Color
	Offset float32
}

func stopsPtr(stops []ColorStop) (uintptr, uint32, error) {
	if len(stops) == 0 {
		return 0, 0, &GraphicsError{Op: "gradient", Result: GraphicsBadParam}
	}
	return uintptr(unsafe.Pointer(&stops[0])), uint32(len(stops)), nil
}

// FillGradientLinear fills with a linear gradient from (x1, y1) to (x2, y2).
func (g *Graphics) FillGradientLinear(x1, y1, x2, y2 float32, stops []ColorStop) error {
	ptr, n, err := stopsPtr(stops)
	if err != nil {
		return err
	}
	return gfxOK("fill gradient linear", gfxFillGradientLinear(g.h, x1, y1, x2, y2, ptr, n))
}

// LineGradientLinear strokes with a linear gradient from (x1, y1) to (x2, y2).
func (g *Graphics) LineGradientLinear(x1, y1, x2, y2 float32, stops []ColorStop) error {
	ptr, n, err := stopsPtr(stops)
	if err != nil {
		return err
	}
	return gfxOK("line gradient linear", gfxLineGradientLinear(g.h, x1, y1, x2, y2, ptr, n))
}

// FillGradientRadial fills with a radial gradient centered at (x, y).
func (g *Graphics) FillGradientRadial(x, y, rx, ry float32, stops []ColorStop) error {
	ptr, n, err := stopsPtr(stops)
	if err != nil {
		return err
	}
	return gfxOK("fill gradient radial", gfxFillGradientRadial(g.h, x, y, rx, ry, ptr, n))
}

// LineGradientRadial strokes with a radial gradient centered at (x, y).
func (g *Graphics) LineGradientRadial(x, y, rx, ry float32, stops []ColorStop) error {
	ptr, n, err := stopsPtr(stops)
	if err != nil {
		return err
	}
	return gfxOK("line gradient radial", gfxLineGradientRadial(g.h, x, y, rx, ry, ptr, n))
}

// DrawImage blits an image with its natural size at (x, y).
func (g *Graphics) DrawImage(img *Image, x, y float32) error {
	return gfxOK("draw image", gfxDrawImage(g.h, img.h, x, y, nil, nil, nil, nil, nil, nil, nil))
}

// DrawImageScaled blits an image stretched to w by h at (x, y).
func (g *Graphics) DrawImageScaled(img *Image, x, y, w, h float32) error {
	return gfxOK("draw image", gfxDrawImage(g.h, img.h, x, y, &w, &h, nil, nil, nil, nil, nil))
}

// DrawImagePart blits the source rectangle (ix, iy, iw, ih) of an image into
// the w by h destination box at (x, y).
func (g *Graphics) DrawImagePart(img *Image, x, y, w, h float32, ix, iy, iw, ih uint32) error {
	return gfxOK("draw image part", gfxDrawImage(g.h, img.h, x, y, &w, &h, &ix, &iy, &iw, &ih, nil))
}

// BlendImage blits an image with the given opacity, 0..1.
func (g *Graphics) BlendImage(img *Image, x, y float32, opacity float32) error {
	return gfxOK("blend image", gfxDrawImage(g.h, img.h, x, y, nil, nil, nil, nil, nil, nil, &opacity))
}

// PushClipBox intersects the clip region with a rectangle. opacity, 0..1,
// applies to everything drawn inside.
func (g *Graphics) PushClipBox(x1, y1, x2, y2, opacity float32) error {
	return gfxOK("push clip box", gfxPushClipBox(g.h, x1, y1, x2, y2, opacity))
}

// PushClipPath intersects the clip region with a path.
func (g *Graphics) PushClipPath(p *Path, opacity float32) error {
	return gfxOK("push clip path", gfxPushClipPath(g.h, p.h, opacity))
}

// PopClip reverts the latest clip push.
func (g *Graphics) PopClip() error {
	return gfxOK("pop clip", gfxPopClip(g.h))
}

// WorldToScreen converts surface coordinates to screen coordinates in place.
func (g *Graphics) WorldToScreen(x, y *float32) error {
	return gfxOK("world to screen", gfxWorldToScreen(g.h, x, y))
}

// ScreenToWorld converts screen coordinates to surface coordinates in place.
func (g *Graphics) ScreenToWorld(x, y *float32) error {
	return gfxOK("screen to world", gfxScreenToWorld(g.h, x, y))
}

// ToValue wraps the surface into a script value.
func (g *Graphics) ToValue() (Value, error) {
	var v Value
	err := gfxOK("graphics wrap", gfxValueWrapGfx(g.h, &v.raw))
	return v, err
}

// Text is an owned reference to a laid-out text block.
type Text struct {
	h HTEXT
}

// TextForElement lays out text with the style of an element.
func TextForElement(text string, el *Element) (*Text, error) {
	buf, n := wstr(text)
	var h HTEXT
	if err := gfxOK("text create", gfxTextCreateForElement(&h, wptr(buf), n, el.he)); err != nil {
		return nil, err
	}
	return &Text{h: h}, nil
}

// Metrics returns layout measurements of the text block.
func (t *Text) Metrics() (minWidth, maxWidth, height, ascent, descent float32, lines uint32, err error) {
	err = gfxOK("text metrics", gfxTextGetMetrics(t.h, &minWidth, &maxWidth, &height, &ascent, &descent, &lines))
	return
}

// SetBox sets the wrapping box of the text block.
func (t *Text) SetBox(width, height float32) error {
	return gfxOK("text set box", gfxTextSetBox(t.h, width, height))
}

// DrawText renders a text block with its anchor point at (x, y).
// position is a TEXT_POSITION combination; 7 (middle of the box both ways)
// fits most uses.
func (g *Graphics) DrawText(t *Text, x, y float32, position uint32) error {
	return gfxOK("draw text", gfxDrawText(g.h, t.h, x, y, position))
}

// ToValue wraps the text block into a script value.
func (t *Text) ToValue() (Value, error) {
	var v Value
	err := gfxOK("text wrap", gfxValueWrapText(t.h, &v.raw))
	return v, err
}
