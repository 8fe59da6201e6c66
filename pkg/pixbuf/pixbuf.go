// Package pixbuf provides Buffer, an immutable-by-default RGBA raster.
//
// Every operation that derives a raster (crop, clone, conversion) returns a new
// Buffer with its own sample storage, so buffers are never aliased between
// components.
package pixbuf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/menta2k/image-zoomer/pkg/types"
)

// Channels is the number of samples stored per pixel
const Channels = 4

// ErrEmptyCrop is returned when a crop rectangle does not overlap the buffer
var ErrEmptyCrop = errors.New("empty crop rectangle")

// Buffer is a row-major RGBA raster with 8 bits per sample.
// The zero value is an empty buffer.
type Buffer struct {
	img *image.RGBA
}

// New creates a buffer of the given size filled with c
func New(width, height int, c color.Color) Buffer {
	if width <= 0 || height <= 0 {
		return Buffer{}
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return Buffer{img: img}
}

// FromImage copies any image into a new buffer whose origin is (0,0)
func FromImage(src image.Image) Buffer {
	if src == nil || src.Bounds().Empty() {
		return Buffer{}
	}
	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)
	return Buffer{img: img}
}

// Width returns the width in pixels
func (b Buffer) Width() int {
	if b.img == nil {
		return 0
	}
	return b.img.Rect.Dx()
}

// Height returns the height in pixels
func (b Buffer) Height() int {
	if b.img == nil {
		return 0
	}
	return b.img.Rect.Dy()
}

// Empty reports whether the buffer has zero area
func (b Buffer) Empty() bool {
	return b.Width() == 0 || b.Height() == 0
}

// Bounds returns the buffer rectangle, always anchored at (0,0)
func (b Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width(), b.Height())
}

// Samples returns a copy of the row-major samples; its length is
// Width*Height*Channels.
func (b Buffer) Samples() []uint8 {
	if b.Empty() {
		return nil
	}
	out := make([]uint8, 0, b.Width()*b.Height()*Channels)
	w := b.Width() * Channels
	for y := 0; y < b.Height(); y++ {
		i := y * b.img.Stride
		out = append(out, b.img.Pix[i:i+w]...)
	}
	return out
}

// At returns the color at (x, y), or transparent black outside the buffer
func (b Buffer) At(x, y int) color.RGBA {
	if !image.Pt(x, y).In(b.Bounds()) {
		return color.RGBA{}
	}
	return b.img.RGBAAt(x, y)
}

// Luminance returns the integer mean of the R, G and B samples at (x, y)
func (b Buffer) Luminance(x, y int) (int, bool) {
	if !image.Pt(x, y).In(b.Bounds()) {
		return 0, false
	}
	c := b.img.RGBAAt(x, y)
	return (int(c.R) + int(c.G) + int(c.B)) / 3, true
}

// Clone returns an independent copy
func (b Buffer) Clone() Buffer {
	if b.Empty() {
		return Buffer{}
	}
	return FromImage(b.img)
}

// RGBA returns a fresh copy of the raster as *image.RGBA
func (b Buffer) RGBA() *image.RGBA {
	if b.Empty() {
		return image.NewRGBA(image.Rectangle{})
	}
	return b.Clone().img
}

// Image exposes the buffer as a read-only image.Image without copying.
// Callers must not type-assert and mutate the result.
func (b Buffer) Image() image.Image {
	if b.img == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	return b.img
}

// Crop extracts the part of the buffer covered by r. The rectangle is
// intersected with the buffer bounds first.
func (b Buffer) Crop(r types.SourceRect) (Buffer, error) {
	rect := r.Rectangle().Intersect(b.Bounds())
	if rect.Empty() {
		return Buffer{}, fmt.Errorf("%w: %s in %dx%d", ErrEmptyCrop, r, b.Width(), b.Height())
	}
	return FromImage(b.img.SubImage(rect)), nil
}

// Equal reports whether both buffers have the same size and samples
func (b Buffer) Equal(o Buffer) bool {
	if b.Width() != o.Width() || b.Height() != o.Height() {
		return false
	}
	if b.Empty() {
		return true
	}
	return bytes.Equal(b.Samples(), o.Samples())
}
