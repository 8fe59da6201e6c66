// Package viewport converts between display coordinates (where a raster is
// drawn inside a host widget) and source coordinates (pixel indices of the
// raster itself).
//
// The raster is assumed to be stretched to fill its display rectangle, so the
// two axes are scaled independently:
//
//	scaleX = sourceWidth / displayWidth
//	scaleY = sourceHeight / displayHeight
//
// A Mapper is the only place where this arithmetic happens; other packages
// receive already converted SourceRect and SourcePoint values.
package viewport

import (
	"errors"
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/menta2k/image-zoomer/pkg/pixbuf"
	"github.com/menta2k/image-zoomer/pkg/types"
)

// ErrEmptyViewport is returned when the source or the display rectangle has no area
var ErrEmptyViewport = errors.New("empty viewport")

// Mapper maps points and rectangles between display and source space
type Mapper struct {
	sourceW int
	sourceH int
	display types.DisplayRect
	scaleX  float64
	scaleY  float64
}

// NewMapper creates a mapper for a sourceW x sourceH raster shown at display
func NewMapper(sourceW, sourceH int, display types.DisplayRect) (*Mapper, error) {
	if sourceW <= 0 || sourceH <= 0 {
		return nil, fmt.Errorf("%w: source %dx%d", ErrEmptyViewport, sourceW, sourceH)
	}
	if display.Empty() {
		return nil, fmt.Errorf("%w: display %s", ErrEmptyViewport, display)
	}
	return &Mapper{
		sourceW: sourceW,
		sourceH: sourceH,
		display: display,
		scaleX:  float64(sourceW) / float64(display.W),
		scaleY:  float64(sourceH) / float64(display.H),
	}, nil
}

// Identity creates a mapper that shows the raster at its native size at the origin
func Identity(sourceW, sourceH int) (*Mapper, error) {
	return NewMapper(sourceW, sourceH, types.DisplayRect{W: sourceW, H: sourceH})
}

// Scale returns the source pixels per display pixel on each axis
func (m *Mapper) Scale() (float64, float64) {
	return m.scaleX, m.scaleY
}

// Extent returns the display rectangle covered by the raster
func (m *Mapper) Extent() types.DisplayRect {
	return m.display
}

// SourceSize returns the raster dimensions
func (m *Mapper) SourceSize() (int, int) {
	return m.sourceW, m.sourceH
}

// Contains reports whether p falls on the displayed raster
func (m *Mapper) Contains(p types.DisplayPoint) bool {
	return image.Pt(p.X, p.Y).In(m.display.Rectangle())
}

// Overlaps reports whether r shares any area with the displayed raster
func (m *Mapper) Overlaps(r types.DisplayRect) bool {
	return r.Rectangle().Overlaps(m.display.Rectangle())
}

// ToSourceF applies the mapping without any rounding
func (m *Mapper) ToSourceF(p types.DisplayPoint) (float64, float64) {
	return float64((p.X-m.display.X)*m.sourceW) / float64(m.display.W),
		float64((p.Y-m.display.Y)*m.sourceH) / float64(m.display.H)
}

// ToSource returns floor(ToSourceF(p)), the source pixel under display pixel
// p. The result is not clamped; use Contains to check p first.
func (m *Mapper) ToSource(p types.DisplayPoint) types.SourcePoint {
	return types.SourcePoint{
		X: floorDiv((p.X-m.display.X)*m.sourceW, m.display.W),
		Y: floorDiv((p.Y-m.display.Y)*m.sourceH, m.display.H),
	}
}

// ToDisplay returns the last display pixel that ToSource maps to p or before
// it: ox + ceil((x+1) / scaleX) - 1. In-bounds points land inside the display,
// and when the display is at least as large as the raster
// ToSource(ToDisplay(p)) == p exactly.
func (m *Mapper) ToDisplay(p types.SourcePoint) types.DisplayPoint {
	return types.DisplayPoint{
		X: m.display.X + ceilDiv((p.X+1)*m.display.W, m.sourceW) - 1,
		Y: m.display.Y + ceilDiv((p.Y+1)*m.display.H, m.sourceH) - 1,
	}
}

// floorDiv and ceilDiv round a/b for b > 0 without going through float64
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}

// ToSourceRect maps a display rectangle onto the raster.
//
// The top-left corner is mapped and the extent scaled by the per-axis factors.
// Whatever lies left of or above the raster is cut from the extent, then
//
//	x = clamp(x, 0, Sw-1), w = min(w, Sw-x)
//	y = clamp(y, 0, Sh-1), h = min(h, Sh-y)
//
// An overlapping rectangle always yields at least one source pixel. The
// boolean is false when r does not overlap the displayed raster.
func (m *Mapper) ToSourceRect(r types.DisplayRect) (types.SourceRect, bool) {
	if !m.Overlaps(r) {
		return types.SourceRect{}, false
	}

	corner := m.ToSource(types.DisplayPoint{X: r.X, Y: r.Y})
	x, y := corner.X, corner.Y
	w := r.W * m.sourceW / m.display.W
	h := r.H * m.sourceH / m.display.H

	x, w = clampSpan(x, w, m.sourceW)
	y, h = clampSpan(y, h, m.sourceH)

	return types.SourceRect{X: x, Y: y, W: w, H: h}, true
}

// clampSpan fits the span [pos, pos+size) into [0, limit)
func clampSpan(pos, size, limit int) (int, int) {
	if pos < 0 {
		size += pos
		pos = 0
	}
	if pos > limit-1 {
		pos = limit - 1
	}
	if size > limit-pos {
		size = limit - pos
	}
	if size < 1 {
		size = 1
	}
	return pos, size
}

// Render draws buf stretched into a raster the size of the display rectangle
func (m *Mapper) Render(buf pixbuf.Buffer) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, m.display.W, m.display.H))
	if buf.Empty() {
		return dst
	}
	xdraw.BiLinear.Scale(dst, dst.Bounds(), buf.Image(), buf.Bounds(), xdraw.Src, nil)
	return dst
}
