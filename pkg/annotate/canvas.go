// Package annotate implements freehand drawing on a magnified raster with an
// always available revert to the original.
//
// A Canvas keeps two rasters: the immutable original it was seeded with and
// a working copy that pen strokes are drawn onto. Every drawn segment is also
// recorded in the stroke log, and whenever no stroke is in progress
// Replay(original, Strokes()) equals Export().
//
// Pointer input is noisy, so Begin, Extend and End never fail: presses
// outside the raster are ignored and so are moves that leave it, without
// ever jumping the pen to a clamped position.
package annotate

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/menta2k/image-zoomer/pkg/pixbuf"
	"github.com/menta2k/image-zoomer/pkg/types"
)

// Brush defaults
const (
	DefaultWidth = 3
	MaxUIWidth   = 50
)

// DefaultColor is the initial pen color
var DefaultColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}

// ErrInvalidBrushSize is returned for non-positive brush widths
var ErrInvalidBrushSize = errors.New("invalid brush size")

// Config holds the initial brush
type Config struct {
	Color color.RGBA
	Width int
}

// Canvas is a drawable working copy of a raster. It is owned by a single
// host surface and is not safe for concurrent use.
type Canvas struct {
	original pixbuf.Buffer
	working  *image.RGBA
	dc       *gg.Context

	strokes []Stroke
	active  *Stroke

	drawing bool
	last    types.SourcePoint

	color color.RGBA
	width int
}

// New creates a canvas seeded with seed, using the default brush
func New(seed pixbuf.Buffer) *Canvas {
	return NewWithConfig(seed, Config{Color: DefaultColor, Width: DefaultWidth})
}

// NewWithConfig creates a canvas with a custom initial brush. Invalid widths
// fall back to DefaultWidth.
func NewWithConfig(seed pixbuf.Buffer, config Config) *Canvas {
	if config.Width <= 0 {
		config.Width = DefaultWidth
	}
	c := &Canvas{
		original: seed.Clone(),
		color:    opaque(config.Color),
		width:    config.Width,
	}
	c.resetWorking()
	return c
}

// Width returns the raster width
func (c *Canvas) Width() int { return c.original.Width() }

// Height returns the raster height
func (c *Canvas) Height() int { return c.original.Height() }

// Drawing reports whether a stroke is in progress
func (c *Canvas) Drawing() bool { return c.drawing }

// BrushColor returns the current pen color
func (c *Canvas) BrushColor() color.RGBA { return c.color }

// BrushWidth returns the current pen width
func (c *Canvas) BrushWidth() int { return c.width }

// Original returns a copy of the seed raster
func (c *Canvas) Original() pixbuf.Buffer { return c.original.Clone() }

// SetColor sets the pen color for subsequent strokes. Alpha is ignored.
func (c *Canvas) SetColor(col color.Color) {
	c.color = opaque(col)
}

// SetWidth sets the pen width in pixels for subsequent strokes
func (c *Canvas) SetWidth(w int) error {
	if w <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBrushSize, w)
	}
	c.width = w
	return nil
}

// Begin starts a stroke at p. Presses outside the raster are ignored.
func (c *Canvas) Begin(p types.SourcePoint) {
	if c.drawing || !c.inBounds(p) {
		return
	}
	c.drawing = true
	c.last = p
	c.active = &Stroke{
		Points: []types.SourcePoint{p},
		Color:  c.color,
		Width:  c.width,
	}
}

// Extend draws a segment from the last pen position to p
func (c *Canvas) Extend(p types.SourcePoint) {
	if !c.drawing || !c.inBounds(p) {
		return
	}
	drawSegment(c.dc, c.last, p, c.active.Color, c.active.Width)
	c.active.Points = append(c.active.Points, p)
	c.last = p
}

// End finishes the stroke, extending it to p first when p is on the raster
func (c *Canvas) End(p types.SourcePoint) {
	if !c.drawing {
		return
	}
	c.Extend(p)
	c.drawing = false
	if len(c.active.Points) > 1 {
		c.strokes = append(c.strokes, *c.active)
	}
	c.active = nil
}

// HandlePointer routes left-button events to Begin, Extend and End
func (c *Canvas) HandlePointer(ev types.PointerEvent) {
	if ev.Button != types.ButtonLeft {
		return
	}
	p := types.SourcePoint{X: ev.X, Y: ev.Y}
	switch ev.Kind {
	case types.PointerDown:
		c.Begin(p)
	case types.PointerMove:
		c.Extend(p)
	case types.PointerUp:
		c.End(p)
	}
}

// Clear discards every stroke and restores the original raster. A stroke in
// progress is dropped as well.
func (c *Canvas) Clear() {
	c.strokes = nil
	c.active = nil
	c.drawing = false
	c.resetWorking()
}

// Strokes returns a copy of the completed stroke log
func (c *Canvas) Strokes() []Stroke {
	out := make([]Stroke, 0, len(c.strokes))
	for _, s := range c.strokes {
		out = append(out, s.clone())
	}
	return out
}

// Export returns the annotated raster
func (c *Canvas) Export() pixbuf.Buffer {
	return pixbuf.FromImage(c.working)
}

func (c *Canvas) inBounds(p types.SourcePoint) bool {
	w, h := bounds(c.working)
	return p.In(w, h)
}

func (c *Canvas) resetWorking() {
	c.working = c.original.RGBA()
	c.dc = gg.NewContextForRGBA(c.working)
}
