// Package overlay draws selection feedback onto rasters
package overlay

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/menta2k/image-zoomer/pkg/pixbuf"
	"github.com/menta2k/image-zoomer/pkg/types"
)

// SelectionColor is the default rubber-band color
var SelectionColor = color.NRGBA{0, 170, 255, 255}

// StrokeFor picks an outline width of ~0.4% of the shorter side, at least 1px
func StrokeFor(buf pixbuf.Buffer) int {
	return int(math.Max(1, 0.004*float64(minInt(buf.Width(), buf.Height()))))
}

// DrawRect returns a copy of buf with the outline of r drawn inside its edges.
// The outline is the ring between r and r inset by stroke, filled in a single
// even-odd pass; no pixel is painted twice.
func DrawRect(buf pixbuf.Buffer, r types.SourceRect, c color.NRGBA, stroke int) pixbuf.Buffer {
	if buf.Empty() {
		return pixbuf.Buffer{}
	}
	img := buf.RGBA()
	if r.Empty() {
		return pixbuf.FromImage(img)
	}
	if stroke < 1 {
		stroke = 1
	}

	dc := gg.NewContextForRGBA(img)
	dc.SetColor(c)
	dc.DrawRectangle(float64(r.X), float64(r.Y), float64(r.W), float64(r.H))
	if iw, ih := r.W-2*stroke, r.H-2*stroke; iw > 0 && ih > 0 {
		dc.DrawRectangle(float64(r.X+stroke), float64(r.Y+stroke), float64(iw), float64(ih))
	}
	dc.SetFillRuleEvenOdd()
	dc.Fill()
	return pixbuf.FromImage(img)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
