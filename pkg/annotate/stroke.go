package annotate

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/menta2k/image-zoomer/pkg/pixbuf"
	"github.com/menta2k/image-zoomer/pkg/types"
)

// Stroke is one continuous pen gesture
type Stroke struct {
	Points []types.SourcePoint `json:"points"`
	Color  color.RGBA          `json:"color"`
	Width  int                 `json:"width"`
}

func (s Stroke) clone() Stroke {
	s.Points = append([]types.SourcePoint(nil), s.Points...)
	return s
}

// Replay renders strokes onto a copy of original. Replaying a canvas's
// stroke log onto its seed reproduces the canvas export exactly.
func Replay(original pixbuf.Buffer, strokes []Stroke) pixbuf.Buffer {
	if original.Empty() {
		return pixbuf.Buffer{}
	}
	img := original.RGBA()
	dc := gg.NewContextForRGBA(img)
	for _, s := range strokes {
		for i := 1; i < len(s.Points); i++ {
			drawSegment(dc, s.Points[i-1], s.Points[i], s.Color, s.Width)
		}
	}
	return pixbuf.FromImage(img)
}

// drawSegment strokes a line between pixel centres with round caps, so
// consecutive segments join without gaps. Zero-length segments leave a dot.
func drawSegment(dc *gg.Context, from, to types.SourcePoint, c color.RGBA, width int) {
	x0, y0 := float64(from.X)+0.5, float64(from.Y)+0.5
	x1, y1 := float64(to.X)+0.5, float64(to.Y)+0.5

	dc.SetColor(c)
	if from == to {
		dc.DrawCircle(x0, y0, float64(width)/2)
		dc.Fill()
		return
	}
	dc.SetLineWidth(float64(width))
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.DrawLine(x0, y0, x1, y1)
	dc.Stroke()
}

// opaque drops the alpha channel of c
func opaque(c color.Color) color.RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return color.RGBA{R: n.R, G: n.G, B: n.B, A: 255}
}

func bounds(img *image.RGBA) (int, int) {
	return img.Rect.Dx(), img.Rect.Dy()
}
