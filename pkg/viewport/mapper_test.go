package viewport

import (
	"errors"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/menta2k/image-zoomer/pkg/pixbuf"
	"github.com/menta2k/image-zoomer/pkg/types"
)

func mustMapper(t testing.TB, sw, sh int, display types.DisplayRect) *Mapper {
	t.Helper()
	m, err := NewMapper(sw, sh, display)
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}
	return m
}

func TestNewMapperRejectsEmpty(t *testing.T) {
	cases := []struct {
		name    string
		sw, sh  int
		display types.DisplayRect
	}{
		{"zero source width", 0, 10, types.DisplayRect{W: 10, H: 10}},
		{"zero source height", 10, 0, types.DisplayRect{W: 10, H: 10}},
		{"zero display", 10, 10, types.DisplayRect{W: 0, H: 10}},
		{"negative display", 10, 10, types.DisplayRect{W: 10, H: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewMapper(tc.sw, tc.sh, tc.display); !errors.Is(err, ErrEmptyViewport) {
				t.Errorf("Expected ErrEmptyViewport, got %v", err)
			}
		})
	}
}

func TestScale(t *testing.T) {
	m := mustMapper(t, 400, 300, types.DisplayRect{X: 5, Y: 5, W: 200, H: 300})
	sx, sy := m.Scale()
	if sx != 2 || sy != 1 {
		t.Errorf("Expected scale 2,1, got %v,%v", sx, sy)
	}
}

func TestRoundTripIdentity(t *testing.T) {
	m := mustMapper(t, 100, 80, types.DisplayRect{X: 12, Y: 7, W: 100, H: 80})

	for y := 0; y < 80; y++ {
		for x := 0; x < 100; x++ {
			p := types.SourcePoint{X: x, Y: y}
			if got := m.ToSource(m.ToDisplay(p)); got != p {
				t.Fatalf("Round trip of %v gave %v", p, got)
			}
		}
	}
}

func TestRoundTripMagnifiedDisplay(t *testing.T) {
	// display twice as large as the source: every source pixel survives
	m := mustMapper(t, 50, 40, types.DisplayRect{W: 100, H: 80})

	for y := 0; y < 40; y++ {
		for x := 0; x < 50; x++ {
			p := types.SourcePoint{X: x, Y: y}
			if got := m.ToSource(m.ToDisplay(p)); got != p {
				t.Fatalf("Round trip of %v gave %v", p, got)
			}
		}
	}
}

func TestRoundTripFractionalMagnification(t *testing.T) {
	// 2.5 display pixels per source pixel horizontally, 1.75 vertically
	m := mustMapper(t, 40, 40, types.DisplayRect{X: 1, Y: 2, W: 100, H: 70})

	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			p := types.SourcePoint{X: x, Y: y}
			if got := m.ToSource(m.ToDisplay(p)); got != p {
				t.Fatalf("Round trip of %v gave %v", p, got)
			}
		}
	}
}

func TestRoundTripReducedDisplay(t *testing.T) {
	// Several source pixels share one display pixel, so the round trip lands
	// on the first source pixel of p's group, at most ceil(scale)-1 pixels
	// before p.
	displays := []types.DisplayRect{
		{W: 100, H: 100},
		{X: 3, Y: 9, W: 37, H: 61},
		{W: 150, H: 45},
	}
	for _, d := range displays {
		m := mustMapper(t, 300, 200, d)
		sx, sy := m.Scale()
		maxX, maxY := int(math.Ceil(sx))-1, int(math.Ceil(sy))-1

		for y := 0; y < 200; y++ {
			for x := 0; x < 300; x++ {
				p := types.SourcePoint{X: x, Y: y}
				dp := m.ToDisplay(p)
				if !m.Contains(dp) {
					t.Fatalf("display %s: %v maps to %v outside the display", d, p, dp)
				}
				got := m.ToSource(dp)
				dx, dy := p.X-got.X, p.Y-got.Y
				if dx < 0 || dx > maxX || dy < 0 || dy > maxY {
					t.Fatalf("display %s: round trip of %v gave %v (max drift %d,%d)", d, p, got, maxX, maxY)
				}
			}
		}
	}
}

func TestToSourceUsesRawScale(t *testing.T) {
	// 200x100 shown at half size
	m := mustMapper(t, 200, 100, types.DisplayRect{W: 100, H: 50})

	cases := []struct {
		in   types.DisplayPoint
		want types.SourcePoint
	}{
		{types.DisplayPoint{X: 0, Y: 0}, types.SourcePoint{X: 0, Y: 0}},
		{types.DisplayPoint{X: 5, Y: 5}, types.SourcePoint{X: 10, Y: 10}},
		{types.DisplayPoint{X: 99, Y: 49}, types.SourcePoint{X: 198, Y: 98}},
		{types.DisplayPoint{X: -1, Y: -1}, types.SourcePoint{X: -2, Y: -2}},
	}
	for _, tc := range cases {
		if got := m.ToSource(tc.in); got != tc.want {
			t.Errorf("ToSource(%v) = %v, expected %v", tc.in, got, tc.want)
		}
	}

	// a point and the corner of a rectangle starting there agree
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		d := types.DisplayRect{X: rng.Intn(20), Y: rng.Intn(20), W: 1 + rng.Intn(300), H: 1 + rng.Intn(300)}
		m := mustMapper(t, 1+rng.Intn(300), 1+rng.Intn(300), d)
		p := types.DisplayPoint{X: d.X + rng.Intn(d.W), Y: d.Y + rng.Intn(d.H)}

		sp := m.ToSource(p)
		fx, fy := m.ToSourceF(p)
		if sp.X != int(math.Floor(fx)) || sp.Y != int(math.Floor(fy)) {
			t.Fatalf("ToSource(%v) = %v, raw mapping is %.3f,%.3f", p, sp, fx, fy)
		}
		r, ok := m.ToSourceRect(types.DisplayRect{X: p.X, Y: p.Y, W: 1, H: 1})
		if !ok || r.X != sp.X || r.Y != sp.Y {
			t.Fatalf("ToSourceRect corner %v disagrees with ToSource %v", r, sp)
		}
	}
}

func TestContains(t *testing.T) {
	m := mustMapper(t, 10, 10, types.DisplayRect{X: 10, Y: 10, W: 20, H: 20})

	if !m.Contains(types.DisplayPoint{X: 10, Y: 10}) {
		t.Error("Top-left corner should be inside")
	}
	if m.Contains(types.DisplayPoint{X: 30, Y: 29}) {
		t.Error("Right edge is exclusive")
	}
	if m.Contains(types.DisplayPoint{X: 9, Y: 15}) {
		t.Error("Point left of the image should be outside")
	}
}

func TestToSourceRect(t *testing.T) {
	cases := []struct {
		name    string
		sw, sh  int
		display types.DisplayRect
		in      types.DisplayRect
		want    types.SourceRect
		ok      bool
	}{
		{
			name: "identity", sw: 100, sh: 100,
			display: types.DisplayRect{W: 100, H: 100},
			in:      types.DisplayRect{X: 10, Y: 10, W: 20, H: 20},
			want:    types.SourceRect{X: 10, Y: 10, W: 20, H: 20}, ok: true,
		},
		{
			name: "offset display", sw: 100, sh: 100,
			display: types.DisplayRect{X: 50, Y: 40, W: 100, H: 100},
			in:      types.DisplayRect{X: 60, Y: 50, W: 20, H: 20},
			want:    types.SourceRect{X: 10, Y: 10, W: 20, H: 20}, ok: true,
		},
		{
			name: "independent axes", sw: 200, sh: 100,
			display: types.DisplayRect{W: 100, H: 100},
			in:      types.DisplayRect{X: 10, Y: 10, W: 20, H: 20},
			want:    types.SourceRect{X: 20, Y: 10, W: 40, H: 20}, ok: true,
		},
		{
			name: "past right and bottom", sw: 100, sh: 100,
			display: types.DisplayRect{W: 100, H: 100},
			in:      types.DisplayRect{X: 90, Y: 80, W: 40, H: 50},
			want:    types.SourceRect{X: 90, Y: 80, W: 10, H: 20}, ok: true,
		},
		{
			name: "past left and top", sw: 100, sh: 100,
			display: types.DisplayRect{W: 100, H: 100},
			in:      types.DisplayRect{X: -10, Y: -5, W: 30, H: 25},
			want:    types.SourceRect{X: 0, Y: 0, W: 20, H: 20}, ok: true,
		},
		{
			name: "tiny source keeps one pixel", sw: 4, sh: 4,
			display: types.DisplayRect{W: 400, H: 400},
			in:      types.DisplayRect{X: 0, Y: 0, W: 50, H: 50},
			want:    types.SourceRect{X: 0, Y: 0, W: 1, H: 1}, ok: true,
		},
		{
			name: "outside", sw: 100, sh: 100,
			display: types.DisplayRect{W: 100, H: 100},
			in:      types.DisplayRect{X: 150, Y: 150, W: 20, H: 20},
			ok:      false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := mustMapper(t, tc.sw, tc.sh, tc.display)
			got, ok := m.ToSourceRect(tc.in)
			if ok != tc.ok {
				t.Fatalf("Expected ok=%v, got %v", tc.ok, ok)
			}
			if ok && got != tc.want {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestToSourceRectAlwaysContained(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		sw, sh := 1+rng.Intn(300), 1+rng.Intn(300)
		display := types.DisplayRect{
			X: rng.Intn(50), Y: rng.Intn(50),
			W: 1 + rng.Intn(400), H: 1 + rng.Intn(400),
		}
		m := mustMapper(t, sw, sh, display)
		in := types.DisplayRect{
			X: rng.Intn(500) - 100, Y: rng.Intn(500) - 100,
			W: 1 + rng.Intn(300), H: 1 + rng.Intn(300),
		}

		r, ok := m.ToSourceRect(in)
		if !ok {
			if m.Overlaps(in) {
				t.Fatalf("Overlapping rect %s rejected", in)
			}
			continue
		}
		if r.X < 0 || r.Y < 0 || r.W < 1 || r.H < 1 || r.X+r.W > sw || r.Y+r.H > sh {
			t.Fatalf("source %dx%d display %s in %s: mapped %s escapes the image", sw, sh, display, in, r)
		}
	}
}

func TestRender(t *testing.T) {
	buf := pixbuf.New(10, 10, color.RGBA{200, 100, 50, 255})
	m := mustMapper(t, 10, 10, types.DisplayRect{X: 5, Y: 5, W: 30, H: 20})

	out := m.Render(buf)
	if out.Bounds().Dx() != 30 || out.Bounds().Dy() != 20 {
		t.Fatalf("Expected 30x20 render, got %v", out.Bounds())
	}
	if c := out.RGBAAt(15, 10); c != (color.RGBA{200, 100, 50, 255}) {
		t.Errorf("Expected uniform color to survive scaling, got %v", c)
	}
}

func BenchmarkToSourceRect(b *testing.B) {
	m := mustMapper(b, 1920, 1080, types.DisplayRect{X: 10, Y: 10, W: 960, H: 540})
	r := types.DisplayRect{X: 100, Y: 100, W: 200, H: 150}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.ToSourceRect(r)
	}
}
