package main

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/menta2k/image-zoomer/pkg/annotate"
	"github.com/menta2k/image-zoomer/pkg/pixbuf"
	"github.com/menta2k/image-zoomer/pkg/types"
)

func TestParseInts(t *testing.T) {
	v, err := parseInts(" 1, -2,3 ,40", 4)
	if err != nil {
		t.Fatalf("parseInts failed: %v", err)
	}
	want := []int{1, -2, 3, 40}
	for i := range want {
		if v[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, v)
			break
		}
	}

	for _, bad := range []string{"", "1,2,3", "1,2,x,4", "1,2,3,4,5"} {
		if _, err := parseInts(bad, 4); err == nil {
			t.Errorf("parseInts(%q) should fail", bad)
		}
	}
}

func TestParseRect(t *testing.T) {
	r, err := parseRect("10,20,300,200")
	if err != nil {
		t.Fatalf("parseRect failed: %v", err)
	}
	if r != (types.DisplayRect{X: 10, Y: 20, W: 300, H: 200}) {
		t.Errorf("Unexpected rect %v", r)
	}
	if _, err := parseRect("0,0,0,10"); err == nil {
		t.Error("zero width should be rejected")
	}
}

func TestDrawStrokes(t *testing.T) {
	seed := pixbuf.New(40, 40, color.RGBA{255, 255, 255, 255})
	canvas := annotate.New(seed)

	path := filepath.Join(t.TempDir(), "strokes.json")
	script := `{"strokes": [
		{"points": [{"x": 2, "y": 2}, {"x": 20, "y": 2}, {"x": 20, "y": 20}]},
		{"color": "#0000ff", "width": 5, "points": [{"x": 30, "y": 30}, {"x": 30, "y": 30}]},
		{"points": [{"x": 99, "y": 99}]}
	]}`
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := loadStrokes(path)
	if err != nil {
		t.Fatalf("loadStrokes failed: %v", err)
	}
	n, err := drawStrokes(canvas, s)
	if err != nil {
		t.Fatalf("drawStrokes failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 recorded strokes, got %d", n)
	}

	strokes := canvas.Strokes()
	if len(strokes) != 2 {
		t.Fatalf("Expected 2 strokes, got %d", len(strokes))
	}
	if strokes[0].Color != annotate.DefaultColor || strokes[0].Width != annotate.DefaultWidth {
		t.Errorf("first stroke should use the default brush, got %v/%d", strokes[0].Color, strokes[0].Width)
	}
	if strokes[1].Color != (color.RGBA{0, 0, 255, 255}) || strokes[1].Width != 5 {
		t.Errorf("second stroke should use its own brush, got %v/%d", strokes[1].Color, strokes[1].Width)
	}
	if got := canvas.Export().At(30, 30); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("Expected a blue dot at 30,30, got %v", got)
	}

	if _, err := drawStrokes(canvas, strokeScript{Strokes: []strokeSpec{{Width: -1}}}); err == nil {
		t.Error("a negative width should be rejected")
	}

	if _, err := drawStrokes(canvas, strokeScript{Clear: true}); err != nil {
		t.Fatal(err)
	}
	if !canvas.Export().Equal(seed) {
		t.Error("clear should restore the seed")
	}
}
