package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/menta2k/image-zoomer/internal/config"
	"github.com/menta2k/image-zoomer/pkg/annotate"
	"github.com/menta2k/image-zoomer/pkg/types"
)

// strokeSpec is one pen stroke in a -strokes script. Points are in zoomed
// image pixels. Color and width default to the current brush.
type strokeSpec struct {
	Color  string              `json:"color,omitempty"`
	Width  int                 `json:"width,omitempty"`
	Points []types.SourcePoint `json:"points"`
}

// strokeScript is the -strokes file. "clear" restores the zoomed region
// before any stroke is drawn.
type strokeScript struct {
	Clear   bool         `json:"clear,omitempty"`
	Strokes []strokeSpec `json:"strokes"`
}

func loadStrokes(path string) (strokeScript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return strokeScript{}, fmt.Errorf("failed to read strokes: %w", err)
	}
	var script strokeScript
	if err := json.Unmarshal(data, &script); err != nil {
		return strokeScript{}, fmt.Errorf("failed to parse strokes: %w", err)
	}
	return script, nil
}

// drawStrokes plays the script through Begin/Extend/End as a pointer would
// and returns how many strokes were kept in the canvas log
func drawStrokes(canvas *annotate.Canvas, script strokeScript) (int, error) {
	if script.Clear {
		canvas.Clear()
	}
	before := len(canvas.Strokes())
	color, width := canvas.BrushColor(), canvas.BrushWidth()

	for i, s := range script.Strokes {
		if s.Color != "" {
			c, err := config.ParseColor(s.Color)
			if err != nil {
				return 0, fmt.Errorf("stroke %d: %w", i, err)
			}
			canvas.SetColor(c)
		} else {
			canvas.SetColor(color)
		}
		w := width
		if s.Width != 0 {
			w = s.Width
		}
		if err := canvas.SetWidth(w); err != nil {
			return 0, fmt.Errorf("stroke %d: %w", i, err)
		}

		if len(s.Points) == 0 {
			continue
		}
		last := len(s.Points) - 1
		canvas.Begin(s.Points[0])
		for j := 1; j < last; j++ {
			canvas.Extend(s.Points[j])
		}
		canvas.End(s.Points[last])
	}
	return len(canvas.Strokes()) - before, nil
}

// parseInts parses exactly n comma separated integers
func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma separated integers, got %q", n, s)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q in %q", p, s)
		}
		out[i] = v
	}
	return out, nil
}
