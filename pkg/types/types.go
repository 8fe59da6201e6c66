package types

import (
	"fmt"
	"image"
)

// DisplayPoint is a position in viewport pixels, as delivered by the host widget
type DisplayPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// SourcePoint is a position in image pixels
type SourcePoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DisplayRect is a rectangle in viewport pixel units
type DisplayRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// SourceRect is a rectangle in image pixel units
type SourceRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Normalize builds the rectangle spanned by two drag corners with non-negative
// width and height regardless of drag direction
func Normalize(a, b DisplayPoint) DisplayRect {
	x0, x1 := a.X, b.X
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	y0, y1 := a.Y, b.Y
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return DisplayRect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Rectangle converts to an image.Rectangle
func (r DisplayRect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Empty reports whether the rectangle has no area
func (r DisplayRect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

func (r DisplayRect) String() string {
	return fmt.Sprintf("%dx%d@%d,%d", r.W, r.H, r.X, r.Y)
}

// Rectangle converts to an image.Rectangle
func (r SourceRect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Empty reports whether the rectangle has no area
func (r SourceRect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Area returns the number of pixels covered
func (r SourceRect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.W * r.H
}

func (r SourceRect) String() string {
	return fmt.Sprintf("%dx%d@%d,%d", r.W, r.H, r.X, r.Y)
}

// In reports whether p lies within [0,w) x [0,h)
func (p SourcePoint) In(w, h int) bool {
	return p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h
}
