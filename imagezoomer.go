// Package imagezoomer lets a host view a raster image, select a sub-rectangle
// with a pointer drag, magnify it and freehand-annotate the magnified copy
// before saving it.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//
//		imagezoomer "github.com/menta2k/image-zoomer"
//		"github.com/menta2k/image-zoomer/pkg/types"
//	)
//
//	func main() {
//		s := imagezoomer.New()
//		if err := s.Load("photo.png"); err != nil {
//			log.Fatal(err)
//		}
//
//		// drag a rectangle in display space
//		s.EnableSelection()
//		s.Press(types.DisplayPoint{X: 10, Y: 10})
//		s.Move(types.DisplayPoint{X: 30, Y: 30})
//		out := s.Release(types.DisplayPoint{X: 30, Y: 30})
//		if err := out.Err(); err != nil {
//			log.Fatal(err)
//		}
//
//		// magnify it and draw on the result
//		canvas, err := s.OpenEditor(out.Rect, 2.0)
//		if err != nil {
//			log.Fatal(err)
//		}
//		canvas.Begin(types.SourcePoint{X: 5, Y: 5})
//		canvas.End(types.SourcePoint{X: 35, Y: 35})
//
//		if err := s.Save(canvas.Export(), "photo_zoom.png"); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package wires together the components under pkg/:
//
//  1. Viewport (pkg/viewport): maps display coordinates to image coordinates
//  2. Selection (pkg/selection): the drag-to-select state machine
//  3. Resample (pkg/resample): magnification with smooth filters
//  4. Annotate (pkg/annotate): freehand drawing with revert to original
//  5. Codec (pkg/codec): loading and saving image files
//
// A Session holds at most one image. A failed load leaves the previous image
// and its placement untouched.
package imagezoomer

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/menta2k/image-zoomer/internal/utils"
	"github.com/menta2k/image-zoomer/pkg/annotate"
	"github.com/menta2k/image-zoomer/pkg/codec"
	"github.com/menta2k/image-zoomer/pkg/overlay"
	"github.com/menta2k/image-zoomer/pkg/pixbuf"
	"github.com/menta2k/image-zoomer/pkg/resample"
	"github.com/menta2k/image-zoomer/pkg/selection"
	"github.com/menta2k/image-zoomer/pkg/types"
	"github.com/menta2k/image-zoomer/pkg/viewport"
)

// Version of the image zoomer library
const Version = "1.0.0"

// ErrNoImage is returned by operations that need a loaded image
var ErrNoImage = errors.New("no image loaded")

// Config holds configuration for every component of a Session
type Config struct {
	Codec     codec.Config
	Selection selection.Config
	Resample  resample.Config
	Brush     annotate.Config
}

// DefaultConfig returns the configuration used by New
func DefaultConfig() Config {
	return Config{
		Codec:     codec.Config{JPEGQuality: 90, WebPQuality: 90, SupportedFormats: codec.DefaultFormats},
		Selection: selection.Config{MinSize: selection.DefaultMinSize},
		Resample:  resample.Config{Filter: resample.DefaultFilter},
		Brush:     annotate.Config{Color: annotate.DefaultColor, Width: annotate.DefaultWidth},
	}
}

// Session is the high-level interface a host drives. It is not safe for
// concurrent use.
type Session struct {
	codec     *codec.Codec
	resampler *resample.Resampler
	selector  *selection.Selector
	brush     annotate.Config

	image  pixbuf.Buffer
	mapper *viewport.Mapper
}

// New creates a new Session with default configuration
func New() *Session {
	return &Session{
		codec:     codec.New(),
		resampler: resample.New(),
		selector:  selection.New(),
		brush:     DefaultConfig().Brush,
	}
}

// NewWithConfig creates a new Session with custom configuration
func NewWithConfig(config Config) (*Session, error) {
	r, err := resample.NewWithConfig(config.Resample)
	if err != nil {
		return nil, fmt.Errorf("invalid resample config: %w", err)
	}
	if config.Brush.Width <= 0 {
		return nil, fmt.Errorf("invalid brush config: %w: %d", annotate.ErrInvalidBrushSize, config.Brush.Width)
	}
	return &Session{
		codec:     codec.NewWithConfig(config.Codec),
		resampler: r,
		selector:  selection.NewWithConfig(config.Selection),
		brush:     config.Brush,
	}, nil
}

// Load reads an image file and makes it the current image
func (s *Session) Load(path string) error {
	buf, err := s.codec.Load(path)
	if err != nil {
		Logger().Warn("load failed", "path", path, "err", err)
		return err
	}
	Logger().Info("image loaded", "path", path, "width", buf.Width(), "height", buf.Height())
	return s.SetImage(buf)
}

// LoadFromReader reads an image from r and makes it the current image
func (s *Session) LoadFromReader(r io.Reader) error {
	buf, err := s.codec.LoadFromReader(r)
	if err != nil {
		Logger().Warn("load failed", "err", err)
		return err
	}
	return s.SetImage(buf)
}

// SetImage replaces the current image and places it at the display origin
// with its native size. Any selection in progress is dropped.
func (s *Session) SetImage(buf pixbuf.Buffer) error {
	if buf.Empty() {
		return fmt.Errorf("%w: empty buffer", ErrNoImage)
	}
	m, err := viewport.Identity(buf.Width(), buf.Height())
	if err != nil {
		return err
	}
	s.image = buf.Clone()
	s.mapper = m
	s.selector.SetMapper(m)
	return nil
}

// Image returns the current image, or an empty buffer
func (s *Session) Image() pixbuf.Buffer {
	return s.image
}

// HasImage reports whether an image is loaded
func (s *Session) HasImage() bool {
	return !s.image.Empty()
}

// Mapper returns the current placement, or nil without an image
func (s *Session) Mapper() *viewport.Mapper {
	return s.mapper
}

// SetDisplay records where the host draws the image. The selector is reset.
func (s *Session) SetDisplay(r types.DisplayRect) error {
	if !s.HasImage() {
		return ErrNoImage
	}
	m, err := viewport.NewMapper(s.image.Width(), s.image.Height(), r)
	if err != nil {
		return err
	}
	s.mapper = m
	s.selector.SetMapper(m)
	sx, sy := m.Scale()
	Logger().Debug("display placed", "rect", r.String(), "scale_x", sx, "scale_y", sy)
	return nil
}

// Render returns the current image as drawn in its display rectangle
func (s *Session) Render() (*image.RGBA, error) {
	if !s.HasImage() {
		return nil, ErrNoImage
	}
	return s.mapper.Render(s.image), nil
}

// Probe formats the pointer readout for p: "(x,y)", followed by " = v" with
// the mean of the R, G and B samples when p is over the image.
func (s *Session) Probe(p types.DisplayPoint) string {
	text := fmt.Sprintf("(%d,%d)", p.X, p.Y)
	if !s.HasImage() || !s.mapper.Contains(p) {
		return text
	}
	src := s.mapper.ToSource(p)
	if v, ok := s.image.Luminance(src.X, src.Y); ok {
		text += fmt.Sprintf(" = %d", v)
	}
	return text
}

// Selection exposes the region selector
func (s *Session) Selection() *selection.Selector {
	return s.selector
}

// EnableSelection arms the selector
func (s *Session) EnableSelection() selection.Outcome {
	out := s.selector.Enable()
	s.logOutcome(out)
	return out
}

// ToggleSelection arms or disarms the selector
func (s *Session) ToggleSelection() selection.Outcome {
	out := s.selector.Toggle()
	s.logOutcome(out)
	return out
}

// DisableSelection disarms the selector and drops any drag in progress
func (s *Session) DisableSelection() {
	s.selector.Disable()
}

// Press starts a drag
func (s *Session) Press(p types.DisplayPoint) bool {
	return s.selector.Press(p)
}

// Move updates the drag and returns the live rectangle
func (s *Session) Move(p types.DisplayPoint) (types.DisplayRect, bool) {
	return s.selector.Move(p)
}

// Release finishes the drag
func (s *Session) Release(p types.DisplayPoint) selection.Outcome {
	out := s.selector.Release(p)
	s.logOutcome(out)
	return out
}

// HandlePointer routes a pointer event to the selector
func (s *Session) HandlePointer(ev types.PointerEvent) selection.Outcome {
	if ev.Kind == types.PointerDown && ev.Button != types.ButtonLeft {
		Logger().Debug("press ignored", "button", ev.Button.String(), "x", ev.X, "y", ev.Y)
	}
	out := s.selector.HandlePointer(ev)
	s.logOutcome(out)
	return out
}

// SelectionPreview returns the current image with the live drag rectangle
// outlined in image space. It reports false when no drag is in progress or
// the rectangle misses the image.
func (s *Session) SelectionPreview() (pixbuf.Buffer, bool) {
	live, ok := s.selector.Live()
	if !ok || !s.HasImage() {
		return pixbuf.Buffer{}, false
	}
	r, ok := s.mapper.ToSourceRect(live)
	if !ok {
		return pixbuf.Buffer{}, false
	}
	return overlay.DrawRect(s.image, r, overlay.SelectionColor, overlay.StrokeFor(s.image)), true
}

// Zoom crops r out of the current image and magnifies it by factor
func (s *Session) Zoom(r types.SourceRect, factor float64) (pixbuf.Buffer, error) {
	if err := resample.ValidateFactor(factor); err != nil {
		return pixbuf.Buffer{}, err
	}
	if !s.HasImage() {
		return pixbuf.Buffer{}, ErrNoImage
	}
	return s.zoom(s.image, r, factor)
}

func (s *Session) zoom(src pixbuf.Buffer, r types.SourceRect, factor float64) (pixbuf.Buffer, error) {
	region, err := src.Crop(r)
	if err != nil {
		return pixbuf.Buffer{}, err
	}
	scaled, err := s.resampler.Scale(region, factor)
	if err != nil {
		return pixbuf.Buffer{}, err
	}
	Logger().Info("zoomed", "rect", r.String(), "pixels", r.Area(), "factor", factor,
		"width", scaled.Width(), "height", scaled.Height(), "filter", s.resampler.Filter())
	return scaled, nil
}

// OpenEditor zooms r by factor and returns an annotation canvas seeded with
// the result
func (s *Session) OpenEditor(r types.SourceRect, factor float64) (*annotate.Canvas, error) {
	scaled, err := s.Zoom(r, factor)
	if err != nil {
		return nil, err
	}
	return annotate.NewWithConfig(scaled, s.brush), nil
}

// Save writes buf to path; the format follows the file extension
func (s *Session) Save(buf pixbuf.Buffer, path string) error {
	if err := s.codec.Save(buf, path); err != nil {
		Logger().Warn("save failed", "path", path, "err", err)
		return err
	}
	Logger().Info("image saved", "path", path, "width", buf.Width(), "height", buf.Height())
	return nil
}

// ZoomFile is a convenience function that loads inputPath, magnifies r by
// factor and writes "<name>_zoom.<ext>" into outputDir. The session's
// current image is not changed. It returns the written path.
func (s *Session) ZoomFile(inputPath, outputDir string, r types.SourceRect, factor float64) (string, error) {
	if err := resample.ValidateFactor(factor); err != nil {
		return "", err
	}

	// Load image
	buf, err := s.codec.Load(inputPath)
	if err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}

	scaled, err := s.zoom(buf, r, factor)
	if err != nil {
		return "", fmt.Errorf("zoom failed: %w", err)
	}

	if err := utils.EnsureDir(outputDir); err != nil {
		return "", fmt.Errorf("%w: %w", codec.ErrSaveFailed, err)
	}
	outputPath := utils.GenerateOutputFilename(inputPath, outputDir, "", "_zoom", "")
	if err := s.Save(scaled, outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}

func (s *Session) logOutcome(out selection.Outcome) {
	switch out.Status {
	case selection.Committed:
		Logger().Info("selection committed", "display", out.Display.String(), "source", out.Rect.String())
	case selection.Rejected:
		Logger().Debug("selection rejected", "reason", out.Reason.String(), "display", out.Display.String())
	}
}
