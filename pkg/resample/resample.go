// Package resample magnifies a raster by a uniform factor using a smooth
// interpolation filter.
package resample

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/menta2k/image-zoomer/pkg/pixbuf"
)

// Accepted zoom factor range
const (
	MinFactor = 1.0
	MaxFactor = 10.0
)

// DefaultFilter is used when no filter is configured
const DefaultFilter = "lanczos"

var (
	ErrInvalidFactor     = errors.New("invalid zoom factor")
	ErrEmptySource       = errors.New("empty source buffer")
	ErrUnsupportedFilter = errors.New("unsupported resample filter")
)

// smooth filters only; nearest-neighbour and box would hide fine detail
var filters = map[string]imaging.ResampleFilter{
	"linear":     imaging.Linear,
	"bilinear":   imaging.Linear,
	"catmullrom": imaging.CatmullRom,
	"mitchell":   imaging.MitchellNetravali,
	"lanczos":    imaging.Lanczos,
}

// ParseFilter resolves a filter name
func ParseFilter(name string) (imaging.ResampleFilter, error) {
	if name == "" {
		name = DefaultFilter
	}
	f, ok := filters[strings.ToLower(name)]
	if !ok {
		return imaging.ResampleFilter{}, fmt.Errorf("%w: %q", ErrUnsupportedFilter, name)
	}
	return f, nil
}

// Config holds configuration for the resampler
type Config struct {
	Filter string
}

// Resampler scales buffers
type Resampler struct {
	name   string
	filter imaging.ResampleFilter
}

// New creates a Resampler using the Lanczos filter
func New() *Resampler {
	return &Resampler{name: DefaultFilter, filter: imaging.Lanczos}
}

// NewWithConfig creates a Resampler with custom configuration
func NewWithConfig(config Config) (*Resampler, error) {
	f, err := ParseFilter(config.Filter)
	if err != nil {
		return nil, err
	}
	name := strings.ToLower(config.Filter)
	if name == "" {
		name = DefaultFilter
	}
	return &Resampler{name: name, filter: f}, nil
}

// Filter returns the configured filter name
func (r *Resampler) Filter() string {
	return r.name
}

// ValidateFactor checks that factor is finite and within [MinFactor, MaxFactor]
func ValidateFactor(factor float64) error {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor < MinFactor || factor > MaxFactor {
		return fmt.Errorf("%w: %v (allowed %.1f - %.1f)", ErrInvalidFactor, factor, MinFactor, MaxFactor)
	}
	return nil
}

// TargetSize returns the dimensions of a w x h buffer scaled by factor
func TargetSize(w, h int, factor float64) (int, int) {
	nw := int(math.Round(float64(w) * factor))
	nh := int(math.Round(float64(h) * factor))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// Scale returns buf magnified by factor on both axes
func (r *Resampler) Scale(buf pixbuf.Buffer, factor float64) (pixbuf.Buffer, error) {
	if err := ValidateFactor(factor); err != nil {
		return pixbuf.Buffer{}, err
	}
	if buf.Empty() {
		return pixbuf.Buffer{}, ErrEmptySource
	}

	w, h := TargetSize(buf.Width(), buf.Height(), factor)
	if w == buf.Width() && h == buf.Height() {
		return buf.Clone(), nil
	}
	return pixbuf.FromImage(imaging.Resize(buf.Image(), w, h, r.filter)), nil
}
