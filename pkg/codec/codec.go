// Package codec loads and saves Buffers. Decoding goes through the registered
// image decoders (bmp, png, jpeg, gif, tiff, webp); encoding supports bmp, png,
// jpeg and webp.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/image-zoomer/pkg/pixbuf"
)

var (
	ErrLoadFailed        = errors.New("load failed")
	ErrSaveFailed        = errors.New("save failed")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Codec reads and writes rasters through the registered image codecs
type Codec struct {
	config Config
}

// Config holds configuration for encoding and decoding
type Config struct {
	JPEGQuality      int
	WebPQuality      int
	WebPLossless     bool
	SupportedFormats []string
}

// DefaultFormats lists the formats accepted by default
var DefaultFormats = []string{"bmp", "png", "jpg", "jpeg", "gif", "tiff", "webp"}

// New creates a new Codec with default configuration
func New() *Codec {
	return &Codec{
		config: Config{
			JPEGQuality:      90,
			WebPQuality:      90,
			SupportedFormats: DefaultFormats,
		},
	}
}

// NewWithConfig creates a new Codec with custom configuration
func NewWithConfig(config Config) *Codec {
	if len(config.SupportedFormats) == 0 {
		config.SupportedFormats = DefaultFormats
	}
	return &Codec{config: config}
}

// Load reads an image file into a buffer
func (c *Codec) Load(path string) (pixbuf.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pixbuf.Buffer{}, fmt.Errorf("%w: %s: %w", ErrLoadFailed, path, err)
	}
	buf, err := c.decode(data)
	if err != nil {
		return pixbuf.Buffer{}, fmt.Errorf("%w: %s: %w", ErrLoadFailed, path, err)
	}
	return buf, nil
}

// LoadFromReader reads an image from r into a buffer
func (c *Codec) LoadFromReader(r io.Reader) (pixbuf.Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return pixbuf.Buffer{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	buf, err := c.decode(data)
	if err != nil {
		return pixbuf.Buffer{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return buf, nil
}

func (c *Codec) decode(data []byte) (pixbuf.Buffer, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// some WebP variants only decode through libwebp
		wimg, werr := webp.Decode(bytes.NewReader(data))
		if werr != nil {
			return pixbuf.Buffer{}, fmt.Errorf("failed to decode image: %w", err)
		}
		img, format = wimg, "webp"
	}
	if !c.isFormatSupported(format) {
		return pixbuf.Buffer{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	buf := pixbuf.FromImage(img)
	if buf.Empty() {
		return pixbuf.Buffer{}, errors.New("image has no pixels")
	}
	return buf, nil
}

// Save writes buf to path, choosing the encoder by file extension
func (c *Codec) Save(buf pixbuf.Buffer, path string) error {
	format := FormatOf(path)
	if !IsWritable(format) {
		return fmt.Errorf("%w: %s: %w: %q", ErrSaveFailed, path, ErrUnsupportedFormat, format)
	}
	if buf.Empty() {
		return fmt.Errorf("%w: %s: empty image", ErrSaveFailed, path)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	if err := c.Encode(file, buf, format); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("%w: %s: %w", ErrSaveFailed, path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSaveFailed, path, err)
	}
	return nil
}

// Encode writes buf to w in the given format (bmp, png, jpg/jpeg or webp)
func (c *Codec) Encode(w io.Writer, buf pixbuf.Buffer, format string) error {
	format = strings.ToLower(format)
	switch format {
	case "webp":
		opts := &webp.Options{Lossless: c.config.WebPLossless, Quality: float32(c.config.WebPQuality)}
		return webp.Encode(w, buf.Image(), opts)
	case "jpg", "jpeg":
		return imaging.Encode(w, buf.Image(), imaging.JPEG, imaging.JPEGQuality(c.config.JPEGQuality))
	case "png":
		return imaging.Encode(w, buf.Image(), imaging.PNG)
	case "bmp":
		return imaging.Encode(w, buf.Image(), imaging.BMP)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// FormatOf returns the format named by the extension of path, lower-cased and
// without the dot. "tif" is reported as "tiff".
func FormatOf(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "tif" {
		return "tiff"
	}
	return ext
}

// IsWritable reports whether Save can produce the format
func IsWritable(format string) bool {
	switch strings.ToLower(format) {
	case "bmp", "png", "jpg", "jpeg", "webp":
		return true
	}
	return false
}

func (c *Codec) isFormatSupported(format string) bool {
	for _, supported := range c.config.SupportedFormats {
		if strings.EqualFold(format, supported) {
			return true
		}
	}
	return false
}
