// Package config loads, validates and saves the JSON settings of the zoomer
// and converts them into the option structs of each package.
package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/menta2k/image-zoomer/pkg/annotate"
	"github.com/menta2k/image-zoomer/pkg/codec"
	"github.com/menta2k/image-zoomer/pkg/resample"
	"github.com/menta2k/image-zoomer/pkg/selection"
)

// Config holds the application configuration
type Config struct {
	Codec     CodecConfig     `json:"codec"`
	Selection SelectionConfig `json:"selection"`
	Resample  ResampleConfig  `json:"resample"`
	Brush     BrushConfig     `json:"brush"`
	Output    OutputConfig    `json:"output"`
}

// CodecConfig holds configuration for loading and saving images
type CodecConfig struct {
	JPEGQuality      int      `json:"jpeg_quality"`
	WebPQuality      int      `json:"webp_quality"`
	WebPLossless     bool     `json:"webp_lossless"`
	SupportedFormats []string `json:"supported_formats"`
}

// SelectionConfig holds configuration for region selection
type SelectionConfig struct {
	MinSize int `json:"min_size"`
}

// ResampleConfig holds configuration for magnification
type ResampleConfig struct {
	Filter      string  `json:"filter"`
	DefaultZoom float64 `json:"default_zoom"`
}

// BrushConfig holds the initial annotation brush
type BrushConfig struct {
	Color string `json:"color"`
	Width int    `json:"width"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	DefaultFormat string `json:"default_format"`
	OutputDir     string `json:"output_dir"`
	Prefix        string `json:"prefix"`
	Suffix        string `json:"suffix"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Codec: CodecConfig{
			JPEGQuality:      90,
			WebPQuality:      90,
			WebPLossless:     false,
			SupportedFormats: append([]string(nil), codec.DefaultFormats...),
		},
		Selection: SelectionConfig{
			MinSize: selection.DefaultMinSize,
		},
		Resample: ResampleConfig{
			Filter:      resample.DefaultFilter,
			DefaultZoom: 2.0,
		},
		Brush: BrushConfig{
			Color: "#ff0000",
			Width: annotate.DefaultWidth,
		},
		Output: OutputConfig{
			DefaultFormat: "png",
			OutputDir:     "./output",
			Prefix:        "",
			Suffix:        "_zoom",
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Missing fields keep
// their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Codec.JPEGQuality < 1 || c.Codec.JPEGQuality > 100 {
		return fmt.Errorf("codec.jpeg_quality must be between 1 and 100")
	}

	if c.Codec.WebPQuality < 1 || c.Codec.WebPQuality > 100 {
		return fmt.Errorf("codec.webp_quality must be between 1 and 100")
	}

	if len(c.Codec.SupportedFormats) == 0 {
		return fmt.Errorf("codec.supported_formats cannot be empty")
	}

	if c.Selection.MinSize < 1 {
		return fmt.Errorf("selection.min_size must be positive")
	}

	if _, err := resample.ParseFilter(c.Resample.Filter); err != nil {
		return fmt.Errorf("resample.filter: %w", err)
	}

	if err := resample.ValidateFactor(c.Resample.DefaultZoom); err != nil {
		return fmt.Errorf("resample.default_zoom: %w", err)
	}

	if c.Brush.Width < 1 || c.Brush.Width > annotate.MaxUIWidth {
		return fmt.Errorf("brush.width must be between 1 and %d", annotate.MaxUIWidth)
	}

	if _, err := ParseColor(c.Brush.Color); err != nil {
		return fmt.Errorf("brush.color: %w", err)
	}

	if !codec.IsWritable(c.Output.DefaultFormat) {
		return fmt.Errorf("output.default_format %q cannot be written", c.Output.DefaultFormat)
	}

	return nil
}

// CodecOptions converts the codec section
func (c *Config) CodecOptions() codec.Config {
	return codec.Config{
		JPEGQuality:      c.Codec.JPEGQuality,
		WebPQuality:      c.Codec.WebPQuality,
		WebPLossless:     c.Codec.WebPLossless,
		SupportedFormats: c.Codec.SupportedFormats,
	}
}

// SelectionOptions converts the selection section
func (c *Config) SelectionOptions() selection.Config {
	return selection.Config{MinSize: c.Selection.MinSize}
}

// ResampleOptions converts the resample section
func (c *Config) ResampleOptions() resample.Config {
	return resample.Config{Filter: c.Resample.Filter}
}

// BrushOptions converts the brush section. Call Validate first; an
// unparsable color falls back to the default brush color.
func (c *Config) BrushOptions() annotate.Config {
	col, err := ParseColor(c.Brush.Color)
	if err != nil {
		col = annotate.DefaultColor
	}
	return annotate.Config{Color: col, Width: c.Brush.Width}
}

// ParseColor parses "#rrggbb" or "rrggbb"
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q (want #rrggbb)", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "image-zoomer", "config.json")
}
