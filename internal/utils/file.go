// Package utils holds the file helpers shared by the session and the CLI.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/menta2k/image-zoomer/pkg/codec"
)

// EnsureDir creates dir and any missing parents. "" and "." are the working
// directory and need nothing.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// IsImageFile reports whether the extension of path names a format the codec
// decodes by default
func IsImageFile(path string) bool {
	return slices.Contains(codec.DefaultFormats, codec.FormatOf(path))
}

// OutputFormat picks the format of a file derived from inputPath: format when
// the codec can write it, otherwise the input's own format, otherwise png.
func OutputFormat(inputPath, format string) string {
	for _, f := range []string{strings.ToLower(format), codec.FormatOf(inputPath)} {
		if codec.IsWritable(f) {
			return f
		}
	}
	return "png"
}

// GenerateOutputFilename returns outputDir/<prefix><name><suffix>.<ext> for
// inputPath, with the extension chosen by OutputFormat
func GenerateOutputFilename(inputPath, outputDir, prefix, suffix, format string) string {
	base := filepath.Base(inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, prefix+name+suffix+"."+OutputFormat(inputPath, format))
}

// FileExists reports whether path is a regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// FormatFileSize renders size with binary units, e.g. "2.0 KB"
func FormatFileSize(size int64) string {
	if size < 1024 {
		return strconv.FormatInt(size, 10) + " B"
	}
	const units = "KMGTPE"
	v, i := float64(size)/1024, 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %cB", v, units[i])
}
