package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	imagezoomer "github.com/menta2k/image-zoomer"
	"github.com/menta2k/image-zoomer/internal/config"
	"github.com/menta2k/image-zoomer/internal/utils"
	"github.com/menta2k/image-zoomer/pkg/codec"
	"github.com/menta2k/image-zoomer/pkg/pixbuf"
	"github.com/menta2k/image-zoomer/pkg/selection"
	"github.com/menta2k/image-zoomer/pkg/types"
)

func main() {
	var in, out, cfgPath string
	var view, sel, probe string
	var strokesPath, brushColor string
	var brushWidth int
	var zoom float64
	var debug, verbose bool

	flag.StringVar(&in, "in", "", "input image path (bmp/png/jpg/gif/tiff/webp)")
	flag.StringVar(&out, "out", "", "output path (default: <output_dir>/<name>_zoom.<format> from config)")
	flag.StringVar(&cfgPath, "config", "", "config file (default: "+config.GetConfigPath()+" when present)")

	flag.StringVar(&view, "view", "", "display rectangle x,y,w,h the image is shown in (default: native size at 0,0)")
	flag.StringVar(&sel, "select", "", "drag corners x0,y0,x1,y1 in display coordinates")
	flag.StringVar(&probe, "probe", "", "print the pointer readout at x,y")
	flag.Float64Var(&zoom, "zoom", 0, "zoom factor (1.0..10.0, default from config)")

	flag.StringVar(&strokesPath, "strokes", "", "JSON file with strokes to draw on the zoomed region")
	flag.StringVar(&brushColor, "color", "", "brush color #rrggbb (default from config)")
	flag.IntVar(&brushWidth, "width", 0, "brush width in pixels (1-50, default from config)")

	flag.BoolVar(&debug, "debug", false, "write the display render and the selection preview")
	flag.BoolVar(&verbose, "v", false, "log library events")

	flag.Parse()
	if in == "" || sel == "" {
		log.Fatalf("usage: %s -in input.png -select x0,y0,x1,y1 [-view x,y,w,h] [-zoom 2.0] [-strokes strokes.json] [-color #rrggbb] [-width 3] [-probe x,y] [-out path] [-config cfg.json] [-debug] [-v]", filepath.Base(os.Args[0]))
	}
	if !utils.IsImageFile(in) {
		log.Fatalf("-in: %s is not one of %s", in, strings.Join(codec.DefaultFormats, ", "))
	}
	if verbose {
		imagezoomer.SetLogger(slog.Default())
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if brushColor != "" {
		cfg.Brush.Color = brushColor
	}
	if brushWidth != 0 {
		cfg.Brush.Width = brushWidth
	}
	if zoom != 0 {
		cfg.Resample.DefaultZoom = zoom
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	session, err := imagezoomer.NewWithConfig(imagezoomer.Config{
		Codec:     cfg.CodecOptions(),
		Selection: cfg.SelectionOptions(),
		Resample:  cfg.ResampleOptions(),
		Brush:     cfg.BrushOptions(),
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := session.Load(in); err != nil {
		log.Fatal(err)
	}
	img := session.Image()
	log.Printf("loaded %s (%dx%d)", in, img.Width(), img.Height())

	if view != "" {
		r, err := parseRect(view)
		if err != nil {
			log.Fatalf("-view: %v", err)
		}
		if err := session.SetDisplay(r); err != nil {
			log.Fatalf("-view: %v", err)
		}
	}

	if probe != "" {
		p, err := parsePoint(probe)
		if err != nil {
			log.Fatalf("-probe: %v", err)
		}
		log.Printf("probe %s", session.Probe(p))
	}

	from, to, err := parseDrag(sel)
	if err != nil {
		log.Fatalf("-select: %v", err)
	}

	outDir := cfg.Output.OutputDir
	if out != "" {
		outDir = filepath.Dir(out)
	} else {
		out = utils.GenerateOutputFilename(in, outDir, cfg.Output.Prefix, cfg.Output.Suffix, cfg.Output.DefaultFormat)
	}
	if err := utils.EnsureDir(outDir); err != nil {
		log.Fatal(err)
	}

	if o := session.EnableSelection(); o.Status == selection.Rejected {
		log.Fatalf("selection: %s", imagezoomer.Status(o))
	}
	session.Press(from)
	session.Move(to)

	if debug {
		writeDebug(session, outDir)
	}

	result := session.Release(to)
	if result.Status != selection.Committed {
		log.Fatalf("selection rejected: %s (%s)", imagezoomer.Status(result), result.Display)
	}
	log.Printf("selected %s -> source %s", result.Display, result.Rect)

	canvas, err := session.OpenEditor(result.Rect, cfg.Resample.DefaultZoom)
	if err != nil {
		log.Fatalf("zoom failed: %v (%s)", err, imagezoomer.Kind(err))
	}
	log.Printf("zoomed x%.1f to %dx%d", cfg.Resample.DefaultZoom, canvas.Width(), canvas.Height())

	if strokesPath != "" {
		script, err := loadStrokes(strokesPath)
		if err != nil {
			log.Fatal(err)
		}
		n, err := drawStrokes(canvas, script)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("drew %d of %d strokes", n, len(script.Strokes))
	}

	if err := session.Save(canvas.Export(), out); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s (%s)", out, fileSize(out))
}

// loadConfig reads path, or the default config file when present
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.GetConfigPath()
		if !utils.FileExists(path) {
			return config.Default(), nil
		}
	}
	return config.LoadFromFile(path)
}

func writeDebug(session *imagezoomer.Session, outDir string) {
	if display, err := session.Render(); err == nil {
		p := filepath.Join(outDir, "000_display.png")
		if err := session.Save(pixbuf.FromImage(display), p); err != nil {
			log.Printf("debug display save failed: %v", err)
		} else {
			log.Printf("wrote %s", p)
		}
	}

	preview, ok := session.SelectionPreview()
	if !ok {
		log.Printf("debug: selection does not touch the image")
		return
	}
	p := filepath.Join(outDir, "001_selection.png")
	if err := session.Save(preview, p); err != nil {
		log.Printf("debug preview save failed: %v", err)
	} else {
		log.Printf("wrote %s", p)
	}
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "?"
	}
	return utils.FormatFileSize(info.Size())
}

func parseDrag(s string) (types.DisplayPoint, types.DisplayPoint, error) {
	v, err := parseInts(s, 4)
	if err != nil {
		return types.DisplayPoint{}, types.DisplayPoint{}, err
	}
	return types.DisplayPoint{X: v[0], Y: v[1]}, types.DisplayPoint{X: v[2], Y: v[3]}, nil
}

func parseRect(s string) (types.DisplayRect, error) {
	v, err := parseInts(s, 4)
	if err != nil {
		return types.DisplayRect{}, err
	}
	if v[2] <= 0 || v[3] <= 0 {
		return types.DisplayRect{}, fmt.Errorf("width and height must be positive in %q", s)
	}
	return types.DisplayRect{X: v[0], Y: v[1], W: v[2], H: v[3]}, nil
}

func parsePoint(s string) (types.DisplayPoint, error) {
	v, err := parseInts(s, 2)
	if err != nil {
		return types.DisplayPoint{}, err
	}
	return types.DisplayPoint{X: v[0], Y: v[1]}, nil
}
