package plotting

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Figure is anything that can be saved: a chart or a panel of charts.
type Figure interface {
	// Draw draws the figure onto the canvas.
	Draw(draw.Canvas) error
	// Records returns the plotted data, header first.
	Records() [][]string
}

// Chart is a figure backed by a single gonum plot.
type Chart interface {
	Figure
	Plot() (*plot.Plot, error)
}

// Size is the physical size of a saved figure.
type Size struct {
	Width  vg.Length
	Height vg.Length
	// DPI applies to raster formats only.
	DPI int
}

// DefaultSize is used when no size is configured.
var DefaultSize = Size{Width: 10 * vg.Inch, Height: 6 * vg.Inch, DPI: 300}

// Formats lists the file extensions Save understands.
var Formats = []string{"png", "jpg", "jpeg", "tif", "tiff", "pdf", "svg", "eps", "csv"}

// IsFormat reports whether ext (without the dot) is a known output format.
func IsFormat(ext string) bool {
	for _, f := range Formats {
		if strings.EqualFold(f, ext) {
			return true
		}
	}
	return false
}

// Save writes fig to filename on fs, choosing the encoding from the
// extension. A .csv extension writes the figure's data instead of an image.
func Save(fs afero.Fs, fig Figure, filename string, size Size) (err error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !IsFormat(ext) {
		return fmt.Errorf("unsupported output format %q", ext)
	}
	// render first so that a failed chart leaves no file behind
	var buf bytes.Buffer
	if err := Write(&buf, fig, ext, size); err != nil {
		return err
	}
	f, err := fs.Create(filename)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	_, err = buf.WriteTo(f)
	return err
}

// Write encodes fig in the given format to w.
func Write(w io.Writer, fig Figure, format string, size Size) error {
	if size.Width <= 0 || size.Height <= 0 {
		size.Width, size.Height = DefaultSize.Width, DefaultSize.Height
	}
	if size.DPI <= 0 {
		size.DPI = DefaultSize.DPI
	}

	switch format {
	case "csv":
		return writeCSV(w, fig.Records())
	case "png", "jpg", "jpeg", "tif", "tiff":
		img := vgimg.NewWith(vgimg.UseWH(size.Width, size.Height), vgimg.UseDPI(size.DPI))
		if err := fig.Draw(draw.New(img)); err != nil {
			return err
		}
		var wt io.WriterTo
		switch format {
		case "png":
			wt = vgimg.PngCanvas{Canvas: img}
		case "jpg", "jpeg":
			wt = vgimg.JpegCanvas{Canvas: img}
		default:
			wt = vgimg.TiffCanvas{Canvas: img}
		}
		_, err := wt.WriteTo(w)
		return err
	default:
		c, err := draw.NewFormattedCanvas(size.Width, size.Height, format)
		if err != nil {
			return err
		}
		if err := fig.Draw(draw.New(c)); err != nil {
			return err
		}
		_, err = c.WriteTo(w)
		return err
	}
}

func writeCSV(w io.Writer, records [][]string) error {
	if len(records) <= 1 {
		return ErrNoData
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write chart data: %w", err)
	}
	return nil
}
