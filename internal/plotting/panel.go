package plotting

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Panel arranges several charts in a grid below a common title.
type Panel struct {
	Title  string
	Rows   int
	Cols   int
	Charts []Chart
}

// Draw draws the panel onto dc.
func (p *Panel) Draw(dc draw.Canvas) error {
	if len(p.Charts) == 0 {
		return fmt.Errorf("%s: %w", p.Title, ErrNoData)
	}
	if p.Rows*p.Cols != len(p.Charts) {
		return fmt.Errorf("panel %q: %d charts do not fill a %dx%d grid", p.Title, len(p.Charts), p.Rows, p.Cols)
	}

	plots := make([][]*plot.Plot, p.Rows)
	for j := range plots {
		plots[j] = make([]*plot.Plot, p.Cols)
	}
	for i, c := range p.Charts {
		pl, err := c.Plot()
		if err != nil {
			return err
		}
		plots[i/p.Cols][i%p.Cols] = pl
	}

	dc.SetColor(color.White)
	dc.Fill(dc.Rectangle.Path())

	if p.Title != "" {
		sty := plot.New().Title.TextStyle
		sty.Font.Size = vg.Points(16)
		sty.XAlign = draw.XCenter
		sty.YAlign = draw.YTop
		pad := vg.Points(8)
		dc.FillText(sty, vg.Point{X: dc.Center().X, Y: dc.Max.Y - pad}, p.Title)
		dc = draw.Crop(dc, 0, 0, 0, -(sty.Height(p.Title) + 2*pad))
	}

	tiles := draw.Tiles{
		Rows:      p.Rows,
		Cols:      p.Cols,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Points(2),
		PadBottom: vg.Points(2),
		PadLeft:   vg.Points(2),
		PadRight:  vg.Points(2),
	}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		for i, pl := range plots[j] {
			pl.Draw(canvases[j][i])
		}
	}
	return nil
}

// Records returns the records of every chart, prefixed with the chart title.
func (p *Panel) Records() [][]string {
	var records [][]string
	for _, c := range p.Charts {
		rs := c.Records()
		if len(rs) == 0 {
			continue
		}
		if records == nil {
			records = append(records, append([]string{"chart"}, rs[0]...))
		}
		title := ""
		if t, ok := c.(titled); ok {
			title = t.ChartTitle()
		}
		for _, r := range rs[1:] {
			records = append(records, append([]string{title}, r...))
		}
	}
	return records
}

type titled interface {
	ChartTitle() string
}
