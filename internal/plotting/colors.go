package plotting

import (
	"image/color"

	"gonum.org/v1/plot/palette/brewer"
)

// PolicyColors are the fixed colours of the known allocation policies.
var PolicyColors = map[string]color.Color{
	"roundrobin":  hex(0x1f77b4),
	"leastloaded": hex(0x2ca02c),
	"mostloaded":  hex(0xd62728),
	"fileaware":   hex(0xff7f0e),
	"rand":        hex(0x9467bd),
}

// Distributions lists the workload distributions in display order.
var Distributions = []string{"Uniform Small", "Uniform Large", "Bimodal", "Web Realistic", "Video"}

// DistributionColors are the fixed colours of the workload distributions.
var DistributionColors = map[string]color.Color{
	"Uniform Small": hex(0x1f77b4),
	"Uniform Large": hex(0xff7f0e),
	"Bimodal":       hex(0x2ca02c),
	"Web Realistic": hex(0xd62728),
	"Video":         hex(0x9467bd),
}

// Single-series bar colours.
var (
	SteelBlue  color.Color = hex(0x4682b4)
	Coral      color.Color = hex(0xff7f50)
	LightGreen color.Color = hex(0x90ee90)
	Plum       color.Color = hex(0xdda0dd)
	Red        color.Color = hex(0xff0000)
	Green      color.Color = hex(0x008000)
	Gray       color.Color = hex(0x808080)
)

func hex(rgb uint32) color.RGBA {
	return color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff}
}

// Palette hands out colours by name: fixed colours first, then a qualitative
// brewer palette in first-seen order.
type Palette struct {
	fixed    map[string]color.Color
	assigned map[string]color.Color
	fallback []color.Color
}

// NewPalette returns a palette with the given fixed colours; fixed may be nil.
func NewPalette(fixed map[string]color.Color) *Palette {
	p, err := brewer.GetPalette(brewer.TypeQualitative, "Paired", 12)
	if err != nil {
		panic(err)
	}
	return &Palette{
		fixed:    fixed,
		assigned: make(map[string]color.Color),
		fallback: p.Colors(),
	}
}

// Color returns the colour for name.
func (p *Palette) Color(name string) color.Color {
	if c, ok := p.fixed[name]; ok {
		return c
	}
	if c, ok := p.assigned[name]; ok {
		return c
	}
	c := p.fallback[len(p.assigned)%len(p.fallback)]
	p.assigned[name] = c
	return c
}
