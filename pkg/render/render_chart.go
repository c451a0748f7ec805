package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var ErrEmptyChart = errors.New("nothing to plot")

// ColorMap fixes the colour of particular domain counts. Counts without an
// entry get the default palette.
type ColorMap map[int]color.Color

// Colour used for the key-th series (idx is its position in the chart).
func (m ColorMap) For(key, idx int) color.Color {
	if c, ok := m[key]; ok {
		return c
	}
	return plotutil.Color(idx)
}

// ParseColorMap reads "1=green,2=blue,7=#ff0000". Names are SVG colour names.
func ParseColorMap(s string) (ColorMap, error) {
	m := ColorMap{}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		k, v, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("bad colour %q, expected <count>=<colour>", item)
		}
		n, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("bad domain count %q", k)
		}
		c, err := parseColor(strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
		m[n] = c
	}
	return m, nil
}

func parseColor(v string) (color.Color, error) {
	if strings.HasPrefix(v, "#") && len(v) == 7 {
		rgb, err := strconv.ParseUint(v[1:], 16, 32)
		if err != nil {
			return nil, fmt.Errorf("bad colour %q", v)
		}
		return color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff}, nil
	}
	c, ok := colornames.Map[strings.ToLower(v)]
	if !ok {
		return nil, fmt.Errorf("unknown colour %q", v)
	}
	return c, nil
}

// Series is one stack segment: Values are aligned with the chart labels.
type Series struct {
	Key    int
	Values []float64
}

type StackedBarChart struct {
	Title  string
	XLabel string
	YLabel string
	Labels []string
	Series []Series
	Colors ColorMap
}

// Plot stacks the series in ascending key order, one bar per label.
func (c *StackedBarChart) Plot() (*plot.Plot, error) {
	if len(c.Labels) == 0 || len(c.Series) == 0 {
		return nil, ErrEmptyChart
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Legend.Top = true

	series := make([]Series, len(c.Series))
	copy(series, c.Series)
	sort.Slice(series, func(i, j int) bool { return series[i].Key < series[j].Key })

	var below *plotter.BarChart
	for i, s := range series {
		if len(s.Values) != len(c.Labels) {
			return nil, fmt.Errorf("series %d has %d values for %d labels", s.Key, len(s.Values), len(c.Labels))
		}
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), vg.Points(14))
		if err != nil {
			return nil, err
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = c.Colors.For(s.Key, i)
		if below != nil {
			bars.StackOn(below)
		}
		p.Add(bars)
		p.Legend.Add(strconv.Itoa(s.Key), bars)
		below = bars
	}

	p.NominalX(c.Labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	return p, nil
}

// Save renders the chart, the format follows the file extension (pdf, png, svg).
func (c *StackedBarChart) Save(path string) error {
	p, err := c.Plot()
	if err != nil {
		return err
	}

	width := vg.Length(len(c.Labels))*vg.Points(20) + 4*vg.Inch
	return p.Save(width, 5*vg.Inch, path)
}
