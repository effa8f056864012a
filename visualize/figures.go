// Package visualize renders the walkthrough figures with gonum/plot.
// Every command writes its charts through this package; nothing else in
// the repository touches plot encoders directly.
package visualize

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/skuroda/mlnotes/pkg/errors"
)

// NewFigure creates a titled plot with axis labels and a legend in the
// top-left corner.
func NewFigure(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Left = true
	p.Legend.Top = true
	return p
}

// Save writes the figure to path; the encoder is chosen by the file
// extension (.png, .svg, .pdf).
func Save(p *plot.Plot, path string, width, height vg.Length) error {
	if err := p.Save(width, height, path); err != nil {
		return errors.Wrapf(err, "visualize: save %s", path)
	}
	return nil
}

// AddScatter adds one scatter series from the first two columns of X.
func AddScatter(p *plot.Plot, X mat.Matrix, name string) error {
	r, c := X.Dims()
	if c < 2 {
		return errors.NewValueError("visualize.AddScatter", "need at least 2 feature columns to plot")
	}

	pts := make(plotter.XYs, r)
	for i := 0; i < r; i++ {
		pts[i].X = X.At(i, 0)
		pts[i].Y = X.At(i, 1)
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "visualize: scatter")
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(2)
	p.Add(s)
	if name != "" {
		p.Legend.Add(name, s)
	}
	return nil
}

// AddClassScatter draws the first two columns of X as one scatter series
// per label. The label -1 is rendered as gray crosses, matching the
// noise/outlier convention of the clustering and anomaly models.
func AddClassScatter(p *plot.Plot, X mat.Matrix, labels []int) error {
	r, c := X.Dims()
	if c < 2 {
		return errors.NewValueError("visualize.AddClassScatter", "need at least 2 feature columns to plot")
	}
	if len(labels) != r {
		return errors.NewDimensionError("visualize.AddClassScatter", r, len(labels), 0)
	}

	series := map[int]plotter.XYs{}
	for i := 0; i < r; i++ {
		series[labels[i]] = append(series[labels[i]], plotter.XY{X: X.At(i, 0), Y: X.At(i, 1)})
	}

	// stable legend order: noise last, classes ascending
	ordered := make([]int, 0, len(series))
	for label := range series {
		if label != -1 {
			ordered = append(ordered, label)
		}
	}
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			if ordered[j] < ordered[i] {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			}
		}
	}
	if _, hasNoise := series[-1]; hasNoise {
		ordered = append(ordered, -1)
	}

	for idx, label := range ordered {
		s, err := plotter.NewScatter(series[label])
		if err != nil {
			return errors.Wrap(err, "visualize: class scatter")
		}
		if label == -1 {
			s.GlyphStyle.Shape = draw.CrossGlyph{}
			s.Color = color.RGBA{R: 128, G: 128, B: 128, A: 255}
			p.Legend.Add("noise", s)
		} else {
			s.GlyphStyle.Shape = draw.CircleGlyph{}
			s.GlyphStyle.Radius = vg.Points(2)
			s.Color = plotutil.Color(idx)
			p.Legend.Add(fmt.Sprintf("class %d", label), s)
		}
		p.Add(s)
	}
	return nil
}

// AddRegressionLine draws y = m*x + c across [xMin, xMax].
func AddRegressionLine(p *plot.Plot, m, c, xMin, xMax float64) error {
	line, err := plotter.NewLine(plotter.XYs{
		{X: xMin, Y: m*xMin + c},
		{X: xMax, Y: m*xMax + c},
	})
	if err != nil {
		return errors.Wrap(err, "visualize: regression line")
	}
	line.Color = color.RGBA{R: 255, A: 255}
	p.Add(line)
	p.Legend.Add("fit", line)
	return nil
}

// AddCurve samples fn at n evenly spaced points over [xMin, xMax] and
// draws the resulting polyline. Used for the polynomial ridge overlay.
func AddCurve(p *plot.Plot, fn func(x float64) float64, xMin, xMax float64, n int, name string) error {
	if n < 2 {
		return errors.NewValueError("visualize.AddCurve", "need at least 2 sample points")
	}

	pts := make(plotter.XYs, n)
	step := (xMax - xMin) / float64(n-1)
	for i := 0; i < n; i++ {
		x := xMin + float64(i)*step
		pts[i].X = x
		pts[i].Y = fn(x)
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "visualize: curve")
	}
	line.Color = color.RGBA{R: 255, A: 255}
	line.Width = vg.Points(1.5)
	p.Add(line)
	if name != "" {
		p.Legend.Add(name, line)
	}
	return nil
}

// AddCenters marks cluster centers with large ring glyphs.
func AddCenters(p *plot.Plot, centers [][]float64) error {
	pts := make(plotter.XYs, len(centers))
	for i, c := range centers {
		if len(c) < 2 {
			return errors.NewValueError("visualize.AddCenters", "centers must have at least 2 dimensions")
		}
		pts[i].X = c[0]
		pts[i].Y = c[1]
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "visualize: centers")
	}
	s.GlyphStyle.Shape = draw.RingGlyph{}
	s.GlyphStyle.Radius = vg.Points(5)
	s.Color = color.RGBA{A: 255}
	p.Add(s)
	p.Legend.Add("centers", s)
	return nil
}

// ResidualHistogram builds a histogram figure of prediction residuals.
func ResidualHistogram(residuals []float64, bins int) (*plot.Plot, error) {
	if len(residuals) == 0 {
		return nil, errors.NewValueError("visualize.ResidualHistogram", "no residuals")
	}

	p := NewFigure("Residuals", "residual", "frequency")
	h, err := plotter.NewHist(plotter.Values(residuals), bins)
	if err != nil {
		return nil, errors.Wrap(err, "visualize: histogram")
	}
	p.Add(h)
	return p, nil
}
