package bench

import (
	"slices"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotLatency draws a grouped bar chart with one group per operation and one
// bar per index configuration. The image format follows the extension of
// path (png, svg, pdf, ...).
func PlotLatency(results []Result, path string) error {
	if len(results) == 0 {
		return errors.New("bench: no results to plot")
	}

	var ops, series []string
	latency := make(map[[2]string]float64)
	for _, r := range results {
		if !slices.Contains(ops, r.Operation) {
			ops = append(ops, r.Operation)
		}
		if !slices.Contains(series, r.Series()) {
			series = append(series, r.Series())
		}
		latency[[2]string{r.Series(), r.Operation}] = float64(r.LatencyNs)
	}

	p := plot.New()
	p.Title.Text = "Latency per operation"
	p.Y.Label.Text = "ns/op"
	p.Legend.Top = true

	width := vg.Points(12)
	for i, s := range series {
		vals := make(plotter.Values, len(ops))
		for j, op := range ops {
			vals[j] = latency[[2]string{s, op}]
		}
		bars, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return errors.Wrapf(err, "bench: bars for %s", s)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = vg.Length(float64(i)-float64(len(series)-1)/2) * width
		p.Add(bars)
		p.Legend.Add(s, bars)
	}
	p.NominalX(ops...)

	groupWidth := vg.Length(len(series)) * width
	imgWidth := max(6*vg.Inch, vg.Length(len(ops))*(groupWidth+vg.Inch/2))
	if err := p.Save(imgWidth, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "bench: save plot %s", path)
	}
	return nil
}
