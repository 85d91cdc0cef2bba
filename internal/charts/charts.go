// Package charts renders dashboard aggregates as PNG bar charts with
// gonum/plot. Each renderer takes the already-grouped aggregates so the
// chart layer never recomputes statistics.
package charts

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"agridash/internal/aggregate"
)

// Chart names, also the download file stems.
const (
	ChartYieldGainByRegion  = "yield-gain-by-region"
	ChartFarmersByYear      = "farmers-by-year"
	ChartVegGainByTechnique = "veg-gain-by-technique"
)

var barFill = color.RGBA{R: 46, G: 139, B: 87, A: 255}

// YieldGainByRegion renders mean rice yield gain per region.
func YieldGainByRegion(w io.Writer, groups []aggregate.RegionAggregate) error {
	labels := make([]string, 0, len(groups))
	values := make(plotter.Values, 0, len(groups))
	for _, g := range groups {
		labels = append(labels, g.Region.String())
		values = append(values, g.AvgYieldGainPct)
	}
	return renderBars(w, "Avg Rice Yield Gain by Region", "Gain (%)", labels, values)
}

// FarmersByYear renders mean farmers trained per year.
func FarmersByYear(w io.Writer, groups []aggregate.YearAggregate) error {
	labels := make([]string, 0, len(groups))
	values := make(plotter.Values, 0, len(groups))
	for _, g := range groups {
		labels = append(labels, strconv.Itoa(g.Year))
		values = append(values, g.AvgFarmersTrained)
	}
	return renderBars(w, "Avg Farmers Trained by Year", "Farmers", labels, values)
}

// VegetableGainByTechnique renders mean dry-season gain per CSA technique.
func VegetableGainByTechnique(w io.Writer, groups []aggregate.TechniqueAggregate) error {
	labels := make([]string, 0, len(groups))
	values := make(plotter.Values, 0, len(groups))
	for _, g := range groups {
		labels = append(labels, g.Technique.String())
		values = append(values, g.AvgDrySeasonGainPct)
	}
	return renderBars(w, "Avg Dry-Season Gain by Technique", "Gain (%)", labels, values)
}

func renderBars(w io.Writer, title, yLabel string, labels []string, values plotter.Values) error {
	// An empty filter subset still renders: a single zero bar keeps the
	// axes finite instead of erroring on an empty data range.
	if len(values) == 0 {
		labels = []string{"no data"}
		values = plotter.Values{0}
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel
	p.X.Tick.Label.Rotation = 0.5
	p.X.Tick.Label.XAlign = -0.8

	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return fmt.Errorf("build bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = barFill

	p.Add(bars)
	p.NominalX(labels...)

	wt, err := p.WriterTo(8*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("prepare png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
