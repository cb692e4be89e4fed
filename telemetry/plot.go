package telemetry

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PopulationPoint is one sample of the population chart.
type PopulationPoint struct {
	SimTime   float64
	Creatures int
	Plants    int
	MaxGen    int
}

// WritePopulationChart renders creature, plant and max-generation curves over
// simulated time to a PNG file.
func WritePopulationChart(path string, points []PopulationPoint) error {
	if len(points) == 0 {
		return nil
	}

	p := plot.New()
	p.Title.Text = "Population"
	p.X.Label.Text = "Simulated time (s)"
	p.Y.Label.Text = "Count"

	creatures := make(plotter.XYs, len(points))
	plants := make(plotter.XYs, len(points))
	gens := make(plotter.XYs, len(points))
	for i, pt := range points {
		creatures[i].X, creatures[i].Y = pt.SimTime, float64(pt.Creatures)
		plants[i].X, plants[i].Y = pt.SimTime, float64(pt.Plants)
		gens[i].X, gens[i].Y = pt.SimTime, float64(pt.MaxGen)
	}

	series := []struct {
		name string
		xys  plotter.XYs
		col  color.RGBA
	}{
		{"creatures", creatures, color.RGBA{R: 200, G: 60, B: 60, A: 255}},
		{"plants", plants, color.RGBA{R: 60, G: 160, B: 60, A: 255}},
		{"max generation", gens, color.RGBA{R: 60, G: 60, B: 200, A: 255}},
	}
	for _, s := range series {
		line, err := plotter.NewLine(s.xys)
		if err != nil {
			return fmt.Errorf("building %s line: %w", s.name, err)
		}
		line.Color = s.col
		p.Add(line)
		p.Legend.Add(s.name, line)
	}
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
