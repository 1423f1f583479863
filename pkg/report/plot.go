package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/edp1096/toy-machine/pkg/loss"
)

// PlotSpectrum saves per-phenomenon power against frequency bin as an image,
// the format follows the path extension.
func PlotSpectrum(out *loss.Output, title, path string) error {
	if len(out.Power) == 0 {
		return fmt.Errorf("no per-bin power to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Frequency (Hz)"
	p.Y.Label.Text = "Power (W)"

	var lines []interface{}
	for _, name := range getKeys(out.Power) {
		bins := out.Power[name]
		pts := make(plotter.XYs, len(out.Freqs))
		for i := range pts {
			pts[i].X = out.Freqs[i]
			pts[i].Y = bins[i]
		}
		lines = append(lines, name, pts)
	}

	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return fmt.Errorf("plotting failed: %v", err)
	}

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
