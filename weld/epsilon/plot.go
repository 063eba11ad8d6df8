package epsilon

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotTrace renders the epsilon-vs-reduction-rate trace recorded by the most
// recent Find call to an image file at path, in the format named by path's
// extension (for example .png). Diagnostic only; Find works identically
// whether or not this is ever called.
func (f *Finder) PlotTrace(path string) error {
	if len(f.trace) == 0 {
		return fmt.Errorf("epsilon: no trace recorded, call Find first")
	}
	p := plot.New()
	p.Title.Text = "epsilon search trace"
	p.X.Label.Text = "epsilon"
	p.Y.Label.Text = "reduction rate"

	pts := make(plotter.XYs, len(f.trace))
	for i, s := range f.trace {
		pts[i].X = s.Epsilon
		pts[i].Y = s.ReductionRate
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("epsilon: plot trace: %w", err)
	}
	p.Add(scatter)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("epsilon: save trace plot: %w", err)
	}
	return nil
}
