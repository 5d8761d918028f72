package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/pitchlab/whiff/internal/model"
)

const histogramBins = 20

// SaveCharts renders the three diagnostic charts for one run into dir:
// the gain-importance bar chart and histograms of the raw and calibrated
// test probabilities. File names carry category, feature set and the
// short run ID so the twelve runs never collide.
func SaveCharts(dir string, a *model.Artifact) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating chart dir %s", dir)
	}

	base := fmt.Sprintf("%s_%s_%s", a.Category, a.Features.Name, a.RunID.String()[:8])

	if err := saveImportance(filepath.Join(dir, base+"_importance.png"), a); err != nil {
		return err
	}
	if err := saveHistogram(filepath.Join(dir, base+"_prob_raw.png"),
		fmt.Sprintf("%s / %s: raw whiff probability", a.Category, a.Features.Name), a.RawProbs); err != nil {
		return err
	}
	return saveHistogram(filepath.Join(dir, base+"_prob_calibrated.png"),
		fmt.Sprintf("%s / %s: calibrated whiff probability", a.Category, a.Features.Name), a.CalibratedProbs)
}

func saveImportance(path string, a *model.Artifact) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s / %s: feature importance (gain)", a.Category, a.Features.Name)
	p.Y.Label.Text = "split gain"

	values := make(plotter.Values, len(a.Importance))
	names := make([]string, len(a.Importance))
	for i, fi := range a.Importance {
		values[i] = fi.Gain
		names[i] = fi.Feature
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return errors.Wrap(err, "building importance bars")
	}
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = -0.6
	p.X.Tick.Label.XAlign = -0.6

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}

func saveHistogram(path, title string, probs []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "predicted probability"
	p.Y.Label.Text = "count"
	p.X.Min, p.X.Max = 0, 1

	h, err := plotter.NewHist(plotter.Values(probs), histogramBins)
	if err != nil {
		return errors.Wrap(err, "building histogram")
	}
	p.Add(h)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}
