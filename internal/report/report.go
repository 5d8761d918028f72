// Package report renders training artifacts for the analyst: a textual
// metrics block per run and diagnostic charts saved as PNGs.
package report

import (
	"fmt"
	"io"

	"github.com/pitchlab/whiff/internal/model"
)

// WriteText writes the metrics block for one run. The layout is fixed so
// reports from different runs line up when printed back to back.
func WriteText(w io.Writer, a *model.Artifact) error {
	short := a.RunID.String()[:8]
	_, err := fmt.Fprintf(w, "=== %s / %s (run %s) ===\n", a.Category, a.Features.Name, short)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "train rows: %d (whiff %.1f%%)   test rows: %d (whiff %.1f%%)",
		a.TrainRows, 100*a.TrainWhiffRate, a.TestRows, 100*a.TestWhiffRate)
	if a.DroppedRows > 0 {
		fmt.Fprintf(w, "   dropped (NaN features): %d", a.DroppedRows)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "accuracy:           %.4f\n", a.Accuracy)
	fmt.Fprintf(w, "brier (raw):        %.4f\n", a.Brier)
	fmt.Fprintf(w, "brier (calibrated): %.4f\n", a.CalibratedBrier)
	fmt.Fprintf(w, "auc:                %.4f\n", a.AUC)

	fmt.Fprintln(w, "confusion (rows=actual, cols=predicted):")
	fmt.Fprintf(w, "%12s %8s %8s\n", "", "pred 0", "pred 1")
	fmt.Fprintf(w, "%12s %8d %8d\n", "actual 0", a.Confusion[0][0], a.Confusion[0][1])
	fmt.Fprintf(w, "%12s %8d %8d\n", "actual 1", a.Confusion[1][0], a.Confusion[1][1])

	fmt.Fprintln(w, "feature importance (gain):")
	for i, fi := range a.Importance {
		fmt.Fprintf(w, "  %d. %-18s %12.2f\n", i+1, fi.Feature, fi.Gain)
	}
	fmt.Fprintln(w)
	return nil
}
