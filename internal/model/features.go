package model

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/pitchlab/whiff/internal/dataset"
	"github.com/pitchlab/whiff/internal/preprocess"
)

// FeatureSet names an ordered list of predictor columns. Each category
// trains once per feature set; the two sets differ only in the two
// plate-location columns, isolating the marginal value of location.
type FeatureSet struct {
	Name    string
	Columns []string
}

// Location is the full kinematic feature set including plate location.
func Location() FeatureSet {
	return FeatureSet{
		Name: "location",
		Columns: []string{
			dataset.ColRelSpeed, dataset.ColSpinAxis,
			dataset.ColRelHeight, dataset.ColRelSide,
			dataset.ColInducedVertBreak, dataset.ColHorzBreak,
			dataset.ColPlateLocHeight, dataset.ColPlateLocSide,
		},
	}
}

// NoLocation is the kinematics-only feature set.
func NoLocation() FeatureSet {
	return FeatureSet{
		Name: "no_location",
		Columns: []string{
			dataset.ColRelSpeed, dataset.ColSpinAxis,
			dataset.ColRelHeight, dataset.ColRelSide,
			dataset.ColInducedVertBreak, dataset.ColHorzBreak,
		},
	}
}

// FeatureSets returns the two feature sets in run order.
func FeatureSets() []FeatureSet {
	return []FeatureSet{Location(), NoLocation()}
}

// Matrix assembles the design matrix and label vector for swings under
// fs. Rows with NaN in any active feature are dropped so the matrices
// stay dense; dropped reports how many were discarded.
func Matrix(swings []preprocess.Swing, fs FeatureSet) (X *mat.Dense, y []float64, dropped int) {
	rows := make([]float64, 0, len(swings)*len(fs.Columns))
	y = make([]float64, 0, len(swings))

swing:
	for _, s := range swings {
		vals := make([]float64, len(fs.Columns))
		for j, col := range fs.Columns {
			v := featureValue(s, col)
			if math.IsNaN(v) {
				dropped++
				continue swing
			}
			vals[j] = v
		}
		rows = append(rows, vals...)
		y = append(y, s.Whiff)
	}

	if len(y) == 0 {
		return nil, nil, dropped
	}
	return mat.NewDense(len(y), len(fs.Columns), rows), y, dropped
}

// labelMatrix shapes a label slice into the n×1 matrix the estimators
// expect.
func labelMatrix(y []float64) *mat.Dense {
	m := mat.NewDense(len(y), 1, nil)
	for i, v := range y {
		m.Set(i, 0, v)
	}
	return m
}

// subsetRows copies the given rows of X and y into fresh matrices.
func subsetRows(X *mat.Dense, y []float64, idx []int) (*mat.Dense, []float64) {
	_, cols := X.Dims()
	out := mat.NewDense(len(idx), cols, nil)
	labels := make([]float64, len(idx))
	for i, row := range idx {
		for j := 0; j < cols; j++ {
			out.Set(i, j, X.At(row, j))
		}
		labels[i] = y[row]
	}
	return out, labels
}

func featureValue(s preprocess.Swing, col string) float64 {
	switch col {
	case dataset.ColRelSpeed:
		return s.RelSpeed
	case dataset.ColSpinRate:
		return s.SpinRate
	case dataset.ColSpinAxis:
		return s.SpinAxis
	case dataset.ColRelHeight:
		return s.RelHeight
	case dataset.ColRelSide:
		return s.RelSide
	case dataset.ColExtension:
		return s.Extension
	case dataset.ColInducedVertBreak:
		return s.InducedVertBreak
	case dataset.ColHorzBreak:
		return s.HorzBreak
	case dataset.ColPlateLocHeight:
		return s.PlateLocHeight
	case dataset.ColPlateLocSide:
		return s.PlateLocSide
	case dataset.ColAngle:
		return s.Angle
	}
	return math.NaN()
}
