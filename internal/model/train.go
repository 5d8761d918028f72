// Package model fits and evaluates one gradient-boosted whiff classifier
// per (pitch class, feature set) pair: stratified splitting, LightGBM
// fitting, test-set metrics, and Platt calibration on a held-out slice
// of the training rows.
package model

import (
	"sort"

	"github.com/YuminosukeSato/scigo/metrics"
	"github.com/YuminosukeSato/scigo/sklearn/lightgbm"
	"github.com/YuminosukeSato/scigo/sklearn/linear_model"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/pitchlab/whiff/internal/preprocess"
)

// Modeling constants. These are deliberately not configurable: the runs
// are only comparable to each other when every partition trains under
// identical settings.
const (
	// TestFraction of each partition is held out for evaluation.
	TestFraction = 0.2
	// CalibFraction of the training side is held out again to fit the
	// Platt calibrator, so calibration never sees the test rows.
	CalibFraction = 0.25

	// MinPartitionRows is the smallest usable partition. Below this the
	// 80/20 split leaves too few test rows for the metrics to mean
	// anything, so the run fails with EmptyPartitionError instead.
	MinPartitionRows = 40

	boostRounds     = 100
	learningRate    = 0.05
	maxDepth        = 6
	subsample       = 0.8
	colsampleBytree = 0.8
	// Whiffs are the minority class; upweighting them keeps the trees
	// from collapsing onto the contact majority.
	scalePosWeight = 2.5

	probThreshold = 0.5
)

// RunConfig identifies one training run.
type RunConfig struct {
	Category preprocess.PitchClass
	Features FeatureSet
	Seed     uint64
}

// FeatureImportance is one predictor's share of the model's total
// split gain.
type FeatureImportance struct {
	Feature string
	Gain    float64
}

// Artifact bundles a fitted classifier with its evaluation outputs.
// Artifacts live for one process run; nothing is persisted.
type Artifact struct {
	RunID    uuid.UUID
	Category preprocess.PitchClass
	Features FeatureSet

	Classifier *lightgbm.LGBMClassifier
	Calibrator *linear_model.LogisticRegression

	TrainRows      int
	TestRows       int
	TrainWhiffRate float64
	TestWhiffRate  float64
	DroppedRows    int

	Accuracy        float64
	Brier           float64
	CalibratedBrier float64
	AUC             float64
	// Confusion is indexed [actual][predicted] over {0,1}.
	Confusion [2][2]int

	YTest           []float64
	RawProbs        []float64
	CalibratedProbs []float64
	Importance      []FeatureImportance
}

// Train fits and evaluates one classifier over the given partition.
// Partitions that are too small or carry a single label value fail with
// the typed errors from this package; the caller decides whether those
// abort anything beyond this run.
func Train(cfg RunConfig, swings []preprocess.Swing, logger zerolog.Logger) (*Artifact, error) {
	category := string(cfg.Category)

	X, y, dropped := Matrix(swings, cfg.Features)
	if X == nil || len(y) < MinPartitionRows {
		return nil, NewEmptyPartitionError(category, len(y), MinPartitionRows)
	}
	if single, label := singleLabel(y); single {
		return nil, NewDegenerateLabelError(category, "partition", label)
	}

	trainIdx, testIdx, err := StratifiedSplit(y, TestFraction, cfg.Seed)
	if err != nil {
		return nil, errors.Wrapf(err, "splitting %s/%s", category, cfg.Features.Name)
	}
	XTrain, yTrain := subsetRows(X, y, trainIdx)
	XTest, yTest := subsetRows(X, y, testIdx)

	// Second stratified cut inside the training side: the calibrator
	// must be fit on rows the booster never trained on and the test
	// metrics never touch.
	fitIdx, calibIdx, err := StratifiedSplit(yTrain, CalibFraction, cfg.Seed+1)
	if err != nil {
		return nil, errors.Wrapf(err, "calibration split %s/%s", category, cfg.Features.Name)
	}
	XFit, yFit := subsetRows(XTrain, yTrain, fitIdx)
	XCalib, yCalib := subsetRows(XTrain, yTrain, calibIdx)
	if single, label := singleLabel(yFit); single {
		return nil, NewDegenerateLabelError(category, "fit", label)
	}
	if single, label := singleLabel(yCalib); single {
		return nil, NewDegenerateLabelError(category, "calibration", label)
	}

	logger.Info().
		Str("category", category).
		Str("feature_set", cfg.Features.Name).
		Int("rows", len(y)).
		Int("fit_rows", len(yFit)).
		Int("calib_rows", len(yCalib)).
		Int("test_rows", len(yTest)).
		Int("nan_dropped", dropped).
		Msg("training whiff classifier")

	clf := lightgbm.NewLGBMClassifier().
		WithNumIterations(boostRounds).
		WithLearningRate(learningRate)
	if err := clf.SetParams(map[string]interface{}{
		"objective":        "binary",
		"max_depth":        maxDepth,
		"subsample":        subsample,
		"colsample_bytree": colsampleBytree,
		"scale_pos_weight": scalePosWeight,
		"random_state":     int(cfg.Seed),
		"deterministic":    true,
	}); err != nil {
		return nil, errors.Wrap(err, "setting booster parameters")
	}
	if err := clf.Fit(XFit, labelMatrix(yFit)); err != nil {
		return nil, errors.Wrapf(err, "fitting %s/%s", category, cfg.Features.Name)
	}

	rawProbs, err := positiveProbs(clf.PredictProba(XTest))
	if err != nil {
		return nil, errors.Wrap(err, "predicting test probabilities")
	}

	accuracy, confusion := evaluateHard(yTest, rawProbs)
	brier, err := brierScore(yTest, rawProbs)
	if err != nil {
		return nil, err
	}
	auc, err := metrics.AUC(mat.NewVecDense(len(yTest), yTest), mat.NewVecDense(len(rawProbs), rawProbs))
	if err != nil {
		return nil, errors.Wrap(err, "computing AUC")
	}

	calibrator, calibrated, err := calibrate(clf, XCalib, yCalib, rawProbs, cfg.Seed)
	if err != nil {
		return nil, errors.Wrapf(err, "calibrating %s/%s", category, cfg.Features.Name)
	}
	calibratedBrier, err := brierScore(yTest, calibrated)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		RunID:      uuid.New(),
		Category:   cfg.Category,
		Features:   cfg.Features,
		Classifier: clf,
		Calibrator: calibrator,

		TrainRows:      len(yTrain),
		TestRows:       len(yTest),
		TrainWhiffRate: whiffRate(yTrain, nil),
		TestWhiffRate:  whiffRate(yTest, nil),
		DroppedRows:    dropped,

		Accuracy:        accuracy,
		Brier:           brier,
		CalibratedBrier: calibratedBrier,
		AUC:             auc,
		Confusion:       confusion,

		YTest:           yTest,
		RawProbs:        rawProbs,
		CalibratedProbs: calibrated,
		Importance:      rankImportance(clf, cfg.Features),
	}, nil
}

// calibrate fits a one-variable Platt calibrator on the calibration rows
// and maps the test probabilities through it.
func calibrate(clf *lightgbm.LGBMClassifier, XCalib *mat.Dense, yCalib, rawProbs []float64, seed uint64) (*linear_model.LogisticRegression, []float64, error) {
	calibInput, err := positiveProbs(clf.PredictProba(XCalib))
	if err != nil {
		return nil, nil, errors.Wrap(err, "predicting calibration probabilities")
	}

	lr := linear_model.NewLogisticRegression(
		linear_model.WithLRMaxIter(500),
		linear_model.WithLRRandomState(int64(seed)),
	)
	if err := lr.Fit(columnMatrix(calibInput), labelMatrix(yCalib)); err != nil {
		return nil, nil, errors.Wrap(err, "fitting calibrator")
	}

	calibrated, err := positiveProbs(lr.PredictProba(columnMatrix(rawProbs)))
	if err != nil {
		return nil, nil, errors.Wrap(err, "applying calibrator")
	}
	return lr, calibrated, nil
}

// evaluateHard thresholds probabilities at 0.5 and returns accuracy plus
// the 2x2 confusion counts indexed [actual][predicted].
func evaluateHard(yTrue, probs []float64) (float64, [2][2]int) {
	var confusion [2][2]int
	correct := 0
	for i, p := range probs {
		pred := 0
		if p >= probThreshold {
			pred = 1
		}
		actual := int(yTrue[i])
		confusion[actual][pred]++
		if pred == actual {
			correct++
		}
	}
	return float64(correct) / float64(len(probs)), confusion
}

// brierScore is the mean squared error between predicted probability and
// the binary outcome.
func brierScore(yTrue, probs []float64) (float64, error) {
	score, err := metrics.MSE(mat.NewVecDense(len(yTrue), yTrue), mat.NewVecDense(len(probs), probs))
	if err != nil {
		return 0, errors.Wrap(err, "computing Brier score")
	}
	return score, nil
}

// positiveProbs extracts the positive-class column from an n×2
// probability matrix.
func positiveProbs(proba mat.Matrix, err error) ([]float64, error) {
	if err != nil {
		return nil, err
	}
	rows, cols := proba.Dims()
	if cols < 2 {
		return nil, errors.Newf("probability matrix has %d columns, want 2", cols)
	}
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = proba.At(i, 1)
	}
	return out, nil
}

// columnMatrix shapes a slice into the n×1 design matrix the calibrator
// consumes.
func columnMatrix(v []float64) *mat.Dense {
	m := mat.NewDense(len(v), 1, nil)
	for i, x := range v {
		m.Set(i, 0, x)
	}
	return m
}

// rankImportance pairs the booster's gain statistics with the feature
// names, sorted by descending gain.
func rankImportance(clf *lightgbm.LGBMClassifier, fs FeatureSet) []FeatureImportance {
	gains := clf.GetFeatureImportance("gain")
	ranked := make([]FeatureImportance, 0, len(fs.Columns))
	for i, col := range fs.Columns {
		gain := 0.0
		if i < len(gains) {
			gain = gains[i]
		}
		ranked = append(ranked, FeatureImportance{Feature: col, Gain: gain})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Gain > ranked[j].Gain
	})
	return ranked
}

func singleLabel(y []float64) (bool, float64) {
	for _, v := range y[1:] {
		if v != y[0] {
			return false, 0
		}
	}
	return true, y[0]
}
