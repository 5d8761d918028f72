// Package pipeline composes the whole batch: load the pitch export,
// clean it into swings, partition by pitch class, train the twelve
// (class, feature set) classifiers strictly in sequence, and report
// each one. Data flows forward only; no stage reads back from a later
// one.
package pipeline

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/pitchlab/whiff/internal/dataset"
	"github.com/pitchlab/whiff/internal/model"
	"github.com/pitchlab/whiff/internal/preprocess"
	"github.com/pitchlab/whiff/internal/report"
)

// Config carries the run-level settings. Modeling tunables are fixed
// constants in the model package and deliberately absent here.
type Config struct {
	// DataPath is the delimited pitch export to load.
	DataPath string
	// ChartDir receives the diagnostic PNGs when Charts is set.
	ChartDir string
	Charts   bool
	// Seed drives every stratified split and booster; the same seed and
	// input reproduce the batch exactly.
	Seed uint64
	// Out receives the per-run text reports.
	Out    io.Writer
	Logger zerolog.Logger
}

// RunResult records the outcome of one (class, feature set) run.
// Exactly one of Artifact and Err is set.
type RunResult struct {
	Category   preprocess.PitchClass
	FeatureSet string
	Artifact   *model.Artifact
	Err        error
}

// Summary is the batch outcome: every run in execution order.
type Summary struct {
	Runs []RunResult
}

// Completed returns the number of runs that produced an artifact.
func (s *Summary) Completed() int {
	n := 0
	for _, r := range s.Runs {
		if r.Err == nil {
			n++
		}
	}
	return n
}

// Skipped returns the number of runs that failed.
func (s *Summary) Skipped() int {
	return len(s.Runs) - s.Completed()
}

// Run executes the batch. Schema and read errors abort before any
// training. Per-run failures (empty or single-label partitions) are
// logged, recorded in the summary, and do not touch sibling runs.
func Run(ctx context.Context, cfg Config) (*Summary, error) {
	logger := cfg.Logger

	pitches, err := dataset.Load(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("pitches", len(pitches)).Str("path", cfg.DataPath).Msg("loaded pitch data")

	swings, err := preprocess.Clean(pitches)
	if err != nil {
		return nil, errors.Wrap(err, "cleaning pitch data")
	}
	logger.Info().Int("swings", len(swings)).Msg("cleaned to swing records")

	partitions := preprocess.Partition(swings)

	summary := &Summary{}
	for _, class := range preprocess.Classes() {
		for _, fs := range model.FeatureSets() {
			if err := ctx.Err(); err != nil {
				return summary, errors.Wrap(err, "batch interrupted")
			}

			result := RunResult{Category: class, FeatureSet: fs.Name}
			artifact, err := model.Train(model.RunConfig{
				Category: class,
				Features: fs,
				Seed:     cfg.Seed,
			}, partitions[class], logger)

			switch {
			case err == nil:
				result.Artifact = artifact
				if werr := report.WriteText(cfg.Out, artifact); werr != nil {
					return summary, errors.Wrap(werr, "writing report")
				}
				if cfg.Charts {
					if cerr := report.SaveCharts(cfg.ChartDir, artifact); cerr != nil {
						return summary, cerr
					}
				}
			case model.IsRunFailure(err):
				result.Err = err
				logger.Warn().
					Str("category", string(class)).
					Str("feature_set", fs.Name).
					Err(err).
					Msg("skipping run")
			default:
				// Unexpected failures are still confined to their run,
				// but logged at error level so they are not mistaken
				// for thin partitions.
				result.Err = err
				logger.Error().
					Str("category", string(class)).
					Str("feature_set", fs.Name).
					Err(err).
					Msg("run failed")
			}
			summary.Runs = append(summary.Runs, result)
		}
	}

	logger.Info().
		Int("completed", summary.Completed()).
		Int("skipped", summary.Skipped()).
		Msg("batch finished")
	return summary, nil
}
