package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchlab/whiff/internal/dataset"
	"github.com/pitchlab/whiff/internal/model"
	"github.com/pitchlab/whiff/internal/preprocess"
)

const csvHeader = "PitcherId,BatterId,Date,Balls,Strikes,TaggedPitchType,PitchCall,TaggedHitType,PlayResult,PitcherThrows," +
	"RelSpeed,SpinRate,SpinAxis,RelHeight,RelSide,Extension,InducedVertBreak,HorzBreak,PlateLocHeight,PlateLocSide,Angle"

// writeTestCSV builds a pitch export with a learnable Fastball partition
// and deliberately thin everything else.
func writeTestCSV(t *testing.T, fastballs int) string {
	t.Helper()

	r := rand.New(rand.NewPCG(3, 9))
	var b strings.Builder
	b.WriteString(csvHeader + "\n")

	row := func(i int, tag, call, throws string, whiffBoost float64) {
		fmt.Fprintf(&b, "p%d,b%d,2024-05-0%d,%d,%d,%s,%s,Undefined,Undefined,%s,"+
			"%.2f,%.0f,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.1f\n",
			i%17, i%29, i%9+1, i%4, i%3, tag, call, throws,
			90+4*r.Float64()+4*whiffBoost,
			2100+400*r.Float64(),
			170+60*r.Float64(),
			5.5+r.Float64(),
			1+r.Float64(),
			5.8+r.Float64(),
			10+8*r.Float64()+3*whiffBoost,
			2+10*r.Float64(),
			1.5+2*r.Float64()+0.8*whiffBoost,
			-1+2*r.Float64(),
			10+20*r.Float64())
	}

	for i := 0; i < fastballs; i++ {
		call := dataset.CallInPlay
		boost := 0.0
		if i%20 < 3 {
			call = dataset.CallStrikeSwinging
			boost = 1
		}
		throws := dataset.ThrowsRight
		if i%5 == 0 {
			throws = dataset.ThrowsLeft
		}
		row(i, "Fastball", call, throws, boost)
	}

	// Rows the cleaning stage must discard.
	row(9001, "Fastball", "StrikeCalled", dataset.ThrowsRight, 0)
	row(9002, "Fastball", dataset.CallInPlay, "Both", 0)
	row(9003, "Other", dataset.CallInPlay, dataset.ThrowsRight, 0)

	// A thin Slider partition: cleaned fine, but far below the training
	// minimum, so its runs are skipped rather than crashing the batch.
	for i := 0; i < 5; i++ {
		row(8000+i, "Slider", dataset.CallFoulBall, dataset.ThrowsRight, 0)
	}

	path := filepath.Join(t.TempDir(), "pitches.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestRunEndToEnd(t *testing.T) {
	path := writeTestCSV(t, 400)

	var out bytes.Buffer
	summary, err := Run(context.Background(), Config{
		DataPath: path,
		Charts:   false,
		Seed:     42,
		Out:      &out,
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Len(t, summary.Runs, 12, "six classes x two feature sets")
	assert.Equal(t, 2, summary.Completed(), "only the Fastball runs have enough rows")
	assert.Equal(t, 10, summary.Skipped())

	for _, run := range summary.Runs {
		if run.Category == preprocess.Fastball {
			require.NoError(t, run.Err)
			require.NotNil(t, run.Artifact)
			assert.InDelta(t, 0.15, run.Artifact.TestWhiffRate, 0.05)
			assert.GreaterOrEqual(t, run.Artifact.Brier, 0.0)
			assert.LessOrEqual(t, run.Artifact.Brier, 1.0)
		} else {
			require.Error(t, run.Err)
			assert.True(t, model.IsRunFailure(run.Err),
				"%s/%s must fail as a thin partition", run.Category, run.FeatureSet)
			assert.Nil(t, run.Artifact)
		}
	}

	text := out.String()
	assert.Contains(t, text, "=== Fastball / location")
	assert.Contains(t, text, "=== Fastball / no_location")
	assert.NotContains(t, text, "=== Slider", "skipped runs produce no report block")
}

func TestRunChartsWritten(t *testing.T) {
	path := writeTestCSV(t, 300)
	chartDir := filepath.Join(t.TempDir(), "charts")

	var out bytes.Buffer
	summary, err := Run(context.Background(), Config{
		DataPath: path,
		ChartDir: chartDir,
		Charts:   true,
		Seed:     42,
		Out:      &out,
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)
	require.Equal(t, 2, summary.Completed())

	entries, err := os.ReadDir(chartDir)
	require.NoError(t, err)
	assert.Len(t, entries, 6, "three charts per completed run")
}

func TestRunSchemaErrorAborts(t *testing.T) {
	// Header missing SpinAxis entirely.
	broken := strings.ReplaceAll(csvHeader, ",SpinAxis", "") + "\n"
	path := filepath.Join(t.TempDir(), "broken.csv")
	require.NoError(t, os.WriteFile(path, []byte(broken), 0o644))

	var out bytes.Buffer
	_, err := Run(context.Background(), Config{
		DataPath: path,
		Seed:     42,
		Out:      &out,
		Logger:   zerolog.Nop(),
	})
	require.Error(t, err)

	var schemaErr *dataset.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
	assert.Empty(t, out.String(), "no training output after a schema error")
}

func TestRunMissingFile(t *testing.T) {
	_, err := Run(context.Background(), Config{
		DataPath: filepath.Join(t.TempDir(), "nope.csv"),
		Seed:     42,
		Out:      &bytes.Buffer{},
		Logger:   zerolog.Nop(),
	})
	assert.Error(t, err)
}

func TestRunHonorsCancellation(t *testing.T) {
	path := writeTestCSV(t, 300)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Config{
		DataPath: path,
		Seed:     42,
		Out:      &bytes.Buffer{},
		Logger:   zerolog.Nop(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
