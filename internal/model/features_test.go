package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchlab/whiff/internal/preprocess"
)

func TestFeatureSets(t *testing.T) {
	sets := FeatureSets()
	require.Len(t, sets, 2)

	loc, noLoc := sets[0], sets[1]
	assert.Len(t, loc.Columns, 8)
	assert.Len(t, noLoc.Columns, 6)

	// The only difference is the two plate-location columns.
	assert.Equal(t, loc.Columns[:6], noLoc.Columns)
	assert.Contains(t, loc.Columns, "PlateLocHeight")
	assert.Contains(t, loc.Columns, "PlateLocSide")
	assert.NotContains(t, noLoc.Columns, "PlateLocHeight")
	assert.NotContains(t, noLoc.Columns, "PlateLocSide")
}

func TestMatrixShapeAndLabels(t *testing.T) {
	swings := []preprocess.Swing{
		testSwing(90, 200, 1),
		testSwing(85, 150, 0),
		testSwing(95, 220, 1),
	}

	X, y, dropped := Matrix(swings, Location())
	require.NotNil(t, X)
	rows, cols := X.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 8, cols)
	assert.Equal(t, []float64{1, 0, 1}, y)
	assert.Zero(t, dropped)

	assert.InDelta(t, 90.0, X.At(0, 0), 1e-9)
	assert.InDelta(t, 150.0, X.At(1, 1), 1e-9)
}

func TestMatrixDropsNaNRows(t *testing.T) {
	bad := testSwing(90, 200, 1)
	bad.PlateLocHeight = math.NaN()

	X, y, dropped := Matrix([]preprocess.Swing{bad, testSwing(85, 150, 0), testSwing(95, 220, 1)}, Location())
	require.NotNil(t, X)
	rows, _ := X.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, []float64{0, 1}, y)

	// The kinematics-only set never looks at plate location, so the same
	// row survives there.
	X2, _, dropped2 := Matrix([]preprocess.Swing{bad}, NoLocation())
	require.NotNil(t, X2)
	assert.Zero(t, dropped2)
}

func TestMatrixEmptyInput(t *testing.T) {
	X, y, dropped := Matrix(nil, Location())
	assert.Nil(t, X)
	assert.Nil(t, y)
	assert.Zero(t, dropped)
}
