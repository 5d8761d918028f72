package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Load reads the delimited pitch export at path into memory. The file
// handle is scoped to this call; nothing in the pipeline re-reads the
// input after Load returns.
//
// Header names are matched case-sensitively and surrounding whitespace is
// ignored. Rows with the wrong field count are rejected by the CSV layer.
func Load(path string) ([]Pitch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening pitch data %s", path)
	}
	defer f.Close()

	pitches, err := Read(f, path)
	if err != nil {
		return nil, err
	}
	return pitches, nil
}

// Read parses pitch records from r. The name is used only in diagnostics.
func Read(r io.Reader, name string) ([]Pitch, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "reading header of %s", name)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range RequiredColumns() {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, NewSchemaError(name, missing)
	}

	var pitches []Pitch
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s line %d", name, line)
		}

		cell := func(col string) string {
			return strings.TrimSpace(record[idx[col]])
		}

		pitches = append(pitches, Pitch{
			PitcherID: cell(ColPitcherID),
			BatterID:  cell(ColBatterID),
			Date:      cell(ColDate),

			Balls:   parseCount(cell(ColBalls)),
			Strikes: parseCount(cell(ColStrikes)),

			TaggedPitchType: cell(ColTaggedPitchType),
			PitchCall:       cell(ColPitchCall),
			TaggedHitType:   cell(ColTaggedHitType),
			PlayResult:      cell(ColPlayResult),
			PitcherThrows:   cell(ColPitcherThrows),

			RelSpeed:         parseMeasurement(cell(ColRelSpeed)),
			SpinRate:         parseMeasurement(cell(ColSpinRate)),
			SpinAxis:         parseMeasurement(cell(ColSpinAxis)),
			RelHeight:        parseMeasurement(cell(ColRelHeight)),
			RelSide:          parseMeasurement(cell(ColRelSide)),
			Extension:        parseMeasurement(cell(ColExtension)),
			InducedVertBreak: parseMeasurement(cell(ColInducedVertBreak)),
			HorzBreak:        parseMeasurement(cell(ColHorzBreak)),
			PlateLocHeight:   parseMeasurement(cell(ColPlateLocHeight)),
			PlateLocSide:     parseMeasurement(cell(ColPlateLocSide)),
			Angle:            parseMeasurement(cell(ColAngle)),
		})
	}

	return pitches, nil
}

// parseMeasurement converts a kinematic cell to float64. Empty and
// unparsable cells become NaN so that a single bad sensor reading does
// not discard the whole row at load time.
func parseMeasurement(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseCount converts a count-state cell (balls, strikes) to int,
// defaulting to zero on empty or malformed cells.
func parseCount(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
