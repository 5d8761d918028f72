// Package dataset loads raw pitch-tracking exports into typed records.
//
// The input is a delimited file with one row per pitch event and a fixed,
// named-column schema. Columns are matched by header name, so extra columns
// and arbitrary column order are accepted; a missing required column is a
// fatal SchemaError.
package dataset

// Column names of the recognized input schema.
const (
	ColPitcherID        = "PitcherId"
	ColBatterID         = "BatterId"
	ColDate             = "Date"
	ColBalls            = "Balls"
	ColStrikes          = "Strikes"
	ColTaggedPitchType  = "TaggedPitchType"
	ColPitchCall        = "PitchCall"
	ColTaggedHitType    = "TaggedHitType"
	ColPlayResult       = "PlayResult"
	ColPitcherThrows    = "PitcherThrows"
	ColRelSpeed         = "RelSpeed"
	ColSpinRate         = "SpinRate"
	ColSpinAxis         = "SpinAxis"
	ColRelHeight        = "RelHeight"
	ColRelSide          = "RelSide"
	ColExtension        = "Extension"
	ColInducedVertBreak = "InducedVertBreak"
	ColHorzBreak        = "HorzBreak"
	ColPlateLocHeight   = "PlateLocHeight"
	ColPlateLocSide     = "PlateLocSide"
	ColAngle            = "Angle"
)

// RequiredColumns returns the full 21-column schema the loader demands,
// in canonical order.
func RequiredColumns() []string {
	return []string{
		ColPitcherID, ColBatterID, ColDate,
		ColBalls, ColStrikes,
		ColTaggedPitchType, ColPitchCall, ColTaggedHitType, ColPlayResult, ColPitcherThrows,
		ColRelSpeed, ColSpinRate, ColSpinAxis, ColRelHeight, ColRelSide, ColExtension,
		ColInducedVertBreak, ColHorzBreak, ColPlateLocHeight, ColPlateLocSide, ColAngle,
	}
}

// Pitch is one raw pitch event, projected onto the recognized schema.
// Numeric cells that are empty or unparsable load as NaN rather than
// failing the row; downstream stages decide how to treat them.
type Pitch struct {
	PitcherID string
	BatterID  string
	Date      string

	Balls   int
	Strikes int

	TaggedPitchType string
	PitchCall       string
	TaggedHitType   string
	PlayResult      string
	PitcherThrows   string

	RelSpeed         float64
	SpinRate         float64
	SpinAxis         float64
	RelHeight        float64
	RelSide          float64
	Extension        float64
	InducedVertBreak float64
	HorzBreak        float64
	PlateLocHeight   float64
	PlateLocSide     float64
	Angle            float64
}

// Pitch-call values that mark a swing. Every other call (taken strikes,
// balls, hit-by-pitch) is discarded during cleaning.
const (
	CallInPlay         = "InPlay"
	CallFoulBall       = "FoulBall"
	CallStrikeSwinging = "StrikeSwinging"
)

// Pitcher handedness values.
const (
	ThrowsLeft  = "Left"
	ThrowsRight = "Right"
)
