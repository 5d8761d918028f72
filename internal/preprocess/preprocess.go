// Package preprocess turns raw pitch events into analysis-ready swing
// records: deduplicated, restricted to swings, normalized to a
// right-handed-pitcher reference frame, re-binned into a closed set of
// pitch classes, and labeled with the binary whiff outcome.
package preprocess

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"

	"github.com/pitchlab/whiff/internal/dataset"
)

// PitchClass is one of the six modeling categories every retained swing
// is re-binned into. The set is closed; cleaning fails on any tag that
// does not map into it.
type PitchClass string

const (
	Fastball    PitchClass = "Fastball"
	SecFastball PitchClass = "Sec_Fastball"
	Cutter      PitchClass = "Cutter"
	Offspeed    PitchClass = "Offspeed"
	Curveball   PitchClass = "Curveball"
	Slider      PitchClass = "Slider"
)

// Classes returns the six pitch classes in canonical reporting order.
func Classes() []PitchClass {
	return []PitchClass{Fastball, SecFastball, Cutter, Offspeed, Curveball, Slider}
}

// Swing is a cleaned swing record: a Pitch that survived filtering, with
// handedness-adjusted kinematics, its re-binned class, and the derived
// whiff label (1 if the swing missed, else 0). The label is a float64
// because it feeds gonum matrices directly.
type Swing struct {
	dataset.Pitch

	Class PitchClass
	Whiff float64
}

// Clean runs the fixed, order-sensitive cleaning sequence over raw
// pitches and returns the swing table. The input slice is not modified;
// every transformation happens on copies.
//
// An unmapped pitch-type tag after the drop filters is an error rather
// than a silent pass-through, so a schema drift in the tagging upstream
// surfaces immediately instead of producing a stray category.
func Clean(pitches []dataset.Pitch) ([]Swing, error) {
	swings := make([]Swing, 0, len(pitches))
	seen := make(map[string]struct{}, len(pitches))

	for _, p := range pitches {
		// 1. Exact duplicates (double-logged events in the export).
		key := dedupeKey(p)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		// 2. A swing occurred.
		if !isSwing(p.PitchCall) {
			continue
		}

		// 3. Handedness must be well defined for the mirror step.
		if p.PitcherThrows != dataset.ThrowsLeft && p.PitcherThrows != dataset.ThrowsRight {
			continue
		}

		// 4. Unusable pitch-type tags.
		if droppedTag(p.TaggedPitchType) {
			continue
		}

		class, err := Rebin(p.TaggedPitchType)
		if err != nil {
			return nil, err
		}

		s := Swing{Pitch: p, Class: class}

		// Mirror left-handed deliveries onto the right-handed frame so
		// the models treat both-handed pitchers symmetrically.
		if p.PitcherThrows == dataset.ThrowsLeft {
			s.SpinAxis = 360 - p.SpinAxis
			s.RelSide = math.Abs(p.RelSide)
			s.HorzBreak = math.Abs(p.HorzBreak)
		}

		if p.PitchCall == dataset.CallStrikeSwinging {
			s.Whiff = 1
		}

		swings = append(swings, s)
	}

	return swings, nil
}

// Partition splits the cleaned table into six disjoint subsets by class.
// The cover is exhaustive: every class has an entry even when empty, so
// downstream training fails with a clear diagnostic instead of silently
// skipping a category.
func Partition(swings []Swing) map[PitchClass][]Swing {
	parts := make(map[PitchClass][]Swing, len(Classes()))
	for _, c := range Classes() {
		parts[c] = nil
	}
	for _, s := range swings {
		parts[s.Class] = append(parts[s.Class], s)
	}
	return parts
}

// Rebin maps a raw pitch-type tag onto its modeling class. The match is
// exhaustive: a tag outside the known vocabulary is an error.
func Rebin(tag string) (PitchClass, error) {
	switch tag {
	case "Fastball", "FourSeamFastBall":
		return Fastball, nil
	case "OneSeamFastball", "Sinker", "TwoSeamFastBall":
		return SecFastball, nil
	case "Cutter":
		return Cutter, nil
	case "ChangeUp", "Knuckleball", "Splitter":
		return Offspeed, nil
	case "Curveball":
		return Curveball, nil
	case "Slider":
		return Slider, nil
	default:
		return "", errors.Newf("unmapped pitch-type tag %q", tag)
	}
}

func isSwing(call string) bool {
	switch call {
	case dataset.CallInPlay, dataset.CallFoulBall, dataset.CallStrikeSwinging:
		return true
	}
	return false
}

// droppedTag reports raw pitch-type tags with no analytic value:
// explicit unknowns and the comma placeholder some exports emit.
func droppedTag(tag string) bool {
	switch tag {
	case "Other", "Undefined", "", ",":
		return true
	}
	return false
}

// dedupeKey formats every projected field of the record. Formatting
// rather than comparing structs keeps NaN-valued duplicates equal.
func dedupeKey(p dataset.Pitch) string {
	return fmt.Sprintf("%s|%s|%s|%d|%d|%s|%s|%s|%s|%s|%v|%v|%v|%v|%v|%v|%v|%v|%v|%v|%v",
		p.PitcherID, p.BatterID, p.Date, p.Balls, p.Strikes,
		p.TaggedPitchType, p.PitchCall, p.TaggedHitType, p.PlayResult, p.PitcherThrows,
		p.RelSpeed, p.SpinRate, p.SpinAxis, p.RelHeight, p.RelSide, p.Extension,
		p.InducedVertBreak, p.HorzBreak, p.PlateLocHeight, p.PlateLocSide, p.Angle)
}
