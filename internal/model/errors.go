package model

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// EmptyPartitionError reports a pitch-class subset too small to split
// and fit. It is terminal for the run it affects; sibling runs proceed.
type EmptyPartitionError struct {
	Category string
	Rows     int
	Min      int
}

func (e *EmptyPartitionError) Error() string {
	return fmt.Sprintf("partition %s has %d usable rows, need at least %d", e.Category, e.Rows, e.Min)
}

// MarshalZerologObject adds the structured failure to a log event.
func (e *EmptyPartitionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("category", e.Category).
		Int("rows", e.Rows).
		Int("min_rows", e.Min).
		Str("type", "EmptyPartitionError")
}

// NewEmptyPartitionError creates an EmptyPartitionError with stack
// trace information.
func NewEmptyPartitionError(category string, rows, min int) error {
	return errors.WithStack(&EmptyPartitionError{Category: category, Rows: rows, Min: min})
}

// DegenerateLabelError reports a subset carrying only one label value
// (all whiffs or no whiffs). Fitting and calibration are undefined there,
// so the run surfaces this instead of a numerical failure from the
// boosting routine.
type DegenerateLabelError struct {
	Category string
	Stage    string
	Label    float64
}

func (e *DegenerateLabelError) Error() string {
	return fmt.Sprintf("partition %s: %s rows all carry label %g, cannot fit a binary classifier",
		e.Category, e.Stage, e.Label)
}

// MarshalZerologObject adds the structured failure to a log event.
func (e *DegenerateLabelError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("category", e.Category).
		Str("stage", e.Stage).
		Float64("label", e.Label).
		Str("type", "DegenerateLabelError")
}

// NewDegenerateLabelError creates a DegenerateLabelError with stack
// trace information.
func NewDegenerateLabelError(category, stage string, label float64) error {
	return errors.WithStack(&DegenerateLabelError{Category: category, Stage: stage, Label: label})
}

// IsRunFailure reports whether err is one of the per-run terminal
// conditions the pipeline isolates rather than aborting the batch.
func IsRunFailure(err error) bool {
	var empty *EmptyPartitionError
	var degen *DegenerateLabelError
	return errors.As(err, &empty) || errors.As(err, &degen)
}
