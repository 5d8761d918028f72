package dataset

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// SchemaError reports required columns absent from the input header.
// It aborts the batch before any training starts.
type SchemaError struct {
	Path    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input %s: schema missing %d required column(s): %s",
		e.Path, len(e.Missing), strings.Join(e.Missing, ", "))
}

// MarshalZerologObject adds the structured schema failure to a log event.
func (e *SchemaError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		Strs("missing_columns", e.Missing).
		Str("type", "SchemaError")
}

// NewSchemaError creates a SchemaError with stack trace information.
func NewSchemaError(path string, missing []string) error {
	return errors.WithStack(&SchemaError{Path: path, Missing: missing})
}
