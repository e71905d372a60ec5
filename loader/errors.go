package loader

import (
	"errors"
	"fmt"
)

var errMissingValue = errors.New("missing value")

// RecordConversionError reports a source record whose field could not be
// converted. The record is skipped; loading continues.
type RecordConversionError struct {
	Row   int
	Field string
	Value any
	Err   error
}

func (e *RecordConversionError) Error() string {
	return fmt.Sprintf("row %d: cannot convert %s value %#v: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *RecordConversionError) Unwrap() error {
	return e.Err
}
