package workbook

import (
	"errors"
	"fmt"
)

// ErrNoData matches any NoDataError.
var ErrNoData = errors.New("no data")

// NoDataError is returned when the source grid is empty.
type NoDataError struct {
	Range string
}

func (e *NoDataError) Error() string {
	if e.Range != "" {
		return fmt.Sprintf("no data in spreadsheet range %v", e.Range)
	}

	return "no data in spreadsheet"
}

func (e *NoDataError) Is(target error) bool {
	return target == ErrNoData
}

// CellFormatError records a data cell in a numeric column that does not hold a
// number. It is logged and the cell keeps its default display format.
type CellFormatError struct {
	Cell  string
	Value string
	Err   error
}

func (e *CellFormatError) Error() string {
	return fmt.Sprintf("cell %v: '%v' is not numeric (%v)", e.Cell, e.Value, e.Err)
}

func (e *CellFormatError) Unwrap() error {
	return e.Err
}
