package shapego

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongDatasetType is returned when a container holds a different
	// representer kind than the one being loaded.
	ErrWrongDatasetType = errors.New("wrong dataset type")
	// ErrInvalidPointIndex is returned for a point id outside the sample.
	ErrInvalidPointIndex = errors.New("invalid point index")
	// ErrNilDataset is returned when a nil dataset is passed in.
	ErrNilDataset = errors.New("nil dataset")
	// ErrNonUniformCells is returned when saving cells of differing arity.
	ErrNonUniformCells = errors.New("cells of mixed arity are not supported")
	// ErrEmptySampleMatrix is returned when a batch conversion has no rows or columns.
	ErrEmptySampleMatrix = errors.New("empty sample matrix")
)

// ModelError is the single error kind returned by representer operations.
// The cause is available through errors.Is and errors.As.
type ModelError struct {
	Op  string
	Err error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("shapego: %s: %v", e.Op, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// ErrDimensionMismatch indicates a vector whose length does not match the
// representer's layout.
//
// The underlying error, if any, is available through errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrPointCountMismatch indicates a dataset whose point count is
// incompatible with the reference.
type ErrPointCountMismatch struct {
	Expected int
	Actual   int
	// Exact is set when the counts must be equal rather than Actual >= Expected.
	Exact bool
}

func (e *ErrPointCountMismatch) Error() string {
	if e.Exact {
		return fmt.Sprintf("point count mismatch: expected exactly %d, got %d", e.Expected, e.Actual)
	}
	return fmt.Sprintf("point count mismatch: expected at least %d, got %d", e.Expected, e.Actual)
}

func modelError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*ModelError); ok {
		return err
	}
	return &ModelError{Op: op, Err: err}
}
