package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrSliceNotFound   = errors.New("slice not found")
)

// IndexError reports an index that does not resolve to a file
type IndexError struct {
	Kind  error
	Index int

	// Count is the number of entries the index was checked against
	Count int

	// Path is set when the index was in range but the file is missing
	Path string
}

func (e *IndexError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%v: index %d: %s", e.Kind, e.Index, e.Path)
	}
	return fmt.Sprintf("%v: index %d out of range [0, %d)", e.Kind, e.Index, e.Count)
}

func (e *IndexError) Unwrap() error {
	return e.Kind
}
