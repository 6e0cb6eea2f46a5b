package hpmri

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"hpmri/pkg/mrd"
)

var ErrInvalidThreshold = errors.New("invalid threshold")

// ThresholdError carries the rejected threshold
type ThresholdError struct {
	Value float64
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("%v: %v (must be a non-negative number)", ErrInvalidThreshold, e.Value)
}

func (e *ThresholdError) Unwrap() error {
	return ErrInvalidThreshold
}

// Threshold returns a copy of arr in which every sample whose magnitude is
// below threshold is zero. A threshold of 0 keeps everything; +Inf masks
// everything. arr itself is not modified.
func Threshold(arr *mrd.Array, threshold float64) (*mrd.Array, error) {
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}

	out := arr.Clone()
	if math.IsInf(threshold, 1) {
		// NaN and infinite samples never compare below +Inf
		for i := range out.Data {
			out.Data[i] = 0
		}
		return out, nil
	}

	for i, v := range out.Data {
		if cmplx.Abs(v) < threshold {
			out.Data[i] = 0
		}
	}
	return out, nil
}

func validateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < 0 {
		return &ThresholdError{Value: threshold}
	}
	return nil
}
