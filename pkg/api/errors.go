package api

import (
	"errors"
	"net/http"

	"hpmri/pkg/catalog"
	"hpmri/pkg/enhance"
	"hpmri/pkg/hpmri"
	"hpmri/pkg/mrd"
	"hpmri/pkg/volume"
)

// StatusError is an error with an associated HTTP status code
type StatusError struct {
	Code int
	Err  error
}

func (se StatusError) Error() string {
	return se.Err.Error()
}

func (se StatusError) Unwrap() error {
	return se.Err
}

// Status - Returns our HTTP status code.
func (se StatusError) Status() int {
	return se.Code
}

// badRequest wraps a request parsing failure
func badRequest(err error) StatusError {
	return StatusError{Code: http.StatusBadRequest, Err: err}
}

// statusFor maps the failure kinds of the lower layers to HTTP statuses:
// unknown indices are 404, bad parameters 400 and malformed files 422.
func statusFor(err error) int {
	var se StatusError
	if errors.As(err, &se) {
		return se.Code
	}

	switch {
	case errors.Is(err, catalog.ErrDatasetNotFound), errors.Is(err, catalog.ErrSliceNotFound):
		return http.StatusNotFound
	case errors.Is(err, hpmri.ErrInvalidThreshold),
		errors.Is(err, enhance.ErrInvalidContrast),
		errors.Is(err, volume.ErrPositionOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, mrd.ErrTruncatedHeader),
		errors.Is(err, mrd.ErrTruncatedPayload),
		errors.Is(err, mrd.ErrUnknownSampleFormat),
		errors.Is(err, mrd.ErrDimensionOverflow),
		errors.Is(err, mrd.ErrInvalidExtent),
		errors.Is(err, enhance.ErrDegenerateSlice):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
