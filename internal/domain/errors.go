package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCriteria signals a search request that fails validation.
	ErrInvalidCriteria = errors.New("invalid search criteria")
	// ErrInvalidGeoPoint signals a malformed "lat,lon" coordinate string.
	ErrInvalidGeoPoint = errors.New("invalid geo point")
	// ErrInvalidHotel signals a hotel document that fails validation.
	ErrInvalidHotel = errors.New("invalid hotel document")

	// ErrEngineUnavailable signals a transient search engine failure (network, 429, 5xx).
	ErrEngineUnavailable = errors.New("search engine unavailable")
	// ErrEngineTimeout signals that the engine call exceeded its deadline.
	ErrEngineTimeout = errors.New("search engine timeout")
	// ErrQueryRejected signals that the engine refused the query (4xx).
	ErrQueryRejected = errors.New("query rejected by search engine")
	// ErrMalformedResponse signals an engine response that could not be decoded.
	ErrMalformedResponse = errors.New("malformed search engine response")
	// ErrMalformedHit signals a hit whose stored source could not be projected.
	ErrMalformedHit = errors.New("malformed search hit")

	// ErrUnknownEvent signals an index event type the sync worker does not handle.
	ErrUnknownEvent = errors.New("unknown index event")
)

// EngineError wraps a search engine failure with the operation and HTTP status for diagnostics.
// Err is always one of ErrEngineUnavailable, ErrEngineTimeout, ErrQueryRejected, ErrMalformedResponse.
type EngineError struct {
	Op     string
	Status int
	Reason string
	Err    error
}

func (e *EngineError) Error() string {
	msg := e.Op + ": " + e.Err.Error()
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *EngineError) Unwrap() error { return e.Err }

// Retryable reports whether the same request may succeed if repeated.
func (e *EngineError) Retryable() bool {
	return errors.Is(e.Err, ErrEngineUnavailable) || errors.Is(e.Err, ErrEngineTimeout)
}

// IsRetryable reports whether err carries a retryable engine failure.
func IsRetryable(err error) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Retryable()
	}
	return errors.Is(err, ErrEngineUnavailable) || errors.Is(err, ErrEngineTimeout)
}

// MalformedHitError identifies the hit that failed projection.
type MalformedHitError struct {
	HitID string
	Err   error
}

func (e *MalformedHitError) Error() string {
	return fmt.Sprintf("%s: hit %q: %v", ErrMalformedHit.Error(), e.HitID, e.Err)
}

func (e *MalformedHitError) Unwrap() []error { return []error{ErrMalformedHit, e.Err} }
