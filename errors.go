package hotelsearch

import "github.com/kailas-cloud/hotelsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidCriteria   = domain.ErrInvalidCriteria
	ErrEngineUnavailable = domain.ErrEngineUnavailable
	ErrEngineTimeout     = domain.ErrEngineTimeout
	ErrQueryRejected     = domain.ErrQueryRejected
	ErrMalformedResponse = domain.ErrMalformedResponse
	ErrMalformedHit      = domain.ErrMalformedHit
)

// IsRetryable reports whether err is a transient engine failure worth retrying.
func IsRetryable(err error) bool {
	return domain.IsRetryable(err)
}
