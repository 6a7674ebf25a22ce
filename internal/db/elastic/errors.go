package elastic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v7/esapi"

	"github.com/kailas-cloud/hotelsearch/internal/domain"
)

type errorBody struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

// transportError classifies a failure to obtain any HTTP response.
func transportError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.EngineError{Op: op, Err: fmt.Errorf("%w: %w", domain.ErrEngineTimeout, err)}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &domain.EngineError{Op: op, Err: fmt.Errorf("%w: %w", domain.ErrEngineUnavailable, err)}
}

// responseError classifies an error status returned by the cluster.
// 429 and 5xx are transient. Other 4xx mean the request itself was refused.
func responseError(op string, res *esapi.Response) error {
	var body errorBody
	reason := ""
	if err := json.NewDecoder(res.Body).Decode(&body); err == nil && body.Error.Type != "" {
		reason = body.Error.Type + ": " + body.Error.Reason
	}

	sentinel := domain.ErrQueryRejected
	switch {
	case res.StatusCode == http.StatusTooManyRequests, res.StatusCode >= http.StatusInternalServerError:
		sentinel = domain.ErrEngineUnavailable
	case res.StatusCode == http.StatusRequestTimeout:
		sentinel = domain.ErrEngineTimeout
	}
	return &domain.EngineError{Op: op, Status: res.StatusCode, Reason: reason, Err: sentinel}
}

func malformedError(op string, status int, err error) error {
	return &domain.EngineError{Op: op, Status: status, Err: fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)}
}
