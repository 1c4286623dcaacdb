package rest

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnexpectedStatus = errors.New("rest: unexpected status")

// APIError is a non-2xx response classified by HTTP status and the
// platform's own error code.
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("rest: api error: status=%d code=%d", e.Status, e.Code)
	}
	return fmt.Sprintf("rest: api error: status=%d code=%d: %s", e.Status, e.Code, e.Message)
}

// RateLimitError reports a 429 along with how long the caller must
// wait before retrying. Scheduling the retry is the caller's problem;
// this client only surfaces the delay.
type RateLimitError struct {
	RetryAfter time.Duration
	Global     bool
}

func (e *RateLimitError) Error() string {
	scope := "route"
	if e.Global {
		scope = "global"
	}
	return fmt.Sprintf("rest: rate limited (%s): retry after %s", scope, e.RetryAfter)
}
