package generators

import "errors"

// ErrRetryable marks transient failures, rate limits mostly, that the
// caller may retry without changing the request.
var ErrRetryable = errors.New("retryable")
