// Package llm holds the error taxonomy shared by completion backends.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrTimeout reports that the completion API did not answer in time.
var ErrTimeout = errors.New("completion request timed out")

// StatusError captures a non-200 reply from the completion API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected upstream status %d: %s", e.StatusCode, e.Body)
}

// IsTimeout reports whether err stems from an exceeded deadline, either
// ours or the transport's.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
