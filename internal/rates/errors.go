package rates

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable wraps any failure of the fact store
var ErrStoreUnavailable = errors.New("rate store unavailable")

// InvalidRangeError is returned for a date range the service refuses to
// aggregate. It is detected before any store access.
type InvalidRangeError struct {
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return e.Reason
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
