package classify

import "errors"

// ErrBatchTooLarge is returned when a batch exceeds the configured maximum.
var ErrBatchTooLarge = errors.New("batch too large")
