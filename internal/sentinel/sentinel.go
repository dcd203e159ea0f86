package sentinel

import "errors"

// ErrNotFound is wrapped by every store's not-found error so callers can
// test for absence without importing the store's package.
var ErrNotFound = errors.New("not found")
