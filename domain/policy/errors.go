package policy

import "errors"

// ErrReadOnly indicates a mutating operation was attempted in read-only mode.
var ErrReadOnly = errors.New("server is in read-only mode")
