package audit

import "errors"

// ErrQueryUnsupported indicates the logger cannot read its events back.
var ErrQueryUnsupported = errors.New("audit: query not supported by this logger")
