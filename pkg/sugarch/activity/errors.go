package activity

import "errors"

// ErrInvalidMode is returned when subscribing with a mode outside the
// defined set.
var ErrInvalidMode = errors.New("invalid subscription mode")

// ErrNilListener is returned when subscribing with a nil callback.
var ErrNilListener = errors.New("listener is required")
