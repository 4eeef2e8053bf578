package seqcore

import "errors"

// ErrOutOfRange is matched by every bounds-checked access failure.
var ErrOutOfRange = errors.New("seq: index out of range")
