package seq

import (
	"fmt"

	"github.com/goforj/seq/seqcore"
)

// ErrOutOfRange is matched by every bounds-checked access failure.
var ErrOutOfRange = seqcore.ErrOutOfRange

// RangeError reports an access at Index on a sequence holding Size elements.
type RangeError struct {
	Index int
	Size  int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("seq: index %d out of range [0:%d)", e.Index, e.Size)
}

// Unwrap lets errors.Is(err, ErrOutOfRange) succeed.
func (e *RangeError) Unwrap() error { return ErrOutOfRange }
