package seq

import (
	"context"
	"time"

	"github.com/goforj/seq/seqcore"
)

// Observer receives events for repository operations.
// It is called from Repository helpers after each operation completes.
type Observer interface {
	OnSequenceOp(ctx context.Context, op string, name string, hit bool, err error, dur time.Duration, driver seqcore.Driver)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, op string, name string, hit bool, err error, dur time.Duration, driver seqcore.Driver)

// OnSequenceOp implements Observer.
func (f ObserverFunc) OnSequenceOp(ctx context.Context, op string, name string, hit bool, err error, dur time.Duration, driver seqcore.Driver) {
	if f == nil {
		return
	}
	f(ctx, op, name, hit, err, dur, driver)
}
