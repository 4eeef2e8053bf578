package seq

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/goforj/seq/seqcore"
)

type zerologObserver struct {
	logger zerolog.Logger
}

// NewZerologObserver logs every repository operation to logger.
// Successful operations log at debug level, failures at error level.
// @group Observability
//
// Example: log repository operations
//
//	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	repo := seq.NewRepository(seq.NewMemoryStore(ctx)).
//		WithObserver(seq.NewZerologObserver(logger))
func NewZerologObserver(logger zerolog.Logger) Observer {
	return &zerologObserver{logger: logger}
}

func (o *zerologObserver) OnSequenceOp(_ context.Context, op string, name string, hit bool, err error, dur time.Duration, driver seqcore.Driver) {
	event := o.logger.Debug()
	if err != nil {
		event = o.logger.Error().Err(err)
	}
	event.
		Str("op", op).
		Str("sequence", name).
		Bool("hit", hit).
		Dur("duration", dur).
		Str("driver", string(driver)).
		Msg("seq repository op")
}
