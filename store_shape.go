package seq

import (
	"context"
	"fmt"

	"github.com/goforj/seq/seqcore"
)

// valueCodec is one reversible transformation applied to snapshot bytes
// between a Repository and a backend.
type valueCodec interface {
	encode(value []byte) ([]byte, error)
	decode(stored []byte) ([]byte, error)
}

// codecStore runs values through its stages in order on Set and in reverse
// order on Get. Every other call reaches the backend unchanged.
type codecStore struct {
	Store
	stages []valueCodec
}

func newCodecStore(inner Store, stages ...valueCodec) Store {
	if len(stages) == 0 {
		return inner
	}
	return &codecStore{Store: inner, stages: stages}
}

// storeStages builds the pipeline described by cfg: compression and the size
// limit first, encryption last, so ciphertext is what reaches the backend.
func storeStages(cfg seqcore.BaseConfig) ([]valueCodec, error) {
	var stages []valueCodec
	compress, err := newCompressionStage(cfg.Compression, cfg.MaxValueBytes)
	if err != nil {
		return nil, err
	}
	if compress.active() {
		stages = append(stages, compress)
	}
	if len(cfg.EncryptionKey) > 0 {
		seal, err := newSealStage(cfg.EncryptionKey)
		if err != nil {
			return nil, err
		}
		stages = append(stages, seal)
	}
	return stages, nil
}

func (s *codecStore) Get(ctx context.Context, name string) ([]byte, bool, error) {
	body, ok, err := s.Store.Get(ctx, name)
	if err != nil || !ok {
		return body, ok, err
	}
	for i := len(s.stages) - 1; i >= 0; i-- {
		if body, err = s.stages[i].decode(body); err != nil {
			return nil, false, fmt.Errorf("sequence %q: %w", name, err)
		}
	}
	return body, true, nil
}

func (s *codecStore) Set(ctx context.Context, name string, value []byte) error {
	var err error
	for _, stage := range s.stages {
		if value, err = stage.encode(value); err != nil {
			return fmt.Errorf("sequence %q: %w", name, err)
		}
	}
	return s.Store.Set(ctx, name, value)
}
