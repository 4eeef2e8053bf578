package seq

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/nats-io/nats.go"
)

// NATSKeyValue captures the subset of nats.KeyValue used by the store.
type NATSKeyValue interface {
	Bucket() string
	Get(key string) (nats.KeyValueEntry, error)
	Put(key string, value []byte) (uint64, error)
	Delete(key string, opts ...nats.DeleteOpt) error
	Purge(key string, opts ...nats.DeleteOpt) error
	ListKeys(opts ...nats.WatchOpt) (nats.KeyLister, error)
}

var errNATSKeyValueUnavailable = errors.New("nats sequence key-value unavailable")

// natsStore keeps one JetStream key-value entry per sequence.
type natsStore struct {
	kv     NATSKeyValue
	prefix string
}

func newNATSStore(kv NATSKeyValue, prefix string) Store {
	if prefix == "" {
		prefix = defaultStorePrefix
	}
	return &natsStore{
		kv:     kv,
		prefix: prefix,
	}
}

func (s *natsStore) Driver() Driver { return DriverNATS }

func (s *natsStore) Ready(context.Context) error {
	if s.kv == nil {
		return errNATSKeyValueUnavailable
	}
	if s.kv.Bucket() == "" {
		return errors.New("nats sequence bucket has no name")
	}
	return nil
}

func (s *natsStore) Get(_ context.Context, name string) ([]byte, bool, error) {
	if s.kv == nil {
		return nil, false, errNATSKeyValueUnavailable
	}
	entry, err := s.kv.Get(s.storeKey(name))
	if isNATSMiss(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if entry.Operation() != nats.KeyValuePut {
		return nil, false, nil
	}
	return cloneBytes(entry.Value()), true, nil
}

func (s *natsStore) Set(_ context.Context, name string, value []byte) error {
	if s.kv == nil {
		return errNATSKeyValueUnavailable
	}
	_, err := s.kv.Put(s.storeKey(name), cloneBytes(value))
	return err
}

// Delete leaves a tombstone so watchers of the bucket see the sequence go.
func (s *natsStore) Delete(_ context.Context, name string) error {
	if s.kv == nil {
		return errNATSKeyValueUnavailable
	}
	if err := s.kv.Delete(s.storeKey(name)); err != nil && !isNATSMiss(err) {
		return err
	}
	return nil
}

func (s *natsStore) DeleteMany(ctx context.Context, names ...string) error {
	for _, name := range names {
		if err := s.Delete(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (s *natsStore) Names(context.Context) ([]string, error) {
	var names []string
	err := s.eachKey(func(key string) error {
		if name, ok := s.name(key); ok {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sortedNames(names), nil
}

func (s *natsStore) Flush(context.Context) error {
	return s.eachKey(func(key string) error {
		if err := s.kv.Purge(key); err != nil && !isNATSMiss(err) {
			return err
		}
		return nil
	})
}

// eachKey visits the live bucket keys under the store's prefix.
func (s *natsStore) eachKey(fn func(key string) error) error {
	if s.kv == nil {
		return errNATSKeyValueUnavailable
	}
	lister, err := s.kv.ListKeys(nats.IgnoreDeletes())
	if errors.Is(err, nats.ErrNoKeysFound) {
		return nil
	}
	if err != nil {
		return err
	}
	defer func() { _ = lister.Stop() }()

	scope := s.scopePrefix()
	for key := range lister.Keys() {
		if !strings.HasPrefix(key, scope) {
			continue
		}
		if err := fn(key); err != nil {
			return err
		}
	}
	for err := range lister.Error() {
		if err != nil {
			return err
		}
	}
	return nil
}

// Bucket keys allow a restricted alphabet, so the prefix and every sequence
// name are base64url encoded: p.<prefix>.k.<name>.
func (s *natsStore) storeKey(name string) string {
	return s.scopePrefix() + encodeNATSKeyPart(name)
}

func (s *natsStore) scopePrefix() string {
	return "p." + encodeNATSKeyPart(s.prefix) + ".k."
}

// name decodes the sequence name from a bucket key.
func (s *natsStore) name(key string) (string, bool) {
	part, ok := strings.CutPrefix(key, s.scopePrefix())
	if !ok {
		return "", false
	}
	return decodeNATSKeyPart(part)
}

func isNATSMiss(err error) bool {
	return errors.Is(err, nats.ErrKeyNotFound) || errors.Is(err, nats.ErrKeyDeleted)
}

func encodeNATSKeyPart(part string) string {
	if part == "" {
		return "_"
	}
	return base64.RawURLEncoding.EncodeToString([]byte(part))
}

func decodeNATSKeyPart(part string) (string, bool) {
	if part == "_" {
		return "", true
	}
	raw, err := base64.RawURLEncoding.DecodeString(part)
	if err != nil {
		return "", false
	}
	return string(raw), true
}
