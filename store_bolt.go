package seq

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const boltOpenTimeout = time.Second

// boltStore keeps snapshots in one bucket of a bbolt file, keyed prefix:name.
type boltStore struct {
	db     *bolt.DB
	bucket []byte
	keys   keyspace
}

func newBoltStore(path, bucket, prefix string) (*boltStore, error) {
	if path == "" {
		return nil, errors.New("bolt driver requires a database path")
	}
	if bucket == "" {
		return nil, errors.New("bolt driver requires a bucket name")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return nil, err
	}
	s := &boltStore{db: db, bucket: []byte(bucket), keys: keyspace{prefix: prefix}}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *boltStore) Driver() Driver { return DriverBolt }

func (s *boltStore) Ready(context.Context) error {
	if s.db == nil {
		return errors.New("bolt store database unavailable")
	}
	return s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(s.bucket) == nil {
			return bolt.ErrBucketNotFound
		}
		return nil
	})
}

// Close releases the database file lock.
func (s *boltStore) Close() error {
	return s.db.Close()
}

func (s *boltStore) Get(_ context.Context, name string) ([]byte, bool, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		// Values are only valid for the life of the transaction.
		if body := tx.Bucket(s.bucket).Get(s.key(name)); body != nil {
			out = append([]byte{}, body...)
		}
		return nil
	})
	if err != nil || out == nil {
		return nil, false, err
	}
	return out, true, nil
}

func (s *boltStore) Set(_ context.Context, name string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(s.key(name), append([]byte{}, value...))
	})
}

func (s *boltStore) Delete(ctx context.Context, name string) error {
	return s.DeleteMany(ctx, name)
}

func (s *boltStore) DeleteMany(_ context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		for _, name := range names {
			if err := b.Delete(s.key(name)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *boltStore) Names(context.Context) ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return s.eachKey(tx, func(k []byte) {
			if name, ok := s.keys.name(string(k)); ok {
				names = append(names, name)
			}
		})
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (s *boltStore) Flush(context.Context) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		var doomed [][]byte
		if err := s.eachKey(tx, func(k []byte) {
			doomed = append(doomed, append([]byte{}, k...))
		}); err != nil {
			return err
		}
		b := tx.Bucket(s.bucket)
		for _, k := range doomed {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// eachKey visits the keys under the prefix in byte order, which is the
// sorted order of the sequence names.
func (s *boltStore) eachKey(tx *bolt.Tx, fn func(k []byte)) error {
	b := tx.Bucket(s.bucket)
	if b == nil {
		return bolt.ErrBucketNotFound
	}
	scope := []byte(s.keys.scope())
	c := b.Cursor()
	for k, _ := c.Seek(scope); k != nil && bytes.HasPrefix(k, scope); k, _ = c.Next() {
		fn(k)
	}
	return nil
}

func (s *boltStore) key(name string) []byte {
	return []byte(s.keys.key(name))
}
