package seq

import "context"

// nullStore accepts every write and remembers nothing.
type nullStore struct{}

func newNullStore() Store { return nullStore{} }

func (nullStore) Driver() Driver { return DriverNull }

func (nullStore) Ready(context.Context) error { return nil }

func (nullStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (nullStore) Set(context.Context, string, []byte) error { return nil }

func (nullStore) Delete(context.Context, string) error { return nil }

func (nullStore) DeleteMany(context.Context, ...string) error { return nil }

func (nullStore) Names(context.Context) ([]string, error) { return nil, nil }

func (nullStore) Flush(context.Context) error { return nil }
