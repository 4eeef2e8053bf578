package seq

import (
	"context"
	"time"
)

// Repository saves and loads named vectors through a Store.
type Repository struct {
	store    Store
	observer Observer
}

// NewRepository creates a repository bound to a concrete store.
// @group Repository
//
// Example: repository over memory
//
//	ctx := context.Background()
//	repo := seq.NewRepository(seq.NewMemoryStore(ctx))
//	fmt.Println(repo.Driver()) // memory
func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

// WithObserver attaches an observer to receive operation events.
func (r *Repository) WithObserver(o Observer) *Repository {
	r.observer = o
	return r
}

// Store returns the underlying store implementation.
func (r *Repository) Store() Store {
	return r.store
}

// Driver reports the underlying store driver.
func (r *Repository) Driver() Driver {
	return r.store.Driver()
}

// Ready reports whether the backing store is reachable.
func (r *Repository) Ready(ctx context.Context) error {
	return r.store.Ready(ctx)
}

// Delete removes the named sequence.
// @group Repository
func (r *Repository) Delete(name string) error {
	return r.DeleteCtx(context.Background(), name)
}

func (r *Repository) DeleteCtx(ctx context.Context, name string) error {
	start := time.Now()
	err := r.store.Delete(ctx, name)
	r.observe(ctx, "delete", name, false, err, start)
	return err
}

// Names lists the stored sequences in ascending order.
// @group Repository
//
// Example: list stored sequences
//
//	_ = seq.Save(repo, "b", seq.VectorOf(1))
//	_ = seq.Save(repo, "a", seq.VectorOf(2))
//	names, _ := repo.Names()
//	fmt.Println(names) // [a b]
func (r *Repository) Names() ([]string, error) {
	return r.NamesCtx(context.Background())
}

func (r *Repository) NamesCtx(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := r.store.Names(ctx)
	r.observe(ctx, "names", "", len(names) > 0, err, start)
	return names, err
}

// Flush removes every sequence in the store's namespace.
// @group Repository
func (r *Repository) Flush() error {
	return r.FlushCtx(context.Background())
}

func (r *Repository) FlushCtx(ctx context.Context) error {
	start := time.Now()
	err := r.store.Flush(ctx)
	r.observe(ctx, "flush", "", false, err, start)
	return err
}

// Save stores a snapshot of v under name, replacing any previous one.
// @group Repository
//
// Example: save and load
//
//	repo := seq.NewRepository(seq.NewMemoryStore(ctx))
//	_ = seq.Save(repo, "scores", seq.VectorOf(90, 75))
//	v, ok, _ := seq.Load[int](repo, "scores")
//	fmt.Println(ok, v.Size()) // true 2
func Save[T any](r *Repository, name string, v *Vector[T]) error {
	return SaveCtx(context.Background(), r, name, v)
}

// SaveCtx is the context-aware variant of Save.
func SaveCtx[T any](ctx context.Context, r *Repository, name string, v *Vector[T]) error {
	start := time.Now()
	body, err := EncodeSnapshot(v)
	if err == nil {
		err = r.store.Set(ctx, name, body)
	}
	r.observe(ctx, "save", name, false, err, start)
	return err
}

// Load restores the named vector. A missing name reports ok=false without error.
// @group Repository
func Load[T any](r *Repository, name string, opts ...VectorOption) (*Vector[T], bool, error) {
	return LoadCtx[T](context.Background(), r, name, opts...)
}

// LoadCtx is the context-aware variant of Load.
func LoadCtx[T any](ctx context.Context, r *Repository, name string, opts ...VectorOption) (*Vector[T], bool, error) {
	start := time.Now()
	v, ok, err := load[T](ctx, r, name, opts)
	r.observe(ctx, "load", name, ok, err, start)
	return v, ok, err
}

// Update loads the named vector (or starts an empty one), applies fn and
// saves the result. An error from fn aborts without saving.
// @group Repository
//
// Example: append to a stored sequence
//
//	err := seq.Update(repo, "scores", func(v *seq.Vector[int]) error {
//		v.Append(88)
//		return nil
//	})
func Update[T any](r *Repository, name string, fn func(*Vector[T]) error) error {
	return UpdateCtx(context.Background(), r, name, fn)
}

// UpdateCtx is the context-aware variant of Update.
func UpdateCtx[T any](ctx context.Context, r *Repository, name string, fn func(*Vector[T]) error) error {
	start := time.Now()
	v, ok, err := load[T](ctx, r, name, nil)
	if err == nil {
		if !ok {
			v = NewVector[T]()
		}
		err = fn(v)
	}
	if err == nil {
		var body []byte
		body, err = EncodeSnapshot(v)
		if err == nil {
			err = r.store.Set(ctx, name, body)
		}
	}
	r.observe(ctx, "update", name, ok, err, start)
	return err
}

func load[T any](ctx context.Context, r *Repository, name string, opts []VectorOption) (*Vector[T], bool, error) {
	body, ok, err := r.store.Get(ctx, name)
	if err != nil || !ok {
		return nil, false, err
	}
	v, err := DecodeSnapshot[T](body, opts...)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *Repository) observe(ctx context.Context, op, name string, hit bool, err error, start time.Time) {
	if r.observer == nil {
		return
	}
	r.observer.OnSequenceOp(ctx, op, name, hit, err, time.Since(start), r.store.Driver())
}
