package seq

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/goforj/seq/seqcore"
)

func TestRepositorySaveLoadRoundTrip(t *testing.T) {
	repo := NewRepository(newMemoryStore())
	v := NewVector[int](WithCapacity(32))
	v.Append(5, 3, 9)

	if err := Save(repo, "scores", v); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, ok, err := Load[int](repo, "scores")
	if err != nil || !ok {
		t.Fatalf("load failed: ok=%v err=%v", ok, err)
	}
	if got.Size() != 3 || got.Capacity() < 32 {
		t.Fatalf("unexpected restored shape: size=%d cap=%d", got.Size(), got.Capacity())
	}
	for i, want := range []int{5, 3, 9} {
		if have, err := got.At(i); err != nil || have != want {
			t.Fatalf("element %d: want %d, have %d (err=%v)", i, want, have, err)
		}
	}
	if repo.Driver() != DriverMemory {
		t.Fatalf("unexpected driver %s", repo.Driver())
	}
	if err := repo.Ready(context.Background()); err != nil {
		t.Fatalf("ready failed: %v", err)
	}
}

func TestRepositoryLoadMiss(t *testing.T) {
	repo := NewRepository(newMemoryStore())
	v, ok, err := Load[string](repo, "nothing")
	if err != nil || ok || v != nil {
		t.Fatalf("expected clean miss, got v=%v ok=%v err=%v", v, ok, err)
	}
}

func TestRepositoryLoadCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	repo := NewRepository(store)
	if err := store.Set(ctx, "bad", []byte("not json")); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, ok, err := LoadCtx[int](ctx, repo, "bad"); !errors.Is(err, ErrCorruptSnapshot) || ok {
		t.Fatalf("expected corrupt snapshot error, ok=%v err=%v", ok, err)
	}
}

func TestRepositoryUpdateCreatesAndAppends(t *testing.T) {
	repo := NewRepository(newMemoryStore())
	for i := 0; i < 3; i++ {
		err := Update(repo, "log", func(v *Vector[int]) error {
			v.Append(i)
			return nil
		})
		if err != nil {
			t.Fatalf("update %d failed: %v", i, err)
		}
	}
	got, ok, err := Load[int](repo, "log")
	if err != nil || !ok || got.Size() != 3 {
		t.Fatalf("unexpected vector after updates: ok=%v err=%v", ok, err)
	}
}

func TestRepositoryUpdateAbortsOnError(t *testing.T) {
	repo := NewRepository(newMemoryStore())
	if err := Save(repo, "v", VectorOf(1)); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	boom := errors.New("boom")
	err := Update(repo, "v", func(v *Vector[int]) error {
		v.Append(2)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	got, _, _ := Load[int](repo, "v")
	if got.Size() != 1 {
		t.Fatalf("expected stored vector untouched, size=%d", got.Size())
	}
}

func TestRepositoryDeleteAndFlush(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newMemoryStore())
	for _, name := range []string{"a", "b"} {
		if err := SaveCtx(ctx, repo, name, VectorOf("x")); err != nil {
			t.Fatalf("save %s failed: %v", name, err)
		}
	}
	if err := repo.DeleteCtx(ctx, "a"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := Load[string](repo, "a"); ok {
		t.Fatalf("expected a deleted")
	}
	if err := repo.FlushCtx(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if _, ok, _ := Load[string](repo, "b"); ok {
		t.Fatalf("expected b flushed")
	}
}

func TestRepositoryOverShapedEncryptedStore(t *testing.T) {
	store := NewMemoryStore(context.Background(),
		WithCompression(CompressionSnappy),
		WithEncryptionKey(testEncryptionKey),
	)
	repo := NewRepository(store)
	if repo.Store() != store {
		t.Fatalf("expected repository to expose its store")
	}
	v := NewVector[int]()
	v.Resize(500)
	if err := Save(repo, "zeros", v); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, ok, err := Load[int](repo, "zeros")
	if err != nil || !ok || got.Size() != 500 {
		t.Fatalf("unexpected load: ok=%v err=%v", ok, err)
	}
}

func TestRepositorySaveRespectsMaxValueBytes(t *testing.T) {
	repo := NewRepository(NewMemoryStore(context.Background(), WithMaxValueBytes(16)))
	v := NewVector[int]()
	v.Resize(100)
	if err := Save(repo, "big", v); !errors.Is(err, ErrValueTooLarge) {
		t.Fatalf("expected value too large, got %v", err)
	}
}

func TestRepositorySurfacesStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	repo := NewRepository(&errorStore{driver: DriverRedis, err: boom})
	if err := Save(repo, "v", VectorOf(1)); !errors.Is(err, boom) {
		t.Fatalf("expected save error, got %v", err)
	}
	if _, _, err := Load[int](repo, "v"); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
	if err := Update(repo, "v", func(*Vector[int]) error { return nil }); !errors.Is(err, boom) {
		t.Fatalf("expected update error, got %v", err)
	}
}

func TestRepositoryNamesListsSavedSequences(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newMemoryStore())
	if names, err := repo.NamesCtx(ctx); err != nil || len(names) != 0 {
		t.Fatalf("expected no names, got %v err=%v", names, err)
	}
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := Save(repo, name, VectorOf(1)); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}
	if err := repo.Delete("mid"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	names, err := repo.Names()
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if want := []string{"alpha", "zeta"}; !slices.Equal(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

// newLayeredTestStore builds compression with a size limit over encryption
// over memory, returning the stack, the raw backend and the seal stage.
func newLayeredTestStore(t *testing.T, codec CompressionCodec) (Store, Store, *sealStage) {
	t.Helper()
	base := newMemoryStore()
	stages, err := storeStages(seqcore.BaseConfig{
		Compression:   codec,
		MaxValueBytes: 1 << 16,
		EncryptionKey: testEncryptionKey,
	})
	if err != nil {
		t.Fatalf("store stages: %v", err)
	}
	return newCodecStore(base, stages...), base, stages[1].(*sealStage)
}

func TestRepositoryLoadRejectsCorruptRecordsThroughFullStack(t *testing.T) {
	ctx := context.Background()
	sealed := func(t *testing.T, seal *sealStage, inner []byte) []byte {
		t.Helper()
		out, err := seal.encode(inner)
		if err != nil {
			t.Fatalf("seal: %v", err)
		}
		return out
	}
	bomb, err := encodeValue(CompressionGzip, 0, bytes.Repeat([]byte{'0'}, 1<<20))
	if err != nil {
		t.Fatalf("encode bomb: %v", err)
	}

	cases := []struct {
		name string
		// write stores a bad record under "bad" through the stack or the raw backend
		write func(t *testing.T, store, base Store, seal *sealStage)
		want  error
	}{
		{
			name: "capacity above max size",
			write: func(t *testing.T, store, _ Store, _ *sealStage) {
				if err := store.Set(ctx, "bad", []byte(`{"v":1,"cap":9223372036854775807,"items":[]}`)); err != nil {
					t.Fatalf("set: %v", err)
				}
			},
			want: ErrCorruptSnapshot,
		},
		{
			name: "nonce length mismatch",
			write: func(t *testing.T, _, base Store, _ *sealStage) {
				frame := append([]byte("SQE1"), 4, 1, 2, 3, 4)
				frame = append(frame, bytes.Repeat([]byte{9}, 32)...)
				if err := base.Set(ctx, "bad", frame); err != nil {
					t.Fatalf("set: %v", err)
				}
			},
			want: ErrDecryptFailed,
		},
		{
			name: "corrupt gzip frame",
			write: func(t *testing.T, _, base Store, seal *sealStage) {
				if err := base.Set(ctx, "bad", sealed(t, seal, []byte("SQC1g-not-gzip"))); err != nil {
					t.Fatalf("set: %v", err)
				}
			},
			want: ErrCorruptCompression,
		},
		{
			name: "corrupt snappy frame",
			write: func(t *testing.T, _, base Store, seal *sealStage) {
				if err := base.Set(ctx, "bad", sealed(t, seal, []byte{'S', 'Q', 'C', '1', 's', 0xff, 0xfe, 0xfd})); err != nil {
					t.Fatalf("set: %v", err)
				}
			},
			want: ErrCorruptCompression,
		},
		{
			name: "frame inflating past the size limit",
			write: func(t *testing.T, _, base Store, seal *sealStage) {
				if err := base.Set(ctx, "bad", sealed(t, seal, bomb)); err != nil {
					t.Fatalf("set: %v", err)
				}
			},
			want: ErrValueTooLarge,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, base, seal := newLayeredTestStore(t, CompressionGzip)
			repo := NewRepository(store)
			tc.write(t, store, base, seal)
			raw, _, _ := base.Get(ctx, "bad")

			if _, ok, err := LoadCtx[int](ctx, repo, "bad"); !errors.Is(err, tc.want) || ok {
				t.Fatalf("load: expected %v, got ok=%v err=%v", tc.want, ok, err)
			}
			err := UpdateCtx(ctx, repo, "bad", func(v *Vector[int]) error {
				v.Append(1)
				return nil
			})
			if !errors.Is(err, tc.want) {
				t.Fatalf("update: expected %v, got %v", tc.want, err)
			}
			if after, _, _ := base.Get(ctx, "bad"); !bytes.Equal(after, raw) {
				t.Fatalf("expected failed update to leave the record untouched")
			}
		})
	}
}

func TestRepositoryLayeredStoreRoundTripsEveryCodec(t *testing.T) {
	for _, codec := range []CompressionCodec{CompressionNone, CompressionGzip, CompressionSnappy} {
		t.Run(string(codec), func(t *testing.T) {
			store, base, _ := newLayeredTestStore(t, codec)
			repo := NewRepository(store)
			v := NewVector[int]()
			v.Resize(300)
			if err := Save(repo, "zeros", v); err != nil {
				t.Fatalf("save: %v", err)
			}
			raw, _, _ := base.Get(context.Background(), "zeros")
			if !bytes.HasPrefix(raw, encryptionMagic) {
				t.Fatalf("expected encrypted record at rest")
			}
			got, ok, err := Load[int](repo, "zeros")
			if err != nil || !ok || got.Size() != 300 {
				t.Fatalf("load: ok=%v err=%v", ok, err)
			}
		})
	}
}
