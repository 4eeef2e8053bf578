package seqtest

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/goforj/seq/seqcore"
)

// StoreOptions configures shared store contract checks.
type StoreOptions struct {
	// CaseName is used to namespace keys. Defaults to t.Name().
	CaseName string
	// NullSemantics enables relaxed expectations for the null store.
	NullSemantics bool
	// SkipCloneCheck disables the "get returns a cloned value" assertion.
	SkipCloneCheck bool
	// SkipFlush disables the flush assertion for drivers where it is expensive or unavailable.
	SkipFlush bool
}

// Store is the minimal contract required by RunStoreContract.
type Store = seqcore.Store

// RunStoreContract runs a backend-agnostic store contract suite.
func RunStoreContract(t *testing.T, store Store, opts StoreOptions) {
	t.Helper()

	caseName := opts.CaseName
	if caseName == "" {
		caseName = t.Name()
	}

	ctx := context.Background()
	key := func(s string) string {
		return sanitize(caseName) + ":" + s
	}

	if err := store.Ready(ctx); err != nil {
		t.Fatalf("ready failed: %v", err)
	}

	// Set/Get round-trip.
	if err := store.Set(ctx, key("alpha"), []byte("value")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	body, ok, err := store.Get(ctx, key("alpha"))
	if err != nil {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if opts.NullSemantics {
		if ok {
			t.Fatalf("expected miss for null semantics")
		}
	} else {
		if !ok || string(body) != "value" {
			t.Fatalf("unexpected get result: ok=%v body=%q err=%v", ok, string(body), err)
		}
		if !opts.SkipCloneCheck {
			body[0] = 'X'
			body2, ok2, err2 := store.Get(ctx, key("alpha"))
			if err2 != nil || !ok2 || string(body2) != "value" {
				t.Fatalf("expected stored value unchanged, got ok=%v body=%q err=%v", ok2, string(body2), err2)
			}
		}
	}

	// Miss.
	if _, ok, err := store.Get(ctx, key("missing")); err != nil || ok {
		t.Fatalf("expected miss; ok=%v err=%v", ok, err)
	}

	// Overwrite.
	if err := store.Set(ctx, key("alpha"), []byte("second")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	if !opts.NullSemantics {
		body, ok, err := store.Get(ctx, key("alpha"))
		if err != nil || !ok || string(body) != "second" {
			t.Fatalf("expected overwritten value; ok=%v body=%q err=%v", ok, string(body), err)
		}
	}

	// Binary payloads survive untouched.
	binary := []byte{0, 1, 2, 0xff, 0xfe, '\n', 0}
	if err := store.Set(ctx, key("binary"), binary); err != nil {
		t.Fatalf("set binary failed: %v", err)
	}
	if !opts.NullSemantics {
		body, ok, err := store.Get(ctx, key("binary"))
		if err != nil || !ok || !bytes.Equal(body, binary) {
			t.Fatalf("expected binary payload; ok=%v body=%v err=%v", ok, body, err)
		}
	}

	// Names lists what was written, sorted.
	own := sanitize(caseName) + ":"
	wantNames := []string{key("alpha"), key("binary")}
	if opts.NullSemantics {
		wantNames = nil
	}
	assertNames(t, store, own, wantNames)

	// Delete and DeleteMany.
	if err := store.Set(ctx, key("a"), []byte("1")); err != nil {
		t.Fatalf("set a failed: %v", err)
	}
	if err := store.Set(ctx, key("b"), []byte("2")); err != nil {
		t.Fatalf("set b failed: %v", err)
	}
	if err := store.Set(ctx, key("c"), []byte("3")); err != nil {
		t.Fatalf("set c failed: %v", err)
	}
	if err := store.Delete(ctx, key("a")); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.Delete(ctx, key("a")); err != nil {
		t.Fatalf("delete of missing key failed: %v", err)
	}
	if err := store.DeleteMany(ctx, key("b"), key("c")); err != nil {
		t.Fatalf("delete many failed: %v", err)
	}
	if err := store.DeleteMany(ctx); err != nil {
		t.Fatalf("empty delete many failed: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, ok, err := store.Get(ctx, key(k)); err != nil || ok {
			t.Fatalf("expected key %s deleted; ok=%v err=%v", k, ok, err)
		}
	}
	assertNames(t, store, own, wantNames)

	// Flush.
	if !opts.SkipFlush {
		if err := store.Set(ctx, key("flush"), []byte("x")); err != nil {
			t.Fatalf("set flush failed: %v", err)
		}
		if err := store.Flush(ctx); err != nil {
			t.Fatalf("flush failed: %v", err)
		}
		if _, ok, err := store.Get(ctx, key("flush")); err != nil || ok {
			t.Fatalf("expected flush to clear key; ok=%v err=%v", ok, err)
		}
		assertNames(t, store, own, nil)
	}
}

// assertNames checks that the names under prefix are exactly want and that
// the full listing is sorted.
func assertNames(t *testing.T, store Store, prefix string, want []string) {
	t.Helper()
	names, err := store.Names(context.Background())
	if err != nil {
		t.Fatalf("names failed: %v", err)
	}
	if !slices.IsSorted(names) {
		t.Fatalf("expected sorted names, got %q", names)
	}
	var got []string
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			got = append(got, name)
		}
	}
	if !slices.Equal(got, want) {
		t.Fatalf("expected names %q, got %q", want, got)
	}
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
