package seq

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/goforj/seq/seqcore"
	"github.com/goforj/seq/seqtest"
)

func newSQLiteStore(t *testing.T, prefix string) *sqlStore {
	t.Helper()
	store, err := newSQLStore(context.Background(), StoreConfig{
		BaseConfig:    seqcore.BaseConfig{Prefix: prefix},
		SQLDriverName: "sqlite",
		SQLDSN:        filepath.Join(t.TempDir(), "seq.db"),
		SQLTable:      "sequences",
	})
	if err != nil {
		t.Fatalf("sqlite store create failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLStoreContractSQLite(t *testing.T) {
	seqtest.RunStoreContract(t, newSQLiteStore(t, "p"), seqtest.StoreOptions{CaseName: t.Name()})
}

func TestSQLStoreContractSQLiteWithoutPrefix(t *testing.T) {
	seqtest.RunStoreContract(t, newSQLiteStore(t, ""), seqtest.StoreOptions{CaseName: t.Name()})
}

func TestSQLStoreDialects(t *testing.T) {
	pg := &sqlStore{driverName: "pgx", table: "t", keys: keyspace{prefix: "p"}}
	if got := pg.upsertSQL(); !strings.Contains(got, "ON CONFLICT (k)") || !strings.Contains(got, "$3") {
		t.Fatalf("unexpected postgres upsert: %s", got)
	}
	if got := pg.flushSQL(); got != "DELETE FROM t WHERE SUBSTR(k, 1, 2) = $1" {
		t.Fatalf("unexpected postgres flush: %s", got)
	}
	if got := pg.namesSQL(); got != "SELECT k FROM t WHERE SUBSTR(k, 1, 2) = $1 ORDER BY k" {
		t.Fatalf("unexpected postgres names: %s", got)
	}
	mysql := &sqlStore{driverName: "mysql", table: "t"}
	if got := mysql.namesSQL(); got != "SELECT k FROM t ORDER BY k" {
		t.Fatalf("unexpected unprefixed names: %s", got)
	}
	if got := mysql.upsertSQL(); !strings.Contains(got, "ON DUPLICATE KEY UPDATE") {
		t.Fatalf("unexpected mysql upsert: %s", got)
	}
	if got := mysql.flushSQL(); got != "DELETE FROM t" {
		t.Fatalf("unexpected unprefixed flush: %s", got)
	}
	sqlite := &sqlStore{driverName: "sqlite", table: "t"}
	if got := sqlite.getSQL(); got != "SELECT v FROM t WHERE k = ?" {
		t.Fatalf("unexpected sqlite get: %s", got)
	}
}

func TestSQLStoreFlushKeepsOtherPrefixes(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "shared.db")
	open := func(prefix string) *sqlStore {
		store, err := newSQLStore(ctx, StoreConfig{
			BaseConfig:    seqcore.BaseConfig{Prefix: prefix},
			SQLDriverName: "sqlite",
			SQLDSN:        dsn,
			SQLTable:      "sequences",
		})
		if err != nil {
			t.Fatalf("sqlite store create failed: %v", err)
		}
		t.Cleanup(func() { _ = store.Close() })
		return store
	}
	mine, theirs := open("mine"), open("theirs")

	if err := mine.Set(ctx, "a", []byte("1")); err != nil {
		t.Fatalf("set mine: %v", err)
	}
	if err := theirs.Set(ctx, "a", []byte("2")); err != nil {
		t.Fatalf("set theirs: %v", err)
	}
	if err := mine.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if _, ok, err := mine.Get(ctx, "a"); err != nil || ok {
		t.Fatalf("expected own key flushed; ok=%v err=%v", ok, err)
	}
	if body, ok, err := theirs.Get(ctx, "a"); err != nil || !ok || string(body) != "2" {
		t.Fatalf("expected other prefix kept; ok=%v body=%q err=%v", ok, string(body), err)
	}
}

func TestSQLStoreConfigValidation(t *testing.T) {
	ctx := context.Background()
	if _, err := newSQLStore(ctx, StoreConfig{SQLDriverName: "sqlite"}); err == nil {
		t.Fatalf("expected error without dsn")
	}
	if _, err := newSQLStore(ctx, StoreConfig{SQLDriverName: "nope", SQLDSN: "x", SQLTable: "t"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
	for _, name := range []string{"", " ", "bad-name", "a.b;drop", "1abc"} {
		if err := validateSQLTableName(name); err == nil {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
	for _, name := range []string{"sequences", "app.sequences", "_t1"} {
		if err := validateSQLTableName(name); err != nil {
			t.Fatalf("expected %q to be accepted: %v", name, err)
		}
	}
}

func TestSQLDriverNameMapsPostgresToPgx(t *testing.T) {
	cases := map[string]string{
		"sqlite":     "sqlite",
		"mysql":      "mysql",
		"pgx":        "pgx",
		"postgres":   "pgx",
		"postgresql": "pgx",
	}
	for in, want := range cases {
		got, err := sqlDriverName(in)
		if err != nil || got != want {
			t.Fatalf("sqlDriverName(%q)=%q err=%v, want %q", in, got, err, want)
		}
	}
	for _, in := range []string{"", "oracle"} {
		if _, err := sqlDriverName(in); err == nil {
			t.Fatalf("expected %q to be rejected", in)
		}
	}
	pg := &sqlStore{driverName: "pgx", table: "t"}
	if got := pg.getSQL(); got != "SELECT v FROM t WHERE k = $1" {
		t.Fatalf("expected positional placeholders for postgres, got %s", got)
	}
}

func TestSQLStoreNamesStayInsidePrefix(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t, "mine")
	for _, name := range []string{"c", "a", "b"} {
		if err := store.Set(ctx, name, []byte(name)); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	if _, err := store.db.ExecContext(ctx, "INSERT INTO sequences (k, v) VALUES (?, ?)", "mined:x", []byte("x")); err != nil {
		t.Fatalf("insert foreign row: %v", err)
	}
	names, err := store.Names(ctx)
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if want := []string{"a", "b", "c"}; !slices.Equal(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}
