package sqliteledger_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"pacer/internal/ledger"
	"pacer/internal/ledger/sqliteledger"
)

func openStore(t *testing.T) *sqliteledger.Store {
	t.Helper()
	store, err := sqliteledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndReadPreserveOrder(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	seed := []ledger.Row{
		{Date: "2026/08/24", Tracked: 8 * time.Hour, Weekly: 8.0},
		{Date: "2026/08/25", Tracked: 7*time.Hour + 30*time.Minute, Weekly: 15.5},
	}
	for _, row := range seed {
		if err := store.Append(ctx, row); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}

	rows, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if row != seed[i] {
			t.Fatalf("row %d: got %+v want %+v", i, row, seed[i])
		}
	}
}

func TestUpdateOverwritesByPosition(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, ledger.Row{Date: "2026/08/24", Tracked: time.Hour, Weekly: 1.0}); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	updated := ledger.Row{Date: "2026/08/24", Tracked: 6 * time.Hour, Weekly: 6.0}
	if err := store.Update(ctx, 0, updated); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	rows, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(rows) != 1 || rows[0] != updated {
		t.Fatalf("unexpected rows after update: %+v", rows)
	}
}

func TestUpdateMissingIndexFails(t *testing.T) {
	store := openStore(t)
	if err := store.Update(context.Background(), 3, ledger.Row{Date: "2026/08/24"}); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
}

func TestReadEmptyLedgerReturnsNoRows(t *testing.T) {
	store := openStore(t)
	rows, err := store.Read(context.Background())
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty ledger, got %+v", rows)
	}
}

func TestOpenIsIdempotentAcrossRestarts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.db")

	store, err := sqliteledger.Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := store.Append(context.Background(), ledger.Row{Date: "2026/08/24", Tracked: time.Hour, Weekly: 1.0}); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := sqliteledger.Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer reopened.Close()
	rows, err := reopened.Read(context.Background())
	if err != nil {
		t.Fatalf("Read after reopen: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected persisted row, got %+v", rows)
	}
}

func TestSyncUpsertThroughStore(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, ledger.Row{Date: "2026/08/24", Tracked: 8 * time.Hour, Weekly: 8.0}); err != nil {
		t.Fatalf("seed append: %v", err)
	}

	sync := ledger.NewSync(store, nil)
	day := time.Date(2026, time.August, 25, 18, 0, 0, 0, time.UTC)
	if err := sync.Upsert(ctx, 4*time.Hour, day); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if err := sync.Upsert(ctx, 5*time.Hour, day); err != nil {
		t.Fatalf("second Upsert returned error: %v", err)
	}

	rows, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %+v", rows)
	}
	if rows[1].Tracked != 5*time.Hour || rows[1].Weekly != 13.0 {
		t.Fatalf("unexpected upserted row: %+v", rows[1])
	}
}
