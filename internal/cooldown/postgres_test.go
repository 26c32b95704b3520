package cooldown_test

import (
	"database/sql"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/warden/internal/cooldown"
)

// openTestDB connects to WARDEN_TEST_DSN, a migrated database. Tests that
// need it are skipped when the variable is unset.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("WARDEN_TEST_DSN")
	if dsn == "" {
		t.Skip("WARDEN_TEST_DSN not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.PingContext(t.Context()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPostgresStoreAcquire(t *testing.T) {
	db := openTestDB(t)
	store := cooldown.NewPostgresStore(db)
	ctx := t.Context()

	category := "test-" + uuid.NewString()
	t.Cleanup(func() {
		db.Exec("DELETE FROM alert_cooldowns WHERE category = $1", category)
	})

	now := time.Now().UTC().Truncate(time.Microsecond)
	window := 30 * time.Minute

	ok, _, err := store.Acquire(ctx, category, now, window)
	if err != nil || !ok {
		t.Fatalf("first acquire = %v, %v", ok, err)
	}

	ok, last, err := store.Acquire(ctx, category, now.Add(29*time.Minute), window)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if ok {
		t.Error("acquire inside window permitted")
	}
	if !last.Equal(now) {
		t.Errorf("last = %v, want %v", last, now)
	}

	ok, _, err = store.Acquire(ctx, category, now.Add(30*time.Minute), window)
	if err != nil || !ok {
		t.Errorf("acquire at window boundary = %v, %v", ok, err)
	}

	snap, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, found := snap[category]; !found {
		t.Error("snapshot missing category")
	}
}

func TestPostgresStoreConcurrentAcquire(t *testing.T) {
	db := openTestDB(t)
	store := cooldown.NewPostgresStore(db)

	category := "test-" + uuid.NewString()
	t.Cleanup(func() {
		db.Exec("DELETE FROM alert_cooldowns WHERE category = $1", category)
	})

	now := time.Now().UTC().Truncate(time.Microsecond)
	var granted atomic.Int32
	var wg sync.WaitGroup

	for range 16 {
		wg.Go(func() {
			ok, last, err := store.Acquire(t.Context(), category, now, 30*time.Minute)
			if err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			if ok {
				granted.Add(1)
				return
			}
			if !last.Equal(now) {
				t.Errorf("throttled last = %v, want %v", last, now)
			}
		})
	}
	wg.Wait()

	if got := granted.Load(); got != 1 {
		t.Errorf("granted = %d, want exactly 1", got)
	}
}

func TestPostgresStoreThrottledKeepsRecord(t *testing.T) {
	db := openTestDB(t)
	store := cooldown.NewPostgresStore(db)
	ctx := t.Context()

	category := "test-" + uuid.NewString()
	t.Cleanup(func() {
		db.Exec("DELETE FROM alert_cooldowns WHERE category = $1", category)
	})

	sent := time.Now().UTC().Truncate(time.Microsecond)
	window := 30 * time.Minute

	if ok, _, err := store.Acquire(ctx, category, sent, window); err != nil || !ok {
		t.Fatalf("first acquire = %v, %v", ok, err)
	}

	for _, offset := range []time.Duration{time.Minute, 10 * time.Minute, 29 * time.Minute} {
		ok, last, err := store.Acquire(ctx, category, sent.Add(offset), window)
		if err != nil {
			t.Fatalf("acquire at +%v: %v", offset, err)
		}
		if ok {
			t.Fatalf("acquire at +%v permitted inside window", offset)
		}
		if !last.Equal(sent) {
			t.Errorf("acquire at +%v last = %v, want %v", offset, last, sent)
		}
	}

	snap, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !snap[category].Equal(sent) {
		t.Errorf("recorded = %v, want unchanged %v", snap[category], sent)
	}
}
