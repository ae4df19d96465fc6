package testfixtures

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/yigit/studyhub/internal/app/repositories"
	"github.com/yigit/studyhub/internal/app/repositories/sqlite"
	"github.com/yigit/studyhub/internal/db"
)

// SQLiteHarness gives tests repositories backed by a migrated temporary
// database file.
type SQLiteHarness struct {
	*repositories.Repositories

	DB    *sqlx.DB
	Clock *Clock
}

// NewSQLiteHarness opens a fresh database under tb.TempDir and closes it
// when the test finishes. Writes are timestamped with clock; a nil clock
// starts one at ReferenceTime.
func NewSQLiteHarness(tb testing.TB, clock *Clock) *SQLiteHarness {
	tb.Helper()

	if clock == nil {
		clock = NewClock(ReferenceTime())
	}

	store, err := db.NewSQLiteDB(filepath.Join(tb.TempDir(), "studyhub.db"))
	if err != nil {
		tb.Fatalf("failed to open sqlite store: %v", err)
	}
	tb.Cleanup(func() { _ = store.Close() })

	return &SQLiteHarness{
		Repositories: sqlite.NewRepositories(store.DB, clock.NowFunc()),
		DB:           store.DB,
		Clock:        clock,
	}
}
