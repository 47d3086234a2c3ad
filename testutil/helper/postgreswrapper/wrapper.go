// Package postgreswrapper opens a postgres journal for integration tests.
//
// Tests using it are skipped unless LIBRARY_JOURNAL_TEST_DSN is set. ADAPTER_TYPE selects
// the connection type: pgx (default), sqldb or sqlx.
package postgreswrapper

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-catalog-go/journal/postgresengine"
	"github.com/AntonStoeckl/library-catalog-go/shell/config"
)

const (
	envTestDSN     = "LIBRARY_JOURNAL_TEST_DSN"
	envAdapterType = "ADAPTER_TYPE"
)

// Wrapper holds a postgres journal on a dedicated table and the means to clean it up.
type Wrapper struct {
	Journal   postgresengine.Journal
	tableName string
	exec      func(ctx context.Context, sql string) error
	close     func()
}

// CreateWrapperWithTestConfig opens the journal on a fresh table named after the test.
func CreateWrapperWithTestConfig(t testing.TB, tableName string, options ...postgresengine.Option) *Wrapper {
	t.Helper()

	dsn := os.Getenv(envTestDSN)
	if dsn == "" {
		t.Skipf("%s is not set, skipping postgres integration test", envTestDSN)
	}

	ctx := context.Background()
	options = append([]postgresengine.Option{postgresengine.WithTableName(tableName)}, options...)
	w := &Wrapper{tableName: tableName}

	var err error

	switch adapterType := strings.ToLower(os.Getenv(envAdapterType)); adapterType {
	case config.DriverPGX, "":
		pool, openErr := config.PostgresPGXPool(ctx, dsn)
		require.NoError(t, openErr, "error connecting to DB pool in test setup")
		w.close = pool.Close
		w.exec = func(ctx context.Context, sql string) error {
			_, execErr := pool.Exec(ctx, sql)
			return execErr
		}
		w.Journal, err = postgresengine.NewJournalFromPGXPool(pool, options...)

	case config.DriverSQLDB:
		db, openErr := config.PostgresSQLDB(ctx, dsn)
		require.NoError(t, openErr, "error connecting to DB in test setup")
		w.close = func() { _ = db.Close() }
		w.exec = func(ctx context.Context, sql string) error {
			_, execErr := db.ExecContext(ctx, sql)
			return execErr
		}
		w.Journal, err = postgresengine.NewJournalFromSQLDB(db, options...)

	case config.DriverSQLX:
		db, openErr := config.PostgresSQLX(ctx, dsn)
		require.NoError(t, openErr, "error connecting to DB in test setup")
		w.close = func() { _ = db.Close() }
		w.exec = func(ctx context.Context, sql string) error {
			_, execErr := db.ExecContext(ctx, sql)
			return execErr
		}
		w.Journal, err = postgresengine.NewJournalFromSQLX(db, options...)

	default:
		panic(fmt.Sprintf("unsupported adapter type from env: %s", adapterType))
	}

	require.NoError(t, err, "error creating the journal in test setup")
	require.NoError(t, w.Journal.EnsureSchema(ctx), "error creating the journal table in test setup")
	w.CleanUp(t)

	t.Cleanup(func() {
		w.drop(t)
		w.close()
	})

	return w
}

// CleanUp empties the journal table and resets its sequence.
func (w *Wrapper) CleanUp(t testing.TB) {
	t.Helper()

	err := w.exec(context.Background(), "TRUNCATE TABLE "+pgx.Identifier{w.tableName}.Sanitize()+" RESTART IDENTITY")
	require.NoError(t, err, "error cleaning up the journal table")
}

func (w *Wrapper) drop(t testing.TB) {
	err := w.exec(context.Background(), "DROP TABLE IF EXISTS "+pgx.Identifier{w.tableName}.Sanitize())
	if err != nil {
		t.Logf("dropping journal table %s failed: %v", w.tableName, err)
	}
}
