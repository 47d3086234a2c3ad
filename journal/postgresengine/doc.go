// Package postgresengine implements the journal on PostgreSQL.
//
// Entries live in a single table with JSONB payload and metadata columns. Queries are built
// with goqu; filters become event type equality checks and JSONB containment (@>) predicates.
// Append uses a CTE-guarded INSERT ... SELECT so that nothing is written when the filtered
// stream has moved past the expected sequence number, which surfaces as journal.ErrConcurrencyConflict.
//
// The engine runs on a pgxpool.Pool, a sql.DB (lib/pq) or a sqlx.DB:
//
//	j, err := postgresengine.NewJournalFromPGXPool(pool, postgresengine.WithLogger(logger))
//	if err != nil { ... }
//	if err := j.EnsureSchema(ctx); err != nil { ... }
package postgresengine
