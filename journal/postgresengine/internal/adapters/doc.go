// Package adapters lets the postgres journal run on pgxpool.Pool, sql.DB or sqlx.DB
// behind one small DBAdapter interface.
package adapters
