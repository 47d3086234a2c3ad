package config

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

const (
	defaultMaxConnections    = 10
	defaultMinConnections    = 1
	defaultMaxConnLifetime   = time.Hour
	defaultMaxConnIdleTime   = time.Minute * 5
	defaultHealthCheckPeriod = time.Minute
	defaultConnectTimeout    = time.Second * 5
	driverNamePostgres       = "postgres"
)

var (
	ErrParsingDSNFailed      = errors.New("parsing postgres dsn failed")
	ErrOpeningDatabaseFailed = errors.New("opening postgres database failed")
	ErrPingingDatabaseFailed = errors.New("pinging postgres database failed")
)

// PostgresPGXPoolConfig creates a pgxpool.Config for the DSN with the journal's pool defaults.
func PostgresPGXPoolConfig(dsn string) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Join(ErrParsingDSNFailed, err)
	}

	dbConfig.MaxConns = defaultMaxConnections
	dbConfig.MinConns = defaultMinConnections
	dbConfig.MaxConnLifetime = defaultMaxConnLifetime
	dbConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	dbConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	return dbConfig, nil
}

// PostgresPGXPool opens a pgx pool for the DSN and pings it.
func PostgresPGXPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	dbConfig, err := PostgresPGXPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()

		return nil, errors.Join(ErrPingingDatabaseFailed, pingErr)
	}

	return pool, nil
}

// PostgresSQLDB opens a *sql.DB on lib/pq for the DSN and pings it.
func PostgresSQLDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverNamePostgres, dsn)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	configurePool(db)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()

		return nil, errors.Join(ErrPingingDatabaseFailed, pingErr)
	}

	return db, nil
}

// PostgresSQLX opens a *sqlx.DB on lib/pq for the DSN and pings it.
func PostgresSQLX(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverNamePostgres, dsn)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	configurePool(db.DB)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()

		return nil, errors.Join(ErrPingingDatabaseFailed, pingErr)
	}

	return db, nil
}

func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(defaultMaxConnections)
	db.SetMaxIdleConns(defaultMinConnections)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)
}
