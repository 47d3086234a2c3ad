package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-catalog-go/journal"
	"github.com/AntonStoeckl/library-catalog-go/journal/postgresengine/internal/adapters"
)

const (
	defaultTableName             = "journal_entries"
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgBuildEntryFailed       = "failed to build storable entry from database row"
	logMsgBuildInsertQueryFailed = "failed to build insert query"
	logMsgDBExecFailed           = "database execution failed during entry append"
	logMsgRowsAffectedFailed     = "failed to get rows affected count"
	logMsgQueryCompleted         = "query completed"
	logMsgEntriesAppended        = "entries appended"
	logMsgConcurrencyConflict    = "concurrency conflict detected"
	logMsgSchemaEnsured          = "schema ensured"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "journal operation: "
	logAttrError                 = "error"
	logAttrQuery                 = "query"
	logAttrEntryType             = "entry_type"
	logAttrEntryCount            = "entry_count"
	logAttrDurationMS            = "duration_ms"
	logAttrExpectedEntries       = "expected_entries"
	logAttrRowsAffected          = "rows_affected"
	logAttrExpectedSequence      = "expected_sequence"
	logAttrTable                 = "table"
	logActionQuery               = "query"
	logActionAppend              = "append"
	logActionSchema              = "schema"
	colEntryType                 = "entry_type"
	colOccurredAt                = "occurred_at"
	colPayload                   = "payload"
	colMetadata                  = "metadata"
	colSequenceNumber            = "sequence_number"
	cteContext                   = "context"
	cteVals                      = "vals"
	dialectPostgres              = "postgres"
	aliasMaxSeq                  = "max_seq"
	castText                     = "?::text"
	castTimestamp                = "?::timestamp with time zone"
	castJsonb                    = "?::jsonb"
	payloadContains              = colPayload + " @> ?::jsonb"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number bigserial PRIMARY KEY,
	entry_type text NOT NULL,
	occurred_at timestamptz NOT NULL,
	payload jsonb NOT NULL,
	metadata jsonb NOT NULL DEFAULT '{}'::jsonb
);
CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s USING gin (payload jsonb_path_ops);`

type sqlQueryString = string

// Journal is the PostgreSQL journal engine.
type Journal struct {
	db        adapters.DBAdapter
	tableName string
	logger    journal.Logger
}

type queryResultRow struct {
	entryType      string
	occurredAt     time.Time
	payload        []byte
	metadata       []byte
	sequenceNumber journal.MaxSequenceNumberUint
}

// NewJournalFromPGXPool creates a Journal on a pgx pool.
func NewJournalFromPGXPool(db *pgxpool.Pool, options ...Option) (Journal, error) {
	if db == nil {
		return Journal{}, journal.ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewPGXAdapter(db), options...)
}

// NewJournalFromSQLDB creates a Journal on a sql.DB.
func NewJournalFromSQLDB(db *sql.DB, options ...Option) (Journal, error) {
	if db == nil {
		return Journal{}, journal.ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewSQLAdapter(db), options...)
}

// NewJournalFromSQLX creates a Journal on a sqlx.DB.
func NewJournalFromSQLX(db *sqlx.DB, options ...Option) (Journal, error) {
	if db == nil {
		return Journal{}, journal.ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewSQLXAdapter(db), options...)
}

func newJournal(db adapters.DBAdapter, options ...Option) (Journal, error) {
	j := Journal{
		db:        db,
		tableName: defaultTableName,
	}

	for _, option := range options {
		if err := option(&j); err != nil {
			return Journal{}, err
		}
	}

	return j, nil
}

// EnsureSchema creates the journal table and its payload index if they do not exist yet.
func (j Journal) EnsureSchema(ctx context.Context) error {
	sqlStmt := fmt.Sprintf(
		createTableSQL,
		pgx.Identifier{j.tableName}.Sanitize(),
		pgx.Identifier{j.tableName + "_payload_idx"}.Sanitize(),
	)

	start := time.Now()
	_, execErr := j.db.Exec(ctx, sqlStmt)
	j.logQueryWithDuration(sqlStmt, logActionSchema, time.Since(start))

	if execErr != nil {
		if j.logger != nil {
			j.logger.Error(logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlStmt)
		}

		return errors.Join(journal.ErrAppendingEntryFailed, execErr)
	}

	j.logOperation(logMsgSchemaEnsured, logAttrTable, j.tableName)

	return nil
}

// Query returns the entries matching the filter in sequence order
// together with the highest sequence number among them (0 if there are none).
func (j Journal) Query(ctx context.Context, filter journal.Filter) (
	journal.StorableEntries,
	journal.MaxSequenceNumberUint,
	error,
) {

	var empty journal.StorableEntries

	sqlQuery, buildQueryErr := j.buildSelectQuery(filter)
	if buildQueryErr != nil {
		if j.logger != nil {
			j.logger.Error(logMsgBuildSelectQueryFailed, logAttrError, buildQueryErr.Error())
		}

		return empty, 0, buildQueryErr
	}

	start := time.Now()
	rows, queryErr := j.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	j.logQueryWithDuration(sqlQuery, logActionQuery, duration)

	if queryErr != nil {
		if j.logger != nil {
			j.logger.Error(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		}

		return empty, 0, errors.Join(journal.ErrQueryingEntriesFailed, queryErr)
	}
	defer j.closeRows(rows)

	entries, maxSequenceNumber, scanErr := j.processQueryResults(rows)
	if scanErr != nil {
		return empty, 0, scanErr
	}

	j.logOperation(
		logMsgQueryCompleted,
		logAttrEntryCount, len(entries),
		logAttrDurationMS, durationToMilliseconds(duration))

	return entries, maxSequenceNumber, nil
}

func (j Journal) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if j.logger != nil {
			j.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

func (j Journal) processQueryResults(rows adapters.DBRows) (
	journal.StorableEntries,
	journal.MaxSequenceNumberUint,
	error,
) {

	var empty journal.StorableEntries
	result := queryResultRow{}
	entries := make(journal.StorableEntries, 0)
	maxSequenceNumber := journal.MaxSequenceNumberUint(0)

	for rows.Next() {
		rowScanErr := rows.Scan(&result.entryType, &result.occurredAt, &result.payload, &result.metadata, &result.sequenceNumber)
		if rowScanErr != nil {
			if j.logger != nil {
				j.logger.Error(logMsgScanRowFailed, logAttrError, rowScanErr.Error())
			}

			return empty, 0, errors.Join(journal.ErrScanningDBRowFailed, rowScanErr)
		}

		entry, buildErr := journal.BuildStorableEntry(result.entryType, result.occurredAt, result.payload, result.metadata)
		if buildErr != nil {
			if j.logger != nil {
				j.logger.Error(logMsgBuildEntryFailed, logAttrError, buildErr.Error(), logAttrEntryType, result.entryType)
			}

			return empty, 0, errors.Join(journal.ErrBuildingStorableEntryFailed, buildErr)
		}

		entries = append(entries, entry)
		maxSequenceNumber = result.sequenceNumber
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		if j.logger != nil {
			j.logger.Error(logMsgScanRowFailed, logAttrError, rowsErr.Error())
		}

		return empty, 0, errors.Join(journal.ErrScanningDBRowFailed, rowsErr)
	}

	return entries, maxSequenceNumber, nil
}

// Append appends the entries atomically if the highest sequence number matching the filter
// still equals expectedMaxSequenceNumber, otherwise it returns journal.ErrConcurrencyConflict.
//
// The filter should be the one used for the Query that produced expectedMaxSequenceNumber.
func (j Journal) Append(
	ctx context.Context,
	filter journal.Filter,
	expectedMaxSequenceNumber journal.MaxSequenceNumberUint,
	entry journal.StorableEntry,
	additionalEntries ...journal.StorableEntry,
) error {

	allEntries := append(journal.StorableEntries{entry}, additionalEntries...)

	sqlQuery, buildQueryErr := j.buildAppendQuery(allEntries, filter, expectedMaxSequenceNumber)
	if buildQueryErr != nil {
		if j.logger != nil {
			j.logger.Error(logMsgBuildInsertQueryFailed, logAttrError, buildQueryErr.Error(), logAttrEntryCount, len(allEntries))
		}

		return buildQueryErr
	}

	start := time.Now()
	result, execErr := j.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	j.logQueryWithDuration(sqlQuery, logActionAppend, duration)

	if execErr != nil {
		if j.logger != nil {
			j.logger.Error(logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)
		}

		return errors.Join(journal.ErrAppendingEntryFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		if j.logger != nil {
			j.logger.Error(logMsgRowsAffectedFailed, logAttrError, rowsAffectedErr.Error())
		}

		return errors.Join(journal.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if rowsAffected < int64(len(allEntries)) {
		j.logOperation(
			logMsgConcurrencyConflict,
			logAttrExpectedEntries, len(allEntries),
			logAttrRowsAffected, rowsAffected,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
		)

		return journal.ErrConcurrencyConflict
	}

	j.logOperation(
		logMsgEntriesAppended,
		logAttrEntryCount, len(allEntries),
		logAttrDurationMS, durationToMilliseconds(duration),
	)

	return nil
}

func (j Journal) buildAppendQuery(
	allEntries journal.StorableEntries,
	filter journal.Filter,
	expectedMaxSequenceNumber journal.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	if len(allEntries) == 1 {
		return j.buildInsertQueryForSingleEntry(allEntries[0], filter, expectedMaxSequenceNumber)
	}

	return j.buildInsertQueryForMultipleEntries(allEntries, filter, expectedMaxSequenceNumber)
}

func (j Journal) buildSelectQuery(filter journal.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(j.tableName).
		Select(colEntryType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt, whereErr := j.addWhereClause(filter, selectStmt)
	if whereErr != nil {
		return "", whereErr
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(journal.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (j Journal) buildMaxSequenceCTE(builder goqu.DialectWrapper, filter journal.Filter) (*goqu.SelectDataset, error) {
	cteStmt := builder.
		From(j.tableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	return j.addWhereClause(filter, cteStmt)
}

func (j Journal) buildInsertQueryForSingleEntry(
	entry journal.StorableEntry,
	filter journal.Filter,
	expectedMaxSequenceNumber journal.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, whereErr := j.buildMaxSequenceCTE(builder, filter)
	if whereErr != nil {
		return "", whereErr
	}

	selectStmt := builder.
		From(cteContext).
		Select(
			goqu.L(castText, entry.EntryType),
			goqu.L(castTimestamp, entry.OccurredAt),
			goqu.L(castJsonb, string(entry.PayloadJSON)),
			goqu.L(castJsonb, string(entry.MetadataJSON)),
		).
		Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber)))

	insertStmt := builder.
		Insert(j.tableName).
		Cols(colEntryType, colOccurredAt, colPayload, colMetadata).
		FromQuery(selectStmt).
		With(cteContext, cteStmt)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(journal.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (j Journal) buildInsertQueryForMultipleEntries(
	entries journal.StorableEntries,
	filter journal.Filter,
	expectedMaxSequenceNumber journal.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, whereErr := j.buildMaxSequenceCTE(builder, filter)
	if whereErr != nil {
		return "", whereErr
	}

	var valuesStmt *goqu.SelectDataset
	for _, entry := range entries {
		entryStmt := builder.Select(
			goqu.L(castText, entry.EntryType).As(colEntryType),
			goqu.L(castTimestamp, entry.OccurredAt).As(colOccurredAt),
			goqu.L(castJsonb, string(entry.PayloadJSON)).As(colPayload),
			goqu.L(castJsonb, string(entry.MetadataJSON)).As(colMetadata),
		)

		if valuesStmt == nil {
			valuesStmt = entryStmt
			continue
		}

		valuesStmt = valuesStmt.UnionAll(entryStmt)
	}

	insertStmt := builder.
		Insert(j.tableName).
		Cols(colEntryType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					goqu.I(cteVals+"."+colEntryType),
					goqu.I(cteVals+"."+colOccurredAt),
					goqu.I(cteVals+"."+colPayload),
					goqu.I(cteVals+"."+colMetadata),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(journal.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// addWhereClause translates the filter: items are OR-ed, inside an item the entry types are OR-ed
// and AND-ed with the predicates, which are OR-ed or AND-ed depending on the item.
func (j Journal) addWhereClause(filter journal.Filter, selectStmt *goqu.SelectDataset) (*goqu.SelectDataset, error) {
	itemsExpressions := make([]goqu.Expression, 0)

	for _, item := range filter.Items() {
		entryTypeExpressions := make([]goqu.Expression, 0)
		predicateExpressions := make([]goqu.Expression, 0)

		for _, entryType := range item.EntryTypes() {
			entryTypeExpressions = append(entryTypeExpressions, goqu.Ex{colEntryType: entryType})
		}

		for _, predicate := range item.Predicates() {
			containment, marshalErr := jsoniter.ConfigFastest.Marshal(map[string]string{predicate.Key(): predicate.Val()})
			if marshalErr != nil {
				return nil, errors.Join(journal.ErrBuildingQueryFailed, marshalErr)
			}

			predicateExpressions = append(predicateExpressions, goqu.L(payloadContains, string(containment)))
		}

		var predicatesExpressionList exp.ExpressionList

		if item.AllPredicatesMustMatch() {
			predicatesExpressionList = goqu.And(predicateExpressions...)
		} else {
			predicatesExpressionList = goqu.Or(predicateExpressions...)
		}

		itemsExpressions = append(
			itemsExpressions,
			goqu.And(goqu.Or(entryTypeExpressions...), predicatesExpressionList),
		)
	}

	occurredAtExpressions := make([]goqu.Expression, 0)

	if !filter.OccurredFrom().IsZero() {
		occurredAtExpressions = append(occurredAtExpressions, goqu.C(colOccurredAt).Gte(filter.OccurredFrom()))
	}

	if !filter.OccurredUntil().IsZero() {
		occurredAtExpressions = append(occurredAtExpressions, goqu.C(colOccurredAt).Lte(filter.OccurredUntil()))
	}

	return selectStmt.Where(
		goqu.And(
			goqu.Or(itemsExpressions...),
			goqu.And(occurredAtExpressions...),
		),
	), nil
}

func (j Journal) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if j.logger != nil {
		j.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

func (j Journal) logOperation(action string, args ...any) {
	if j.logger != nil {
		j.logger.Info(logMsgOperation+action, args...)
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
