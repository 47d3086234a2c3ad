// Command librarydemo runs the fixed library catalog scenario.
//
// The console transcript goes to stdout, structured logs go to stderr. Every catalog transaction
// is journaled, by default in memory, or in PostgreSQL when LIBRARY_JOURNAL_DRIVER is pgx, sqldb
// or sqlx. If the database cannot be reached the demo falls back to the memory journal.
// The exit status is always 0.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
	"github.com/AntonStoeckl/library-catalog-go/journal/memengine"
	"github.com/AntonStoeckl/library-catalog-go/journal/postgresengine"
	"github.com/AntonStoeckl/library-catalog-go/shell"
	"github.com/AntonStoeckl/library-catalog-go/shell/config"
)

const (
	logMsgJournalFallback = "postgres journal unavailable, falling back to memory journal"
	logMsgJournalOpened   = "journal opened"
	logMsgScenarioDone    = "scenario completed"
	logMsgJournalReadFail = "reading journaled transactions failed"
	logMsgJournaledEntry  = "journaled transaction"
	logAttrDriver         = "driver"
	logAttrError          = "error"
	logAttrTransactions   = "journaled_transactions"
	logAttrCorrelationID  = "correlation_id"
	logAttrEntryType      = "entry_type"
	logAttrMessageID      = "message_id"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run(ctx, os.Stdout, os.Stderr, config.Load())
}

func run(ctx context.Context, stdout io.Writer, stderr io.Writer, cfg config.Config) {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	j, closeJournal := openJournal(ctx, cfg, logger)
	defer closeJournal()

	recorder := shell.NewJournalRecorder(j, shell.WithRecorderLogger(logger))
	options := []catalog.Option{
		catalog.WithConsole(stdout),
		catalog.WithRecorder(recorder),
		catalog.WithLogger(logger),
	}

	runScenario(ctx, stdout, cfg, options...)

	logJournal(ctx, j, recorder, logger)
}

func runScenario(ctx context.Context, stdout io.Writer, cfg config.Config, options ...catalog.Option) {
	fictionBook := catalog.BuildFiction("The Lord of the Rings", "J.R.R. Tolkien", "FIC-001")
	nonFictionBook := catalog.BuildNonFiction("Sapiens: A Brief History of Humankind", "Yuval Noah Harari", "NFIC-001")

	_, _ = fmt.Fprintln(stdout, fictionBook.Describe())
	_, _ = fmt.Fprintln(stdout)

	_, _ = fmt.Fprintln(stdout, nonFictionBook.Describe())
	_, _ = fmt.Fprintln(stdout)

	librarian := catalog.NewLibrarian(catalog.BuildPerson("Ghulam Mustafa", 24, "5599"), "5599-Ghulam Mustafa", options...)
	library := catalog.NewLibrary(cfg.LibraryName, cfg.LibraryID, librarian, options...)

	library.AddBook(ctx, fictionBook)
	library.AddBook(ctx, nonFictionBook)

	user := catalog.BuildPerson("Khurram Aziz", 23, "5577")
	librarian.IssueBook(ctx, fictionBook, user)

	library.ListIssuedBooks()

	librarian.ReturnBook(ctx, fictionBook, user)

	library.ListIssuedBooks()

	library.SearchBook("Sapiens: A Brief History of Humankind")

	library.RemoveBook(ctx, "NFIC-001")

	library.ViewBooks()

	library.DisplayTransactionHistory()
}

func logJournal(ctx context.Context, j shell.Journal, recorder *shell.JournalRecorder, logger *slog.Logger) {
	envelopes, err := shell.ReadTransactionEnvelopes(ctx, j, shell.FilterAllTransactions())
	if err != nil {
		logger.Warn(logMsgJournalReadFail, logAttrError, err.Error())
		return
	}

	for _, envelope := range envelopes {
		logger.Debug(
			logMsgJournaledEntry,
			logAttrEntryType, envelope.Event.IsEventType(),
			logAttrMessageID, envelope.Metadata.MessageID,
		)
	}

	logger.Info(
		logMsgScenarioDone,
		logAttrTransactions, len(envelopes),
		logAttrCorrelationID, recorder.CorrelationID().String(),
	)
}

type schemaJournal interface {
	shell.Journal
	EnsureSchema(ctx context.Context) error
}

// openJournal never fails: any postgres problem is logged and answered with a memory journal.
func openJournal(ctx context.Context, cfg config.Config, logger *slog.Logger) (shell.Journal, func()) {
	if cfg.UsesPostgres() {
		j, closeDB, err := openPostgresJournal(ctx, cfg, logger)
		if err == nil {
			logger.Info(logMsgJournalOpened, logAttrDriver, cfg.JournalDriver)

			return j, closeDB
		}

		logger.Warn(logMsgJournalFallback, logAttrDriver, cfg.JournalDriver, logAttrError, err.Error())
	}

	logger.Info(logMsgJournalOpened, logAttrDriver, config.DriverMemory)

	return memengine.NewJournal(memengine.WithLogger(logger)), func() {}
}

func openPostgresJournal(ctx context.Context, cfg config.Config, logger *slog.Logger) (schemaJournal, func(), error) {
	options := []postgresengine.Option{
		postgresengine.WithTableName(cfg.JournalTable),
		postgresengine.WithLogger(logger),
	}

	var (
		j       postgresengine.Journal
		closeDB func()
		err     error
	)

	switch cfg.JournalDriver {
	case config.DriverSQLDB:
		db, openErr := config.PostgresSQLDB(ctx, cfg.JournalDSN)
		if openErr != nil {
			return nil, nil, openErr
		}
		closeDB = func() { _ = db.Close() }
		j, err = postgresengine.NewJournalFromSQLDB(db, options...)

	case config.DriverSQLX:
		db, openErr := config.PostgresSQLX(ctx, cfg.JournalDSN)
		if openErr != nil {
			return nil, nil, openErr
		}
		closeDB = func() { _ = db.Close() }
		j, err = postgresengine.NewJournalFromSQLX(db, options...)

	default:
		pool, openErr := config.PostgresPGXPool(ctx, cfg.JournalDSN)
		if openErr != nil {
			return nil, nil, openErr
		}
		closeDB = pool.Close
		j, err = postgresengine.NewJournalFromPGXPool(pool, options...)
	}

	if err == nil {
		err = j.EnsureSchema(ctx)
	}

	if err != nil {
		closeDB()

		return nil, nil, err
	}

	return j, closeDB, nil
}
