package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

const (
	logMsgRecordingFailed = "recording catalog transaction failed"
	logMsgTransaction     = "catalog transaction: "
	logMsgNoOp            = "catalog no-op: "
	logAttrError          = "error"
	logAttrEventType      = "event_type"
	logAttrBookID         = "book_id"
	logAttrTitle          = "title"
	logAttrPersonID       = "person_id"
	logAttrLibraryID      = "library_id"
	logAttrEmployeeID     = "employee_id"
)

// Logger interface for operational logging of catalog transactions and recorder failures.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// environment holds the collaborators shared by Library and Librarian.
type environment struct {
	console  io.Writer
	recorder TransactionRecorder
	logger   Logger
	now      func() time.Time
}

func defaultEnvironment() environment {
	return environment{
		console: os.Stdout,
		now:     time.Now,
	}
}

// Option defines a functional option for configuring a Library or a Librarian.
type Option func(*environment)

// WithConsole sets the writer that receives the console messages. Defaults to os.Stdout.
func WithConsole(w io.Writer) Option {
	return func(env *environment) {
		if w != nil {
			env.console = w
		}
	}
}

// WithRecorder sets the recorder that receives every successful catalog transaction.
func WithRecorder(recorder TransactionRecorder) Option {
	return func(env *environment) {
		env.recorder = recorder
	}
}

// WithLogger sets the logger for operational logging.
//
// Info level: catalog transactions
// Debug level: no-ops like duplicate adds or misses
// Warn level: recorder failures
func WithLogger(logger Logger) Option {
	return func(env *environment) {
		env.logger = logger
	}
}

// WithClock sets the time source for transaction events. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(env *environment) {
		if now != nil {
			env.now = now
		}
	}
}

// println writes one or more console lines; write errors are ignored like fmt.Println does.
func (env environment) println(lines ...string) {
	for _, line := range lines {
		_, _ = fmt.Fprintln(env.console, line)
	}
}

func (env environment) record(ctx context.Context, event TransactionEvent, args ...any) {
	env.logInfo(logMsgTransaction+event.IsEventType(), args...)

	if env.recorder == nil {
		return
	}

	if err := env.recorder.Record(ctx, event); err != nil {
		if env.logger != nil {
			env.logger.Warn(logMsgRecordingFailed, logAttrEventType, event.IsEventType(), logAttrError, err.Error())
		}
	}
}

func (env environment) logInfo(msg string, args ...any) {
	if env.logger != nil {
		env.logger.Info(msg, args...)
	}
}

func (env environment) logNoOp(action string, args ...any) {
	if env.logger != nil {
		env.logger.Debug(logMsgNoOp+action, args...)
	}
}
