package helper

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// LogHandlerSpy is a slog.Handler implementation that captures log records for testing.
type LogHandlerSpy struct {
	records     []slog.Record
	mu          sync.Mutex
	logToStdout bool
}

// NewLogHandlerSpy creates a new LogHandlerSpy.
// Switchable to log to stdout, which can be useful for debugging tests by seeing the actual log output.
func NewLogHandlerSpy(logToStdOut bool) *LogHandlerSpy {
	return &LogHandlerSpy{
		records:     make([]slog.Record, 0),
		logToStdout: logToStdOut,
	}
}

// Logger returns a slog.Logger writing into this spy.
func (s *LogHandlerSpy) Logger() *slog.Logger {
	return slog.New(s)
}

// Handle implements slog.Handler interface.
func (s *LogHandlerSpy) Handle(ctx context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)

	if s.logToStdout {
		jsonHandler := slog.NewJSONHandler(os.Stdout, nil)
		_ = jsonHandler.Handle(ctx, record)
	}

	return nil
}

// Enabled implements slog.Handler interface.
func (s *LogHandlerSpy) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// WithAttrs implements slog.Handler interface.
func (s *LogHandlerSpy) WithAttrs(_ []slog.Attr) slog.Handler {
	return s
}

// WithGroup implements slog.Handler interface.
func (s *LogHandlerSpy) WithGroup(_ string) slog.Handler {
	return s
}

// GetRecordCount returns the number of captured log records.
func (s *LogHandlerSpy) GetRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// Reset clears all captured log records.
func (s *LogHandlerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = s.records[:0]
}

// HasLog checks if there's a log record with the given level and message.
func (s *LogHandlerSpy) HasLog(level slog.Level, message string) bool {
	return s.HasLogWithMessage(level, message).Assert()
}

// SpyLogRecordMatcher provides a fluent interface for checking log record attributes.
type SpyLogRecordMatcher struct {
	record *slog.Record
	found  bool
}

// HasLogWithMessage starts a fluent chain to check the first log record with the given level and message.
func (s *LogHandlerSpy) HasLogWithMessage(level slog.Level, message string) *SpyLogRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.Level == level && record.Message == message {
			return &SpyLogRecordMatcher{
				record: &record,
				found:  true,
			}
		}
	}

	return &SpyLogRecordMatcher{found: false}
}

// WithAttr checks if the log record has a string attribute with the given key and value.
func (m *SpyLogRecordMatcher) WithAttr(key string, value string) *SpyLogRecordMatcher {
	if !m.found {
		return m
	}

	hasAttr := false
	m.record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == key && attr.Value.String() == value {
			hasAttr = true
			return false
		}

		return true
	})

	m.found = hasAttr

	return m
}

// WithAttrKey checks if the log record has an attribute with the given key, whatever its value.
func (m *SpyLogRecordMatcher) WithAttrKey(key string) *SpyLogRecordMatcher {
	if !m.found {
		return m
	}

	hasAttr := false
	m.record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == key {
			hasAttr = true
			return false
		}

		return true
	})

	m.found = hasAttr

	return m
}

// Assert returns whether all conditions in the chain matched.
func (m *SpyLogRecordMatcher) Assert() bool {
	return m.found
}
