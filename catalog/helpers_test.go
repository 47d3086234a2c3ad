package catalog_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
	"github.com/AntonStoeckl/library-catalog-go/testutil/helper"
)

var errRecorderUnavailable = errors.New("recorder unavailable")

// recorderSpy captures every recorded transaction event and optionally fails.
type recorderSpy struct {
	events catalog.TransactionEvents
	err    error
}

func (r *recorderSpy) Record(_ context.Context, event catalog.TransactionEvent) error {
	r.events = append(r.events, event)

	return r.err
}

func (r *recorderSpy) eventTypes() []string {
	types := make([]string, 0, len(r.events))
	for _, event := range r.events {
		types = append(types, event.IsEventType())
	}

	return types
}

type fixture struct {
	console   *bytes.Buffer
	recorder  *recorderSpy
	logSpy    *helper.LogHandlerSpy
	librarian *catalog.Librarian
	library   *catalog.Library
}

func fixedClock() time.Time {
	return time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)
}

func givenFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		console:  new(bytes.Buffer),
		recorder: new(recorderSpy),
		logSpy:   helper.NewLogHandlerSpy(false),
	}

	options := []catalog.Option{
		catalog.WithConsole(f.console),
		catalog.WithRecorder(f.recorder),
		catalog.WithLogger(f.logSpy.Logger()),
		catalog.WithClock(fixedClock),
	}

	f.librarian = catalog.NewLibrarian(
		catalog.BuildPerson("Ghulam Mustafa", 24, "5599"),
		"5599-Ghulam Mustafa",
		options...,
	)
	f.library = catalog.NewLibrary("National Library", "1", f.librarian, options...)

	return f
}

func givenFictionBook(t *testing.T) *catalog.Fiction {
	t.Helper()
	return catalog.BuildFiction("The Lord of the Rings", "J.R.R. Tolkien", "FIC-001")
}

func givenNonFictionBook(t *testing.T) *catalog.NonFiction {
	t.Helper()
	return catalog.BuildNonFiction("Sapiens: A Brief History of Humankind", "Yuval Noah Harari", "NFIC-001")
}

func givenReader(t *testing.T) catalog.Person {
	t.Helper()
	return catalog.BuildPerson("Khurram Aziz", 23, "5577")
}

// consoleLines returns the console output split into lines, without the final newline.
func (f *fixture) consoleLines() []string {
	out := strings.TrimSuffix(f.console.String(), "\n")
	if out == "" {
		return nil
	}

	return strings.Split(out, "\n")
}

func (f *fixture) resetConsole() {
	f.console.Reset()
}
