package catalog_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
)

func Test_Librarian_IssueBook_IncreasesIssuedCount(t *testing.T) {
	// arrange
	ctx := context.Background()
	f := givenFixture(t)
	book := givenFictionBook(t)
	reader := givenReader(t)

	// act
	issued := f.librarian.IssueBook(ctx, book, reader)

	// assert
	assert.True(t, issued)
	assert.Equal(t, 1, f.librarian.IssuedCount())
	assert.Equal(t, []string{
		"The book 'The Lord of the Rings' is issued to Khurram Aziz",
		"Transaction logged: Khurram Aziz issued 'The Lord of the Rings'",
	}, f.consoleLines())

	require.Len(t, f.recorder.events, 1)
	event, ok := f.recorder.events[0].(catalog.BookIssuedToPerson)
	require.True(t, ok, "Expected BookIssuedToPerson event")
	assert.Equal(t, "FIC-001", event.BookID)
	assert.Equal(t, "5577", event.PersonID)
	assert.Equal(t, "Khurram Aziz", event.PersonName)
	assert.Equal(t, "5599-Ghulam Mustafa", event.EmployeeID)
	assert.Equal(t, catalog.ToOccurredAt(fixedClock()), event.HasOccurredAt())
}

func Test_Librarian_IssueBook_AllowsDuplicatesAndUnknownBooks(t *testing.T) {
	ctx := context.Background()
	f := givenFixture(t)
	book := givenFictionBook(t)
	reader := givenReader(t)

	f.librarian.IssueBook(ctx, book, reader)
	f.librarian.IssueBook(ctx, book, reader)

	assert.Equal(t, 2, f.librarian.IssuedCount())
	assert.Equal(t, 0, f.library.CatalogSize(), "issuing is not checked against the catalog")
}

func Test_Librarian_IssueBook_AbsentBook(t *testing.T) {
	ctx := context.Background()
	f := givenFixture(t)

	issued := f.librarian.IssueBook(ctx, nil, givenReader(t))

	assert.False(t, issued)
	assert.Equal(t, 0, f.librarian.IssuedCount())
	assert.Equal(t, []string{"The book is not present"}, f.consoleLines())
	assert.Empty(t, f.recorder.events)
}

func Test_Librarian_IssueBook_TypedNilBook(t *testing.T) {
	ctx := context.Background()
	f := givenFixture(t)
	var book *catalog.Fiction

	issued := f.librarian.IssueBook(ctx, book, givenReader(t))

	assert.False(t, issued)
	assert.Equal(t, []string{"The book is not present"}, f.consoleLines())
}

func Test_Librarian_ReturnBook_RestoresIssuedCount(t *testing.T) {
	// arrange
	ctx := context.Background()
	f := givenFixture(t)
	book := givenFictionBook(t)
	reader := givenReader(t)
	f.librarian.IssueBook(ctx, givenNonFictionBook(t), reader)
	countBefore := f.librarian.IssuedCount()
	f.librarian.IssueBook(ctx, book, reader)
	f.resetConsole()

	// act
	returned := f.librarian.ReturnBook(ctx, book, reader)

	// assert
	assert.True(t, returned)
	assert.Equal(t, countBefore, f.librarian.IssuedCount())
	assert.Equal(t, []string{
		"The book 'The Lord of the Rings' is returned by Khurram Aziz",
		"Transaction logged: 'The Lord of the Rings' returned by Khurram Aziz",
	}, f.consoleLines())
	assert.Equal(t, []string{
		catalog.BookIssuedToPersonEventType,
		catalog.BookIssuedToPersonEventType,
		catalog.BookReturnedByPersonEventType,
	}, f.recorder.eventTypes())
}

func Test_Librarian_ReturnBook_RemovesOnlyFirstIssuedEntry(t *testing.T) {
	ctx := context.Background()
	f := givenFixture(t)
	book := givenFictionBook(t)
	other := givenNonFictionBook(t)
	reader := givenReader(t)
	f.librarian.IssueBook(ctx, book, reader)
	f.librarian.IssueBook(ctx, other, reader)
	f.librarian.IssueBook(ctx, book, reader)

	f.librarian.ReturnBook(ctx, book, reader)

	issued := f.librarian.IssuedBooks()
	require.Len(t, issued, 2)
	assert.Same(t, other, issued[0])
	assert.Same(t, book, issued[1])
}

func Test_Librarian_ReturnBook_NeverIssuedBook_IsNoOpWithWarning(t *testing.T) {
	// arrange
	ctx := context.Background()
	f := givenFixture(t)
	reader := givenReader(t)
	f.librarian.IssueBook(ctx, givenNonFictionBook(t), reader)
	countBefore := f.librarian.IssuedCount()
	f.resetConsole()

	// act
	returned := f.librarian.ReturnBook(ctx, givenFictionBook(t), reader)

	// assert
	assert.False(t, returned)
	assert.Equal(t, countBefore, f.librarian.IssuedCount())
	assert.Equal(t, []string{"The book 'The Lord of the Rings' is not issued, nothing to return"}, f.consoleLines())
	assert.Equal(t, []string{catalog.BookIssuedToPersonEventType}, f.recorder.eventTypes())
	assert.True(t, f.logSpy.HasLogWithMessage(slog.LevelWarn, "return of a book that is not issued").
		WithAttr("book_id", "FIC-001").
		Assert())
}

func Test_Librarian_ReturnBook_AbsentBook(t *testing.T) {
	ctx := context.Background()
	f := givenFixture(t)

	returned := f.librarian.ReturnBook(ctx, nil, givenReader(t))

	assert.False(t, returned)
	assert.Equal(t, []string{"Khurram Aziz did not return the book"}, f.consoleLines())
	assert.Empty(t, f.recorder.events)
}

func Test_Librarian_RecorderFailure_DoesNotAbortIssue(t *testing.T) {
	ctx := context.Background()
	f := givenFixture(t)
	f.recorder.err = errRecorderUnavailable

	issued := f.librarian.IssueBook(ctx, givenFictionBook(t), givenReader(t))

	assert.True(t, issued)
	assert.Equal(t, 1, f.librarian.IssuedCount())
	assert.True(t, f.logSpy.HasLogWithMessage(slog.LevelWarn, "recording catalog transaction failed").
		WithAttr("event_type", catalog.BookIssuedToPersonEventType).
		WithAttr("error", errRecorderUnavailable.Error()).
		Assert())
}

func Test_Librarian_PersonFieldsArePromoted(t *testing.T) {
	f := givenFixture(t)

	assert.Equal(t, "Ghulam Mustafa", f.librarian.Name())
	assert.Equal(t, 24, f.librarian.Age())
	assert.Equal(t, "5599", f.librarian.PersonID())
	assert.Equal(t, "5599-Ghulam Mustafa", f.librarian.EmployeeID())
}

func Test_Librarian_WithoutOptions_DoesNotPanic(t *testing.T) {
	librarian := catalog.NewLibrarian(catalog.BuildPerson("Ann", 40, "1"), "E-1", catalog.WithConsole(new(discard)))

	assert.NotPanics(t, func() {
		librarian.IssueBook(context.Background(), givenFictionBook(t), givenReader(t))
		librarian.ReturnBook(context.Background(), givenFictionBook(t), givenReader(t))
	})
}

type discard struct{}

func (discard) Write(p []byte) (int, error) {
	return len(p), nil
}
