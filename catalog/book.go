package catalog

import (
	"fmt"
)

// BookIDString represents a book identifier, e.g. "FIC-001".
type BookIDString = string

// Book is a catalog entry. It is implemented by *Fiction and *NonFiction only,
// so two Book values are the same book exactly when they point to the same entry.
type Book interface {
	Title() string
	Author() string
	BookID() BookIDString

	// Kind returns the variant name, used as payload of transaction events.
	Kind() string

	// Describe returns the two-line description of the book, without a trailing newline.
	Describe() string
}

const (
	// KindFiction identifies the Fiction variant.
	KindFiction = "Fiction"
	// KindNonFiction identifies the NonFiction variant.
	KindNonFiction = "NonFiction"

	fictionHeadlineFormat    = "Fiction Book - Title: %s, Author: %s, Book ID: %s"
	fictionTagline           = "This is a thrilling story for fiction lovers."
	nonFictionHeadlineFormat = "Non-Fiction Book - Title: %s, Author: %s, Book ID: %s"
	nonFictionTagline        = "This is a factual book for those seeking knowledge."
)

type bookFields struct {
	title  string
	author string
	bookID BookIDString
}

func (f bookFields) Title() string {
	return f.title
}

func (f bookFields) Author() string {
	return f.author
}

func (f bookFields) BookID() BookIDString {
	return f.bookID
}

// Fiction is a fiction book.
type Fiction struct {
	bookFields
}

// BuildFiction creates a new Fiction book.
func BuildFiction(title string, author string, bookID BookIDString) *Fiction {
	return &Fiction{
		bookFields: bookFields{title: title, author: author, bookID: bookID},
	}
}

// Kind returns KindFiction.
func (b *Fiction) Kind() string {
	return KindFiction
}

// Describe returns the fiction headline and tagline.
func (b *Fiction) Describe() string {
	return fmt.Sprintf(fictionHeadlineFormat, b.title, b.author, b.bookID) + "\n" + fictionTagline
}

// NonFiction is a non-fiction book.
type NonFiction struct {
	bookFields
}

// BuildNonFiction creates a new NonFiction book.
func BuildNonFiction(title string, author string, bookID BookIDString) *NonFiction {
	return &NonFiction{
		bookFields: bookFields{title: title, author: author, bookID: bookID},
	}
}

// Kind returns KindNonFiction.
func (b *NonFiction) Kind() string {
	return KindNonFiction
}

// Describe returns the non-fiction headline and tagline.
func (b *NonFiction) Describe() string {
	return fmt.Sprintf(nonFictionHeadlineFormat, b.title, b.author, b.bookID) + "\n" + nonFictionTagline
}

// isAbsent reports whether book is nil, including typed nil pointers wrapped in the interface.
func isAbsent(book Book) bool {
	switch b := book.(type) {
	case nil:
		return true
	case *Fiction:
		return b == nil
	case *NonFiction:
		return b == nil
	default:
		return false
	}
}
