package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
)

func Test_Fiction_Describe(t *testing.T) {
	book := catalog.BuildFiction("The Lord of the Rings", "J.R.R. Tolkien", "FIC-001")

	assert.Equal(
		t,
		"Fiction Book - Title: The Lord of the Rings, Author: J.R.R. Tolkien, Book ID: FIC-001\n"+
			"This is a thrilling story for fiction lovers.",
		book.Describe(),
	)
	assert.Equal(t, catalog.KindFiction, book.Kind())
}

func Test_NonFiction_Describe(t *testing.T) {
	book := catalog.BuildNonFiction("Sapiens: A Brief History of Humankind", "Yuval Noah Harari", "NFIC-001")

	assert.Equal(
		t,
		"Non-Fiction Book - Title: Sapiens: A Brief History of Humankind, Author: Yuval Noah Harari, Book ID: NFIC-001\n"+
			"This is a factual book for those seeking knowledge.",
		book.Describe(),
	)
	assert.Equal(t, catalog.KindNonFiction, book.Kind())
}

func Test_Book_Accessors(t *testing.T) {
	var book catalog.Book = catalog.BuildNonFiction("Cosmos", "Carl Sagan", "NFIC-002")

	assert.Equal(t, "Cosmos", book.Title())
	assert.Equal(t, "Carl Sagan", book.Author())
	assert.Equal(t, "NFIC-002", book.BookID())
}

func Test_Books_WithEqualFields_AreDistinct(t *testing.T) {
	var first catalog.Book = catalog.BuildFiction("Dune", "Frank Herbert", "FIC-002")
	var second catalog.Book = catalog.BuildFiction("Dune", "Frank Herbert", "FIC-002")

	assert.NotSame(t, first, second)
	assert.False(t, first == second, "books must be compared by identity")
}

func Test_Person_Accessors(t *testing.T) {
	person := catalog.BuildPerson("Khurram Aziz", 23, "5577")

	assert.Equal(t, "Khurram Aziz", person.Name())
	assert.Equal(t, 23, person.Age())
	assert.Equal(t, "5577", person.PersonID())
}
