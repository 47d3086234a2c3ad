package journal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-catalog-go/journal"
)

//nolint:funlen
func Test_FilterBuilder_ValidCombinations(t *testing.T) {
	tests := []struct {
		name     string
		build    func() journal.Filter
		validate func(t *testing.T, filter journal.Filter)
	}{
		{
			name: "matching_any_entry_creates_empty_filter",
			build: func() journal.Filter {
				return journal.BuildEntryFilter().MatchingAnyEntry()
			},
			validate: func(t *testing.T, f journal.Filter) {
				assert.Empty(t, f.Items())
				assert.True(t, f.OccurredFrom().IsZero())
				assert.True(t, f.OccurredUntil().IsZero())
			},
		},
		{
			name: "entry_types_are_sanitized",
			build: func() journal.Filter {
				return journal.BuildEntryFilter().
					Matching().
					AnyEntryTypeOf("BookRemovedFromCatalog", "", "BookAddedToCatalog", "BookRemovedFromCatalog").
					Finalize()
			},
			validate: func(t *testing.T, f journal.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.Equal(t, []string{"BookAddedToCatalog", "BookRemovedFromCatalog"}, f.Items()[0].EntryTypes())
				assert.Empty(t, f.Items()[0].Predicates())
			},
		},
		{
			name: "entry_types_and_any_predicates",
			build: func() journal.Filter {
				return journal.BuildEntryFilter().
					Matching().
					AnyEntryTypeOf("BookIssuedToPerson").
					AndAnyPredicateOf(journal.P("PersonID", "5577"), journal.P("BookID", "FIC-001"), journal.P("BookID", "")).
					Finalize()
			},
			validate: func(t *testing.T, f journal.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.Equal(t, []string{"BookIssuedToPerson"}, f.Items()[0].EntryTypes())
				assert.Equal(t,
					[]journal.FilterPredicate{journal.P("BookID", "FIC-001"), journal.P("PersonID", "5577")},
					f.Items()[0].Predicates(),
				)
				assert.False(t, f.Items()[0].AllPredicatesMustMatch())
			},
		},
		{
			name: "all_predicates_then_entry_types",
			build: func() journal.Filter {
				return journal.BuildEntryFilter().
					Matching().
					AllPredicatesOf(journal.P("BookID", "FIC-001"), journal.P("BookID", "FIC-001"), journal.P("PersonID", "5577")).
					AndAnyEntryTypeOf("BookReturnedByPerson").
					Finalize()
			},
			validate: func(t *testing.T, f journal.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.Len(t, f.Items()[0].Predicates(), 2)
				assert.True(t, f.Items()[0].AllPredicatesMustMatch())
				assert.Equal(t, []string{"BookReturnedByPerson"}, f.Items()[0].EntryTypes())
			},
		},
		{
			name: "multiple_items",
			build: func() journal.Filter {
				return journal.BuildEntryFilter().
					Matching().
					AnyEntryTypeOf("BookAddedToCatalog").
					AndAnyPredicateOf(journal.P("LibraryID", "1")).
					OrMatching().
					AnyEntryTypeOf("BookIssuedToPerson").
					Finalize()
			},
			validate: func(t *testing.T, f journal.Filter) {
				assert.Len(t, f.Items(), 2)
				assert.Equal(t, []string{"BookAddedToCatalog"}, f.Items()[0].EntryTypes())
				assert.Equal(t, []string{"BookIssuedToPerson"}, f.Items()[1].EntryTypes())
				assert.Empty(t, f.Items()[1].Predicates())
			},
		},
		{
			name: "occurring_between",
			build: func() journal.Filter {
				return journal.BuildEntryFilter().
					Matching().
					AnyEntryTypeOf("BookAddedToCatalog").
					Finalize().
					OccurringBetween(
						time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
						time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
					)
			},
			validate: func(t *testing.T, f journal.Filter) {
				assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), f.OccurredFrom())
				assert.Equal(t, time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC), f.OccurredUntil())
				assert.Len(t, f.Items(), 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, tt.build())
		})
	}
}

func Test_FilterBuilder_IsImmutableAcrossBranches(t *testing.T) {
	base := journal.BuildEntryFilter().
		Matching().
		AnyEntryTypeOf("BookAddedToCatalog").
		OrMatching()

	first := base.AnyEntryTypeOf("BookIssuedToPerson").Finalize()
	second := base.AnyEntryTypeOf("BookReturnedByPerson").Finalize()

	assert.Equal(t, []string{"BookIssuedToPerson"}, first.Items()[1].EntryTypes())
	assert.Equal(t, []string{"BookReturnedByPerson"}, second.Items()[1].EntryTypes())
}
