package journal

import (
	"cmp"
	"slices"
	"time"
)

type FilterEntryTypeString = string
type FilterKeyString = string
type FilterValString = string

/***** Filter *****/

// Filter selects entries: any of its items must match, and the entry must lie in the optional time range.
type Filter struct {
	items         []FilterItem
	occurredFrom  time.Time
	occurredUntil time.Time
}

func (f Filter) Items() []FilterItem {
	return f.items
}

func (f Filter) OccurredFrom() time.Time {
	return f.occurredFrom
}

func (f Filter) OccurredUntil() time.Time {
	return f.occurredUntil
}

// OccurringBetween returns a copy of the Filter restricted to entries that occurred within [from, until].
// A zero time leaves that side of the range open.
func (f Filter) OccurringBetween(from time.Time, until time.Time) Filter {
	f.occurredFrom = from
	f.occurredUntil = until

	return f
}

/***** FilterItem *****/

// FilterItem matches entries of any of its entry types that satisfy its predicates.
// Empty entry types or empty predicates do not restrict.
type FilterItem struct {
	entryTypes             []FilterEntryTypeString
	predicates             []FilterPredicate
	allPredicatesMustMatch bool
}

func (fi FilterItem) EntryTypes() []FilterEntryTypeString {
	return fi.entryTypes
}

func (fi FilterItem) Predicates() []FilterPredicate {
	return fi.predicates
}

func (fi FilterItem) AllPredicatesMustMatch() bool {
	return fi.allPredicatesMustMatch
}

/***** FilterPredicate *****/

// FilterPredicate matches entries whose payload has the string value val at the top-level key.
type FilterPredicate struct {
	key FilterKeyString
	val FilterValString
}

func P(key FilterKeyString, val FilterValString) FilterPredicate {
	return FilterPredicate{key: key, val: val}
}

func (fp FilterPredicate) Key() FilterKeyString {
	return fp.key
}

func (fp FilterPredicate) Val() FilterValString {
	return fp.val
}

/***** FilterBuilder *****/

// FilterBuilder builds a generic entry filter to be used by the engines.
// It only allows these combinations:
//
//   - empty filter
//   - (entryType OR entryType...)
//   - (predicate OR predicate...)
//   - (predicate AND predicate...)
//   - ((entryType OR entryType...) AND (predicate OR predicate...))
//   - ((entryType OR entryType...) AND (predicate AND predicate...))
//   - (item) OR (item)... -> multiple FilterItem(s)
type FilterBuilder interface {
	// Matching starts a new FilterItem.
	Matching() EmptyFilterItemBuilder

	// MatchingAnyEntry directly creates an empty Filter.
	MatchingAnyEntry() Filter
}

type EmptyFilterItemBuilder interface {
	// AnyEntryTypeOf adds one or multiple entry types to the current FilterItem.
	AnyEntryTypeOf(entryType FilterEntryTypeString, entryTypes ...FilterEntryTypeString) FilterItemBuilderLackingPredicates

	// AnyPredicateOf adds one or multiple FilterPredicate(s) of which ANY must match.
	AnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEntryTypes

	// AllPredicatesOf adds one or multiple FilterPredicate(s) of which ALL must match.
	AllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEntryTypes
}

type FilterItemBuilderLackingPredicates interface {
	AndAnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder
	AndAllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder
	OrMatching() EmptyFilterItemBuilder
	Finalize() Filter
}

type FilterItemBuilderLackingEntryTypes interface {
	AndAnyEntryTypeOf(entryType FilterEntryTypeString, entryTypes ...FilterEntryTypeString) CompletedFilterItemBuilder
	OrMatching() EmptyFilterItemBuilder
	Finalize() Filter
}

type CompletedFilterItemBuilder interface {
	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// Finalize returns the Filter including the current FilterItem.
	Finalize() Filter
}

// filterBuilder implements all the interfaces of FilterBuilder
type filterBuilder struct {
	filter            Filter
	currentFilterItem FilterItem
}

// BuildEntryFilter creates a FilterBuilder which must eventually be finalized with Finalize() or MatchingAnyEntry().
func BuildEntryFilter() FilterBuilder {
	return filterBuilder{}
}

func (fb filterBuilder) Matching() EmptyFilterItemBuilder {
	fb.currentFilterItem = FilterItem{}

	return fb
}

// AnyEntryTypeOf adds entry types expecting ANY to match.
//
// It sanitizes the input:
//   - removing empty entry types ("")
//   - sorting the entry types
//   - removing duplicate entry types
func (fb filterBuilder) AnyEntryTypeOf(
	entryType FilterEntryTypeString,
	entryTypes ...FilterEntryTypeString,
) FilterItemBuilderLackingPredicates {

	fb.currentFilterItem.entryTypes = sanitizeEntryTypes(append(fb.currentFilterItem.entryTypes, append([]FilterEntryTypeString{entryType}, entryTypes...)...))

	return fb
}

func (fb filterBuilder) AndAnyEntryTypeOf(
	entryType FilterEntryTypeString,
	entryTypes ...FilterEntryTypeString,
) CompletedFilterItemBuilder {

	return fb.AnyEntryTypeOf(entryType, entryTypes...)
}

// AnyPredicateOf adds predicates expecting ANY to match.
//
// It sanitizes the input:
//   - removing empty/partial predicates (key or val is "")
//   - sorting the predicates
//   - removing duplicate predicates
func (fb filterBuilder) AnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilderLackingEntryTypes {

	fb.currentFilterItem.predicates = sanitizePredicates(append(fb.currentFilterItem.predicates, append([]FilterPredicate{predicate}, predicates...)...))

	return fb
}

func (fb filterBuilder) AndAnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedFilterItemBuilder {

	return fb.AnyPredicateOf(predicate, predicates...)
}

// AllPredicatesOf adds predicates expecting ALL to match, sanitized like AnyPredicateOf.
func (fb filterBuilder) AllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilderLackingEntryTypes {

	fb.currentFilterItem.allPredicatesMustMatch = true

	return fb.AnyPredicateOf(predicate, predicates...)
}

func (fb filterBuilder) AndAllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedFilterItemBuilder {

	return fb.AllPredicatesOf(predicate, predicates...)
}

func (fb filterBuilder) OrMatching() EmptyFilterItemBuilder {
	fb.filter.items = append(slices.Clip(fb.filter.items), fb.currentFilterItem)
	fb.currentFilterItem = FilterItem{}

	return fb
}

func (fb filterBuilder) MatchingAnyEntry() Filter {
	return fb.filter
}

func (fb filterBuilder) Finalize() Filter {
	fb.filter.items = append(slices.Clip(fb.filter.items), fb.currentFilterItem)

	return fb.filter
}

func sanitizeEntryTypes(entryTypes []FilterEntryTypeString) []FilterEntryTypeString {
	entryTypes = slices.DeleteFunc(slices.Clone(entryTypes), func(e FilterEntryTypeString) bool {
		return e == ""
	})
	slices.Sort(entryTypes)

	return slices.Clip(slices.Compact(entryTypes))
}

func sanitizePredicates(predicates []FilterPredicate) []FilterPredicate {
	predicates = slices.DeleteFunc(slices.Clone(predicates), func(p FilterPredicate) bool {
		return p.key == "" || p.val == ""
	})
	slices.SortFunc(predicates, func(a, b FilterPredicate) int {
		return cmp.Or(cmp.Compare(a.key, b.key), cmp.Compare(a.val, b.val))
	})

	return slices.Clip(slices.Compact(predicates))
}
