package memengine

import (
	"slices"

	"github.com/AntonStoeckl/library-catalog-go/journal"
)

// matches evaluates the filter the same way the postgres engine's WHERE clause does.
func matches(filter journal.Filter, se sequencedEntry) bool {
	occurredAt := se.entry.OccurredAt

	if from := filter.OccurredFrom(); !from.IsZero() && occurredAt.Before(from) {
		return false
	}

	if until := filter.OccurredUntil(); !until.IsZero() && occurredAt.After(until) {
		return false
	}

	if len(filter.Items()) == 0 {
		return true
	}

	for _, item := range filter.Items() {
		if itemMatches(item, se) {
			return true
		}
	}

	return false
}

func itemMatches(item journal.FilterItem, se sequencedEntry) bool {
	if len(item.EntryTypes()) > 0 && !slices.Contains(item.EntryTypes(), se.entry.EntryType) {
		return false
	}

	if len(item.Predicates()) == 0 {
		return true
	}

	if item.AllPredicatesMustMatch() {
		for _, predicate := range item.Predicates() {
			if !predicateMatches(predicate, se.payload) {
				return false
			}
		}

		return true
	}

	for _, predicate := range item.Predicates() {
		if predicateMatches(predicate, se.payload) {
			return true
		}
	}

	return false
}

func predicateMatches(predicate journal.FilterPredicate, payload map[string]any) bool {
	val, ok := payload[predicate.Key()].(string)

	return ok && val == predicate.Val()
}
