package session

import (
	"igpilot/pkg/errs"
)

// Category names one bounded activity counter.
type Category string

const (
	// Scalar counters.
	CategoryLikes      Category = "likes"
	CategoryComments   Category = "comments"
	CategoryWatched    Category = "watched"
	CategoryUnfollowed Category = "unfollowed"

	// Source-keyed counters: partitioned by the account whose list the
	// item came from.
	CategoryInteractions Category = "interactions"
	CategorySuccessful   Category = "successful"
	CategoryFollowed     Category = "followed"
	CategoryScraped      Category = "scraped"
)

var scalarCategories = map[Category]bool{
	CategoryLikes:      true,
	CategoryComments:   true,
	CategoryWatched:    true,
	CategoryUnfollowed: true,
}

var sourceCategories = map[Category]bool{
	CategoryInteractions: true,
	CategorySuccessful:   true,
	CategoryFollowed:     true,
	CategoryScraped:      true,
}

// Ledger holds the per-category counters for one session and evaluates
// limit predicates against them. Counters only ever increase; source
// keys are created lazily on first observation.
type Ledger struct {
	scalars  map[Category]int
	bySource map[Category]map[string]int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	bySource := make(map[Category]map[string]int, len(sourceCategories))
	for cat := range sourceCategories {
		bySource[cat] = make(map[string]int)
	}
	return &Ledger{
		scalars:  make(map[Category]int, len(scalarCategories)),
		bySource: bySource,
	}
}

// Record increments a scalar counter by delta.
func (l *Ledger) Record(category Category, delta int) error {
	if !scalarCategories[category] {
		return errs.InvalidCategory(string(category))
	}
	if delta < 0 {
		delta = 0
	}
	l.scalars[category] += delta
	return nil
}

// RecordSource increments a source-keyed counter by delta.
func (l *Ledger) RecordSource(category Category, source string, delta int) error {
	if !sourceCategories[category] {
		return errs.InvalidCategory(string(category))
	}
	if delta < 0 {
		delta = 0
	}
	l.bySource[category][source] += delta
	return nil
}

// Total returns the summed value across all sources for source-keyed
// categories, or the scalar value for simple ones. Unknown categories
// read as zero.
func (l *Ledger) Total(category Category) int {
	if scalarCategories[category] {
		return l.scalars[category]
	}
	total := 0
	for _, v := range l.bySource[category] {
		total += v
	}
	return total
}

// SourceBreakdown returns a copy of the per-source counts for a
// source-keyed category.
func (l *Ledger) SourceBreakdown(category Category) map[string]int {
	out := make(map[string]int, len(l.bySource[category]))
	for source, v := range l.bySource[category] {
		out[source] = v
	}
	return out
}
