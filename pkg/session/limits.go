package session

import (
	"fmt"

	"igpilot/pkg/config"
	"igpilot/pkg/logger"
)

// Limit enumerates the quota kinds a session can be checked against.
type Limit int

const (
	LimitAll Limit = iota
	LimitLikes
	LimitComments
	LimitFollows
	LimitWatches
	LimitSuccess
	LimitTotal
	LimitScraped
)

// Limits holds the resolved ceilings for one session. Resolved once at
// session start and immutable afterwards.
type Limits struct {
	Likes    int
	Follows  int
	Comments int
	Watches  int
	Success  int
	Total    int
	Scraped  int
}

// LimitsFromConfig resolves the session ceilings from configuration.
func LimitsFromConfig(cfg *config.LimitsConfig) Limits {
	return Limits{
		Likes:    cfg.TotalLikes,
		Follows:  cfg.TotalFollows,
		Comments: cfg.TotalComments,
		Watches:  cfg.TotalWatches,
		Success:  cfg.TotalSuccessful,
		Total:    cfg.TotalInteractions,
		Scraped:  cfg.TotalScraped,
	}
}

// limitRow is one entry of the evaluation table: the current counter
// value, its ceiling and a human label, generated once per check and
// iterated instead of per-kind branching.
type limitRow struct {
	kind    Limit
	label   string
	current int
	ceiling int
	// inAggregate marks the kinds that can trip LimitAll. Comments and
	// watches are tracked and reported but never end the session.
	inAggregate bool
}

func (r limitRow) reached() bool {
	return r.current >= r.ceiling
}

// rows builds the evaluation table for the given ledger and ceilings.
func rows(ledger *Ledger, limits Limits) []limitRow {
	return []limitRow{
		{LimitLikes, "total likes", ledger.Total(CategoryLikes), limits.Likes, true},
		{LimitComments, "total comments", ledger.Total(CategoryComments), limits.Comments, false},
		{LimitFollows, "total followed", ledger.Total(CategoryFollowed), limits.Follows, true},
		{LimitWatches, "total watched", ledger.Total(CategoryWatched), limits.Watches, false},
		{LimitSuccess, "successful interactions", ledger.Total(CategorySuccessful), limits.Success, true},
		{LimitTotal, "total interactions", ledger.Total(CategoryInteractions), limits.Total, true},
		{LimitScraped, "scraped users", ledger.Total(CategoryScraped), limits.Scraped, true},
	}
}

// IsReached evaluates one limit kind against the ceilings, using >=
// semantics. LimitAll trips when any aggregate kind trips. Every
// evaluation reports the relevant rows: at info level when verbose,
// debug otherwise.
func (l *Ledger) IsReached(kind Limit, limits Limits, log logger.Logger, verbose bool) bool {
	report := func(r limitRow) {
		status := "OK"
		if r.reached() {
			status = "limit reached"
		}
		msg := fmt.Sprintf("%s: %s (%d/%d)", r.label, status, r.current, r.ceiling)
		if verbose {
			log.Info(msg)
		} else {
			log.Debug(msg)
		}
	}

	table := rows(l, limits)

	if kind == LimitAll {
		reached := false
		for _, r := range table {
			report(r)
			if r.inAggregate && r.reached() {
				reached = true
			}
		}
		return reached
	}

	for _, r := range table {
		if r.kind == kind {
			report(r)
			return r.reached()
		}
	}
	return false
}
