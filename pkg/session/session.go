package session

import (
	"time"

	"github.com/google/uuid"

	"igpilot/pkg/config"
	"igpilot/pkg/logger"
	"igpilot/pkg/metrics"
	"igpilot/pkg/workhours"
)

// Session is the single source of truth for one automation run: its
// identity, its counters and the ceilings they are checked against.
// One session owns one device; nothing is shared across sessions.
type Session struct {
	ID        string
	StartTime time.Time

	// Profile metadata of the automated account, recorded for the
	// session report.
	Username       string
	FollowersCount int
	FollowingCount int

	ledger     *Ledger
	limits     Limits
	gate       *workhours.Gate
	log        logger.Logger
	meter      *metrics.Metrics
	finishTime *time.Time
}

// New creates a session with ceilings resolved once from configuration.
// Ceilings are immutable for the session's lifetime.
func New(cfg *config.Config, log logger.Logger, meter *metrics.Metrics) (*Session, error) {
	gate, err := workhours.New(cfg.WorkingHours.Ranges, cfg.WorkingHours.DeltaMinutes)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        uuid.NewString(),
		StartTime: time.Now(),
		ledger:    NewLedger(),
		limits:    LimitsFromConfig(&cfg.Limits),
		gate:      gate,
		log:       log,
		meter:     meter,
	}

	log.InfoWithFields("session started", map[string]interface{}{
		"session_id": s.ID,
	})
	return s, nil
}

// mustRecord panics on a ledger error. The categories passed by the
// Record methods are package constants, so an error here means the
// category tables are miswired.
func mustRecord(err error) {
	if err != nil {
		panic(err)
	}
}

// RecordInteraction tallies one attempted interaction against a source.
// The total counter always advances; successful, followed and scraped
// advance only when their flags are set. Counters never decrement.
func (s *Session) RecordInteraction(source string, succeeded, followed, scraped bool) {
	mustRecord(s.ledger.RecordSource(CategoryInteractions, source, 1))
	if succeeded {
		mustRecord(s.ledger.RecordSource(CategorySuccessful, source, 1))
	}
	if followed {
		mustRecord(s.ledger.RecordSource(CategoryFollowed, source, 1))
		s.meter.IncFollow()
	}
	if scraped {
		mustRecord(s.ledger.RecordSource(CategoryScraped, source, 1))
		s.meter.IncScraped()
	}
	s.meter.IncInteraction(source, succeeded)
}

// RecordLike tallies one like.
func (s *Session) RecordLike() {
	mustRecord(s.ledger.Record(CategoryLikes, 1))
	s.meter.IncLike()
}

// RecordComment tallies one comment.
func (s *Session) RecordComment() {
	mustRecord(s.ledger.Record(CategoryComments, 1))
}

// RecordWatch tallies one story/video watch.
func (s *Session) RecordWatch() {
	mustRecord(s.ledger.Record(CategoryWatched, 1))
}

// RecordUnfollow tallies one unfollow.
func (s *Session) RecordUnfollow() {
	mustRecord(s.ledger.Record(CategoryUnfollowed, 1))
}

// Total returns the summed value of one counter category.
func (s *Session) Total(category Category) int {
	return s.ledger.Total(category)
}

// CheckLimit reports whether the given limit kind is met or exceeded,
// logging the evaluated rows at debug level.
func (s *Session) CheckLimit(kind Limit) bool {
	return s.ledger.IsReached(kind, s.limits, s.log, false)
}

// ReportLimits evaluates the aggregate limit and logs every row at info
// level; used when a session is about to end.
func (s *Session) ReportLimits() bool {
	return s.ledger.IsReached(LimitAll, s.limits, s.log, true)
}

// InsideWorkingHours reports whether now falls inside the configured
// windows and, when it does not, how long until one opens.
func (s *Session) InsideWorkingHours(now time.Time) (bool, time.Duration) {
	return s.gate.Status(now)
}

// Finish stamps the session's end. Idempotent.
func (s *Session) Finish() {
	if s.finishTime != nil {
		return
	}
	now := time.Now()
	s.finishTime = &now
	s.log.InfoWithFields("session finished", map[string]interface{}{
		"session_id": s.ID,
		"duration":   now.Sub(s.StartTime).String(),
	})
}

// IsFinished reports whether a finish timestamp has been recorded.
func (s *Session) IsFinished() bool {
	return s.finishTime != nil
}

// FinishTime returns the finish timestamp, if any.
func (s *Session) FinishTime() (time.Time, bool) {
	if s.finishTime == nil {
		return time.Time{}, false
	}
	return *s.finishTime, true
}
