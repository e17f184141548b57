package session

import "time"

// Report is the serializable snapshot of a session handed to external
// persistence. Write-only from the engine's perspective.
type Report struct {
	ID                     string         `json:"id"`
	TotalInteractions      int            `json:"total_interactions"`
	SuccessfulInteractions int            `json:"successful_interactions"`
	TotalFollowed          int            `json:"total_followed"`
	TotalLikes             int            `json:"total_likes"`
	TotalComments          int            `json:"total_comments"`
	TotalWatched           int            `json:"total_watched"`
	TotalUnfollowed        int            `json:"total_unfollowed"`
	TotalScraped           int            `json:"total_scraped"`
	ScrapedBySource        map[string]int `json:"scraped_by_source"`
	StartTime              time.Time      `json:"start_time"`
	FinishTime             *time.Time     `json:"finish_time,omitempty"`
	Profile                ProfileInfo    `json:"profile"`
}

// ProfileInfo carries the automated account's metadata at report time.
type ProfileInfo struct {
	Username  string `json:"username"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
}

// Snapshot builds the report view of the session's current state.
func (s *Session) Snapshot() Report {
	return Report{
		ID:                     s.ID,
		TotalInteractions:      s.ledger.Total(CategoryInteractions),
		SuccessfulInteractions: s.ledger.Total(CategorySuccessful),
		TotalFollowed:          s.ledger.Total(CategoryFollowed),
		TotalLikes:             s.ledger.Total(CategoryLikes),
		TotalComments:          s.ledger.Total(CategoryComments),
		TotalWatched:           s.ledger.Total(CategoryWatched),
		TotalUnfollowed:        s.ledger.Total(CategoryUnfollowed),
		TotalScraped:           s.ledger.Total(CategoryScraped),
		ScrapedBySource:        s.ledger.SourceBreakdown(CategoryScraped),
		StartTime:              s.StartTime,
		FinishTime:             s.finishTime,
		Profile: ProfileInfo{
			Username:  s.Username,
			Followers: s.FollowersCount,
			Following: s.FollowingCount,
		},
	}
}
