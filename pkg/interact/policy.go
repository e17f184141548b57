package interact

import (
	"time"

	"igpilot/pkg/logger"
	"igpilot/pkg/storage"
)

// History is the persistence capability the interaction policy needs.
// *storage.Store satisfies it.
type History interface {
	IsBlacklisted(username string) (bool, error)
	CanReinteract(username string, cooldown time.Duration) (bool, error)
	RecordInteraction(rec storage.InteractionRecord) error
}

// Policy decides whether an account may be interacted with. The order
// of its checks is fixed: blacklist first, then the reinteraction
// cooldown. The harvester has already deduplicated by the time an
// account reaches the policy.
type Policy struct {
	history  History
	cooldown time.Duration
	log      logger.Logger
}

// NewPolicy creates a policy with the given reinteraction cooldown.
func NewPolicy(history History, cooldown time.Duration, log logger.Logger) *Policy {
	return &Policy{history: history, cooldown: cooldown, log: log}
}

// storageRecord maps an interaction result onto its history row.
func storageRecord(sessionID, job, source, username string, r Result) storage.InteractionRecord {
	return storage.InteractionRecord{
		Username:  username,
		SessionID: sessionID,
		Job:       job,
		Source:    source,
		Followed:  r.Followed,
		Scraped:   r.Scraped,
		Liked:     r.Likes,
		Watched:   r.Watched,
		Commented: r.Comments,
	}
}

// ShouldInteract reports whether the account passes the blacklist and
// cooldown checks.
func (p *Policy) ShouldInteract(username string) (bool, error) {
	blacklisted, err := p.history.IsBlacklisted(username)
	if err != nil {
		return false, err
	}
	if blacklisted {
		p.log.InfoWithFields("account is blacklisted, skipping", map[string]interface{}{
			"username": username,
		})
		return false, nil
	}

	ok, err := p.history.CanReinteract(username, p.cooldown)
	if err != nil {
		return false, err
	}
	if !ok {
		p.log.InfoWithFields("already interacted recently, skipping", map[string]interface{}{
			"username": username,
		})
		return false, nil
	}

	return true, nil
}
