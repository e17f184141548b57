// Package interact walks the likers and commenters of a source
// account's recent posts and interacts with each first-time account,
// subject to the blacklist, the reinteraction cooldown and the
// session's quotas.
package interact

import (
	"context"
	"fmt"

	"igpilot/pkg/config"
	"igpilot/pkg/harvest"
	"igpilot/pkg/logger"
	"igpilot/pkg/metrics"
	"igpilot/pkg/ratelimit"
	"igpilot/pkg/runner"
	"igpilot/pkg/session"
)

// Result describes one completed interaction with an account.
type Result struct {
	Succeeded bool
	Followed  bool
	Scraped   bool
	Likes     int
	Watched   int
	Comments  int
}

// AppDriver is the app-level navigation capability the processor
// needs. Integrators build it on top of a device.ActionSource; the
// engine never sees screen layouts.
type AppDriver interface {
	// OpenProfile navigates to an account's profile screen.
	OpenProfile(ctx context.Context, username string) error

	// PostsCount reads the number of posts on the open profile.
	PostsCount(ctx context.Context) (int, error)

	// OpenPost opens the n-th recent post of the open profile.
	OpenPost(ctx context.Context, index int) error

	// OpenLikers opens the likers list of the open post and returns a
	// pager over the visible usernames.
	OpenLikers(ctx context.Context) (harvest.Pager[string], error)

	// OpenCommenters does the same for the comment list.
	OpenCommenters(ctx context.Context) (harvest.Pager[string], error)

	// InteractWith opens an account from the open list, performs the
	// interaction, and returns to the list.
	InteractWith(ctx context.Context, username string) (Result, error)

	// Back returns to the previous screen.
	Back(ctx context.Context) error
}

// Processor runs the commenters/likers job across source accounts.
type Processor struct {
	app    AppDriver
	policy *Policy
	sess   *session.Session
	store  History
	runner *runner.Runner
	pacer  ratelimit.Limiter
	log    logger.Logger
	meter  *metrics.Metrics

	jobName      string
	postsToCheck int
	maxPerList   int
	repeatsToEnd int
	skipCeiling  int
}

// NewProcessor wires a processor from its collaborators and config.
func NewProcessor(
	app AppDriver,
	policy *Policy,
	sess *session.Session,
	store History,
	run *runner.Runner,
	pacer ratelimit.Limiter,
	cfg *config.Config,
	log logger.Logger,
	meter *metrics.Metrics,
) *Processor {
	return &Processor{
		app:          app,
		policy:       policy,
		sess:         sess,
		store:        store,
		runner:       run,
		pacer:        pacer,
		log:          log,
		meter:        meter,
		jobName:      "interact-commenters-likers",
		postsToCheck: cfg.Interaction.PostsToCheck,
		maxPerList:   cfg.Interaction.MaxPerList,
		repeatsToEnd: cfg.Harvest.RepeatsToEnd,
		skipCeiling:  cfg.Harvest.SkipCeiling,
	}
}

// Run processes each source account in order, retrying a source's job
// until it completes or the session's aggregate limit trips. When the
// limit trips the remaining sources are skipped and the final limit
// state is reported.
func (p *Processor) Run(ctx context.Context, sources []string) error {
	stop := func() bool { return p.sess.CheckLimit(session.LimitAll) }

	for _, source := range sources {
		if source == "" {
			continue
		}
		if stop() {
			p.log.Info("session limits reached, ending session")
			p.sess.ReportLimits()
			return nil
		}

		p.log.InfoWithFields("handling source", map[string]interface{}{
			"source": source,
		})

		source := source
		job := func(ctx context.Context) (runner.Outcome, error) {
			if err := p.handleSource(ctx, source); err != nil {
				return runner.NotYetDone, err
			}
			return runner.Completed, nil
		}

		if err := p.runner.Run(ctx, p.jobName+":"+source, job, stop); err != nil {
			return err
		}
	}

	return nil
}

// handleSource is one job: open the source's profile, walk its recent
// posts and process each post's likers or commenters. It is re-entered
// from the start after a device fault; accounts already processed are
// shielded by the harvester's dedup within one invocation and by the
// cooldown predicate across invocations.
func (p *Processor) handleSource(ctx context.Context, source string) error {
	if err := p.app.OpenProfile(ctx, source); err != nil {
		return fmt.Errorf("could not open profile of %s: %w", source, err)
	}

	postsCount, err := p.app.PostsCount(ctx)
	if err != nil {
		return err
	}
	if postsCount == 0 {
		p.log.InfoWithFields("source has no posts to check", map[string]interface{}{
			"source": source,
		})
		return nil
	}

	postsToCheck := p.postsToCheck
	if postsToCheck > postsCount {
		postsToCheck = postsCount
	}

	for i := 0; i < postsToCheck; i++ {
		if p.sess.CheckLimit(session.LimitAll) {
			break
		}

		if err := p.app.OpenPost(ctx, i); err != nil {
			return err
		}

		// Alternate between likers and commenters across posts.
		var pager harvest.Pager[string]
		if i%2 == 0 {
			pager, err = p.app.OpenLikers(ctx)
		} else {
			pager, err = p.app.OpenCommenters(ctx)
		}
		if err != nil {
			return err
		}

		if err := p.processList(ctx, pager, source); err != nil {
			return err
		}

		// Back out of the list, then out of the post.
		if err := p.app.Back(ctx); err != nil {
			return err
		}
		if err := p.app.Back(ctx); err != nil {
			return err
		}
	}

	return p.app.Back(ctx)
}

// processList harvests one likers/commenters list. Per-account order:
// dedup (harvester), blacklist, cooldown, act.
func (p *Processor) processList(ctx context.Context, pager harvest.Pager[string], source string) error {
	detector := harvest.NewScrollEndDetector(p.repeatsToEnd, p.skipCeiling)
	harvester := harvest.NewHarvester[string](detector, p.log, p.meter, func() bool {
		return p.sess.CheckLimit(session.LimitAll)
	})

	action := func(ctx context.Context, username string) error {
		p.pacer.Wait()

		ok, err := p.policy.ShouldInteract(username)
		if err != nil {
			return err
		}
		if !ok {
			return harvest.ErrSkipItem
		}

		result, err := p.app.InteractWith(ctx, username)
		if err != nil {
			return err
		}
		p.record(source, username, result)
		return nil
	}

	processed, err := harvester.Harvest(ctx, pager, p.maxPerList, action, func(username string) string {
		return username
	})
	if err != nil {
		return err
	}

	p.log.InfoWithFields("list processed", map[string]interface{}{
		"source":    source,
		"processed": processed,
	})
	return nil
}

// record persists the interaction, then tallies it on the session.
// Persisting first keeps a retried job from re-interacting with the
// same account once a cooldown is configured.
func (p *Processor) record(source, username string, result Result) {
	rec := storageRecord(p.sess.ID, p.jobName, source, username, result)
	if err := p.store.RecordInteraction(rec); err != nil {
		p.log.WithError(err).Error("failed to persist interaction")
	}

	p.sess.RecordInteraction(source, result.Succeeded, result.Followed, result.Scraped)
	for i := 0; i < result.Likes; i++ {
		p.sess.RecordLike()
	}
	for i := 0; i < result.Watched; i++ {
		p.sess.RecordWatch()
	}
	for i := 0; i < result.Comments; i++ {
		p.sess.RecordComment()
	}
}
