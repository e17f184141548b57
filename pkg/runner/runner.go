// Package runner drives a job against the unreliable device boundary
// until it completes or the session's stop predicate fires. The retry
// loop is the engine's sole recovery mechanism: a device fault aborts
// one invocation only, and the job is re-entered from its start.
package runner

import (
	"context"
	"fmt"
	"time"

	"igpilot/pkg/errs"
	"igpilot/pkg/logger"
	"igpilot/pkg/metrics"
	"igpilot/pkg/retry"
)

// Outcome reports whether a job invocation finished its work.
type Outcome int

const (
	// NotYetDone means the invocation ended without finishing the job;
	// the runner will invoke it again.
	NotYetDone Outcome = iota
	// Completed means the job is done and must not be re-entered.
	Completed
)

// Job is one bounded batch of external interaction. It may be invoked
// many times after partial failures, so it must not double-record work
// already persisted durably before the failure point.
type Job func(ctx context.Context) (Outcome, error)

// StopPredicate ends the retry loop when true, typically the session's
// aggregate limit check.
type StopPredicate func() bool

// Runner retries jobs with a pacing delay between attempts. Retries are
// bounded only by the stop predicate, never by an attempt count.
type Runner struct {
	log     logger.Logger
	meter   *metrics.Metrics
	backoff retry.BackoffStrategy
}

// New creates a runner. A nil backoff defaults to a constant two-second
// pacing delay between retries.
func New(log logger.Logger, meter *metrics.Metrics, backoff retry.BackoffStrategy) *Runner {
	if backoff == nil {
		backoff = &retry.ConstantBackoff{Delay: 2 * time.Second}
	}
	return &Runner{log: log, meter: meter, backoff: backoff}
}

// Run invokes job until it returns Completed or stop() becomes true.
// The predicate is checked before every invocation, so a tripped limit
// never triggers another batch of work, and an in-flight invocation is
// never interrupted by it. Unrecoverable errors end the run at once.
func (r *Runner) Run(ctx context.Context, name string, job Job, stop StopPredicate) error {
	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if stop() {
			r.log.InfoWithFields("job stopped by session limits", map[string]interface{}{
				"job":      name,
				"attempts": attempt,
			})
			return nil
		}

		attempt++
		outcome, err := invoke(ctx, job)
		if err != nil {
			if !errs.IsRecoverable(err) {
				return fmt.Errorf("job %s failed: %w", name, err)
			}
			// Expected at this boundary. Each retry is logged so a
			// stuck loop stays visible to operators.
			r.meter.IncJobRetry()
			r.meter.IncError(string(errs.ErrorTypeActionFailed))
			delay := r.backoff.NextDelay(attempt)
			r.log.WarnWithFields("job failed, retrying", map[string]interface{}{
				"job":      name,
				"attempt":  attempt,
				"error":    err.Error(),
				"delay_ms": delay.Milliseconds(),
			})
			if err := retry.Wait(ctx, delay); err != nil {
				return err
			}
			continue
		}

		if outcome == Completed {
			r.log.InfoWithFields("job completed", map[string]interface{}{
				"job":      name,
				"attempts": attempt,
			})
			return nil
		}
	}
}

// invoke runs one job invocation, converting a panic escaping the
// device boundary into an action failure so the loop can recover.
func invoke(ctx context.Context, job Job) (outcome Outcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			outcome = NotYetDone
			err = errs.ActionFailed(fmt.Sprintf("job panicked: %v", rec), nil)
		}
	}()
	return job(ctx)
}
