// Package harvest walks a scrollable, dynamically-loading list page by
// page, deduplicating items and handing first-time ones to a caller
// supplied action. Termination is decided by a ScrollEndDetector; the
// session's quota predicate can abort a scan between items.
package harvest

import (
	"context"
	"errors"

	"igpilot/pkg/logger"
	"igpilot/pkg/metrics"
)

// ErrSkipItem is returned by an action to skip the current item
// without failing the scan. Skips feed the detector's skip ceiling.
var ErrSkipItem = errors.New("skip item")

// Pager reveals a scrollable list: the items currently visible, and
// one scroll gesture to reveal more. Repeated pages may re-list items
// already seen; the harvester deduplicates.
type Pager[T any] interface {
	VisibleItems(ctx context.Context) ([]T, error)
	ScrollDown(ctx context.Context) error
}

// Action processes one first-time item.
type Action[T any] func(ctx context.Context, item T) error

// KeyFunc computes an item's dedup key. An empty key marks the item
// unusable; it is skipped.
type KeyFunc[T any] func(item T) string

// Harvester drives one or more scans over scrollable lists.
type Harvester[T any] struct {
	detector *ScrollEndDetector
	log      logger.Logger
	meter    *metrics.Metrics
	stop     func() bool
}

// NewHarvester creates a harvester. stop is consulted between items
// and pages; when it reports true the scan aborts early. A nil stop
// never aborts.
func NewHarvester[T any](detector *ScrollEndDetector, log logger.Logger, meter *metrics.Metrics, stop func() bool) *Harvester[T] {
	if stop == nil {
		stop = func() bool { return false }
	}
	return &Harvester[T]{
		detector: detector,
		log:      log,
		meter:    meter,
		stop:     stop,
	}
}

// Harvest processes the list revealed by pager until maxItems items
// have been processed, the detector declares the end, or the stop
// predicate fires. It returns the number of items processed.
//
// Failures inside a single item's action are logged and converted to
// a skip; they never abort the scan. Failures enumerating a page or
// scrolling propagate to the caller, which recovers at the job-retry
// boundary.
func (h *Harvester[T]) Harvest(ctx context.Context, pager Pager[T], maxItems int, action Action[T], key KeyFunc[T]) (int, error) {
	processed := 0

	for {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		if h.stop() {
			h.log.Info("session limit reached, aborting list scan")
			return processed, nil
		}

		h.detector.NotifyNewPage()

		items, err := pager.VisibleItems(ctx)
		if err != nil {
			return processed, err
		}

		for _, item := range items {
			if processed >= maxItems {
				break
			}
			if h.stop() {
				h.log.Info("session limit reached, aborting list scan")
				return processed, nil
			}

			k := key(item)
			if k == "" || h.detector.IsSeen(k) {
				h.detector.NotifySkipped()
				continue
			}
			h.detector.NotifyItemSeen(k)
			h.meter.IncHarvested()

			if err := action(ctx, item); err != nil {
				h.detector.NotifySkipped()
				if !errors.Is(err, ErrSkipItem) {
					h.log.WarnWithFields("item action failed, skipping", map[string]interface{}{
						"key":   k,
						"error": err.Error(),
					})
				}
				continue
			}
			processed++
		}

		if processed >= maxItems {
			return processed, nil
		}
		if h.detector.IsTheEnd() {
			h.log.DebugWithFields("end of list detected", map[string]interface{}{
				"processed": processed,
			})
			return processed, nil
		}
		if err := pager.ScrollDown(ctx); err != nil {
			return processed, err
		}
	}
}
