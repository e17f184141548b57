package harvest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igpilot/pkg/logger"
)

// slicePager pages over a fixed item list. Pages overlap by a couple
// of rows, the way a real scroll re-lists items near the fold, and
// scrolling past the end keeps serving the last page.
type slicePager struct {
	items    []string
	pageSize int
	overlap  int
	offset   int
	scrolls  int
}

func (p *slicePager) VisibleItems(ctx context.Context) ([]string, error) {
	start := p.offset
	if start > len(p.items) {
		start = len(p.items)
	}
	end := start + p.pageSize
	if end > len(p.items) {
		end = len(p.items)
	}
	return p.items[start:end], nil
}

func (p *slicePager) ScrollDown(ctx context.Context) error {
	p.scrolls++
	next := p.offset + p.pageSize - p.overlap
	if next < len(p.items) {
		p.offset = next
	}
	return nil
}

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("user%d", i)
	}
	return out
}

func newTestHarvester(stop func() bool) (*Harvester[string], *ScrollEndDetector) {
	detector := NewScrollEndDetector(2, 15)
	return NewHarvester[string](detector, logger.GetLogger(), nil, stop), detector
}

func identity(s string) string { return s }

func TestHarvestStopsAtMaxItems(t *testing.T) {
	h, _ := newTestHarvester(nil)
	pager := &slicePager{items: names(25), pageSize: 10, overlap: 2}

	var processed []string
	count, err := h.Harvest(context.Background(), pager, 12, func(ctx context.Context, item string) error {
		processed = append(processed, item)
		return nil
	}, identity)

	require.NoError(t, err)
	assert.Equal(t, 12, count)
	assert.Len(t, processed, 12)

	// Every item distinct despite the page overlap re-listing rows.
	seen := make(map[string]int)
	for _, item := range processed {
		seen[item]++
	}
	for item, n := range seen {
		assert.Equal(t, 1, n, "item %s processed more than once", item)
	}
}

func TestHarvestExhaustsBoundedList(t *testing.T) {
	h, _ := newTestHarvester(nil)
	pager := &slicePager{items: names(25), pageSize: 10, overlap: 2}

	count, err := h.Harvest(context.Background(), pager, 100, func(ctx context.Context, item string) error {
		return nil
	}, identity)

	require.NoError(t, err)
	assert.Equal(t, 25, count, "all unique items processed exactly once")
}

func TestHarvestTerminatesOnNoOpScroll(t *testing.T) {
	// Ten items, then the scroll stops revealing anything new. The
	// detector must end the scan instead of looping forever.
	h, _ := newTestHarvester(nil)
	pager := &slicePager{items: names(10), pageSize: 10, overlap: 2}

	count, err := h.Harvest(context.Background(), pager, 100, func(ctx context.Context, item string) error {
		return nil
	}, identity)

	require.NoError(t, err)
	assert.Equal(t, 10, count)
	assert.LessOrEqual(t, pager.scrolls, 5, "scan must not spin after the list is exhausted")
}

func TestHarvestItemFailureSkipsNotAborts(t *testing.T) {
	h, _ := newTestHarvester(nil)
	pager := &slicePager{items: names(5), pageSize: 5, overlap: 0}

	count, err := h.Harvest(context.Background(), pager, 10, func(ctx context.Context, item string) error {
		if item == "user2" {
			return errors.New("element vanished")
		}
		return nil
	}, identity)

	require.NoError(t, err)
	assert.Equal(t, 4, count, "failed item is skipped, scan continues")
}

func TestHarvestSkipSentinelDoesNotCount(t *testing.T) {
	h, _ := newTestHarvester(nil)
	pager := &slicePager{items: names(5), pageSize: 5, overlap: 0}

	count, err := h.Harvest(context.Background(), pager, 10, func(ctx context.Context, item string) error {
		if item == "user0" || item == "user3" {
			return ErrSkipItem
		}
		return nil
	}, identity)

	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestHarvestStopPredicateAbortsEarly(t *testing.T) {
	calls := 0
	h, _ := newTestHarvester(func() bool {
		return calls >= 3
	})
	pager := &slicePager{items: names(25), pageSize: 10, overlap: 2}

	count, err := h.Harvest(context.Background(), pager, 100, func(ctx context.Context, item string) error {
		calls++
		return nil
	}, identity)

	require.NoError(t, err)
	assert.Equal(t, 3, count, "quota predicate aborts the scan mid-page")
}

func TestHarvestUnusableKeySkipped(t *testing.T) {
	h, _ := newTestHarvester(nil)
	pager := &slicePager{items: []string{"a", "", "b", ""}, pageSize: 4, overlap: 0}

	count, err := h.Harvest(context.Background(), pager, 10, func(ctx context.Context, item string) error {
		return nil
	}, identity)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestHarvestPagerErrorPropagates(t *testing.T) {
	h, _ := newTestHarvester(nil)

	boom := errors.New("screen unreadable")
	count, err := h.Harvest(context.Background(), failingPager{err: boom}, 10,
		func(ctx context.Context, item string) error { return nil }, identity)

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, count)
}

func TestHarvestHonorsContextCancellation(t *testing.T) {
	h, _ := newTestHarvester(nil)
	pager := &slicePager{items: names(25), pageSize: 10, overlap: 2}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Harvest(ctx, pager, 100, func(ctx context.Context, item string) error {
		return nil
	}, identity)
	assert.ErrorIs(t, err, context.Canceled)
}

type failingPager struct{ err error }

func (p failingPager) VisibleItems(ctx context.Context) ([]string, error) { return nil, p.err }
func (p failingPager) ScrollDown(ctx context.Context) error               { return p.err }
