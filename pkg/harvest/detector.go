package harvest

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultRepeatsToEnd = 2
	defaultSkipCeiling  = 15

	// seenCacheSize bounds the per-scan seen set. Scans are per list
	// and never persisted, so an LRU keeps memory flat on very long
	// lists without changing dedup behaviour for realistic scans.
	seenCacheSize = 8192
)

// ScrollEndDetector is the stateful termination oracle for a list
// scan. It declares the end once the configured number of consecutive
// pages yields zero first-time items, or once too many consecutive
// items were skipped without progress. It is the scan's defense
// against unbounded lists and no-op scrolls near the end.
type ScrollEndDetector struct {
	repeatsToEnd int
	skipCeiling  int

	seen *lru.Cache[string, struct{}]

	emptyPages    int
	skippedStreak int
	newThisPage   int
}

// NewScrollEndDetector creates a detector. Non-positive arguments fall
// back to the conservative defaults (2 repeats, 15 skips).
func NewScrollEndDetector(repeatsToEnd, skipCeiling int) *ScrollEndDetector {
	if repeatsToEnd < 1 {
		repeatsToEnd = defaultRepeatsToEnd
	}
	if skipCeiling < 1 {
		skipCeiling = defaultSkipCeiling
	}
	seen, _ := lru.New[string, struct{}](seenCacheSize)
	return &ScrollEndDetector{
		repeatsToEnd: repeatsToEnd,
		skipCeiling:  skipCeiling,
		seen:         seen,
	}
}

// NotifyNewPage marks the start of a page enumeration.
func (d *ScrollEndDetector) NotifyNewPage() {
	d.newThisPage = 0
}

// NotifyItemSeen records a first-time item. Every consecutive counter
// resets the instant a genuinely new item is observed.
func (d *ScrollEndDetector) NotifyItemSeen(key string) {
	d.seen.Add(key, struct{}{})
	d.newThisPage++
	d.emptyPages = 0
	d.skippedStreak = 0
}

// NotifySkipped records an already-seen or unusable item.
func (d *ScrollEndDetector) NotifySkipped() {
	d.skippedStreak++
}

// IsSeen reports whether the key was already observed this scan.
func (d *ScrollEndDetector) IsSeen(key string) bool {
	return d.seen.Contains(key)
}

// IsTheEnd closes the current page and reports whether the scan should
// stop. Call exactly once per page, after enumerating its items.
func (d *ScrollEndDetector) IsTheEnd() bool {
	if d.newThisPage == 0 {
		d.emptyPages++
	} else {
		d.emptyPages = 0
	}
	d.newThisPage = 0

	return d.emptyPages >= d.repeatsToEnd || d.skippedStreak >= d.skipCeiling
}

// Reset clears all state for a new list scan.
func (d *ScrollEndDetector) Reset() {
	d.seen.Purge()
	d.emptyPages = 0
	d.skippedStreak = 0
	d.newThisPage = 0
}
