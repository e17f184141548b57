package harvest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectorTwoEmptyPagesIsTheEnd(t *testing.T) {
	d := NewScrollEndDetector(2, 15)

	d.NotifyNewPage()
	d.NotifyItemSeen("a")
	assert.False(t, d.IsTheEnd())

	d.NotifyNewPage()
	assert.False(t, d.IsTheEnd(), "one empty page is not the end")

	d.NotifyNewPage()
	assert.True(t, d.IsTheEnd(), "two consecutive empty pages end the scan")
}

func TestDetectorNewItemResetsEmptyPages(t *testing.T) {
	d := NewScrollEndDetector(2, 15)

	d.NotifyNewPage()
	assert.False(t, d.IsTheEnd())

	// A new item resets the streak; two more empty pages are needed.
	d.NotifyNewPage()
	d.NotifyItemSeen("a")
	assert.False(t, d.IsTheEnd())

	d.NotifyNewPage()
	assert.False(t, d.IsTheEnd())
	d.NotifyNewPage()
	assert.True(t, d.IsTheEnd())
}

func TestDetectorSkipCeiling(t *testing.T) {
	d := NewScrollEndDetector(5, 3)

	d.NotifyNewPage()
	d.NotifyItemSeen("a")
	d.NotifySkipped()
	d.NotifySkipped()
	assert.False(t, d.IsTheEnd())

	d.NotifyNewPage()
	d.NotifySkipped()
	assert.True(t, d.IsTheEnd(), "three consecutive skips hit the ceiling")
}

func TestDetectorNewItemResetsSkipStreak(t *testing.T) {
	d := NewScrollEndDetector(5, 3)

	d.NotifyNewPage()
	d.NotifySkipped()
	d.NotifySkipped()
	d.NotifyItemSeen("a")
	d.NotifySkipped()
	assert.False(t, d.IsTheEnd(), "streak was reset by the new item")
}

func TestDetectorSeenTracking(t *testing.T) {
	d := NewScrollEndDetector(2, 15)

	assert.False(t, d.IsSeen("a"))
	d.NotifyNewPage()
	d.NotifyItemSeen("a")
	assert.True(t, d.IsSeen("a"))

	d.Reset()
	assert.False(t, d.IsSeen("a"), "reset clears the seen set")
}

func TestDetectorDefaultsApplied(t *testing.T) {
	d := NewScrollEndDetector(0, 0)

	// Conservative defaults: two repeats, fifteen skips.
	d.NotifyNewPage()
	assert.False(t, d.IsTheEnd())
	d.NotifyNewPage()
	assert.True(t, d.IsTheEnd())

	d = NewScrollEndDetector(0, 0)
	d.NotifyNewPage()
	for i := 0; i < 14; i++ {
		d.NotifySkipped()
	}
	d.NotifyItemSeen("x")
	assert.False(t, d.IsTheEnd())
}

func TestDetectorSeenSetIsBounded(t *testing.T) {
	d := NewScrollEndDetector(2, 15)
	d.NotifyNewPage()
	for i := 0; i < seenCacheSize+100; i++ {
		d.NotifyItemSeen(fmt.Sprintf("user%d", i))
	}
	// The oldest keys age out; the newest stay.
	assert.True(t, d.IsSeen(fmt.Sprintf("user%d", seenCacheSize+99)))
	assert.False(t, d.IsSeen("user0"))
}
