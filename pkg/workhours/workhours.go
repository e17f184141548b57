// Package workhours decides whether the current time of day falls
// inside the configured working windows, and how long to wait when it
// does not. Windows use the "HH.MM-HH.MM" form on the local clock and
// may wrap midnight (start later than end).
package workhours

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"igpilot/pkg/errs"
)

const day = 24 * time.Hour

// Range is one allowed window, held as offsets from midnight.
type Range struct {
	Start time.Duration
	End   time.Duration
}

// Gate evaluates membership of a clock time in the configured windows.
// A configured jitter delta shifts every boundary forward so that
// concurrent sessions with the same config do not wake in lockstep.
type Gate struct {
	ranges []Range
	delta  time.Duration
}

// New parses the configured ranges and builds a Gate. Unparseable
// ranges surface as an invalid-configuration error.
func New(ranges []string, deltaMinutes int) (*Gate, error) {
	parsed := make([]Range, 0, len(ranges))
	for _, raw := range ranges {
		r, err := parseRange(raw)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, r)
	}
	return &Gate{
		ranges: parsed,
		delta:  time.Duration(deltaMinutes) * time.Minute,
	}, nil
}

// Status reports whether now falls inside any window and, when it does
// not, the shortest wait until a window opens. An empty range set means
// always open. Pure given now; callers own polling and sleeping.
func (g *Gate) Status(now time.Time) (bool, time.Duration) {
	if len(g.ranges) == 0 {
		return true, 0
	}

	nowOffset := time.Duration(now.Hour())*time.Hour +
		time.Duration(now.Minute())*time.Minute +
		time.Duration(now.Second())*time.Second

	var minWait time.Duration
	for i, r := range g.ranges {
		start := (r.Start + g.delta) % day
		end := (r.End + g.delta) % day
		if inRange(start, end, nowOffset) {
			// First match wins; ranges need not be disjoint.
			return true, 0
		}
		wait := start - nowOffset
		if wait < 0 {
			wait += day
		}
		if i == 0 || wait < minWait {
			minWait = wait
		}
	}
	return false, minWait
}

// inRange is the wrap-aware membership test: a range whose start is
// later than its end spans midnight.
func inRange(start, end, x time.Duration) bool {
	if start <= end {
		return start <= x && x <= end
	}
	return x >= start || x <= end
}

func parseRange(raw string) (Range, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 2 {
		return Range{}, errs.InvalidConfiguration(
			fmt.Sprintf("malformed working hours range %q: want HH.MM-HH.MM", raw))
	}
	start, err := parseBoundary(parts[0])
	if err != nil {
		return Range{}, errs.InvalidConfiguration(
			fmt.Sprintf("bad start boundary in %q: %v", raw, err))
	}
	end, err := parseBoundary(parts[1])
	if err != nil {
		return Range{}, errs.InvalidConfiguration(
			fmt.Sprintf("bad end boundary in %q: %v", raw, err))
	}
	return Range{Start: start, End: end}, nil
}

func parseBoundary(raw string) (time.Duration, error) {
	hm := strings.Split(strings.TrimSpace(raw), ".")
	if len(hm) != 2 {
		return 0, fmt.Errorf("want HH.MM, got %q", raw)
	}
	hour, err := strconv.Atoi(hm[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("bad hour %q", hm[0])
	}
	minute, err := strconv.Atoi(hm[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("bad minute %q", hm[1])
	}
	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute, nil
}
