package aggregate

import (
	"errors"
	"time"

	"github.com/alexanderramin/daybook/internal/calendar"
)

// MaxSplitDays bounds how many local days one interval may span.
const MaxSplitDays = 3660

var (
	ErrEmptyInterval = errors.New("interval end must be after start")
	ErrSplitRange    = errors.New("interval spans too many days")
)

// Segment is a half-open [Start, End) slice of an interval.
type Segment struct {
	Start time.Time
	End   time.Time
}

// SplitByLocalMidnight cuts [start, end) at every local midnight of start's
// location. Segments are contiguous and non-empty; the first begins at start
// and the last ends at end.
func SplitByLocalMidnight(start, end time.Time) ([]Segment, error) {
	if !end.After(start) {
		return nil, ErrEmptyInterval
	}
	end = end.In(start.Location())

	var segs []Segment
	cur := start
	for calendar.DateKey(cur) != calendar.DateKey(end) {
		if len(segs) >= MaxSplitDays {
			return nil, ErrSplitRange
		}
		cut := calendar.NextMidnight(cur)
		segs = append(segs, Segment{Start: cur, End: cut})
		cur = cut
	}
	// end exactly on a midnight leaves nothing for the final day.
	if end.After(cur) {
		segs = append(segs, Segment{Start: cur, End: end})
	}
	return segs, nil
}
