package aggregate

import (
	"sort"
	"time"

	"github.com/alexanderramin/daybook/internal/calendar"
	"github.com/alexanderramin/daybook/internal/domain"
)

const (
	// MergeGap is the largest gap that still joins two same-activity sessions.
	MergeGap = 3 * time.Minute
	// MinGap is the smallest gap surfaced as an untracked marker.
	MinGap = 5 * time.Minute
)

// ViewItem is a row of a single-day session list: either a session or a
// synthetic gap marker between two sessions.
type ViewItem struct {
	Session domain.Session
	Gap     bool
	GapMin  float64
}

// SortSessions returns a copy ordered by start time.
func SortSessions(sessions []domain.Session) []domain.Session {
	out := append([]domain.Session(nil), sessions...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// MergeAdjacent coalesces consecutive same-activity sessions whose gap is
// at most maxGap. The input is not modified.
func MergeAdjacent(sessions []domain.Session, maxGap time.Duration) []domain.Session {
	sorted := SortSessions(sessions)
	out := make([]domain.Session, 0, len(sorted))
	for _, s := range sorted {
		if n := len(out); n > 0 {
			last := &out[n-1]
			if last.Activity == s.Activity && s.Start.Sub(last.End) <= maxGap {
				if s.End.After(last.End) {
					last.End = s.End
				}
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// InsertGaps interleaves a gap marker wherever two consecutive sessions are
// at least minGap apart. sessions must be sorted.
func InsertGaps(sessions []domain.Session, minGap time.Duration) []ViewItem {
	items := make([]ViewItem, 0, len(sessions)*2)
	for i, s := range sessions {
		if i > 0 {
			prev := sessions[i-1]
			if gap := s.Start.Sub(prev.End); gap >= minGap {
				items = append(items, ViewItem{
					Session: domain.Session{Start: prev.End, End: s.Start, Activity: domain.ActivityUntracked},
					Gap:     true,
					GapMin:  calendar.DiffMinutes(prev.End, s.Start),
				})
			}
		}
		items = append(items, ViewItem{Session: s})
	}
	return items
}

// FilterActivity keeps items of one activity plus every gap marker. An
// empty name keeps everything.
func FilterActivity(items []ViewItem, activity string) []ViewItem {
	if activity == "" {
		return items
	}
	out := make([]ViewItem, 0, len(items))
	for _, it := range items {
		if it.Gap || it.Session.Activity == activity {
			out = append(out, it)
		}
	}
	return out
}

type DayViewOptions struct {
	Merge    bool
	ShowGaps bool
	Activity string
}

// BuildDayView applies merge, gap insertion and the activity filter in
// that order.
func BuildDayView(sessions []domain.Session, opts DayViewOptions) []ViewItem {
	var list []domain.Session
	if opts.Merge {
		list = MergeAdjacent(sessions, MergeGap)
	} else {
		list = SortSessions(sessions)
	}

	var items []ViewItem
	if opts.ShowGaps {
		items = InsertGaps(list, MinGap)
	} else {
		items = make([]ViewItem, 0, len(list))
		for _, s := range list {
			items = append(items, ViewItem{Session: s})
		}
	}
	return FilterActivity(items, opts.Activity)
}

// ActivitiesIn returns the distinct activity names, sorted.
func ActivitiesIn(sessions []domain.Session) []string {
	seen := make(map[string]bool, len(sessions))
	var names []string
	for _, s := range sessions {
		if !seen[s.Activity] {
			seen[s.Activity] = true
			names = append(names, s.Activity)
		}
	}
	sort.Strings(names)
	return names
}

// TotalMinutes sums session durations.
func TotalMinutes(sessions []domain.Session) float64 {
	var total float64
	for _, s := range sessions {
		total += s.Minutes()
	}
	return total
}
