package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/alexanderramin/daybook/internal/calendar"
	"github.com/alexanderramin/daybook/internal/domain"
)

// DefaultTopN is how many named activities a trend keeps before folding
// the rest into Other.
const DefaultTopN = 7

// TopN keeps the n largest activities and sums the rest into Other.
// Untracked is neither ranked nor folded into Other. Other is only present
// when positive.
func TopN(totals map[string]float64, n int) map[string]float64 {
	if n < 0 {
		n = 0
	}
	ranked := rankDesc(totals, func(a string) bool { return a == domain.ActivityUntracked })

	out := make(map[string]float64, min(n, len(ranked))+1)
	var other float64
	for i, a := range ranked {
		if i < n {
			out[a] += totals[a]
		} else {
			other += totals[a]
		}
	}
	if other > 0 {
		out[domain.ActivityOther] += other
	}
	return out
}

// rankDesc returns keys ordered by value descending, ties by name.
func rankDesc(m map[string]float64, skip func(string) bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if skip != nil && skip(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

// BuildTrendDays converts day logs into trend days, adding an Untracked
// remainder against the day's denominator. The log dated now's calendar
// day uses minutes elapsed so far instead of a full day.
func BuildTrendDays(logs []domain.DayLog, now time.Time) []domain.TrendDay {
	todayKey := calendar.DateKey(now)
	days := make([]domain.TrendDay, 0, len(logs))
	for _, log := range logs {
		totals := ActivityTotals(log.Sessions)
		tracked := sumValues(totals)

		denom := float64(calendar.MinutesPerDay)
		if log.Date == todayKey {
			denom = calendar.MinutesSinceMidnight(now)
		}
		denom = math.Max(1, math.Round(denom))

		if untracked := denom - math.Min(tracked, denom); untracked > 0 {
			totals[domain.ActivityUntracked] += untracked
		}

		days = append(days, domain.TrendDay{
			Date:     log.Date,
			Weekend:  calendar.IsWeekend(log.Date),
			Totals:   totals,
			TotalMin: denom,
		})
	}
	return days
}

// FilterTrendDays keeps the trailing window days (all when window <= 0)
// and then applies the weekday/weekend scope. Order is preserved.
func FilterTrendDays(days []domain.TrendDay, scope domain.TrendScope, window int) []domain.TrendDay {
	if window > 0 && len(days) > window {
		days = days[len(days)-window:]
	}
	out := make([]domain.TrendDay, 0, len(days))
	for _, d := range days {
		switch scope {
		case domain.ScopeWeekdays:
			if d.Weekend {
				continue
			}
		case domain.ScopeWeekends:
			if !d.Weekend {
				continue
			}
		}
		out = append(out, d)
	}
	return out
}

// WindowTotals sums each activity across days, ignoring Untracked.
func WindowTotals(days []domain.TrendDay) map[string]float64 {
	totals := make(map[string]float64)
	for _, d := range days {
		for a, m := range d.Totals {
			if a == domain.ActivityUntracked {
				continue
			}
			totals[a] += m
		}
	}
	return totals
}

// ChosenActivities orders a TopN result by total descending.
func ChosenActivities(top map[string]float64) []string {
	return rankDesc(top, nil)
}

// CollapseToChosen rewrites each day's totals to the chosen activities.
// Minutes of other activities go to Other when Other is chosen and are
// dropped otherwise. Untracked is dropped.
func CollapseToChosen(days []domain.TrendDay, chosen []string) []domain.TrendDay {
	keep := make(map[string]bool, len(chosen))
	for _, a := range chosen {
		keep[a] = true
	}

	out := make([]domain.TrendDay, 0, len(days))
	for _, d := range days {
		totals := make(map[string]float64, len(chosen))
		var other float64
		for a, m := range d.Totals {
			switch {
			case a == domain.ActivityUntracked:
			case keep[a]:
				totals[a] += m
			default:
				other += m
			}
		}
		if other > 0 && keep[domain.ActivityOther] {
			totals[domain.ActivityOther] += other
		}
		out = append(out, domain.TrendDay{Date: d.Date, Weekend: d.Weekend, Totals: totals, TotalMin: d.TotalMin})
	}
	return out
}

type SeriesBundle struct {
	Activities     []string
	ByActivity     map[string][]domain.TrendPoint
	MaxPerActivity map[string]float64
}

// BuildSeries emits one point per day for every chosen activity.
func BuildSeries(days []domain.TrendDay, chosen []string) SeriesBundle {
	bundle := SeriesBundle{
		Activities:     append([]string(nil), chosen...),
		ByActivity:     make(map[string][]domain.TrendPoint, len(chosen)),
		MaxPerActivity: make(map[string]float64, len(chosen)),
	}
	for _, a := range chosen {
		bundle.ByActivity[a] = make([]domain.TrendPoint, 0, len(days))
		bundle.MaxPerActivity[a] = 0
	}

	for _, d := range days {
		total := math.Max(1, d.TotalMin)
		for _, a := range chosen {
			m := d.Totals[a]
			bundle.ByActivity[a] = append(bundle.ByActivity[a], domain.TrendPoint{
				Date:    d.Date,
				M:       m,
				Pct:     m / total * 100,
				Weekend: d.Weekend,
			})
			if m > bundle.MaxPerActivity[a] {
				bundle.MaxPerActivity[a] = m
			}
		}
	}
	return bundle
}

type TrendOptions struct {
	Scope  domain.TrendScope
	Window int
	TopN   int
}

type TrendResult struct {
	Days          []domain.TrendDay
	WindowTotals  map[string]float64
	Series        SeriesBundle
	AllActivities []string
}

// Trends runs the full pipeline: trend days, window and scope filter,
// top-N selection, collapse and series building.
func Trends(logs []domain.DayLog, now time.Time, opts TrendOptions) TrendResult {
	all := BuildTrendDays(logs, now)
	days := FilterTrendDays(all, opts.Scope, opts.Window)
	totals := WindowTotals(days)

	n := opts.TopN
	if n <= 0 {
		n = DefaultTopN
	}
	chosen := ChosenActivities(TopN(totals, n))
	collapsed := CollapseToChosen(days, chosen)

	return TrendResult{
		Days:          collapsed,
		WindowTotals:  totals,
		Series:        BuildSeries(collapsed, chosen),
		AllActivities: activityNames(all),
	}
}

func activityNames(days []domain.TrendDay) []string {
	seen := make(map[string]bool)
	var names []string
	for _, d := range days {
		for a := range d.Totals {
			if a != "" && !seen[a] {
				seen[a] = true
				names = append(names, a)
			}
		}
	}
	sort.Strings(names)
	return names
}
