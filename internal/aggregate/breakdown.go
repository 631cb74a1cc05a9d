package aggregate

import (
	"sort"

	"github.com/alexanderramin/daybook/internal/domain"
)

type BreakdownRow struct {
	Activity string
	Minutes  float64
	Pct      float64
}

type TodayBreakdown struct {
	Rows          []BreakdownRow
	SinceMidnight float64
	TotalTracked  float64
}

// Minutes returns the row total for an activity, 0 when absent.
func (b TodayBreakdown) Minutes(activity string) float64 {
	for _, r := range b.Rows {
		if r.Activity == activity {
			return r.Minutes
		}
	}
	return 0
}

// ActivityTotals sums End-Start per activity. Sessions are trusted to
// belong to the day in question.
func ActivityTotals(sessions []domain.Session) map[string]float64 {
	totals := make(map[string]float64)
	for _, s := range sessions {
		totals[s.Activity] += s.Minutes()
	}
	return totals
}

func sumValues(m map[string]float64) float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	return total
}

// Breakdown builds the per-activity rows for today plus an Untracked
// remainder row when sinceMidnight exceeds the tracked total.
func Breakdown(sessions []domain.Session, sinceMidnight float64) TodayBreakdown {
	totals := ActivityTotals(sessions)

	pct := func(v float64) float64 {
		if sinceMidnight == 0 {
			return 0
		}
		return v / sinceMidnight * 100
	}

	rows := make([]BreakdownRow, 0, len(totals)+1)
	for a, m := range totals {
		rows = append(rows, BreakdownRow{Activity: a, Minutes: m, Pct: pct(m)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Minutes != rows[j].Minutes {
			return rows[i].Minutes > rows[j].Minutes
		}
		return rows[i].Activity < rows[j].Activity
	})

	tracked := sumValues(totals)
	if untracked := sinceMidnight - tracked; untracked > 0 {
		rows = append(rows, BreakdownRow{
			Activity: domain.ActivityUntracked,
			Minutes:  untracked,
			Pct:      pct(untracked),
		})
	}

	return TodayBreakdown{Rows: rows, SinceMidnight: sinceMidnight, TotalTracked: tracked}
}
