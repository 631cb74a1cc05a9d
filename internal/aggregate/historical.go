package aggregate

import (
	"sort"

	"github.com/alexanderramin/daybook/internal/domain"
)

type ActivityDelta struct {
	Activity string
	AvgM     float64
	TodayM   float64
	Delta    float64
	DeltaPct float64
}

type HistoricalSummary struct {
	AvgPerDay        map[string]float64
	Deltas           []ActivityDelta
	DayCount         int
	AvgTrackedPerDay float64
}

// Historical averages each activity over the days it was logged on and
// compares today against those averages. logs must already exclude
// vacation days; days with no sessions still count toward DayCount.
func Historical(logs []domain.DayLog, today TodayBreakdown) HistoricalSummary {
	sums := make(map[string]float64)
	daysWith := make(map[string]int)
	var sumTracked float64

	for _, log := range logs {
		daily := ActivityTotals(log.Sessions)
		sumTracked += sumValues(daily)
		for a, m := range daily {
			sums[a] += m
			daysWith[a]++
		}
	}

	avg := make(map[string]float64, len(sums))
	for a, total := range sums {
		avg[a] = total / float64(max(daysWith[a], 1))
	}

	deltas := make([]ActivityDelta, 0, len(avg))
	for a, avgM := range avg {
		todayM := today.Minutes(a)
		delta := todayM - avgM
		var deltaPct float64
		if avgM != 0 {
			deltaPct = delta / avgM * 100
		}
		deltas = append(deltas, ActivityDelta{
			Activity: a,
			AvgM:     avgM,
			TodayM:   todayM,
			Delta:    delta,
			DeltaPct: deltaPct,
		})
	}
	sort.Slice(deltas, func(i, j int) bool {
		if deltas[i].TodayM != deltas[j].TodayM {
			return deltas[i].TodayM > deltas[j].TodayM
		}
		return deltas[i].Activity < deltas[j].Activity
	})

	var avgTracked float64
	if len(logs) > 0 {
		avgTracked = sumTracked / float64(len(logs))
	}

	return HistoricalSummary{
		AvgPerDay:        avg,
		Deltas:           deltas,
		DayCount:         len(logs),
		AvgTrackedPerDay: avgTracked,
	}
}
