package aggregate

import (
	"sort"

	"github.com/alexanderramin/daybook/internal/calendar"
	"github.com/alexanderramin/daybook/internal/domain"
)

type HabitAggregate struct {
	BK              float64
	SD              float64
	AP              float64
	TotalStudy      float64
	TotalWaste      float64
	TotalWasteDelta float64
	DaysCounted     int

	FirstWeight      *float64
	FirstWeightDate  string
	LatestWeight     *float64
	LatestWeightDate string

	TotalNewsAccess  float64
	TotalMusicListen float64
	TotalJL          float64

	AvgNewsPerDay       float64
	AvgMusicPerDay      float64
	AvgJLPerDay         float64
	AvgBKPerDay         float64
	AvgSDPerDay         float64
	AvgAPPerDay         float64
	AvgWastePerDay      float64
	AvgTotalStudyPerDay float64

	DaysObserved int
}

type WeightPoint struct {
	Date   string
	Weight float64
}

// WeightDelta is the change from first to latest weight. Pct is nil when
// the first weight cannot serve as a base.
type WeightDelta struct {
	Diff float64
	Pct  *float64
}

func safeAvg(num float64, den int) float64 {
	if den <= 0 {
		return 0
	}
	return num / float64(den)
}

// observedDates lists the non-vacation dates in [start, today].
func observedDates(start, today string, vacation VacationFilter) []string {
	if vacation == nil {
		vacation = NoVacation
	}
	all := calendar.DatesInRange(start, today)
	out := all[:0:0]
	for _, d := range all {
		if !vacation.IsVacation(d) {
			out = append(out, d)
		}
	}
	return out
}

// SummarizeHabits totals the numeric habit fields over every non-vacation
// date in [start, today]. A date missing from history counts as an empty
// day: it adds to DaysObserved but not to DaysCounted.
func SummarizeHabits(history map[string]domain.HabitDay, start, today string, vacation VacationFilter) HabitAggregate {
	var agg HabitAggregate
	dates := observedDates(start, today, vacation)

	for _, d := range dates {
		day := history[d]

		bk := day.StudyMinutes(domain.StudyBK)
		sd := day.StudyMinutes(domain.StudySD)
		ap := day.StudyMinutes(domain.StudyAP)
		dayStudy := bk + sd + ap
		agg.BK += bk
		agg.SD += sd
		agg.AP += ap
		agg.TotalStudy += dayStudy

		if delta, ok := day.EffectiveWasteDelta(); ok {
			if day.WastedMin != nil {
				agg.TotalWaste += *day.WastedMin
			}
			agg.TotalWasteDelta += delta
		}

		anyCounter := false
		if v, ok := day.Counter(domain.CounterNews); ok {
			agg.TotalNewsAccess += v
			anyCounter = true
		}
		if v, ok := day.Counter(domain.CounterMusic); ok {
			agg.TotalMusicListen += v
			anyCounter = true
		}
		if v, ok := day.Counter(domain.CounterJL); ok {
			agg.TotalJL += v
			anyCounter = true
		}

		w, hasWeight := day.PositiveWeight()
		if dayStudy > 0 || day.WastedMin != nil || hasWeight || anyCounter {
			agg.DaysCounted++
		}
		if hasWeight {
			if agg.FirstWeight == nil {
				agg.FirstWeight = domain.Float64Ptr(w)
				agg.FirstWeightDate = d
			}
			agg.LatestWeight = domain.Float64Ptr(w)
			agg.LatestWeightDate = d
		}
	}

	n := len(dates)
	agg.DaysObserved = n
	agg.AvgNewsPerDay = safeAvg(agg.TotalNewsAccess, n)
	agg.AvgMusicPerDay = safeAvg(agg.TotalMusicListen, n)
	agg.AvgJLPerDay = safeAvg(agg.TotalJL, n)
	agg.AvgBKPerDay = safeAvg(agg.BK, n)
	agg.AvgSDPerDay = safeAvg(agg.SD, n)
	agg.AvgAPPerDay = safeAvg(agg.AP, n)
	agg.AvgWastePerDay = safeAvg(agg.TotalWaste, n)
	agg.AvgTotalStudyPerDay = safeAvg(agg.TotalStudy, n)
	return agg
}

// WeightSeries lists positive weights in date order within [start, today].
func WeightSeries(history map[string]domain.HabitDay, start, today string) []WeightPoint {
	dates := make([]string, 0, len(history))
	for d := range history {
		if d >= start && d <= today {
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)

	var series []WeightPoint
	for _, d := range dates {
		if w, ok := history[d].PositiveWeight(); ok {
			series = append(series, WeightPoint{Date: d, Weight: w})
		}
	}
	return series
}

// WeightChange returns nil until both a first and a latest weight exist.
func WeightChange(agg HabitAggregate) *WeightDelta {
	if agg.FirstWeight == nil || agg.LatestWeight == nil {
		return nil
	}
	first := *agg.FirstWeight
	delta := &WeightDelta{Diff: *agg.LatestWeight - first}
	if first > 0 {
		pct := delta.Diff / first * 100
		delta.Pct = &pct
	}
	return delta
}
