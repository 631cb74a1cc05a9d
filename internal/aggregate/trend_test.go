package aggregate

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/daybook/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopN_KeepsTopAndFoldsRest(t *testing.T) {
	totals := map[string]float64{
		"Work": 300, "Gym": 120, "Read": 60, "Cook": 20, "Walk": 10,
		domain.ActivityUntracked: 900,
	}

	got := TopN(totals, 2)
	want := map[string]float64{"Work": 300, "Gym": 120, domain.ActivityOther: 90}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TopN mismatch (-want +got):\n%s", diff)
	}
}

func TestTopN_NoOtherWhenEverythingFits(t *testing.T) {
	got := TopN(map[string]float64{"Work": 10, "Gym": 5}, 7)
	assert.NotContains(t, got, domain.ActivityOther)
	assert.Len(t, got, 2)
}

func TestTopN_ZeroRemainderOmitsOther(t *testing.T) {
	got := TopN(map[string]float64{"Work": 10, "Idle": 0}, 1)
	assert.Equal(t, map[string]float64{"Work": 10}, got)
}

func TestTopN_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 300; trial++ {
		totals := make(map[string]float64)
		var want float64
		count := rng.Intn(15)
		for i := 0; i < count; i++ {
			v := float64(rng.Intn(500))
			totals[fmt.Sprintf("a%02d", i)] = v
			want += v
		}
		if rng.Intn(2) == 0 {
			totals[domain.ActivityUntracked] = float64(rng.Intn(1000))
		}
		n := rng.Intn(8)

		got := TopN(totals, n)
		assert.LessOrEqual(t, len(got), n+1, "trial %d", trial)
		assert.NotContains(t, got, domain.ActivityUntracked, "trial %d", trial)

		var sum float64
		for _, v := range got {
			sum += v
		}
		assert.InDelta(t, want, sum, 1e-9, "trial %d", trial)
	}
}

func TestBuildTrendDays_Denominators(t *testing.T) {
	now := at(2024, 1, 3, 10, 0)
	logs := []domain.DayLog{
		dayLog("2024-01-02", sess("Work", at(2024, 1, 2, 9, 0), 240)),
		dayLog("2024-01-03", sess("Work", at(2024, 1, 3, 8, 0), 60)),
	}

	days := BuildTrendDays(logs, now)
	require.Len(t, days, 2)

	assert.Equal(t, 1440.0, days[0].TotalMin)
	assert.Equal(t, 1200.0, days[0].Totals[domain.ActivityUntracked])
	assert.False(t, days[0].Weekend)

	assert.Equal(t, 600.0, days[1].TotalMin, "today uses minutes since midnight")
	assert.Equal(t, 540.0, days[1].Totals[domain.ActivityUntracked])
}

func TestBuildTrendDays_TodayJustAfterMidnight(t *testing.T) {
	now := time.Date(2024, 1, 3, 0, 0, 10, 0, time.UTC)
	days := BuildTrendDays([]domain.DayLog{dayLog("2024-01-03")}, now)
	require.Len(t, days, 1)
	assert.Equal(t, 1.0, days[0].TotalMin, "denominator floors at 1")
}

func TestFilterTrendDays(t *testing.T) {
	// 2024-01-05 Fri, 06 Sat, 07 Sun, 08 Mon.
	logs := []domain.DayLog{dayLog("2024-01-04"), dayLog("2024-01-05"), dayLog("2024-01-06"), dayLog("2024-01-07"), dayLog("2024-01-08")}
	days := BuildTrendDays(logs, at(2024, 1, 9, 12, 0))

	dates := func(ds []domain.TrendDay) []string {
		out := make([]string, 0, len(ds))
		for _, d := range ds {
			out = append(out, d.Date)
		}
		return out
	}

	assert.Equal(t, []string{"2024-01-06", "2024-01-07", "2024-01-08"}, dates(FilterTrendDays(days, domain.ScopeAll, 3)))
	assert.Equal(t, []string{"2024-01-06", "2024-01-07"}, dates(FilterTrendDays(days, domain.ScopeWeekends, 3)))
	assert.Equal(t, []string{"2024-01-08"}, dates(FilterTrendDays(days, domain.ScopeWeekdays, 3)))
	assert.Len(t, FilterTrendDays(days, domain.ScopeAll, 0), 5)
	assert.Len(t, FilterTrendDays(days, domain.ScopeAll, 50), 5)
}

func TestCollapseToChosen(t *testing.T) {
	days := []domain.TrendDay{{
		Date:     "2024-01-02",
		Totals:   map[string]float64{"Work": 100, "Gym": 30, "Read": 20, domain.ActivityUntracked: 1290},
		TotalMin: 1440,
	}}

	withOther := CollapseToChosen(days, []string{"Work", domain.ActivityOther})
	assert.Equal(t, map[string]float64{"Work": 100, domain.ActivityOther: 50}, withOther[0].Totals)

	withoutOther := CollapseToChosen(days, []string{"Work", "Gym"})
	assert.Equal(t, map[string]float64{"Work": 100, "Gym": 30}, withoutOther[0].Totals)
	assert.Contains(t, days[0].Totals, domain.ActivityUntracked, "input untouched")
}

func TestBuildSeries(t *testing.T) {
	days := []domain.TrendDay{
		{Date: "2024-01-06", Weekend: true, Totals: map[string]float64{"Work": 144}, TotalMin: 1440},
		{Date: "2024-01-07", Weekend: true, Totals: map[string]float64{"Work": 300, "Gym": 60}, TotalMin: 600},
	}

	b := BuildSeries(days, []string{"Work", "Gym"})
	require.Len(t, b.ByActivity["Work"], 2)
	assert.InDelta(t, 10.0, b.ByActivity["Work"][0].Pct, 1e-9)
	assert.InDelta(t, 50.0, b.ByActivity["Work"][1].Pct, 1e-9)
	assert.Equal(t, 0.0, b.ByActivity["Gym"][0].M, "absent activity is a zero point")
	assert.True(t, b.ByActivity["Gym"][0].Weekend)
	assert.Equal(t, 300.0, b.MaxPerActivity["Work"])
	assert.Equal(t, 60.0, b.MaxPerActivity["Gym"])
	assert.Equal(t, []string{"Work", "Gym"}, b.Activities)
}

func TestTrends_Pipeline(t *testing.T) {
	now := at(2024, 1, 10, 12, 0)
	var logs []domain.DayLog
	for d := 1; d <= 10; d++ {
		start := at(2024, 1, d, 8, 0)
		logs = append(logs, dayLog(fmt.Sprintf("2024-01-%02d", d),
			sess("Work", start, 120),
			sess(fmt.Sprintf("Hobby%d", d%3), start.Add(3*time.Hour), 30),
		))
	}

	res := Trends(logs, now, TrendOptions{Scope: domain.ScopeAll, Window: 7, TopN: 2})

	require.Len(t, res.Days, 7)
	assert.Equal(t, "2024-01-04", res.Days[0].Date)
	// Other (Hobby0 + Hobby2 = 120) outranks Hobby1 (90).
	assert.Equal(t, []string{"Work", domain.ActivityOther, "Hobby1"}, res.Series.Activities)
	assert.Equal(t, 840.0, res.WindowTotals["Work"])
	assert.NotContains(t, res.WindowTotals, domain.ActivityUntracked)
	assert.Contains(t, res.AllActivities, domain.ActivityUntracked)
	assert.Contains(t, res.AllActivities, "Hobby0")
	for _, d := range res.Days {
		assert.NotContains(t, d.Totals, domain.ActivityUntracked)
	}
}
