package service

import (
	"context"
	"math"
	"testing"

	"github.com/alexanderramin/daybook/internal/app"
	"github.com/alexanderramin/daybook/internal/domain"
	"github.com/alexanderramin/daybook/internal/repository"
	"github.com/alexanderramin/daybook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var habitSettings = Settings{StartDate: "2024-03-01", Habits: []string{"HIIT", "Sand"}, WasteLimit: 50}

func newHabits(f fixture, observers ...UseCaseObserver) HabitService {
	return NewHabitService(f.repos.Habits, f.calendar, habitSettings, nil, observers...)
}

func TestHabitDay_DefaultsToToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repos.Habits.Set(ctx, "2024-03-05", testutil.NewTestHabitDay(testutil.WithDone("HIIT"))))

	res, err := newHabits(f).Day(ctx, app.HabitDayRequest{Now: ptr(testutil.At(2024, 3, 5, 9, 0))})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-05", res.Date)
	assert.True(t, res.Day.Done("HIIT"))
	assert.Equal(t, []string{"HIIT", "Sand"}, res.Habits)
	assert.Equal(t, map[string]int{"HIIT": 1, "Sand": 0}, res.Streaks)
	assert.False(t, res.Vacation)

	_, err = newHabits(f).Day(ctx, app.HabitDayRequest{Date: "5 March"})
	assert.ErrorIs(t, err, repository.ErrInvalidDate)
}

func TestToggle_PersistsAndRecomputesStreak(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, d := range []string{"2024-03-03", "2024-03-04"} {
		require.NoError(t, f.repos.Habits.Set(ctx, d, testutil.NewTestHabitDay(testutil.WithDone("Sand"))))
	}
	svc := newHabits(f)

	res, err := svc.Toggle(ctx, "2024-03-05", "Sand")
	require.NoError(t, err)
	assert.True(t, res.Day.Done("Sand"))
	assert.Equal(t, 3, res.Streaks["Sand"])

	res, err = svc.Toggle(ctx, "2024-03-05", "Sand")
	require.NoError(t, err)
	assert.False(t, res.Day.Done("Sand"))
	assert.Equal(t, 0, res.Streaks["Sand"])

	stored, err := f.repos.Habits.Get(ctx, "2024-03-05")
	require.NoError(t, err)
	assert.False(t, stored.Done("Sand"))
}

func TestStreaks_SkipVacationDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, d := range []string{"2024-03-01", "2024-03-02", "2024-03-04"} {
		require.NoError(t, f.repos.Habits.Set(ctx, d, testutil.NewTestHabitDay(testutil.WithDone("HIIT"))))
	}
	svc := newHabits(f)
	now := testutil.At(2024, 3, 4, 20, 0)

	assert.Equal(t, 1, svc.Streaks(ctx, now)["HIIT"])
	f.setVacation(t, "2024-03-03")
	assert.Equal(t, 3, svc.Streaks(ctx, now)["HIIT"])
}

func TestSetNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newHabits(f)
	now := testutil.At(2024, 3, 5, 9, 15)

	res, err := svc.SetNumber(ctx, "2024-03-05", domain.FieldWastedMin, 70, now)
	require.NoError(t, err)
	require.NotNil(t, res.Day.WasteDelta)
	assert.Equal(t, 20.0, *res.Day.WasteDelta, "delta derived on save")

	res, err = svc.SetNumber(ctx, "2024-03-05", domain.FieldWeight, math.Inf(1), now)
	require.NoError(t, err)
	assert.Equal(t, 0.0, *res.Day.Weight)

	res, err = svc.SetNumber(ctx, "2024-03-05", domain.CounterMusic, 2, now)
	require.NoError(t, err)
	assert.True(t, res.Day.LastEvent[domain.CounterMusic].Equal(now))

	_, err = svc.SetNumber(ctx, "2024-03-05", "mood", 1, now)
	assert.ErrorIs(t, err, domain.ErrUnknownField)

	stored, err := f.repos.Habits.Get(ctx, "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, 2.0, stored.Counters[domain.CounterMusic])
	assert.Equal(t, 70.0, *stored.WastedMin)
}

func TestSetStudy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := newHabits(f).SetStudy(ctx, "2024-03-05", domain.StudyBK, 45)
	require.NoError(t, err)
	assert.Equal(t, 45.0, res.Day.StudyMinutes(domain.StudyBK))

	_, err = newHabits(f).SetStudy(ctx, "bad", domain.StudyBK, 45)
	assert.ErrorIs(t, err, repository.ErrInvalidDate)
}

func TestHabitWrites_ReturnStorageErrors(t *testing.T) {
	f := newFixture(t)
	obs := &recordingObserver{}
	svc := NewHabitService(testutil.FailingHabits{Err: testutil.ErrInjected}, f.calendar, habitSettings, nil, obs)

	_, err := svc.Toggle(context.Background(), "2024-03-05", "HIIT")
	assert.ErrorIs(t, err, testutil.ErrInjected)
	assert.Equal(t, "habit-toggle", obs.last().Name)
	assert.False(t, obs.last().Success)

	day, err := svc.Day(context.Background(), app.HabitDayRequest{Date: "2024-03-05"})
	require.NoError(t, err, "reads degrade to empty")
	assert.True(t, day.Day.IsEmpty())
}

func TestSummary_MergesTodayAndSkipsVacation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repos.Habits.Set(ctx, "2024-03-01", testutil.NewTestHabitDay(
		testutil.WithWeight(200), testutil.WithStudy(domain.StudyBK, 60))))
	require.NoError(t, f.repos.Habits.Set(ctx, "2024-03-02", testutil.NewTestHabitDay(
		testutil.WithStudy(domain.StudyBK, 500))))
	require.NoError(t, f.repos.Habits.Set(ctx, "2024-03-03", testutil.NewTestHabitDay(
		testutil.WithWeight(190), testutil.WithWastedMin(40), testutil.WithCounter(domain.CounterNews, 4))))
	f.setVacation(t, "2024-03-02")

	res, err := newHabits(f).Summary(ctx, app.HabitSummaryRequest{Now: ptr(testutil.At(2024, 3, 3, 21, 0))})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", res.Start)
	assert.Equal(t, "2024-03-03", res.End)
	assert.Equal(t, 2, res.Aggregate.DaysObserved)
	assert.Equal(t, 60.0, res.Aggregate.BK)
	assert.Equal(t, 4.0, res.Aggregate.TotalNewsAccess)
	assert.Equal(t, 40.0, res.Aggregate.TotalWaste)
	assert.Len(t, res.Weights, 2)
	require.NotNil(t, res.WeightChange)
	assert.Equal(t, -10.0, res.WeightChange.Diff)
}

func TestSummary_VacationTodayIsExcluded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repos.Habits.Set(ctx, "2024-03-02", testutil.NewTestHabitDay(testutil.WithStudy(domain.StudyAP, 30))))
	f.setVacation(t, "2024-03-02")

	res, err := newHabits(f).Summary(ctx, app.HabitSummaryRequest{Start: "2024-03-01", Now: ptr(testutil.At(2024, 3, 2, 8, 0))})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Aggregate.DaysObserved)
	assert.Equal(t, 0.0, res.Aggregate.AP)
}

func TestSince(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newHabits(f)

	_, err := svc.SetNumber(ctx, "2024-03-05", domain.CounterNews, 1, testutil.At(2024, 3, 5, 8, 0))
	require.NoError(t, err)
	_, err = svc.SetNumber(ctx, "2024-03-05", domain.CounterJL, 1, testutil.At(2024, 3, 5, 9, 30))
	require.NoError(t, err)

	res, err := svc.Since(ctx, testutil.At(2024, 3, 5, 10, 0))
	require.NoError(t, err)
	require.NotNil(t, res.ByCounter[domain.CounterNews])
	assert.Equal(t, 120, *res.ByCounter[domain.CounterNews])
	assert.Nil(t, res.ByCounter[domain.CounterMusic])
	require.NotNil(t, res.Any)
	assert.Equal(t, 30, *res.Any)
}
