package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/daybook/internal/app"
	"github.com/alexanderramin/daybook/internal/domain"
	"github.com/alexanderramin/daybook/internal/repository"
	"github.com/alexanderramin/daybook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSessions(t *testing.T, r repository.DayLogRepo, sessions ...domain.Session) {
	t.Helper()
	for _, s := range sessions {
		_, err := r.Append(context.Background(), s.Start.Format("2006-01-02"), s)
		require.NoError(t, err)
	}
}

func newActivities(f fixture, start string) ActivityService {
	return NewActivityService(f.repos, f.calendar, Settings{StartDate: start}, nil)
}

func TestToday_Breakdown(t *testing.T) {
	f := newFixture(t)
	seedSessions(t, f.repos.DayLogs,
		testutil.NewTestSession(testutil.At(2024, 3, 1, 8, 0), 90),
		testutil.NewTestSession(testutil.At(2024, 3, 1, 7, 0), 30, testutil.WithActivity("Gym")),
		testutil.NewTestSession(testutil.At(2024, 2, 29, 8, 0), 60),
	)

	res, err := newActivities(f, "2024-02-01").Today(context.Background(), app.TodayRequest{Now: ptr(testutil.At(2024, 3, 1, 10, 0))})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", res.Date)
	require.Len(t, res.Sessions, 2)
	assert.Equal(t, "Gym", res.Sessions[0].Activity, "sorted by start")
	assert.Equal(t, 600.0, res.Breakdown.SinceMidnight)
	assert.Equal(t, 120.0, res.Breakdown.TotalTracked)
	assert.Equal(t, 90.0, res.Breakdown.Minutes("Work"))
	assert.Equal(t, 480.0, res.Breakdown.Minutes(domain.ActivityUntracked))
}

func TestToday_ReadFailureIsEmpty(t *testing.T) {
	f := newFixture(t)
	repos := f.repos
	repos.DayLogs = &testutil.FailOnNthAppend{Inner: f.repos.DayLogs, FailReads: true}
	svc := NewActivityService(repos, f.calendar, Settings{}, nil)

	res, err := svc.Today(context.Background(), app.TodayRequest{Now: ptr(testutil.At(2024, 3, 1, 1, 0))})
	require.NoError(t, err)
	assert.Empty(t, res.Sessions)
	require.Len(t, res.Breakdown.Rows, 1)
	assert.Equal(t, domain.ActivityUntracked, res.Breakdown.Rows[0].Activity)
}

func TestUsual_ExcludesVacationAndEarlierDays(t *testing.T) {
	f := newFixture(t)
	seedSessions(t, f.repos.DayLogs,
		testutil.NewTestSession(testutil.At(2024, 2, 27, 9, 0), 600), // before start
		testutil.NewTestSession(testutil.At(2024, 2, 28, 9, 0), 60),
		testutil.NewTestSession(testutil.At(2024, 2, 29, 9, 0), 300), // vacation
		testutil.NewTestSession(testutil.At(2024, 3, 1, 9, 0), 120),
	)
	f.setVacation(t, "2024-02-29")

	res, err := newActivities(f, "2024-02-28").Usual(context.Background(), app.UsualRequest{Now: ptr(testutil.At(2024, 3, 1, 12, 0))})
	require.NoError(t, err)

	assert.Equal(t, "2024-02-28", res.StartDate)
	assert.Equal(t, 2, res.Summary.DayCount)
	assert.Equal(t, 90.0, res.Summary.AvgPerDay["Work"])
	require.Len(t, res.Summary.Deltas, 1)
	assert.Equal(t, 120.0, res.Summary.Deltas[0].TodayM)
	assert.Equal(t, 30.0, res.Summary.Deltas[0].Delta)
}

func TestTrends_DefaultsAndVacation(t *testing.T) {
	f := newFixture(t)
	for d := 1; d <= 5; d++ {
		seedSessions(t, f.repos.DayLogs,
			testutil.NewTestSession(testutil.At(2024, 3, d, 8, 0), 60),
			testutil.NewTestSession(testutil.At(2024, 3, d, 10, 0), 30, testutil.WithActivity("Gym")),
		)
	}
	f.setVacation(t, "2024-03-02")

	obs := &recordingObserver{}
	svc := NewActivityService(f.repos, f.calendar, Settings{StartDate: "2024-03-01", TopN: 1}, nil, obs)
	res, err := svc.Trends(context.Background(), app.TrendRequest{Window: 3, Now: ptr(testutil.At(2024, 3, 5, 12, 0))})
	require.NoError(t, err)

	assert.Equal(t, domain.ScopeAll, res.Scope)
	assert.Equal(t, 1, res.TopN, "configured top-N applies")
	require.Len(t, res.Result.Days, 3)
	assert.Equal(t, "2024-03-03", res.Result.Days[0].Date)
	assert.Equal(t, []string{"Work", domain.ActivityOther}, res.Result.Series.Activities)
	assert.Equal(t, "trends", obs.last().Name)

	all, err := svc.Trends(context.Background(), app.TrendRequest{Now: ptr(testutil.At(2024, 3, 5, 12, 0))})
	require.NoError(t, err)
	assert.Len(t, all.Result.Days, 4, "window 0 keeps every non-vacation day")
}

func TestDayView(t *testing.T) {
	f := newFixture(t)
	seedSessions(t, f.repos.DayLogs,
		testutil.NewTestSession(testutil.At(2024, 3, 1, 9, 0), 60, testutil.WithActivity("Gym")),
		testutil.NewTestSession(testutil.At(2024, 3, 1, 10, 2), 58, testutil.WithActivity("Gym")),
		testutil.NewTestSession(testutil.At(2024, 3, 1, 12, 0), 15, testutil.WithActivity("Read")),
	)
	svc := newActivities(f, "2024-01-01")
	ctx := context.Background()

	res, err := svc.DayView(ctx, app.DayViewRequest{Date: "2024-03-01", Merge: true, ShowGaps: true})
	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	assert.True(t, res.Items[1].Gap)
	assert.Equal(t, []string{"Gym", "Read"}, res.Activities)
	assert.Equal(t, 133.0, res.TotalMin)

	res, err = svc.DayView(ctx, app.DayViewRequest{Now: ptr(testutil.At(2024, 3, 1, 20, 0)), Activity: "Read"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", res.Date, "defaults to today")
	require.Len(t, res.Items, 1)

	_, err = svc.DayView(ctx, app.DayViewRequest{Date: "03/01/2024"})
	assert.ErrorIs(t, err, repository.ErrInvalidDate)
}

func TestNamesAndAddName(t *testing.T) {
	f := newFixture(t)
	svc := newActivities(f, "")
	ctx := context.Background()

	assert.Empty(t, svc.Names(ctx))

	names, err := svc.AddName(ctx, "  book 10 ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Book 10"}, names)

	names, err = svc.AddName(ctx, "book 2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Book 2", "Book 10"}, names)

	names, err = svc.AddName(ctx, " ")
	require.NoError(t, err)
	assert.Len(t, names, 2, "blank names are ignored")
}

func TestAddName_WriteFailureIsReturned(t *testing.T) {
	f := newFixture(t)
	repos := f.repos
	repos.Activities = testutil.FailingActivities{Err: testutil.ErrInjected}
	svc := NewActivityService(repos, f.calendar, Settings{}, nil)

	_, err := svc.AddName(context.Background(), "Gym")
	assert.ErrorIs(t, err, testutil.ErrInjected)
	assert.Equal(t, []string{}, svc.Names(context.Background()))
}

func TestActivityService_VacationChangeIsSeenImmediately(t *testing.T) {
	f := newFixture(t)
	seedSessions(t, f.repos.DayLogs,
		testutil.NewTestSession(testutil.At(2024, 3, 1, 9, 0), 60),
		testutil.NewTestSession(testutil.At(2024, 3, 2, 9, 0), 60),
	)
	svc := newActivities(f, "2024-03-01")
	now := ptr(testutil.At(2024, 3, 3, 12, 0))
	ctx := context.Background()

	before, err := svc.Usual(ctx, app.UsualRequest{Now: now})
	require.NoError(t, err)
	assert.Equal(t, 3, before.Summary.DayCount)

	f.setVacation(t, "2024-03-01")
	after, err := svc.Usual(ctx, app.UsualRequest{Now: now})
	require.NoError(t, err)
	assert.Equal(t, 2, after.Summary.DayCount)
}
