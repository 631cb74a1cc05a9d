package aggregate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/daybook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sess(activity string, start time.Time, minutes int) domain.Session {
	return domain.Session{Start: start, End: start.Add(time.Duration(minutes) * time.Minute), Activity: activity}
}

func TestBreakdown_RowsAndUntracked(t *testing.T) {
	day := at(2024, 1, 1, 0, 0)
	sessions := []domain.Session{
		sess("Work", day.Add(8*time.Hour), 90),
		sess("Gym", day.Add(10*time.Hour), 60),
		sess("Work", day.Add(11*time.Hour), 30),
	}

	b := Breakdown(sessions, 600)

	require.Len(t, b.Rows, 3)
	assert.Equal(t, "Work", b.Rows[0].Activity)
	assert.Equal(t, 120.0, b.Rows[0].Minutes)
	assert.InDelta(t, 20.0, b.Rows[0].Pct, 1e-9)
	assert.Equal(t, "Gym", b.Rows[1].Activity)
	assert.Equal(t, domain.ActivityUntracked, b.Rows[2].Activity)
	assert.Equal(t, 420.0, b.Rows[2].Minutes)
	assert.Equal(t, 180.0, b.TotalTracked)
	assert.Equal(t, 600.0, b.SinceMidnight)
	assert.Equal(t, 120.0, b.Minutes("Work"))
	assert.Equal(t, 0.0, b.Minutes("Reading"))
}

func TestBreakdown_NoUntrackedWhenOverTracked(t *testing.T) {
	day := at(2024, 1, 1, 0, 0)
	b := Breakdown([]domain.Session{sess("Sleep", day, 120)}, 60)

	require.Len(t, b.Rows, 1)
	assert.Equal(t, "Sleep", b.Rows[0].Activity)
}

func TestBreakdown_ZeroSinceMidnight(t *testing.T) {
	day := at(2024, 1, 1, 0, 0)
	b := Breakdown([]domain.Session{sess("Read", day, 5)}, 0)

	require.Len(t, b.Rows, 1)
	assert.Equal(t, 0.0, b.Rows[0].Pct)
}

func TestBreakdown_Empty(t *testing.T) {
	b := Breakdown(nil, 30)
	require.Len(t, b.Rows, 1)
	assert.Equal(t, domain.ActivityUntracked, b.Rows[0].Activity)
	assert.InDelta(t, 100.0, b.Rows[0].Pct, 1e-9)
}

func TestBreakdown_RowsSumToSinceMidnight(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	day := at(2024, 1, 1, 0, 0)
	names := []string{"Work", "Gym", "Read", "Cook"}

	for trial := 0; trial < 200; trial++ {
		since := float64(rng.Intn(1440) + 1)
		var sessions []domain.Session
		cursor := day
		count := rng.Intn(6)
		for i := 0; i < count; i++ {
			m := rng.Intn(60) + 1
			sessions = append(sessions, sess(names[rng.Intn(len(names))], cursor, m))
			cursor = cursor.Add(time.Duration(m+rng.Intn(30)) * time.Minute)
		}

		b := Breakdown(sessions, since)
		var sum float64
		for i, r := range b.Rows {
			sum += r.Minutes
			if i > 0 && r.Activity != domain.ActivityUntracked {
				assert.GreaterOrEqual(t, b.Rows[i-1].Minutes, r.Minutes, "trial %d sorted desc", trial)
			}
		}
		if b.TotalTracked <= since {
			assert.InDelta(t, since, sum, 1e-6, "trial %d", trial)
		}
	}
}
