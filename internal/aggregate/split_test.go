package aggregate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/daybook/internal/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestSplitByLocalMidnight_SameDay(t *testing.T) {
	s, e := at(2024, 1, 1, 9, 0), at(2024, 1, 1, 17, 30)

	segs, err := SplitByLocalMidnight(s, e)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, Segment{Start: s, End: e}, segs[0])
}

func TestSplitByLocalMidnight_CrossesOneMidnight(t *testing.T) {
	segs, err := SplitByLocalMidnight(at(2024, 1, 1, 23, 30), at(2024, 1, 2, 0, 30))
	require.NoError(t, err)
	require.Len(t, segs, 2)

	assert.Equal(t, at(2024, 1, 1, 23, 30), segs[0].Start)
	assert.Equal(t, at(2024, 1, 2, 0, 0), segs[0].End)
	assert.Equal(t, at(2024, 1, 2, 0, 0), segs[1].Start)
	assert.Equal(t, at(2024, 1, 2, 0, 30), segs[1].End)
	assert.Equal(t, "2024-01-01", calendar.DateKey(segs[0].Start))
	assert.Equal(t, "2024-01-02", calendar.DateKey(segs[1].Start))
}

func TestSplitByLocalMidnight_EndOnMidnight(t *testing.T) {
	segs, err := SplitByLocalMidnight(at(2024, 1, 1, 22, 0), at(2024, 1, 2, 0, 0))
	require.NoError(t, err)
	require.Len(t, segs, 1, "no empty trailing segment")
	assert.Equal(t, at(2024, 1, 2, 0, 0), segs[0].End)
}

func TestSplitByLocalMidnight_Errors(t *testing.T) {
	s := at(2024, 1, 1, 9, 0)

	_, err := SplitByLocalMidnight(s, s)
	assert.ErrorIs(t, err, ErrEmptyInterval)

	_, err = SplitByLocalMidnight(s, s.Add(-time.Minute))
	assert.ErrorIs(t, err, ErrEmptyInterval)

	_, err = SplitByLocalMidnight(s, s.AddDate(20, 0, 0))
	assert.ErrorIs(t, err, ErrSplitRange)
}

func TestSplitByLocalMidnight_DSTZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("timezone data unavailable")
	}
	start := time.Date(2024, 3, 9, 22, 0, 0, 0, ny)
	end := time.Date(2024, 3, 11, 2, 0, 0, 0, ny)

	segs, err := SplitByLocalMidnight(start, end)
	require.NoError(t, err)
	require.Len(t, segs, 3)
	assert.Equal(t, 23*time.Hour, segs[1].End.Sub(segs[1].Start), "spring-forward day is 23h")
	assert.Equal(t, end.Sub(start), segs[0].End.Sub(segs[0].Start)+23*time.Hour+segs[2].End.Sub(segs[2].Start))
}

// TestSplitByLocalMidnight_Properties checks contiguity, exact total
// duration, midnight boundaries and the k+1 segment count over random
// intervals.
func TestSplitByLocalMidnight_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := at(2024, 1, 1, 0, 0)

	for trial := 0; trial < 300; trial++ {
		start := base.Add(time.Duration(rng.Int63n(int64(400 * 24 * time.Hour))))
		end := start.Add(time.Duration(rng.Int63n(int64(10*24*time.Hour))) + time.Second)

		segs, err := SplitByLocalMidnight(start, end)
		require.NoError(t, err, "trial %d", trial)

		crossings := 0
		for m := calendar.NextMidnight(start); m.Before(end); m = calendar.NextMidnight(m) {
			crossings++
		}
		require.Len(t, segs, crossings+1, "trial %d", trial)

		assert.Equal(t, start, segs[0].Start)
		assert.Equal(t, end, segs[len(segs)-1].End)

		var total time.Duration
		for i, sg := range segs {
			assert.True(t, sg.End.After(sg.Start), "trial %d seg %d non-empty", trial, i)
			total += sg.End.Sub(sg.Start)
			if i > 0 {
				assert.Equal(t, segs[i-1].End, sg.Start, "trial %d contiguous", trial)
				assert.Equal(t, calendar.StartOfDay(sg.Start), sg.Start, "trial %d boundary at midnight", trial)
			}
		}
		assert.Equal(t, end.Sub(start), total, "trial %d", trial)
	}
}
