package aggregate

import (
	"github.com/alexanderramin/daybook/internal/calendar"
	"github.com/alexanderramin/daybook/internal/domain"
)

// MaxStreakDays caps the backward walk. Reaching it yields the cap.
const MaxStreakDays = 3660

// VacationFilter reports whether a date key is excluded from aggregation.
type VacationFilter interface {
	IsVacation(date string) bool
}

type noVacation struct{}

func (noVacation) IsVacation(string) bool { return false }

// NoVacation excludes nothing.
var NoVacation VacationFilter = noVacation{}

// Streak counts consecutive days ending today on which habit was done.
// Vacation days are stepped over without counting or breaking the run.
func Streak(habit string, history map[string]domain.HabitDay, today string, vacation VacationFilter) int {
	if vacation == nil {
		vacation = NoVacation
	}
	if !calendar.ValidDateKey(today) {
		return 0
	}

	streak := 0
	cursor := today
	for i := 0; i < MaxStreakDays; i++ {
		if vacation.IsVacation(cursor) {
			cursor = calendar.AddDays(cursor, -1)
			continue
		}
		day, ok := history[cursor]
		if !ok || !day.Done(habit) {
			break
		}
		streak++
		cursor = calendar.AddDays(cursor, -1)
	}
	return streak
}

// Streaks computes Streak for each habit.
func Streaks(habits []string, history map[string]domain.HabitDay, today string, vacation VacationFilter) map[string]int {
	out := make(map[string]int, len(habits))
	for _, h := range habits {
		out[h] = Streak(h, history, today, vacation)
	}
	return out
}
