// Package aggregate derives read-time views from raw sessions and habit
// documents: midnight splitting, daily breakdowns, historical averages,
// top-N trend series, single-day view transforms and habit streaks.
//
// Everything here is pure. Callers fetch data through the repositories,
// drop vacation days, and hand the result in.
package aggregate
