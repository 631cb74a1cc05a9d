package domain

// TrendDay holds one date's per-activity minutes. TotalMin is the
// percentage denominator: 1440 for past days, minutes elapsed for today.
type TrendDay struct {
	Date     string
	Weekend  bool
	Totals   map[string]float64
	TotalMin float64
}

// TrendPoint is one activity's value on one day of a series.
type TrendPoint struct {
	Date    string
	M       float64
	Pct     float64
	Weekend bool
}
