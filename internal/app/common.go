package app

import "time"

// ResolveNow returns *now, or the wall clock when the request left it unset.
func ResolveNow(now *time.Time) time.Time {
	if now != nil {
		return *now
	}
	return time.Now()
}
