package report

import "time"

// NextPeriodicFire computes the next notification-report fire time:
// aligned to local-day boundaries plus whole multiples of
// periodSeconds, strictly after now. Returns the zero time if
// periodSeconds is not positive (reporting disabled).
func NextPeriodicFire(now time.Time, periodSeconds int64) time.Time {
	if periodSeconds <= 0 {
		return time.Time{}
	}
	loc := now.Location()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	elapsed := int64(now.Sub(midnight).Seconds())
	periods := elapsed/periodSeconds + 1
	return midnight.Add(time.Duration(periods*periodSeconds) * time.Second)
}

// NextHTMLFire advances prev by intervalSeconds until it is strictly
// greater than now. If prev is the zero time, now is used as the
// starting point.
func NextHTMLFire(prev time.Time, intervalSeconds int64, now time.Time) time.Time {
	if intervalSeconds <= 0 {
		return time.Time{}
	}
	next := prev
	if next.IsZero() {
		next = now
	}
	interval := time.Duration(intervalSeconds) * time.Second
	for !next.After(now) {
		next = next.Add(interval)
	}
	return next
}
