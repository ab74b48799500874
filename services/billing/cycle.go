package billing

import "time"

// CurrentCycleStart returns the start of the billing cycle containing now.
// Cycles run monthly from the subscription anniversary day. Cabinets without
// a recorded subscription start fall back to calendar months.
func CurrentCycleStart(subscriptionStartedAt *time.Time, now time.Time) time.Time {
	if subscriptionStartedAt == nil {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	start := *subscriptionStartedAt
	return start.AddDate(0, monthsElapsed(start, now), 0)
}

// CurrentCycleEnd returns the last instant of the billing cycle containing
// now, one second before the next cycle begins.
func CurrentCycleEnd(subscriptionStartedAt *time.Time, now time.Time) time.Time {
	return CurrentCycleStart(subscriptionStartedAt, now).AddDate(0, 1, 0).Add(-time.Second)
}

// InCurrentCycle reports whether t falls inside the billing cycle containing
// now.
func InCurrentCycle(subscriptionStartedAt *time.Time, t, now time.Time) bool {
	start := CurrentCycleStart(subscriptionStartedAt, now)
	return !t.Before(start)
}

// monthsElapsed counts the whole anniversary months between start and now.
// The count only ticks once the anniversary day of the month has passed.
func monthsElapsed(start, now time.Time) int {
	months := (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
	if now.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
