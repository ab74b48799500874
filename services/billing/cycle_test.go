package billing

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCurrentCycleStartWithoutSubscription(t *testing.T) {
	now := time.Date(2025, time.March, 17, 14, 30, 0, 0, time.UTC)
	got := CurrentCycleStart(nil, now)
	want := date(2025, time.March, 1)
	if !got.Equal(want) {
		t.Errorf("CurrentCycleStart(nil) = %v, want %v", got, want)
	}
}

func TestCurrentCycleStartAnniversary(t *testing.T) {
	start := date(2025, time.January, 15)
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"same day as start", date(2025, time.January, 15), date(2025, time.January, 15)},
		{"mid first cycle", date(2025, time.February, 10), date(2025, time.January, 15)},
		{"anniversary day", date(2025, time.February, 15), date(2025, time.February, 15)},
		{"day after anniversary", date(2025, time.February, 16), date(2025, time.February, 15)},
		{"several months later", date(2025, time.June, 20), date(2025, time.June, 15)},
		{"year boundary", date(2026, time.January, 10), date(2025, time.December, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CurrentCycleStart(&start, tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("CurrentCycleStart = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCurrentCycleEnd(t *testing.T) {
	start := date(2025, time.January, 15)
	now := date(2025, time.February, 10)
	got := CurrentCycleEnd(&start, now)
	want := date(2025, time.February, 15).Add(-time.Second)
	if !got.Equal(want) {
		t.Errorf("CurrentCycleEnd = %v, want %v", got, want)
	}
}

func TestInCurrentCycle(t *testing.T) {
	start := date(2025, time.January, 15)
	now := date(2025, time.March, 20)

	if !InCurrentCycle(&start, date(2025, time.March, 16), now) {
		t.Error("timestamp inside the current cycle reported as outside")
	}
	if InCurrentCycle(&start, date(2025, time.March, 10), now) {
		t.Error("timestamp from the previous cycle reported as current")
	}
}

func TestMonthsElapsedNeverNegative(t *testing.T) {
	start := date(2025, time.June, 15)
	if got := monthsElapsed(start, date(2025, time.June, 1)); got != 0 {
		t.Errorf("monthsElapsed before start = %d, want 0", got)
	}
}
