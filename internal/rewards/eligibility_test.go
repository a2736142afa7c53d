package rewards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextEligibleDate(t *testing.T) {
	tests := []struct {
		name string
		last time.Time
		want time.Time
	}{
		{"mid month", time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC), time.Date(2025, 4, 15, 10, 0, 0, 0, time.UTC)},
		{"year wrap", time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"calendar months not 90 days", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"overflow normalised", time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextEligibleDate(tt.last))
		})
	}
}

func TestCanDonate(t *testing.T) {
	last := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	next := NextEligibleDate(last)

	assert.True(t, CanDonate(nil, last), "never donated")
	assert.False(t, CanDonate(&last, last), "right after donating")
	assert.False(t, CanDonate(&last, last.AddDate(0, 0, 89)))
	assert.False(t, CanDonate(&last, next.Add(-time.Second)))
	assert.True(t, CanDonate(&last, next), "exactly three months later")
	assert.True(t, CanDonate(&last, next.AddDate(1, 0, 0)))
}

func TestCanDonateMonotonic(t *testing.T) {
	last := time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)
	eligible := false
	for d := 0; d < 200; d++ {
		now := last.AddDate(0, 0, d)
		got := CanDonate(&last, now)
		if eligible && !got {
			t.Fatalf("eligibility regressed at day %d", d)
		}
		eligible = got
	}
	assert.True(t, eligible)
}

func TestEligibilityCutoff(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), EligibilityCutoff(now))
}
