package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/library/internal/entities"
)

func TestCalculateLateFee(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		due      time.Time
		rate     Cents
		wantFee  Cents
		wantLate bool
	}{
		{name: "five days late", due: now.Add(-5 * day), rate: 100, wantFee: 500, wantLate: true},
		{name: "due tomorrow", due: now.Add(day), rate: 100, wantFee: 0, wantLate: false},
		{name: "due exactly now", due: now, rate: 100, wantFee: 0, wantLate: false},
		{name: "partial day is not charged", due: now.Add(-23 * time.Hour), rate: 100, wantFee: 0, wantLate: true},
		{name: "partial days are floored", due: now.Add(-2*day - 20*time.Hour), rate: 100, wantFee: 200, wantLate: true},
		{name: "custom rate", due: now.Add(-3 * day), rate: 25, wantFee: 75, wantLate: true},
		{name: "zero rate", due: now.Add(-10 * day), rate: 0, wantFee: 0, wantLate: true},
		{name: "negative rate is treated as zero", due: now.Add(-10 * day), rate: -100, wantFee: 0, wantLate: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			co := entities.Checkout{CheckoutTime: tt.due.Add(-14 * day), DueTime: tt.due}
			assert.Equal(t, tt.wantLate, IsOverdue(co, now))
			assert.Equal(t, tt.wantFee, CalculateLateFee(co, now, tt.rate))
		})
	}
}

func TestDaysLate(t *testing.T) {
	now := time.Now()
	co := entities.Checkout{DueTime: now.Add(-20*day - time.Minute)}
	assert.Equal(t, int64(20), DaysLate(co, now))

	co.DueTime = now.Add(5 * day)
	assert.Zero(t, DaysLate(co, now))
}

func TestCalculateLateFee_Saturates(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	co := entities.Checkout{DueTime: now.Add(-49 * time.Hour)}

	fee := CalculateLateFee(co, now, Cents(9_000_000_000_000_000_000))
	assert.Equal(t, MaxCents, fee)

	co.DueTime = now.Add(-100 * 365 * day)
	assert.Equal(t, Cents(36500)*MaxDailyRate, CalculateLateFee(co, now, MaxDailyRate))
}
