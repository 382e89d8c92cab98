package library

import (
	"time"

	"github.com/mrlokans/library/internal/entities"
)

const day = 24 * time.Hour

// IsOverdue reports whether the checkout is past its due time at now.
func IsOverdue(co entities.Checkout, now time.Time) bool {
	return now.After(co.DueTime)
}

// DaysLate is the number of whole days elapsed past the due time.
// Partial days do not count.
func DaysLate(co entities.Checkout, now time.Time) int64 {
	if !IsOverdue(co, now) {
		return 0
	}
	return int64(now.Sub(co.DueTime) / day)
}

// CalculateLateFee returns DaysLate times dailyRate. It is never negative
// and saturates at MaxCents.
func CalculateLateFee(co entities.Checkout, now time.Time, dailyRate Cents) Cents {
	days := DaysLate(co, now)
	if dailyRate <= 0 || days <= 0 {
		return 0
	}
	if Cents(days) > MaxCents/dailyRate {
		return MaxCents
	}
	return Cents(days) * dailyRate
}
