package library

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cents is an amount of money in hundredths of the currency unit.
type Cents int64

// MaxDailyRate bounds the late fee rate so fee arithmetic stays far from
// int64 overflow.
const MaxDailyRate Cents = 1_000_000

// MaxCents is the largest representable amount. Fees saturate here.
const MaxCents Cents = math.MaxInt64

// ValidateDailyRate rejects rates outside [0, MaxDailyRate].
func ValidateDailyRate(rate Cents) error {
	if rate < 0 || rate > MaxDailyRate {
		return ErrInvalidRate
	}
	return nil
}

// CentsFromAmount converts a daily rate such as 1.25 to Cents, rounding to
// the nearest cent. Amounts above MaxDailyRate are rejected.
func CentsFromAmount(amount float64) (Cents, error) {
	if math.IsNaN(amount) || amount < 0 || amount*100 > float64(MaxDailyRate) {
		return 0, ErrInvalidRate
	}
	return Cents(math.Round(amount * 100)), nil
}

// ParseCents parses a decimal string ("1", "1.5", "0.25").
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidRate
	}
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidRate
	}
	return CentsFromAmount(amount)
}

// Amount returns the value in currency units.
func (c Cents) Amount() float64 {
	return float64(c) / 100
}

func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(c.String())), nil
}
