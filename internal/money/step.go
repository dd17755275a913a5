package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Step is a rounding increment in minor units.
type Step int64

const (
	Cent      Step = 1
	FiveCents Step = 5
	WholeUnit Step = 100
)

// Steps lists the supported rounding increments, finest first.
var Steps = []Step{Cent, FiveCents, WholeUnit}

var ErrUnknownStep = errors.New("unknown rounding step")

// ParseStep accepts the decimal notation of a supported step ("0.01", "0,05", "1").
func ParseStep(s string) (Step, error) {
	d := ParseDecimal(s)
	for _, step := range Steps {
		if d.Equal(step.Amount().Decimal()) {
			return step, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStep, s)
}

func (s Step) Amount() Amount { return Amount(s) }

func (s Step) String() string { return s.Amount().String() }

func (s Step) valid() bool { return s > 0 }

// RoundTo rounds a to the nearest multiple of step, half away from zero.
func RoundTo(a Amount, step Step) Amount {
	if !step.valid() || step == Cent {
		return a
	}
	return Amount(roundDiv(int64(a), int64(step)) * int64(step))
}

// RoundDecimal rounds a major-unit decimal straight to step without an
// intermediate rounding to cents.
func RoundDecimal(d decimal.Decimal, step Step) Amount {
	if !step.valid() {
		step = Cent
	}
	if !inRange(d) {
		return 0
	}
	q := d.Shift(minorDigits).Div(decimal.NewFromInt(int64(step))).Round(0)
	return Amount(q.IntPart() * int64(step))
}

// roundDiv divides n by d (d > 0) rounding half away from zero.
func roundDiv(n, d int64) int64 {
	if n < 0 {
		return -roundDiv(-n, d)
	}
	return (n + d/2) / d
}

// Share returns total*part/whole rounded half away from zero to step. All
// arguments are expected to be non-negative and whole to be positive.
func Share(total, part, whole Amount, step Step) Amount {
	if whole <= 0 {
		return 0
	}
	if !step.valid() {
		step = Cent
	}
	num := decimal.NewFromInt(int64(total)).Mul(decimal.NewFromInt(int64(part)))
	den := decimal.NewFromInt(int64(whole)).Mul(decimal.NewFromInt(int64(step)))
	q := num.Div(den).Round(0)
	return Amount(q.IntPart() * int64(step))
}
