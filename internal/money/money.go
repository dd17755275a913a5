// Package money holds the integer minor-unit amount type used by every
// calculation, together with its decimal I/O boundary.
//
// All arithmetic inside the calculator happens on Amount (cents). Decimal
// values only exist while parsing user input and while formatting output.
package money

import (
	"bytes"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// minorDigits is the number of decimal digits stored in an Amount.
const minorDigits = 2

// Amount is a signed monetary value in minor units (cents).
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

// FromMinor builds an Amount from a count of minor units.
func FromMinor(n int64) Amount { return Amount(n) }

// FromMajor builds an Amount from whole currency units.
func FromMajor(n int64) Amount { return Amount(n * 100) }

// maxMajor bounds the magnitude of any amount read from input. Sums of many
// such amounts in cents stay well inside int64.
var maxMajor = decimal.New(1, 12)

// inRange reports whether d is small enough to be held as an Amount.
func inRange(d decimal.Decimal) bool {
	return d.Abs().LessThan(maxMajor)
}

// FromDecimal rounds d half away from zero to the nearest cent. Values too
// large to be a plausible amount are zero.
func FromDecimal(d decimal.Decimal) Amount {
	if !inRange(d) {
		return 0
	}
	return Amount(d.Shift(minorDigits).Round(0).IntPart())
}

// Parse reads a user-entered amount. Blank, unparseable or out-of-range
// input is zero; a comma is accepted as decimal separator.
func Parse(s string) Amount {
	return FromDecimal(ParseDecimal(s))
}

// ParseDecimal is Parse without the rounding to cents.
func ParseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil || !inRange(d) {
		return decimal.Zero
	}
	return d
}

func (a Amount) Minor() int64 { return int64(a) }

// Decimal returns the amount in major units.
func (a Amount) Decimal() decimal.Decimal { return decimal.New(int64(a), -minorDigits) }

// Float64 is for reporting only; never feed it back into a calculation.
func (a Amount) Float64() float64 { return a.Decimal().InexactFloat64() }

func (a Amount) String() string { return a.Decimal().StringFixed(minorDigits) }

func (a Amount) IsZero() bool     { return a == 0 }
func (a Amount) IsPositive() bool { return a > 0 }
func (a Amount) IsNegative() bool { return a < 0 }

func (a Amount) Sign() int {
	switch {
	case a > 0:
		return 1
	case a < 0:
		return -1
	}
	return 0
}

func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// Min returns the smaller of a and b.
func Min(a, b Amount) Amount {
	if b < a {
		return b
	}
	return a
}

// Sum adds amounts exactly.
func Sum(amounts ...Amount) Amount {
	var total Amount
	for _, a := range amounts {
		total += a
	}
	return total
}

// MarshalJSON writes the amount as a plain JSON number in major units.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal().String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string. Anything else
// decodes to zero, matching how blank form fields are treated.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	*a = Parse(string(bytes.Trim(data, `"`)))
	return nil
}

// Format renders the amount with the symbol and separators of currency code.
func Format(a Amount, code string) string {
	// go-money never returns a nil currency from a Money value.
	cur := gomoney.New(0, code).Currency()
	dec := a.Decimal().Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// FormatSigned is Format with an explicit "+" for positive amounts.
func FormatSigned(a Amount, code string) string {
	if a > 0 {
		return "+" + Format(a, code)
	}
	return Format(a, code)
}
