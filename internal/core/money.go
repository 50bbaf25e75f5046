// Package core holds the bookkeeping domain types, input validation and
// money handling.
//
// Amounts are whole Iraqi dinars stored as int64. Percentages use an exact
// decimal type so that no currency math goes through binary floating point.
package core

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const CurrencyPrefix = "IQD "

// MaxAmount is the largest amount a single order or partner may carry. It
// leaves room to total millions of orders in an int64.
const MaxAmount int64 = 1_000_000_000_000_000

var (
	hundred   = decimal.NewFromInt(100)
	maxAmount = decimal.NewFromInt(MaxAmount)
)

// ParseAmount converts a non-negative amount string to whole IQD, up to
// MaxAmount.
//
// Thousands separators are accepted and fractional input is rounded half-up
// to the nearest dinar:
//
//	ParseAmount("1,250")   -> 1250, nil
//	ParseAmount("1234.5")  -> 1235, nil
//	ParseAmount("1234.49") -> 1234, nil
//	ParseAmount("-1")      -> 0, ErrInvalidAmount
//	ParseAmount("1e16")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	d = d.Round(0)
	if d.IsNegative() || d.GreaterThan(maxAmount) {
		return 0, ErrInvalidAmount
	}
	return d.IntPart(), nil
}

// ParsePercentage parses a percentage in [0,100] with at most two decimal places.
func ParsePercentage(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ErrInvalidPercentage
	}
	if d.IsNegative() || d.GreaterThan(hundred) {
		return decimal.Zero, ErrInvalidPercentage
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Zero, ErrInvalidPercentage
	}
	return d.Round(2), nil
}

// FormatIQD renders an amount as "IQD 1,234,567".
func FormatIQD(amount int64) string {
	return CurrencyPrefix + groupThousands(strconv.FormatInt(amount, 10))
}

// FormatIQDValue is the lenient display formatter used by templates and
// reports. nil renders as "IQD 0"; values that are not numeric are echoed
// after the prefix instead of failing.
func FormatIQDValue(v any) string {
	switch n := v.(type) {
	case nil:
		return FormatIQD(0)
	case int:
		return FormatIQD(int64(n))
	case int32:
		return FormatIQD(int64(n))
	case int64:
		return FormatIQD(n)
	case float64:
		return CurrencyPrefix + groupThousands(decimal.NewFromFloat(n).Round(0).String())
	case uint:
		return CurrencyPrefix + groupThousands(strconv.FormatUint(uint64(n), 10))
	case uint64:
		return CurrencyPrefix + groupThousands(strconv.FormatUint(n, 10))
	case *big.Int:
		if n == nil {
			return FormatIQD(0)
		}
		return CurrencyPrefix + groupThousands(n.String())
	case decimal.Decimal:
		return CurrencyPrefix + groupThousands(n.Round(0).String())
	case *decimal.Decimal:
		if n == nil {
			return FormatIQD(0)
		}
		return CurrencyPrefix + groupThousands(n.Round(0).String())
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return CurrencyPrefix + n
		}
		return CurrencyPrefix + groupThousands(d.Round(0).String())
	default:
		return CurrencyPrefix + fmt.Sprint(v)
	}
}

// groupThousands inserts commas into an optionally signed integer string.
func groupThousands(digits string) string {
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}
