// Package core holds the domain model of the budget ledger: entries, month
// records, quick templates, money parsing and month-key arithmetic.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// CurrencyLabel suffixes every formatted amount.
const CurrencyLabel = "lei"

// ParseAmount converts a user-entered decimal string to cents.
//
// It accepts surrounding whitespace, either dot (12.34) or comma (12,34) as
// the decimal separator and at most two fractional digits; a single
// fractional digit is padded ("5,1" -> 510). Signs, thousands separators,
// multiple separators and more than two fractional digits are rejected with
// ErrInvalidAmount. Zero is a valid amount.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
		if fracPart == "" || len(fracPart) > 2 {
			return 0, ErrInvalidAmount
		}
	}
	if intPart == "" {
		return 0, ErrInvalidAmount
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100 and adding up to 99 bani.
	const maxSafeLei = (math.MaxInt64 - 99) / 100
	if iv > maxSafeLei {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
		}
	}
	return iv*100 + fracCents, nil
}

// FormatAmount renders cents as a display string, comma decimal separator and
// two-digit bani, suffixed with the currency label: -150 -> "-1,50 lei".
func FormatAmount(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	lei := cents / 100
	bani := cents % 100
	s := strconv.FormatInt(lei, 10) + "," + pad2(bani) + " " + CurrencyLabel
	if neg {
		return "-" + s
	}
	return s
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
