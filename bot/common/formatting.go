package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every cash amount shown in Discord
const CurrencySymbol = "₹"

// FormatBalance formats an integer amount with thousand separators
func FormatBalance(balance int64) string {
	if balance < 0 {
		return "-" + FormatBalance(-balance)
	}

	str := fmt.Sprintf("%d", balance)

	n := len(str)
	if n <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatMoney formats a cash amount as ₹1,234.50. Whole amounts drop the paise.
func FormatMoney(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	whole := FormatBalance(amount.IntPart())
	if amount.IsInteger() {
		return sign + CurrencySymbol + whole
	}
	fraction := amount.Sub(amount.Truncate(0)).StringFixed(2)
	return sign + CurrencySymbol + whole + strings.TrimPrefix(fraction, "0")
}

// FormatDil formats DIL points
func FormatDil(points int64) string {
	return FormatBalance(points) + " DIL"
}

// FormatPlacement turns 1, 2, 3 into medal labels
func FormatPlacement(position *int) string {
	if position == nil {
		return "unplaced"
	}
	switch *position {
	case 1:
		return "🥇 1st"
	case 2:
		return "🥈 2nd"
	case 3:
		return "🥉 3rd"
	default:
		return fmt.Sprintf("#%d", *position)
	}
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
