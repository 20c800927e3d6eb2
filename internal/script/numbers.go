package script

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatInt renders the integer part of a value with Indonesian
// thousand separators: 2944000 becomes "2.944.000".
func FormatInt(d decimal.Decimal) string {
	n := d.IntPart()
	if n < 0 {
		return "-" + groupThousands(strconv.FormatInt(-n, 10))
	}
	return groupThousands(strconv.FormatInt(n, 10))
}

// FormatDecimal renders a value with the requested number of decimal
// places in Indonesian notation, so 16000.5 with two places becomes
// "16.000,50". Halves round away from zero.
func FormatDecimal(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	out := groupThousands(intPart)
	if hasFrac {
		out += "," + fracPart
	}
	if neg {
		return "-" + out
	}
	return out
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// signedPct renders a percentage with an explicit sign and two decimal
// places, as quoted in the Asian currency overview: "+0.20".
func signedPct(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if !strings.HasPrefix(s, "-") {
		s = "+" + s
	}
	return s
}
