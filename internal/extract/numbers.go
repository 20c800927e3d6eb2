package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// firstMatch runs the patterns in order and returns the first capture
// group of the first one that hits.
func firstMatch(patterns []*regexp.Regexp, text string) (string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// parseGrouped reads an Indonesian-formatted integer amount such as
// "1.350.000", where dots are thousand separators.
func parseGrouped(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// parsePlain reads a dot-decimal number such as "0.25".
func parsePlain(s string) (decimal.Decimal, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// parseFlexible reads a quote that may use either Indonesian or US
// notation: "4.997,7", "2,334.55", "2.334" and "2334.5" all parse to
// the value a human would read. With both separators present the
// rightmost one is the decimal mark; a lone separator followed by a
// full group of three digits is treated as a thousand separator.
func parseFlexible(s string) (decimal.Decimal, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	s = strings.TrimRight(s, ".,")
	if s == "" {
		return decimal.Decimal{}, false
	}

	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if isGrouped(s, ',') {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0:
		if isGrouped(s, '.') {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// isGrouped reports whether every separator in s delimits a full
// three-digit group, i.e. the string reads as a grouped integer. A
// zero head like "0.125" never does.
func isGrouped(s string, sep byte) bool {
	parts := strings.Split(s, string(sep))
	if len(parts) < 2 {
		return false
	}
	head := parts[0]
	if head == "" || head == "0" || len(head) > 3 {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}

// firstGrouped returns the first pattern capture parsed as a grouped
// Indonesian amount.
func firstGrouped(patterns []*regexp.Regexp, text string) (decimal.Decimal, bool) {
	m, ok := firstMatch(patterns, text)
	if !ok {
		return decimal.Decimal{}, false
	}
	return parseGrouped(m)
}

// firstFlexible returns the first pattern capture parsed with format
// sniffing.
func firstFlexible(patterns []*regexp.Regexp, text string) (decimal.Decimal, bool) {
	m, ok := firstMatch(patterns, text)
	if !ok {
		return decimal.Decimal{}, false
	}
	return parseFlexible(m)
}
