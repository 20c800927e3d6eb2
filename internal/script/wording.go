package script

import (
	"unicode"
	"unicode/utf8"

	"github.com/yanuaroby/rupiahemas/internal/domain"
)

// Script vocabulary per topic. The rupiah is quoted as IDR per USD, so
// a rising rate means the currency weakened.
var trendWords = map[domain.Topic]map[domain.Direction]string{
	domain.TopicRupiah: {
		domain.DirectionUp:   "melemah",
		domain.DirectionDown: "menguat",
		domain.DirectionFlat: "stagnan",
	},
	domain.TopicGold: {
		domain.DirectionUp:   "naik",
		domain.DirectionDown: "turun",
		domain.DirectionFlat: "stagnan",
	},
}

// TrendWord returns the lower-case movement word for a topic.
func TrendWord(topic domain.Topic, dir domain.Direction) string {
	words, ok := trendWords[topic]
	if !ok {
		return "stagnan"
	}
	if w, ok := words[dir]; ok {
		return w
	}
	return "stagnan"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
