package script

import (
	"strings"
	"unicode"

	"github.com/yanuaroby/rupiahemas/internal/domain"
)

// Stock sentences used to pad an analysis slot that came back too
// short.
var (
	rupiahExternalFiller = []string{
		"Indeks dolar AS menunjukkan volatilitas yang berdampak pada mata uang emerging market.",
		"Para investor terus memantau kebijakan bank sentral AS The Fed terkait suku bunga.",
	}
	rupiahDomesticFiller = []string{
		"Kondisi ekonomi dalam negeri dan arus modal asing mempengaruhi sentimen pasar.",
		"Bank Indonesia diperkirakan akan terus menjaga stabilitas nilai tukar.",
	}
	goldCorrelationFiller = []string{
		"Korelasi antara harga domestik dan global tetap kuat seiring dengan fluktuasi nilai tukar rupiah.",
	}
	goldCatalystFiller = []string{
		"Ekspektasi kebijakan moneter bank sentral utama juga mempengaruhi daya tarik logam mulia.",
	}
)

// SplitSentences splits Indonesian prose into sentences. A period
// between two digits is a thousand separator, not a terminator, and a
// trailing fragment without punctuation still counts as a sentence.
func SplitSentences(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	var sentences []string
	start := 0
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if r == '.' && i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}
	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// Normalize forces prose into the sentence budget of an analysis slot.
// Overlong text is cut at the limit, short text is padded from the
// filler bank. Empty text cannot be normalized.
func Normalize(text string, min, max int, filler []string) (domain.AnalysisParagraph, bool) {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return domain.AnalysisParagraph{}, false
	}
	if len(sentences) > max {
		sentences = sentences[:max]
	}
	for i := 0; len(sentences) < min && i < len(filler); i++ {
		sentences = append(sentences, filler[i])
	}
	if len(sentences) < min {
		return domain.AnalysisParagraph{}, false
	}
	return domain.AnalysisParagraph{
		Text:          strings.Join(sentences, " "),
		SentenceCount: len(sentences),
	}, true
}
