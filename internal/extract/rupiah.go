package extract

import (
	"context"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/yanuaroby/rupiahemas/internal/domain"
	"github.com/yanuaroby/rupiahemas/internal/ports"
)

// Pattern chains mirror the phrasings the site rotates through. Each
// chain is tried in order and the first hit wins.
var (
	openingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)level\s+([\d\.]+)\s*/\s*US\$`),
		regexp.MustCompile(`(?i)pembukaan[^/]+?([\d\.]+)\s*/\s*US\$`),
		regexp.MustCompile(`(?i)pada\s+pembukaan[^/]+?([\d\.]+)`),
		regexp.MustCompile(`(?i)dibuka[^/]+?([\d\.]+)\s*/\s*US\$`),
		regexp.MustCompile(`(?i)Rp\s*([\d\.]+)\s*/\s*US\$\s+pada pembukaan`),
		regexp.MustCompile(`(?i)pada pembukaan[^/]+?Rp\s*([\d\.]+)`),
	}
	currentRatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)bergerak[\s\w]+?(\d+\.?\d*)\s*/\s*US\$`),
		regexp.MustCompile(`(?i)berada[\s\w]+?(\d+\.?\d*)\s*/\s*US\$`),
		regexp.MustCompile(`(?i)diperdagangkan[\s\w]+?(\d+\.?\d*)\s*/\s*US\$`),
		regexp.MustCompile(`(?i)rupiah dihargai\s*(\d+\.?\d*)\s*/\s*US\$`),
	}
	timePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)pukul\s*(\d{1,2}:\d{2})\s*WIB`),
		regexp.MustCompile(`(\d{1,2}:\d{2})\s*WIB`),
		regexp.MustCompile(`(?i)pada\s*(\d{1,2}:\d{2})`),
	}
)

// defaultQuoteTime stands in when the article does not say at what
// time the rate was read.
const defaultQuoteTime = "10:00"

type asianPattern struct {
	name string
	re   *regexp.Regexp
}

// Quoted in a fixed order so the overview line is deterministic.
var asianPatterns = buildAsianPatterns()

func buildAsianPatterns() []asianPattern {
	names := []struct{ key, display string }{
		{"peso", "Peso"},
		{"yen", "Yen"},
		{"ringgit", "Ringgit"},
		{"yuan", "Yuan"},
		{"won", "Won"},
		{"baht", "Baht"},
		{"dolar singapura", "Dolar Singapura"},
		{"dolar hong kong", "Dolar Hong Kong"},
	}
	patterns := make([]asianPattern, 0, len(names))
	for _, n := range names {
		patterns = append(patterns, asianPattern{
			name: n.display,
			re:   regexp.MustCompile(`(?i)` + n.key + `[\s\w]+?([+-]?\d+\.?\d*)\s*%`),
		})
	}
	return patterns
}

// RupiahParser pulls the exchange rate figures out of a rupiah
// article.
type RupiahParser struct{}

func NewRupiahParser() *RupiahParser { return &RupiahParser{} }

func (p *RupiahParser) Topic() domain.Topic { return domain.TopicRupiah }

// Parse extracts the rupiah figures. The current rate is mandatory,
// the opening rate falls back to the current one and the quote time to
// 10:00 when the article omits them.
func (p *RupiahParser) Parse(ctx context.Context, raw domain.RawArticle, refs ports.ReferenceStore) (Result, error) {
	content := raw.BodyText

	current, ok := firstGrouped(currentRatePatterns, content)
	if !ok || current.IsZero() {
		return Result{}, &domain.ExtractionError{Topic: domain.TopicRupiah, Missing: "current rate"}
	}
	opening, ok := firstGrouped(openingPatterns, content)
	if !ok || opening.IsZero() {
		opening = current
	}
	quoteTime, ok := firstMatch(timePatterns, content)
	if !ok {
		quoteTime = defaultQuoteTime
	}

	dir, pct, err := movement(ctx, refs, SeriesRupiahUSD, current)
	if err != nil {
		return Result{}, err
	}

	fig := domain.RupiahFigures{
		OpeningRate: opening,
		CurrentRate: current,
		TimeWIB:     quoteTime,
		ChangePct:   pct,
		Direction:   dir,
		Asian:       parseAsianCurrencies(content),
	}

	return Result{
		Record:  raw.Record(),
		Rupiah:  &fig,
		Updates: map[string]decimal.Decimal{SeriesRupiahUSD: current},
	}, nil
}

func parseAsianCurrencies(content string) []domain.AsianCurrency {
	var out []domain.AsianCurrency
	for _, ap := range asianPatterns {
		m := ap.re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		pct, ok := parsePlain(m[1])
		if !ok {
			continue
		}
		out = append(out, domain.AsianCurrency{Name: ap.name, ChangePct: pct})
	}
	return out
}
