package extract

import (
	"context"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/yanuaroby/rupiahemas/internal/domain"
	"github.com/yanuaroby/rupiahemas/internal/ports"
	"github.com/yanuaroby/rupiahemas/internal/script"
)

var (
	antamPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Rp\s*([\d\.]+)\s*/\s*gram`),
		regexp.MustCompile(`(?i)Antam[\s\w]+?Rp\s*([\d\.]+)`),
		regexp.MustCompile(`(?i)harga emas[\s\w]+?Rp\s*([\d\.]+)`),
	}
	buybackPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)buyback[\s\w]+?Rp\s*([\d\.]+)`),
		regexp.MustCompile(`(?i)harga buyback[\s\w]+?Rp\s*([\d\.]+)`),
		regexp.MustCompile(`(?i)Rp\s*([\d\.]+)\s*/\s*gram.*buyback`),
	}
	globalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)emas dunia[\s\w]+?US\$\s*([\d\.,]+)`),
		regexp.MustCompile(`(?i)global[\s\w]+?US\$\s*([\d\.,]+)`),
		regexp.MustCompile(`(?i)spot[\s\w]+?US\$\s*([\d\.,]+)`),
		regexp.MustCompile(`(?i)XAU/USD[\s\w]+?([\d\.,]+)`),
	}
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d{1,2}\s+\w+\s+\d{4})`),
		regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})`),
		regexp.MustCompile(`(\w+\s+\d{1,2},\s+\d{4})`),
	}
)

// GoldParser pulls the Antam and world gold figures out of a gold
// article.
type GoldParser struct{}

func NewGoldParser() *GoldParser { return &GoldParser{} }

func (p *GoldParser) Topic() domain.Topic { return domain.TopicGold }

// Parse extracts the gold figures. The Antam and world prices are
// mandatory, the buyback price is optional and the date falls back to
// the fetch day.
func (p *GoldParser) Parse(ctx context.Context, raw domain.RawArticle, refs ports.ReferenceStore) (Result, error) {
	content := raw.BodyText

	antam, ok := firstGrouped(antamPatterns, content)
	if !ok || antam.IsZero() {
		return Result{}, &domain.ExtractionError{Topic: domain.TopicGold, Missing: "antam price"}
	}
	global, ok := firstFlexible(globalPatterns, content)
	if !ok || global.IsZero() {
		return Result{}, &domain.ExtractionError{Topic: domain.TopicGold, Missing: "global gold price"}
	}

	antamDir, antamChange, err := delta(ctx, refs, SeriesAntamGram, antam)
	if err != nil {
		return Result{}, err
	}
	globalDir, globalPct, err := movement(ctx, refs, SeriesGoldUSD, global)
	if err != nil {
		return Result{}, err
	}

	fig := domain.GoldFigures{
		AntamPrice:      antam,
		AntamChange:     antamChange,
		AntamDirection:  antamDir,
		GlobalUSD:       global,
		GlobalChangePct: globalPct,
		GlobalDirection: globalDir,
		DateText:        articleDate(content, raw),
	}

	updates := map[string]decimal.Decimal{
		SeriesAntamGram: antam,
		SeriesGoldUSD:   global,
	}

	if buyback, ok := firstGrouped(buybackPatterns, content); ok && !buyback.IsZero() {
		buybackDir, buybackChange, err := delta(ctx, refs, SeriesBuybackGram, buyback)
		if err != nil {
			return Result{}, err
		}
		fig.Buyback = decimal.NewNullDecimal(buyback)
		fig.BuybackChange = decimal.NewNullDecimal(buybackChange)
		fig.BuybackDir = buybackDir
		updates[SeriesBuybackGram] = buyback
	}

	return Result{
		Record:  raw.Record(),
		Gold:    &fig,
		Updates: updates,
	}, nil
}

// articleDate prefers the date printed in the article and falls back
// to the fetch day in Indonesian notation.
func articleDate(content string, raw domain.RawArticle) string {
	if m, ok := firstMatch(datePatterns, content); ok {
		return m
	}
	return script.FormatDate(raw.FetchedAt)
}
