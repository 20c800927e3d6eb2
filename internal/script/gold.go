package script

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yanuaroby/rupiahemas/internal/domain"
)

// GoldInput bundles everything the gold template consumes. USDIDR is
// the conversion rate for the world gold price, usually the same day's
// rupiah close.
type GoldInput struct {
	Figures  domain.GoldFigures
	Analysis domain.GoldAnalysis
	USDIDR   decimal.Decimal
}

// ComposeGold builds the gold script document. The title is derived
// from the Antam movement rather than taken from the article headline.
func ComposeGold(in GoldInput) (*Document, error) {
	fig := in.Figures
	if fig.AntamPrice.IsZero() {
		return nil, &domain.MissingFieldError{Field: "antam price"}
	}
	if fig.GlobalUSD.IsZero() {
		return nil, &domain.MissingFieldError{Field: "global gold price"}
	}
	if strings.TrimSpace(fig.DateText) == "" {
		return nil, &domain.MissingFieldError{Field: "article date"}
	}
	if in.USDIDR.IsZero() {
		return nil, &domain.MissingFieldError{Field: "usd/idr rate"}
	}

	correlation, ok := Normalize(in.Analysis.GlobalCorrelation, minAnalysisSentences, maxAnalysisSentences, goldCorrelationFiller)
	if !ok {
		return nil, &domain.MissingFieldError{Field: "global correlation analysis"}
	}
	catalysts, ok := Normalize(in.Analysis.Catalysts, minAnalysisSentences, maxAnalysisSentences, goldCatalystFiller)
	if !ok {
		return nil, &domain.MissingFieldError{Field: "price catalysts analysis"}
	}
	forecastUSD := strings.TrimSpace(in.Analysis.ForecastUSD)
	if forecastUSD == "" {
		return nil, &domain.MissingFieldError{Field: "usd forecast range"}
	}
	forecastIDR := strings.TrimSpace(in.Analysis.ForecastIDR)
	if forecastIDR == "" {
		return nil, &domain.MissingFieldError{Field: "idr forecast range"}
	}

	trend := TrendWord(domain.TopicGold, fig.AntamDirection)
	antamBody := priceBlock(fig.AntamPrice, fig.AntamChange, trend, "dari hari sebelumnya")
	if fig.Buyback.Valid {
		var buybackChange decimal.Decimal
		if fig.BuybackChange.Valid {
			buybackChange = fig.BuybackChange.Decimal
		}
		buybackTrend := TrendWord(domain.TopicGold, fig.BuybackDir)
		antamBody += "\n\nHARGA BUYBACK EMAS ANTAM\n\n" +
			priceBlock(fig.Buyback.Decimal, buybackChange, buybackTrend, "dari sebelumnya")
	}

	globalIDR := fig.GlobalUSD.Mul(in.USDIDR).Div(domain.GramsPerTroyOunce)
	globalBody := fmt.Sprintf("US$ %s/troy ons.\nRp%s\n%s %s%% dari hari sebelumnya",
		FormatDecimal(fig.GlobalUSD, 1),
		FormatInt(globalIDR),
		globalTrendWord(fig.GlobalChangePct),
		FormatDecimal(fig.GlobalChangePct.Abs(), 2),
	)

	return &Document{
		Topic: domain.TopicGold,
		Sections: []Section{
			{Header: "JUDUL :", Body: goldTitle(fig.AntamDirection, fig.AntamChange), Inline: true},
			{Body: "Harga emas PT Aneka Tambang Tbk atau Antam " + introPhrase(fig.AntamDirection)},
			{Header: "HARGA EMAS ANTAM", Body: antamBody},
			{Body: "****\n" + correlation.Text},
			{Header: "HARGA EMAS DUNIA " + strings.ToUpper(fig.DateText), Body: globalBody},
			{Body: catalysts.Text},
			{Header: "PERKIRAAN KENAIKAN HARGA EMAS DUNIA", Body: forecastUSD + " atau " + forecastIDR},
		},
	}, nil
}

// goldTitle builds the headline, e.g. "EMAS ANTAM NAIK RP28.000/GRAM,
// HARI INI".
func goldTitle(dir domain.Direction, change decimal.Decimal) string {
	word := strings.ToUpper(TrendWord(domain.TopicGold, dir))
	return fmt.Sprintf("EMAS ANTAM %s RP%s/GRAM, HARI INI", word, FormatInt(change.Abs()))
}

// priceBlock renders a price line plus its movement line. A zero
// change hides the movement line entirely.
func priceBlock(price, change decimal.Decimal, trend, suffix string) string {
	block := fmt.Sprintf("Rp %s/gram.", FormatInt(price))
	if !change.IsZero() {
		block += fmt.Sprintf("\n%s Rp %s/gram %s", capitalize(trend), FormatInt(change.Abs()), suffix)
	}
	return block
}

// introPhrase is the single opening sentence of the gold script. It
// deliberately carries no trailing period.
func introPhrase(dir domain.Direction) string {
	switch dir {
	case domain.DirectionUp:
		return "kembali naik"
	case domain.DirectionDown:
		return "kembali turun"
	default:
		return "stagnan"
	}
}

// globalTrendWord keeps the broadcast wording: a non-negative change
// is "Bertambah", a negative one "Berkurang".
func globalTrendWord(pct decimal.Decimal) string {
	if pct.IsNegative() {
		return "Berkurang"
	}
	return "Bertambah"
}
