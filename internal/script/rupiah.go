package script

import (
	"fmt"
	"strings"
	"time"

	"github.com/yanuaroby/rupiahemas/internal/domain"
)

// RupiahInput bundles everything the rupiah template consumes. Now is
// the WIB wall clock of the run, used for the day and date line.
type RupiahInput struct {
	Title    string
	Figures  domain.RupiahFigures
	Analysis domain.RupiahAnalysis
	Now      time.Time
}

// ComposeRupiah builds the rupiah script document. Every placeholder
// must have a value, an empty one fails with MissingFieldError.
func ComposeRupiah(in RupiahInput) (*Document, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, &domain.MissingFieldError{Field: "title"}
	}
	fig := in.Figures
	if fig.CurrentRate.IsZero() {
		return nil, &domain.MissingFieldError{Field: "current rate"}
	}
	if fig.OpeningRate.IsZero() {
		return nil, &domain.MissingFieldError{Field: "opening rate"}
	}
	if fig.TimeWIB == "" {
		return nil, &domain.MissingFieldError{Field: "quote time"}
	}

	external, ok := Normalize(in.Analysis.External, minAnalysisSentences, maxAnalysisSentences, rupiahExternalFiller)
	if !ok {
		return nil, &domain.MissingFieldError{Field: "external analysis"}
	}
	globalDomestic, ok := Normalize(in.Analysis.GlobalDomestic, minAnalysisSentences, maxAnalysisSentences, rupiahDomesticFiller)
	if !ok {
		return nil, &domain.MissingFieldError{Field: "global and domestic analysis"}
	}
	asian := asianLine(fig.Asian, in.Analysis.AsianText)
	if asian == "" {
		return nil, &domain.MissingFieldError{Field: "asian currencies"}
	}
	forecast := strings.TrimSpace(in.Analysis.ForecastRange)
	if forecast == "" {
		return nil, &domain.MissingFieldError{Field: "forecast range"}
	}

	trend := TrendWord(domain.TopicRupiah, fig.Direction)
	intro := fmt.Sprintf(
		"Nilai tukar rupiah %s dalam pembukaan perdagangan hari ini. %s, %s, rupiah dihargai %s/US$. Kemudian pada pukul %s WIB, rupiah bergerak ke angka %s/US$.",
		trend, DayName(in.Now), FormatDate(in.Now),
		FormatInt(fig.OpeningRate), fig.TimeWIB, FormatInt(fig.CurrentRate),
	)
	rateLine := fmt.Sprintf("%s/US$ %s %s%% dari sebelumnya",
		FormatInt(fig.CurrentRate), capitalize(trend), fig.ChangePct.Abs().StringFixed(1))

	return &Document{
		Topic: domain.TopicRupiah,
		Sections: []Section{
			{Header: "JUDUL :", Body: title, Inline: true},
			{Body: intro},
			{Header: "NILAI TUKAR RUPIAH", Body: rateLine, Inline: true},
			{Body: external.Text},
			{Header: "NILAI TUKAR MATA UANG ASIA", Body: asian, Inline: true},
			{Body: globalDomestic.Text},
			{Header: "PERKIRAAN PELEMAHAN RUPIAH", Body: forecast, Inline: true},
		},
	}, nil
}

// asianLine prefers the model's formatted list and falls back to the
// figures parsed straight from the article.
func asianLine(currencies []domain.AsianCurrency, modelText string) string {
	if s := strings.TrimSpace(modelText); s != "" {
		return s
	}
	return AsianList(currencies)
}

// AsianList renders the regional currency overview, one entry per
// currency with its signed daily change: "Yen Jepang (+0.25%)".
func AsianList(currencies []domain.AsianCurrency) string {
	parts := make([]string, 0, len(currencies))
	for _, c := range currencies {
		parts = append(parts, fmt.Sprintf("%s (%s%%)", c.Name, signedPct(c.ChangePct)))
	}
	return strings.Join(parts, ", ")
}
