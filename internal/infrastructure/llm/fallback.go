package llm

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yanuaroby/rupiahemas/internal/domain"
	"github.com/yanuaroby/rupiahemas/internal/script"
)

// Canned analyses for days the model is unreachable. Forecast ranges
// are derived from the extracted figures when present; bounds are
// truncated to whole units before formatting and converting.

func fallbackRupiah(fig domain.RupiahFigures) domain.RupiahAnalysis {
	trendNoun := "pelemahan"
	if fig.Direction == domain.DirectionDown {
		trendNoun = "penguatan"
	}
	external := fmt.Sprintf(
		"Pergerakan %s rupiah dipengaruhi oleh dinamika pasar global. "+
			"Indeks dolar AS menunjukkan volatilitas yang berdampak pada mata uang emerging market. "+
			"Para investor terus memantau kebijakan bank sentral AS The Fed terkait suku bunga.",
		trendNoun,
	)

	asianText := "Data mata uang Asia tidak tersedia"
	if len(fig.Asian) > 0 {
		asianText = script.AsianList(fig.Asian)
	}

	globalDomestic := "Faktor domestik juga berperan dalam pergerakan rupiah hari ini. " +
		"Kondisi ekonomi dalam negeri dan arus modal asing mempengaruhi sentimen pasar. " +
		"Bank Indonesia diperkirakan akan terus menjaga stabilitas nilai tukar."

	forecast := "Rp 16.900 - Rp 17.000/US$"
	if !fig.CurrentRate.IsZero() {
		margin := decimal.NewFromInt(50)
		low := fig.CurrentRate.Sub(margin).Truncate(0)
		high := fig.CurrentRate.Add(margin).Truncate(0)
		forecast = fmt.Sprintf("Rp %s - Rp %s/US$", script.FormatInt(low), script.FormatInt(high))
	}

	return domain.RupiahAnalysis{
		External:       external,
		AsianText:      asianText,
		GlobalDomestic: globalDomestic,
		ForecastRange:  forecast,
	}
}

func fallbackGold(fig domain.GoldFigures, usdIDR decimal.Decimal) domain.GoldAnalysis {
	trendNoun := "penurunan"
	if fig.AntamDirection == domain.DirectionUp {
		trendNoun = "kenaikan"
	}
	correlation := fmt.Sprintf(
		"Harga emas Antam mengikuti pergerakan harga emas dunia yang mengalami %s. "+
			"Korelasi antara harga domestik dan global tetap kuat seiring dengan fluktuasi nilai tukar rupiah.",
		trendNoun,
	)

	forecastUSD := "US$ 2.000 - US$ 2.050/troy ons"
	forecastIDR := "Rp 1.050.000 - Rp 1.100.000/gram"
	if !fig.GlobalUSD.IsZero() {
		margin := decimal.NewFromInt(20)
		low := fig.GlobalUSD.Sub(margin).Truncate(0)
		high := fig.GlobalUSD.Add(margin).Truncate(0)
		forecastUSD = fmt.Sprintf("US$ %s - US$ %s/troy ons", script.FormatInt(low), script.FormatInt(high))
		if !usdIDR.IsZero() {
			perGram := usdIDR.Div(domain.GramsPerTroyOunce)
			forecastIDR = fmt.Sprintf("Rp %s - Rp %s/gram",
				script.FormatInt(low.Mul(perGram)),
				script.FormatInt(high.Mul(perGram)))
		}
	}

	catalysts := "Faktor geopolitik global dan status safe haven emas mendorong pergerakan harga. " +
		"Ekspektasi kebijakan moneter bank sentral utama juga mempengaruhi daya tarik logam mulia."

	return domain.GoldAnalysis{
		GlobalCorrelation: correlation,
		ForecastUSD:       forecastUSD,
		ForecastIDR:       forecastIDR,
		Catalysts:         catalysts,
	}
}
