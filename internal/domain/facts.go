package domain

import "github.com/shopspring/decimal"

// Direction classifies the movement of a value against its previous
// reading.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// DirectionOf compares current against previous. A zero previous means
// there is no reference reading yet, so the movement is flat.
func DirectionOf(current, previous decimal.Decimal) Direction {
	if previous.IsZero() {
		return DirectionFlat
	}
	switch current.Cmp(previous) {
	case 1:
		return DirectionUp
	case -1:
		return DirectionDown
	default:
		return DirectionFlat
	}
}

// GramsPerTroyOunce converts between the world gold quote (per troy
// ounce) and the domestic one (per gram).
var GramsPerTroyOunce = decimal.NewFromFloat(31.1035)

// Unit labels what a numeric fact measures.
type Unit string

const (
	UnitIDRPerUSD       Unit = "idr_per_usd"
	UnitIDRPerGram      Unit = "idr_per_gram"
	UnitUSDPerTroyOunce Unit = "usd_per_troy_ounce"
	UnitPercent         Unit = "percent"
)

// NumericFact is a single extracted number with its unit and the
// direction of its movement against the previous known value.
type NumericFact struct {
	Name      string
	Value     decimal.Decimal
	Unit      Unit
	Direction Direction
}

// AsianCurrency is one entry of the regional currency overview, with
// its daily change in percent as quoted by the article.
type AsianCurrency struct {
	Name      string
	ChangePct decimal.Decimal
}

// RupiahFigures carries every number the rupiah script template needs.
// ChangePct is signed and measured against the previous stored close.
type RupiahFigures struct {
	OpeningRate decimal.Decimal
	CurrentRate decimal.Decimal
	TimeWIB     string
	ChangePct   decimal.Decimal
	Direction   Direction
	Asian       []AsianCurrency
}

// Facts lists the rupiah figures as labeled numeric facts for logging
// and assertions.
func (f RupiahFigures) Facts() []NumericFact {
	return []NumericFact{
		{Name: "rupiah_opening", Value: f.OpeningRate, Unit: UnitIDRPerUSD, Direction: DirectionFlat},
		{Name: "rupiah_current", Value: f.CurrentRate, Unit: UnitIDRPerUSD, Direction: f.Direction},
		{Name: "rupiah_change", Value: f.ChangePct, Unit: UnitPercent, Direction: f.Direction},
	}
}

// GoldFigures carries every number the gold script template needs.
// Buyback is optional: some articles only quote the selling price.
// Changes are signed and measured against the previous stored values.
type GoldFigures struct {
	AntamPrice      decimal.Decimal
	AntamChange     decimal.Decimal
	AntamDirection  Direction
	Buyback         decimal.NullDecimal
	BuybackChange   decimal.NullDecimal
	BuybackDir      Direction
	GlobalUSD       decimal.Decimal
	GlobalChangePct decimal.Decimal
	GlobalDirection Direction
	DateText        string
}

// Facts lists the gold figures as labeled numeric facts for logging
// and assertions.
func (f GoldFigures) Facts() []NumericFact {
	facts := []NumericFact{
		{Name: "antam_price", Value: f.AntamPrice, Unit: UnitIDRPerGram, Direction: f.AntamDirection},
		{Name: "antam_change", Value: f.AntamChange, Unit: UnitIDRPerGram, Direction: f.AntamDirection},
	}
	if f.Buyback.Valid {
		facts = append(facts, NumericFact{Name: "antam_buyback", Value: f.Buyback.Decimal, Unit: UnitIDRPerGram, Direction: f.BuybackDir})
	}
	facts = append(facts,
		NumericFact{Name: "gold_global", Value: f.GlobalUSD, Unit: UnitUSDPerTroyOunce, Direction: f.GlobalDirection},
		NumericFact{Name: "gold_global_change", Value: f.GlobalChangePct, Unit: UnitPercent, Direction: f.GlobalDirection},
	)
	return facts
}

// AnalysisParagraph is a bounded block of narrative prose destined for
// one analysis slot of a script.
type AnalysisParagraph struct {
	Text          string
	SentenceCount int
}

// RupiahAnalysis is the four-part narrative produced by the summarizer
// for the rupiah script, in template slot order.
type RupiahAnalysis struct {
	External       string
	AsianText      string
	GlobalDomestic string
	ForecastRange  string
}

// GoldAnalysis is the four-part narrative produced by the summarizer
// for the gold script, in template slot order.
type GoldAnalysis struct {
	GlobalCorrelation string
	ForecastUSD       string
	ForecastIDR       string
	Catalysts         string
}
