// Package extract parses the figures a script needs out of raw
// article text. Directions and percentage changes are not taken from
// the prose: they are derived by comparing the freshly parsed values
// against the previous run's readings in the reference store.
package extract

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yanuaroby/rupiahemas/internal/domain"
	"github.com/yanuaroby/rupiahemas/internal/ports"
)

// Series keys under which reference values are kept between runs.
const (
	SeriesRupiahUSD   = "rupiah_usd"
	SeriesAntamGram   = "antam_gram"
	SeriesBuybackGram = "antam_buyback_gram"
	SeriesGoldUSD     = "gold_usd"
)

// Result carries everything parsed out of one article: the normalized
// record, the topic figures and the reference updates to persist once
// the script is delivered.
type Result struct {
	Record  domain.ArticleRecord
	Rupiah  *domain.RupiahFigures
	Gold    *domain.GoldFigures
	Updates map[string]decimal.Decimal
}

// Facts flattens the figures of the result for logging.
func (r Result) Facts() []domain.NumericFact {
	switch {
	case r.Rupiah != nil:
		return r.Rupiah.Facts()
	case r.Gold != nil:
		return r.Gold.Facts()
	default:
		return nil
	}
}

// Parser extracts the figures of one topic from a raw article.
type Parser interface {
	Topic() domain.Topic
	Parse(ctx context.Context, raw domain.RawArticle, refs ports.ReferenceStore) (Result, error)
}

// Registry keeps a mapping from topics to their parsers.
type Registry struct {
	parsers map[domain.Topic]Parser
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{parsers: map[domain.Topic]Parser{}}
}

// Register adds or replaces a parser implementation.
func (r *Registry) Register(parser Parser) {
	if r.parsers == nil {
		r.parsers = map[domain.Topic]Parser{}
	}
	r.parsers[parser.Topic()] = parser
}

// Resolve returns a parser by topic or an error if it is absent.
func (r *Registry) Resolve(topic domain.Topic) (Parser, error) {
	if parser, ok := r.parsers[topic]; ok {
		return parser, nil
	}
	return nil, fmt.Errorf("no parser registered for topic %s", topic)
}

// Default returns a registry with both production parsers installed.
func Default() *Registry {
	reg := NewRegistry()
	reg.Register(NewRupiahParser())
	reg.Register(NewGoldParser())
	return reg
}

// movement derives direction and signed percentage change of current
// against the stored previous value of series. Without a usable
// previous reading the movement is flat with zero change.
func movement(ctx context.Context, refs ports.ReferenceStore, series string, current decimal.Decimal) (domain.Direction, decimal.Decimal, error) {
	prev, found, err := refs.Previous(ctx, series)
	if err != nil {
		return domain.DirectionFlat, decimal.Zero, fmt.Errorf("previous %s: %w", series, err)
	}
	if !found || prev.IsZero() {
		return domain.DirectionFlat, decimal.Zero, nil
	}
	pct := current.Sub(prev).Div(prev).Mul(hundred)
	return domain.DirectionOf(current, prev), pct, nil
}

// delta derives direction and signed absolute change of current
// against the stored previous value of series.
func delta(ctx context.Context, refs ports.ReferenceStore, series string, current decimal.Decimal) (domain.Direction, decimal.Decimal, error) {
	prev, found, err := refs.Previous(ctx, series)
	if err != nil {
		return domain.DirectionFlat, decimal.Zero, fmt.Errorf("previous %s: %w", series, err)
	}
	if !found || prev.IsZero() {
		return domain.DirectionFlat, decimal.Zero, nil
	}
	return domain.DirectionOf(current, prev), current.Sub(prev), nil
}
