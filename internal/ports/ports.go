package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yanuaroby/rupiahemas/internal/domain"
)

// ArticleSource pulls the freshest article about a topic from the news
// site. A day with no coverage yields domain.ErrNoArticle.
type ArticleSource interface {
	FetchArticle(ctx context.Context, topic domain.Topic) (domain.RawArticle, error)
}

// Summarizer turns an article plus its extracted figures into the
// narrative slots of a script.
type Summarizer interface {
	AnalyzeRupiah(ctx context.Context, record domain.ArticleRecord, figures domain.RupiahFigures) (domain.RupiahAnalysis, error)
	AnalyzeGold(ctx context.Context, record domain.ArticleRecord, figures domain.GoldFigures, usdIDR decimal.Decimal) (domain.GoldAnalysis, error)
}

// Notifier delivers a finished message to the channel.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// ReferenceStore keeps the previously published value per series so
// the next run can derive directions and percentage changes. The store
// is owned by the caller; extraction only reads and the pipeline only
// writes after a successful delivery.
type ReferenceStore interface {
	Previous(ctx context.Context, series string) (decimal.Decimal, bool, error)
	Store(ctx context.Context, series string, value decimal.Decimal) error
	Close() error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
