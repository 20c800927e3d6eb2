package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yanuaroby/rupiahemas/internal/domain"
	"github.com/yanuaroby/rupiahemas/internal/extract"
	"github.com/yanuaroby/rupiahemas/internal/ports"
	"github.com/yanuaroby/rupiahemas/internal/script"
)

// PipelineDeps wires all driven adapters into the daily script run.
type PipelineDeps struct {
	Source         ports.ArticleSource
	Summarizer     ports.Summarizer
	Notifier       ports.Notifier
	Refs           ports.ReferenceStore
	Registry       *extract.Registry
	FallbackUSDIDR decimal.Decimal
	Location       *time.Location
	Logger         *slog.Logger
}

// Pipeline produces and delivers both daily scripts. The rupiah topic
// runs first because its current rate converts the world gold price.
type Pipeline struct {
	source         ports.ArticleSource
	summarizer     ports.Summarizer
	notifier       ports.Notifier
	refs           ports.ReferenceStore
	registry       *extract.Registry
	fallbackUSDIDR decimal.Decimal
	location       *time.Location
	logger         *slog.Logger
}

// Results reports which topics got a message out, script or notice.
type Results struct {
	Rupiah bool
	Gold   bool
}

// AnyDelivered reports whether at least one topic reached the channel.
func (r Results) AnyDelivered() bool { return r.Rupiah || r.Gold }

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	location := deps.Location
	if location == nil {
		location = time.Local
	}
	registry := deps.Registry
	if registry == nil {
		registry = extract.Default()
	}
	return &Pipeline{
		source:         deps.Source,
		summarizer:     deps.Summarizer,
		notifier:       deps.Notifier,
		refs:           deps.Refs,
		registry:       registry,
		fallbackUSDIDR: deps.FallbackUSDIDR,
		location:       location,
		logger:         logger,
	}
}

// Run executes one full day: rupiah first, then gold with the scraped
// rupiah rate (or the configured fallback) for conversion. A failure
// in one topic never stops the other.
func (p *Pipeline) Run(ctx context.Context, now time.Time) Results {
	now = now.In(p.location)
	var results Results

	rupiahRate, err := p.runRupiah(ctx, now)
	if err != nil {
		p.logger.Error("rupiah run failed", "error", err)
	} else {
		results.Rupiah = true
	}

	usdIDR := rupiahRate
	if usdIDR.IsZero() {
		usdIDR = p.fallbackUSDIDR
		p.logger.Info("using fallback usd/idr rate for gold conversion", "rate", usdIDR)
	}

	if err := p.runGold(ctx, usdIDR); err != nil {
		p.logger.Error("gold run failed", "error", err)
	} else {
		results.Gold = true
	}

	p.logger.Info("run finished", "rupiah", results.Rupiah, "gold", results.Gold)
	return results
}

// runRupiah builds and sends the rupiah script, returning the scraped
// current rate for the gold conversion. A day with no coverage sends
// the notice instead; that still counts as delivered, with no rate.
func (p *Pipeline) runRupiah(ctx context.Context, now time.Time) (decimal.Decimal, error) {
	raw, err := p.source.FetchArticle(ctx, domain.TopicRupiah)
	if errors.Is(err, domain.ErrNoArticle) {
		p.logger.Info("no rupiah article today")
		return decimal.Zero, p.sendNotice(ctx, domain.TopicRupiah)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch rupiah article: %w", err)
	}
	p.logger.Info("rupiah article fetched", "title", raw.Title, "url", raw.URL)

	result, err := p.parse(ctx, raw)
	if err != nil {
		return decimal.Zero, err
	}
	figures := *result.Rupiah
	p.logger.Debug("rupiah figures extracted", "facts", result.Facts())

	analysis, err := p.summarizer.AnalyzeRupiah(ctx, result.Record, figures)
	if err != nil {
		return decimal.Zero, err
	}

	doc, err := script.ComposeRupiah(script.RupiahInput{
		Title:    result.Record.Title,
		Figures:  figures,
		Analysis: analysis,
		Now:      now,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("compose rupiah script: %w", err)
	}

	if err := p.deliver(ctx, doc); err != nil {
		return decimal.Zero, err
	}
	p.storeUpdates(ctx, result.Updates)
	return figures.CurrentRate, nil
}

// runGold builds and sends the gold script using usdIDR to convert the
// world gold quote.
func (p *Pipeline) runGold(ctx context.Context, usdIDR decimal.Decimal) error {
	raw, err := p.source.FetchArticle(ctx, domain.TopicGold)
	if errors.Is(err, domain.ErrNoArticle) {
		p.logger.Info("no gold article today")
		return p.sendNotice(ctx, domain.TopicGold)
	}
	if err != nil {
		return fmt.Errorf("fetch gold article: %w", err)
	}
	p.logger.Info("gold article fetched", "title", raw.Title, "url", raw.URL)

	result, err := p.parse(ctx, raw)
	if err != nil {
		return err
	}
	figures := *result.Gold
	p.logger.Debug("gold figures extracted", "facts", result.Facts())

	analysis, err := p.summarizer.AnalyzeGold(ctx, result.Record, figures, usdIDR)
	if err != nil {
		return err
	}

	doc, err := script.ComposeGold(script.GoldInput{
		Figures:  figures,
		Analysis: analysis,
		USDIDR:   usdIDR,
	})
	if err != nil {
		return fmt.Errorf("compose gold script: %w", err)
	}

	if err := p.deliver(ctx, doc); err != nil {
		return err
	}
	p.storeUpdates(ctx, result.Updates)
	return nil
}

func (p *Pipeline) parse(ctx context.Context, raw domain.RawArticle) (extract.Result, error) {
	parser, err := p.registry.Resolve(raw.Topic)
	if err != nil {
		return extract.Result{}, err
	}
	result, err := parser.Parse(ctx, raw, p.refs)
	if err != nil {
		return extract.Result{}, err
	}
	return result, nil
}

func (p *Pipeline) deliver(ctx context.Context, doc *script.Document) error {
	message := script.DecorateForTelegram(doc.Render(), doc.Topic)
	if err := p.notifier.Send(ctx, message); err != nil {
		return fmt.Errorf("send %s script: %w", doc.Topic, err)
	}
	p.logger.Info("script delivered", "topic", doc.Topic.String(), "length", len(message))
	return nil
}

func (p *Pipeline) sendNotice(ctx context.Context, topic domain.Topic) error {
	if err := p.notifier.Send(ctx, script.NoArticleNotice(topic)); err != nil {
		return fmt.Errorf("send %s notice: %w", topic, err)
	}
	return nil
}

// storeUpdates persists the freshly parsed readings for the next run.
// The script is already out, so a storage failure only logs.
func (p *Pipeline) storeUpdates(ctx context.Context, updates map[string]decimal.Decimal) {
	for series, value := range updates {
		if err := p.refs.Store(ctx, series, value); err != nil {
			p.logger.Warn("storing reference value failed", "series", series, "error", err)
		}
	}
}
