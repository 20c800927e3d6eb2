package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yanuaroby/rupiahemas/internal/domain"
	"github.com/yanuaroby/rupiahemas/internal/extract"
	"github.com/yanuaroby/rupiahemas/internal/ports"
)

const rupiahArticle = `Jakarta - Nilai tukar rupiah terhadap dolar Amerika Serikat dibuka pada ` +
	`level 15.800/US$ pagi ini. Kemudian pada pukul 10:05 WIB, rupiah bergerak ke posisi 15.850/US$. ` +
	`Yen Jepang terdepresiasi 0.25%, sementara won Korea Selatan menguat 0.10%.`

const goldArticle = `Jakarta - Harga emas Antam pada perdagangan Jumat, 21 Februari 2026 dibanderol ` +
	`Rp 1.350.000/gram. Harga buyback emas Antam berada di Rp 1.200.000 per gram. Sementara itu, ` +
	`harga emas dunia di pasar spot tercatat US$ 2.334,55 per troy ons.`

var runDay = time.Date(2026, time.August, 21, 9, 0, 0, 0, time.UTC)

type fakeSource struct {
	articles map[domain.Topic]domain.RawArticle
	errs     map[domain.Topic]error
}

func (f *fakeSource) FetchArticle(_ context.Context, topic domain.Topic) (domain.RawArticle, error) {
	if err := f.errs[topic]; err != nil {
		return domain.RawArticle{}, err
	}
	raw, ok := f.articles[topic]
	if !ok {
		return domain.RawArticle{}, domain.ErrNoArticle
	}
	return raw, nil
}

type fakeSummarizer struct {
	rupiahErr error
	goldErr   error
	goldRate  decimal.Decimal
}

func (f *fakeSummarizer) AnalyzeRupiah(_ context.Context, _ domain.ArticleRecord, _ domain.RupiahFigures) (domain.RupiahAnalysis, error) {
	if f.rupiahErr != nil {
		return domain.RupiahAnalysis{}, f.rupiahErr
	}
	return domain.RupiahAnalysis{
		External:       "Dolar AS bergerak volatil. Pasar menunggu arah The Fed.",
		AsianText:      "Yen Jepang (+0.25%), Won Korea (-0.10%)",
		GlobalDomestic: "Arus modal asing stabil. Bank Indonesia menjaga pasar.",
		ForecastRange:  "Rp 15.800 - Rp 15.900/US$",
	}, nil
}

func (f *fakeSummarizer) AnalyzeGold(_ context.Context, _ domain.ArticleRecord, _ domain.GoldFigures, usdIDR decimal.Decimal) (domain.GoldAnalysis, error) {
	f.goldRate = usdIDR
	if f.goldErr != nil {
		return domain.GoldAnalysis{}, f.goldErr
	}
	return domain.GoldAnalysis{
		GlobalCorrelation: "Emas Antam mengikuti emas dunia. Korelasinya tetap kuat.",
		ForecastUSD:       "US$ 2.320 - US$ 2.360/troy ons",
		ForecastIDR:       "Rp 1.180.000 - Rp 1.210.000/gram",
		Catalysts:         "Permintaan safe haven naik. Dolar AS tertekan.",
	}, nil
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) Send(_ context.Context, message string) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, message)
	return nil
}

type memStore struct {
	values map[string]decimal.Decimal
}

func (m *memStore) Previous(_ context.Context, series string) (decimal.Decimal, bool, error) {
	v, ok := m.values[series]
	return v, ok, nil
}

func (m *memStore) Store(_ context.Context, series string, value decimal.Decimal) error {
	if m.values == nil {
		m.values = map[string]decimal.Decimal{}
	}
	m.values[series] = value
	return nil
}

func (m *memStore) Close() error { return nil }

func seededStore() *memStore {
	return &memStore{values: map[string]decimal.Decimal{
		extract.SeriesRupiahUSD:   decimal.NewFromInt(15800),
		extract.SeriesAntamGram:   decimal.NewFromInt(1345000),
		extract.SeriesBuybackGram: decimal.NewFromInt(1204500),
		extract.SeriesGoldUSD:     decimal.RequireFromString("2324.55"),
	}}
}

func bothArticles() map[domain.Topic]domain.RawArticle {
	return map[domain.Topic]domain.RawArticle{
		domain.TopicRupiah: {
			Topic:     domain.TopicRupiah,
			Title:     "Rupiah Melemah di Hadapan Dolar AS",
			URL:       "https://www.bloombergtechnoz.com/detail/rupiah",
			BodyText:  rupiahArticle,
			FetchedAt: runDay,
		},
		domain.TopicGold: {
			Topic:     domain.TopicGold,
			Title:     "Harga Emas Antam Naik Hari Ini",
			URL:       "https://www.bloombergtechnoz.com/detail/emas",
			BodyText:  goldArticle,
			FetchedAt: runDay,
		},
	}
}

func newTestPipeline(source ports.ArticleSource, sum ports.Summarizer, not ports.Notifier, refs ports.ReferenceStore) *Pipeline {
	return NewPipeline(PipelineDeps{
		Source:         source,
		Summarizer:     sum,
		Notifier:       not,
		Refs:           refs,
		Registry:       extract.Default(),
		FallbackUSDIDR: decimal.NewFromInt(16000),
		Location:       time.UTC,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestRunDeliversBothTopics(t *testing.T) {
	t.Parallel()

	source := &fakeSource{articles: bothArticles()}
	sum := &fakeSummarizer{}
	not := &fakeNotifier{}
	refs := seededStore()

	results := newTestPipeline(source, sum, not, refs).Run(context.Background(), runDay)

	if !results.Rupiah || !results.Gold {
		t.Fatalf("expected both topics delivered, got %+v", results)
	}
	if len(not.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(not.messages))
	}

	rupiahMsg := not.messages[0]
	for _, want := range []string{
		"📊 <b>SCRIPT RUPIAH</b> 📊",
		"<b>JUDUL : Rupiah Melemah di Hadapan Dolar AS</b>",
		"Jumat, 21 Agustus 2026",
		"NILAI TUKAR RUPIAH 15.850/US$ Melemah 0.3% dari sebelumnya",
		"Data dari BloombergTechnoz.com",
	} {
		if !strings.Contains(rupiahMsg, want) {
			t.Fatalf("rupiah message missing %q:\n%s", want, rupiahMsg)
		}
	}

	goldMsg := not.messages[1]
	for _, want := range []string{
		"📊 <b>SCRIPT GOLD</b> 📊",
		"<b>JUDUL : EMAS ANTAM NAIK RP5.000/GRAM, HARI INI</b>",
		"Naik Rp 5.000/gram dari hari sebelumnya",
		// World gold at the scraped 15.850 rate, not the fallback.
		"Rp1.189.660",
		"Bertambah 0,43% dari hari sebelumnya",
	} {
		if !strings.Contains(goldMsg, want) {
			t.Fatalf("gold message missing %q:\n%s", want, goldMsg)
		}
	}
	if strings.Contains(goldMsg, "****") {
		t.Fatalf("separator should be stripped from the telegram message")
	}

	if !sum.goldRate.Equal(decimal.NewFromInt(15850)) {
		t.Fatalf("gold summarizer should see the scraped rate, got %s", sum.goldRate)
	}

	// References advance only after delivery succeeded.
	wantStored := map[string]string{
		extract.SeriesRupiahUSD:   "15850",
		extract.SeriesAntamGram:   "1350000",
		extract.SeriesBuybackGram: "1200000",
		extract.SeriesGoldUSD:     "2334.55",
	}
	for series, want := range wantStored {
		if got := refs.values[series].String(); got != want {
			t.Fatalf("series %s = %s, want %s", series, got, want)
		}
	}
}

func TestRunNoRupiahArticleSendsNoticeAndUsesFallbackRate(t *testing.T) {
	t.Parallel()

	articles := bothArticles()
	delete(articles, domain.TopicRupiah)
	source := &fakeSource{articles: articles}
	sum := &fakeSummarizer{}
	not := &fakeNotifier{}
	refs := seededStore()

	results := newTestPipeline(source, sum, not, refs).Run(context.Background(), runDay)

	if !results.Rupiah || !results.Gold {
		t.Fatalf("notice still counts as delivered, got %+v", results)
	}
	if len(not.messages) != 2 {
		t.Fatalf("expected notice plus gold script, got %d messages", len(not.messages))
	}
	if !strings.Contains(not.messages[0], "<b>Tidak ada artikel</b> tentang rupiah") {
		t.Fatalf("unexpected notice: %s", not.messages[0])
	}
	if !strings.Contains(not.messages[1], "Rp1.200.919") {
		t.Fatalf("gold conversion should use the fallback rate:\n%s", not.messages[1])
	}
	if !sum.goldRate.Equal(decimal.NewFromInt(16000)) {
		t.Fatalf("unexpected conversion rate: %s", sum.goldRate)
	}
	if got := refs.values[extract.SeriesRupiahUSD].String(); got != "15800" {
		t.Fatalf("rupiah reference must not advance without a script, got %s", got)
	}
}

func TestRunTopicFailureIsIsolated(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		articles: bothArticles(),
		errs: map[domain.Topic]error{
			domain.TopicRupiah: &domain.FetchError{URL: "https://www.bloombergtechnoz.com/?s=rupiah", Err: errors.New("timeout")},
		},
	}
	sum := &fakeSummarizer{}
	not := &fakeNotifier{}

	results := newTestPipeline(source, sum, not, seededStore()).Run(context.Background(), runDay)

	if results.Rupiah {
		t.Fatalf("rupiah should have failed")
	}
	if !results.Gold {
		t.Fatalf("gold must still run after a rupiah failure")
	}
	if len(not.messages) != 1 || !strings.Contains(not.messages[0], "SCRIPT GOLD") {
		t.Fatalf("expected only the gold script, got %v", not.messages)
	}
	if !results.AnyDelivered() {
		t.Fatalf("one delivery should count")
	}
}

func TestRunSummarizerFailureFailsOnlyItsTopic(t *testing.T) {
	t.Parallel()

	source := &fakeSource{articles: bothArticles()}
	sum := &fakeSummarizer{goldErr: &domain.SummarizationError{Topic: domain.TopicGold, Err: errors.New("api down")}}
	not := &fakeNotifier{}
	refs := seededStore()

	results := newTestPipeline(source, sum, not, refs).Run(context.Background(), runDay)

	if !results.Rupiah || results.Gold {
		t.Fatalf("expected rupiah only, got %+v", results)
	}
	if len(not.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(not.messages))
	}
	if got := refs.values[extract.SeriesAntamGram].String(); got != "1345000" {
		t.Fatalf("gold references must not advance on failure, got %s", got)
	}
	if got := refs.values[extract.SeriesRupiahUSD].String(); got != "15850" {
		t.Fatalf("rupiah references should advance, got %s", got)
	}
}

func TestRunDeliveryFailureKeepsReferences(t *testing.T) {
	t.Parallel()

	source := &fakeSource{articles: bothArticles()}
	not := &fakeNotifier{err: errors.New("telegram down")}
	refs := seededStore()

	results := newTestPipeline(source, &fakeSummarizer{}, not, refs).Run(context.Background(), runDay)

	if results.AnyDelivered() {
		t.Fatalf("nothing should count as delivered, got %+v", results)
	}
	if got := refs.values[extract.SeriesRupiahUSD].String(); got != "15800" {
		t.Fatalf("references must stay put when delivery fails, got %s", got)
	}
}

func TestRunNoticeFailure(t *testing.T) {
	t.Parallel()

	source := &fakeSource{}
	not := &fakeNotifier{err: errors.New("telegram down")}

	results := newTestPipeline(source, &fakeSummarizer{}, not, seededStore()).Run(context.Background(), runDay)

	if results.AnyDelivered() {
		t.Fatalf("failed notices must not count, got %+v", results)
	}
}
