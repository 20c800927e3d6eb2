package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/shopspring/decimal"

	"github.com/yanuaroby/rupiahemas/internal/config"
	"github.com/yanuaroby/rupiahemas/internal/domain"
	"github.com/yanuaroby/rupiahemas/internal/ports"
	"github.com/yanuaroby/rupiahemas/internal/script"
)

const systemPrompt = "Anda adalah analis keuangan profesional yang bertugas membuat ringkasan berita finansial dalam bahasa Indonesia yang formal dan terstruktur."

// promptBodyLimit caps how much article text rides along in a prompt.
const promptBodyLimit = 1500

// analysisParts is the number of pipe-separated slots every analysis
// response must carry.
const analysisParts = 4

// Groq generates script analyses through the Groq chat completion API,
// which speaks the OpenAI wire format.
type Groq struct {
	client      *openai.Client
	model       string
	hasKey      bool
	useFallback bool
	logger      *slog.Logger
}

var _ ports.Summarizer = (*Groq)(nil)

// NewGroq builds a summarizer from configuration. An empty API key is
// tolerated so the canned fallback can still serve when enabled.
func NewGroq(cfg config.GroqConfig, logger *slog.Logger) *Groq {
	if logger == nil {
		logger = slog.Default()
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.TimeoutSeconds > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout()))
	}
	client := openai.NewClient(opts...)
	return &Groq{
		client:      &client,
		model:       cfg.Model,
		hasKey:      cfg.APIKey != "",
		useFallback: cfg.UseFallback,
		logger:      logger,
	}
}

// AnalyzeRupiah asks the model for the four rupiah narrative slots.
// When the model fails and the fallback flag is on, canned analysis
// takes its place instead of failing the run.
func (g *Groq) AnalyzeRupiah(ctx context.Context, record domain.ArticleRecord, figures domain.RupiahFigures) (domain.RupiahAnalysis, error) {
	parts, err := g.generate(ctx, rupiahPrompt(record, figures))
	if err != nil {
		if g.useFallback {
			g.logger.Warn("using canned rupiah analysis", "error", err)
			return fallbackRupiah(figures), nil
		}
		return domain.RupiahAnalysis{}, &domain.SummarizationError{Topic: domain.TopicRupiah, Err: err}
	}
	return domain.RupiahAnalysis{
		External:       parts[0],
		AsianText:      parts[1],
		GlobalDomestic: parts[2],
		ForecastRange:  parts[3],
	}, nil
}

// AnalyzeGold asks the model for the four gold narrative slots. The
// usdIDR rate rides along so the model can convert its USD forecast.
func (g *Groq) AnalyzeGold(ctx context.Context, record domain.ArticleRecord, figures domain.GoldFigures, usdIDR decimal.Decimal) (domain.GoldAnalysis, error) {
	parts, err := g.generate(ctx, goldPrompt(record, figures, usdIDR))
	if err != nil {
		if g.useFallback {
			g.logger.Warn("using canned gold analysis", "error", err)
			return fallbackGold(figures, usdIDR), nil
		}
		return domain.GoldAnalysis{}, &domain.SummarizationError{Topic: domain.TopicGold, Err: err}
	}
	return domain.GoldAnalysis{
		GlobalCorrelation: parts[0],
		ForecastUSD:       parts[1],
		ForecastIDR:       parts[2],
		Catalysts:         parts[3],
	}, nil
}

// generate runs one chat completion and splits the response into the
// expected pipe-separated slots.
func (g *Groq) generate(ctx context.Context, prompt string) ([]string, error) {
	if !g.hasKey {
		return nil, fmt.Errorf("api key not configured")
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(500),
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	parts := strings.Split(content, "|")
	if len(parts) < analysisParts {
		return nil, fmt.Errorf("expected %d pipe-separated parts, got %d", analysisParts, len(parts))
	}

	out := make([]string, analysisParts)
	for i := range out {
		out[i] = strings.TrimSpace(parts[i])
	}
	return out, nil
}

func rupiahPrompt(record domain.ArticleRecord, fig domain.RupiahFigures) string {
	return fmt.Sprintf(`Berdasarkan data berikut, buat analisis finansial profesional dalam bahasa Indonesia:

JUDUL: %s
TREND: %s
PERUBAHAN: %s%%
NILAI TUKAR PEMBUKAAN: %s
NILAI TUKAR SAAT INI: %s
WAKTU: %s WIB
MATA UANG ASIA: %s

KONTEN BERITA:
%s

Tugas:
1. Buat 2-4 kalimat analisis faktor eksternal (indeks dolar, The Fed, pasar global)
2. Format daftar mata uang Asia dengan persentase
3. Buat 2-4 kalimat analisis faktor global/domestik
4. Berikan perkiraan range pelemahan/penguatan rupiah

Format output (gunakan pemisah |):
[Analisis Eksternal]|[Mata Uang Asia]|[Analisis Global/Domestik]|[Forecast Range]`,
		record.Title,
		script.TrendWord(domain.TopicRupiah, fig.Direction),
		fig.ChangePct.StringFixed(2),
		fig.OpeningRate,
		fig.CurrentRate,
		fig.TimeWIB,
		promptValue(script.AsianList(fig.Asian)),
		truncateRunes(record.BodyText, promptBodyLimit),
	)
}

func goldPrompt(record domain.ArticleRecord, fig domain.GoldFigures, usdIDR decimal.Decimal) string {
	buyback := "tidak tersedia"
	if fig.Buyback.Valid {
		buyback = fig.Buyback.Decimal.String()
	}
	rate := "tidak tersedia"
	if !usdIDR.IsZero() {
		rate = usdIDR.String()
	}
	return fmt.Sprintf(`Berdasarkan data berikut, buat analisis finansial profesional dalam bahasa Indonesia:

JUDUL: %s
TREND: %s
HARGA ANTAM: %s
PERUBAHAN ANTAM: %s
HARGA BUYBACK: %s
HARGA EMAS DUNIA: %s USD
PERUBAHAN EMAS DUNIA: %s%%
TANGGAL: %s

KONTEN BERITA:
%s

Tugas:
1. Buat 2 kalimat korelasi emas Antam dengan emas dunia
2. Berikan perkiraan range kenaikan harga emas dunia dalam USD
3. Konversi forecast ke Rupiah (gunakan kurs %s jika tersedia)
4. Buat 2 kalimat alasan kenaikan/penurunan harga

Format output (gunakan pemisah |):
[Korelasi Emas]|[Forecast USD]|[Forecast IDR]|[Alasan Kenaikan/Penurunan]`,
		record.Title,
		script.TrendWord(domain.TopicGold, fig.AntamDirection),
		fig.AntamPrice,
		fig.AntamChange,
		buyback,
		fig.GlobalUSD,
		fig.GlobalChangePct.StringFixed(2),
		fig.DateText,
		truncateRunes(record.BodyText, promptBodyLimit),
		rate,
	)
}

func promptValue(s string) string {
	if s == "" {
		return "tidak tersedia"
	}
	return s
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
