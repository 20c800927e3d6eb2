package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/yanuaroby/rupiahemas/internal/config"
	"github.com/yanuaroby/rupiahemas/internal/domain"
)

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionServer(t *testing.T, content string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "llama-3.1-70b-versatile",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": content,
					},
				},
			},
		})
	}))
}

func testConfig(baseURL string) config.GroqConfig {
	return config.GroqConfig{
		APIKey:         "test-key",
		Model:          "llama-3.1-70b-versatile",
		BaseURL:        baseURL + "/",
		TimeoutSeconds: 5,
	}
}

func rupiahFixture() (domain.ArticleRecord, domain.RupiahFigures) {
	record := domain.ArticleRecord{
		Topic:    domain.TopicRupiah,
		Title:    "Rupiah Melemah Tipis",
		BodyText: "Nilai tukar rupiah dibuka pada level 15.800/US$ pagi ini.",
	}
	figures := domain.RupiahFigures{
		OpeningRate: decimal.NewFromInt(15800),
		CurrentRate: decimal.NewFromInt(15850),
		TimeWIB:     "10:05",
		ChangePct:   decimal.RequireFromString("0.32"),
		Direction:   domain.DirectionUp,
		Asian: []domain.AsianCurrency{
			{Name: "Yen Jepang", ChangePct: decimal.RequireFromString("0.25")},
		},
	}
	return record, figures
}

func goldFixture() (domain.ArticleRecord, domain.GoldFigures) {
	record := domain.ArticleRecord{
		Topic:    domain.TopicGold,
		Title:    "Emas Antam Naik",
		BodyText: "Harga emas Antam hari ini dibanderol Rp 1.000.000/gram.",
	}
	figures := domain.GoldFigures{
		AntamPrice:      decimal.NewFromInt(1000000),
		AntamChange:     decimal.NewFromInt(5000),
		AntamDirection:  domain.DirectionUp,
		GlobalUSD:       decimal.RequireFromString("2334.55"),
		GlobalChangePct: decimal.RequireFromString("0.43"),
		GlobalDirection: domain.DirectionUp,
		DateText:        "21 Februari 2026",
	}
	return record, figures
}

func TestAnalyzeRupiahParsesResponse(t *testing.T) {
	t.Parallel()

	var captured capturedRequest
	server := completionServer(t,
		"Dolar AS menguat. Pasar menunggu The Fed.|Yen Jepang (+0.25%)|Faktor domestik stabil. Arus modal terjaga.|Rp 15.800 - Rp 15.900/US$",
		&captured)
	defer server.Close()

	g := NewGroq(testConfig(server.URL), nil)
	record, figures := rupiahFixture()

	analysis, err := g.AnalyzeRupiah(context.Background(), record, figures)
	if err != nil {
		t.Fatalf("AnalyzeRupiah error: %v", err)
	}

	if analysis.External != "Dolar AS menguat. Pasar menunggu The Fed." {
		t.Fatalf("unexpected external analysis: %q", analysis.External)
	}
	if analysis.AsianText != "Yen Jepang (+0.25%)" {
		t.Fatalf("unexpected asian text: %q", analysis.AsianText)
	}
	if analysis.GlobalDomestic != "Faktor domestik stabil. Arus modal terjaga." {
		t.Fatalf("unexpected domestic analysis: %q", analysis.GlobalDomestic)
	}
	if analysis.ForecastRange != "Rp 15.800 - Rp 15.900/US$" {
		t.Fatalf("unexpected forecast: %q", analysis.ForecastRange)
	}

	if captured.Model != "llama-3.1-70b-versatile" {
		t.Fatalf("unexpected model: %s", captured.Model)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", captured.Messages)
	}
	prompt := captured.Messages[1].Content
	for _, want := range []string{
		"JUDUL: Rupiah Melemah Tipis",
		"TREND: melemah",
		"PERUBAHAN: 0.32%",
		"NILAI TUKAR SAAT INI: 15850",
		"WAKTU: 10:05 WIB",
		"MATA UANG ASIA: Yen Jepang (+0.25%)",
		"pemisah |",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestAnalyzeGoldParsesResponse(t *testing.T) {
	t.Parallel()

	var captured capturedRequest
	server := completionServer(t,
		"Emas Antam mengikuti emas dunia. Korelasi tetap kuat.|US$ 2.320 - US$ 2.350/troy ons|Rp 1.190.000 - Rp 1.210.000/gram|Safe haven diminati. Suku bunga ditahan.",
		&captured)
	defer server.Close()

	g := NewGroq(testConfig(server.URL), nil)
	record, figures := goldFixture()

	analysis, err := g.AnalyzeGold(context.Background(), record, figures, decimal.NewFromInt(16000))
	if err != nil {
		t.Fatalf("AnalyzeGold error: %v", err)
	}

	if analysis.GlobalCorrelation != "Emas Antam mengikuti emas dunia. Korelasi tetap kuat." {
		t.Fatalf("unexpected correlation: %q", analysis.GlobalCorrelation)
	}
	if analysis.ForecastUSD != "US$ 2.320 - US$ 2.350/troy ons" {
		t.Fatalf("unexpected usd forecast: %q", analysis.ForecastUSD)
	}
	if analysis.ForecastIDR != "Rp 1.190.000 - Rp 1.210.000/gram" {
		t.Fatalf("unexpected idr forecast: %q", analysis.ForecastIDR)
	}
	if analysis.Catalysts != "Safe haven diminati. Suku bunga ditahan." {
		t.Fatalf("unexpected catalysts: %q", analysis.Catalysts)
	}

	prompt := captured.Messages[1].Content
	for _, want := range []string{
		"TREND: naik",
		"HARGA ANTAM: 1000000",
		"HARGA BUYBACK: tidak tersedia",
		"HARGA EMAS DUNIA: 2334.55 USD",
		"TANGGAL: 21 Februari 2026",
		"gunakan kurs 16000 jika tersedia",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestAnalyzeRupiahMalformedResponse(t *testing.T) {
	t.Parallel()

	server := completionServer(t, "analisis tanpa pemisah yang diminta", nil)
	defer server.Close()

	g := NewGroq(testConfig(server.URL), nil)
	record, figures := rupiahFixture()

	_, err := g.AnalyzeRupiah(context.Background(), record, figures)
	var sumErr *domain.SummarizationError
	if !errors.As(err, &sumErr) {
		t.Fatalf("expected SummarizationError, got %v", err)
	}
	if sumErr.Topic != domain.TopicRupiah {
		t.Fatalf("unexpected topic: %s", sumErr.Topic)
	}
}

func TestAnalyzeGoldAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad request"}}`, http.StatusBadRequest)
	}))
	defer server.Close()

	g := NewGroq(testConfig(server.URL), nil)
	record, figures := goldFixture()

	_, err := g.AnalyzeGold(context.Background(), record, figures, decimal.NewFromInt(16000))
	var sumErr *domain.SummarizationError
	if !errors.As(err, &sumErr) {
		t.Fatalf("expected SummarizationError, got %v", err)
	}
	if sumErr.Topic != domain.TopicGold {
		t.Fatalf("unexpected topic: %s", sumErr.Topic)
	}
}

func TestAnalyzeRupiahFallbackWithoutKey(t *testing.T) {
	t.Parallel()

	g := NewGroq(config.GroqConfig{Model: "llama-3.1-70b-versatile", UseFallback: true}, nil)
	record, figures := rupiahFixture()
	figures.Direction = domain.DirectionDown

	analysis, err := g.AnalyzeRupiah(context.Background(), record, figures)
	if err != nil {
		t.Fatalf("AnalyzeRupiah error: %v", err)
	}

	if !strings.Contains(analysis.External, "Pergerakan penguatan rupiah") {
		t.Fatalf("unexpected external analysis: %q", analysis.External)
	}
	if analysis.AsianText != "Yen Jepang (+0.25%)" {
		t.Fatalf("unexpected asian text: %q", analysis.AsianText)
	}
	if !strings.Contains(analysis.GlobalDomestic, "Bank Indonesia") {
		t.Fatalf("unexpected domestic analysis: %q", analysis.GlobalDomestic)
	}
	if analysis.ForecastRange != "Rp 15.800 - Rp 15.900/US$" {
		t.Fatalf("unexpected forecast: %q", analysis.ForecastRange)
	}
}

func TestAnalyzeRupiahFallbackWithoutFigures(t *testing.T) {
	t.Parallel()

	g := NewGroq(config.GroqConfig{UseFallback: true}, nil)
	record, _ := rupiahFixture()

	analysis, err := g.AnalyzeRupiah(context.Background(), record, domain.RupiahFigures{})
	if err != nil {
		t.Fatalf("AnalyzeRupiah error: %v", err)
	}
	if analysis.AsianText != "Data mata uang Asia tidak tersedia" {
		t.Fatalf("unexpected asian text: %q", analysis.AsianText)
	}
	if analysis.ForecastRange != "Rp 16.900 - Rp 17.000/US$" {
		t.Fatalf("unexpected forecast: %q", analysis.ForecastRange)
	}
}

func TestAnalyzeGoldFallbackConvertsForecast(t *testing.T) {
	t.Parallel()

	g := NewGroq(config.GroqConfig{UseFallback: true}, nil)
	record, figures := goldFixture()

	analysis, err := g.AnalyzeGold(context.Background(), record, figures, decimal.NewFromInt(16000))
	if err != nil {
		t.Fatalf("AnalyzeGold error: %v", err)
	}

	if !strings.Contains(analysis.GlobalCorrelation, "mengalami kenaikan") {
		t.Fatalf("unexpected correlation: %q", analysis.GlobalCorrelation)
	}
	if analysis.ForecastUSD != "US$ 2.314 - US$ 2.354/troy ons" {
		t.Fatalf("unexpected usd forecast: %q", analysis.ForecastUSD)
	}
	// 2314 and 2354 USD at 16000/31.1035 per gram.
	if analysis.ForecastIDR != "Rp 1.190.348 - Rp 1.210.924/gram" {
		t.Fatalf("unexpected idr forecast: %q", analysis.ForecastIDR)
	}
	if !strings.Contains(analysis.Catalysts, "safe haven") {
		t.Fatalf("unexpected catalysts: %q", analysis.Catalysts)
	}
}

func TestAnalyzeGoldFallbackWithoutRate(t *testing.T) {
	t.Parallel()

	g := NewGroq(config.GroqConfig{UseFallback: true}, nil)
	record, figures := goldFixture()
	figures.AntamDirection = domain.DirectionDown

	analysis, err := g.AnalyzeGold(context.Background(), record, figures, decimal.Zero)
	if err != nil {
		t.Fatalf("AnalyzeGold error: %v", err)
	}
	if !strings.Contains(analysis.GlobalCorrelation, "mengalami penurunan") {
		t.Fatalf("unexpected correlation: %q", analysis.GlobalCorrelation)
	}
	if analysis.ForecastIDR != "Rp 1.050.000 - Rp 1.100.000/gram" {
		t.Fatalf("unexpected idr forecast: %q", analysis.ForecastIDR)
	}
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("panjang ", 300)
	got := truncateRunes(long, promptBodyLimit)
	if len([]rune(got)) != promptBodyLimit {
		t.Fatalf("expected %d runes, got %d", promptBodyLimit, len([]rune(got)))
	}
	if truncateRunes("pendek", promptBodyLimit) != "pendek" {
		t.Fatalf("short text should pass through")
	}
}
