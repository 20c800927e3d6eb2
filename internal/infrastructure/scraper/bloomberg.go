package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/yanuaroby/rupiahemas/internal/domain"
	"github.com/yanuaroby/rupiahemas/internal/ports"
)

var _ ports.ArticleSource = (*Bloomberg)(nil)

const (
	defaultBaseURL    = "https://www.bloombergtechnoz.com"
	defaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultMaxResults = 3
	bodyTextLimit     = 2000
)

// Selector fallback chains: the site has shuffled its markup between
// WordPress themes, so each lookup walks the list until one hits.
var (
	searchResultSelectors = []string{
		"article h2 a",
		"article h3 a",
		".entry-title a",
		".post-title a",
		"h2 a[href]",
		".wp-block-post-title a",
	}
	titleSelectors = []string{
		"h1.entry-title",
		"h1.post-title",
		"h1.wp-block-post-title",
		"article h1",
		"h1",
	}
	contentSelectors = []string{
		".entry-content",
		".post-content",
		"article .content",
		".wp-block-post-content",
	}
)

// Options configure the site client. Zero values fall back to the
// production defaults.
type Options struct {
	BaseURL    string
	UserAgent  string
	MaxResults int
	Keywords   map[domain.Topic]string
}

// Bloomberg fetches topic articles from the BloombergTechnoz search
// page.
type Bloomberg struct {
	client     *http.Client
	baseURL    string
	userAgent  string
	maxResults int
	keywords   map[domain.Topic]string
	logger     *slog.Logger
}

// NewBloomberg wires an HTTP client; a nil client gets a 30 second
// timeout like the production crawler.
func NewBloomberg(client *http.Client, opts Options, logger *slog.Logger) *Bloomberg {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bloomberg{
		client:     client,
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		maxResults: opts.MaxResults,
		keywords:   opts.Keywords,
		logger:     logger,
	}
	if b.baseURL == "" {
		b.baseURL = defaultBaseURL
	}
	if b.userAgent == "" {
		b.userAgent = defaultUserAgent
	}
	if b.maxResults <= 0 {
		b.maxResults = defaultMaxResults
	}
	if b.keywords == nil {
		b.keywords = map[domain.Topic]string{
			domain.TopicRupiah: "rupiah",
			domain.TopicGold:   "emas",
		}
	}
	return b
}

// FetchArticle searches the site for the topic keyword and returns the
// first result that yields both a title and body text. A search with
// no usable result reports domain.ErrNoArticle.
func (b *Bloomberg) FetchArticle(ctx context.Context, topic domain.Topic) (domain.RawArticle, error) {
	keyword, ok := b.keywords[topic]
	if !ok {
		return domain.RawArticle{}, fmt.Errorf("no search keyword for topic %s", topic)
	}

	urls, err := b.searchArticles(ctx, keyword)
	if err != nil {
		return domain.RawArticle{}, err
	}

	for _, articleURL := range urls {
		raw, err := b.readArticle(ctx, topic, articleURL)
		if err != nil {
			b.logger.Warn("skipping article", "url", articleURL, "error", err)
			continue
		}
		return raw, nil
	}

	return domain.RawArticle{}, domain.ErrNoArticle
}

// searchArticles returns up to maxResults article URLs for a keyword.
// The first selector that yields links wins, in page order.
func (b *Bloomberg) searchArticles(ctx context.Context, keyword string) ([]string, error) {
	searchURL := fmt.Sprintf("%s/?s=%s", b.baseURL, url.QueryEscape(keyword))
	doc, err := b.fetchDocument(ctx, searchURL)
	if err != nil {
		return nil, &domain.FetchError{URL: searchURL, Err: err}
	}

	var urls []string
	seen := map[string]struct{}{}
	for _, selector := range searchResultSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			href, ok := sel.Attr("href")
			if !ok || href == "" {
				return
			}
			href = b.resolveURL(href)
			if _, dup := seen[href]; dup {
				return
			}
			seen[href] = struct{}{}
			urls = append(urls, href)
		})
		if len(urls) > 0 {
			break
		}
	}

	if len(urls) > b.maxResults {
		urls = urls[:b.maxResults]
	}
	return urls, nil
}

func (b *Bloomberg) readArticle(ctx context.Context, topic domain.Topic, articleURL string) (domain.RawArticle, error) {
	doc, err := b.fetchDocument(ctx, articleURL)
	if err != nil {
		return domain.RawArticle{}, &domain.FetchError{URL: articleURL, Err: err}
	}

	title := firstText(doc, titleSelectors)
	if title == "" {
		return domain.RawArticle{}, fmt.Errorf("no title found")
	}
	body := articleBody(doc)
	if body == "" {
		return domain.RawArticle{}, fmt.Errorf("no body text found")
	}

	return domain.RawArticle{
		Topic:     topic,
		Title:     title,
		URL:       articleURL,
		BodyText:  body,
		FetchedAt: time.Now(),
	}, nil
}

func (b *Bloomberg) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("site returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

func (b *Bloomberg) resolveURL(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return b.baseURL + href
}

// firstText returns the trimmed text of the first selector that
// matches anything.
func firstText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return strings.TrimSpace(sel.Text())
		}
	}
	return ""
}

// articleBody joins the paragraph text of the article container. When
// no container matches, the page body is flattened and capped as a
// last resort.
func articleBody(doc *goquery.Document) string {
	for _, selector := range contentSelectors {
		container := doc.Find(selector).First()
		if container.Length() == 0 {
			continue
		}
		var paragraphs []string
		container.Find("p").Each(func(_ int, p *goquery.Selection) {
			if text := strings.TrimSpace(p.Text()); text != "" {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) > 0 {
			return strings.Join(paragraphs, " ")
		}
		if text := strings.TrimSpace(container.Text()); text != "" {
			return text
		}
	}

	body := strings.TrimSpace(doc.Find("body").Text())
	if runes := []rune(body); len(runes) > bodyTextLimit {
		body = string(runes[:bodyTextLimit])
	}
	return body
}
