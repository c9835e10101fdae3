package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"

	"github.com/go-shiori/go-readability"
	"go.uber.org/zap"
)

const (
	maxBodyBytes    = 5 << 20
	wikipediaSuffix = " - Wikipedia"
)

// WikipediaScraper implements domain.ArticleFetcher with go-readability.
type WikipediaScraper struct {
	httpClient    *http.Client
	userAgent     string
	maxParagraphs int
}

func NewWikipediaScraper(cfg config.ScraperConfig) *WikipediaScraper {
	return &WikipediaScraper{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		userAgent:     cfg.UserAgent,
		maxParagraphs: cfg.MaxParagraphs,
	}
}

// FetchArticle downloads rawURL and extracts its title, body text and summary.
// The body is limited to the first maxParagraphs paragraphs.
func (s *WikipediaScraper) FetchArticle(ctx context.Context, rawURL string) (*domain.Article, error) {
	l := logger.Get()

	parsedURL, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid URL: %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.Warn("Article source returned non-200 status",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, maxBodyBytes), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("parse article: %w", err)
	}

	paragraphs := splitParagraphs(article.TextContent)
	if len(paragraphs) == 0 {
		return nil, fmt.Errorf("no readable content at %s", rawURL)
	}
	if s.maxParagraphs > 0 && len(paragraphs) > s.maxParagraphs {
		paragraphs = paragraphs[:s.maxParagraphs]
	}

	title := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(article.Title), wikipediaSuffix))
	if title == "" {
		title = titleFromURL(parsedURL)
	}
	if title == "" {
		return nil, fmt.Errorf("no title found at %s", rawURL)
	}

	summary := strings.TrimSpace(article.Excerpt)
	if summary == "" {
		summary = paragraphs[0]
	}

	l.Debug("Fetched article",
		zap.String("url", rawURL),
		zap.String("title", title),
		zap.Int("paragraphs", len(paragraphs)))

	return &domain.Article{
		Title:   title,
		Content: strings.Join(paragraphs, " "),
		Summary: summary,
	}, nil
}

func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return paragraphs
}

// titleFromURL turns /wiki/Alan_Turing into "Alan Turing".
func titleFromURL(u *url.URL) string {
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	return strings.ReplaceAll(base, "_", " ")
}

var _ domain.ArticleFetcher = (*WikipediaScraper)(nil)
