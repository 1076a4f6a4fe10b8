// Package newsapi implements the article source against the NewsAPI
// "everything" endpoint, normalizing raw items into domain articles.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"NewsAnalyzer/internal/domain"
	"NewsAnalyzer/internal/ports"
)

const (
	defaultBaseURL = "https://newsapi.org/v2"
	defaultSortBy  = "publishedAt"

	// minContentChars is the ingestion floor: shorter items are dropped.
	minContentChars = 50
)

// trailingMarker matches the residue NewsAPI leaves when it truncates
// content, e.g. "... [+1234 chars]".
var trailingMarker = regexp.MustCompile(`\s*\[\+\d*$`)

// Client fetches and normalizes articles from NewsAPI.
type Client struct {
	baseURL string
	apiKey  string
	sortBy  string
	client  *http.Client
	logger  *slog.Logger
}

var _ ports.ArticleSource = (*Client)(nil)

// NewClient builds a reusable NewsAPI client. An empty baseURL selects the
// public endpoint.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		sortBy:  defaultSortBy,
		client:  &http.Client{Timeout: 20 * time.Second},
		logger:  logger,
	}
}

type rawArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

type everythingResponse struct {
	Status   string       `json:"status"`
	Message  string       `json:"message"`
	Articles []rawArticle `json:"articles"`
}

// Fetch retrieves up to maxArticles normalized articles for the query.
// Items without usable content are skipped; ids are 1-based and follow
// the provider's ordering.
func (c *Client) Fetch(ctx context.Context, query, language string, maxArticles int) ([]domain.Article, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &domain.InvalidInputError{Reason: "query cannot be empty"}
	}
	if maxArticles < 1 || maxArticles > 100 {
		return nil, &domain.InvalidInputError{Reason: "max articles must be between 1 and 100"}
	}

	c.debug("fetching articles", "query", query, "max", maxArticles)

	endpoint, err := c.buildURL(query, language, maxArticles)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("User-Agent", "NewsAnalyzer/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("newsapi error %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var payload everythingResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if payload.Status != "ok" {
		return nil, fmt.Errorf("newsapi returned status %q: %s", payload.Status, payload.Message)
	}

	items := payload.Articles
	if len(items) > maxArticles {
		items = items[:maxArticles]
	}

	fetchedAt := time.Now().UTC().Format("2006-01-02 15:04:05")
	articles := make([]domain.Article, 0, len(items))
	for idx, item := range items {
		article, ok := normalizeArticle(item, idx, fetchedAt)
		if !ok {
			c.debug("skipping article", "index", idx, "title", item.Title)
			continue
		}
		articles = append(articles, article)
	}

	c.debug("fetched articles", "count", len(articles))
	return articles, nil
}

func (c *Client) buildURL(query, language string, maxArticles int) (string, error) {
	parsed, err := url.Parse(c.baseURL + "/everything")
	if err != nil {
		return "", fmt.Errorf("invalid base url %s: %w", c.baseURL, err)
	}

	q := parsed.Query()
	q.Set("q", query)
	if language != "" {
		q.Set("language", language)
	}
	q.Set("sortBy", c.sortBy)
	q.Set("pageSize", strconv.Itoa(maxArticles))
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}

// normalizeArticle validates one raw item and assembles the analyzable
// full text. The returned id is the raw item index + 1, so skipped items
// leave gaps but ordering and uniqueness hold.
func normalizeArticle(raw rawArticle, index int, fetchedAt string) (domain.Article, bool) {
	title := strings.TrimSpace(raw.Title)
	description := stripMarkup(strings.TrimSpace(raw.Description))
	content := stripMarkup(strings.TrimSpace(raw.Content))

	if title == "" || (description == "" && content == "") {
		return domain.Article{}, false
	}

	fullText := strings.TrimSpace(description + " " + content)
	fullText = removeTruncationMarker(fullText)

	if utf8.RuneCountInString(fullText) < minContentChars {
		return domain.Article{}, false
	}

	source := raw.Source.Name
	if source == "" {
		source = "Unknown"
	}
	author := strings.TrimSpace(raw.Author)
	if author == "" {
		author = "Unknown"
	}

	return domain.Article{
		ID:          index + 1,
		Title:       title,
		Description: description,
		Content:     content,
		FullText:    fullText,
		Source:      source,
		Author:      author,
		URL:         raw.URL,
		PublishedAt: formatPublishedAt(raw.PublishedAt),
		FetchedAt:   fetchedAt,
	}, true
}

// stripMarkup extracts plain text from fields that carry embedded HTML.
func stripMarkup(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func removeTruncationMarker(text string) string {
	if i := strings.Index(text, " chars]"); i >= 0 {
		text = text[:i]
	}
	text = trailingMarker.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func formatPublishedAt(value string) string {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return parsed.UTC().Format("2006-01-02 15:04:05") + " UTC"
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
