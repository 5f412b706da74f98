// Package search queries a Google search API for keyword rankings and
// optionally scrapes each result page for content metrics. Scrape failures
// are non-fatal: the result keeps its SERP fields and loses only the
// scrape-derived ones.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// Result is one ranked search result, optionally enriched by a page scrape.
type Result struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Snippet  string `json:"snippet"`
	URL      string `json:"url"`

	// Scrape-derived fields; zero when the fetch failed or timed out.
	WordCount int      `json:"word_count,omitempty"`
	Headings  []string `json:"headings,omitempty"`
}

// Client queries the search API and scrapes result pages.
type Client struct {
	client        *resty.Client
	scrapeClient  *resty.Client
	endpoint      string
	scrapeTimeout time.Duration
}

// Config holds the search API credentials and scrape settings.
type Config struct {
	APIKey        string
	Endpoint      string
	ScrapeTimeout time.Duration
}

// NewClient creates a search client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.ScrapeTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	client := resty.New()
	client.SetHeader("X-API-KEY", cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(15 * time.Second)

	scrapeClient := resty.New()
	scrapeClient.SetTimeout(timeout)
	scrapeClient.SetHeader("User-Agent", "shopseo/1.0")

	return &Client{
		client:        client,
		scrapeClient:  scrapeClient,
		endpoint:      cfg.Endpoint,
		scrapeTimeout: timeout,
	}
}

type serperResponse struct {
	Organic []struct {
		Position int    `json:"position"`
		Title    string `json:"title"`
		Snippet  string `json:"snippet"`
		Link     string `json:"link"`
	} `json:"organic"`
}

// Search returns the ranked organic results for a keyword.
func (c *Client) Search(ctx context.Context, keyword string, limit int) ([]Result, error) {
	var resp serperResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]any{"q": keyword, "num": limit, "gl": "fr", "hl": "fr"}).
		SetResult(&resp).
		Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", keyword, err)
	}
	if httpResp.IsError() {
		return nil, fmt.Errorf("search %q: %s", keyword, httpResp.Status())
	}

	results := make([]Result, 0, len(resp.Organic))
	for _, r := range resp.Organic {
		results = append(results, Result{
			Position: r.Position,
			Title:    r.Title,
			Snippet:  r.Snippet,
			URL:      r.Link,
		})
	}
	return results, nil
}

// Enrich scrapes each result page for word count and headings. Failures
// leave the result untouched.
func (c *Client) Enrich(ctx context.Context, results []Result) []Result {
	for i := range results {
		wordCount, headings, err := c.scrape(ctx, results[i].URL)
		if err != nil {
			continue
		}
		results[i].WordCount = wordCount
		results[i].Headings = headings
	}
	return results
}

func (c *Client) scrape(ctx context.Context, pageURL string) (int, []string, error) {
	scrapeCtx, cancel := context.WithTimeout(ctx, c.scrapeTimeout)
	defer cancel()

	resp, err := c.scrapeClient.R().SetContext(scrapeCtx).Get(pageURL)
	if err != nil {
		return 0, nil, err
	}
	if resp.IsError() {
		return 0, nil, fmt.Errorf("scrape %s: %s", pageURL, resp.Status())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return 0, nil, err
	}
	doc.Find("script, style").Remove()

	wordCount := len(strings.Fields(doc.Text()))
	var headings []string
	doc.Find("h1, h2").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			headings = append(headings, text)
		}
	})

	return wordCount, headings, nil
}
